package campaign

import (
	"encoding/json"
	"strconv"
)

// ImageOverrides carries optional per-product image selections chosen by
// the client in the editor.
type ImageOverrides struct {
	SingleImageIndex     *int        `json:"singleImageIndex,omitempty"`
	MultiImageSelections map[int]int `json:"multiImageSelections,omitempty"`
}

// NormalizeImageOverrides validates a raw overrides value. Entries that
// fail type or range checks are dropped silently, never rejected; an
// overrides object with no surviving entries is treated as absent and
// returns nil.
func NormalizeImageOverrides(raw json.RawMessage) *ImageOverrides {
	if raw == nil {
		return nil
	}
	var loose map[string]any
	if err := json.Unmarshal(raw, &loose); err != nil || loose == nil {
		return nil
	}

	out := &ImageOverrides{}

	if idx, ok := nonNegativeInt(loose["singleImageIndex"]); ok {
		out.SingleImageIndex = &idx
	}

	if sel, ok := loose["multiImageSelections"].(map[string]any); ok {
		selections := make(map[int]int)
		for key, value := range sel {
			productIdx, err := strconv.Atoi(key)
			if err != nil || productIdx < 0 {
				continue
			}
			imageIdx, ok := nonNegativeInt(value)
			if !ok {
				continue
			}
			selections[productIdx] = imageIdx
		}
		if len(selections) > 0 {
			out.MultiImageSelections = selections
		}
	}

	if out.SingleImageIndex == nil && out.MultiImageSelections == nil {
		return nil
	}
	return out
}

// nonNegativeInt accepts only integral, non-negative JSON numbers.
func nonNegativeInt(value any) (int, bool) {
	f, ok := value.(float64)
	if !ok || f < 0 || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}
