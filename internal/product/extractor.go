package product

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ignite/campaign-studio/internal/ai"
	"github.com/ignite/campaign-studio/internal/pkg/logger"
)

const extractSystemInstruction = "extract product information"

// ExtractInfo asks the model for structured product fields for the given
// URL. Extraction failures are absorbed: a call or parse failure returns an
// empty Info so the rest of the pipeline can still run with degraded data.
func ExtractInfo(ctx context.Context, client ai.Client, productURL string) Info {
	user := fmt.Sprintf(`Extract product information from this product page: %s

Return a JSON object with exactly these keys: "title", "description", "price".
Use an empty string for any value you cannot determine.`, productURL)

	text, err := client.Complete(ctx, ai.Request{
		System:   extractSystemInstruction,
		User:     user,
		JSONMode: true,
	})
	if err != nil {
		logger.Warn("product extraction failed", "url", productURL, "error", err)
		return Info{}
	}

	var info Info
	if err := json.Unmarshal([]byte(text), &info); err != nil {
		logger.Warn("product extraction returned unparseable JSON", "url", productURL, "error", err)
		return Info{}
	}
	// Only the three extracted fields come from the model.
	info.Images = nil
	info.BestImageURL = ""
	return info
}
