package product

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ignite/campaign-studio/internal/ai"
	"github.com/ignite/campaign-studio/internal/pkg/logger"
)

const rankSystemInstruction = "You pick the best product image for an email advertisement."

// RankBestImage asks the model which candidate image suits an email
// advertisement best and returns that image URL. With no candidates the
// model is never invoked and the result is empty. A failed call, a
// non-numeric answer, or an out-of-range index falls back to the first
// image; degraded reports that the fallback was taken.
func RankBestImage(ctx context.Context, client ai.Client, images []string, title string) (best string, degraded bool) {
	if len(images) == 0 {
		return "", false
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Product title: %s\n\nCandidate images:\n", title)
	for i, img := range images {
		fmt.Fprintf(&sb, "%d: %s\n", i, img)
	}
	sb.WriteString("\nWhich image is best suited for an email advertisement? Respond with only the index number.")

	// Plain-text numeric answer, deliberately not JSON mode.
	text, err := client.Complete(ctx, ai.Request{
		System: rankSystemInstruction,
		User:   sb.String(),
	})
	if err != nil {
		logger.Warn("image ranking failed", "error", err)
		return images[0], true
	}

	idx, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || idx < 0 || idx >= len(images) {
		return images[0], true
	}
	return images[idx], false
}
