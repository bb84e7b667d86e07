// Package product derives structured product data from a scraped page and
// generates marketing-email template variants from it.
package product

// Info is the structured product data for one scrape request. It is built
// once per request and never mutated afterwards; nothing in this package
// persists it.
type Info struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Price        string   `json:"price"`
	Images       []string `json:"images"`
	BestImageURL string   `json:"bestImageUrl"`
}

// PromptProfile is a read-only system/user instruction pair. One template
// variant is generated per profile; Position defines enumeration order.
type PromptProfile struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	SystemInstruction string `json:"systemInstruction"`
	UserTemplate      string `json:"userTemplate"`
	Position          int    `json:"position"`
}

// GeneratedTemplate is one successfully parsed template variant.
type GeneratedTemplate struct {
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// GenerationResult is the response of the full scrape-and-generate pipeline.
// ImageRankDegraded is set when the ranking response was unusable and the
// first image was used as a fallback.
type GenerationResult struct {
	Product           Info                `json:"product"`
	Templates         []GeneratedTemplate `json:"templates"`
	ImageRankDegraded bool                `json:"imageRankDegraded"`
}
