package product

import (
	"context"
	"encoding/json"

	"github.com/osteele/liquid"
	"golang.org/x/sync/errgroup"

	"github.com/ignite/campaign-studio/internal/ai"
	"github.com/ignite/campaign-studio/internal/pkg/logger"
)

// Generator produces template variants by fanning out one AI call per
// prompt profile.
type Generator struct {
	client ai.Client
	engine *liquid.Engine
}

// NewGenerator creates a template generator backed by the given completion
// client.
func NewGenerator(client ai.Client) *Generator {
	return &Generator{
		client: client,
		engine: liquid.NewEngine(),
	}
}

// GenerateTemplates runs one model invocation per profile, concurrently.
// Profile failures are isolated: a bad render, call, or JSON parse drops
// that profile's entry and never aborts the others. The output preserves
// profile enumeration order among the survivors.
func (g *Generator) GenerateTemplates(ctx context.Context, profiles []PromptProfile, info Info, productURL string) []GeneratedTemplate {
	bindings := liquid.Bindings{
		"title":       info.Title,
		"description": info.Description,
		"price":       info.Price,
		"product_url": productURL,
		"image_url":   info.BestImageURL,
	}

	results := make([]*GeneratedTemplate, len(profiles))
	var group errgroup.Group
	for i, profile := range profiles {
		group.Go(func() error {
			results[i] = g.generateOne(ctx, profile, bindings)
			return nil
		})
	}
	// Never returns an error; every task absorbs its own failure.
	_ = group.Wait()

	templates := []GeneratedTemplate{}
	for _, r := range results {
		if r != nil {
			templates = append(templates, *r)
		}
	}
	return templates
}

func (g *Generator) generateOne(ctx context.Context, profile PromptProfile, bindings liquid.Bindings) *GeneratedTemplate {
	user, err := g.engine.ParseAndRenderString(profile.UserTemplate, bindings)
	if err != nil {
		logger.Warn("profile template render failed", "profile", profile.Name, "error", err)
		return nil
	}

	text, completeErr := g.client.Complete(ctx, ai.Request{
		System:   profile.SystemInstruction,
		User:     user,
		JSONMode: true,
	})
	if completeErr != nil {
		logger.Warn("profile generation failed", "profile", profile.Name, "error", completeErr)
		return nil
	}

	var tpl GeneratedTemplate
	if err := json.Unmarshal([]byte(text), &tpl); err != nil {
		logger.Warn("profile returned unparseable JSON", "profile", profile.Name, "error", err)
		return nil
	}
	return &tpl
}
