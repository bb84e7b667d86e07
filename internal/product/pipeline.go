package product

import (
	"context"

	"github.com/ignite/campaign-studio/internal/ai"
	"github.com/ignite/campaign-studio/internal/pkg/logger"
	"github.com/ignite/campaign-studio/internal/scraper"
)

// ProfileSource enumerates the configured prompt profiles, in order.
type ProfileSource interface {
	ListPromptProfiles(ctx context.Context) ([]PromptProfile, error)
}

// Pipeline composes the scrape, extract, rank, and generate stages into the
// full URL-to-templates flow. Each request is independent; the only shared
// state is the optional product cache.
type Pipeline struct {
	scraper   *scraper.Scraper
	client    ai.Client
	generator *Generator
	profiles  ProfileSource
	cache     *Cache
}

// NewPipeline creates the generation pipeline. cache may be nil.
func NewPipeline(sc *scraper.Scraper, client ai.Client, profiles ProfileSource, cache *Cache) *Pipeline {
	return &Pipeline{
		scraper:   sc,
		client:    client,
		generator: NewGenerator(client),
		profiles:  profiles,
		cache:     cache,
	}
}

// Run executes the pipeline for a product URL. Scrape failures and profile
// enumeration failures are fatal; extraction and ranking failures are
// absorbed so the response still carries whatever templates succeeded,
// with degraded product fields.
func (p *Pipeline) Run(ctx context.Context, productURL string) (*GenerationResult, error) {
	info, degraded, ok := p.cache.Get(ctx, productURL)
	if !ok {
		images, err := p.scraper.ScrapeImages(ctx, productURL)
		if err != nil {
			return nil, err
		}

		info = ExtractInfo(ctx, p.client, productURL)
		info.Images = images
		info.BestImageURL, degraded = RankBestImage(ctx, p.client, images, info.Title)
		p.cache.Put(ctx, productURL, info, degraded)
	}

	profiles, err := p.profiles.ListPromptProfiles(ctx)
	if err != nil {
		return nil, err
	}

	templates := p.generator.GenerateTemplates(ctx, profiles, info, productURL)
	logger.Info("generation complete",
		"url", productURL,
		"images", len(info.Images),
		"profiles", len(profiles),
		"templates", len(templates))

	return &GenerationResult{
		Product:           info,
		Templates:         templates,
		ImageRankDegraded: degraded,
	}, nil
}
