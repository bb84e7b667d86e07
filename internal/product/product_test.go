package product

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/campaign-studio/internal/ai"
)

// fakeClient answers each completion by matching a substring of the user
// instruction, so concurrent calls get deterministic responses.
type fakeClient struct {
	calls     atomic.Int64
	responses map[string]string
	err       error
}

func (f *fakeClient) Complete(ctx context.Context, req ai.Request) (string, error) {
	f.calls.Add(1)
	if f.err != nil {
		return "", f.err
	}
	for marker, response := range f.responses {
		if strings.Contains(req.User, marker) || strings.Contains(req.System, marker) {
			return response, nil
		}
	}
	return "", errors.New("no canned response")
}

func TestExtractInfoAbsorbsFailures(t *testing.T) {
	t.Run("model error yields empty info", func(t *testing.T) {
		client := &fakeClient{err: errors.New("model unavailable")}
		info := ExtractInfo(context.Background(), client, "https://shop.example/p/1")
		assert.Equal(t, Info{}, info)
	})

	t.Run("unparseable response yields empty info", func(t *testing.T) {
		client := &fakeClient{responses: map[string]string{"shop.example": "not json"}}
		info := ExtractInfo(context.Background(), client, "https://shop.example/p/1")
		assert.Equal(t, Info{}, info)
	})

	t.Run("valid response", func(t *testing.T) {
		client := &fakeClient{responses: map[string]string{
			"shop.example": `{"title":"Trail Shoe","description":"Light and grippy","price":"89.99"}`,
		}}
		info := ExtractInfo(context.Background(), client, "https://shop.example/p/1")
		assert.Equal(t, "Trail Shoe", info.Title)
		assert.Equal(t, "89.99", info.Price)
	})
}

func TestRankBestImage(t *testing.T) {
	images := []string{"https://a.jpg", "https://b.jpg", "https://c.jpg"}

	t.Run("empty list never calls the model", func(t *testing.T) {
		client := &fakeClient{}
		best, degraded := RankBestImage(context.Background(), client, nil, "Shoe")
		assert.Equal(t, "", best)
		assert.False(t, degraded)
		assert.Equal(t, int64(0), client.calls.Load())
	})

	t.Run("valid index", func(t *testing.T) {
		client := &fakeClient{responses: map[string]string{"Shoe": "1"}}
		best, degraded := RankBestImage(context.Background(), client, images, "Shoe")
		assert.Equal(t, "https://b.jpg", best)
		assert.False(t, degraded)
	})

	t.Run("out of range falls back to first", func(t *testing.T) {
		client := &fakeClient{responses: map[string]string{"Shoe": "7"}}
		best, degraded := RankBestImage(context.Background(), client, images, "Shoe")
		assert.Equal(t, "https://a.jpg", best)
		assert.True(t, degraded)
	})

	t.Run("non-numeric falls back to first", func(t *testing.T) {
		client := &fakeClient{responses: map[string]string{"Shoe": "the second one"}}
		best, degraded := RankBestImage(context.Background(), client, images, "Shoe")
		assert.Equal(t, "https://a.jpg", best)
		assert.True(t, degraded)
	})

	t.Run("model failure falls back to first", func(t *testing.T) {
		client := &fakeClient{err: errors.New("model unavailable")}
		best, degraded := RankBestImage(context.Background(), client, images, "Shoe")
		assert.Equal(t, "https://a.jpg", best)
		assert.True(t, degraded)
	})
}

func TestGenerateTemplatesPartialFailure(t *testing.T) {
	profiles := []PromptProfile{
		{ID: "p1", Name: "punchy", SystemInstruction: "marker-one", UserTemplate: "Write about {{title}}"},
		{ID: "p2", Name: "broken", SystemInstruction: "marker-two", UserTemplate: "Write about {{title}}"},
		{ID: "p3", Name: "formal", SystemInstruction: "marker-three", UserTemplate: "Write about {{title}}"},
	}
	client := &fakeClient{responses: map[string]string{
		"marker-one":   `{"subject":"First!","html":"<p>1</p>"}`,
		"marker-two":   `not valid json`,
		"marker-three": `{"subject":"Dear customer","html":"<p>3</p>"}`,
	}}

	g := NewGenerator(client)
	templates := g.GenerateTemplates(context.Background(), profiles, Info{Title: "Shoe"}, "https://shop.example/p/1")

	// The broken profile contributes nothing; survivors keep profile order.
	require.Len(t, templates, 2)
	assert.Equal(t, "First!", templates[0].Subject)
	assert.Equal(t, "Dear customer", templates[1].Subject)
}

func TestGenerateTemplatesBadProfileTemplate(t *testing.T) {
	profiles := []PromptProfile{
		{ID: "p1", Name: "broken-liquid", SystemInstruction: "marker-one", UserTemplate: "{{title"},
	}
	client := &fakeClient{responses: map[string]string{
		"marker-one": `{"subject":"x","html":"y"}`,
	}}

	g := NewGenerator(client)
	templates := g.GenerateTemplates(context.Background(), profiles, Info{Title: "Shoe"}, "u")

	assert.Empty(t, templates)
	assert.Equal(t, int64(0), client.calls.Load())
}

func TestCacheRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewCache(client, time.Minute)

	info := Info{Title: "Trail Shoe", Images: []string{"https://a.jpg"}, BestImageURL: "https://a.jpg"}
	cache.Put(context.Background(), "https://shop.example/p/1", info, true)

	got, degraded, ok := cache.Get(context.Background(), "https://shop.example/p/1")
	require.True(t, ok)
	assert.True(t, degraded)
	assert.Equal(t, info, got)

	_, _, ok = cache.Get(context.Background(), "https://shop.example/p/2")
	assert.False(t, ok)
}

func TestNilCacheIsNoop(t *testing.T) {
	var cache *Cache
	cache.Put(context.Background(), "u", Info{}, false)
	_, _, ok := cache.Get(context.Background(), "u")
	assert.False(t, ok)
}

type staticProfiles struct {
	profiles []PromptProfile
}

func (s staticProfiles) ListPromptProfiles(ctx context.Context) ([]PromptProfile, error) {
	return s.profiles, nil
}

func TestPipelineCacheHitSkipsScrape(t *testing.T) {
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewCache(redisClient, time.Minute)

	info := Info{Title: "Trail Shoe", Images: []string{"https://a.jpg"}, BestImageURL: "https://a.jpg"}
	cache.Put(context.Background(), "https://shop.example/p/1", info, false)

	client := &fakeClient{responses: map[string]string{
		"marker-one": `{"subject":"s","html":"h"}`,
	}}
	profiles := staticProfiles{profiles: []PromptProfile{
		{ID: "p1", Name: "punchy", SystemInstruction: "marker-one", UserTemplate: "{{title}}"},
	}}

	// nil scraper: a cache hit must not touch it.
	p := NewPipeline(nil, client, profiles, cache)
	result, err := p.Run(context.Background(), "https://shop.example/p/1")
	require.NoError(t, err)

	assert.Equal(t, "Trail Shoe", result.Product.Title)
	require.Len(t, result.Templates, 1)
	// Only the generation call happened; extraction and ranking were served
	// from the cache.
	assert.Equal(t, int64(1), client.calls.Load())
}
