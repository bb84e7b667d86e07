package campaign

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/ignite/campaign-studio/internal/pkg/apperr"
	"github.com/ignite/campaign-studio/internal/pkg/logger"
	"github.com/ignite/campaign-studio/internal/store"
)

// Store is the subset of database operations the campaign service needs.
type Store interface {
	AuthorizeClientAccess(ctx context.Context, requesterID, clientID string) (*store.AccessGrant, error)
	GetIntegration(ctx context.Context, clientID uuid.UUID, provider string) (*store.Integration, error)
	GetCountryConfigs(ctx context.Context, clientID uuid.UUID) (map[string]store.CountryConfig, error)
}

// Proxy forwards campaign operations to the ESP backend.
type Proxy interface {
	PublishCampaign(ctx context.Context, payload any) (json.RawMessage, error)
	FetchMetrics(ctx context.Context, payload any) (json.RawMessage, error)
}

// Service handles campaign publishing and metrics retrieval for clients.
type Service struct {
	store    Store
	proxy    Proxy
	provider string
}

// NewService creates a campaign service targeting one ESP provider.
func NewService(st Store, proxy Proxy, provider string) *Service {
	return &Service{store: st, proxy: proxy, provider: provider}
}

// PublishResult reports backend acceptance of a campaign. Acceptance
// means the ESP has queued the campaign for asynchronous scheduling, not
// that anything was sent.
type PublishResult struct {
	Status  string          `json:"status"`
	Backend json.RawMessage `json:"backend,omitempty"`
}

// Publish runs the full gate sequence for a campaign publish. Gates run
// in order: authorization, integration state, payload validation. The
// proxy is never called if any gate fails.
func (s *Service) Publish(ctx context.Context, requesterID, clientID string, body map[string]json.RawMessage) (*PublishResult, error) {
	grant, err := s.store.AuthorizeClientAccess(ctx, requesterID, clientID)
	if err != nil {
		return nil, err
	}

	integ, err := s.store.GetIntegration(ctx, grant.ClientID, s.provider)
	if err != nil {
		return nil, err
	}
	if integ == nil || integ.Status != store.IntegrationConnected {
		return nil, apperr.Newf(apperr.KindValidation, "%s integration is not connected", s.provider)
	}

	req, err := ParsePublishRequest(clientID, body)
	if err != nil {
		return nil, err
	}

	configs, err := s.store.GetCountryConfigs(ctx, grant.ClientID)
	if err != nil {
		return nil, err
	}
	req.ListTargets = listTargets(configs, req.CountryResults)

	backend, err := s.proxy.PublishCampaign(ctx, req)
	if err != nil {
		return nil, err
	}

	logger.Info("campaign accepted",
		"client", clientID,
		"countries", len(req.CountryResults),
		"subject", req.Subject)
	return &PublishResult{Status: "accepted", Backend: backend}, nil
}

// listTargets resolves the mailing-list ID for each country in the
// payload. Countries without a configured list are forwarded without a
// target; the ESP falls back to its own default list.
func listTargets(configs map[string]store.CountryConfig, countryResults map[string]json.RawMessage) map[string]string {
	targets := make(map[string]string)
	for country := range countryResults {
		if cc, ok := configs[country]; ok && cc.ListID != "" {
			targets[country] = cc.ListID
		}
	}
	if len(targets) == 0 {
		return nil
	}
	return targets
}
