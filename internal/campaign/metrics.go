package campaign

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/ignite/campaign-studio/internal/pkg/apperr"
)

// MetricsResult holds delivery statistics for a client's newsletters.
type MetricsResult struct {
	ClientID string          `json:"clientId"`
	Metrics  json.RawMessage `json:"metrics"`
}

type metricsRequest struct {
	ClientID      string   `json:"clientId"`
	NewsletterIDs []string `json:"newsletterIds"`
}

// FetchMetrics retrieves delivery statistics for previously published
// newsletters. An empty ID set after filtering blanks short-circuits to
// an empty mapping without touching the backend.
func (s *Service) FetchMetrics(ctx context.Context, requesterID, clientID string, newsletterIDs []string) (*MetricsResult, error) {
	if clientID == "" {
		return nil, apperr.New(apperr.KindValidation, "clientId must be provided")
	}

	if _, err := s.store.AuthorizeClientAccess(ctx, requesterID, clientID); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(newsletterIDs))
	for _, id := range newsletterIDs {
		if strings.TrimSpace(id) != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return &MetricsResult{ClientID: clientID, Metrics: json.RawMessage(`{}`)}, nil
	}

	backend, err := s.proxy.FetchMetrics(ctx, metricsRequest{ClientID: clientID, NewsletterIDs: ids})
	if err != nil {
		return nil, err
	}
	if backend == nil {
		backend = json.RawMessage(`{}`)
	}
	return &MetricsResult{ClientID: clientID, Metrics: backend}, nil
}
