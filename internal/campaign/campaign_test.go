package campaign

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/campaign-studio/internal/pkg/apperr"
	"github.com/ignite/campaign-studio/internal/store"
)

type fakeStore struct {
	grant       *store.AccessGrant
	grantErr    error
	integration *store.Integration
	configs     map[string]store.CountryConfig
}

func (f *fakeStore) AuthorizeClientAccess(ctx context.Context, requesterID, clientID string) (*store.AccessGrant, error) {
	return f.grant, f.grantErr
}

func (f *fakeStore) GetIntegration(ctx context.Context, clientID uuid.UUID, provider string) (*store.Integration, error) {
	return f.integration, nil
}

func (f *fakeStore) GetCountryConfigs(ctx context.Context, clientID uuid.UUID) (map[string]store.CountryConfig, error) {
	return f.configs, nil
}

type fakeProxy struct {
	calls   int
	result  json.RawMessage
	err     error
	lastReq any
}

func (f *fakeProxy) PublishCampaign(ctx context.Context, payload any) (json.RawMessage, error) {
	f.calls++
	f.lastReq = payload
	return f.result, f.err
}

func (f *fakeProxy) FetchMetrics(ctx context.Context, payload any) (json.RawMessage, error) {
	f.calls++
	f.lastReq = payload
	return f.result, f.err
}

func rawBody(t *testing.T, body string) map[string]json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(body), &m))
	return m
}

func connectedStore() *fakeStore {
	clientID := uuid.New()
	return &fakeStore{
		grant:       &store.AccessGrant{RequesterID: uuid.New(), ClientID: clientID},
		integration: &store.Integration{ClientID: clientID, Provider: "sendletter", Status: store.IntegrationConnected},
	}
}

const validBody = `{
	"subject": "Summer Sale",
	"emailTemplate": {"html": "<html></html>"},
	"countryResults": {"HR": {"subject": "Ljetna rasprodaja"}, "DE": {"subject": "Sommerschlussverkauf"}}
}`

func TestPublishAccepted(t *testing.T) {
	st := connectedStore()
	st.configs = map[string]store.CountryConfig{
		"HR": {CountryCode: "HR", ListID: "list-hr"},
	}
	proxy := &fakeProxy{result: json.RawMessage(`{"campaignId":"c-1"}`)}
	svc := NewService(st, proxy, "sendletter")

	result, err := svc.Publish(context.Background(), "u-1", "cl-1", rawBody(t, validBody))
	require.NoError(t, err)
	assert.Equal(t, "accepted", result.Status)
	assert.Equal(t, 1, proxy.calls)

	req := proxy.lastReq.(*PublishRequest)
	assert.Equal(t, "Summer Sale", req.Subject)
	assert.Equal(t, "", req.Preheader)
	assert.Nil(t, req.SendDate)
	assert.Equal(t, map[string]string{"HR": "list-hr"}, req.ListTargets)
}

func TestPublishIntegrationGateBeforeProxy(t *testing.T) {
	for _, status := range []string{store.IntegrationPending, store.IntegrationDisconnected} {
		t.Run(status, func(t *testing.T) {
			st := connectedStore()
			st.integration.Status = status
			proxy := &fakeProxy{}
			svc := NewService(st, proxy, "sendletter")

			_, err := svc.Publish(context.Background(), "u-1", "cl-1", rawBody(t, validBody))
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
			assert.Equal(t, 0, proxy.calls)
		})
	}

	t.Run("absent integration", func(t *testing.T) {
		st := connectedStore()
		st.integration = nil
		proxy := &fakeProxy{}
		svc := NewService(st, proxy, "sendletter")

		_, err := svc.Publish(context.Background(), "u-1", "cl-1", rawBody(t, validBody))
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		assert.Equal(t, 0, proxy.calls)
	})
}

func TestPublishValidation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"empty email template", `{"emailTemplate": {}, "countryResults": {"HR": {}}}`,
			"emailTemplate.html must be provided"},
		{"missing email template", `{"countryResults": {"HR": {}}}`,
			"emailTemplate.html must be provided"},
		{"array country results", `{"emailTemplate": {"html": "<p/>"}, "countryResults": ["HR"]}`,
			"countryResults must be an object keyed by country code"},
		{"missing country results", `{"emailTemplate": {"html": "<p/>"}}`,
			"countryResults must be an object keyed by country code"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proxy := &fakeProxy{}
			svc := NewService(connectedStore(), proxy, "sendletter")

			_, err := svc.Publish(context.Background(), "u-1", "cl-1", rawBody(t, tt.body))
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
			assert.Contains(t, err.Error(), tt.message)
			assert.Equal(t, 0, proxy.calls)
		})
	}
}

func TestPublishAuthFailurePropagates(t *testing.T) {
	st := &fakeStore{grantErr: apperr.New(apperr.KindNotFound, "client cl-1 not found")}
	proxy := &fakeProxy{}
	svc := NewService(st, proxy, "sendletter")

	_, err := svc.Publish(context.Background(), "u-2", "cl-1", rawBody(t, validBody))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, 0, proxy.calls)
}

func TestNormalizeImageOverrides(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *ImageOverrides
	}{
		{"negative single index dropped", `{"singleImageIndex": -1}`, nil},
		{"valid single index", `{"singleImageIndex": 2}`, &ImageOverrides{SingleImageIndex: intPtr(2)}},
		{"non-numeric key dropped", `{"multiImageSelections": {"0": 2, "abc": 1}}`,
			&ImageOverrides{MultiImageSelections: map[int]int{0: 2}}},
		{"negative value dropped", `{"multiImageSelections": {"0": -3}}`, nil},
		{"fractional index dropped", `{"singleImageIndex": 1.5}`, nil},
		{"not an object", `[1, 2]`, nil},
		{"empty object", `{}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeImageOverrides(json.RawMessage(tt.raw))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeImageOverridesAbsent(t *testing.T) {
	assert.Nil(t, NormalizeImageOverrides(nil))
}

func TestFetchMetrics(t *testing.T) {
	t.Run("empty client id", func(t *testing.T) {
		svc := NewService(connectedStore(), &fakeProxy{}, "sendletter")
		_, err := svc.FetchMetrics(context.Background(), "u-1", "", []string{"n-1"})
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("blank ids short-circuit", func(t *testing.T) {
		proxy := &fakeProxy{}
		svc := NewService(connectedStore(), proxy, "sendletter")

		result, err := svc.FetchMetrics(context.Background(), "u-1", "cl-1", []string{"", "  "})
		require.NoError(t, err)
		assert.Equal(t, 0, proxy.calls)
		assert.JSONEq(t, `{}`, string(result.Metrics))
	})

	t.Run("proxies filtered ids", func(t *testing.T) {
		proxy := &fakeProxy{result: json.RawMessage(`{"n-1":{"opens":10}}`)}
		svc := NewService(connectedStore(), proxy, "sendletter")

		result, err := svc.FetchMetrics(context.Background(), "u-1", "cl-1", []string{"n-1", ""})
		require.NoError(t, err)
		assert.Equal(t, 1, proxy.calls)

		req := proxy.lastReq.(metricsRequest)
		assert.Equal(t, []string{"n-1"}, req.NewsletterIDs)
		assert.JSONEq(t, `{"n-1":{"opens":10}}`, string(result.Metrics))
	})
}

func intPtr(v int) *int { return &v }
