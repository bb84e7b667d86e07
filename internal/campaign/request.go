// Package campaign implements publish and metrics operations for
// multi-country email campaigns, gated by ownership and integration
// checks before anything is forwarded to the ESP backend.
package campaign

import (
	"encoding/json"

	"github.com/ignite/campaign-studio/internal/pkg/apperr"
)

// PublishRequest is the validated, typed form of a publish payload.
// Caller-supplied JSON is untyped at the boundary; parsing rejects
// structurally wrong shapes and applies documented defaults, so business
// logic never touches loose maps.
type PublishRequest struct {
	ClientID       string                     `json:"clientId"`
	BaseCountry    *string                    `json:"baseCountry"`
	Subject        string                     `json:"subject"`
	Preheader      string                     `json:"preheader"`
	SendDate       *string                    `json:"sendDate"`
	EmailTemplate  map[string]json.RawMessage `json:"emailTemplate"`
	CountryResults map[string]json.RawMessage `json:"countryResults"`
	ImageOverrides *ImageOverrides            `json:"imageOverrides,omitempty"`
	ListTargets    map[string]string          `json:"listTargets,omitempty"`
}

// ParsePublishRequest validates a raw publish payload. emailTemplate.html
// and countryResults are required; subject/preheader coerce to empty
// strings, sendDate and baseCountry to null, when absent or mistyped.
func ParsePublishRequest(clientID string, body map[string]json.RawMessage) (*PublishRequest, error) {
	req := &PublishRequest{ClientID: clientID}

	tplRaw, ok := body["emailTemplate"]
	if !ok {
		return nil, apperr.New(apperr.KindValidation, "emailTemplate.html must be provided")
	}
	var tpl map[string]json.RawMessage
	if err := json.Unmarshal(tplRaw, &tpl); err != nil || tpl == nil {
		return nil, apperr.New(apperr.KindValidation, "emailTemplate.html must be provided")
	}
	var html string
	if err := json.Unmarshal(tpl["html"], &html); err != nil || html == "" {
		return nil, apperr.New(apperr.KindValidation, "emailTemplate.html must be provided")
	}
	req.EmailTemplate = tpl

	crRaw, ok := body["countryResults"]
	if !ok {
		return nil, apperr.New(apperr.KindValidation, "countryResults must be an object keyed by country code")
	}
	var cr map[string]json.RawMessage
	if err := json.Unmarshal(crRaw, &cr); err != nil || cr == nil {
		return nil, apperr.New(apperr.KindValidation, "countryResults must be an object keyed by country code")
	}
	req.CountryResults = cr

	req.Subject = stringOrEmpty(body["subject"])
	req.Preheader = stringOrEmpty(body["preheader"])

	if s := stringOrEmpty(body["sendDate"]); s != "" {
		req.SendDate = &s
	}
	if s := stringOrEmpty(body["baseCountry"]); s != "" {
		req.BaseCountry = &s
	}

	req.ImageOverrides = NormalizeImageOverrides(body["imageOverrides"])
	return req, nil
}

func stringOrEmpty(raw json.RawMessage) string {
	if raw == nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
