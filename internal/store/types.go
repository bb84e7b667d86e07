// Package store provides database operations for clients, ESP integrations,
// prompt profiles, and per-country campaign configuration.
package store

import (
	"time"

	"github.com/google/uuid"
)

// Integration status values. Publishing requires exactly CONNECTED.
const (
	IntegrationConnected    = "CONNECTED"
	IntegrationPending      = "PENDING"
	IntegrationDisconnected = "DISCONNECTED"
)

// Client is a tenant that campaigns are published for.
type Client struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Name      string    `json:"name"`
	Archived  bool      `json:"archived"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// User is a requester identity. Admins bypass the ownership filter but not
// the archived/existence filter.
type User struct {
	ID      uuid.UUID `json:"id"`
	Email   string    `json:"email"`
	IsAdmin bool      `json:"is_admin"`
}

// Integration is a client's connection state with an ESP provider.
type Integration struct {
	ClientID uuid.UUID `json:"client_id"`
	Provider string    `json:"provider"`
	Status   string    `json:"status"`
}

// CountryConfig holds a client's per-market mailing-list target and default
// image.
type CountryConfig struct {
	ClientID        uuid.UUID `json:"client_id"`
	CountryCode     string    `json:"country_code"`
	ListID          string    `json:"list_id"`
	DefaultImageURL string    `json:"default_image_url"`
}

// AccessGrant is the result of an ownership check. It is re-derived on
// every call; grants are never cached.
type AccessGrant struct {
	RequesterID uuid.UUID
	ClientID    uuid.UUID
	Admin       bool
}
