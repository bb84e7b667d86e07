package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/ignite/campaign-studio/internal/product"
)

// Store provides database operations for campaign entities
type Store struct {
	db *sql.DB
}

// NewStore creates a new store
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// GetClient retrieves a client by ID. Returns nil when no row exists.
func (s *Store) GetClient(ctx context.Context, clientID uuid.UUID) (*Client, error) {
	query := `SELECT id, owner_id, name, archived, created_at, updated_at
		FROM clients WHERE id = $1`

	client := &Client{}
	err := s.db.QueryRowContext(ctx, query, clientID).Scan(
		&client.ID, &client.OwnerID, &client.Name, &client.Archived,
		&client.CreatedAt, &client.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return client, err
}

// GetUser retrieves a user by ID. Returns nil when no row exists.
func (s *Store) GetUser(ctx context.Context, userID uuid.UUID) (*User, error) {
	query := `SELECT id, email, is_admin FROM users WHERE id = $1`

	user := &User{}
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&user.ID, &user.Email, &user.IsAdmin)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return user, err
}

// GetIntegration retrieves a client's integration record for an ESP
// provider. Returns nil when no row exists.
func (s *Store) GetIntegration(ctx context.Context, clientID uuid.UUID, provider string) (*Integration, error) {
	query := `SELECT client_id, provider, status FROM esp_integrations
		WHERE client_id = $1 AND provider = $2`

	integ := &Integration{}
	err := s.db.QueryRowContext(ctx, query, clientID, provider).Scan(
		&integ.ClientID, &integ.Provider, &integ.Status)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return integ, err
}

// GetCountryConfigs retrieves a client's per-market configuration keyed by
// country code.
func (s *Store) GetCountryConfigs(ctx context.Context, clientID uuid.UUID) (map[string]CountryConfig, error) {
	query := `SELECT client_id, country_code, list_id, default_image_url
		FROM country_configs WHERE client_id = $1`

	rows, err := s.db.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	configs := make(map[string]CountryConfig)
	for rows.Next() {
		var cc CountryConfig
		if err := rows.Scan(&cc.ClientID, &cc.CountryCode, &cc.ListID, &cc.DefaultImageURL); err != nil {
			return nil, err
		}
		configs[cc.CountryCode] = cc
	}
	return configs, rows.Err()
}

// ListPromptProfiles enumerates the configured prompt profiles. Position
// order defines generation order.
func (s *Store) ListPromptProfiles(ctx context.Context) ([]product.PromptProfile, error) {
	query := `SELECT id, name, system_instruction, user_instruction_template, position
		FROM prompt_profiles ORDER BY position ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []product.PromptProfile
	for rows.Next() {
		var p product.PromptProfile
		if err := rows.Scan(&p.ID, &p.Name, &p.SystemInstruction, &p.UserTemplate, &p.Position); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}
