package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignite/campaign-studio/internal/pkg/apperr"
)

// AuthorizeClientAccess checks that the requester may act on the client.
// Admins bypass the ownership filter but still cannot see archived or
// nonexistent clients. A client the requester cannot access reports as
// not found rather than forbidden, so its existence is not leaked.
func (s *Store) AuthorizeClientAccess(ctx context.Context, requesterID, clientID string) (*AccessGrant, error) {
	if requesterID == "" {
		return nil, apperr.New(apperr.KindUnauthorized, "requester identity required")
	}
	userID, err := uuid.Parse(requesterID)
	if err != nil {
		return nil, apperr.New(apperr.KindUnauthorized, "requester identity required")
	}
	clID, err := uuid.Parse(clientID)
	if err != nil {
		return nil, apperr.Newf(apperr.KindNotFound, "client %s not found", clientID)
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.New(apperr.KindUnauthorized, "requester identity required")
	}

	client, err := s.GetClient(ctx, clID)
	if err != nil {
		return nil, err
	}
	if client == nil || client.Archived {
		return nil, apperr.Newf(apperr.KindNotFound, "client %s not found", clientID)
	}
	if !user.IsAdmin && client.OwnerID != user.ID {
		return nil, apperr.Newf(apperr.KindNotFound, "client %s not found", clientID)
	}

	return &AccessGrant{RequesterID: user.ID, ClientID: client.ID, Admin: user.IsAdmin}, nil
}
