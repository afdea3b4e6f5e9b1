package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bugasmarcondes/taskade-backend/internal/auth"
	"github.com/bugasmarcondes/taskade-backend/internal/store"
)

// IdentityResolver turns an inbound bearer credential into a user record,
// once per request. Absence of a valid identity is a normal outcome: a
// missing, malformed, expired or orphaned token all resolve to anonymous
// (nil) rather than rejecting the request. Authorization failures surface
// later, only if an operation requires identity.
type IdentityResolver struct {
	Store  store.Store
	Tokens *auth.TokenService
}

// Resolve returns the user the bearer token identifies, or nil for
// anonymous. Only storage failures other than "no such user" are errors.
func (r *IdentityResolver) Resolve(ctx context.Context, bearer string) (*store.UserRecord, error) {
	if bearer == "" {
		return nil, nil
	}
	userID, ok := r.Tokens.Verify(bearer)
	if !ok {
		return nil, nil
	}
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, nil
	}
	user, err := r.Store.UserByID(ctx, oid)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Token outlived its user, e.g. the account was deleted.
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}
