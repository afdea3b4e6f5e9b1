// Package service implements the access-controlled domain operations over
// users, task lists and todos. Each operation checks its own authorization
// rule at its entry point before touching storage; there is no centralized
// gate.
package service

import "github.com/bugasmarcondes/taskade-backend/internal/store"

// RequestContext is the per-request bundle threaded into every operation:
// the storage handle and the identity resolved from the bearer token, if
// any. Built once per inbound call, never shared across requests.
type RequestContext struct {
	Store store.Store
	User  *store.UserRecord
}

// Authenticated reports whether the request carries a resolved identity.
func (rc RequestContext) Authenticated() bool { return rc.User != nil }
