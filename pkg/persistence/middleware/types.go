// Package middleware provides composable wrappers around a session store.
// Each middleware implements ports.SessionStore itself, so wrappers stack in
// any order between the engine and the real backend.
package middleware

import "github.com/aretw0/espalier/pkg/ports"

// Middleware allows wrapping a SessionStore to add behavior.
type Middleware func(ports.SessionStore) ports.SessionStore

// Chain applies middlewares so the first one listed sees calls first.
func Chain(store ports.SessionStore, mws ...Middleware) ports.SessionStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
