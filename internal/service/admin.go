package service

import (
	"crypto/subtle"
	"sync/atomic"
)

// AdminGate unlocks catalog mutation and order viewing with a shared secret.
// The unlock lasts until Lock; there is no token or expiry.
type AdminGate struct {
	secret   []byte
	unlocked atomic.Bool
}

func NewAdminGate(secret string) *AdminGate {
	return &AdminGate{secret: []byte(secret)}
}

// Unlock compares secret with the configured one.
func (g *AdminGate) Unlock(secret string) error {
	if len(g.secret) == 0 || subtle.ConstantTimeCompare([]byte(secret), g.secret) != 1 {
		return ErrInvalidCredentials
	}
	g.unlocked.Store(true)
	return nil
}

func (g *AdminGate) Lock() { g.unlocked.Store(false) }

func (g *AdminGate) Unlocked() bool { return g.unlocked.Load() }

// Require returns ErrAdminLocked unless the gate is open.
func (g *AdminGate) Require() error {
	if !g.Unlocked() {
		return ErrAdminLocked
	}
	return nil
}
