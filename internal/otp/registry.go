// Package otp keeps pending password-reset codes in process memory.
//
// The registry is intentionally non-durable: a restart discards every
// pending reset and those codes can never be redeemed. Codes also carry
// no expiry; a code stays valid until it is consumed or overwritten by a
// newer one for the same email.
package otp

import "sync"

// Registry maps a normalized email to its single pending reset code.
// All methods are safe for concurrent use.
type Registry struct {
	mu    sync.Mutex
	codes map[string]string
}

func NewRegistry() *Registry {
	return &Registry{codes: make(map[string]string)}
}

// Put records code as the only live code for email. Any previously
// issued code for the same email is invalidated.
func (r *Registry) Put(email, code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes[email] = code
}

// Consume deletes the entry for email if its stored code equals the
// submitted one, returning whether it did. Check and delete happen under
// one lock, so at most one concurrent caller can consume a given code;
// losers see false, the same as a missing or mismatched code.
func (r *Registry) Consume(email, code string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.codes[email]
	if !ok || stored != code {
		return false
	}
	delete(r.codes, email)
	return true
}

// DeleteIfMatch removes the entry for email only while it still holds
// code. Used to roll back a failed issuance without clobbering a newer
// code issued concurrently.
func (r *Registry) DeleteIfMatch(email, code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if stored, ok := r.codes[email]; ok && stored == code {
		delete(r.codes, email)
	}
}
