// Package registry tracks per-run emission state: which companies are
// satisfied and which person or email records already went out.
package registry

import (
	"strings"
	"sync"
)

// Registry is safe for concurrent use by the worker pool. All checks
// are check-and-insert under one lock so two workers cannot both claim
// the same record.
type Registry struct {
	mu         sync.Mutex
	satisfied  map[string]struct{}
	personKeys map[string]struct{}
	emailKeys  map[string]struct{}
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		satisfied:  make(map[string]struct{}),
		personKeys: make(map[string]struct{}),
		emailKeys:  make(map[string]struct{}),
	}
}

// MarkSatisfied records that a company produced at least one record.
// Empty domains are ignored.
func (r *Registry) MarkSatisfied(domain string) {
	if domain == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.satisfied[strings.ToLower(domain)] = struct{}{}
}

// Satisfied reports whether a company already produced records.
func (r *Registry) Satisfied(domain string) bool {
	if domain == "" {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.satisfied[strings.ToLower(domain)]
	return ok
}

// ClaimPerson returns true exactly once per domain|name|title|email
// combination.
func (r *Registry) ClaimPerson(domain, name, title, email string) bool {
	key := strings.ToLower(domain + "|" + name + "|" + title + "|" + email)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.personKeys[key]; ok {
		return false
	}
	r.personKeys[key] = struct{}{}
	return true
}

// ClaimEmail returns true exactly once per domain|email combination.
func (r *Registry) ClaimEmail(domain, email string) bool {
	key := strings.ToLower(domain + "|" + email)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.emailKeys[key]; ok {
		return false
	}
	r.emailKeys[key] = struct{}{}
	return true
}
