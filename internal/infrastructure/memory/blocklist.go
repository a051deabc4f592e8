package memory

import (
	"context"
	"sync"
)

// Blocklist is an in-memory implementation of port.Blocklist.
type Blocklist struct {
	mu      sync.RWMutex
	blocked map[string]struct{}
}

// NewBlocklist creates an empty in-memory blocklist.
func NewBlocklist() *Blocklist {
	return &Blocklist{
		blocked: make(map[string]struct{}),
	}
}

// Block adds an IP address to the blocklist. Blocking an already
// blocked address is a no-op.
func (b *Blocklist) Block(_ context.Context, ip string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.blocked[ip] = struct{}{}
	return nil
}

// Unblock removes an IP address from the blocklist. Returns true when
// the address was present.
func (b *Blocklist) Unblock(_ context.Context, ip string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	_, present := b.blocked[ip]
	delete(b.blocked, ip)
	return present, nil
}

// IsBlocked reports whether an IP address is currently blocked.
func (b *Blocklist) IsBlocked(_ context.Context, ip string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	_, present := b.blocked[ip]
	return present, nil
}

// Snapshot returns a copy of the currently blocked addresses.
func (b *Blocklist) Snapshot(_ context.Context) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ips := make([]string, 0, len(b.blocked))
	for ip := range b.blocked {
		ips = append(ips, ip)
	}
	return ips, nil
}
