package memory

import (
	"context"
	"sync"
	"time"
)

// retention bounds how far back recorded activity is kept. Entries older
// than this are pruned on the next write for the same key.
const retention = 24 * time.Hour

// ActivityWindow is an in-memory implementation of port.ActivityWindow.
// It keeps sliding windows of failed login attempts per account/address
// pair and of request arrivals per address.
type ActivityWindow struct {
	mu           sync.Mutex
	failedLogins map[string][]time.Time
	requests     map[string][]time.Time
}

// NewActivityWindow creates an empty in-memory activity window.
func NewActivityWindow() *ActivityWindow {
	return &ActivityWindow{
		failedLogins: make(map[string][]time.Time),
		requests:     make(map[string][]time.Time),
	}
}

// RecordFailedLogin records one failed login attempt for the
// username/address pair.
func (w *ActivityWindow) RecordFailedLogin(_ context.Context, username, ip string, at time.Time) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	key := loginKey(username, ip)
	w.failedLogins[key] = appendPruned(w.failedLogins[key], at)
	return nil
}

// CountFailedLogins counts failed login attempts for the pair at or
// after the cutoff.
func (w *ActivityWindow) CountFailedLogins(_ context.Context, username, ip string, since time.Time) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	return countSince(w.failedLogins[loginKey(username, ip)], since), nil
}

// RecordRequest records one request arrival for the address.
func (w *ActivityWindow) RecordRequest(_ context.Context, ip string, at time.Time) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.requests[ip] = appendPruned(w.requests[ip], at)
	return nil
}

// CountRequests counts request arrivals for the address at or after the
// cutoff.
func (w *ActivityWindow) CountRequests(_ context.Context, ip string, since time.Time) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	return countSince(w.requests[ip], since), nil
}

func loginKey(username, ip string) string {
	return username + "\x00" + ip
}

// appendPruned appends the new timestamp and drops entries that fell
// out of the retention horizon.
func appendPruned(times []time.Time, at time.Time) []time.Time {
	cutoff := at.Add(-retention)
	kept := times[:0]
	for _, t := range times {
		if !t.Before(cutoff) {
			kept = append(kept, t)
		}
	}
	return append(kept, at)
}

func countSince(times []time.Time, since time.Time) int {
	count := 0
	for _, t := range times {
		if !t.Before(since) {
			count++
		}
	}
	return count
}
