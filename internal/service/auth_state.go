package service

import (
	"sync"

	"github.com/Tron16/SolarScheduler/internal/domain"
)

// AuthStateBus holds the latest authentication snapshot per user and fans
// out every transition to subscribers. The auth service is the only
// writer; publications are totally ordered by the bus lock and versions
// increase strictly, so a subscriber can always discard the older of two
// snapshots. Published snapshots are value copies and never mutated.
type AuthStateBus struct {
	mu      sync.RWMutex
	version uint64
	current map[string]domain.AuthSnapshot
	subs    map[string][]chan domain.AuthSnapshot
}

// NewAuthStateBus creates an empty bus.
func NewAuthStateBus() *AuthStateBus {
	return &AuthStateBus{
		current: make(map[string]domain.AuthSnapshot),
		subs:    make(map[string][]chan domain.AuthSnapshot),
	}
}

// Publish records a new snapshot for the user and notifies subscribers.
// The snapshot's Version is assigned by the bus. Sends happen under the
// bus lock, the same lock Unsubscribe closes channels under, so a send
// can never hit a closed channel; they are non-blocking, so slow
// subscribers drop snapshots rather than stall the writer.
func (b *AuthStateBus) Publish(userID string, snap domain.AuthSnapshot) domain.AuthSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.version++
	snap.Version = b.version
	b.current[userID] = snap

	for _, ch := range b.subs[userID] {
		select {
		case ch <- snap:
		default:
		}
	}
	return snap
}

// PublishAnonymous records the signed-out state for a user.
func (b *AuthStateBus) PublishAnonymous(userID string) domain.AuthSnapshot {
	return b.Publish(userID, domain.AuthSnapshot{})
}

// ApplyRoleResolution folds a completed role lookup into the user's
// snapshot. The lookup is tagged with the session it was issued for; if
// that session has been superseded by the time the result arrives, the
// result is discarded so a stale resolution can never overwrite state
// derived from a newer session. Reports whether the result was applied.
func (b *AuthStateBus) ApplyRoleResolution(userID, sessionID string, isAdmin bool) bool {
	b.mu.Lock()
	cur, ok := b.current[userID]
	if !ok || !cur.IsAuthenticated || cur.SessionID != sessionID {
		b.mu.Unlock()
		return false
	}
	if cur.IsAdmin == isAdmin {
		b.mu.Unlock()
		return true // nothing to change; current snapshot already agrees
	}
	b.version++
	next := cur
	next.Version = b.version
	next.IsAdmin = isAdmin
	b.current[userID] = next
	for _, ch := range b.subs[userID] {
		select {
		case ch <- next:
		default:
		}
	}
	b.mu.Unlock()
	return true
}

// Current returns the latest snapshot for a user. The zero snapshot is
// returned for users the bus has never seen.
func (b *AuthStateBus) Current(userID string) domain.AuthSnapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.current[userID]
}

// Subscribe returns a channel receiving every subsequent snapshot for the
// user. The caller must Unsubscribe on teardown.
func (b *AuthStateBus) Subscribe(userID string) chan domain.AuthSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan domain.AuthSnapshot, 10)
	b.subs[userID] = append(b.subs[userID], ch)
	return ch
}

// Unsubscribe removes a channel from the user's subscriber list.
func (b *AuthStateBus) Unsubscribe(userID string, ch chan domain.AuthSnapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.subs[userID]
	for i, s := range subs {
		if s == ch {
			b.subs[userID] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	close(ch)
}
