package service

import (
	"testing"

	"github.com/Tron16/SolarScheduler/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthStateBus_PublishAndCurrent(t *testing.T) {
	bus := NewAuthStateBus()

	assert.Equal(t, domain.AuthSnapshot{}, bus.Current("u1"), "unseen users are anonymous")

	snap := bus.Publish("u1", domain.AuthSnapshot{
		UserID:          "u1",
		SessionID:       "s1",
		IsAuthenticated: true,
	})
	assert.Equal(t, snap, bus.Current("u1"))
	assert.True(t, bus.Current("u1").IsAuthenticated)

	out := bus.PublishAnonymous("u1")
	assert.False(t, out.IsAuthenticated)
	assert.Greater(t, out.Version, snap.Version)
}

func TestAuthStateBus_VersionsStrictlyIncrease(t *testing.T) {
	bus := NewAuthStateBus()

	var last uint64
	for i := 0; i < 20; i++ {
		snap := bus.Publish("u1", domain.AuthSnapshot{UserID: "u1", SessionID: "s1", IsAuthenticated: true})
		assert.Greater(t, snap.Version, last)
		last = snap.Version
	}
}

func TestAuthStateBus_ApplyRoleResolution(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(*AuthStateBus)
		sessionID   string
		isAdmin     bool
		wantApplied bool
		wantAdmin   bool
	}{
		{
			name: "applies to the session it was issued for",
			setup: func(b *AuthStateBus) {
				b.Publish("u1", domain.AuthSnapshot{UserID: "u1", SessionID: "s1", IsAuthenticated: true})
			},
			sessionID:   "s1",
			isAdmin:     true,
			wantApplied: true,
			wantAdmin:   true,
		},
		{
			name: "discards a result for a superseded session",
			setup: func(b *AuthStateBus) {
				b.Publish("u1", domain.AuthSnapshot{UserID: "u1", SessionID: "s1", IsAuthenticated: true})
				// A newer sign-in replaced s1 before the lookup came back.
				b.Publish("u1", domain.AuthSnapshot{UserID: "u1", SessionID: "s2", IsAuthenticated: true})
			},
			sessionID:   "s1",
			isAdmin:     true,
			wantApplied: false,
			wantAdmin:   false,
		},
		{
			name: "discards a result after sign-out",
			setup: func(b *AuthStateBus) {
				b.Publish("u1", domain.AuthSnapshot{UserID: "u1", SessionID: "s1", IsAuthenticated: true})
				b.PublishAnonymous("u1")
			},
			sessionID:   "s1",
			isAdmin:     true,
			wantApplied: false,
			wantAdmin:   false,
		},
		{
			name:        "discards a result for a user never seen",
			setup:       func(*AuthStateBus) {},
			sessionID:   "s1",
			isAdmin:     true,
			wantApplied: false,
			wantAdmin:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := NewAuthStateBus()
			tt.setup(bus)

			applied := bus.ApplyRoleResolution("u1", tt.sessionID, tt.isAdmin)

			assert.Equal(t, tt.wantApplied, applied)
			assert.Equal(t, tt.wantAdmin, bus.Current("u1").IsAdmin)
		})
	}
}

func TestAuthStateBus_Subscribe(t *testing.T) {
	bus := NewAuthStateBus()

	ch := bus.Subscribe("u1")
	defer bus.Unsubscribe("u1", ch)

	bus.Publish("u1", domain.AuthSnapshot{UserID: "u1", SessionID: "s1", IsAuthenticated: true})
	bus.ApplyRoleResolution("u1", "s1", true)
	bus.PublishAnonymous("u1")

	first := <-ch
	require.True(t, first.IsAuthenticated)
	assert.False(t, first.IsAdmin)

	second := <-ch
	assert.True(t, second.IsAdmin)
	assert.Greater(t, second.Version, first.Version)

	third := <-ch
	assert.False(t, third.IsAuthenticated)

	// Other users' transitions never reach this subscriber.
	bus.Publish("u2", domain.AuthSnapshot{UserID: "u2", SessionID: "sx", IsAuthenticated: true})
	select {
	case snap := <-ch:
		t.Fatalf("unexpected snapshot for another user: %+v", snap)
	default:
	}
}

func TestAuthStateBus_PublishDuringUnsubscribe(t *testing.T) {
	bus := NewAuthStateBus()

	// Churn subscriptions while publishing; a send racing a channel close
	// would panic.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			ch := bus.Subscribe("u1")
			bus.Unsubscribe("u1", ch)
		}
	}()

	for i := 0; i < 500; i++ {
		bus.Publish("u1", domain.AuthSnapshot{UserID: "u1", SessionID: "s1", IsAuthenticated: true})
		bus.ApplyRoleResolution("u1", "s1", i%2 == 0)
	}
	<-done
}

func TestAuthStateBus_RoleResolutionWithoutChangeStaysQuiet(t *testing.T) {
	bus := NewAuthStateBus()
	bus.Publish("u1", domain.AuthSnapshot{UserID: "u1", SessionID: "s1", IsAuthenticated: true})

	ch := bus.Subscribe("u1")
	defer bus.Unsubscribe("u1", ch)

	applied := bus.ApplyRoleResolution("u1", "s1", false)
	assert.True(t, applied, "confirming the current flag still counts as applied")

	select {
	case snap := <-ch:
		t.Fatalf("no-op resolution should not republish, got %+v", snap)
	default:
	}
}
