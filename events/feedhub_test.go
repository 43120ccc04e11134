package events_test

import (
	"testing"
	"time"

	"github.com/medisched/backend/events"
)

// A hub whose loop never started must refuse registrations instead of
// blocking the caller on the register channel.
func TestFeedHubRegisterBeforeRun(t *testing.T) {
	h := events.NewFeedHub(nil)

	if h.Ready() {
		t.Fatal("hub should not report ready before Run")
	}

	done := make(chan struct{})
	go func() {
		h.Register(nil, "admin")
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Register blocked with no hub loop running")
	}

	if n := h.ClientCount(); n != 0 {
		t.Errorf("client count: got %d, want 0", n)
	}
}
