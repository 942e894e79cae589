package auth

import (
	"testing"
	"time"
)

func TestStateStoreConsumeOnce(t *testing.T) {
	store := newStateStore()
	store.put("state-1", time.Now().Add(time.Minute))

	if !store.consume("state-1") {
		t.Fatalf("expected first consume to succeed")
	}
	if store.consume("state-1") {
		t.Fatalf("expected second consume to fail")
	}
}

func TestStateStoreExpired(t *testing.T) {
	store := newStateStore()
	store.put("state-1", time.Now().Add(-time.Second))

	if store.consume("state-1") {
		t.Fatalf("expected expired state to be rejected")
	}
}

func TestStateStoreUnknown(t *testing.T) {
	store := newStateStore()
	if store.consume("never-issued") {
		t.Fatalf("expected unknown state to be rejected")
	}
}

func TestAppendToken(t *testing.T) {
	got, err := appendToken("https://app.example.com/home?tab=docs", "jwt-token")
	if err != nil {
		t.Fatalf("appendToken: %v", err)
	}
	want := "https://app.example.com/home?tab=docs&token=jwt-token"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestAppendTokenEmptyURL(t *testing.T) {
	if _, err := appendToken("", "jwt"); err == nil {
		t.Fatalf("expected error for empty redirect url")
	}
}
