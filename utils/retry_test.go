package utils

import (
	"errors"
	"testing"
	"time"
)

func TestRetrySucceedsAfterFailure(t *testing.T) {
	r := RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond}

	calls := 0
	err := r.Do("flaky op", func() error {
		calls++
		if calls < 2 {
			return errors.New("transient")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

func TestRetryGivesUp(t *testing.T) {
	r := RetryConfig{MaxAttempts: 2, BaseDelay: time.Millisecond}

	sentinel := errors.New("permanent")
	calls := 0
	err := r.Do("doomed op", func() error {
		calls++
		return sentinel
	})

	if !errors.Is(err, sentinel) {
		t.Errorf("expected wrapped sentinel error, got %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}
