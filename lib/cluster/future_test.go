package cluster

import (
	"context"
	"errors"
	"testing"
	"time"
)

// TestFutureComplete tests that Await returns the result of a completed future
func TestFutureComplete(t *testing.T) {
	future := NewFuture[int]()

	go func() {
		time.Sleep(10 * time.Millisecond)
		future.Complete(42)
	}()

	result, err := future.Await()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result != 42 {
		t.Errorf("Expected 42, got %d", result)
	}
	if !future.Succeeded() {
		t.Errorf("Expected future to report success")
	}
}

// TestFutureFail tests that Await returns the failure cause
func TestFutureFail(t *testing.T) {
	cause := errors.New("replica unavailable")
	future := NewFailedFuture[int](cause)

	_, err := future.Await()
	if !errors.Is(err, cause) {
		t.Errorf("Expected %v, got %v", cause, err)
	}
	if future.Succeeded() {
		t.Errorf("Did not expect future to report success")
	}
}

// TestFutureFirstTransitionWins tests that only the first terminal transition takes effect
func TestFutureFirstTransitionWins(t *testing.T) {
	future := NewFuture[int]()
	future.Complete(1)
	future.Complete(2)
	future.Fail(errors.New("too late"))

	result, err := future.Await()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result != 1 {
		t.Errorf("Expected first result 1, got %d", result)
	}
}

// TestFutureAwaitContext tests cancellation of the client-side wait
func TestFutureAwaitContext(t *testing.T) {
	future := NewFuture[int]()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := future.AwaitContext(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}

	// The future itself is untouched and can still resolve
	future.Complete(7)
	result, err := future.AwaitContext(context.Background())
	if err != nil || result != 7 {
		t.Errorf("Expected 7 after resolution, got %d (%v)", result, err)
	}
}

// TestFutureDone tests the done channel signal
func TestFutureDone(t *testing.T) {
	future := NewCompletedFuture("ok")

	select {
	case <-future.Done():
		// resolved
	default:
		t.Errorf("Expected done channel to be closed")
	}
	if future.Result() != "ok" {
		t.Errorf("Expected result ok, got %s", future.Result())
	}
	if future.Err() != nil {
		t.Errorf("Unexpected error: %v", future.Err())
	}
}
