package gofutures

import (
	"context"
	"errors"
	"testing"
)

// TestSubmitResult_TypedValue verifies the generic submission wrapper
// Given: A typed task returning an int
// When: SubmitResult and Value are used
// Then: The value comes back typed, no assertion needed by the caller
func TestSubmitResult_TypedValue(t *testing.T) {
	b, err := NewBridge(nil)
	if err != nil {
		t.Fatalf("NewBridge() failed: %v", err)
	}
	defer b.Shutdown(true, true)

	fut, err := SubmitResult(b, func(ctx context.Context) (int, error) {
		return 7 * 6, nil
	})
	if err != nil {
		t.Fatalf("SubmitResult() failed: %v", err)
	}

	n, err := fut.Value(context.Background())
	if err != nil {
		t.Fatalf("Value() error = %v, want nil", err)
	}
	if n != 42 {
		t.Errorf("Value() = %d, want 42", n)
	}
}

// TestSubmitResult_ErrorPassesThrough verifies typed error transport
func TestSubmitResult_ErrorPassesThrough(t *testing.T) {
	b, err := NewBridge(nil)
	if err != nil {
		t.Fatalf("NewBridge() failed: %v", err)
	}
	defer b.Shutdown(true, true)

	errBoom := errors.New("boom")
	fut, err := SubmitResult(b, func(ctx context.Context) (string, error) {
		return "", errBoom
	})
	if err != nil {
		t.Fatalf("SubmitResult() failed: %v", err)
	}

	if _, err := fut.Value(context.Background()); !errors.Is(err, errBoom) {
		t.Errorf("Value() error = %v, want errBoom", err)
	}
}

// TestAwait_TypedDelegation verifies the generic delegation wrapper
// Given: A scheduled task using Await with a typed blocking call
// When: The task runs
// Then: The typed result reaches the future
func TestAwait_TypedDelegation(t *testing.T) {
	b, err := NewBridge(nil)
	if err != nil {
		t.Fatalf("NewBridge() failed: %v", err)
	}
	defer b.Shutdown(true, true)

	fut, err := SubmitResult(b, func(ctx context.Context) ([]string, error) {
		return Await(ctx, func() ([]string, error) {
			return []string{"x", "y"}, nil
		})
	})
	if err != nil {
		t.Fatalf("SubmitResult() failed: %v", err)
	}

	values, err := fut.Value(context.Background())
	if err != nil {
		t.Fatalf("Value() error = %v, want nil", err)
	}
	if len(values) != 2 || values[0] != "x" || values[1] != "y" {
		t.Errorf("Value() = %v, want [x y]", values)
	}
}
