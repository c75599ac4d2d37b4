package gofutures

import (
	"context"
	"testing"
)

// TestGlobalBridge_NeverImplicit verifies the opt-in rule
// Given: No InitGlobal call and an empty opt-in env var
// When: RunAsync is used
// Then: It fails instead of constructing a bridge implicitly
func TestGlobalBridge_NeverImplicit(t *testing.T) {
	ShutdownGlobal(true, true)
	t.Setenv(InitEnv, "")

	if _, err := RunAsync(func(ctx context.Context) (any, error) {
		return nil, nil
	}); err == nil {
		t.Fatal("RunAsync() succeeded without opt-in, want error")
	}
}

// TestGlobalBridge_EnvOptIn verifies lazy creation behind the env flag
// Given: The opt-in env var is set and no bridge exists yet
// When: RunAsync is called for the first time
// Then: The global bridge is created lazily and the task runs
func TestGlobalBridge_EnvOptIn(t *testing.T) {
	ShutdownGlobal(true, true)
	t.Setenv(InitEnv, "1")
	defer ShutdownGlobal(true, true)

	fut, err := RunAsync(func(ctx context.Context) (any, error) {
		return "lazy", nil
	})
	if err != nil {
		t.Fatalf("RunAsync() failed: %v", err)
	}

	value, err := fut.Result(context.Background())
	if err != nil {
		t.Fatalf("Result() error = %v, want nil", err)
	}
	if value != "lazy" {
		t.Errorf("Result() = %v, want lazy", value)
	}
}

// TestInitGlobal_Explicit verifies explicit initialization
// Given: InitGlobal has been called, without the env opt-in
// When: RunAsync and SyncToAsync are used
// Then: Both forward to the one global bridge
func TestInitGlobal_Explicit(t *testing.T) {
	ShutdownGlobal(true, true)
	t.Setenv(InitEnv, "")
	if err := InitGlobal(nil); err != nil {
		t.Fatalf("InitGlobal() failed: %v", err)
	}
	defer ShutdownGlobal(true, true)

	fut, err := RunAsync(func(ctx context.Context) (any, error) {
		return SyncToAsync(ctx, func() (any, error) {
			return "delegated", nil
		})
	})
	if err != nil {
		t.Fatalf("RunAsync() failed: %v", err)
	}

	value, err := fut.Result(context.Background())
	if err != nil {
		t.Fatalf("Result() error = %v, want nil", err)
	}
	if value != "delegated" {
		t.Errorf("Result() = %v, want delegated", value)
	}

	// Second InitGlobal is a no-op on the existing bridge.
	if err := InitGlobal(nil); err != nil {
		t.Fatalf("second InitGlobal() failed: %v", err)
	}
}

// TestShutdownGlobal_AllowsReinit verifies the global lifecycle resets
func TestShutdownGlobal_AllowsReinit(t *testing.T) {
	ShutdownGlobal(true, true)
	t.Setenv(InitEnv, "")

	if err := InitGlobal(nil); err != nil {
		t.Fatalf("InitGlobal() failed: %v", err)
	}
	ShutdownGlobal(true, false)

	if _, err := RunAsync(func(ctx context.Context) (any, error) {
		return nil, nil
	}); err == nil {
		t.Fatal("RunAsync() succeeded after ShutdownGlobal without re-init, want error")
	}

	if err := InitGlobal(nil); err != nil {
		t.Fatalf("re-InitGlobal() failed: %v", err)
	}
	ShutdownGlobal(true, false)
}
