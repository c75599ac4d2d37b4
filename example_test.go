package gofutures_test

import (
	"context"
	"fmt"
	"time"

	gofutures "github.com/KazakovDenis/gofutures"
)

func ExampleNewBridge() {
	bridge, err := gofutures.NewBridge(nil)
	if err != nil {
		panic(err)
	}
	defer bridge.Shutdown(true, false)

	// Both tasks suspend on delegated sleeps, so they overlap with each
	// other and with this goroutine.
	sleepy := func(marker string) gofutures.Task {
		return func(ctx context.Context) (any, error) {
			return gofutures.Delegate(ctx, func() (any, error) {
				time.Sleep(20 * time.Millisecond)
				return marker, nil
			})
		}
	}

	fut1, _ := bridge.Submit(sleepy("first"))
	fut2, _ := bridge.Submit(sleepy("second"))

	v1, _ := fut1.Result(context.Background())
	v2, _ := fut2.Result(context.Background())
	fmt.Println(v1)
	fmt.Println(v2)
	// Output:
	// first
	// second
}

func ExampleBridge_Map() {
	bridge, err := gofutures.NewBridge(nil)
	if err != nil {
		panic(err)
	}
	defer bridge.Shutdown(true, false)

	double := func(ctx context.Context, arg any) (any, error) {
		return arg.(int) * 2, nil
	}

	for value, err := range bridge.Map(double, []any{1, 2, 3}) {
		if err != nil {
			panic(err)
		}
		fmt.Println(value)
	}
	// Output:
	// 2
	// 4
	// 6
}
