package source

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/matzehuels/netloom/pkg/errors"
	"github.com/matzehuels/netloom/pkg/topology"
)

func TestCollectPreservesAdapterOrder(t *testing.T) {
	// The first adapter is the slowest; completion order inverts adapter
	// order, and the results must not.
	adapters := []Adapter{
		&StaticAdapter{Tag: "fabric", Payload: []byte("one"), Delay: 30 * time.Millisecond},
		&StaticAdapter{Tag: "dashboard", Payload: []byte("two"), Delay: 10 * time.Millisecond},
		&StaticAdapter{Tag: "extra", Payload: []byte("three")},
	}

	results := Collect(context.Background(), adapters, time.Second)

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	wantVendors := []topology.Vendor{"fabric", "dashboard", "extra"}
	wantPayloads := []string{"one", "two", "three"}
	for i := range results {
		if results[i].Vendor != wantVendors[i] {
			t.Errorf("results[%d].Vendor = %s, want %s", i, results[i].Vendor, wantVendors[i])
		}
		if string(results[i].Payload) != wantPayloads[i] {
			t.Errorf("results[%d].Payload = %s, want %s", i, results[i].Payload, wantPayloads[i])
		}
	}
}

func TestCollectOneFailureDoesNotAbortOthers(t *testing.T) {
	adapters := []Adapter{
		&StaticAdapter{Tag: "fabric", Err: stderrors.New("api down")},
		&StaticAdapter{Tag: "dashboard", Payload: []byte(`{}`)},
	}

	results := Collect(context.Background(), adapters, time.Second)

	if results[0].Err == nil {
		t.Error("failed adapter reported no error")
	}
	if !errors.Is(results[0].Err, errors.ErrCodeSourceUnavailable) {
		t.Errorf("error code = %v, want %v", errors.GetCode(results[0].Err), errors.ErrCodeSourceUnavailable)
	}
	if results[1].Err != nil {
		t.Errorf("healthy adapter reported error: %v", results[1].Err)
	}
	if string(results[1].Payload) != `{}` {
		t.Errorf("healthy adapter payload = %q, want {}", results[1].Payload)
	}
}

func TestCollectTimeoutIsClassified(t *testing.T) {
	adapters := []Adapter{
		&StaticAdapter{Tag: "fabric", Payload: []byte("slow"), Delay: 500 * time.Millisecond},
	}

	results := Collect(context.Background(), adapters, 20*time.Millisecond)

	if results[0].Err == nil {
		t.Fatal("slow adapter reported no error")
	}
	if !errors.Is(results[0].Err, errors.ErrCodeTimeout) {
		t.Errorf("error code = %v, want %v", errors.GetCode(results[0].Err), errors.ErrCodeTimeout)
	}
	if results[0].Payload != nil {
		t.Error("timed-out adapter returned a payload")
	}
}

func TestCollectDefaultTimeout(t *testing.T) {
	adapters := []Adapter{
		&StaticAdapter{Tag: "fabric", Payload: []byte("fast")},
	}

	// Zero timeout means the default, not an instant deadline.
	results := Collect(context.Background(), adapters, 0)
	if results[0].Err != nil {
		t.Errorf("fetch under default timeout failed: %v", results[0].Err)
	}
}

func TestCollectRecordsDuration(t *testing.T) {
	adapters := []Adapter{
		&StaticAdapter{Tag: "fabric", Payload: []byte("x"), Delay: 15 * time.Millisecond},
	}

	results := Collect(context.Background(), adapters, time.Second)
	if results[0].Duration < 15*time.Millisecond {
		t.Errorf("Duration = %s, want >= 15ms", results[0].Duration)
	}
}

func TestCollectNoAdapters(t *testing.T) {
	results := Collect(context.Background(), nil, time.Second)
	if len(results) != 0 {
		t.Errorf("got %d results for no adapters, want 0", len(results))
	}
}
