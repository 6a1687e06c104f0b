package source

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/netloom/pkg/errors"
	"github.com/matzehuels/netloom/pkg/topology"
)

// DefaultFetchTimeout bounds one adapter call when the caller does not
// supply a timeout.
const DefaultFetchTimeout = 30 * time.Second

// Result holds one adapter's fetch outcome. Exactly one of Payload and Err
// is meaningful; Duration covers the adapter call only.
type Result struct {
	Vendor   topology.Vendor
	Payload  []byte
	Err      error
	Duration time.Duration
}

// Collect fetches all adapters concurrently and returns their results in the
// caller-supplied adapter order, not completion order. The ordering carries
// the merger's precedence rule, so it must survive arbitrary interleaving.
//
// Each adapter runs under its own timeout; one that times out or fails is
// reported as SOURCE_UNAVAILABLE in its slot while the others proceed.
func Collect(ctx context.Context, adapters []Adapter, timeout time.Duration) []Result {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}

	results := make([]Result, len(adapters))
	var wg sync.WaitGroup
	for i, a := range adapters {
		wg.Add(1)
		go func(i int, a Adapter) {
			defer wg.Done()
			results[i] = fetchOne(ctx, a, timeout)
		}(i, a)
	}
	wg.Wait()

	return results
}

// fetchOne runs a single adapter under its timeout and classifies failures.
func fetchOne(ctx context.Context, a Adapter, timeout time.Duration) Result {
	fctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	payload, err := a.Fetch(fctx)
	res := Result{
		Vendor:   a.Vendor(),
		Duration: time.Since(start),
	}

	switch {
	case err == nil:
		res.Payload = payload
	case fctx.Err() == context.DeadlineExceeded:
		res.Err = errors.Wrap(errors.ErrCodeTimeout, err, "source %s timed out after %s", a.Vendor(), timeout)
	default:
		res.Err = errors.Wrap(errors.ErrCodeSourceUnavailable, err, "source %s unavailable", a.Vendor())
	}

	return res
}
