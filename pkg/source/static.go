package source

import (
	"context"
	"time"

	"github.com/matzehuels/netloom/pkg/topology"
)

// StaticAdapter serves a fixed in-memory payload. Tests use it to script
// source behavior (payloads, failures, latency); embedders use it when they
// already hold the source document.
type StaticAdapter struct {
	Tag     topology.Vendor
	Payload []byte
	Err     error         // returned instead of the payload when set
	Delay   time.Duration // simulated fetch latency
}

// NewStaticAdapter creates an adapter that always returns payload.
func NewStaticAdapter(vendor topology.Vendor, payload []byte) *StaticAdapter {
	return &StaticAdapter{Tag: vendor, Payload: payload}
}

// Vendor returns the source family tag.
func (a *StaticAdapter) Vendor() topology.Vendor { return a.Tag }

// Fetch returns the configured payload or error, after the configured delay.
func (a *StaticAdapter) Fetch(ctx context.Context) ([]byte, error) {
	if a.Delay > 0 {
		select {
		case <-time.After(a.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if a.Err != nil {
		return nil, a.Err
	}
	return a.Payload, nil
}
