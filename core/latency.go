package core

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// Latency simulates the round trip of a remote call.
type Latency time.Duration

// Wait blocks for the latency duration or until ctx is done.
func (l Latency) Wait(ctx context.Context) error {
	if l <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(time.Duration(l))
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "waiting for service")
	}
}
