package xopbytes

import (
	"time"

	"github.com/sony/gobreaker"
)

// BreakerSettings tunes Breaker.  Zero values get defaults.
type BreakerSettings struct {
	// Name shows up in state change notifications
	Name string
	// ConsecutiveFailures opens the breaker (default 5)
	ConsecutiveFailures uint32
	// Cooldown is how long the breaker stays open before a trial
	// write is allowed (default 10s)
	Cooldown time.Duration
	// OnStateChange is optional
	OnStateChange func(name string, from, to gobreaker.State)
}

type breakerWriter struct {
	under BytesWriter
	cb    *gobreaker.CircuitBreaker
}

var _ BytesWriter = &breakerWriter{}

// Breaker wraps a BytesWriter with a circuit breaker.  After enough
// consecutive failures, writes fail immediately with
// gobreaker.ErrOpenState instead of waiting on a broken sink.  After
// the cooldown, one trial write decides whether to close the breaker.
func Breaker(w BytesWriter, settings BreakerSettings) BytesWriter {
	if settings.ConsecutiveFailures == 0 {
		settings.ConsecutiveFailures = 5
	}
	if settings.Cooldown == 0 {
		settings.Cooldown = 10 * time.Second
	}
	if settings.Name == "" {
		settings.Name = "xopbytes"
	}
	threshold := settings.ConsecutiveFailures
	return &breakerWriter{
		under: w,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        settings.Name,
			MaxRequests: 1,
			Timeout:     settings.Cooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
			OnStateChange: settings.OnStateChange,
		}),
	}
}

func (b *breakerWriter) Write(line []byte) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.under.Write(line)
	})
	return err
}

func (b *breakerWriter) Close() { b.under.Close() }
