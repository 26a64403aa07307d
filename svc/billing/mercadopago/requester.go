package mercadopago

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/pedidoz/backoffice/pkg/logger"
)

var errUpstreamStatus = errors.New("mercado pago returned a server error")

// breakerRequester sends SDK requests through a circuit breaker. Transport
// errors and 5xx responses count as failures. Nothing is retried: an open
// breaker fails the call at once.
type breakerRequester struct {
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[*http.Response]
}

func newBreakerRequester(cfg Config, client *http.Client, log *slog.Logger) *breakerRequester {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	return &breakerRequester{
		client: client,
		breaker: gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
			Name:        "mercado-pago",
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     cfg.BreakerCooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= failures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn("circuit breaker state changed",
					logger.Component(name),
					logger.Transition(from.String(), to.String()))
			},
		}),
	}
}

func (r *breakerRequester) Do(req *http.Request) (*http.Response, error) {
	resp, err := r.breaker.Execute(func() (*http.Response, error) {
		resp, err := r.client.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return resp, fmt.Errorf("%w: %d", errUpstreamStatus, resp.StatusCode)
		}
		return resp, nil
	})
	if errors.Is(err, errUpstreamStatus) {
		// Counted against the breaker; the SDK still decodes the error body.
		return resp, nil
	}
	return resp, err
}

func (r *breakerRequester) State() gobreaker.State {
	return r.breaker.State()
}
