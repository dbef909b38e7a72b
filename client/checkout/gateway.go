package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/Alexaslastina/makeadate/pkg/config"
)

// PaymentGateway abstracts the payment step so the simulated gateway
// can be swapped for a real processor without touching the workflow.
type PaymentGateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

type ChargeRequest struct {
	Amount      float64
	Currency    string
	CardNumber  string
	CardName    string
	ExpiryDate  string
	CVV         string
	Description string
	Email       string
}

type ChargeResult struct {
	CardLastFour string
	PaidAt       time.Time
}

// SimulatedGateway approves every charge after a fixed processing
// delay. The delay respects ctx, so an abandoned checkout stops before
// anything is persisted.
type SimulatedGateway struct {
	Delay time.Duration

	now func() time.Time
}

func NewSimulatedGateway(delay time.Duration) *SimulatedGateway {
	return &SimulatedGateway{Delay: delay, now: time.Now}
}

// NewGatewayFromConfig returns the Stripe gateway when a secret key is
// configured, otherwise the simulated one.
func NewGatewayFromConfig(cfg *config.Config) PaymentGateway {
	if cfg.Stripe.SecretKey != "" {
		return NewStripeGateway(cfg.Stripe.SecretKey)
	}
	return NewSimulatedGateway(2 * time.Second)
}

func (g *SimulatedGateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	if g.Delay > 0 {
		timer := time.NewTimer(g.Delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if len(req.CardNumber) < 4 {
		return nil, fmt.Errorf("card number too short")
	}

	return &ChargeResult{
		CardLastFour: req.CardNumber[len(req.CardNumber)-4:],
		PaidAt:       g.now(),
	}, nil
}
