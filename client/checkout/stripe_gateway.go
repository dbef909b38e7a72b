package checkout

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

// StripeGateway is the production PaymentGateway. Card details never
// reach it directly in a real deployment (Stripe tokenizes them
// client-side); the last four digits are only echoed for the receipt.
type StripeGateway struct{}

func NewStripeGateway(secretKey string) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{}
}

func (g *StripeGateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	currency := req.Currency
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}

	params := &stripe.PaymentIntentParams{
		Amount:       stripe.Int64(int64(math.Round(req.Amount * 100))),
		Currency:     stripe.String(currency),
		Description:  stripe.String(req.Description),
		ReceiptEmail: stripe.String(req.Email),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx

	intent, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	if intent.Status == stripe.PaymentIntentStatusCanceled {
		return nil, fmt.Errorf("payment intent %s was canceled", intent.ID)
	}

	lastFour := req.CardNumber
	if len(lastFour) > 4 {
		lastFour = lastFour[len(lastFour)-4:]
	}

	return &ChargeResult{
		CardLastFour: lastFour,
		PaidAt:       time.Now(),
	}, nil
}
