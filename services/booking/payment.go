package booking

import (
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

// PaymentProcessor creates payment intents for card bookings.
type PaymentProcessor interface {
	// CreatePaymentIntent reserves the amount and returns the processor's
	// intent ID.
	CreatePaymentIntent(amount float64, bookingID string) (string, error)
}

// StripeProcessor implements PaymentProcessor on the Stripe API. The package
// level stripe.Key must be set before use.
type StripeProcessor struct {
	Currency string
}

func NewStripeProcessor() *StripeProcessor {
	return &StripeProcessor{Currency: string(stripe.CurrencyUSD)}
}

func (p *StripeProcessor) CreatePaymentIntent(amount float64, bookingID string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(amount * 100)),
		Currency: stripe.String(p.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("booking_id", bookingID)

	pi, err := paymentintent.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create payment intent: %w", err)
	}
	return pi.ID, nil
}
