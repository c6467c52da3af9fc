package service

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"

	"rentloop-backend/internal/domain"
	"rentloop-backend/internal/logger"
)

// stripeGateway implements PaymentGateway against the Stripe API using
// manual-capture payment intents: Authorize places the hold, Capture settles
// it after owner approval, Void releases it on rejection.
type stripeGateway struct {
	sc       *client.API
	currency string
}

func NewStripeGateway(apiKey, currency string) PaymentGateway {
	sc := &client.API{}
	sc.Init(apiKey, nil)
	return &stripeGateway{sc: sc, currency: currency}
}

func (g *stripeGateway) EnsureCustomer(ctx context.Context, email, name string) (string, error) {
	logger.ExternalServiceCall("stripe", "CreateCustomer", "email", email)
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(name),
	}
	params.Context = ctx
	cust, err := g.sc.Customers.New(params)
	logger.ExternalServiceResult("stripe", "CreateCustomer", err)
	if err != nil {
		return "", fmt.Errorf("%w: customer setup: %v", domain.ErrPaymentFailed, err)
	}
	return cust.ID, nil
}

func (g *stripeGateway) Authorize(ctx context.Context, customerRef string, amountCents int64, paymentMethodRef, idempotencyKey string) (*AuthorizationResult, error) {
	logger.ExternalServiceCall("stripe", "AuthorizePaymentIntent", "customer", customerRef, "amount_cents", amountCents)
	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(amountCents),
		Currency:      stripe.String(g.currency),
		Customer:      stripe.String(customerRef),
		CaptureMethod: stripe.String(string(stripe.PaymentIntentCaptureMethodManual)),
	}
	if paymentMethodRef != "" {
		params.PaymentMethod = stripe.String(paymentMethodRef)
		params.Confirm = stripe.Bool(true)
	}
	params.Context = ctx
	params.SetIdempotencyKey(idempotencyKey)

	pi, err := g.sc.PaymentIntents.New(params)
	logger.ExternalServiceResult("stripe", "AuthorizePaymentIntent", err)
	if err != nil {
		return nil, fmt.Errorf("%w: authorization: %v", domain.ErrPaymentFailed, err)
	}
	return &AuthorizationResult{
		PaymentIntentRef: pi.ID,
		ClientSecret:     pi.ClientSecret,
	}, nil
}

func (g *stripeGateway) Capture(ctx context.Context, paymentIntentRef string) error {
	logger.ExternalServiceCall("stripe", "CapturePaymentIntent", "payment_intent", paymentIntentRef)
	params := &stripe.PaymentIntentCaptureParams{}
	params.Context = ctx
	_, err := g.sc.PaymentIntents.Capture(paymentIntentRef, params)
	logger.ExternalServiceResult("stripe", "CapturePaymentIntent", err)
	if err != nil {
		return fmt.Errorf("%w: capture: %v", domain.ErrPaymentFailed, err)
	}
	return nil
}

func (g *stripeGateway) Void(ctx context.Context, paymentIntentRef string) error {
	logger.ExternalServiceCall("stripe", "CancelPaymentIntent", "payment_intent", paymentIntentRef)
	params := &stripe.PaymentIntentCancelParams{}
	params.Context = ctx
	_, err := g.sc.PaymentIntents.Cancel(paymentIntentRef, params)
	logger.ExternalServiceResult("stripe", "CancelPaymentIntent", err)
	if err != nil {
		return fmt.Errorf("%w: void: %v", domain.ErrPaymentFailed, err)
	}
	return nil
}

func (g *stripeGateway) Refund(ctx context.Context, paymentIntentRef string, amountCents int64) error {
	if amountCents <= 0 {
		return nil
	}
	logger.ExternalServiceCall("stripe", "CreateRefund", "payment_intent", paymentIntentRef, "amount_cents", amountCents)
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(paymentIntentRef),
		Amount:        stripe.Int64(amountCents),
	}
	params.Context = ctx
	_, err := g.sc.Refunds.New(params)
	logger.ExternalServiceResult("stripe", "CreateRefund", err)
	if err != nil {
		return fmt.Errorf("%w: refund: %v", domain.ErrPaymentFailed, err)
	}
	return nil
}

func (g *stripeGateway) ReleaseToOwner(ctx context.Context, payoutAccountRef string, amountCents int64, bookingRef string) error {
	if amountCents <= 0 {
		return nil
	}
	logger.ExternalServiceCall("stripe", "CreateTransfer", "destination", payoutAccountRef, "amount_cents", amountCents)
	params := &stripe.TransferParams{
		Amount:        stripe.Int64(amountCents),
		Currency:      stripe.String(g.currency),
		Destination:   stripe.String(payoutAccountRef),
		TransferGroup: stripe.String(bookingRef),
	}
	params.Context = ctx
	_, err := g.sc.Transfers.New(params)
	logger.ExternalServiceResult("stripe", "CreateTransfer", err)
	if err != nil {
		return fmt.Errorf("%w: payout: %v", domain.ErrPaymentFailed, err)
	}
	return nil
}
