package payment

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"
	"go.mongodb.org/mongo-driver/mongo"

	"watchshop/internal/apperrors"
	"watchshop/internal/logs"
	"watchshop/internal/models"
	"watchshop/internal/notify"
	"watchshop/internal/repository"
)

const receiptTimeout = 30 * time.Second

// IntentCreator is the part of the Stripe payment intent client the bridge uses.
type IntentCreator interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

// NewStripeIntents returns a payment intent client bound to secretKey.
func NewStripeIntents(secretKey string) IntentCreator {
	return &paymentintent.Client{B: stripe.GetBackend(stripe.APIBackend), Key: secretKey}
}

// Intent is returned to the browser to confirm the card payment client-side.
type Intent struct {
	ClientSecret string `json:"clientSecret"`
}

// Settlement carries both driver results of a settle.
type Settlement struct {
	InsertedResult *mongo.InsertOneResult
	DeletedResult  *mongo.DeleteResult
}

// Bridge creates payment intents and records completed payments.
type Bridge struct {
	intents  IntentCreator
	currency string
	payments repository.Payments
	carts    repository.Carts
	notifier notify.Notifier
	now      func() time.Time
}

func NewBridge(intents IntentCreator, currency string, payments repository.Payments, carts repository.Carts, notifier notify.Notifier) *Bridge {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Bridge{
		intents:  intents,
		currency: currency,
		payments: payments,
		carts:    carts,
		notifier: notifier,
		now:      time.Now,
	}
}

// MinorUnits converts a major-unit price to the processor's integer amount.
func MinorUnits(price float64) int64 {
	return decimal.NewFromFloat(price).Shift(2).Round(0).IntPart()
}

// CreateIntent asks the processor for a card-only intent of price major units.
func (b *Bridge) CreateIntent(ctx context.Context, price float64) (*Intent, error) {
	amount := MinorUnits(price)
	if amount <= 0 {
		return nil, apperrors.ErrInvalidBody
	}

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(b.currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	intent, err := b.intents.New(params)
	if err != nil {
		return nil, errors.Wrap(err, "create payment intent")
	}

	logs.FromContext(ctx).Info("payment intent created",
		slog.String("intent_id", intent.ID),
		slog.Int64("amount", amount),
		slog.String("currency", b.currency),
	)
	return &Intent{ClientSecret: intent.ClientSecret}, nil
}

// Settle inserts record and then deletes the cart items it lists. The two writes
// are not atomic: a failed delete leaves the payment record in place.
func (b *Bridge) Settle(ctx context.Context, record *models.PaymentRecord) (*Settlement, error) {
	ids, err := record.CartObjectIDs()
	if err != nil {
		return nil, apperrors.ErrInvalidIdentifier
	}
	if record.Date.IsZero() {
		record.Date = b.now().UTC()
	}
	if record.Status == "" {
		record.Status = models.PaymentStatusPending
	}

	logger := logs.FromContext(ctx)

	inserted, err := b.payments.Insert(ctx, record)
	if err != nil {
		return nil, err
	}

	removed, err := b.carts.DeleteMany(ctx, ids)
	if err != nil {
		logger.Error("payment recorded but cart cleanup failed",
			slog.Any("payment_id", inserted.InsertedID),
			slog.Any("cart_items", record.CartItems),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	logger.Info("payment settled",
		slog.Any("payment_id", inserted.InsertedID),
		slog.Int64("carts_deleted", removed.DeletedCount),
	)

	go b.sendReceipt(context.WithoutCancel(ctx), *record)

	return &Settlement{InsertedResult: inserted, DeletedResult: removed}, nil
}

func (b *Bridge) sendReceipt(ctx context.Context, record models.PaymentRecord) {
	ctx, cancel := context.WithTimeout(ctx, receiptTimeout)
	defer cancel()

	if err := b.notifier.SendReceipt(ctx, &record); err != nil {
		logs.FromContext(ctx).Warn("receipt not sent", slog.String("error", err.Error()))
	}
}

// ProcessorError extracts the status and message of a processor failure so the
// handler can pass it through. ok is false for any other error.
func ProcessorError(err error) (status int, message string, ok bool) {
	var se *stripe.Error
	if !errors.As(err, &se) {
		return 0, "", false
	}
	status = se.HTTPStatusCode
	if status < http.StatusBadRequest {
		status = http.StatusBadGateway
	}
	message = se.Msg
	if message == "" {
		message = "payment processor error"
	}
	return status, message, true
}
