package payment

import (
	"context"
	"fmt"
	"strconv"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"
)

const StatusApproved = "approved"

type CheckoutRequest struct {
	Reference    string
	Title        string
	PriceInCents int64
}

type Checkout struct {
	PreferenceID string
	InitPoint    string
}

type Payment struct {
	ID        string
	Status    string
	Reference string
}

type MercadoPago struct {
	preferences     preference.Client
	payments        payment.Client
	notificationURL string
}

func NewMercadoPago(accessToken, notificationURL string) (*MercadoPago, error) {
	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}

	return &MercadoPago{
		preferences:     preference.NewClient(cfg),
		payments:        payment.NewClient(cfg),
		notificationURL: notificationURL,
	}, nil
}

// CreateCheckout opens a checkout preference for a single item priced in
// BRL. Reference comes back on the payment as external_reference.
func (m *MercadoPago) CreateCheckout(ctx context.Context, req CheckoutRequest) (*Checkout, error) {
	res, err := m.preferences.Create(ctx, preference.Request{
		Items: []preference.ItemRequest{
			{
				ID:         req.Reference,
				Title:      req.Title,
				Quantity:   1,
				UnitPrice:  float64(req.PriceInCents) / 100,
				CurrencyID: "BRL",
			},
		},
		ExternalReference: req.Reference,
		NotificationURL:   m.notificationURL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating preference: %w", err)
	}

	return &Checkout{PreferenceID: res.ID, InitPoint: res.InitPoint}, nil
}

func (m *MercadoPago) GetPayment(ctx context.Context, id string) (*Payment, error) {
	n, err := strconv.Atoi(id)
	if err != nil {
		return nil, fmt.Errorf("invalid payment id %q: %w", id, err)
	}

	res, err := m.payments.Get(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("fetching payment %d: %w", n, err)
	}

	return &Payment{
		ID:        strconv.Itoa(res.ID),
		Status:    res.Status,
		Reference: res.ExternalReference,
	}, nil
}
