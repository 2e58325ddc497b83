package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/vetclinic-api/internal/audit"
	"github.com/BruksfildServices01/vetclinic-api/internal/domain"
	"github.com/BruksfildServices01/vetclinic-api/internal/httperr"
	"github.com/BruksfildServices01/vetclinic-api/internal/infra/payment"
	"github.com/BruksfildServices01/vetclinic-api/internal/models"
	"github.com/BruksfildServices01/vetclinic-api/internal/session"
)

// ErrPaymentsDisabled is returned when no payment gateway is configured.
var ErrPaymentsDisabled = errors.New("payments disabled")

type Repository interface {
	ListActivePlans(ctx context.Context) ([]models.Plan, error)
	GetPlanByID(ctx context.Context, id uuid.UUID) (*models.Plan, error)
	HasActiveSubscription(ctx context.Context, clinicID uuid.UUID) (bool, error)
	CreateSubscription(ctx context.Context, sub *models.Subscription) error
	GetSubscriptionByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error)
	ActivateSubscription(ctx context.Context, id uuid.UUID, paymentID string) (bool, error)
}

type Gateway interface {
	CreateCheckout(ctx context.Context, req payment.CheckoutRequest) (*payment.Checkout, error)
	GetPayment(ctx context.Context, id string) (*payment.Payment, error)
}

type Guard interface {
	ClinicForSession(ctx context.Context, sess *session.Session) (*models.Clinic, error)
}

type Auditor interface {
	Dispatch(ev audit.Event)
}

type CheckoutResult struct {
	Subscription *models.Subscription `json:"subscription"`
	InitPoint    string               `json:"init_point"`
}

type Service struct {
	repo    Repository
	gateway Gateway
	guard   Guard
	audit   Auditor
	log     *zap.Logger
}

// NewService accepts a nil gateway; checkout and webhook then fail with
// ErrPaymentsDisabled.
func NewService(repo Repository, gateway Gateway, guard Guard, audit Auditor, log *zap.Logger) *Service {
	return &Service{
		repo:    repo,
		gateway: gateway,
		guard:   guard,
		audit:   audit,
		log:     log,
	}
}

func (s *Service) ListPlans(ctx context.Context) ([]models.Plan, error) {
	plans, err := s.repo.ListActivePlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	if plans == nil {
		plans = []models.Plan{}
	}
	return plans, nil
}

func (s *Service) Checkout(
	ctx context.Context,
	sess *session.Session,
	planID uuid.UUID,
) (*CheckoutResult, error) {

	if s.gateway == nil {
		return nil, ErrPaymentsDisabled
	}

	clinic, err := s.guard.ClinicForSession(ctx, sess)
	if err != nil {
		return nil, err
	}

	plan, err := s.repo.GetPlanByID(ctx, planID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("plan")
		}
		return nil, fmt.Errorf("loading plan: %w", err)
	}

	active, err := s.repo.HasActiveSubscription(ctx, clinic.ID)
	if err != nil {
		return nil, fmt.Errorf("checking subscription: %w", err)
	}
	if active {
		return nil, httperr.ErrBusiness("subscription_already_active")
	}

	now := time.Now().UTC()
	sub := &models.Subscription{
		ID:        uuid.New(),
		ClinicID:  clinic.ID,
		PlanID:    plan.ID,
		Status:    models.SubscriptionPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	checkout, err := s.gateway.CreateCheckout(ctx, payment.CheckoutRequest{
		Reference:    sub.ID.String(),
		Title:        "Plano " + plan.Name,
		PriceInCents: plan.PriceInCents,
	})
	if err != nil {
		return nil, fmt.Errorf("creating checkout: %w", err)
	}
	sub.PreferenceID = checkout.PreferenceID

	if err := s.repo.CreateSubscription(ctx, sub); err != nil {
		return nil, fmt.Errorf("creating subscription: %w", err)
	}
	sub.Plan = *plan

	s.audit.Dispatch(audit.Event{
		ClinicID: clinic.ID,
		UserID:   sess.UserID(),
		Action:   "subscription_checkout",
		Entity:   "subscription",
		EntityID: sub.ID,
		Metadata: map[string]any{"plan": plan.Name},
	})

	return &CheckoutResult{Subscription: sub, InitPoint: checkout.InitPoint}, nil
}

// HandlePaymentNotification re-reads the payment from the provider and
// activates the referenced subscription once it is approved. Repeated
// notifications are harmless.
func (s *Service) HandlePaymentNotification(ctx context.Context, paymentID string) error {
	if s.gateway == nil {
		return ErrPaymentsDisabled
	}
	if paymentID == "" {
		return httperr.ErrValidation("invalid_id")
	}

	p, err := s.gateway.GetPayment(ctx, paymentID)
	if err != nil {
		return fmt.Errorf("fetching payment: %w", err)
	}

	if p.Status != payment.StatusApproved {
		s.log.Info("payment not approved yet",
			zap.String("payment_id", p.ID),
			zap.String("status", p.Status),
		)
		return nil
	}

	subID, err := uuid.Parse(p.Reference)
	if err != nil {
		s.log.Warn("payment with foreign reference ignored",
			zap.String("payment_id", p.ID),
			zap.String("reference", p.Reference),
		)
		return nil
	}

	sub, err := s.repo.GetSubscriptionByID(ctx, subID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return httperr.ErrNotFound("subscription")
		}
		return fmt.Errorf("loading subscription: %w", err)
	}

	activated, err := s.repo.ActivateSubscription(ctx, sub.ID, p.ID)
	if err != nil {
		return fmt.Errorf("activating subscription: %w", err)
	}
	if !activated {
		return nil
	}

	s.audit.Dispatch(audit.Event{
		ClinicID: sub.ClinicID,
		Action:   "subscription_activated",
		Entity:   "subscription",
		EntityID: sub.ID,
		Metadata: map[string]any{"payment_id": p.ID},
	})

	return nil
}
