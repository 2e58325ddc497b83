package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/vetclinic-api/internal/httperr"
	"github.com/BruksfildServices01/vetclinic-api/internal/session"
	"github.com/BruksfildServices01/vetclinic-api/internal/usecase/subscription"
)

type subscriptionService interface {
	Checkout(ctx context.Context, sess *session.Session, planID uuid.UUID) (*subscription.CheckoutResult, error)
	HandlePaymentNotification(ctx context.Context, paymentID string) error
}

type SubscriptionHandler struct {
	svc subscriptionService
	log *zap.Logger
}

func NewSubscriptionHandler(svc subscriptionService, log *zap.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{svc: svc, log: log}
}

type CheckoutRequest struct {
	PlanID string `json:"plan_id" binding:"required,uuid"`
}

func (h *SubscriptionHandler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	planID, err := uuid.Parse(req.PlanID)
	if err != nil {
		httperr.Respond(c, h.log, httperr.ErrValidation("invalid_id"))
		return
	}

	res, err := h.svc.Checkout(c.Request.Context(), session.From(c), planID)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":      true,
		"subscription": res.Subscription,
		"init_point":   res.InitPoint,
	})
}

type webhookBody struct {
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// Webhook receives Mercado Pago payment notifications. The payment id
// comes as ?data.id= or in the JSON body; the payment itself is always
// re-read from the provider.
func (h *SubscriptionHandler) Webhook(c *gin.Context) {
	paymentID := c.Query("data.id")
	if paymentID == "" {
		var body webhookBody
		if err := c.ShouldBindJSON(&body); err == nil {
			if body.Type != "" && body.Type != "payment" {
				c.JSON(http.StatusOK, gin.H{"success": true})
				return
			}
			paymentID = body.Data.ID
		}
	}

	if err := h.svc.HandlePaymentNotification(c.Request.Context(), paymentID); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *SubscriptionHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, subscription.ErrPaymentsDisabled) {
		httperr.Unavailable(c, "payment_provider_unavailable", httperr.MessageFor("payment_provider_unavailable"))
		return
	}
	httperr.Respond(c, h.log, err)
}
