package controller

import (
	"research-link-be/internal/dto"
	"research-link-be/internal/pkg/apperror"
	"research-link-be/internal/pkg/serverutils"
	"research-link-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IPaymentController interface {
	RegisterRoutes(r fiber.Router)
	GetPlans(ctx *fiber.Ctx) error
	GetOrderSummary(ctx *fiber.Ctx) error
	Checkout(ctx *fiber.Ctx) error
	Webhook(ctx *fiber.Ctx) error
	SubscriptionStatus(ctx *fiber.Ctx) error
	Cancel(ctx *fiber.Ctx) error
}

type paymentController struct {
	service service.IPaymentService
}

func NewPaymentController(service service.IPaymentService) IPaymentController {
	return &paymentController{service: service}
}

func (c *paymentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/payment")

	// Midtrans calls this server to server, no session attached.
	h.Post("/webhook", c.Webhook)

	h.Get("/plans", c.GetPlans)
	h.Get("/order-summary/:planId", c.GetOrderSummary)
	h.Post("/checkout", serverutils.JwtMiddleware, c.Checkout)
	h.Get("/subscription-status", serverutils.JwtMiddleware, c.SubscriptionStatus)
	h.Post("/cancel", serverutils.JwtMiddleware, c.Cancel)
}

func (c *paymentController) GetPlans(ctx *fiber.Ctx) error {
	res, err := c.service.GetPlans(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "OK",
		"data":    res,
	})
}

func (c *paymentController) GetOrderSummary(ctx *fiber.Ctx) error {
	planId, err := uuid.Parse(ctx.Params("planId"))
	if err != nil {
		return apperror.InvalidRequest("INVALID_PLAN_ID", "Plan id must be a valid UUID")
	}

	res, err := c.service.GetOrderSummary(ctx.Context(), planId)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "OK",
		"data":    res,
	})
}

func (c *paymentController) Checkout(ctx *fiber.Ctx) error {
	var req dto.CheckoutRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	if err := serverutils.ValidateStruct(&req); err != nil {
		return err
	}

	userId := serverutils.LocalUUID(ctx, "user_id")
	res, err := c.service.Checkout(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"code":    201,
		"message": "Checkout created",
		"data":    res,
	})
}

func (c *paymentController) Webhook(ctx *fiber.Ctx) error {
	var req dto.MidtransWebhookRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}

	if err := c.service.HandleNotification(ctx.Context(), &req); err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "OK",
		"data":    nil,
	})
}

func (c *paymentController) SubscriptionStatus(ctx *fiber.Ctx) error {
	userId := serverutils.LocalUUID(ctx, "user_id")

	res, err := c.service.GetSubscriptionStatus(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "OK",
		"data":    res,
	})
}

func (c *paymentController) Cancel(ctx *fiber.Ctx) error {
	userId := serverutils.LocalUUID(ctx, "user_id")

	if err := c.service.CancelSubscription(ctx.Context(), userId); err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Subscription canceled",
		"data":    nil,
	})
}
