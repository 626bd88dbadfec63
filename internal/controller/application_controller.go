package controller

import (
	"research-link-be/internal/dto"
	"research-link-be/internal/pkg/apperror"
	"research-link-be/internal/pkg/serverutils"
	"research-link-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IApplicationController interface {
	RegisterRoutes(r fiber.Router)
	UpdateStatus(ctx *fiber.Ctx) error
}

type applicationController struct {
	service service.IApplicationService
}

func NewApplicationController(service service.IApplicationService) IApplicationController {
	return &applicationController{service: service}
}

func (c *applicationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/applications", serverutils.JwtMiddleware)
	h.Patch("/:id/status", serverutils.RequireProfessor, c.UpdateStatus)
}

func (c *applicationController) UpdateStatus(ctx *fiber.Ctx) error {
	applicationId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.InvalidRequest("INVALID_APPLICATION_ID", "Application id must be a valid UUID")
	}

	var req dto.UpdateApplicationStatusRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	if err := serverutils.ValidateStruct(&req); err != nil {
		return err
	}

	professorUserId := serverutils.LocalUUID(ctx, "user_id")
	res, err := c.service.UpdateStatus(ctx.Context(), professorUserId, applicationId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Application status updated",
		"data":    res,
	})
}
