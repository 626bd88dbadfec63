package controller

import (
	"research-link-be/internal/dto"
	"research-link-be/internal/pkg/serverutils"
	"research-link-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IUserController interface {
	RegisterRoutes(r fiber.Router)
	Me(ctx *fiber.Ctx) error
	UpsertStudentProfile(ctx *fiber.Ctx) error
	UpsertProfessorProfile(ctx *fiber.Ctx) error
}

type userController struct {
	service service.IUserService
}

func NewUserController(service service.IUserService) IUserController {
	return &userController{service: service}
}

func (c *userController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/users", serverutils.JwtMiddleware)
	h.Get("/me", c.Me)
	h.Put("/student-profile", serverutils.RequireStudent, c.UpsertStudentProfile)
	h.Put("/professor-profile", serverutils.RequireProfessor, c.UpsertProfessorProfile)
}

func (c *userController) Me(ctx *fiber.Ctx) error {
	userId := serverutils.LocalUUID(ctx, "user_id")

	res, err := c.service.Me(ctx.Context(), userId)
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

func (c *userController) UpsertStudentProfile(ctx *fiber.Ctx) error {
	var req dto.StudentProfileRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	if err := serverutils.ValidateStruct(&req); err != nil {
		return err
	}

	userId := serverutils.LocalUUID(ctx, "user_id")
	res, err := c.service.UpsertStudentProfile(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Profile saved",
		"data":    res,
	})
}

func (c *userController) UpsertProfessorProfile(ctx *fiber.Ctx) error {
	var req dto.ProfessorProfileRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	if err := serverutils.ValidateStruct(&req); err != nil {
		return err
	}

	userId := serverutils.LocalUUID(ctx, "user_id")
	res, err := c.service.UpsertProfessorProfile(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Profile saved",
		"data":    res,
	})
}
