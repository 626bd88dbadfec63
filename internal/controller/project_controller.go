package controller

import (
	"research-link-be/internal/dto"
	"research-link-be/internal/pkg/apperror"
	"research-link-be/internal/pkg/serverutils"
	"research-link-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IProjectController interface {
	RegisterRoutes(r fiber.Router)
	ListOpen(ctx *fiber.Ctx) error
	ListClosed(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Close(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Enroll(ctx *fiber.Ctx) error
	Withdraw(ctx *fiber.Ctx) error
	ListApplicants(ctx *fiber.Ctx) error
}

type projectController struct {
	projectService     service.IProjectService
	enrollmentService  service.IEnrollmentService
	applicationService service.IApplicationService
}

func NewProjectController(
	projectService service.IProjectService,
	enrollmentService service.IEnrollmentService,
	applicationService service.IApplicationService,
) IProjectController {
	return &projectController{
		projectService:     projectService,
		enrollmentService:  enrollmentService,
		applicationService: applicationService,
	}
}

func (c *projectController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/projects", serverutils.JwtMiddleware)

	h.Get("/list", serverutils.RequireStudent, c.ListOpen)
	h.Get("/list/closed", serverutils.RequireStudent, c.ListClosed)
	h.Post("/enroll", serverutils.RequireStudent, c.Enroll)
	h.Post("/unenroll", serverutils.RequireStudent, c.Withdraw)

	h.Post("/", serverutils.RequireProfessor, c.Create)
	h.Put("/:id", serverutils.RequireProfessor, c.Update)
	h.Post("/:id/close", serverutils.RequireProfessor, c.Close)
	h.Delete("/:id", serverutils.RequireProfessor, c.Delete)
	h.Get("/:id/applications", serverutils.RequireProfessor, c.ListApplicants)
}

func (c *projectController) ListOpen(ctx *fiber.Ctx) error {
	userId := serverutils.LocalUUID(ctx, "user_id")

	var cursor *uuid.UUID
	if raw := ctx.Query("cursor"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return apperror.InvalidRequest("INVALID_CURSOR", "Cursor must be a valid UUID")
		}
		cursor = &parsed
	}
	limit := ctx.QueryInt("limit", 0)

	res, err := c.projectService.ListOpenProjects(ctx.Context(), userId, cursor, limit)
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

func (c *projectController) ListClosed(ctx *fiber.Ctx) error {
	userId := serverutils.LocalUUID(ctx, "user_id")
	limit := ctx.QueryInt("limit", 0)

	res, err := c.projectService.ListClosedProjects(ctx.Context(), userId, limit)
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

func (c *projectController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateProjectRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	if err := serverutils.ValidateStruct(&req); err != nil {
		return err
	}

	professorUserId := serverutils.LocalUUID(ctx, "user_id")
	collegeId := serverutils.LocalUUID(ctx, "college_id")

	res, err := c.projectService.CreateProject(ctx.Context(), professorUserId, collegeId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"code":    201,
		"message": "Project created",
		"data":    res,
	})
}

func (c *projectController) Update(ctx *fiber.Ctx) error {
	projectId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.InvalidRequest("INVALID_PROJECT_ID", "Project id must be a valid UUID")
	}

	var req dto.UpdateProjectRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	if err := serverutils.ValidateStruct(&req); err != nil {
		return err
	}

	professorUserId := serverutils.LocalUUID(ctx, "user_id")
	res, err := c.projectService.UpdateProject(ctx.Context(), professorUserId, projectId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Project updated",
		"data":    res,
	})
}

func (c *projectController) Close(ctx *fiber.Ctx) error {
	projectId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.InvalidRequest("INVALID_PROJECT_ID", "Project id must be a valid UUID")
	}

	professorUserId := serverutils.LocalUUID(ctx, "user_id")
	if err := c.projectService.CloseProject(ctx.Context(), professorUserId, projectId); err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Project closed",
		"data":    nil,
	})
}

func (c *projectController) Delete(ctx *fiber.Ctx) error {
	projectId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.InvalidRequest("INVALID_PROJECT_ID", "Project id must be a valid UUID")
	}

	professorUserId := serverutils.LocalUUID(ctx, "user_id")
	if err := c.projectService.DeleteProject(ctx.Context(), professorUserId, projectId); err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Project deleted",
		"data":    nil,
	})
}

func (c *projectController) Enroll(ctx *fiber.Ctx) error {
	var req dto.EnrollRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}

	userId := serverutils.LocalUUID(ctx, "user_id")
	studentId := serverutils.LocalUUID(ctx, "student_id")

	res, err := c.enrollmentService.Enroll(ctx.Context(), userId, studentId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"code":    201,
		"message": "Application submitted",
		"data":    res,
	})
}

func (c *projectController) Withdraw(ctx *fiber.Ctx) error {
	var req dto.WithdrawRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}

	userId := serverutils.LocalUUID(ctx, "user_id")
	studentId := serverutils.LocalUUID(ctx, "student_id")

	res, err := c.enrollmentService.Withdraw(ctx.Context(), userId, studentId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Application withdrawn",
		"data":    res,
	})
}

func (c *projectController) ListApplicants(ctx *fiber.Ctx) error {
	projectId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.InvalidRequest("INVALID_PROJECT_ID", "Project id must be a valid UUID")
	}

	professorUserId := serverutils.LocalUUID(ctx, "user_id")
	res, err := c.applicationService.ListApplicants(ctx.Context(), professorUserId, projectId)
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
