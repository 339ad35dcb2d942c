package controller

import (
	"contractor-estimate-be/internal/dto"
	"contractor-estimate-be/internal/pkg/serverutils"
	"contractor-estimate-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IFileController interface {
	RegisterRoutes(r fiber.Router)
	Register(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	ListByProject(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type fileController struct {
	fileService service.IFileService
}

func NewFileController(fileService service.IFileService) IFileController {
	return &fileController{
		fileService: fileService,
	}
}

func (c *fileController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/file/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Register)
	h.Get("project/:projectId", c.ListByProject)
	h.Get(":id", c.Show)
	h.Delete(":id", c.Delete)
}

func (c *fileController) Register(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.RegisterFileRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.fileService.Register(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success register file", res))
}

func (c *fileController) Show(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.fileService.Show(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show file", res))
}

func (c *fileController) ListByProject(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	projectId, _ := uuid.Parse(ctx.Params("projectId"))

	res, err := c.fileService.ListByProject(ctx.Context(), userId, projectId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get project files", res))
}

func (c *fileController) Delete(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, _ := uuid.Parse(ctx.Params("id"))

	if err := c.fileService.Delete(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete file", nil))
}
