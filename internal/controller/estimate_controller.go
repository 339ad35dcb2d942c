package controller

import (
	"contractor-estimate-be/internal/dto"
	"contractor-estimate-be/internal/pkg/serverutils"
	"contractor-estimate-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IEstimateController interface {
	RegisterRoutes(r fiber.Router)
	Show(ctx *fiber.Ctx) error
	ShowByProject(ctx *fiber.Ctx) error
	ApplyPatches(ctx *fiber.Ctx) error
	UpdateDetails(ctx *fiber.Ctx) error
	Regenerate(ctx *fiber.Ctx) error
}

type estimateController struct {
	estimateService service.IEstimateService
}

func NewEstimateController(estimateService service.IEstimateService) IEstimateController {
	return &estimateController{
		estimateService: estimateService,
	}
}

func (c *estimateController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/estimate/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("regenerate", c.Regenerate)
	h.Get("project/:projectId", c.ShowByProject)
	h.Get(":id", c.Show)
	h.Put(":id", c.UpdateDetails)
	h.Post(":id/patches", c.ApplyPatches)
}

func (c *estimateController) Show(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.estimateService.Show(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show estimate", res))
}

func (c *estimateController) ShowByProject(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	projectId, _ := uuid.Parse(ctx.Params("projectId"))

	res, err := c.estimateService.ShowByProject(ctx.Context(), userId, projectId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show estimate", res))
}

func (c *estimateController) ApplyPatches(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, _ := uuid.Parse(ctx.Params("id"))

	var req dto.ApplyPatchesRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.EstimateId = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.estimateService.ApplyPatches(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success apply patches", res))
}

func (c *estimateController) UpdateDetails(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, _ := uuid.Parse(ctx.Params("id"))

	var req dto.UpdateEstimateDetailsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.EstimateId = id

	res, err := c.estimateService.UpdateDetails(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update estimate", res))
}

func (c *estimateController) Regenerate(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.RegenerateEstimateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.estimateService.Regenerate(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success regenerate estimate", res))
}
