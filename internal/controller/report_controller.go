package controller

import (
	"dr-vain-be/internal/pkg/serverutils"
	"dr-vain-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IReportController interface {
	RegisterRoutes(r fiber.Router)
	GetDiagnosis(ctx *fiber.Ctx) error
	GetWordStats(ctx *fiber.Ctx) error
}

type reportController struct {
	reportService service.IReportService
}

func NewReportController(reportService service.IReportService) IReportController {
	return &reportController{
		reportService: reportService,
	}
}

func (c *reportController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/report/v1")
	h.Get("diagnosis", c.GetDiagnosis)
	h.Get("word-stats", c.GetWordStats)
}

func (c *reportController) GetDiagnosis(ctx *fiber.Ctx) error {
	res, err := c.reportService.GetDiagnosis(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success generate diagnosis", res))
}

func (c *reportController) GetWordStats(ctx *fiber.Ctx) error {
	res, err := c.reportService.GetWordStats(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get word statistics", res))
}
