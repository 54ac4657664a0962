package handler

import (
	"go-office-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

// Download streams an XLSX workbook
// GET /api/reports/:kind?start_date=&end_date=&type=
func (h *ReportHandler) Download(c *fiber.Ctx) error {
	report, err := h.service.Generate(c.UserContext(), service.ReportKind(c.Params("kind")), service.ReportQuery{
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		Type:      c.Query("type"),
	})
	if err != nil {
		return respondError(c, err)
	}

	c.Attachment(report.Filename)
	c.Set(fiber.HeaderContentType, xlsxContentType)
	return c.Send(report.Content.Bytes())
}
