package sync

import (
	"errors"

	"netsync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for sync runs.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the sync routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/sync")
	group.Post("/", h.HandleRun)
	group.Get("/reports/:id", h.HandleReport)
}

// HandleRun runs a reconciliation.
// @Summary Run Inventory Sync
// @Description Collects device facts, diffs them against the inventory and applies the change set unless dry_run is set. Concurrent identical requests share one run.
// @Tags sync
// @Accept json
// @Produce json
// @Param request body Request true "Run parameters"
// @Success 200 {object} Report "Run Report"
// @Failure 400 {object} map[string]string "Invalid Request"
// @Failure 422 {object} Report "Run Aborted"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /sync [post]
func (h *Handler) HandleRun(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req Request
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body: " + err.Error()})
		}
	}

	report, err := h.service.Run(c.UserContext(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRequest):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case report != nil:
			l.Warn("Sync run aborted", zap.String("run_id", report.ID), zap.Error(err))
			return c.Status(fiber.StatusUnprocessableEntity).JSON(report)
		default:
			l.Error("Sync run failed", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}

	l.Info("Sync run completed",
		zap.String("run_id", report.ID),
		zap.String("status", string(report.Status)),
		zap.Int("executed", report.Executed))

	return c.JSON(report)
}

// HandleReport returns an archived run report.
// @Summary Get Run Report
// @Description Returns the archived report of a previous run.
// @Tags sync
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} Report "Run Report"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /sync/reports/{id} [get]
func (h *Handler) HandleReport(c *fiber.Ctx) error {
	report, err := h.service.Report(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrReportNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		logger.WithRayID(h.service.logger, c).Error("Failed to load report", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}
