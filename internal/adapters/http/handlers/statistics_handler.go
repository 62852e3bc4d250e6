package handlers

import (
	"loantrack/internal/adapters/http/middleware"
	"loantrack/internal/core/services"
	"loantrack/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// StatisticsHandler handles dashboard endpoints
type StatisticsHandler struct {
	statsService *services.StatisticsService
	log          *zap.Logger
}

// NewStatisticsHandler creates a new statistics handler
func NewStatisticsHandler(statsService *services.StatisticsService, log *zap.Logger) *StatisticsHandler {
	return &StatisticsHandler{statsService: statsService, log: log}
}

// Get returns loan counts and amounts computed at request time
// @Summary Loan statistics
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=domain.Statistics}
// @Failure 401 {object} response.Response
// @Router /loans/statistics [get]
func (h *StatisticsHandler) Get(c *fiber.Ctx) error {
	stats, err := h.statsService.Get(c.UserContext(), middleware.CurrentIdentity(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return response.Success(c, "Statistics retrieved successfully", stats)
}
