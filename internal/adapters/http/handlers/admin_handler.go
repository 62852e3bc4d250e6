package handlers

import (
	"loantrack/internal/adapters/http/middleware"
	"loantrack/internal/core/services"
	"loantrack/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AdminHandler handles admin account management endpoints
type AdminHandler struct {
	adminService *services.AdminService
	log          *zap.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService *services.AdminService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{adminService: adminService, log: log}
}

// List handles listing admins (Admin only)
// @Summary List admins
// @Tags Admins
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admins [get]
func (h *AdminHandler) List(c *fiber.Ctx) error {
	admins, err := h.adminService.ListAdmins(c.UserContext(), middleware.CurrentIdentity(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return response.Success(c, "Admins retrieved successfully", admins)
}

// Add handles creating an admin (Admin only)
// @Summary Add admin
// @Tags Admins
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.AddAdminInput true "Admin data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admins [post]
func (h *AdminHandler) Add(c *fiber.Ctx) error {
	var req services.AddAdminInput
	if err := parseBody(c, &req); err != nil {
		return respondError(c, h.log, err)
	}

	admin, err := h.adminService.AddAdmin(c.UserContext(), middleware.CurrentIdentity(c), &req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return response.Created(c, "Admin created successfully", admin)
}

// Delete handles removing an admin (Admin only)
// @Summary Delete admin
// @Tags Admins
// @Produce json
// @Security BearerAuth
// @Param id path string true "Admin ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admins/{id} [delete]
func (h *AdminHandler) Delete(c *fiber.Ctx) error {
	if err := h.adminService.DeleteAdmin(c.UserContext(), middleware.CurrentIdentity(c), c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return response.Success(c, "Admin deleted successfully", nil)
}
