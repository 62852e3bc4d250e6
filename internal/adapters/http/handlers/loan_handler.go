package handlers

import (
	"loantrack/internal/adapters/http/middleware"
	"loantrack/internal/core/domain"
	"loantrack/internal/core/services"
	"loantrack/internal/pkg/pagination"
	"loantrack/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// LoanHandler handles loan application endpoints
type LoanHandler struct {
	loanService *services.LoanService
	log         *zap.Logger
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(loanService *services.LoanService, log *zap.Logger) *LoanHandler {
	return &LoanHandler{
		loanService: loanService,
		log:         log,
	}
}

// getClientIP gets client IP address
func getClientIP(c *fiber.Ctx) string {
	ip := c.Get("X-Real-IP")
	if ip == "" {
		ip = c.Get("X-Forwarded-For")
	}
	if ip == "" {
		ip = c.IP()
	}
	return ip
}

// RejectRequest represents reject loan request
type RejectRequest struct {
	Reason string `json:"reason"`
}

// Create submits a loan application
// @Summary Create loan
// @Description Submit a new loan application owned by the caller
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body domain.CreateLoanInput true "Loan data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /loans [post]
func (h *LoanHandler) Create(c *fiber.Ctx) error {
	var req domain.CreateLoanInput
	if err := parseBody(c, &req); err != nil {
		return respondError(c, h.log, err)
	}

	loan, err := h.loanService.Create(c.UserContext(), middleware.CurrentIdentity(c), req, getClientIP(c))
	if err != nil {
		return respondError(c, h.log, err)
	}

	return response.Created(c, "Loan application submitted successfully", loan)
}

// MyLoans lists the caller's loans
// @Summary List my loans
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /loans/my-loans [get]
func (h *LoanHandler) MyLoans(c *fiber.Ctx) error {
	loans, err := h.loanService.ListOwn(c.UserContext(), middleware.CurrentIdentity(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return response.Success(c, "Loans retrieved successfully", loans)
}

// List lists every loan with its applicant (verifier, admin)
// @Summary List all loans
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /loans [get]
func (h *LoanHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	loans, total, err := h.loanService.ListAll(c.UserContext(), middleware.CurrentIdentity(c), params)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return response.Success(c, "Loans retrieved successfully", pagination.NewResponse(loans, params, total))
}

// Pending lists loans waiting for verification (verifier)
// @Summary List pending loans
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /loans/pending [get]
func (h *LoanHandler) Pending(c *fiber.Ctx) error {
	loans, err := h.loanService.ListPending(c.UserContext(), middleware.CurrentIdentity(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return response.Success(c, "Pending loans retrieved successfully", loans)
}

// Verified lists loans waiting for approval (admin)
// @Summary List verified loans
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /loans/verified [get]
func (h *LoanHandler) Verified(c *fiber.Ctx) error {
	loans, err := h.loanService.ListVerified(c.UserContext(), middleware.CurrentIdentity(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return response.Success(c, "Verified loans retrieved successfully", loans)
}

// Get returns one loan
// @Summary Get loan by ID
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id} [get]
func (h *LoanHandler) Get(c *fiber.Ctx) error {
	loan, err := h.loanService.Get(c.UserContext(), middleware.CurrentIdentity(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return response.Success(c, "Loan retrieved successfully", loan)
}

// History returns a loan's status history
// @Summary Get loan history
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id}/history [get]
func (h *LoanHandler) History(c *fiber.Ctx) error {
	events, err := h.loanService.History(c.UserContext(), middleware.CurrentIdentity(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return response.Success(c, "Loan history retrieved successfully", events)
}

// Verify marks a pending loan verified (verifier)
// @Summary Verify loan
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /loans/{id}/verify [put]
func (h *LoanHandler) Verify(c *fiber.Ctx) error {
	loan, err := h.loanService.Verify(c.UserContext(), middleware.CurrentIdentity(c), c.Params("id"), getClientIP(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return response.Success(c, "Loan verified successfully", loan)
}

// Approve marks a verified loan approved (admin)
// @Summary Approve loan
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /loans/{id}/approve [put]
func (h *LoanHandler) Approve(c *fiber.Ctx) error {
	loan, err := h.loanService.Approve(c.UserContext(), middleware.CurrentIdentity(c), c.Params("id"), getClientIP(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return response.Success(c, "Loan approved successfully", loan)
}

// Reject rejects a pending or verified loan
// @Summary Reject loan
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Param body body RejectRequest false "Reject reason"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /loans/{id}/reject [put]
func (h *LoanHandler) Reject(c *fiber.Ctx) error {
	var req RejectRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return respondError(c, h.log, err)
		}
	}

	loan, err := h.loanService.Reject(c.UserContext(), middleware.CurrentIdentity(c), c.Params("id"), req.Reason, getClientIP(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return response.Success(c, "Loan rejected successfully", loan)
}
