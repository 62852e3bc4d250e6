package services

import (
	"fmt"
	"net/url"
	"time"

	"loantrack/internal/core/domain"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const lineNotifyEndpoint = "https://notify-api.line.me/api/notify"

// Notifier is told about loan lifecycle events. Delivery failures are the
// notifier's concern; callers never see them.
type Notifier interface {
	LoanSubmitted(loan *domain.Loan)
	LoanStatusChanged(loan *domain.Loan, from domain.LoanStatus)
}

// NotificationService handles LINE notifications
type NotificationService struct {
	lineNotifyToken string
	endpoint        string
	enabled         bool
	timeout         time.Duration
	log             *zap.Logger
}

// NewNotificationService creates a new notification service; an empty token disables it
func NewNotificationService(token string, log *zap.Logger) *NotificationService {
	return &NotificationService{
		lineNotifyToken: token,
		endpoint:        lineNotifyEndpoint,
		enabled:         token != "",
		timeout:         5 * time.Second,
		log:             log,
	}
}

// IsEnabled checks if notification is enabled
func (s *NotificationService) IsEnabled() bool {
	return s.enabled
}

// sendLineNotify sends a message via LINE Notify
func (s *NotificationService) sendLineNotify(message string) error {
	if !s.enabled {
		return nil
	}

	data := url.Values{}
	data.Set("message", message)

	agent := fiber.Post(s.endpoint).
		Set(fiber.HeaderAuthorization, "Bearer "+s.lineNotifyToken).
		ContentType(fiber.MIMEApplicationForm).
		Body([]byte(data.Encode())).
		Timeout(s.timeout)
	if err := agent.Parse(); err != nil {
		return err
	}

	code, _, errs := agent.Bytes()
	if len(errs) > 0 {
		return errs[0]
	}
	if code != fiber.StatusOK {
		return fmt.Errorf("line notify returned status %d", code)
	}
	return nil
}

func (s *NotificationService) send(loan *domain.Loan, message string) {
	if err := s.sendLineNotify(message); err != nil {
		s.log.Warn("⚠️ LINE notify failed", zap.String("loan_id", loan.ID), zap.Error(err))
	}
}

// LoanSubmitted sends notification for a new application
func (s *NotificationService) LoanSubmitted(loan *domain.Loan) {
	message := fmt.Sprintf(`
🆕 New loan application

📋 ID: %s
💰 Amount: %.2f
📝 Purpose: %s
💼 Employment: %s

Waiting for verification`,
		loan.ID,
		loan.Amount,
		loan.Purpose,
		loan.EmploymentStatus,
	)

	s.send(loan, message)
}

// LoanStatusChanged sends notification for a verify, approve or reject
func (s *NotificationService) LoanStatusChanged(loan *domain.Loan, from domain.LoanStatus) {
	icon := "🔄"
	switch loan.Status {
	case domain.StatusApproved:
		icon = "✅"
	case domain.StatusRejected:
		icon = "❌"
	}

	message := fmt.Sprintf(`
%s Loan status changed

📋 ID: %s
💰 Amount: %.2f
📊 %s → %s`,
		icon,
		loan.ID,
		loan.Amount,
		from,
		loan.Status,
	)
	if loan.RejectionReason != "" {
		message += "\n📝 Reason: " + loan.RejectionReason
	}

	s.send(loan, message)
}
