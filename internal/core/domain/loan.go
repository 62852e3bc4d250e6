package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

// Loan creation limits
const (
	MinLoanAmount              = 1000
	MaxLoanAmount              = 1000000
	MinPurposeLength           = 3
	MinEmploymentAddressLength = 5
)

// transitions is the complete status graph. Anything not listed is rejected.
var transitions = map[LoanStatus][]LoanStatus{
	StatusPending:  {StatusVerified, StatusRejected},
	StatusVerified: {StatusApproved, StatusRejected},
}

// CanTransition reports whether from -> to is an edge of the status graph
func CanTransition(from, to LoanStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// sourcesOf lists, in lifecycle order, the statuses that may move to target
func sourcesOf(target LoanStatus) []LoanStatus {
	var out []LoanStatus
	for _, s := range LoanStatuses {
		if CanTransition(s, target) {
			out = append(out, s)
		}
	}
	return out
}

// CreateLoanInput carries the applicant-supplied loan fields
type CreateLoanInput struct {
	Amount            float64          `json:"amount"`
	Purpose           string           `json:"purpose"`
	EmploymentStatus  EmploymentStatus `json:"employment_status"`
	EmploymentAddress string           `json:"employment_address"`
}

// NewLoan validates input and returns a pending loan owned by ownerID.
// Every offending field is reported in a single *ValidationError.
func NewLoan(input CreateLoanInput, ownerID string, now time.Time) (*Loan, error) {
	verr := &ValidationError{}

	purpose := strings.TrimSpace(input.Purpose)
	address := strings.TrimSpace(input.EmploymentAddress)
	employment := EmploymentStatus(strings.TrimSpace(string(input.EmploymentStatus)))

	switch {
	case input.Amount == 0:
		verr.Add("amount", "amount is required")
	case math.IsNaN(input.Amount) || math.IsInf(input.Amount, 0) || input.Amount < 0:
		verr.Add("amount", "amount must be a positive number")
	case input.Amount < MinLoanAmount:
		verr.Add("amount", fmt.Sprintf("amount must be at least %d", MinLoanAmount))
	case input.Amount > MaxLoanAmount:
		verr.Add("amount", fmt.Sprintf("amount cannot exceed %d", MaxLoanAmount))
	}

	switch {
	case purpose == "":
		verr.Add("purpose", "purpose is required")
	case utf8.RuneCountInString(purpose) < MinPurposeLength:
		verr.Add("purpose", fmt.Sprintf("purpose must be at least %d characters long", MinPurposeLength))
	}

	switch {
	case employment == "":
		verr.Add("employment_status", "employment status is required")
	case !employment.Valid():
		verr.Add("employment_status", "employment status must be one of employed, self-employed, unemployed, student, retired")
	}

	switch {
	case address == "":
		verr.Add("employment_address", "employment address is required")
	case utf8.RuneCountInString(address) < MinEmploymentAddressLength:
		verr.Add("employment_address", fmt.Sprintf("employment address must be at least %d characters long", MinEmploymentAddressLength))
	}

	if ownerID == "" {
		verr.Add("user_id", "owner is required")
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	return &Loan{
		UserID:            ownerID,
		Amount:            input.Amount,
		Purpose:           purpose,
		EmploymentStatus:  employment,
		EmploymentAddress: address,
		Status:            StatusPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

func (l *Loan) guard(target LoanStatus) error {
	if CanTransition(l.Status, target) {
		return nil
	}
	return &TransitionError{
		LoanID:   l.ID,
		Target:   target,
		Expected: sourcesOf(target),
		Actual:   l.Status,
	}
}

// Verify moves a pending loan to verified. The loan is untouched on error.
func (l *Loan) Verify(verifierID string, now time.Time) error {
	if err := l.guard(StatusVerified); err != nil {
		return err
	}
	l.Status = StatusVerified
	l.VerifiedBy = &verifierID
	l.VerifiedAt = &now
	l.UpdatedAt = now
	return nil
}

// Approve moves a verified loan to approved. Verification fields are kept.
func (l *Loan) Approve(approverID string, now time.Time) error {
	if err := l.guard(StatusApproved); err != nil {
		return err
	}
	l.Status = StatusApproved
	l.ApprovedBy = &approverID
	l.ApprovedAt = &now
	l.UpdatedAt = now
	return nil
}

// Reject moves a pending or verified loan to rejected.
func (l *Loan) Reject(actorID, reason string, now time.Time) error {
	if err := l.guard(StatusRejected); err != nil {
		return err
	}
	l.Status = StatusRejected
	l.RejectedBy = &actorID
	l.RejectedAt = &now
	l.RejectionReason = strings.TrimSpace(reason)
	l.UpdatedAt = now
	return nil
}
