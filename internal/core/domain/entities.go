package domain

import "time"

// Role represents user role in the system
type Role string

const (
	RoleUser     Role = "user"
	RoleVerifier Role = "verifier"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleVerifier, RoleAdmin:
		return true
	}
	return false
}

// User represents a user in the domain layer
type User struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"` // bcrypt hash
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Identity is the already-authenticated claim a request carries.
// A nil *Identity means the caller is anonymous.
type Identity struct {
	UserID string
	Role   Role
}

// HasRole reports whether the identity holds any of roles. Nil-safe.
func (i *Identity) HasRole(roles ...Role) bool {
	if i == nil {
		return false
	}
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}

// RefreshToken represents a refresh token in the domain
type RefreshToken struct {
	ID        uint
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// LoanStatus is the lifecycle state of a loan application
type LoanStatus string

const (
	StatusPending  LoanStatus = "pending"
	StatusVerified LoanStatus = "verified"
	StatusApproved LoanStatus = "approved"
	StatusRejected LoanStatus = "rejected"
)

// LoanStatuses lists every status in lifecycle order
var LoanStatuses = []LoanStatus{StatusPending, StatusVerified, StatusApproved, StatusRejected}

func (s LoanStatus) Valid() bool {
	for _, v := range LoanStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves s
func (s LoanStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// EmploymentStatus of the applicant
type EmploymentStatus string

const (
	EmploymentEmployed     EmploymentStatus = "employed"
	EmploymentSelfEmployed EmploymentStatus = "self-employed"
	EmploymentUnemployed   EmploymentStatus = "unemployed"
	EmploymentStudent      EmploymentStatus = "student"
	EmploymentRetired      EmploymentStatus = "retired"
)

var EmploymentStatuses = []EmploymentStatus{
	EmploymentEmployed,
	EmploymentSelfEmployed,
	EmploymentUnemployed,
	EmploymentStudent,
	EmploymentRetired,
}

func (e EmploymentStatus) Valid() bool {
	for _, v := range EmploymentStatuses {
		if e == v {
			return true
		}
	}
	return false
}

// Applicant is the owner summary attached to loans on list views
type Applicant struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// Loan represents a loan application
type Loan struct {
	ID                string           `json:"id"`
	UserID            string           `json:"user_id"`
	Amount            float64          `json:"amount"`
	Purpose           string           `json:"purpose"`
	EmploymentStatus  EmploymentStatus `json:"employment_status"`
	EmploymentAddress string           `json:"employment_address"`
	Status            LoanStatus       `json:"status"`
	VerifiedBy        *string          `json:"verified_by,omitempty"`
	VerifiedAt        *time.Time       `json:"verified_at,omitempty"`
	ApprovedBy        *string          `json:"approved_by,omitempty"`
	ApprovedAt        *time.Time       `json:"approved_at,omitempty"`
	RejectedBy        *string          `json:"rejected_by,omitempty"`
	RejectedAt        *time.Time       `json:"rejected_at,omitempty"`
	RejectionReason   string           `json:"rejection_reason,omitempty"`
	Applicant         *Applicant       `json:"applicant,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// Clone returns a copy that shares no mutable state with l
func (l *Loan) Clone() *Loan {
	cp := *l
	if l.Applicant != nil {
		a := *l.Applicant
		cp.Applicant = &a
	}
	return &cp
}

// LoanEventType classifies loan history entries
type LoanEventType string

const (
	EventCreate  LoanEventType = "CREATE"
	EventVerify  LoanEventType = "VERIFY"
	EventApprove LoanEventType = "APPROVE"
	EventReject  LoanEventType = "REJECT"
)

// LoanEvent is one entry of a loan's history
type LoanEvent struct {
	ID          uint          `json:"id"`
	LoanID      string        `json:"loan_id"`
	Type        LoanEventType `json:"type"`
	FromStatus  LoanStatus    `json:"from_status,omitempty"`
	ToStatus    LoanStatus    `json:"to_status"`
	PerformedBy string        `json:"performed_by"`
	IPAddress   string        `json:"ip_address,omitempty"`
	Remark      string        `json:"remark,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

// Statistics is the dashboard projection over all loans
type Statistics struct {
	TotalLoans      int64   `json:"total_loans"`
	ApprovedLoans   int64   `json:"approved_loans"`
	PendingLoans    int64   `json:"pending_loans"`
	VerifiedLoans   int64   `json:"verified_loans"`
	RejectedLoans   int64   `json:"rejected_loans"`
	TotalAmount     float64 `json:"total_amount"`
	DisbursedAmount float64 `json:"disbursed_amount"`
	ReceivedAmount  float64 `json:"received_amount"`
}
