package models

import (
	"time"

	"loantrack/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ============================================================
// Auth & User Tables
// ============================================================

// User represents users table
type User struct {
	ID        string    `gorm:"primaryKey;size:36"`
	FullName  string    `gorm:"size:100;not null"`
	Email     string    `gorm:"uniqueIndex;size:100;not null"`
	Password  string    `gorm:"size:255;not null"`
	Role      string    `gorm:"size:20;not null;default:'user';index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a UUID when the caller did not
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (u *User) ToDomain() *domain.User {
	return &domain.User{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		Password:  u.Password,
		Role:      domain.Role(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func UserFromDomain(u *domain.User) *User {
	return &User{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		Password:  u.Password,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey"`
	UserID    string     `gorm:"size:36;index;not null"`
	TokenHash string     `gorm:"size:255;not null;index"`
	ExpiresAt time.Time  `gorm:"not null;index"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	RevokedAt *time.Time `gorm:"index"`
	User      User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) ToDomain() *domain.RefreshToken {
	return &domain.RefreshToken{
		ID:        rt.ID,
		UserID:    rt.UserID,
		TokenHash: rt.TokenHash,
		ExpiresAt: rt.ExpiresAt,
		CreatedAt: rt.CreatedAt,
		RevokedAt: rt.RevokedAt,
	}
}

// ============================================================
// Loan Tables
// ============================================================

// Loan represents loans table
type Loan struct {
	ID                string  `gorm:"primaryKey;size:36"`
	UserID            string  `gorm:"size:36;not null;index:idx_loans_user_status,priority:1"`
	Amount            float64 `gorm:"type:decimal(15,2);not null"`
	Purpose           string  `gorm:"type:text;not null"`
	EmploymentStatus  string  `gorm:"size:20;not null"`
	EmploymentAddress string  `gorm:"type:text;not null"`
	Status            string  `gorm:"size:20;not null;default:'pending';index;index:idx_loans_user_status,priority:2"`
	VerifiedBy        *string `gorm:"size:36"`
	VerifiedAt        *time.Time
	ApprovedBy        *string `gorm:"size:36"`
	ApprovedAt        *time.Time
	RejectedBy        *string `gorm:"size:36"`
	RejectedAt        *time.Time
	RejectionReason   string    `gorm:"type:text"`
	CreatedAt         time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`

	// Relations. No DB constraint: loans outlive a deleted owner account.
	Owner *User `gorm:"foreignKey:UserID;constraint:-"`
}

func (Loan) TableName() string {
	return "loans"
}

func (l *Loan) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

func (l *Loan) ToDomain() *domain.Loan {
	loan := &domain.Loan{
		ID:                l.ID,
		UserID:            l.UserID,
		Amount:            l.Amount,
		Purpose:           l.Purpose,
		EmploymentStatus:  domain.EmploymentStatus(l.EmploymentStatus),
		EmploymentAddress: l.EmploymentAddress,
		Status:            domain.LoanStatus(l.Status),
		VerifiedBy:        l.VerifiedBy,
		VerifiedAt:        l.VerifiedAt,
		ApprovedBy:        l.ApprovedBy,
		ApprovedAt:        l.ApprovedAt,
		RejectedBy:        l.RejectedBy,
		RejectedAt:        l.RejectedAt,
		RejectionReason:   l.RejectionReason,
		CreatedAt:         l.CreatedAt,
		UpdatedAt:         l.UpdatedAt,
	}
	if l.Owner != nil {
		loan.Applicant = &domain.Applicant{FullName: l.Owner.FullName, Email: l.Owner.Email}
	}
	return loan
}

func LoanFromDomain(l *domain.Loan) *Loan {
	return &Loan{
		ID:                l.ID,
		UserID:            l.UserID,
		Amount:            l.Amount,
		Purpose:           l.Purpose,
		EmploymentStatus:  string(l.EmploymentStatus),
		EmploymentAddress: l.EmploymentAddress,
		Status:            string(l.Status),
		VerifiedBy:        l.VerifiedBy,
		VerifiedAt:        l.VerifiedAt,
		ApprovedBy:        l.ApprovedBy,
		ApprovedAt:        l.ApprovedAt,
		RejectedBy:        l.RejectedBy,
		RejectedAt:        l.RejectedAt,
		RejectionReason:   l.RejectionReason,
		CreatedAt:         l.CreatedAt,
		UpdatedAt:         l.UpdatedAt,
	}
}

// LoanEvent is one row of a loan's status history
type LoanEvent struct {
	ID          uint      `gorm:"primaryKey"`
	LoanID      string    `gorm:"size:36;not null;index"`
	EventType   string    `gorm:"size:20;not null"`
	FromStatus  string    `gorm:"size:20"`
	ToStatus    string    `gorm:"size:20;not null"`
	PerformedBy string    `gorm:"size:36;not null"`
	IPAddress   string    `gorm:"size:50"`
	Remark      string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`

	// Relations
	Loan *Loan `gorm:"foreignKey:LoanID;constraint:OnDelete:CASCADE"`
}

func (LoanEvent) TableName() string {
	return "loan_events"
}

func (e *LoanEvent) ToDomain() *domain.LoanEvent {
	return &domain.LoanEvent{
		ID:          e.ID,
		LoanID:      e.LoanID,
		Type:        domain.LoanEventType(e.EventType),
		FromStatus:  domain.LoanStatus(e.FromStatus),
		ToStatus:    domain.LoanStatus(e.ToStatus),
		PerformedBy: e.PerformedBy,
		IPAddress:   e.IPAddress,
		Remark:      e.Remark,
		CreatedAt:   e.CreatedAt,
	}
}

func LoanEventFromDomain(e *domain.LoanEvent) *LoanEvent {
	return &LoanEvent{
		ID:          e.ID,
		LoanID:      e.LoanID,
		EventType:   string(e.Type),
		FromStatus:  string(e.FromStatus),
		ToStatus:    string(e.ToStatus),
		PerformedBy: e.PerformedBy,
		IPAddress:   e.IPAddress,
		Remark:      e.Remark,
		CreatedAt:   e.CreatedAt,
	}
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate creates or updates every table the service owns
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Loan{},
		&LoanEvent{},
	)
}
