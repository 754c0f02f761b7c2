package workforce

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/fabworks/backend/internal/domain/shared"
)

// Staff is a workshop employee who can log in and log time against jobs
type Staff struct {
	shared.BaseAggregateRoot
	Email         string          `gorm:"uniqueIndex;not null;size:255" json:"email"`
	Name          string          `gorm:"not null;size:255" json:"name"`
	PasswordHash  string          `gorm:"not null;size:255" json:"-"`
	WageRate      decimal.Decimal `gorm:"type:decimal(8,2);not null" json:"wage_rate"`
	ChargeOutRate decimal.Decimal `gorm:"type:decimal(8,2);not null" json:"charge_out_rate"`
	Active        bool            `gorm:"not null;default:true;index" json:"active"`
	Admin         bool            `gorm:"not null;default:false" json:"admin"`
}

// TableName returns the table name for GORM
func (Staff) TableName() string {
	return "staff"
}

// NewStaff creates an active staff member with a bcrypt password hash
func NewStaff(email, name, password string, wageRate, chargeOutRate decimal.Decimal) (*Staff, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(password) < 8 {
		return nil, shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if wageRate.IsNegative() || chargeOutRate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_RATE", "Rates cannot be negative")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &Staff{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		Name:              name,
		PasswordHash:      string(hash),
		WageRate:          wageRate,
		ChargeOutRate:     chargeOutRate,
		Active:            true,
	}, nil
}

// VerifyPassword checks a plaintext password against the stored hash
func (s *Staff) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(s.PasswordHash), []byte(password)) == nil
}

// ChangePassword replaces the stored password hash
func (s *Staff) ChangePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.PasswordHash = string(hash)
	s.Touch()
	return nil
}

// UpdateRates changes the wage and charge-out rates. Existing time entries
// keep the rates frozen at logging time.
func (s *Staff) UpdateRates(wageRate, chargeOutRate decimal.Decimal) error {
	if wageRate.IsNegative() || chargeOutRate.IsNegative() {
		return shared.NewDomainError("INVALID_RATE", "Rates cannot be negative")
	}
	s.WageRate = wageRate
	s.ChargeOutRate = chargeOutRate
	s.Touch()
	return nil
}

// Deactivate disables the account without deleting history
func (s *Staff) Deactivate() error {
	if !s.Active {
		return shared.NewDomainError("INVALID_STATE", "Staff member is already inactive")
	}
	s.Active = false
	s.Touch()
	return nil
}

// Activate re-enables a deactivated account
func (s *Staff) Activate() error {
	if s.Active {
		return shared.NewDomainError("INVALID_STATE", "Staff member is already active")
	}
	s.Active = true
	s.Touch()
	return nil
}
