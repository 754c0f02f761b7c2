package accounting

import (
	"errors"
	"strings"

	"github.com/fabworks/backend/internal/domain/shared"
)

// ErrorKind distinguishes application faults from accounting sync faults
type ErrorKind string

const (
	KindApp  ErrorKind = "APP"
	KindSync ErrorKind = "SYNC"
)

// Severity ranks how urgent a persisted error is
type Severity string

const (
	SeverityInfo     Severity = "INFO"
	SeverityWarning  Severity = "WARNING"
	SeverityError    Severity = "ERROR"
	SeverityCritical Severity = "CRITICAL"
)

// AppError is a persisted operational error, kept so failures in background
// work and sync flows are visible after the fact
type AppError struct {
	shared.BaseEntity
	Kind     ErrorKind `gorm:"not null;size:10;index" json:"kind"`
	Severity Severity  `gorm:"not null;size:10;index" json:"severity"`
	Message  string    `gorm:"not null;size:2000" json:"message"`
	Context  string    `gorm:"type:text" json:"context,omitempty"`
	Resolved bool      `gorm:"not null;default:false;index" json:"resolved"`
}

// TableName returns the table name for GORM
func (AppError) TableName() string {
	return "app_errors"
}

// NewAppError creates a persisted error record
func NewAppError(kind ErrorKind, severity Severity, message, context string) (*AppError, error) {
	if kind != KindApp && kind != KindSync {
		return nil, shared.NewDomainError("INVALID_ERROR_KIND", "Unknown error kind")
	}
	if strings.TrimSpace(message) == "" {
		return nil, shared.NewDomainError("INVALID_MESSAGE", "Error message cannot be empty")
	}
	if severity == "" {
		severity = SeverityError
	}
	return &AppError{
		BaseEntity: shared.NewBaseEntity(),
		Kind:       kind,
		Severity:   severity,
		Message:    message,
		Context:    context,
	}, nil
}

// Resolve marks the error as dealt with
func (e *AppError) Resolve() error {
	if e.Resolved {
		return shared.NewDomainError("INVALID_STATE", "Error is already resolved")
	}
	e.Resolved = true
	e.Touch()
	return nil
}

// AlreadyLoggedError wraps an error that has been persisted as an AppError,
// so callers up the stack can propagate it without logging it again
type AlreadyLoggedError struct {
	Err error
}

// Error implements the error interface
func (e *AlreadyLoggedError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the wrapped error
func (e *AlreadyLoggedError) Unwrap() error {
	return e.Err
}

// MarkLogged wraps err so IsAlreadyLogged reports true for it. Wrapping an
// already-wrapped error is a no-op.
func MarkLogged(err error) error {
	if err == nil || IsAlreadyLogged(err) {
		return err
	}
	return &AlreadyLoggedError{Err: err}
}

// IsAlreadyLogged reports whether err has already been persisted
func IsAlreadyLogged(err error) bool {
	var logged *AlreadyLoggedError
	return errors.As(err, &logged)
}
