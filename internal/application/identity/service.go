package identity

import (
	"context"

	"go.uber.org/zap"

	"github.com/fabworks/backend/internal/domain/shared"
	"github.com/fabworks/backend/internal/domain/workforce"
	"github.com/fabworks/backend/internal/infrastructure/auth"
)

// Service authenticates staff and manages their sessions
type Service struct {
	staff     workforce.StaffRepository
	tokens    *auth.JWTService
	blacklist auth.TokenBlacklist
	logger    *zap.Logger
}

// NewService creates a new identity service
func NewService(staff workforce.StaffRepository, tokens *auth.JWTService, blacklist auth.TokenBlacklist, logger *zap.Logger) *Service {
	return &Service{
		staff:     staff,
		tokens:    tokens,
		blacklist: blacklist,
		logger:    logger,
	}
}

// Login verifies credentials and issues a token pair. Failures are reported
// uniformly so callers cannot probe which emails exist.
func (s *Service) Login(ctx context.Context, email, password string) (*auth.TokenPair, *workforce.Staff, error) {
	member, err := s.staff.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, shared.ErrUnauthorized
	}
	if !member.Active || !member.VerifyPassword(password) {
		s.logger.Warn("failed login attempt", zap.String("email", email))
		return nil, nil, shared.ErrUnauthorized
	}

	pair, err := s.tokens.GenerateTokenPair(auth.TokenSubject{
		StaffID: member.GetID(),
		Email:   member.Email,
		Name:    member.Name,
		Admin:   member.Admin,
	})
	if err != nil {
		return nil, nil, err
	}
	s.logger.Info("staff logged in", zap.String("email", member.Email))
	return pair, member, nil
}

// Refresh exchanges a valid refresh token for a new token pair
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}
	if revoked, err := s.blacklist.IsRevoked(ctx, claims.ID); err != nil {
		// Fail open: a blacklist outage should not lock everyone out
		s.logger.Error("token blacklist check failed",
			zap.String("jti", claims.ID), zap.Error(err))
	} else if revoked {
		return nil, shared.ErrUnauthorized
	}

	// Re-check the staff member still exists and is active
	staffID, err := claims.GetStaffUUID()
	if err != nil {
		return nil, shared.ErrUnauthorized
	}
	member, err := s.staff.FindByID(ctx, staffID)
	if err != nil || !member.Active {
		return nil, shared.ErrUnauthorized
	}

	return s.tokens.RefreshTokenPair(refreshToken)
}

// Logout revokes both tokens of a session for their remaining lifetime
func (s *Service) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if claims, err := s.tokens.ValidateAccessToken(accessToken); err == nil {
		if err := s.blacklist.Revoke(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
			return err
		}
	}
	if refreshToken == "" {
		return nil
	}
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil
	}
	return s.blacklist.Revoke(ctx, claims.ID, claims.GetRemainingTTL())
}
