package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabworks/backend/internal/infrastructure/auth"
	"github.com/fabworks/backend/internal/infrastructure/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeBlacklist struct {
	revoked map[string]bool
	err     error
}

func (b *fakeBlacklist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if b.revoked == nil {
		b.revoked = make(map[string]bool)
	}
	b.revoked[tokenID] = true
	return nil
}

func (b *fakeBlacklist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if b.err != nil {
		return false, b.err
	}
	return b.revoked[tokenID], nil
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-access-secret-0123456789abcdef",
		RefreshSecret:          "test-refresh-secret-0123456789abcde",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "fabworks-test",
	})
}

func testSubject() auth.TokenSubject {
	return auth.TokenSubject{
		StaffID: uuid.New(),
		Email:   "dave@fabworks.test",
		Name:    "Dave",
		Admin:   true,
	}
}

func setupAuthRouter(cfg JWTConfig) *gin.Engine {
	router := gin.New()
	router.Use(JWTAuth(cfg))
	router.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"staff_id": GetStaffID(c).String(),
			"admin":    IsAdmin(c),
		})
	})
	router.POST("/login", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestJWTAuth_ValidToken(t *testing.T) {
	svc := newTestJWTService()
	subject := testSubject()
	pair, err := svc.GenerateTokenPair(subject)
	require.NoError(t, err)

	router := setupAuthRouter(JWTConfig{JWTService: svc})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+pair.AccessToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), subject.StaffID.String())
	assert.Contains(t, w.Body.String(), `"admin":true`)
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	router := setupAuthRouter(JWTConfig{JWTService: newTestJWTService()})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
}

func TestJWTAuth_RefreshTokenRejectedAsAccess(t *testing.T) {
	svc := newTestJWTService()
	pair, err := svc.GenerateTokenPair(testSubject())
	require.NoError(t, err)

	router := setupAuthRouter(JWTConfig{JWTService: svc})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+pair.RefreshToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_RevokedToken(t *testing.T) {
	svc := newTestJWTService()
	pair, err := svc.GenerateTokenPair(testSubject())
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	blacklist := &fakeBlacklist{}
	require.NoError(t, blacklist.Revoke(context.Background(), claims.ID, time.Hour))

	router := setupAuthRouter(JWTConfig{JWTService: svc, Blacklist: blacklist})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+pair.AccessToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_REVOKED")
}

func TestJWTAuth_BlacklistOutageFailsOpen(t *testing.T) {
	svc := newTestJWTService()
	pair, err := svc.GenerateTokenPair(testSubject())
	require.NoError(t, err)

	blacklist := &fakeBlacklist{err: errors.New("connection refused")}
	router := setupAuthRouter(JWTConfig{JWTService: svc, Blacklist: blacklist})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+pair.AccessToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuth_SkipPaths(t *testing.T) {
	router := setupAuthRouter(JWTConfig{
		JWTService: newTestJWTService(),
		SkipPaths:  []string{"/login"},
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	router := gin.New()
	router.GET("/admin", func(c *gin.Context) {
		c.Set(JWTAdminKey, false)
	}, RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/admin-ok", func(c *gin.Context) {
		c.Set(JWTAdminKey, true)
	}, RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin-ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
