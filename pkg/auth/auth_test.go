package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-industria/pkg/tenant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc, err := NewJWTService("segredo", time.Hour)
	require.NoError(t, err)

	token, err := svc.GenerateToken(Identity{UserID: "u1", TenantID: "t1", Role: RolePlanner})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "t1", claims.TenantID)
	assert.Equal(t, RolePlanner, claims.Role)
}

func TestValidateExpiredToken(t *testing.T) {
	svc, err := NewJWTService("segredo", time.Hour)
	require.NoError(t, err)

	issued := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }
	token, err := svc.GenerateToken(Identity{UserID: "u1", TenantID: "t1"})
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestNewJWTServiceRequiresKey(t *testing.T) {
	_, err := NewJWTService("", time.Hour)
	assert.ErrorIs(t, err, ErrMissingJWTKey)
}

func TestMiddlewarePropagatesTenant(t *testing.T) {
	svc, err := NewJWTService("segredo", time.Hour)
	require.NoError(t, err)
	token, err := svc.GenerateToken(Identity{UserID: "u1", TenantID: "t1", Role: RoleFiscal})
	require.NoError(t, err)

	router := gin.New()
	router.GET("/p", JWTAuthMiddleware(svc), RoleAuthMiddleware(RoleFiscal), func(c *gin.Context) {
		c.String(http.StatusOK, tenant.GetTenantIDFromContext(c.Request.Context()))
	})
	router.GET("/planner", JWTAuthMiddleware(svc), RoleAuthMiddleware(RolePlanner), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "t1", rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/planner", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/p", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
