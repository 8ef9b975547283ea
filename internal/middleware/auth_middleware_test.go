package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farhanrz/referbook/internal/models"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func authTestRouter(extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	chain := append([]gin.HandlerFunc{JWTAuthMiddleware()}, extra...)
	chain = append(chain, func(c *gin.Context) {
		userID, _ := c.Get("user_id")
		role, _ := c.Get("role")
		c.JSON(http.StatusOK, gin.H{
			"user_id": userID.(uuid.UUID).String(),
			"role":    string(role.(models.Role)),
		})
	})
	r.GET("/me", chain...)
	return r
}

func TestJWTAuthMiddlewareRejectsMissingToken(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	r := authTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddlewareRejectsGarbageToken(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	r := authTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddlewareRejectsExpiredToken(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	r := authTestRouter()

	token := signToken(t, jwt.MapClaims{
		"user_id":     uuid.New().String(),
		"role":        string(models.RoleCustomer),
		"vertical_id": uuid.New().String(),
		"exp":         time.Now().Add(-time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddlewareRejectsUnknownRole(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	r := authTestRouter()

	token := signToken(t, jwt.MapClaims{
		"user_id":     uuid.New().String(),
		"role":        "superuser",
		"vertical_id": uuid.New().String(),
		"exp":         time.Now().Add(time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddlewarePutsClaimsOnContext(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	r := authTestRouter()

	userID := uuid.New()
	token := signToken(t, jwt.MapClaims{
		"user_id":     userID.String(),
		"role":        string(models.RoleCustomer),
		"vertical_id": uuid.New().String(),
		"exp":         time.Now().Add(time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
	assert.Contains(t, w.Body.String(), string(models.RoleCustomer))
}

func TestAdminMiddlewareBlocksCustomers(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	r := authTestRouter(AdminMiddleware())

	token := signToken(t, jwt.MapClaims{
		"user_id":     uuid.New().String(),
		"role":        string(models.RoleCustomer),
		"vertical_id": uuid.New().String(),
		"exp":         time.Now().Add(time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminMiddlewareAllowsAdmins(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	r := authTestRouter(AdminMiddleware())

	token := signToken(t, jwt.MapClaims{
		"user_id":     uuid.New().String(),
		"role":        string(models.RoleAdmin),
		"vertical_id": uuid.New().String(),
		"exp":         time.Now().Add(time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
