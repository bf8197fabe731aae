package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eclora/eclora-api/internal/domain/user"
)

func TestManager_IssueVerify(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	u := &user.User{ID: "user-1", Role: user.RoleAdmin}

	token, err := m.Issue(u)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, user.RoleAdmin, claims.Role)
}

func TestManager_VerifyExpired(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	issued := time.Now()
	m.now = func() time.Time { return issued }

	token, err := m.Issue(&user.User{ID: "user-1", Role: user.RoleUser})
	require.NoError(t, err)

	m.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_VerifyWrongSecret(t *testing.T) {
	token, err := NewManager("secret-a", time.Hour).Issue(&user.User{ID: "user-1"})
	require.NoError(t, err)

	_, err = NewManager("secret-b", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_VerifyGarbage(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	_, err := m.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPassword_HashAndCheck(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	require.NotEqual(t, "hunter2", hash)

	assert.NoError(t, CheckPassword(hash, "hunter2"))
	assert.ErrorIs(t, CheckPassword(hash, "hunter3"), ErrWrongPassword)
}

// Bcrypt hashes are case-sensitive, so the storage layer must persist them
// byte-exact. A hash that went through any case normalization never verifies.
func TestPassword_HashIsCaseSensitive(t *testing.T) {
	hash, err := HashPassword("S3cret-Pass")
	require.NoError(t, err)

	mangled := strings.ToLower(hash)
	require.NotEqual(t, hash, mangled)
	assert.ErrorIs(t, CheckPassword(mangled, "S3cret-Pass"), ErrWrongPassword)
}

func newAuthRouter(m *Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", m.Protect(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": ClaimsFrom(c).UserID})
	})
	r.GET("/admin", m.Protect(), m.RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/maybe", m.OptionalAuth(), func(c *gin.Context) {
		if claims := ClaimsFrom(c); claims != nil {
			c.JSON(http.StatusOK, gin.H{"userId": claims.UserID})
			return
		}
		c.JSON(http.StatusOK, gin.H{"userId": nil})
	})
	return r
}

func TestMiddleware(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	router := newAuthRouter(m)

	userToken, err := m.Issue(&user.User{ID: "user-1", Role: user.RoleUser})
	require.NoError(t, err)
	adminToken, err := m.Issue(&user.User{ID: "admin-1", Role: user.RoleAdmin})
	require.NoError(t, err)

	tests := []struct {
		name       string
		path       string
		authHeader string
		wantStatus int
	}{
		{"protect without token", "/me", "", http.StatusUnauthorized},
		{"protect with malformed header", "/me", "Token abc", http.StatusUnauthorized},
		{"protect with bad token", "/me", "Bearer nope", http.StatusUnauthorized},
		{"protect with valid token", "/me", "Bearer " + userToken, http.StatusOK},
		{"admin as user", "/admin", "Bearer " + userToken, http.StatusForbidden},
		{"admin as admin", "/admin", "Bearer " + adminToken, http.StatusOK},
		{"optional without token", "/maybe", "", http.StatusOK},
		{"optional with bad token", "/maybe", "Bearer nope", http.StatusOK},
		{"optional with valid token", "/maybe", "Bearer " + userToken, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
