package middlewares

import (
	"medbook-service/internal/app/config"
	"medbook-service/internal/pkg/constvars"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func signTestToken(t *testing.T, secret, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": subject})
	signed, err := token.SignedString([]byte(secret))
	assert.NoError(t, err)
	return signed
}

func TestAuthentication(t *testing.T) {
	secret := "test-secret"
	m := NewMiddlewares(zap.NewNop(), &config.InternalConfig{
		JWT: config.JWT{Secret: secret},
	})

	var capturedRequesterID string
	handler := m.Authentication(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedRequesterID, _ = r.Context().Value(constvars.CONTEXT_REQUESTER_ID_KEY).(string)
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("missing authorization header", func(t *testing.T) {
		capturedRequesterID = ""
		req := httptest.NewRequest(http.MethodGet, "/appointments/me", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Empty(t, capturedRequesterID)
	})

	t.Run("malformed token", func(t *testing.T) {
		capturedRequesterID = ""
		req := httptest.NewRequest(http.MethodGet, "/appointments/me", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Bearer not-a-token")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Empty(t, capturedRequesterID)
	})

	t.Run("token signed with a different secret", func(t *testing.T) {
		capturedRequesterID = ""
		req := httptest.NewRequest(http.MethodGet, "/appointments/me", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Bearer "+signTestToken(t, "other-secret", "patient-1"))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Empty(t, capturedRequesterID)
	})

	t.Run("valid token puts subject into context", func(t *testing.T) {
		capturedRequesterID = ""
		req := httptest.NewRequest(http.MethodGet, "/appointments/me", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Bearer "+signTestToken(t, secret, "patient-1"))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "patient-1", capturedRequesterID)
	})
}
