package middlewarectx_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/moment-a/internal/http/middlewarectx"
	"github.com/magabrotheeeer/moment-a/internal/lib/jwt"
	"github.com/magabrotheeeer/moment-a/internal/lib/sl"
)

type TokenParserMock struct {
	mock.Mock
}

func (m *TokenParserMock) ParseToken(token string) (*jwt.ContextClaims, error) {
	args := m.Called(token)
	claims, _ := args.Get(0).(*jwt.ContextClaims)
	return claims, args.Error(1)
}

func TestContextMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		authHeader     string
		claims         *jwt.ContextClaims
		parseErr       error
		wantStatusCode int
		wantCalled     bool
	}{
		{
			name:           "missing Authorization header",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "invalid Authorization header prefix",
			authHeader:     "Basic sometoken",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "token rejected",
			authHeader:     "Bearer token",
			parseErr:       errors.New("token is expired"),
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "valid token",
			authHeader:     "Bearer validtoken",
			claims:         &jwt.ContextClaims{ContextID: "ctx-1"},
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := new(TokenParserMock)
			if tt.claims != nil || tt.parseErr != nil {
				parser.On("ParseToken", tt.authHeader[len("Bearer "):]).Return(tt.claims, tt.parseErr).Once()
			}

			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				id, ok := middlewarectx.ContextIDFrom(r.Context())
				assert.True(t, ok)
				assert.Equal(t, "ctx-1", id)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/somepath", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			middlewarectx.ContextMiddleware(parser, sl.Discard())(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantCalled, called)
			parser.AssertExpectations(t)
		})
	}
}

func TestContextIDFrom_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := middlewarectx.ContextIDFrom(req.Context())
	assert.False(t, ok)

	_, ok = middlewarectx.ContextIDFrom(middlewarectx.WithContextID(req.Context(), ""))
	assert.False(t, ok)
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := middlewarectx.NewLimiter(0.001, 2)
	handler := middlewarectx.RateLimitMiddleware(limiter, sl.Discard())(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }))

	do := func(contextID, addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = addr
		if contextID != "" {
			req = req.WithContext(middlewarectx.WithContextID(req.Context(), contextID))
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do("a", "10.0.0.1:1000"))
	assert.Equal(t, http.StatusOK, do("a", "10.0.0.1:1000"))
	assert.Equal(t, http.StatusTooManyRequests, do("a", "10.0.0.1:1000"))

	assert.Equal(t, http.StatusOK, do("b", "10.0.0.1:1000"), "limits are per browsing context")

	assert.Equal(t, http.StatusOK, do("", "10.0.0.2:1000"))
	assert.Equal(t, http.StatusOK, do("", "10.0.0.2:2000"))
	assert.Equal(t, http.StatusTooManyRequests, do("", "10.0.0.2:3000"), "without a context the host is the key")
}
