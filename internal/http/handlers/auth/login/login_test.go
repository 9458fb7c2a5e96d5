package login

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/moment-a/internal/http/middlewarectx"
	"github.com/magabrotheeeer/moment-a/internal/lib/sl"
	"github.com/magabrotheeeer/moment-a/internal/models"
	loginservice "github.com/magabrotheeeer/moment-a/internal/services/login"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Login(ctx context.Context, contextID, identifier, pin string, entry loginservice.EntryPoint) (loginservice.Result, error) {
	args := m.Called(ctx, contextID, identifier, pin, entry)
	return args.Get(0).(loginservice.Result), args.Error(1)
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	user := models.SessionUser{DisplayName: "abc123", Email: "a@x.com", Phone: "+1"}

	tests := []struct {
		name           string
		requestBody    any
		contextID      string
		setupMock      func(*ServiceMock)
		wantStatusCode int
		wantStatus     string
		wantError      string
		wantMessage    string
	}{
		{
			name:        "valid login from enter",
			requestBody: Request{Identifier: "a@x.com", PIN: "123456", EntryPoint: "enter"},
			contextID:   "ctx-1",
			setupMock: func(m *ServiceMock) {
				m.On("Login", mock.Anything, "ctx-1", "a@x.com", "123456", loginservice.EntryEnter).
					Return(loginservice.Result{User: user, Message: loginservice.MsgWelcomeEnter}, nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
			wantMessage:    loginservice.MsgWelcomeEnter,
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			contextID:      "ctx-1",
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     "Error",
			wantError:      "invalid request body",
		},
		{
			name:           "unknown entry point",
			requestBody:    Request{Identifier: "a@x.com", PIN: "123456", EntryPoint: "banner"},
			contextID:      "ctx-1",
			wantStatusCode: http.StatusUnprocessableEntity,
			wantStatus:     "Error",
			wantError:      "field EntryPoint must be one of: enter login",
		},
		{
			name:        "missing fields",
			requestBody: Request{PIN: "123456"},
			contextID:   "ctx-1",
			setupMock: func(m *ServiceMock) {
				m.On("Login", mock.Anything, "ctx-1", "", "123456", loginservice.EntryPoint("")).
					Return(loginservice.Result{}, models.NewValidationError(loginservice.MsgMissingFields)).Once()
			},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantStatus:     "Error",
			wantError:      loginservice.MsgMissingFields,
		},
		{
			name:        "invalid credentials",
			requestBody: Request{Identifier: "a@x.com", PIN: "000000"},
			contextID:   "ctx-1",
			setupMock: func(m *ServiceMock) {
				m.On("Login", mock.Anything, "ctx-1", "a@x.com", "000000", loginservice.EntryPoint("")).
					Return(loginservice.Result{}, models.ErrInvalidCredentials).Once()
			},
			wantStatusCode: http.StatusUnauthorized,
			wantStatus:     "Error",
			wantError:      "Invalid credentials. Please try again.",
		},
		{
			name:        "store failure",
			requestBody: Request{Identifier: "a@x.com", PIN: "123456"},
			contextID:   "ctx-1",
			setupMock: func(m *ServiceMock) {
				m.On("Login", mock.Anything, "ctx-1", "a@x.com", "123456", loginservice.EntryPoint("")).
					Return(loginservice.Result{}, errors.New("redis: connection refused")).Once()
			},
			wantStatusCode: http.StatusInternalServerError,
			wantStatus:     "Error",
			wantError:      "internal server error",
		},
		{
			name:           "no browsing context",
			requestBody:    Request{Identifier: "a@x.com", PIN: "123456"},
			wantStatusCode: http.StatusUnauthorized,
			wantStatus:     "Error",
			wantError:      "browsing context missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.setupMock != nil {
				tt.setupMock(svc)
			}

			var bodyBytes []byte
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				var err error
				bodyBytes, err = json.Marshal(tt.requestBody)
				require.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(bodyBytes))
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
			if tt.contextID != "" {
				ctx = middlewarectx.WithContextID(ctx, tt.contextID)
			}
			req = req.WithContext(ctx)
			rec := httptest.NewRecorder()

			New(sl.Discard(), svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var resp struct {
				Status string         `json:"status"`
				Error  string         `json:"error"`
				Data   map[string]any `json:"data"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Equal(t, tt.wantError, resp.Error)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, resp.Data["message"])
			}
			svc.AssertExpectations(t)
		})
	}
}
