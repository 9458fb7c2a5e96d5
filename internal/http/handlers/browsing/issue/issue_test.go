package issue

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/moment-a/internal/lib/jwt"
	"github.com/magabrotheeeer/moment-a/internal/lib/sl"
)

type failingGenerator struct{}

func (failingGenerator) GenerateToken(string) (string, error) {
	return "", errors.New("signing failed")
}

func TestHandler_IssuesParsableToken(t *testing.T) {
	maker := jwt.NewJWTMaker("secret", time.Hour)
	rec := httptest.NewRecorder()

	New(sl.Discard(), maker).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/contexts", nil))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			ContextID string `json:"contextId"`
			Token     string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "OK", resp.Status)
	require.NotEmpty(t, resp.Data.ContextID)

	claims, err := maker.ParseToken(resp.Data.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.Data.ContextID, claims.ContextID)
}

func TestHandler_GeneratorError(t *testing.T) {
	rec := httptest.NewRecorder()
	New(sl.Discard(), failingGenerator{}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/contexts", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal server error")
}
