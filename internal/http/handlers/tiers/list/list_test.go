package list

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/moment-a/internal/lib/sl"
	"github.com/magabrotheeeer/moment-a/internal/models"
)

func TestHandler_ServeHTTP(t *testing.T) {
	rec := httptest.NewRecorder()
	New(sl.Discard()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/tiers", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []models.Tier `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 3)
	assert.Equal(t, "Starter", resp.Data[0].Name)
	assert.Equal(t, 20, resp.Data[2].Opportunities)
	assert.Equal(t, 9.99, resp.Data[2].Price)
}
