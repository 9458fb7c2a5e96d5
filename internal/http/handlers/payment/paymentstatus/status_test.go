package paymentstatus

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/moment-a/internal/events"
	"github.com/magabrotheeeer/moment-a/internal/http/middlewarectx"
	"github.com/magabrotheeeer/moment-a/internal/lib/sl"
	"github.com/magabrotheeeer/moment-a/internal/models"
	"github.com/magabrotheeeer/moment-a/internal/paymentprovider"
	"github.com/magabrotheeeer/moment-a/internal/services/payment"
	"github.com/magabrotheeeer/moment-a/internal/services/session"
	"github.com/magabrotheeeer/moment-a/internal/services/subscription"
	"github.com/magabrotheeeer/moment-a/internal/store"
)

func newCheckout(t *testing.T, latency time.Duration) *payment.Checkout {
	t.Helper()
	st := store.NewMemory()
	log := sl.Discard()
	sessions := session.New(st, "abc123", log)
	c := payment.NewCheckout(
		paymentprovider.NewSimulated(latency),
		subscription.NewLedger(st, sessions, log),
		sessions,
		events.NewLogPublisher(log),
		payment.Options{Timeout: time.Minute},
		log,
	)
	t.Cleanup(c.Close)
	return c
}

func get(t *testing.T, h *Handler, contextID, path string) (int, string, models.Payment) {
	t.Helper()
	router := chi.NewRouter()
	router.Get("/payments/{paymentID}", h.ServeHTTP)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	req = req.WithContext(middlewarectx.WithContextID(req.Context(), contextID))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp struct {
		Error string         `json:"error"`
		Data  models.Payment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec.Code, resp.Error, resp.Data
}

func TestStatusHandler_WaitForCompletion(t *testing.T) {
	c := newCheckout(t, 20*time.Millisecond)
	p, err := c.Initiate(context.Background(), "ctx-1", "juan", 1)
	require.NoError(t, err)
	h := New(sl.Discard(), c, 5*time.Second)

	code, _, got := get(t, h, "ctx-1", "/payments/"+p.ID+"?wait=true")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, models.PaymentSucceeded, got.Status)
	assert.Equal(t, "¡Éxito! Ya tienes 4 oportunidades según tu suscripción Starter.", got.Message)
}

func TestStatusHandler_WaitLimitReturnsPending(t *testing.T) {
	c := newCheckout(t, time.Hour)
	p, err := c.Initiate(context.Background(), "ctx-1", "juan", 1)
	require.NoError(t, err)
	h := New(sl.Discard(), c, 10*time.Millisecond)

	code, _, got := get(t, h, "ctx-1", "/payments/"+p.ID+"?wait=true")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, models.PaymentPending, got.Status)

	code, _, got = get(t, h, "ctx-1", "/payments/"+p.ID)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, p.ID, got.ID)
}

func TestStatusHandler_NotFound(t *testing.T) {
	c := newCheckout(t, 0)
	p, err := c.Initiate(context.Background(), "ctx-1", "juan", 1)
	require.NoError(t, err)
	h := New(sl.Discard(), c, time.Second)

	code, msg, _ := get(t, h, "ctx-2", "/payments/"+p.ID)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "payment not found", msg)

	code, _, _ = get(t, h, "ctx-1", "/payments/unknown")
	assert.Equal(t, http.StatusNotFound, code)
}
