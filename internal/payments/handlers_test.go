package payments_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stayhaven/edge/internal/payments"
)

func TestConfirmAnswersPaid(t *testing.T) {
	client := &scriptedClient{paidAt: 1}
	p := payments.NewPoller(client, 5*time.Millisecond, time.Second)

	var invalidated bool
	h := payments.NewHandler(p, nil, func() { invalidated = true })

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/confirm?bookingId=b-1&orderCode=ORD1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Data struct {
			Status payments.Result `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Equal(t, payments.ResultPaid, out.Data.Status)
	require.True(t, invalidated)
}

func TestConfirmRequiresIdentifiers(t *testing.T) {
	p := payments.NewPoller(&scriptedClient{}, time.Millisecond, time.Second)
	h := payments.NewHandler(p, nil, nil)

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/confirm?bookingId=b-1", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConfirmReportsTimeout(t *testing.T) {
	p := payments.NewPoller(&scriptedClient{}, 5*time.Millisecond, 20*time.Millisecond)
	h := payments.NewHandler(p, nil, nil)

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/confirm?bookingId=b-1&orderCode=ORD1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Data struct {
			Status payments.Result `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Equal(t, payments.ResultTimedOut, out.Data.Status)
}
