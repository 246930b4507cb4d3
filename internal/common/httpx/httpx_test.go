package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghost-kitchen/internal/domain"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		err  error
		code int
		typ  string
	}{
		{fmt.Errorf("wrap: %w", domain.ErrInvalidInput), http.StatusBadRequest, "invalid_input"},
		{domain.ErrNotFound, http.StatusNotFound, "not_found"},
		{domain.ErrDuplicateName, http.StatusConflict, "duplicate_name"},
		{domain.ErrNotRegistered, http.StatusPreconditionRequired, "not_registered"},
		{domain.ErrEmptyCart, http.StatusUnprocessableEntity, "empty_cart"},
		{domain.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		code, typ := Status(tc.err)
		assert.Equal(t, tc.code, code, tc.err.Error())
		assert.Equal(t, tc.typ, typ, tc.err.Error())
	}
}

func TestWriteError_HidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errors.New("connection refused to 10.0.0.1"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/problem+json; charset=utf-8", rec.Header().Get("Content-Type"))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal error", body["detail"])
	assert.Equal(t, "internal_error", body["type"])
	assert.EqualValues(t, 500, body["status"])
}

func TestDecodeJSON(t *testing.T) {
	decode := func(body string) error {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		var req domain.CheckoutRequest
		return DecodeJSON(r, &req)
	}

	assert.NoError(t, decode(`{"payment_method":"cash","delivery_type":"pickup"}`))
	assert.ErrorIs(t, decode(`{"payment_method":"bitcoin","delivery_type":"pickup"}`), domain.ErrInvalidInput)
	assert.ErrorIs(t, decode(`{"delivery_type":"pickup"}`), domain.ErrInvalidInput)
	assert.ErrorIs(t, decode(`{not json`), domain.ErrInvalidInput)
	assert.ErrorIs(t, decode(`{"payment_method":"cash","delivery_type":"pickup","tip":1}`), domain.ErrInvalidInput)
}

func TestSessions(t *testing.T) {
	var seen string
	h := Sessions(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, seen)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, seen, cookies[0].Value)

	first := seen
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, first, seen)
	assert.Empty(t, rec.Result().Cookies())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "forged"})
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.NotEqual(t, "forged", seen)
}
