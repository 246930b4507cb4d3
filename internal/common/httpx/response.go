package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"ghost-kitchen/internal/domain"
)

const maxBodyBytes = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteProblem writes a simplified RFC 7807 problem document.
func WriteProblem(w http.ResponseWriter, code int, typ, detail string) {
	w.Header().Set("Content-Type", "application/problem+json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"type":   typ,
		"title":  http.StatusText(code),
		"status": code,
		"detail": detail,
	})
}

type problem struct {
	err  error
	code int
	typ  string
}

var problems = []problem{
	{domain.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
	{domain.ErrNotFound, http.StatusNotFound, "not_found"},
	{domain.ErrDuplicateName, http.StatusConflict, "duplicate_name"},
	{domain.ErrCapacityExceeded, http.StatusConflict, "capacity_exceeded"},
	{domain.ErrNotRegistered, http.StatusPreconditionRequired, "not_registered"},
	{domain.ErrAlreadyPlayed, http.StatusConflict, "already_played"},
	{domain.ErrEmptyCart, http.StatusUnprocessableEntity, "empty_cart"},
	{domain.ErrCartLocked, http.StatusConflict, "cart_locked"},
	{domain.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
	{domain.ErrNoTransition, http.StatusConflict, "no_transition"},
}

// Status maps a domain error to its HTTP status and problem type.
func Status(err error) (int, string) {
	for _, p := range problems {
		if errors.Is(err, p.err) {
			return p.code, p.typ
		}
	}
	return http.StatusInternalServerError, "internal_error"
}

// WriteError renders err as a problem document. Unknown errors hide their
// detail from the client.
func WriteError(w http.ResponseWriter, err error) {
	code, typ := Status(err)
	detail := err.Error()
	if code == http.StatusInternalServerError {
		detail = "internal error"
	}
	WriteProblem(w, code, typ, detail)
}

// DecodeJSON reads a JSON body into dst and runs struct validation on it.
// Every failure wraps domain.ErrInvalidInput.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", domain.ErrInvalidInput, err)
	}
	return Validate(dst)
}

func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(fields, "; "))
	}
	return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
}
