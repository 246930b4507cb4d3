package domain

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrDuplicateName    = errors.New("client name already registered")
	ErrCapacityExceeded = errors.New("ticket capacity exhausted")
	ErrNotRegistered    = errors.New("no active client, register first")
	ErrAlreadyPlayed    = errors.New("darts already played")
	ErrEmptyCart        = errors.New("cart is empty, nothing to checkout")
	ErrCartLocked       = errors.New("cart quantities are locked for a fidelity order")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrNoTransition     = errors.New("order has no further status")
)
