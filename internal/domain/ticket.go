package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxClients caps registrations; ticket codes run #0001..#0099.
const MaxClients = 99

func FormatTicket(seq int) string { return fmt.Sprintf("#%04d", seq) }

// NormalizeTicket accepts "#0007", "0007", "#7" or "7" and returns "#0007".
func NormalizeTicket(raw string) (string, error) {
	s := strings.TrimPrefix(strings.TrimSpace(raw), "#")
	if s == "" {
		return "", fmt.Errorf("%w: empty ticket code", ErrInvalidInput)
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return "", fmt.Errorf("%w: malformed ticket code %q", ErrInvalidInput, raw)
	}
	return FormatTicket(n), nil
}
