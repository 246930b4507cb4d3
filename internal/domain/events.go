package domain

import "time"

// Change is broadcast after every write to the shared store so other
// views can refresh.
type Change struct {
	Key    string    `json:"key"`
	Source string    `json:"source"`
	At     time.Time `json:"at"`
}
