package monitor

import "time"

// Status is a snapshot of the last dependency probe.
type Status struct {
	PostgreSQL bool      `json:"postgresql"`
	Redis      bool      `json:"redis"`
	Buffer     bool      `json:"buffer"`
	BufferSize int       `json:"buffer_size"`
	LastCheck  time.Time `json:"last_check"`
}

// Healthy reports whether both primary stores answered the probe.
func (s Status) Healthy() bool {
	return s.PostgreSQL && s.Redis
}
