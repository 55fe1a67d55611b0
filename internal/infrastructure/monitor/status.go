package monitor

import "time"

type Status struct {
	Store     bool      `json:"store"`
	Slots     int       `json:"slots"`
	Records   int       `json:"records"`
	Products  int       `json:"products"`
	LastCheck time.Time `json:"last_check"`
}
