package report

import (
	"go.uber.org/atomic"
)

type AuditState struct {
	EventsSaved atomic.Uint64 `json:"events_saved"`
}

type AuditErrors struct {
	DbError atomic.Uint64 `json:"db_error"`
}

type AuditReport struct {
	State  AuditState  `json:"state"`
	Errors AuditErrors `json:"errors"`
}
