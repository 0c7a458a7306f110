package model

import (
	"database/sql"
	"time"
)

const (
	TableBountyEvent = "bounty_events"
)

// Audit trail of committed transitions, append only
type BountyEvent struct {
	ID string

	BountyID string
	Action   BountyAction

	// Empty for the create event
	FromStatus sql.NullString
	ToStatus   BountyStatus

	Actor  string
	Amount uint64

	CreatedAt time.Time
}

func (BountyEvent) TableName() string {
	return TableBountyEvent
}
