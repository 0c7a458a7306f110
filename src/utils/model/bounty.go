package model

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

const (
	TableBounty = "bounties"
)

type Bounty struct {
	ID string

	// Principal that funded and created the bounty, immutable
	ClientAddress string

	// Principal that accepted the work, set by the accept transition
	FreelancerAddress sql.NullString

	// Principal authorized to approve or reject, may equal the client
	VerifierAddress string

	// Escrowed amount in the smallest currency unit
	Amount uint64

	// Unix timestamp in seconds
	Deadline int64

	Title       string
	Description string
	Tags        pq.StringArray `gorm:"type:text[]"`

	Status BountyStatus

	// Optimistic concurrency token, bumped on every update
	Version int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Bounty) TableName() string {
	return TableBounty
}
