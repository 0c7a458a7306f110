package model

import (
	"database/sql"
	"database/sql/driver"
	"time"
)

const (
	TableFundTransfer = "fund_transfers"
)

// CREATE TYPE transfer_state AS ENUM ('PENDING', 'CONFIRMED', 'FAILED');
type TransferState string

const (
	TransferStatePending   TransferState = "PENDING"
	TransferStateConfirmed TransferState = "CONFIRMED"
	TransferStateFailed    TransferState = "FAILED"
)

func (self *TransferState) Scan(value interface{}) error {
	*self = TransferState(value.(string))
	return nil
}

func (self TransferState) Value() (driver.Value, error) {
	return string(self), nil
}

// Journal of escrow fund movements. One row per terminal transition,
// the unique (bounty_id, action) pair guarantees at most one release.
type FundTransfer struct {
	ID string

	BountyID string       `gorm:"uniqueIndex:idx_fund_transfers_bounty_action"`
	Action   BountyAction `gorm:"uniqueIndex:idx_fund_transfers_bounty_action"`

	Amount           uint64
	RecipientAddress string

	State TransferState

	// How many times the ledger call was attempted
	Attempts  int
	LastError sql.NullString

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (FundTransfer) TableName() string {
	return TableFundTransfer
}
