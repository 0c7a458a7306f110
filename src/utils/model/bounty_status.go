package model

import (
	"database/sql/driver"
	"fmt"
)

// CREATE TYPE bounty_status AS ENUM ('OPEN', 'ACCEPTED', 'APPROVED', 'REJECTED', 'CLAIMED', 'REFUNDED');
type BountyStatus string

const (
	BountyStatusOpen     BountyStatus = "OPEN"
	BountyStatusAccepted BountyStatus = "ACCEPTED"
	BountyStatusApproved BountyStatus = "APPROVED"
	BountyStatusRejected BountyStatus = "REJECTED"
	BountyStatusClaimed  BountyStatus = "CLAIMED"
	BountyStatusRefunded BountyStatus = "REFUNDED"
)

// Numeric codes are an external contract, they match the on-chain program.
// 1 byte at a fixed offset of the bounty box.
var statusCodes = map[BountyStatus]uint8{
	BountyStatusOpen:     0,
	BountyStatusAccepted: 1,
	BountyStatusApproved: 2,
	BountyStatusRejected: 3,
	BountyStatusClaimed:  4,
	BountyStatusRefunded: 5,
}

var codeStatuses = func() map[uint8]BountyStatus {
	out := make(map[uint8]BountyStatus, len(statusCodes))
	for status, code := range statusCodes {
		out[code] = status
	}
	return out
}()

func (self BountyStatus) Code() (uint8, error) {
	code, ok := statusCodes[self]
	if !ok {
		return 0, fmt.Errorf("unknown bounty status: %s", string(self))
	}
	return code, nil
}

func BountyStatusFromCode(code uint8) (BountyStatus, error) {
	status, ok := codeStatuses[code]
	if !ok {
		return "", fmt.Errorf("unknown bounty status code: %d", code)
	}
	return status, nil
}

// Claimed and Refunded bounties never transition again
func (self BountyStatus) IsTerminal() bool {
	return self == BountyStatusClaimed || self == BountyStatusRefunded
}

func (self *BountyStatus) Scan(value interface{}) error {
	*self = BountyStatus(value.(string))
	return nil
}

func (self BountyStatus) Value() (driver.Value, error) {
	return string(self), nil
}
