package model

import "database/sql/driver"

// CREATE TYPE bounty_action AS ENUM ('CREATE', 'ACCEPT', 'APPROVE', 'REJECT', 'CLAIM', 'REFUND', 'AUTO_REFUND');
type BountyAction string

const (
	ActionCreate     BountyAction = "CREATE"
	ActionAccept     BountyAction = "ACCEPT"
	ActionApprove    BountyAction = "APPROVE"
	ActionReject     BountyAction = "REJECT"
	ActionClaim      BountyAction = "CLAIM"
	ActionRefund     BountyAction = "REFUND"
	ActionAutoRefund BountyAction = "AUTO_REFUND"
)

func (self *BountyAction) Scan(value interface{}) error {
	*self = BountyAction(value.(string))
	return nil
}

func (self BountyAction) Value() (driver.Value, error) {
	return string(self), nil
}
