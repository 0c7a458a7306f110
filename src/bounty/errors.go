package bounty

import (
	"errors"
	"fmt"

	"github.com/algoease/escrow/src/utils/model"
)

var (
	ErrNotFound               = errors.New("bounty not found")
	ErrInvalidAmount          = errors.New("amount must be positive")
	ErrInvalidDeadline        = errors.New("deadline must be in the future")
	ErrEmptyDescription       = errors.New("description must not be empty")
	ErrMissingAddress         = errors.New("client and verifier addresses are required")
	ErrConcurrentModification = errors.New("bounty was modified concurrently")
)

// Returned when the guard denies a transition
type TransitionError struct {
	Action model.BountyAction
	Reason DenyReason
}

func (self *TransitionError) Error() string {
	return fmt.Sprintf("transition %s denied: %s", string(self.Action), self.Reason)
}

// The state change is committed but the ledger call did not settle.
// The transfer stays in the journal for reconciliation, this is never
// silently swallowed.
type PartialFailureError struct {
	BountyID   string
	Action     model.BountyAction
	TransferID string
	Err        error
}

func (self *PartialFailureError) Error() string {
	return fmt.Sprintf("bounty %s: %s committed but fund transfer %s is unsettled: %v",
		self.BountyID, string(self.Action), self.TransferID, self.Err)
}

func (self *PartialFailureError) Unwrap() error {
	return self.Err
}
