package bounty

import (
	"fmt"
	"time"

	"github.com/algoease/escrow/src/utils/model"

	"golang.org/x/exp/slices"
)

type DenyReason int

const (
	DenyWrongState DenyReason = iota + 1
	DenyUnauthorized
	DenyDeadlinePassed
	DenyDeadlineNotReached
)

func (self DenyReason) String() string {
	switch self {
	case DenyWrongState:
		return "wrong_state"
	case DenyUnauthorized:
		return "unauthorized"
	case DenyDeadlinePassed:
		return "deadline_passed"
	case DenyDeadlineNotReached:
		return "deadline_not_reached"
	default:
		return "unknown"
	}
}

type Decision struct {
	Allowed bool
	Reason  DenyReason
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason DenyReason) Decision {
	return Decision{Reason: reason}
}

// States a manual refund may start from. Rejected is included so that funds
// locked after a rejection can be returned with an explicit refund call.
var refundableStatuses = []model.BountyStatus{
	model.BountyStatusOpen,
	model.BountyStatusAccepted,
	model.BountyStatusRejected,
}

// States the expiry sweep may refund from. Rejected bounties are left to
// the client or verifier.
var expirableStatuses = []model.BountyStatus{
	model.BountyStatusOpen,
	model.BountyStatusAccepted,
}

// CanTransition decides whether actor may perform action on the bounty at
// time now. Pure function, no I/O. Every well-formed combination gets a
// decision, only an unknown action is an error.
func CanTransition(bounty *model.Bounty, action model.BountyAction, actor string, now time.Time) (Decision, error) {
	switch action {
	case model.ActionAccept:
		if bounty.Status != model.BountyStatusOpen {
			return deny(DenyWrongState), nil
		}
		if actor == bounty.ClientAddress {
			// Clients can't work on their own bounty
			return deny(DenyUnauthorized), nil
		}
		if now.Unix() >= bounty.Deadline {
			return deny(DenyDeadlinePassed), nil
		}
		return allow(), nil

	case model.ActionApprove, model.ActionReject:
		if bounty.Status != model.BountyStatusAccepted {
			return deny(DenyWrongState), nil
		}
		if actor != bounty.VerifierAddress {
			return deny(DenyUnauthorized), nil
		}
		return allow(), nil

	case model.ActionClaim:
		if bounty.Status != model.BountyStatusApproved {
			return deny(DenyWrongState), nil
		}
		if !bounty.FreelancerAddress.Valid || actor != bounty.FreelancerAddress.String {
			return deny(DenyUnauthorized), nil
		}
		return allow(), nil

	case model.ActionRefund:
		if !slices.Contains(refundableStatuses, bounty.Status) {
			return deny(DenyWrongState), nil
		}
		if actor != bounty.ClientAddress && actor != bounty.VerifierAddress {
			return deny(DenyUnauthorized), nil
		}
		if bounty.Status != model.BountyStatusRejected && now.Unix() >= bounty.Deadline {
			// Before the deadline only the client or verifier may cancel,
			// after it the auto refund path takes over
			return deny(DenyDeadlinePassed), nil
		}
		return allow(), nil

	case model.ActionAutoRefund:
		if !slices.Contains(expirableStatuses, bounty.Status) {
			return deny(DenyWrongState), nil
		}
		if now.Unix() < bounty.Deadline {
			return deny(DenyDeadlineNotReached), nil
		}
		return allow(), nil

	default:
		return Decision{}, fmt.Errorf("unknown action: %s", string(action))
	}
}
