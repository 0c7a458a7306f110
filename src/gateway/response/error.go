package response

import (
	"errors"
	"net/http"

	"github.com/algoease/escrow/src/bounty"
)

type Error struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`

	// Journal reference, set for partial failures
	TransferId string `json:"transfer_id,omitempty"`
}

// StatusFor maps lifecycle errors to HTTP semantics. Partial failures are
// 202, the state change is committed and only the payout is still pending.
func StatusFor(err error) (status int, body *Error) {
	var transitionErr *bounty.TransitionError
	var partialErr *bounty.PartialFailureError

	switch {
	case errors.Is(err, bounty.ErrInvalidAmount),
		errors.Is(err, bounty.ErrInvalidDeadline),
		errors.Is(err, bounty.ErrEmptyDescription),
		errors.Is(err, bounty.ErrMissingAddress):
		return http.StatusBadRequest, &Error{Error: err.Error(), Kind: "validation"}

	case errors.Is(err, bounty.ErrNotFound):
		return http.StatusNotFound, &Error{Error: err.Error(), Kind: "not_found"}

	case errors.Is(err, bounty.ErrConcurrentModification):
		return http.StatusConflict, &Error{Error: err.Error(), Kind: "conflict"}

	case errors.As(err, &transitionErr):
		if transitionErr.Reason == bounty.DenyUnauthorized {
			return http.StatusForbidden, &Error{Error: err.Error(), Kind: "unauthorized"}
		}
		return http.StatusConflict, &Error{Error: err.Error(), Kind: transitionErr.Reason.String()}

	case errors.As(err, &partialErr):
		return http.StatusAccepted, &Error{
			Error:      err.Error(),
			Kind:       "partial_failure",
			TransferId: partialErr.TransferID,
		}

	default:
		return http.StatusInternalServerError, &Error{Error: err.Error(), Kind: "internal"}
	}
}
