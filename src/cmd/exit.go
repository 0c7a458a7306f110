package cmd

import (
	"errors"

	"github.com/algoease/escrow/src/bounty"
)

// Exit codes of one-shot commands, scripts branch on these
const (
	ExitOK = iota
	ExitFailure
	ExitValidation
	ExitNotFound
	ExitDenied
	ExitPartialFailure
)

func ExitCode(err error) int {
	var transitionErr *bounty.TransitionError
	var partialErr *bounty.PartialFailureError

	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, bounty.ErrNotFound):
		return ExitNotFound
	case errors.Is(err, bounty.ErrInvalidAmount),
		errors.Is(err, bounty.ErrInvalidDeadline),
		errors.Is(err, bounty.ErrEmptyDescription),
		errors.Is(err, bounty.ErrMissingAddress):
		return ExitValidation
	case errors.As(err, &transitionErr):
		return ExitDenied
	case errors.As(err, &partialErr):
		return ExitPartialFailure
	default:
		return ExitFailure
	}
}
