package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCodes(t *testing.T) {
	// Codes match the on-chain program, they must never move
	expected := map[BountyStatus]uint8{
		BountyStatusOpen:     0,
		BountyStatusAccepted: 1,
		BountyStatusApproved: 2,
		BountyStatusRejected: 3,
		BountyStatusClaimed:  4,
		BountyStatusRefunded: 5,
	}

	for status, expectedCode := range expected {
		code, err := status.Code()
		assert.Nil(t, err)
		assert.Equal(t, expectedCode, code)

		back, err := BountyStatusFromCode(code)
		assert.Nil(t, err)
		assert.Equal(t, status, back)
	}
}

func TestUnknownStatus(t *testing.T) {
	_, err := BountyStatus("LIMBO").Code()
	assert.NotNil(t, err)

	_, err = BountyStatusFromCode(42)
	assert.NotNil(t, err)
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, BountyStatusClaimed.IsTerminal())
	assert.True(t, BountyStatusRefunded.IsTerminal())
	assert.False(t, BountyStatusOpen.IsTerminal())
	assert.False(t, BountyStatusAccepted.IsTerminal())
	assert.False(t, BountyStatusApproved.IsTerminal())
	assert.False(t, BountyStatusRejected.IsTerminal())
}
