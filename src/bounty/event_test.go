package bounty

import (
	"testing"

	"github.com/algoease/escrow/src/utils/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBinaryRoundtrip(t *testing.T) {
	event := &Event{
		ID:        "e-1",
		BountyID:  "b-1",
		Action:    string(model.ActionAccept),
		From:      string(model.BountyStatusOpen),
		To:        string(model.BountyStatusAccepted),
		Actor:     "FREELANCER",
		Amount:    1000,
		Timestamp: 1700000000,
	}

	data, err := event.MarshalBinary()
	require.Nil(t, err)

	back := new(Event)
	err = back.UnmarshalBinary(data)
	require.Nil(t, err)
	assert.Equal(t, event, back)
}

func TestEventToModel(t *testing.T) {
	event := &Event{
		ID:        "e-1",
		BountyID:  "b-1",
		Action:    string(model.ActionCreate),
		To:        string(model.BountyStatusOpen),
		Actor:     "CLIENT",
		Amount:    1000,
		Timestamp: 1700000000,
	}

	row := event.ToModel()
	assert.Equal(t, model.ActionCreate, row.Action)
	assert.False(t, row.FromStatus.Valid)
	assert.Equal(t, model.BountyStatusOpen, row.ToStatus)
	assert.Equal(t, int64(1700000000), row.CreatedAt.Unix())
}
