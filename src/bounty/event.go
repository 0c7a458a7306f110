package bounty

import (
	"database/sql"
	"time"

	"github.com/algoease/escrow/src/utils/model"

	"github.com/hamba/avro"
)

// Emitted for every committed transition, consumed by the audit trail,
// the Redis publisher and websocket streams
type Event struct {
	ID       string `json:"id" avro:"id"`
	BountyID string `json:"bounty_id" avro:"bounty_id"`
	Action   string `json:"action" avro:"action"`

	// Empty for the create event
	From string `json:"from" avro:"from"`
	To   string `json:"to" avro:"to"`

	Actor     string `json:"actor" avro:"actor"`
	Amount    int64  `json:"amount" avro:"amount"`
	Timestamp int64  `json:"timestamp" avro:"timestamp"`
}

var avroParser = avro.MustParse(`{"type": "record", "name": "BountyEvent", "fields": [
	{"name": "id", "type": "string"},
	{"name": "bounty_id", "type": "string"},
	{"name": "action", "type": "string"},
	{"name": "from", "type": "string"},
	{"name": "to", "type": "string"},
	{"name": "actor", "type": "string"},
	{"name": "amount", "type": "long"},
	{"name": "timestamp", "type": "long"}]}`)

func (self *Event) MarshalBinary() ([]byte, error) {
	return avro.Marshal(avroParser, self)
}

func (self *Event) UnmarshalBinary(data []byte) error {
	return avro.Unmarshal(avroParser, data, self)
}

func (self *Event) ToModel() *model.BountyEvent {
	var from sql.NullString
	if self.From != "" {
		from = sql.NullString{String: self.From, Valid: true}
	}
	return &model.BountyEvent{
		ID:         self.ID,
		BountyID:   self.BountyID,
		Action:     model.BountyAction(self.Action),
		FromStatus: from,
		ToStatus:   model.BountyStatus(self.To),
		Actor:      self.Actor,
		Amount:     uint64(self.Amount),
		CreatedAt:  time.Unix(self.Timestamp, 0).UTC(),
	}
}
