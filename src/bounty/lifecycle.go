package bounty

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/algoease/escrow/src/ledger"
	"github.com/algoease/escrow/src/utils/config"
	"github.com/algoease/escrow/src/utils/logger"
	"github.com/algoease/escrow/src/utils/model"
	"github.com/algoease/escrow/src/utils/monitoring"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
)

// Lifecycle is the sole mutator of bounty records. Every state change goes
// through the guard, gets journaled and emitted as an event.
type Lifecycle struct {
	config  *config.Config
	log     *logrus.Entry
	store   Store
	ledger  ledger.Ledger
	bus     *EventBus
	monitor monitoring.Monitor
}

type CreateParams struct {
	ClientAddress   string
	VerifierAddress string
	Amount          uint64
	Deadline        int64
	Title           string
	Description     string
	Tags            []string
}

func NewLifecycle(config *config.Config) (self *Lifecycle) {
	self = new(Lifecycle)
	self.config = config
	self.log = logger.NewSublogger("lifecycle")
	return
}

func (self *Lifecycle) WithStore(store Store) *Lifecycle {
	self.store = store
	return self
}

func (self *Lifecycle) WithLedger(ledger ledger.Ledger) *Lifecycle {
	self.ledger = ledger
	return self
}

func (self *Lifecycle) WithBus(bus *EventBus) *Lifecycle {
	self.bus = bus
	return self
}

func (self *Lifecycle) WithMonitor(monitor monitoring.Monitor) *Lifecycle {
	self.monitor = monitor
	return self
}

func newID() string {
	return xid.New().String()
}

func (self *Lifecycle) Create(ctx context.Context, params *CreateParams, now time.Time) (bounty *model.Bounty, err error) {
	if params.Amount == 0 {
		return nil, ErrInvalidAmount
	}
	if params.Deadline <= now.Unix() {
		return nil, ErrInvalidDeadline
	}
	if strings.TrimSpace(params.Description) == "" {
		return nil, ErrEmptyDescription
	}
	if params.ClientAddress == "" || params.VerifierAddress == "" {
		return nil, ErrMissingAddress
	}

	bounty = &model.Bounty{
		ID:              newID(),
		ClientAddress:   params.ClientAddress,
		VerifierAddress: params.VerifierAddress,
		Amount:          params.Amount,
		Deadline:        params.Deadline,
		Title:           params.Title,
		Description:     params.Description,
		Tags:            params.Tags,
		Status:          model.BountyStatusOpen,
		CreatedAt:       now.UTC(),
		UpdatedAt:       now.UTC(),
	}

	// The client funds the escrow upon creation, the journal row only
	// records the deposit. Recipient is the escrow itself.
	deposit := &model.FundTransfer{
		ID:        newID(),
		BountyID:  bounty.ID,
		Action:    model.ActionCreate,
		Amount:    bounty.Amount,
		State:     model.TransferStateConfirmed,
		Attempts:  1,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}

	err = self.store.Create(ctx, bounty, deposit)
	if err != nil {
		self.monitor.GetReport().Lifecycle.Errors.DbError.Inc()
		return nil, err
	}

	self.monitor.GetReport().Lifecycle.State.Created.Inc()
	self.emit(ctx, bounty, model.ActionCreate, "", params.ClientAddress, now)

	self.log.WithField("id", bounty.ID).
		WithField("amount", bounty.Amount).
		Info("Bounty created")
	return
}

func (self *Lifecycle) Get(ctx context.Context, id string) (*model.Bounty, error) {
	return self.store.Get(ctx, id)
}

func (self *Lifecycle) List(ctx context.Context, filter *Filter) ([]*model.Bounty, error) {
	return self.store.List(ctx, filter)
}

func (self *Lifecycle) GetTransfers(ctx context.Context, bountyID string) ([]*model.FundTransfer, error) {
	return self.store.GetTransfers(ctx, bountyID)
}

func (self *Lifecycle) Accept(ctx context.Context, id, actor string, now time.Time) (*model.Bounty, error) {
	return self.transition(ctx, id, model.ActionAccept, actor, now)
}

func (self *Lifecycle) Approve(ctx context.Context, id, actor string, now time.Time) (*model.Bounty, error) {
	return self.transition(ctx, id, model.ActionApprove, actor, now)
}

func (self *Lifecycle) Reject(ctx context.Context, id, actor string, now time.Time) (*model.Bounty, error) {
	return self.transition(ctx, id, model.ActionReject, actor, now)
}

func (self *Lifecycle) Claim(ctx context.Context, id, actor string, now time.Time) (*model.Bounty, error) {
	return self.transition(ctx, id, model.ActionClaim, actor, now)
}

func (self *Lifecycle) Refund(ctx context.Context, id, actor string, now time.Time) (*model.Bounty, error) {
	return self.transition(ctx, id, model.ActionRefund, actor, now)
}

func (self *Lifecycle) AutoRefund(ctx context.Context, id, actor string, now time.Time) (*model.Bounty, error) {
	return self.transition(ctx, id, model.ActionAutoRefund, actor, now)
}

// Resulting status of each allowed action
var targetStatuses = map[model.BountyAction]model.BountyStatus{
	model.ActionAccept:     model.BountyStatusAccepted,
	model.ActionApprove:    model.BountyStatusApproved,
	model.ActionReject:     model.BountyStatusRejected,
	model.ActionClaim:      model.BountyStatusClaimed,
	model.ActionRefund:     model.BountyStatusRefunded,
	model.ActionAutoRefund: model.BountyStatusRefunded,
}

// Runs one guarded state change. A lost optimistic-concurrency race is
// retried exactly once with a fresh snapshot.
func (self *Lifecycle) transition(ctx context.Context, id string, action model.BountyAction, actor string, now time.Time) (bounty *model.Bounty, err error) {
	bounty, err = self.tryTransition(ctx, id, action, actor, now)
	if errors.Is(err, ErrConcurrentModification) {
		self.monitor.GetReport().Lifecycle.Errors.ConflictRetries.Inc()
		self.log.WithField("id", id).
			WithField("action", string(action)).
			Debug("Lost a concurrent update race, retrying once")
		bounty, err = self.tryTransition(ctx, id, action, actor, now)
	}
	return
}

func (self *Lifecycle) tryTransition(ctx context.Context, id string, action model.BountyAction, actor string, now time.Time) (bounty *model.Bounty, err error) {
	bounty, err = self.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	decision, err := CanTransition(bounty, action, actor, now)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		self.monitor.GetReport().Lifecycle.State.TransitionsDenied.Inc()
		return nil, &TransitionError{Action: action, Reason: decision.Reason}
	}

	from := bounty.Status
	bounty.Status = targetStatuses[action]
	bounty.UpdatedAt = now.UTC()
	if action == model.ActionAccept {
		bounty.FreelancerAddress = sql.NullString{String: actor, Valid: true}
	}

	// Terminal transitions release the escrowed funds, the journal row is
	// written in the same transaction as the state change
	transfer := self.releaseFor(bounty, action, now)

	err = self.store.Update(ctx, bounty, transfer)
	if err != nil {
		if !errors.Is(err, ErrConcurrentModification) {
			self.monitor.GetReport().Lifecycle.Errors.DbError.Inc()
		}
		return nil, err
	}

	self.countTransition(action)
	self.emit(ctx, bounty, action, from, actor, now)

	if transfer != nil {
		err = self.settle(ctx, bounty, action, transfer)
		if err != nil {
			return bounty, err
		}
	}

	self.log.WithField("id", bounty.ID).
		WithField("action", string(action)).
		WithField("from", string(from)).
		WithField("to", string(bounty.Status)).
		Info("Bounty transitioned")
	return
}

// Builds the journal row for a terminal transition, nil otherwise
func (self *Lifecycle) releaseFor(bounty *model.Bounty, action model.BountyAction, now time.Time) *model.FundTransfer {
	var recipient string
	switch action {
	case model.ActionClaim:
		recipient = bounty.FreelancerAddress.String
	case model.ActionRefund, model.ActionAutoRefund:
		recipient = bounty.ClientAddress
	default:
		return nil
	}

	return &model.FundTransfer{
		ID:               newID(),
		BountyID:         bounty.ID,
		Action:           action,
		Amount:           bounty.Amount,
		RecipientAddress: recipient,
		State:            model.TransferStatePending,
		CreatedAt:        now.UTC(),
		UpdatedAt:        now.UTC(),
	}
}

// Pushes the release order to the ledger and records the outcome. The state
// change is already committed at this point, so anything but a confirmed
// transfer surfaces as a partial failure and stays journaled for the
// reconciler.
func (self *Lifecycle) settle(ctx context.Context, bounty *model.Bounty, action model.BountyAction, transfer *model.FundTransfer) (err error) {
	result, transferErr := self.ledger.Transfer(ctx, &ledger.Order{
		BountyID:         bounty.ID,
		Action:           action,
		Amount:           transfer.Amount,
		RecipientAddress: transfer.RecipientAddress,
	})

	switch result {
	case ledger.ResultConfirmed:
		self.monitor.GetReport().Lifecycle.State.TransfersConfirmed.Inc()
		err = self.store.SetTransferState(ctx, transfer.ID, model.TransferStateConfirmed, nil)
		if err != nil {
			self.monitor.GetReport().Lifecycle.Errors.DbError.Inc()
			return &PartialFailureError{BountyID: bounty.ID, Action: action, TransferID: transfer.ID, Err: err}
		}
		return nil

	case ledger.ResultFailed:
		self.monitor.GetReport().Lifecycle.Errors.LedgerFailed.Inc()
		_ = self.store.SetTransferState(ctx, transfer.ID, model.TransferStateFailed, transferErr)

	default:
		self.monitor.GetReport().Lifecycle.Errors.LedgerUnknown.Inc()
		_ = self.store.SetTransferState(ctx, transfer.ID, model.TransferStatePending, transferErr)
	}

	self.log.WithError(transferErr).
		WithField("id", bounty.ID).
		WithField("transfer_id", transfer.ID).
		Warn("Fund transfer did not settle, left for reconciliation")
	return &PartialFailureError{BountyID: bounty.ID, Action: action, TransferID: transfer.ID, Err: transferErr}
}

func (self *Lifecycle) countTransition(action model.BountyAction) {
	state := &self.monitor.GetReport().Lifecycle.State
	switch action {
	case model.ActionAccept:
		state.Accepted.Inc()
	case model.ActionApprove:
		state.Approved.Inc()
	case model.ActionReject:
		state.Rejected.Inc()
	case model.ActionClaim:
		state.Claimed.Inc()
	case model.ActionRefund:
		state.Refunded.Inc()
	case model.ActionAutoRefund:
		state.AutoRefunded.Inc()
	}
}

func (self *Lifecycle) emit(ctx context.Context, bounty *model.Bounty, action model.BountyAction, from model.BountyStatus, actor string, now time.Time) {
	if self.bus == nil {
		return
	}
	self.bus.Publish(&Event{
		ID:        newID(),
		BountyID:  bounty.ID,
		Action:    string(action),
		From:      string(from),
		To:        string(bounty.Status),
		Actor:     actor,
		Amount:    int64(bounty.Amount),
		Timestamp: now.Unix(),
	})
}
