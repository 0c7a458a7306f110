package bounty

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/algoease/escrow/src/ledger"
	"github.com/algoease/escrow/src/utils/config"
	"github.com/algoease/escrow/src/utils/model"
	monitor_escrow "github.com/algoease/escrow/src/utils/monitoring/escrow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestLifecycleTestSuite(t *testing.T) {
	suite.Run(t, new(LifecycleTestSuite))
}

type LifecycleTestSuite struct {
	suite.Suite
	ctx    context.Context
	cancel context.CancelFunc
	config *config.Config

	now       time.Time
	store     *MemStore
	mock      *ledger.Mock
	bus       *EventBus
	lifecycle *Lifecycle
}

func (s *LifecycleTestSuite) SetupSuite() {
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.config = config.Default()
	s.now = time.Unix(1700000000, 0)
}

func (s *LifecycleTestSuite) TearDownSuite() {
	s.cancel()
}

func (s *LifecycleTestSuite) SetupTest() {
	s.store = NewMemStore()
	s.mock = ledger.NewMock()
	s.bus = NewEventBus(16)
	s.lifecycle = NewLifecycle(s.config).
		WithStore(s.store).
		WithLedger(s.mock).
		WithBus(s.bus).
		WithMonitor(monitor_escrow.NewMonitor())
}

func (s *LifecycleTestSuite) create() *model.Bounty {
	created, err := s.lifecycle.Create(s.ctx, &CreateParams{
		ClientAddress:   client,
		VerifierAddress: verifier,
		Amount:          1000,
		Deadline:        s.now.Add(time.Hour).Unix(),
		Title:           "Fix the build",
		Description:     "Make CI green again",
		Tags:            []string{"ci", "build"},
	}, s.now)
	require.Nil(s.T(), err)
	return created
}

func (s *LifecycleTestSuite) TestCreateValidation() {
	_, err := s.lifecycle.Create(s.ctx, &CreateParams{
		ClientAddress:   client,
		VerifierAddress: verifier,
		Deadline:        s.now.Add(time.Hour).Unix(),
		Description:     "zero amount",
	}, s.now)
	assert.ErrorIs(s.T(), err, ErrInvalidAmount)

	_, err = s.lifecycle.Create(s.ctx, &CreateParams{
		ClientAddress:   client,
		VerifierAddress: verifier,
		Amount:          1000,
		Deadline:        s.now.Add(-time.Hour).Unix(),
		Description:     "deadline in the past",
	}, s.now)
	assert.ErrorIs(s.T(), err, ErrInvalidDeadline)

	_, err = s.lifecycle.Create(s.ctx, &CreateParams{
		ClientAddress:   client,
		VerifierAddress: verifier,
		Amount:          1000,
		Deadline:        s.now.Add(time.Hour).Unix(),
		Description:     "  ",
	}, s.now)
	assert.ErrorIs(s.T(), err, ErrEmptyDescription)

	_, err = s.lifecycle.Create(s.ctx, &CreateParams{
		VerifierAddress: verifier,
		Amount:          1000,
		Deadline:        s.now.Add(time.Hour).Unix(),
		Description:     "no client",
	}, s.now)
	assert.ErrorIs(s.T(), err, ErrMissingAddress)
}

func (s *LifecycleTestSuite) TestCreateJournalsDeposit() {
	created := s.create()

	transfers, err := s.store.GetTransfers(s.ctx, created.ID)
	require.Nil(s.T(), err)
	require.Len(s.T(), transfers, 1)
	assert.Equal(s.T(), model.ActionCreate, transfers[0].Action)
	assert.Equal(s.T(), model.TransferStateConfirmed, transfers[0].State)
	assert.Equal(s.T(), uint64(1000), transfers[0].Amount)
}

func (s *LifecycleTestSuite) TestHappyPathClaim() {
	created := s.create()

	_, err := s.lifecycle.Accept(s.ctx, created.ID, freelancer, s.now)
	require.Nil(s.T(), err)

	_, err = s.lifecycle.Approve(s.ctx, created.ID, verifier, s.now)
	require.Nil(s.T(), err)

	claimed, err := s.lifecycle.Claim(s.ctx, created.ID, freelancer, s.now)
	require.Nil(s.T(), err)
	assert.Equal(s.T(), model.BountyStatusClaimed, claimed.Status)

	// Exactly one release order, paid to the freelancer
	assert.Equal(s.T(), 1, s.mock.Count(created.ID))
	orders := s.mock.Orders()
	require.Len(s.T(), orders, 1)
	assert.Equal(s.T(), freelancer, orders[0].RecipientAddress)
	assert.Equal(s.T(), uint64(1000), orders[0].Amount)

	transfers, err := s.store.GetTransfers(s.ctx, created.ID)
	require.Nil(s.T(), err)
	require.Len(s.T(), transfers, 2)
	assert.Equal(s.T(), model.TransferStateConfirmed, transfers[1].State)
}

func (s *LifecycleTestSuite) TestDoubleAcceptDenied() {
	created := s.create()

	_, err := s.lifecycle.Accept(s.ctx, created.ID, freelancer, s.now)
	require.Nil(s.T(), err)

	_, err = s.lifecycle.Accept(s.ctx, created.ID, stranger, s.now)
	var transitionErr *TransitionError
	require.ErrorAs(s.T(), err, &transitionErr)
	assert.Equal(s.T(), DenyWrongState, transitionErr.Reason)

	// The first freelancer is still on the bounty
	stored, err := s.lifecycle.Get(s.ctx, created.ID)
	require.Nil(s.T(), err)
	assert.Equal(s.T(), freelancer, stored.FreelancerAddress.String)
}

func (s *LifecycleTestSuite) TestRejectThenClaimDenied() {
	created := s.create()

	_, err := s.lifecycle.Accept(s.ctx, created.ID, freelancer, s.now)
	require.Nil(s.T(), err)

	_, err = s.lifecycle.Reject(s.ctx, created.ID, verifier, s.now)
	require.Nil(s.T(), err)

	_, err = s.lifecycle.Claim(s.ctx, created.ID, freelancer, s.now)
	var transitionErr *TransitionError
	require.ErrorAs(s.T(), err, &transitionErr)
	assert.Equal(s.T(), DenyWrongState, transitionErr.Reason)

	// Nothing was paid out
	assert.Equal(s.T(), 0, s.mock.Count(created.ID))
}

func (s *LifecycleTestSuite) TestRefundReturnsFundsToClient() {
	created := s.create()

	refunded, err := s.lifecycle.Refund(s.ctx, created.ID, client, s.now)
	require.Nil(s.T(), err)
	assert.Equal(s.T(), model.BountyStatusRefunded, refunded.Status)

	orders := s.mock.Orders()
	require.Len(s.T(), orders, 1)
	assert.Equal(s.T(), client, orders[0].RecipientAddress)
}

func (s *LifecycleTestSuite) TestAutoRefund() {
	created := s.create()

	// Too early
	_, err := s.lifecycle.AutoRefund(s.ctx, created.ID, "system", s.now)
	var transitionErr *TransitionError
	require.ErrorAs(s.T(), err, &transitionErr)
	assert.Equal(s.T(), DenyDeadlineNotReached, transitionErr.Reason)

	// Past the deadline
	refunded, err := s.lifecycle.AutoRefund(s.ctx, created.ID, "system", s.now.Add(2*time.Hour))
	require.Nil(s.T(), err)
	assert.Equal(s.T(), model.BountyStatusRefunded, refunded.Status)

	orders := s.mock.Orders()
	require.Len(s.T(), orders, 1)
	assert.Equal(s.T(), client, orders[0].RecipientAddress)
}

func (s *LifecycleTestSuite) TestPartialFailureSurfaced() {
	created := s.create()
	s.mock.Result = ledger.ResultUnknown
	s.mock.Err = errors.New("timeout")

	refunded, err := s.lifecycle.Refund(s.ctx, created.ID, client, s.now)

	var partialErr *PartialFailureError
	require.ErrorAs(s.T(), err, &partialErr)
	assert.Equal(s.T(), created.ID, partialErr.BountyID)

	// The state change is committed even though the payout is not
	require.NotNil(s.T(), refunded)
	assert.Equal(s.T(), model.BountyStatusRefunded, refunded.Status)

	// The journal row awaits reconciliation
	unsettled, err := s.store.ListUnsettledTransfers(s.ctx, 0, 10)
	require.Nil(s.T(), err)
	require.Len(s.T(), unsettled, 1)
	assert.Equal(s.T(), model.TransferStatePending, unsettled[0].State)
}

func (s *LifecycleTestSuite) TestFailedTransferJournaled() {
	created := s.create()
	s.mock.Result = ledger.ResultFailed
	s.mock.Err = errors.New("insufficient escrow balance")

	_, err := s.lifecycle.Refund(s.ctx, created.ID, client, s.now)
	var partialErr *PartialFailureError
	require.ErrorAs(s.T(), err, &partialErr)

	transfers, err := s.store.GetTransfers(s.ctx, created.ID)
	require.Nil(s.T(), err)
	require.Len(s.T(), transfers, 2)
	assert.Equal(s.T(), model.TransferStateFailed, transfers[1].State)
	assert.Contains(s.T(), transfers[1].LastError.String, "insufficient")
}

// Fails the first Update call with a version conflict
type racingStore struct {
	Store
	conflicts int
}

func (self *racingStore) Update(ctx context.Context, bounty *model.Bounty, transfer *model.FundTransfer) error {
	if self.conflicts > 0 {
		self.conflicts -= 1
		return ErrConcurrentModification
	}
	return self.Store.Update(ctx, bounty, transfer)
}

func (s *LifecycleTestSuite) TestConflictRetriedOnce() {
	created := s.create()

	racing := &racingStore{Store: s.store, conflicts: 1}
	s.lifecycle.WithStore(racing)

	accepted, err := s.lifecycle.Accept(s.ctx, created.ID, freelancer, s.now)
	require.Nil(s.T(), err)
	assert.Equal(s.T(), model.BountyStatusAccepted, accepted.Status)
}

func (s *LifecycleTestSuite) TestConflictNotRetriedTwice() {
	created := s.create()

	racing := &racingStore{Store: s.store, conflicts: 2}
	s.lifecycle.WithStore(racing)

	_, err := s.lifecycle.Accept(s.ctx, created.ID, freelancer, s.now)
	assert.ErrorIs(s.T(), err, ErrConcurrentModification)
}

func (s *LifecycleTestSuite) TestEventsEmitted() {
	events, cancelSub := s.bus.Subscribe()
	defer cancelSub()

	created := s.create()
	_, err := s.lifecycle.Accept(s.ctx, created.ID, freelancer, s.now)
	require.Nil(s.T(), err)

	createEvent := <-events
	assert.Equal(s.T(), string(model.ActionCreate), createEvent.Action)
	assert.Equal(s.T(), "", createEvent.From)
	assert.Equal(s.T(), string(model.BountyStatusOpen), createEvent.To)

	acceptEvent := <-events
	assert.Equal(s.T(), string(model.ActionAccept), acceptEvent.Action)
	assert.Equal(s.T(), string(model.BountyStatusOpen), acceptEvent.From)
	assert.Equal(s.T(), string(model.BountyStatusAccepted), acceptEvent.To)
	assert.Equal(s.T(), freelancer, acceptEvent.Actor)
}
