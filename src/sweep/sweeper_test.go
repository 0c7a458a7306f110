package sweep

import (
	"context"
	"testing"
	"time"

	"github.com/algoease/escrow/src/bounty"
	"github.com/algoease/escrow/src/ledger"
	"github.com/algoease/escrow/src/utils/config"
	"github.com/algoease/escrow/src/utils/model"
	monitor_escrow "github.com/algoease/escrow/src/utils/monitoring/escrow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestSweeperTestSuite(t *testing.T) {
	suite.Run(t, new(SweeperTestSuite))
}

type SweeperTestSuite struct {
	suite.Suite
	ctx    context.Context
	config *config.Config

	store     *bounty.MemStore
	mock      *ledger.Mock
	lifecycle *bounty.Lifecycle
	sweeper   *Sweeper
}

func (s *SweeperTestSuite) SetupSuite() {
	s.ctx = context.Background()
	s.config = config.Default()
	s.config.Sweeper.RateLimit = 1000
}

func (s *SweeperTestSuite) SetupTest() {
	s.store = bounty.NewMemStore()
	s.mock = ledger.NewMock()

	monitor := monitor_escrow.NewMonitor()
	s.lifecycle = bounty.NewLifecycle(s.config).
		WithStore(s.store).
		WithLedger(s.mock).
		WithMonitor(monitor)

	s.sweeper = NewSweeper(s.config).
		WithStore(s.store).
		WithLifecycle(s.lifecycle).
		WithMonitor(monitor)
}

func (s *SweeperTestSuite) create(deadline time.Time) *model.Bounty {
	created, err := s.lifecycle.Create(s.ctx, &bounty.CreateParams{
		ClientAddress:   "CLIENT",
		VerifierAddress: "VERIFIER",
		Amount:          100,
		Deadline:        deadline.Unix(),
		Description:     "test",
	}, deadline.Add(-2*time.Hour))
	require.Nil(s.T(), err)
	return created
}

func (s *SweeperTestSuite) TestRefundsExpired() {
	expired := s.create(time.Now().Add(-time.Hour))
	active := s.create(time.Now().Add(time.Hour))

	refunded, taken, err := s.sweeper.SweepOnce(s.ctx)
	require.Nil(s.T(), err)
	assert.Equal(s.T(), 1, taken)
	assert.Equal(s.T(), 1, refunded)

	stored, err := s.store.Get(s.ctx, expired.ID)
	require.Nil(s.T(), err)
	assert.Equal(s.T(), model.BountyStatusRefunded, stored.Status)

	untouched, err := s.store.Get(s.ctx, active.ID)
	require.Nil(s.T(), err)
	assert.Equal(s.T(), model.BountyStatusOpen, untouched.Status)

	// Funds went back to the client
	orders := s.mock.Orders()
	require.Len(s.T(), orders, 1)
	assert.Equal(s.T(), "CLIENT", orders[0].RecipientAddress)
	assert.Equal(s.T(), model.ActionAutoRefund, orders[0].Action)
}

func (s *SweeperTestSuite) TestNothingToSweep() {
	s.create(time.Now().Add(time.Hour))

	refunded, taken, err := s.sweeper.SweepOnce(s.ctx)
	require.Nil(s.T(), err)
	assert.Equal(s.T(), 0, taken)
	assert.Equal(s.T(), 0, refunded)
}

func (s *SweeperTestSuite) TestSweepIsIdempotent() {
	s.create(time.Now().Add(-time.Hour))

	refunded, _, err := s.sweeper.SweepOnce(s.ctx)
	require.Nil(s.T(), err)
	assert.Equal(s.T(), 1, refunded)

	refunded, taken, err := s.sweeper.SweepOnce(s.ctx)
	require.Nil(s.T(), err)
	assert.Equal(s.T(), 0, taken)
	assert.Equal(s.T(), 0, refunded)
}
