package ledger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/algoease/escrow/src/utils/config"
	"github.com/algoease/escrow/src/utils/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

type ClientTestSuite struct {
	suite.Suite
	ctx context.Context
}

func (s *ClientTestSuite) SetupSuite() {
	s.ctx = context.Background()
}

func (s *ClientTestSuite) newClient(url string) *Client {
	return NewClient(&config.Ledger{
		Url:            url,
		RequestTimeout: time.Second,
		RateLimit:      1000,
		MaxElapsedTime: 100 * time.Millisecond,
		MaxInterval:    10 * time.Millisecond,
	})
}

func (s *ClientTestSuite) order() *Order {
	return &Order{
		BountyID:         "b-1",
		Action:           model.ActionClaim,
		Amount:           1000,
		RecipientAddress: "FREELANCER",
	}
}

func (s *ClientTestSuite) TestConfirmed() {
	var gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in map[string]interface{}
		err := json.NewDecoder(r.Body).Decode(&in)
		require.Nil(s.T(), err)
		gotKey, _ = in["idempotency_key"].(string)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "confirmed", "tx_id": "tx-1"}`))
	}))
	defer server.Close()

	result, err := s.newClient(server.URL).Transfer(s.ctx, s.order())
	assert.Nil(s.T(), err)
	assert.Equal(s.T(), ResultConfirmed, result)
	assert.Equal(s.T(), "b-1:CLAIM", gotKey)
}

func (s *ClientTestSuite) TestFailed() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "failed", "reason": "insufficient escrow balance"}`))
	}))
	defer server.Close()

	result, err := s.newClient(server.URL).Transfer(s.ctx, s.order())
	assert.NotNil(s.T(), err)
	assert.Equal(s.T(), ResultFailed, result)
}

func (s *ClientTestSuite) TestRejected() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	result, err := s.newClient(server.URL).Transfer(s.ctx, s.order())
	assert.NotNil(s.T(), err)
	assert.Equal(s.T(), ResultFailed, result)
}

func (s *ClientTestSuite) TestServerErrorIsUnknown() {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls += 1
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	result, err := s.newClient(server.URL).Transfer(s.ctx, s.order())
	assert.NotNil(s.T(), err)
	assert.Equal(s.T(), ResultUnknown, result)

	// Transient errors are retried before giving up
	assert.Greater(s.T(), calls, 1)
}

func (s *ClientTestSuite) TestTransientErrorRecovers() {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls += 1
		if calls == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "confirmed", "tx_id": "tx-1"}`))
	}))
	defer server.Close()

	result, err := s.newClient(server.URL).Transfer(s.ctx, s.order())
	assert.Nil(s.T(), err)
	assert.Equal(s.T(), ResultConfirmed, result)
	assert.Equal(s.T(), 2, calls)
}
