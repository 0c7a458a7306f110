package gateway

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/algoease/escrow/src/bounty"
	"github.com/algoease/escrow/src/gateway/request"
	"github.com/algoease/escrow/src/gateway/response"
	"github.com/algoease/escrow/src/ledger"
	"github.com/algoease/escrow/src/utils/config"
	monitor_escrow "github.com/algoease/escrow/src/utils/monitoring/escrow"

	"github.com/lestrrat-go/jwx/jwa"
	"github.com/lestrrat-go/jwx/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	clientAddress     = "CLIENT"
	freelancerAddress = "FREELANCER"
	verifierAddress   = "VERIFIER"
	authSecret        = "test-secret"
)

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

type ServerTestSuite struct {
	suite.Suite
	config *config.Config

	store  *bounty.MemStore
	mock   *ledger.Mock
	server *Server
}

func (s *ServerTestSuite) SetupSuite() {
	s.config = config.Default()
	s.config.IsDevelopment = true
	s.config.Auth.Secret = authSecret
}

func (s *ServerTestSuite) SetupTest() {
	s.store = bounty.NewMemStore()
	s.mock = ledger.NewMock()

	monitor := monitor_escrow.NewMonitor()
	bus := bounty.NewEventBus(16)
	lifecycle := bounty.NewLifecycle(s.config).
		WithStore(s.store).
		WithLedger(s.mock).
		WithBus(bus).
		WithMonitor(monitor)

	s.server = NewServer(s.config).
		WithLifecycle(lifecycle).
		WithBus(bus).
		WithMonitor(monitor)
	s.server.registerRoutes()
}

func (s *ServerTestSuite) do(method, path, actor string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		err := json.NewEncoder(&buf).Encode(body)
		require.Nil(s.T(), err)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if actor != "" {
		req.Header.Set("X-Actor-Address", actor)
	}

	recorder := httptest.NewRecorder()
	s.server.Router.ServeHTTP(recorder, req)
	return recorder
}

func (s *ServerTestSuite) createBounty() *response.Bounty {
	recorder := s.do(http.MethodPost, "/v1/bounties", clientAddress, &request.CreateBounty{
		VerifierAddress: verifierAddress,
		Amount:          1000,
		Deadline:        time.Now().Add(time.Hour).Unix(),
		Title:           "Fix the build",
		Description:     "Make CI green again",
	})
	require.Equal(s.T(), http.StatusCreated, recorder.Code)

	out := new(response.Bounty)
	err := json.Unmarshal(recorder.Body.Bytes(), out)
	require.Nil(s.T(), err)
	return out
}

func (s *ServerTestSuite) TestCreateAndGet() {
	created := s.createBounty()
	assert.Equal(s.T(), clientAddress, created.ClientAddress)
	assert.Equal(s.T(), "OPEN", created.Status)
	assert.Equal(s.T(), uint8(0), created.StatusCode)

	recorder := s.do(http.MethodGet, "/v1/bounties/"+created.Id, "", nil)
	require.Equal(s.T(), http.StatusOK, recorder.Code)

	fetched := new(response.Bounty)
	err := json.Unmarshal(recorder.Body.Bytes(), fetched)
	require.Nil(s.T(), err)
	assert.Equal(s.T(), created.Id, fetched.Id)
}

func (s *ServerTestSuite) TestCreateValidation() {
	recorder := s.do(http.MethodPost, "/v1/bounties", clientAddress, &request.CreateBounty{
		VerifierAddress: verifierAddress,
		Amount:          1000,
		Deadline:        time.Now().Add(-time.Hour).Unix(),
		Description:     "deadline in the past",
	})
	assert.Equal(s.T(), http.StatusBadRequest, recorder.Code)
}

func (s *ServerTestSuite) TestGetMissing() {
	recorder := s.do(http.MethodGet, "/v1/bounties/nope", "", nil)
	assert.Equal(s.T(), http.StatusNotFound, recorder.Code)
}

func (s *ServerTestSuite) TestUnauthenticatedMutation() {
	created := s.createBounty()

	recorder := s.do(http.MethodPost, "/v1/bounties/"+created.Id+"/accept", "", nil)
	assert.Equal(s.T(), http.StatusForbidden, recorder.Code)
}

func (s *ServerTestSuite) TestTransitionFlow() {
	created := s.createBounty()

	recorder := s.do(http.MethodPost, "/v1/bounties/"+created.Id+"/accept", freelancerAddress, nil)
	require.Equal(s.T(), http.StatusOK, recorder.Code)

	recorder = s.do(http.MethodPost, "/v1/bounties/"+created.Id+"/approve", verifierAddress, nil)
	require.Equal(s.T(), http.StatusOK, recorder.Code)

	recorder = s.do(http.MethodPost, "/v1/bounties/"+created.Id+"/claim", freelancerAddress, nil)
	require.Equal(s.T(), http.StatusOK, recorder.Code)

	claimed := new(response.Bounty)
	err := json.Unmarshal(recorder.Body.Bytes(), claimed)
	require.Nil(s.T(), err)
	assert.Equal(s.T(), "CLAIMED", claimed.Status)
	assert.Equal(s.T(), 1, s.mock.Count(created.Id))
}

func (s *ServerTestSuite) TestWrongStateConflict() {
	created := s.createBounty()

	recorder := s.do(http.MethodPost, "/v1/bounties/"+created.Id+"/claim", freelancerAddress, nil)
	assert.Equal(s.T(), http.StatusConflict, recorder.Code)

	out := new(response.Error)
	err := json.Unmarshal(recorder.Body.Bytes(), out)
	require.Nil(s.T(), err)
	assert.Equal(s.T(), "wrong_state", out.Kind)
}

func (s *ServerTestSuite) TestUnauthorizedActorForbidden() {
	created := s.createBounty()

	// The client may not accept its own bounty
	recorder := s.do(http.MethodPost, "/v1/bounties/"+created.Id+"/accept", clientAddress, nil)
	assert.Equal(s.T(), http.StatusForbidden, recorder.Code)
}

func (s *ServerTestSuite) TestPartialFailureAccepted() {
	created := s.createBounty()
	s.mock.Result = ledger.ResultUnknown

	recorder := s.do(http.MethodPost, "/v1/bounties/"+created.Id+"/refund", clientAddress, nil)
	assert.Equal(s.T(), http.StatusAccepted, recorder.Code)

	var out struct {
		Bounty   *response.Bounty `json:"bounty"`
		Transfer *response.Error  `json:"transfer"`
	}
	err := json.Unmarshal(recorder.Body.Bytes(), &out)
	require.Nil(s.T(), err)
	require.NotNil(s.T(), out.Bounty)
	assert.Equal(s.T(), "REFUNDED", out.Bounty.Status)
	require.NotNil(s.T(), out.Transfer)
	assert.NotEmpty(s.T(), out.Transfer.TransferId)
}

func (s *ServerTestSuite) TestListBounties() {
	s.createBounty()
	s.createBounty()

	recorder := s.do(http.MethodGet, "/v1/bounties?status=OPEN", "", nil)
	require.Equal(s.T(), http.StatusOK, recorder.Code)

	out := new(response.Bounties)
	err := json.Unmarshal(recorder.Body.Bytes(), out)
	require.Nil(s.T(), err)
	assert.Len(s.T(), out.Bounties, 2)

	recorder = s.do(http.MethodGet, "/v1/bounties?status=CLAIMED", "", nil)
	require.Equal(s.T(), http.StatusOK, recorder.Code)

	err = json.Unmarshal(recorder.Body.Bytes(), out)
	require.Nil(s.T(), err)
	assert.Len(s.T(), out.Bounties, 0)
}

func (s *ServerTestSuite) TestBearerToken() {
	created := s.createBounty()

	token := jwt.New()
	err := token.Set(s.config.Auth.AddressClaim, freelancerAddress)
	require.Nil(s.T(), err)
	signed, err := jwt.Sign(token, jwa.HS256, []byte(authSecret))
	require.Nil(s.T(), err)

	req := httptest.NewRequest(http.MethodPost, "/v1/bounties/"+created.Id+"/accept", nil)
	req.Header.Set("Authorization", "Bearer "+string(signed))

	recorder := httptest.NewRecorder()
	s.server.Router.ServeHTTP(recorder, req)
	assert.Equal(s.T(), http.StatusOK, recorder.Code)
}

func (s *ServerTestSuite) TestInvalidBearerToken() {
	created := s.createBounty()

	token := jwt.New()
	err := token.Set(s.config.Auth.AddressClaim, freelancerAddress)
	require.Nil(s.T(), err)
	signed, err := jwt.Sign(token, jwa.HS256, []byte("wrong-secret"))
	require.Nil(s.T(), err)

	req := httptest.NewRequest(http.MethodPost, "/v1/bounties/"+created.Id+"/accept", nil)
	req.Header.Set("Authorization", "Bearer "+string(signed))

	recorder := httptest.NewRecorder()
	s.server.Router.ServeHTTP(recorder, req)
	assert.Equal(s.T(), http.StatusForbidden, recorder.Code)
}
