package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"finbook/internal/core"
	"finbook/internal/log"
	"finbook/internal/service"
	"finbook/internal/storage"
)

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Code    int             `json:"code"`
}

type ServerTestSuite struct {
	suite.Suite
	repo   *storage.Repository
	server *Server
}

func (suite *ServerTestSuite) SetupTest() {
	repo, err := storage.Open(":memory:")
	require.NoError(suite.T(), err, "failed to open test database")
	suite.repo = repo

	logger := log.New(log.DefaultConfig())
	publisher := service.NopPublisher{}
	suite.server = NewServer(Options{Addr: ":0"},
		service.NewUserService(repo, publisher, logger),
		service.NewIncomeService(repo, publisher, logger),
		service.NewExpenseService(repo, publisher, logger),
		service.NewBudgetService(repo, publisher, logger),
		logger,
	)
}

func (suite *ServerTestSuite) TearDownTest() {
	if suite.repo != nil {
		suite.repo.Close()
	}
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (suite *ServerTestSuite) do(method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(suite.T(), err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	suite.server.Handler().ServeHTTP(rec, req)

	var env envelope
	require.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &env), "response is not an envelope: %s", rec.Body.String())
	return rec, env
}

func (suite *ServerTestSuite) createUser(username string) core.User {
	rec, env := suite.do(http.MethodPost, "/api/users", core.UserRequest{
		Username: username, Password: "secret", Email: username + "@example.com",
	})
	require.Equal(suite.T(), http.StatusCreated, rec.Code)

	var user core.User
	require.NoError(suite.T(), json.Unmarshal(env.Data, &user))
	return user
}

func (suite *ServerTestSuite) TestHealth() {
	rec, env := suite.do(http.MethodGet, "/health", nil)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.Equal(suite.T(), "success", env.Status)
}

func (suite *ServerTestSuite) TestCreateUserEnvelope() {
	rec, env := suite.do(http.MethodPost, "/api/users", core.UserRequest{
		Username: "alice", Password: "secret", Email: "alice@example.com",
	})
	assert.Equal(suite.T(), http.StatusCreated, rec.Code)
	assert.Equal(suite.T(), "success", env.Status)
	assert.Equal(suite.T(), http.StatusCreated, env.Code)
	assert.Equal(suite.T(), "user created", env.Message)
}

func (suite *ServerTestSuite) TestDuplicateUsernameConflicts() {
	suite.createUser("alice")

	rec, env := suite.do(http.MethodPost, "/api/users", core.UserRequest{
		Username: "alice", Password: "x", Email: "x@example.com",
	})
	assert.Equal(suite.T(), http.StatusConflict, rec.Code)
	assert.Equal(suite.T(), "error", env.Status)
}

func (suite *ServerTestSuite) TestMissingUserIsNotFound() {
	rec, env := suite.do(http.MethodGet, "/api/users/999", nil)
	assert.Equal(suite.T(), http.StatusNotFound, rec.Code)
	assert.Equal(suite.T(), "error", env.Status)
	assert.Contains(suite.T(), env.Message, "user not found")
}

func (suite *ServerTestSuite) TestInvalidIDIsBadRequest() {
	rec, env := suite.do(http.MethodGet, "/api/users/abc", nil)
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	assert.Equal(suite.T(), "error", env.Status)
}

func (suite *ServerTestSuite) TestIncomeLifecycle() {
	alice := suite.createUser("alice")

	rec, env := suite.do(http.MethodPost, "/api/incomes", core.IncomeRequest{
		Description: "salary", Source: "work", Amount: 100, Date: "2024-01-01", UserID: alice.ID,
	})
	require.Equal(suite.T(), http.StatusCreated, rec.Code)

	var created service.IncomeView
	require.NoError(suite.T(), json.Unmarshal(env.Data, &created))
	assert.Equal(suite.T(), "alice", created.Username)

	rec, env = suite.do(http.MethodGet, "/api/incomes/user/1", nil)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)

	var incomes []service.IncomeView
	require.NoError(suite.T(), json.Unmarshal(env.Data, &incomes))
	assert.Len(suite.T(), incomes, 1)

	rec, _ = suite.do(http.MethodDelete, "/api/incomes/1/user/1", nil)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
}

func (suite *ServerTestSuite) TestExpenseTotalsAndFilters() {
	alice := suite.createUser("alice")

	for _, e := range []core.ExpenseRequest{
		{Description: "groceries", Amount: 50.0, Date: "2024-01-05", UserID: alice.ID},
		{Description: "rent", Amount: 120.0, Date: "2024-01-10", UserID: alice.ID},
	} {
		rec, _ := suite.do(http.MethodPost, "/api/expenses", e)
		require.Equal(suite.T(), http.StatusCreated, rec.Code)
	}

	rec, env := suite.do(http.MethodGet, "/api/expenses/total/user/1", nil)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)

	var total float64
	require.NoError(suite.T(), json.Unmarshal(env.Data, &total))
	assert.Equal(suite.T(), 170.0, total)

	rec, env = suite.do(http.MethodGet, "/api/expenses/greater-than/user/1/100", nil)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)

	var above []service.ExpenseView
	require.NoError(suite.T(), json.Unmarshal(env.Data, &above))
	require.Len(suite.T(), above, 1)
	assert.Equal(suite.T(), "rent", above[0].Description)
}

func (suite *ServerTestSuite) TestForeignRecordIsNotFound() {
	alice := suite.createUser("alice")
	suite.createUser("bob")

	rec, _ := suite.do(http.MethodPost, "/api/budgets", core.BudgetRequest{
		Description: "food", Category: "groceries", Amount: 300, Month: "january", UserID: alice.ID,
	})
	require.Equal(suite.T(), http.StatusCreated, rec.Code)

	rec, env := suite.do(http.MethodGet, "/api/budgets/1/user/2", nil)
	assert.Equal(suite.T(), http.StatusNotFound, rec.Code)
	assert.Contains(suite.T(), env.Message, "does not belong to user")
}

func (suite *ServerTestSuite) TestMaxOnEmptyIsNotFound() {
	suite.createUser("alice")

	rec, env := suite.do(http.MethodGet, "/api/incomes/max/user/1", nil)
	assert.Equal(suite.T(), http.StatusNotFound, rec.Code)
	assert.Equal(suite.T(), "error", env.Status)
}

func (suite *ServerTestSuite) TestSearchByDescriptionKeyword() {
	alice := suite.createUser("alice")

	rec, _ := suite.do(http.MethodPost, "/api/incomes", core.IncomeRequest{
		Description: "Freelance Gig", Source: "client", Amount: 300, Date: "2024-02-01", UserID: alice.ID,
	})
	require.Equal(suite.T(), http.StatusCreated, rec.Code)

	rec, env := suite.do(http.MethodGet, "/api/incomes/description/user/1?keyword=freelance", nil)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)

	var incomes []service.IncomeView
	require.NoError(suite.T(), json.Unmarshal(env.Data, &incomes))
	assert.Len(suite.T(), incomes, 1)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestStartLogsListenAddr(t *testing.T) {
	repo, err := storage.Open(":memory:")
	require.NoError(t, err)
	defer repo.Close()

	out := &syncBuffer{}
	logger := log.New(log.Config{Handler: slog.NewTextHandler(out, nil)})
	publisher := service.NopPublisher{}
	server := NewServer(Options{Addr: "127.0.0.1:0"},
		service.NewUserService(repo, publisher, logger),
		service.NewIncomeService(repo, publisher, logger),
		service.NewExpenseService(repo, publisher, logger),
		service.NewBudgetService(repo, publisher, logger),
		logger,
	)

	done := make(chan error, 1)
	go func() { done <- server.Start() }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "HTTP server listening")
	}, 2*time.Second, 10*time.Millisecond, "startup entry not logged")

	assert.Contains(t, out.String(), "addr=127.0.0.1:0")
	assert.NotContains(t, out.String(), "path=127.0.0.1:0")

	require.NoError(t, server.Shutdown(context.Background()))
	assert.NoError(t, <-done)
}

func (suite *ServerTestSuite) TestDeleteUserWithRecordsConflicts() {
	alice := suite.createUser("alice")

	rec, _ := suite.do(http.MethodPost, "/api/expenses", core.ExpenseRequest{
		Description: "rent", Amount: 800, Date: "2024-01-01", UserID: alice.ID,
	})
	require.Equal(suite.T(), http.StatusCreated, rec.Code)

	rec, env := suite.do(http.MethodDelete, "/api/users/1", nil)
	assert.Equal(suite.T(), http.StatusConflict, rec.Code)
	assert.Contains(suite.T(), env.Message, "owns")
}
