package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garyjia/contract-approval/internal/application/service"
	"github.com/garyjia/contract-approval/internal/domain/entity"
	"github.com/garyjia/contract-approval/internal/infrastructure/persistence/repository"
	"github.com/garyjia/contract-approval/internal/infrastructure/persistence/sqlite"
	"github.com/garyjia/contract-approval/internal/infrastructure/report"
	"github.com/garyjia/contract-approval/migrations"
	"github.com/garyjia/contract-approval/pkg/database"
)

type testLogger struct{}

func (testLogger) Info(msg string, keysAndValues ...interface{})  {}
func (testLogger) Error(msg string, keysAndValues ...interface{}) {}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger, _ := zap.NewDevelopment()

	db, err := database.New(database.Config{
		Path:         filepath.Join(t.TempDir(), "http.db"),
		MaxOpenConns: 1,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.NewMigrator(db, logger).RunMigrations(migrations.FS))

	txDB := sqlite.NewDB(db.DB, logger)
	matrix := service.NewApprovalMatrixService(
		repository.NewRuleRepository(txDB, logger),
		report.NewMatrixWorkbook(logger),
		0,
		testLogger{},
	)
	allocations := service.NewAllocationService(
		repository.NewLineItemRepository(txDB, logger),
		txDB,
		1,
		[]entity.Category{entity.CategoryStandardPurchase, entity.CategoryService},
		testLogger{},
	)

	return NewServer(DefaultServerConfig(), matrix, allocations, testLogger{})
}

func do(t *testing.T, s *Server, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	var env envelope
	if rec.Header().Get("Content-Type") != xlsxContentType {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func TestServer_HealthCheck(t *testing.T) {
	s := newTestServer(t)

	rec, env := do(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
}

func TestServer_ApprovalMatrix(t *testing.T) {
	s := newTestServer(t)

	for _, r := range []AmountRuleRequest{
		{MinAmount: 0, MaxAmount: 5_000_000, Stakeholder: "A"},
		{MinAmount: 1_000_000, MaxAmount: 0, Stakeholder: "B"},
	} {
		rec, _ := do(t, s, http.MethodPost, "/api/rules/agreements", r)
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	rec, _ := do(t, s, http.MethodPost, "/api/rules/decisions",
		AmountRuleRequest{MinAmount: 0, MaxAmount: 999_999_999_999, Stakeholder: "X"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := do(t, s, http.MethodGet, "/api/approval-matrix", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var brackets []entity.Bracket
	require.NoError(t, json.Unmarshal(env.Data, &brackets))
	require.Len(t, brackets, 3)
	assert.Equal(t, []string{"A", "B"}, brackets[1].Approvers)
	assert.Nil(t, brackets[2].End)

	t.Run("lookup", func(t *testing.T) {
		rec, _ := do(t, s, http.MethodPost, "/api/rules/types",
			TypeRuleRequest{ContractType: "service", Approver: "Legal"})
		require.Equal(t, http.StatusCreated, rec.Code)

		rec, env := do(t, s, http.MethodGet, "/api/approval-matrix/lookup?amount=3000000&category=service", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var result service.MatrixLookup
		require.NoError(t, json.Unmarshal(env.Data, &result))
		require.NotNil(t, result.Bracket)
		assert.Equal(t, []string{"A", "B"}, result.Bracket.Approvers)
		require.Len(t, result.TypeAgreements, 1)
		assert.Equal(t, "Legal", result.TypeAgreements[0].Approver)
	})

	t.Run("export", func(t *testing.T) {
		rec, _ := do(t, s, http.MethodGet, "/api/approval-matrix/export", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
		assert.NotZero(t, rec.Body.Len())
	})

	t.Run("delete from the wrong collection", func(t *testing.T) {
		rec, env := do(t, s, http.MethodDelete, "/api/rules/decisions/1", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.False(t, env.Success)
	})
}

func TestServer_RuleValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		path string
		body interface{}
	}{
		{"missing stakeholder", "/api/rules/agreements", map[string]interface{}{"min_amount": 0}},
		{"negative bound", "/api/rules/decisions", AmountRuleRequest{MinAmount: -1, Stakeholder: "X"}},
		{"unknown contract type", "/api/rules/types", TypeRuleRequest{ContractType: "lease", Approver: "Legal"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := do(t, s, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, env.Success)
			assert.NotEmpty(t, env.Error)
		})
	}

	rec, _ := do(t, s, http.MethodDelete, "/api/rules/types/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_ApprovalLine(t *testing.T) {
	s := newTestServer(t)

	rec, env := do(t, s, http.MethodGet, "/api/approval-line?amount=60000000&category=standard-purchase", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var steps []entity.ApprovalStep
	require.NoError(t, json.Unmarshal(env.Data, &steps))
	require.Len(t, steps, 5)
	assert.True(t, steps[4].Final)

	rec, _ = do(t, s, http.MethodGet, "/api/approval-line?amount=-1&category=other", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, s, http.MethodGet, "/api/approval-line?amount=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_LineItemAllocation(t *testing.T) {
	s := newTestServer(t)

	rec, env := do(t, s, http.MethodPost, "/api/line-items", CreateLineItemRequest{
		Name:     "Consulting",
		Category: "service",
		Amount:   1_000,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created service.LineItemView
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.NotZero(t, created.ID)
	assert.False(t, created.Complete)

	base := "/api/line-items/" + strconv.FormatInt(created.ID, 10)

	rec, _ = do(t, s, http.MethodPost, base+"/finalize", nil)
	assert.Equal(t, http.StatusConflict, rec.Code, "an unallocated service item cannot be finalized")

	do(t, s, http.MethodPost, base+"/allocations", nil)
	rec, env = do(t, s, http.MethodPost, base+"/allocations", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var view service.LineItemView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	require.Len(t, view.Allocations, 2)
	assert.Equal(t, 50.0, view.Allocations[0].Value)
	assert.True(t, view.Complete)

	rec, env = do(t, s, http.MethodPut, base+"/allocations/0", map[string]interface{}{
		"department": "Sales",
		"value":      90,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, "Sales", view.Allocations[0].Department)
	assert.Equal(t, 50.0, view.Allocations[0].Value, "capped at the remaining share")

	rec, _ = do(t, s, http.MethodPut, base+"/allocations/7", map[string]interface{}{"value": 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, env = do(t, s, http.MethodDelete, base+"/allocations/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &view))
	require.Len(t, view.Allocations, 1)
	assert.Equal(t, 100.0, view.Allocations[0].Value)

	rec, env = do(t, s, http.MethodPost, base+"/finalize", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.True(t, view.Finalized)

	rec, _ = do(t, s, http.MethodPost, base+"/allocations", nil)
	assert.Equal(t, http.StatusConflict, rec.Code, "finalized items are read-only")

	rec, _ = do(t, s, http.MethodGet, "/api/line-items/999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_CORSPreflight(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/rules/agreements", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
