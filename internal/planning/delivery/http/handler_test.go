package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agroplan/planner/internal/planning/engine"
	"github.com/agroplan/planner/internal/planning/repository/memory"
	"github.com/agroplan/planner/internal/planning/usecase/command"
	"github.com/agroplan/planner/internal/planning/usecase/query"

	httpDelivery "github.com/agroplan/planner/internal/planning/delivery/http"
)

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newTestRouter(t *testing.T, store *memory.Store) *mux.Router {
	t.Helper()

	departments := memory.NewDepartmentRepository()
	products := memory.NewProductRepository()
	recipes := memory.NewRecipeRepository()
	materials := memory.NewMaterialRepository()
	warehouses := memory.NewWarehouseRepository()
	orders := memory.NewOrderRepository()
	plans := memory.NewPlanRepository()

	eng := engine.New(store)
	handler := httpDelivery.NewPlanningHandler(
		departments,
		products,
		recipes,
		materials,
		warehouses,
		orders,
		plans,
		command.NewImportOrdersHandler(orders, products),
		command.NewCommitBatchHandler(orders, eng, store, nil, nil),
		query.NewEvaluateBatchHandler(orders, eng),
		query.NewGetBatchHandler(orders, recipes, store),
		query.NewDepartmentLoadHandler(departments, orders),
		nil,
	)

	router := mux.NewRouter()
	handler.RegisterRoutes(router)
	return router
}

func doJSON(t *testing.T, router *mux.Router, method, path string, body interface{}) (*httptest.ResponseRecorder, apiResponse) {
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
	router.ServeHTTP(rec, req)

	var resp apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

// The metrics registry is global, so the handler is built exactly once and
// the whole API surface is exercised as one flow.
func TestPlanningAPI(t *testing.T) {
	store := memory.NewStore()
	store.AddProduct(engine.Product{
		ID: 1, Name: "tractor", Active: true,
		DepartmentID: 1, Department: "assembly", AverageOutput: 100,
	})
	store.AddRecipeLine(1, engine.RecipeLine{MaterialName: "steel", PerUnit: 10})
	store.SetStock("steel", 500)

	router := newTestRouter(t, store)
	var batchID string

	t.Run("create department", func(t *testing.T) {
		rec, resp := doJSON(t, router, "POST", "/api/departments", map[string]interface{}{
			"name":           "assembly",
			"product_type":   "machinery",
			"average_output": 100,
		})
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.True(t, resp.Success)
	})

	t.Run("create department rejects bad payload", func(t *testing.T) {
		rec, resp := doJSON(t, router, "POST", "/api/departments", map[string]interface{}{
			"name":           "",
			"average_output": 0,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, resp.Success)
	})

	t.Run("create product", func(t *testing.T) {
		rec, _ := doJSON(t, router, "POST", "/api/products", map[string]interface{}{
			"name":          "tractor",
			"department_id": 1,
		})
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("create product unknown department", func(t *testing.T) {
		rec, _ := doJSON(t, router, "POST", "/api/products", map[string]interface{}{
			"name":          "orphan",
			"department_id": 99,
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("create warehouse and material", func(t *testing.T) {
		rec, _ := doJSON(t, router, "POST", "/api/warehouses", map[string]interface{}{"name": "main"})
		assert.Equal(t, http.StatusCreated, rec.Code)

		rec, _ = doJSON(t, router, "POST", "/api/materials", map[string]interface{}{
			"name":         "steel",
			"quantity":     500,
			"warehouse_id": 1,
		})
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("create recipe", func(t *testing.T) {
		rec, _ := doJSON(t, router, "POST", "/api/recipes", map[string]interface{}{
			"product_id":        1,
			"material_id":       1,
			"required_quantity": 10,
		})
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("import orders", func(t *testing.T) {
		rec, resp := doJSON(t, router, "POST", "/api/orders/import", []map[string]interface{}{
			{"product": 1, "start_date": "2026-09-01", "end_date": "2026-10-01", "quantity": 20},
			{"product": 1, "start_date": "2026-10-01", "end_date": "2026-11-01", "quantity": 10},
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		var result command.ImportResult
		require.NoError(t, json.Unmarshal(resp.Data, &result))
		assert.Equal(t, 2, result.Created)
		require.NotEmpty(t, result.BatchID)
		batchID = result.BatchID
	})

	t.Run("import rejects duplicate", func(t *testing.T) {
		rec, _ := doJSON(t, router, "POST", "/api/orders/import", []map[string]interface{}{
			{"product": 1, "start_date": "2026-09-01", "end_date": "2026-12-01", "quantity": 5},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("get batch", func(t *testing.T) {
		rec, resp := doJSON(t, router, "GET", "/api/batches/"+batchID, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var details query.BatchDetails
		require.NoError(t, json.Unmarshal(resp.Data, &details))
		assert.Len(t, details.Orders, 2)
		assert.Equal(t, map[string]int{"steel": 300}, details.RequiredMaterials)
	})

	t.Run("get unknown batch", func(t *testing.T) {
		rec, _ := doJSON(t, router, "GET", "/api/batches/missing", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("evaluate batch", func(t *testing.T) {
		rec, resp := doJSON(t, router, "POST", "/api/batches/"+batchID+"/evaluate", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var verdicts []engine.Verdict
		require.NoError(t, json.Unmarshal(resp.Data, &verdicts))
		require.Len(t, verdicts, 2)
		assert.Equal(t, engine.KindFeasible, verdicts[0].Kind)
		assert.Equal(t, engine.KindFeasible, verdicts[1].Kind)

		// Evaluation never touches stock.
		assert.Equal(t, 500, store.StockQuantity("steel"))
	})

	t.Run("commit batch", func(t *testing.T) {
		rec, resp := doJSON(t, router, "POST", "/api/batches/"+batchID+"/commit", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var result command.CommitResult
		require.NoError(t, json.Unmarshal(resp.Data, &result))
		assert.Len(t, result.Plans, 2)
		assert.Equal(t, 200, store.StockQuantity("steel"))
	})

	t.Run("list orders by batch", func(t *testing.T) {
		rec, resp := doJSON(t, router, "GET", "/api/orders?batch_id="+batchID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, resp.Success)
	})

	t.Run("list batches", func(t *testing.T) {
		rec, _ := doJSON(t, router, "GET", "/api/batches", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("department load report", func(t *testing.T) {
		rec, resp := doJSON(t, router, "GET", "/api/departments/load", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var report query.DepartmentLoadReport
		require.NoError(t, json.Unmarshal(resp.Data, &report))
		require.Len(t, report.Departments, 1)
		assert.Equal(t, "assembly", report.Departments[0].Department)
	})
}
