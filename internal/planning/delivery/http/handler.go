package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/agroplan/planner/internal/planning/domain"
	"github.com/agroplan/planner/internal/planning/usecase/command"
	"github.com/agroplan/planner/internal/planning/usecase/query"
	"github.com/agroplan/planner/pkg/logger"
)

// PlanningHandler handles HTTP requests for the planning service
type PlanningHandler struct {
	departments domain.DepartmentRepository
	products    domain.ProductRepository
	recipes     domain.RecipeRepository
	materials   domain.MaterialRepository
	warehouses  domain.WarehouseRepository
	orders      domain.OrderRepository
	plans       domain.PlanRepository

	importOrders   *command.ImportOrdersHandler
	commitBatch    *command.CommitBatchHandler
	evaluateBatch  *query.EvaluateBatchHandler
	getBatch       *query.GetBatchHandler
	departmentLoad *query.DepartmentLoadHandler

	cache *ReportCache

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	verdictCounter *prometheus.CounterVec
	plansCommitted prometheus.Counter
}

// NewPlanningHandler creates a new planning handler with Prometheus metrics
func NewPlanningHandler(
	departments domain.DepartmentRepository,
	products domain.ProductRepository,
	recipes domain.RecipeRepository,
	materials domain.MaterialRepository,
	warehouses domain.WarehouseRepository,
	orders domain.OrderRepository,
	plans domain.PlanRepository,
	importOrders *command.ImportOrdersHandler,
	commitBatch *command.CommitBatchHandler,
	evaluateBatch *query.EvaluateBatchHandler,
	getBatch *query.GetBatchHandler,
	departmentLoad *query.DepartmentLoadHandler,
	cache *ReportCache,
) *PlanningHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_requests_total",
			Help: "Total number of requests to the planning service",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "planner_request_duration_seconds",
			Help:    "Duration of planning service requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	verdictCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_pass_verdicts_total",
			Help: "Verdicts produced by allocation passes",
		},
		[]string{"operation", "kind"},
	)

	plansCommitted := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "planner_plans_committed_total",
			Help: "Production plans created by committed passes",
		},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)
	prometheus.MustRegister(verdictCounter)
	prometheus.MustRegister(plansCommitted)

	return &PlanningHandler{
		departments:    departments,
		products:       products,
		recipes:        recipes,
		materials:      materials,
		warehouses:     warehouses,
		orders:         orders,
		plans:          plans,
		importOrders:   importOrders,
		commitBatch:    commitBatch,
		evaluateBatch:  evaluateBatch,
		getBatch:       getBatch,
		departmentLoad: departmentLoad,
		cache:          cache,
		requestCounter: requestCounter,
		requestLatency: requestLatency,
		verdictCounter: verdictCounter,
		plansCommitted: plansCommitted,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// metricsMiddleware wraps handlers with Prometheus metrics
func (h *PlanningHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
	}
}

// CreateDepartment handles POST /api/departments
func (h *PlanningHandler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name          string `json:"name"`
		ProductType   string `json:"product_type"`
		AverageOutput int    `json:"average_output"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.AverageOutput <= 0 {
		respondError(w, http.StatusBadRequest, "name and a positive average_output are required")
		return
	}

	department := &domain.ProductionDepartment{
		Name:          req.Name,
		ProductType:   req.ProductType,
		AverageOutput: req.AverageOutput,
	}
	if err := h.departments.Create(department); err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to create department")
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, Response{Success: true, Data: department})
}

// ListDepartments handles GET /api/departments
func (h *PlanningHandler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	departments, err := h.departments.FindAll(limit, offset)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to list departments")
		respondError(w, http.StatusInternalServerError, "Failed to list departments")
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: departments})
}

// DepartmentLoad handles GET /api/departments/load
func (h *PlanningHandler) DepartmentLoad(w http.ResponseWriter, r *http.Request) {
	report, err := h.departmentLoad.Handle(r.Context())
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to build department load report")
		respondError(w, http.StatusInternalServerError, "Failed to build department load report")
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: report})
}

// CreateProduct handles POST /api/products
func (h *PlanningHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string `json:"name"`
		DepartmentID uint   `json:"department_id"`
		IsActive     *bool  `json:"is_active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.DepartmentID == 0 {
		respondError(w, http.StatusBadRequest, "name and department_id are required")
		return
	}
	if _, err := h.departments.FindByID(req.DepartmentID); err != nil {
		respondError(w, statusFor(err), "Department not found")
		return
	}

	product := &domain.Product{
		Name:         req.Name,
		DepartmentID: req.DepartmentID,
		IsActive:     true,
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if err := h.products.Create(product); err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to create product")
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, Response{Success: true, Data: product})
}

// ListProducts handles GET /api/products
func (h *PlanningHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	products, err := h.products.FindAll(limit, offset)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to list products")
		respondError(w, http.StatusInternalServerError, "Failed to list products")
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: products})
}

// CreateWarehouse handles POST /api/warehouses
func (h *PlanningHandler) CreateWarehouse(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	warehouse := &domain.Warehouse{Name: req.Name}
	if err := h.warehouses.Create(warehouse); err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to create warehouse")
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, Response{Success: true, Data: warehouse})
}

// ListWarehouses handles GET /api/warehouses
func (h *PlanningHandler) ListWarehouses(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	warehouses, err := h.warehouses.FindAll(limit, offset)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to list warehouses")
		respondError(w, http.StatusInternalServerError, "Failed to list warehouses")
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: warehouses})
}

// CreateMaterial handles POST /api/materials
func (h *PlanningHandler) CreateMaterial(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Quantity    int    `json:"quantity"`
		WarehouseID *uint  `json:"warehouse_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.Quantity < 0 {
		respondError(w, http.StatusBadRequest, "name and a non-negative quantity are required")
		return
	}

	material := &domain.RawMaterial{
		Name:        req.Name,
		Quantity:    req.Quantity,
		WarehouseID: req.WarehouseID,
	}
	if err := h.materials.Create(material); err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to create material")
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, Response{Success: true, Data: material})
}

// ListMaterials handles GET /api/materials
func (h *PlanningHandler) ListMaterials(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	materials, err := h.materials.FindAll(limit, offset)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to list materials")
		respondError(w, http.StatusInternalServerError, "Failed to list materials")
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: materials})
}

// CreateRecipe handles POST /api/recipes
func (h *PlanningHandler) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID        uint `json:"product_id"`
		MaterialID       uint `json:"material_id"`
		RequiredQuantity int  `json:"required_quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ProductID == 0 || req.MaterialID == 0 || req.RequiredQuantity <= 0 {
		respondError(w, http.StatusBadRequest, "product_id, material_id and a positive required_quantity are required")
		return
	}
	if _, err := h.products.FindByID(req.ProductID); err != nil {
		respondError(w, statusFor(err), "Product not found")
		return
	}
	if _, err := h.materials.FindByID(req.MaterialID); err != nil {
		respondError(w, statusFor(err), "Material not found")
		return
	}

	recipe := &domain.Recipe{
		ProductID:        req.ProductID,
		MaterialID:       req.MaterialID,
		RequiredQuantity: req.RequiredQuantity,
	}
	if err := h.recipes.Create(recipe); err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to create recipe")
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, Response{Success: true, Data: recipe})
}

// ListRecipes handles GET /api/recipes
func (h *PlanningHandler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	recipes, err := h.recipes.FindAll(limit, offset)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to list recipes")
		respondError(w, http.StatusInternalServerError, "Failed to list recipes")
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: recipes})
}

// ImportOrders handles POST /api/orders/import
func (h *PlanningHandler) ImportOrders(w http.ResponseWriter, r *http.Request) {
	var items []command.OrderInput
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: expected a JSON array of orders")
		return
	}

	result, err := h.importOrders.Handle(r.Context(), command.ImportOrdersCommand{
		BatchID: r.URL.Query().Get("batch_id"),
		Items:   items,
	})
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Order import rejected")
		respondError(w, statusFor(err), err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Orders imported successfully",
		Data:    result,
	})
}

// ListOrders handles GET /api/orders
func (h *PlanningHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	if batchID := r.URL.Query().Get("batch_id"); batchID != "" {
		orders, err := h.orders.FindByBatchID(batchID)
		if err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to list orders")
			respondError(w, http.StatusInternalServerError, "Failed to list orders")
			return
		}
		respondJSON(w, http.StatusOK, Response{Success: true, Data: orders})
		return
	}

	limit, offset := pagination(r)
	orders, err := h.orders.FindAll(limit, offset)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to list orders")
		respondError(w, http.StatusInternalServerError, "Failed to list orders")
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: orders})
}

// ListBatches handles GET /api/batches
func (h *PlanningHandler) ListBatches(w http.ResponseWriter, r *http.Request) {
	batches, err := h.orders.ListBatches()
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to list batches")
		respondError(w, http.StatusInternalServerError, "Failed to list batches")
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: batches})
}

// GetBatch handles GET /api/batches/{batch_id}
func (h *PlanningHandler) GetBatch(w http.ResponseWriter, r *http.Request) {
	batchID := mux.Vars(r)["batch_id"]
	details, err := h.getBatch.Handle(r.Context(), query.GetBatchQuery{BatchID: batchID})
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: details})
}

// EvaluateBatch handles POST /api/batches/{batch_id}/evaluate
func (h *PlanningHandler) EvaluateBatch(w http.ResponseWriter, r *http.Request) {
	batchID := mux.Vars(r)["batch_id"]
	result, err := h.evaluateBatch.Handle(r.Context(), query.EvaluateBatchQuery{BatchID: batchID})
	if err != nil {
		logger.Logger.Error().Err(err).Str("batch_id", batchID).Msg("Batch evaluation failed")
		respondError(w, statusFor(err), err.Error())
		return
	}

	for _, verdict := range result.Verdicts {
		h.verdictCounter.WithLabelValues("evaluate", string(verdict.Kind)).Inc()
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: result.Verdicts})
}

// CommitBatch handles POST /api/batches/{batch_id}/commit
func (h *PlanningHandler) CommitBatch(w http.ResponseWriter, r *http.Request) {
	batchID := mux.Vars(r)["batch_id"]
	result, err := h.commitBatch.Handle(r.Context(), command.CommitBatchCommand{BatchID: batchID})
	if err != nil {
		logger.Logger.Error().Err(err).Str("batch_id", batchID).Msg("Batch commit failed")
		respondError(w, statusFor(err), err.Error())
		return
	}

	for _, verdict := range result.Verdicts {
		h.verdictCounter.WithLabelValues("commit", string(verdict.Kind)).Inc()
	}
	h.plansCommitted.Add(float64(len(result.Plans)))

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Batch committed successfully",
		Data:    result,
	})
}

// ListPlans handles GET /api/plans
func (h *PlanningHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	if batchID := r.URL.Query().Get("batch_id"); batchID != "" {
		plans, err := h.plans.FindByBatchID(batchID)
		if err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to list plans")
			respondError(w, http.StatusInternalServerError, "Failed to list plans")
			return
		}
		respondJSON(w, http.StatusOK, Response{Success: true, Data: plans})
		return
	}

	limit, offset := pagination(r)
	plans, err := h.plans.FindAll(limit, offset)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to list plans")
		respondError(w, http.StatusInternalServerError, "Failed to list plans")
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: plans})
}

// RegisterRoutes registers all planning routes
func (h *PlanningHandler) RegisterRoutes(router *mux.Router) {
	h.route(router, "/api/departments", "GET", "list-departments", h.ListDepartments)
	h.route(router, "/api/departments", "POST", "create-department", h.CreateDepartment)
	h.route(router, "/api/departments/load", "GET", "department-load", h.cache.Middleware(h.DepartmentLoad))
	h.route(router, "/api/products", "GET", "list-products", h.ListProducts)
	h.route(router, "/api/products", "POST", "create-product", h.CreateProduct)
	h.route(router, "/api/warehouses", "GET", "list-warehouses", h.ListWarehouses)
	h.route(router, "/api/warehouses", "POST", "create-warehouse", h.CreateWarehouse)
	h.route(router, "/api/materials", "GET", "list-materials", h.ListMaterials)
	h.route(router, "/api/materials", "POST", "create-material", h.CreateMaterial)
	h.route(router, "/api/recipes", "GET", "list-recipes", h.ListRecipes)
	h.route(router, "/api/recipes", "POST", "create-recipe", h.CreateRecipe)
	h.route(router, "/api/orders", "GET", "list-orders", h.ListOrders)
	h.route(router, "/api/orders/import", "POST", "import-orders", h.ImportOrders)
	h.route(router, "/api/batches", "GET", "list-batches", h.ListBatches)
	h.route(router, "/api/batches/{batch_id}", "GET", "get-batch", h.GetBatch)
	h.route(router, "/api/batches/{batch_id}/evaluate", "POST", "evaluate-batch", h.EvaluateBatch)
	h.route(router, "/api/batches/{batch_id}/commit", "POST", "commit-batch", h.CommitBatch)
	h.route(router, "/api/plans", "GET", "list-plans", h.ListPlans)
}

func (h *PlanningHandler) route(router *mux.Router, path, method, name string, fn http.HandlerFunc) {
	router.Handle(path, TracingMiddleware(name, h.metricsMiddleware(name, fn))).Methods(method)
}

// RegisterHealthCheck registers the health check endpoint
func (h *PlanningHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, Response{
				Success: false,
				Error:   "Database unavailable",
			})
			return
		}
		respondJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "Planning service is healthy",
		})
	}).Methods("GET")
}

func pagination(r *http.Request) (limit, offset int) {
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	if limit <= 0 {
		limit = 50
	}
	return limit, offset
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrReferenceNotFound),
		errors.Is(err, domain.ErrDuplicateOrder),
		errors.Is(err, domain.ErrInvalidWindow),
		errors.Is(err, domain.ErrInvalidQuantity):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, Response{Success: false, Error: message})
}
