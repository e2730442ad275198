package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/agroplan/planner/internal/planning/domain"
)

const daysPerMonth = 30.0

// CapacityMode selects how timing feasibility is decided
type CapacityMode int

const (
	// CapacityContention measures department load from committed plans whose
	// order windows overlap the candidate's window. This is the default.
	CapacityContention CapacityMode = iota
	// CapacityWindow only compares the order's window length against the
	// duration the department needs, ignoring other plans. Kept for
	// compatibility with the simpler behavior.
	CapacityWindow
)

// Order is the allocation engine's view of one pending order
type Order struct {
	ID        uint
	BatchID   string
	ProductID uint
	Start     time.Time
	End       time.Time
	Quantity  int
}

// Product is the allocation engine's view of a product and the capacity of
// the department that owns it
type Product struct {
	ID            uint
	Name          string
	Active        bool
	DepartmentID  uint
	Department    string
	AverageOutput int
}

// RecipeLine is one bill-of-materials line: PerUnit units of the named
// material per unit of product
type RecipeLine struct {
	MaterialName string
	PerUnit      int
}

// CommittedPlan is an already-accepted plan contributing department load
// during its order's date window
type CommittedPlan struct {
	PlannedQuantity int
	Start           time.Time
	End             time.Time
}

// Store is the engine's persistence collaborator. Product returns
// domain.ErrReferenceNotFound (wrapped or not) for unknown products.
type Store interface {
	Product(ctx context.Context, id uint) (*Product, error)
	RecipeLines(ctx context.Context, productID uint) ([]RecipeLine, error)
	StockQuantities(ctx context.Context, names []string) (map[string]int, error)
	OverlappingPlans(ctx context.Context, departmentID uint, start, end time.Time) ([]CommittedPlan, error)
}

// Result is the outcome of one evaluation pass: one verdict per input order
// plus the staged writes a commit would persist. StockUpdates holds the
// post-decrement quantity of every material touched by a feasible order;
// Plans holds one row per feasible order.
type Result struct {
	Verdicts     []Verdict
	StockUpdates []domain.StockUpdate
	Plans        []*domain.ProductionPlan
}

// Engine evaluates a batch of orders against raw-material stock and
// department capacity. Evaluate is pure with respect to the store: it reads
// through the Store interface and stages writes in the Result without
// persisting anything.
type Engine struct {
	store Store
	mode  CapacityMode
}

// New creates an engine using the contention capacity model
func New(store Store) *Engine {
	return &Engine{store: store, mode: CapacityContention}
}

// NewWithMode creates an engine with an explicit capacity model
func NewWithMode(store Store, mode CapacityMode) *Engine {
	return &Engine{store: store, mode: mode}
}

type resolvedOrder struct {
	order   Order
	product *Product
	lines   []RecipeLine
	reject  string
}

// Evaluate processes the batch strictly in input order: earlier orders get
// first claim on shared stock and on department capacity within the pass.
// Per-order shortage and lateness are verdict data, never errors; only store
// failures abort the pass.
func (e *Engine) Evaluate(ctx context.Context, orders []Order) (*Result, error) {
	resolved, err := e.resolve(ctx, orders)
	if err != nil {
		return nil, err
	}

	// Size the stock query to exactly the materials the batch references.
	totals := make(map[string]int)
	for _, ro := range resolved {
		if ro.reject != "" {
			continue
		}
		for _, line := range ro.lines {
			totals[line.MaterialName] += line.PerUnit * ro.order.Quantity
		}
	}

	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Strings(names)

	stock, err := e.store.StockQuantities(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("load stock quantities: %w", err)
	}

	// The working map drives in-pass contention: any materially sufficient
	// order reserves from it, even one the capacity check later calls late.
	// The committed map tracks what a commit would actually persist, which
	// is the consumption of feasible orders only.
	working := make(map[string]int, len(stock))
	committed := make(map[string]int, len(stock))
	initial := make(map[string]int, len(stock))
	for name, qty := range stock {
		working[name] = qty
		committed[name] = qty
		initial[name] = qty
	}

	result := &Result{Verdicts: make([]Verdict, 0, len(orders))}
	for _, ro := range resolved {
		if ro.reject != "" {
			result.Verdicts = append(result.Verdicts, Verdict{
				OrderID: ro.order.ID,
				Product: productName(ro.product),
				Kind:    KindRejected,
				Reason:  ro.reject,
			})
			continue
		}

		verdict, required, err := e.evaluateOrder(ctx, ro, working)
		if err != nil {
			return nil, err
		}
		result.Verdicts = append(result.Verdicts, verdict)

		if verdict.Committable() {
			for name, amount := range required {
				committed[name] -= amount
			}
			result.Plans = append(result.Plans, &domain.ProductionPlan{
				OrderID:         ro.order.ID,
				ProductID:       ro.product.ID,
				PlannedQuantity: verdict.PlannedQty,
			})
		}
	}

	// Only materials actually consumed by feasible orders are staged.
	for _, name := range names {
		if committed[name] != initial[name] {
			result.StockUpdates = append(result.StockUpdates, domain.StockUpdate{
				MaterialName: name,
				NewQuantity:  committed[name],
			})
		}
	}
	return result, nil
}

// resolve validates each order and looks up its product and recipe lines.
// Bad input and unknown references reject the order without aborting the
// rest of the batch.
func (e *Engine) resolve(ctx context.Context, orders []Order) ([]resolvedOrder, error) {
	products := make(map[uint]*Product)
	lines := make(map[uint][]RecipeLine)

	resolved := make([]resolvedOrder, 0, len(orders))
	for _, o := range orders {
		ro := resolvedOrder{order: o}

		switch {
		case o.Quantity <= 0:
			ro.reject = domain.ErrInvalidQuantity.Error()
		case o.End.Before(o.Start):
			ro.reject = domain.ErrInvalidWindow.Error()
		}
		if ro.reject != "" {
			resolved = append(resolved, ro)
			continue
		}

		product, ok := products[o.ProductID]
		if !ok {
			fetched, err := e.store.Product(ctx, o.ProductID)
			if errors.Is(err, domain.ErrReferenceNotFound) || errors.Is(err, domain.ErrNotFound) {
				ro.reject = fmt.Sprintf("product %d: %s", o.ProductID, domain.ErrReferenceNotFound)
				resolved = append(resolved, ro)
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("load product %d: %w", o.ProductID, err)
			}
			products[o.ProductID] = fetched
			product = fetched
		}
		ro.product = product

		switch {
		case !product.Active:
			ro.reject = fmt.Sprintf("product %q is not active", product.Name)
		case product.AverageOutput <= 0:
			ro.reject = fmt.Sprintf("department %q has no output capacity", product.Department)
		}
		if ro.reject != "" {
			resolved = append(resolved, ro)
			continue
		}

		productLines, ok := lines[o.ProductID]
		if !ok {
			fetched, err := e.store.RecipeLines(ctx, o.ProductID)
			if err != nil {
				return nil, fmt.Errorf("recipe lines for product %d: %w", o.ProductID, err)
			}
			lines[o.ProductID] = fetched
			productLines = fetched
		}
		ro.lines = productLines
		resolved = append(resolved, ro)
	}
	return resolved, nil
}

// evaluateOrder runs the sufficiency and capacity checks for one order,
// decrementing the shared working stock on sufficiency. The required map is
// returned so the caller can stage the decrement if the verdict commits.
func (e *Engine) evaluateOrder(ctx context.Context, ro resolvedOrder, working map[string]int) (Verdict, map[string]int, error) {
	o := ro.order

	// Material sufficiency. All deficient materials are collected before
	// failing; a partially sufficient order reserves nothing.
	required := make(map[string]int, len(ro.lines))
	for _, line := range ro.lines {
		required[line.MaterialName] += line.PerUnit * o.Quantity
	}

	shortages := make(map[string]int)
	for name, amount := range required {
		if available := working[name]; available < amount {
			shortages[name] = amount - available
		}
	}
	if len(shortages) > 0 {
		return Verdict{
			OrderID:   o.ID,
			Product:   ro.product.Name,
			Kind:      KindShortage,
			Shortages: shortages,
		}, nil, nil
	}

	// Reservation is immediate and visible to later orders in the pass.
	for name, amount := range required {
		working[name] -= amount
	}

	verdict, err := e.capacityVerdict(ctx, ro)
	if err != nil {
		return Verdict{}, nil, err
	}
	return verdict, required, nil
}

// capacityVerdict decides timing feasibility for an order whose materials
// were sufficient.
func (e *Engine) capacityVerdict(ctx context.Context, ro resolvedOrder) (Verdict, error) {
	o := ro.order
	product := ro.product
	requiredMonths := float64(o.Quantity) / float64(product.AverageOutput)

	verdict := Verdict{
		OrderID:        o.ID,
		Product:        product.Name,
		RequiredMonths: requiredMonths,
	}

	if e.mode == CapacityWindow {
		windowDays := daysBetween(o.Start, o.End)
		if float64(windowDays) < requiredMonths*daysPerMonth {
			verdict.Kind = KindLate
			verdict.Delay = requiredMonths*daysPerMonth - float64(windowDays)
			return verdict, nil
		}
		verdict.Kind = KindFeasible
		verdict.PlannedQty = o.Quantity
		return verdict, nil
	}

	plans, err := e.store.OverlappingPlans(ctx, product.DepartmentID, o.Start, o.End)
	if err != nil {
		return Verdict{}, fmt.Errorf("overlapping plans for department %d: %w", product.DepartmentID, err)
	}

	// Instantaneous-rate approximation of department utilization during the
	// shared window: each overlapping plan contributes its quantity spread
	// over the overlap, in units per month.
	var currentLoad float64
	for _, plan := range plans {
		overlap := overlapDays(plan.Start, plan.End, o.Start, o.End)
		if overlap <= 0 {
			continue
		}
		currentLoad += float64(plan.PlannedQuantity) / (float64(overlap) / daysPerMonth)
	}

	available := float64(product.AverageOutput) - currentLoad
	switch {
	case available <= 0:
		// The department is fully booked for the whole window.
		verdict.Kind = KindLate
		verdict.Delay = requiredMonths
	case float64(o.Quantity) > available*requiredMonths:
		verdict.Kind = KindLate
		verdict.Delay = float64(o.Quantity)/available - requiredMonths
	default:
		verdict.Kind = KindFeasible
		verdict.PlannedQty = o.Quantity
	}
	return verdict, nil
}

// overlapDays returns the day count shared by two date windows, zero or
// negative when they do not intersect.
func overlapDays(aStart, aEnd, bStart, bEnd time.Time) int {
	start := aStart
	if bStart.After(start) {
		start = bStart
	}
	end := aEnd
	if bEnd.Before(end) {
		end = bEnd
	}
	return daysBetween(start, end)
}

func daysBetween(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}

func productName(p *Product) string {
	if p == nil {
		return ""
	}
	return p.Name
}
