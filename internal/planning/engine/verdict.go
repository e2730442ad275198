package engine

// Kind classifies the outcome of evaluating one order
type Kind string

// Verdict kinds
const (
	KindFeasible Kind = "feasible"
	KindLate     Kind = "late"
	KindShortage Kind = "shortage"
	KindRejected Kind = "rejected"
)

// Verdict is the outcome of evaluating one order. Exactly one kind applies:
// Feasible carries the planned quantity, Late a delay estimate, Shortage the
// per-material shortfall, Rejected a reason (bad input or unknown reference).
type Verdict struct {
	OrderID        uint           `json:"order_id"`
	Product        string         `json:"product"`
	Kind           Kind           `json:"kind"`
	RequiredMonths float64        `json:"required_months,omitempty"`
	PlannedQty     int            `json:"planned_quantity,omitempty"`
	Delay          float64        `json:"delay,omitempty"`
	Shortages      map[string]int `json:"shortages,omitempty"`
	Reason         string         `json:"reason,omitempty"`
}

// Committable reports whether the verdict yields a production plan
func (v Verdict) Committable() bool {
	return v.Kind == KindFeasible
}
