package domain

// FilterOp is a comparison used in list filters
type FilterOp string

const (
	OpEq   FilterOp = "eq"
	OpNe   FilterOp = "ne"
	OpGt   FilterOp = "gt"
	OpGte  FilterOp = "gte"
	OpLt   FilterOp = "lt"
	OpLte  FilterOp = "lte"
	OpIn   FilterOp = "in"
	OpLike FilterOp = "like"
)

// Filter restricts a list query on one column
type Filter struct {
	Column string
	Op     FilterOp
	Values []interface{}
}

// ListOptions is a page of a filtered list
type ListOptions struct {
	Filters []Filter
	Offset  int
	Limit   int
}
