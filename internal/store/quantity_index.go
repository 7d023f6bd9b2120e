package store

import "github.com/shopspring/decimal"

// QuantityIndex accumulates per-id quantity totals while remembering the
// order ids were first seen. The order matters: Max breaks ties in favor of
// the earliest id, and callers that sort on totals rely on a stable
// pre-sort sequence.
type QuantityIndex struct {
	order  []ID
	totals map[ID]decimal.Decimal
}

// NewQuantityIndex returns an empty index.
func NewQuantityIndex() *QuantityIndex {
	return &QuantityIndex{totals: make(map[ID]decimal.Decimal)}
}

// Add folds qty into the running total for id.
func (q *QuantityIndex) Add(id ID, qty decimal.Decimal) {
	cur, ok := q.totals[id]
	if !ok {
		q.order = append(q.order, id)
		q.totals[id] = qty
		return
	}
	q.totals[id] = cur.Add(qty)
}

// Get returns the accumulated total for id.
func (q *QuantityIndex) Get(id ID) (decimal.Decimal, bool) {
	total, ok := q.totals[id]
	return total, ok
}

// IDs returns the ids in first-seen order.
func (q *QuantityIndex) IDs() []ID {
	return q.order
}

// Len returns the number of distinct ids.
func (q *QuantityIndex) Len() int {
	return len(q.order)
}

// Max returns the id with the largest total. Ties keep the id that was
// aggregated first. ok is false when the index is empty.
func (q *QuantityIndex) Max() (id ID, total decimal.Decimal, ok bool) {
	for i, candidate := range q.order {
		t := q.totals[candidate]
		if i == 0 || t.GreaterThan(total) {
			id, total = candidate, t
		}
	}
	return id, total, len(q.order) > 0
}
