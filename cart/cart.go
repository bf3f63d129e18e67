package cart

import (
	"sync"

	"github.com/google/uuid"

	"magazyn/model"
)

// Cart holds the pending order lines of one session. There is no ambient
// global cart: a handle is obtained from the Registry and its lifetime is
// bound to the session that created it.
type Cart struct {
	id    uuid.UUID
	mu    sync.Mutex
	lines []model.CartLine
}

func (c *Cart) ID() uuid.UUID {
	return c.id
}

// AddLine validates the requested quantity against the product snapshot
// the caller fetched and, on success, appends a new line. Lines are never
// merged: repeated adds of the same product produce multiple lines. The
// cumulative rule counts quantity already in the cart for the same
// product against the snapshot's stock.
func (c *Cart) AddLine(p *model.Product, qty int) (model.CartLine, error) {
	if qty <= 0 {
		return model.CartLine{}, &model.ValidationError{Field: "quantity", Reason: "must be a positive integer"}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	inCart := 0
	for _, line := range c.lines {
		if line.ProductID == p.ID {
			inCart += line.Quantity
		}
	}
	if qty+inCart > p.Quantity {
		available := p.Quantity - inCart
		if available < 0 {
			available = 0
		}
		return model.CartLine{}, &model.CapacityExceededError{
			ProductID: p.ID,
			Requested: qty,
			Available: available,
		}
	}

	line := model.CartLine{
		ID:        uuid.New(),
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.UnitPrice,
		Quantity:  qty,
		LineTotal: float64(qty) * p.UnitPrice,
	}
	c.lines = append(c.lines, line)
	return line, nil
}

// Lines returns a copy of the current lines in insertion order.
func (c *Cart) Lines() []model.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Clear empties the cart. It touches no persisted data.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// RemoveLines drops the lines whose ids are in drop, preserving order.
// Checkout uses it to remove exactly the lines it committed: failed
// lines stay for retry, and a line another tab added while the checkout
// was running is never touched.
func (c *Cart) RemoveLines(drop map[uuid.UUID]bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.lines[:0]
	for _, line := range c.lines {
		if !drop[line.ID] {
			kept = append(kept, line)
		}
	}
	c.lines = kept
}

// Total is recomputed from the cached line totals on every call.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total float64
	for _, line := range c.lines {
		total += line.LineTotal
	}
	return total
}

// Registry maps session identifiers to live carts.
type Registry struct {
	mu    sync.Mutex
	carts map[uuid.UUID]*Cart
}

func NewRegistry() *Registry {
	return &Registry{carts: make(map[uuid.UUID]*Cart)}
}

func (r *Registry) Create() *Cart {
	c := &Cart{id: uuid.New()}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[c.id] = c
	return c
}

func (r *Registry) Get(id uuid.UUID) (*Cart, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[id]
	return c, ok
}

func (r *Registry) Remove(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, id)
}
