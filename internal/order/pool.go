package order

// Pool is a free list of recycled orders.
type Pool struct {
	free    []*Order
	created int
}

// NewPool creates an empty pool.
func NewPool() *Pool {
	return &Pool{}
}

// Acquire returns a recycled order, or a new one when the free list is
// empty. The caller must call setup before use.
func (p *Pool) Acquire() *Order {
	if n := len(p.free); n > 0 {
		o := p.free[n-1]
		p.free = p.free[:n-1]
		return o
	}
	p.created++
	return &Order{}
}

// Release returns o to the free list. Releasing the same order twice is
// ignored.
func (p *Pool) Release(o *Order) {
	if o == nil {
		return
	}
	for _, f := range p.free {
		if f == o {
			return
		}
	}
	p.free = append(p.free, o)
}

// Len is the number of orders waiting for reuse.
func (p *Pool) Len() int {
	return len(p.free)
}

// Created is the number of orders ever allocated.
func (p *Pool) Created() int {
	return p.created
}
