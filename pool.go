package arena

import "sync"

// Pool hands out arenas to concurrent workers. Each arena stays
// single-owner: Get transfers it to the caller, Put clears it and takes it
// back. Only the free list is locked.
type Pool struct {
	mu        sync.Mutex
	free      []*Arena
	chunkSize int
	opts      []Option
}

// NewPool creates a pool whose arenas are built with NewArena(chunkSize, opts...).
func NewPool(chunkSize int, opts ...Option) *Pool {
	return &Pool{chunkSize: chunkSize, opts: opts}
}

// Get returns an idle arena, creating one if none is available.
func (p *Pool) Get() *Arena {
	p.mu.Lock()
	if n := len(p.free); n > 0 {
		a := p.free[n-1]
		p.free[n-1] = nil
		p.free = p.free[:n-1]
		p.mu.Unlock()
		return a
	}
	p.mu.Unlock()
	return NewArena(p.chunkSize, p.opts...)
}

// Put clears a and returns it to the pool. The caller must not use a or any
// memory allocated from it afterwards.
func (p *Pool) Put(a *Arena) {
	a.Clear()
	p.mu.Lock()
	defer p.mu.Unlock()
	p.free = append(p.free, a)
}

// Idle returns the number of arenas waiting in the pool.
func (p *Pool) Idle() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free)
}

// Destroy destroys every idle arena. Arenas currently handed out are not
// affected.
func (p *Pool) Destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, a := range p.free {
		a.Destroy()
	}
	p.free = nil
}
