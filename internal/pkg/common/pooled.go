package common

import (
	"sync"
)

// Pooled simple bytes pool interface
type Pooled interface {
	Get() []byte
	Put(b []byte)
	BlockSize() int
}

// syncPooled is default sync.Pool based implementation
type syncPooled struct {
	blockSize int
	pool      *sync.Pool
}

func NewDefaultPooled(blockSize int) Pooled {
	p := syncPooled{
		blockSize: blockSize,
	}

	p.pool = new(sync.Pool)

	return &p
}

func (p *syncPooled) BlockSize() int {
	return p.blockSize
}

// Get returns a block of exactly BlockSize bytes, reusing a pooled one when possible.
func (p *syncPooled) Get() []byte {
	v := p.pool.Get()
	if v != nil {
		b := v.([]byte)
		return b[:p.blockSize]
	}

	return make([]byte, p.blockSize)
}

// Put returns a block to the pool if it is large enough to be reused.
func (p *syncPooled) Put(b []byte) {
	if cap(b) < p.blockSize {
		return
	}

	p.pool.Put(b[:0])
}
