package pool

import (
	"sync"

	"golang.org/x/text/transform"
)

// TransformerPool recycles text transformers. A transform chain keeps
// internal buffers, so one instance must never be used by two goroutines
// at once.
type TransformerPool struct {
	pool sync.Pool
}

// NewTransformerPool creates a pool that builds transformers with newFn.
func NewTransformerPool(newFn func() transform.Transformer) *TransformerPool {
	return &TransformerPool{
		pool: sync.Pool{
			New: func() interface{} {
				return newFn()
			},
		},
	}
}

// Get retrieves a transformer from the pool or creates a new one.
func (tp *TransformerPool) Get() transform.Transformer {
	return tp.pool.Get().(transform.Transformer)
}

// Put resets a transformer and returns it to the pool.
func (tp *TransformerPool) Put(t transform.Transformer) {
	t.Reset()
	tp.pool.Put(t)
}

// String runs s through a pooled transformer.
func (tp *TransformerPool) String(s string) string {
	t := tp.Get()
	defer tp.Put(t)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
