package model

import (
	"context"
	"sync"
)

// LoadFunc constructs a Handle, typically by reading artifacts from disk.
type LoadFunc func(ctx context.Context) (*Handle, error)

// Provider hands out a process-wide shared Handle, constructed lazily on
// first use. Construction runs at most once even under concurrent first
// access; a load failure is cached and returned to every caller.
type Provider struct {
	load   LoadFunc
	once   sync.Once
	handle *Handle
	err    error
}

func NewProvider(load LoadFunc) *Provider {
	return &Provider{load: load}
}

// Handle returns the shared handle, loading it on the first call.
func (p *Provider) Handle(ctx context.Context) (*Handle, error) {
	p.once.Do(func() {
		p.handle, p.err = p.load(ctx)
	})
	return p.handle, p.err
}
