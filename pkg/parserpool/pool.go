// Package parserpool provides a pool of gnparser instances for concurrent
// parsing of species names.
// This is a pure package - parsing is computation, not I/O.
package parserpool

import (
	"context"
	"runtime"
	"sync"

	"github.com/gnames/gnlib/ent/nomcode"
	"github.com/gnames/gnparser"
	"github.com/gnames/gnparser/ent/parsed"
	"golang.org/x/sync/errgroup"
)

// Pool parses scientific names of fishes (zoological code).
type Pool interface {
	// Parse parses a scientific name string. It takes a parser from the
	// pool and returns it back after parsing. Safe for concurrent use.
	Parse(nameString string) parsed.Parsed

	// Canonical returns the simple canonical form of a name, or an empty
	// string if the name cannot be parsed.
	Canonical(nameString string) string

	// CanonicalAll returns canonical forms for a list of names, keyed by
	// the original name string. Names are parsed by concurrent workers.
	CanonicalAll(ctx context.Context, names []string) (map[string]string, error)

	// Close shuts down the pool. After calling Close, the pool should not
	// be used.
	Close()
}

type pool struct {
	ch       chan gnparser.GNparser
	poolSize int
}

// NewPool creates a new parser pool with the specified number of workers.
// If jobsNum is 0, it defaults to runtime.NumCPU().
func NewPool(jobsNum int) Pool {
	poolSize := jobsNum
	if poolSize <= 0 {
		poolSize = runtime.NumCPU()
	}

	cfg := gnparser.NewConfig(
		gnparser.OptCode(nomcode.Zoological),
	)
	return &pool{
		ch:       gnparser.NewPool(cfg, poolSize),
		poolSize: poolSize,
	}
}

func (p *pool) Parse(nameString string) parsed.Parsed {
	// blocks if all parsers are busy
	parser := <-p.ch
	res := parser.ParseName(nameString)
	p.ch <- parser
	return res
}

func (p *pool) Canonical(nameString string) string {
	res := p.Parse(nameString)
	if !res.Parsed || res.Canonical == nil {
		return ""
	}
	return res.Canonical.Simple
}

func (p *pool) CanonicalAll(
	ctx context.Context,
	names []string,
) (map[string]string, error) {
	chIn := make(chan string)
	res := make(map[string]string, len(names))
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(chIn)
		for _, n := range names {
			if err := gCtx.Err(); err != nil {
				return err
			}
			select {
			case <-gCtx.Done():
				return gCtx.Err()
			case chIn <- n:
			}
		}
		return nil
	})

	for range p.poolSize {
		g.Go(func() error {
			for n := range chIn {
				c := p.Canonical(n)
				mu.Lock()
				res[n] = c
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

func (p *pool) Close() {
	if p.ch == nil {
		return
	}
	close(p.ch)
	for range p.ch {
	}
	p.ch = nil
}
