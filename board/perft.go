package board

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Perft counts the leaf nodes of the legal move tree to the given depth.
func Perft(p Position, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	if depth == 1 {
		work := p.b
		return uint64(len(work.GenerateLegalMoves()))
	}
	var nodes uint64
	for _, m := range p.LegalMoves() {
		nodes += Perft(m.Result, depth-1)
	}
	return nodes
}

// PerftDivide returns the perft count below each root move, searching root
// moves concurrently.
func PerftDivide(ctx context.Context, p Position, depth int) (map[string]uint64, error) {
	out := make(map[string]uint64)
	if depth <= 0 {
		return out, nil
	}
	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	for _, m := range p.LegalMoves() {
		m := m
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			n := Perft(m.Result, depth-1)
			mu.Lock()
			out[m.String()] = n
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
