package evaluator

import (
	"context"
	"errors"
	mathrand "math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/tablecraft/holdem/internal/deck"
)

// Equity is a Monte Carlo estimate of how often a hand wins (or chops) at
// showdown against the given number of random opponents.
type Equity struct {
	Win     float64
	Tie     float64
	Samples int
}

// Share is the expected fraction of the pot, counting a chop as an even
// split.
func (e Equity) Share() float64 {
	return e.Win + e.Tie/2
}

var ErrInvalidDeal = errors.New("evaluator: invalid hole or community cards")

// EstimateEquity samples random opponent holdings and board run-outs to
// estimate the hero's showdown equity. Work is split across a bounded
// errgroup of workers, each with an independent RNG; the context cancels a
// long estimate early.
func EstimateEquity(ctx context.Context, hole, community []deck.Card, opponents, samples int) (Equity, error) {
	if len(hole) != 2 || len(community) > 5 {
		return Equity{}, ErrInvalidDeal
	}
	if opponents < 1 || samples < 1 {
		return Equity{}, ErrInvalidDeal
	}

	used := make(map[deck.Card]bool, len(hole)+len(community))
	for _, c := range hole {
		used[deck.Card{Suit: c.Suit, Rank: c.Rank}] = true
	}
	for _, c := range community {
		if used[deck.Card{Suit: c.Suit, Rank: c.Rank}] {
			return Equity{}, ErrInvalidDeal
		}
		used[deck.Card{Suit: c.Suit, Rank: c.Rank}] = true
	}
	if len(used) != len(hole)+len(community) {
		return Equity{}, ErrInvalidDeal
	}

	var available []deck.Card
	for _, c := range deck.New() {
		if !used[deck.Card{Suit: c.Suit, Rank: c.Rank}] {
			available = append(available, c)
		}
	}

	need := opponents*2 + (5 - len(community))
	if need > len(available) {
		return Equity{}, ErrInvalidDeal
	}

	workers := runtime.NumCPU()
	if workers > 8 {
		workers = 8
	}
	if workers > samples {
		workers = samples
	}

	type tally struct {
		wins, ties, samples int
	}
	results := make([]tally, workers)

	g, ctx := errgroup.WithContext(ctx)
	perWorker := samples / workers
	remainder := samples % workers

	for w := 0; w < workers; w++ {
		n := perWorker
		if w < remainder {
			n++
		}
		g.Go(func() error {
			rng := mathrand.New(mathrand.NewPCG(mathrand.Uint64(), mathrand.Uint64()))
			cards := append([]deck.Card(nil), available...)
			var local tally

			for i := 0; i < n; i++ {
				if i%256 == 0 {
					select {
					case <-ctx.Done():
						return ctx.Err()
					default:
					}
				}

				// Partial Fisher-Yates: only the cards this sample
				// consumes need shuffling.
				for j := 0; j < need; j++ {
					k := j + rng.IntN(len(cards)-j)
					cards[j], cards[k] = cards[k], cards[j]
				}

				board := append(append([]deck.Card(nil), community...), cards[:5-len(community)]...)
				hero, err := FindBestHand(hole, board)
				if err != nil {
					return err
				}

				best := hero.Value
				heroTied := false
				drawn := 5 - len(community)
				for o := 0; o < opponents; o++ {
					opp, err := FindBestHand(cards[drawn+o*2:drawn+o*2+2], board)
					if err != nil {
						return err
					}
					if opp.Value > best {
						best = opp.Value
					} else if opp.Value == hero.Value {
						heroTied = true
					}
				}

				local.samples++
				if hero.Value == best {
					if heroTied {
						local.ties++
					} else {
						local.wins++
					}
				}
			}
			results[w] = local
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Equity{}, err
	}

	var total tally
	for _, r := range results {
		total.wins += r.wins
		total.ties += r.ties
		total.samples += r.samples
	}
	if total.samples == 0 {
		return Equity{}, ErrInvalidDeal
	}
	return Equity{
		Win:     float64(total.wins) / float64(total.samples),
		Tie:     float64(total.ties) / float64(total.samples),
		Samples: total.samples,
	}, nil
}
