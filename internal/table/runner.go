// Package table owns the live game loop for one table. A Runner serializes
// every mutation of its game state through a single goroutine, so the state
// machine in internal/game never sees concurrent transitions. Turn timeouts
// and automatic dealing run on a quartz clock and feed synthesized actions
// through the same serialized path as player requests.
package table

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/tablecraft/holdem/internal/game"
)

const defaultDealDelay = 3 * time.Second

// Options configures a Runner. The zero value gets a real clock, the default
// logger and no update callback.
type Options struct {
	Clock     quartz.Clock
	Logger    *log.Logger
	OnUpdate  func(*game.State) // called after every committed transition
	AutoDeal  bool              // deal the next hand automatically
	DealDelay time.Duration     // pause between hands when auto-dealing
}

// Runner drives one table. All exported methods are safe for concurrent use;
// they block until the runner's goroutine has applied the request or the
// context is done.
type Runner struct {
	id        string
	state     *game.State
	requests  chan request
	done      chan struct{}
	clock     quartz.Clock
	logger    *log.Logger
	onUpdate  func(*game.State)
	autoDeal  bool
	dealDelay time.Duration

	// Owned by the Run goroutine.
	turnGen     int
	turnTimer   *quartz.Timer
	dealPending bool
}

type request struct {
	apply func() error
	reply chan error
}

// NewRunner creates a runner for a fresh table. Call Run to start it.
func NewRunner(tableID string, settings game.TableSettings, opts Options) *Runner {
	if opts.Clock == nil {
		opts.Clock = quartz.NewReal()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.DealDelay <= 0 {
		opts.DealDelay = defaultDealDelay
	}

	return &Runner{
		id:        tableID,
		state:     game.NewState(tableID, settings),
		requests:  make(chan request),
		done:      make(chan struct{}),
		clock:     opts.Clock,
		logger:    opts.Logger.WithPrefix("table").With("table", tableID),
		onUpdate:  opts.OnUpdate,
		autoDeal:  opts.AutoDeal,
		dealDelay: opts.DealDelay,
	}
}

// ID returns the table identifier.
func (r *Runner) ID() string {
	return r.id
}

// Run processes requests until the context is cancelled. It must be running
// for any other method to complete.
func (r *Runner) Run(ctx context.Context) error {
	defer close(r.done)
	defer func() {
		if r.turnTimer != nil {
			r.turnTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-r.requests:
			req.reply <- req.apply()
		}
	}
}

// do runs fn on the runner goroutine and returns its error.
func (r *Runner) do(ctx context.Context, fn func() error) error {
	req := request{apply: fn, reply: make(chan error, 1)}
	select {
	case r.requests <- req:
	case <-r.done:
		return context.Canceled
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-req.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// enqueue is do for timer callbacks: fire-and-forget, dropped once the
// runner has stopped.
func (r *Runner) enqueue(fn func() error) {
	req := request{apply: fn, reply: make(chan error, 1)}
	select {
	case r.requests <- req:
		<-req.reply
	case <-r.done:
	}
}

// Join seats a player.
func (r *Runner) Join(ctx context.Context, playerID, name, avatarURL string, buyIn int) error {
	return r.do(ctx, func() error {
		next, err := game.AddPlayer(r.state, playerID, name, avatarURL, buyIn)
		if err != nil {
			return err
		}
		r.logger.Info("player joined", "player", playerID, "buyIn", buyIn)
		r.commit(next)
		return nil
	})
}

// Leave unseats a player, folding their live hand if they hold one.
func (r *Runner) Leave(ctx context.Context, playerID string) error {
	return r.do(ctx, func() error {
		next, err := game.RemovePlayer(r.state, playerID)
		if err != nil {
			return err
		}
		r.logger.Info("player left", "player", playerID)
		r.commit(next)
		return nil
	})
}

// Act applies one player action.
func (r *Runner) Act(ctx context.Context, playerID string, action game.Action, amount int) error {
	return r.do(ctx, func() error {
		next, err := game.HandlePlayerAction(r.state, playerID, action, amount)
		if err != nil {
			return err
		}
		r.logger.Debug("action applied", "player", playerID, "action", action, "amount", amount)
		r.commit(next)
		return nil
	})
}

// Deal starts the next hand immediately.
func (r *Runner) Deal(ctx context.Context) error {
	return r.do(ctx, func() error {
		return r.deal()
	})
}

// State returns an independent snapshot of the full table state.
func (r *Runner) State(ctx context.Context) (*game.State, error) {
	var snapshot *game.State
	err := r.do(ctx, func() error {
		snapshot = r.state.Clone()
		return nil
	})
	return snapshot, err
}

// View returns the state as seen by one player, hole cards masked.
func (r *Runner) View(ctx context.Context, playerID string) (*game.State, error) {
	var view *game.State
	err := r.do(ctx, func() error {
		view = game.PlayerView(r.state, playerID)
		return nil
	})
	return view, err
}

func (r *Runner) deal() error {
	next, err := game.StartNewHand(r.state)
	if err != nil {
		return err
	}
	r.logger.Info("hand dealt", "dealer", next.DealerIndex, "players", len(next.Players), "seed", next.Seed)
	r.commit(next)
	return nil
}

// commit installs a new state, rearms the turn clock and schedules the next
// hand when the current one has finished. Runs on the runner goroutine.
func (r *Runner) commit(next *game.State) {
	r.state = next
	r.armTurnTimer()
	r.scheduleDeal()
	if r.onUpdate != nil {
		r.onUpdate(next)
	}
}

func (r *Runner) armTurnTimer() {
	r.turnGen++
	if r.turnTimer != nil {
		r.turnTimer.Stop()
		r.turnTimer = nil
	}

	s := r.state
	if !s.HandInProgress() || s.ActivePlayer < 0 || s.Settings.ActionTimeout <= 0 {
		return
	}

	gen := r.turnGen
	playerID := s.Players[s.ActivePlayer].ID
	timeout := time.Duration(s.Settings.ActionTimeout) * time.Second
	r.turnTimer = r.clock.AfterFunc(timeout, func() {
		r.enqueue(func() error {
			return r.timeoutTurn(gen, playerID)
		})
	})
}

// timeoutTurn synthesizes the idle player's action: check when free, fold
// when facing a bet. Stale timers (the turn already moved on) are dropped.
func (r *Runner) timeoutTurn(gen int, playerID string) error {
	if gen != r.turnGen {
		return nil
	}

	action := game.Fold
	if game.CanPlayerAct(r.state, playerID, game.Check) {
		action = game.Check
	}
	r.logger.Warn("action timeout", "player", playerID, "synthesized", action)

	next, err := game.HandlePlayerAction(r.state, playerID, action, 0)
	if err != nil {
		return err
	}
	r.commit(next)
	return nil
}

func (r *Runner) scheduleDeal() {
	if !r.autoDeal || r.dealPending || r.state.HandInProgress() {
		return
	}

	funded := 0
	for _, p := range r.state.Players {
		if p.Chips > 0 {
			funded++
		}
	}
	if funded < 2 {
		return
	}

	r.dealPending = true
	r.clock.AfterFunc(r.dealDelay, func() {
		r.enqueue(func() error {
			r.dealPending = false
			if r.state.HandInProgress() {
				return nil
			}
			if err := r.deal(); err != nil {
				r.logger.Debug("auto deal skipped", "err", err)
			}
			return nil
		})
	})
}
