package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/tablecraft/holdem/internal/game"
	"github.com/tablecraft/holdem/internal/table"
)

// ErrTableNotFound is returned for operations against an unknown table.
var ErrTableNotFound = fmt.Errorf("table not found")

// GameService owns the table runners and mediates between connections and
// the game state machines. Every state change a runner commits is fanned out
// to that table's connections as per-player views.
type GameService struct {
	server *Server
	logger *log.Logger
	clock  quartz.Clock

	mu     sync.RWMutex
	tables map[string]*table.Runner
}

// NewGameService creates a game service with one runner per configured
// table. Runners do not process requests until Start is called.
func NewGameService(server *Server, logger *log.Logger, clock quartz.Clock, configs []TableConfig) *GameService {
	gs := &GameService{
		server: server,
		logger: logger.WithPrefix("game"),
		clock:  clock,
		tables: make(map[string]*table.Runner),
	}

	for _, tc := range configs {
		tableID := tc.Name
		settings := game.TableSettings{
			MaxPlayers:    tc.MaxPlayers,
			SmallBlind:    tc.SmallBlind,
			BigBlind:      tc.BigBlind,
			MinBuyIn:      tc.BuyInMin,
			MaxBuyIn:      tc.BuyInMax,
			ActionTimeout: tc.ActionTimeout,
		}
		gs.tables[tableID] = table.NewRunner(tableID, settings, table.Options{
			Clock:    clock,
			Logger:   logger,
			AutoDeal: tc.AutoDeal,
			OnUpdate: func(s *game.State) {
				gs.server.BroadcastState(tableID, s)
			},
		})
	}

	return gs
}

// Start runs every table until the context is cancelled.
func (gs *GameService) Start(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	gs.mu.RLock()
	for _, r := range gs.tables {
		g.Go(func() error { return r.Run(ctx) })
	}
	gs.mu.RUnlock()

	return g.Wait()
}

// Table returns the runner for a table ID, or nil.
func (gs *GameService) Table(tableID string) *table.Runner {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	return gs.tables[tableID]
}

// JoinTable seats a player at the given table.
func (gs *GameService) JoinTable(ctx context.Context, tableID, playerID, avatarURL string, buyIn int) error {
	r := gs.Table(tableID)
	if r == nil {
		return ErrTableNotFound
	}
	return r.Join(ctx, playerID, playerID, avatarURL, buyIn)
}

// LeaveTable removes a player from the given table.
func (gs *GameService) LeaveTable(ctx context.Context, tableID, playerID string) error {
	r := gs.Table(tableID)
	if r == nil {
		return ErrTableNotFound
	}
	return r.Leave(ctx, playerID)
}

// HandleAction applies a player's action to their table.
func (gs *GameService) HandleAction(ctx context.Context, tableID, playerID, actionName string, amount int) error {
	r := gs.Table(tableID)
	if r == nil {
		return ErrTableNotFound
	}
	action, err := game.ParseAction(actionName)
	if err != nil {
		return err
	}
	return r.Act(ctx, playerID, action, amount)
}

// View returns one player's view of a table.
func (gs *GameService) View(ctx context.Context, tableID, playerID string) (*game.State, error) {
	r := gs.Table(tableID)
	if r == nil {
		return nil, ErrTableNotFound
	}
	return r.View(ctx, playerID)
}

// ListTables summarizes every table for the lobby.
func (gs *GameService) ListTables(ctx context.Context) []TableSummary {
	gs.mu.RLock()
	runners := make([]*table.Runner, 0, len(gs.tables))
	for _, r := range gs.tables {
		runners = append(runners, r)
	}
	gs.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	summaries := make([]TableSummary, 0, len(runners))
	for _, r := range runners {
		s, err := r.State(ctx)
		if err != nil {
			gs.logger.Error("table snapshot failed", "table", r.ID(), "err", err)
			continue
		}
		summaries = append(summaries, TableSummary{
			ID:             s.TableID,
			Players:        len(s.Players),
			MaxPlayers:     s.Settings.MaxPlayers,
			SmallBlind:     s.Settings.SmallBlind,
			BigBlind:       s.Settings.BigBlind,
			HandInProgress: s.HandInProgress(),
			Stage:          s.Stage.String(),
		})
	}
	return summaries
}
