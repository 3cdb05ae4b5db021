// Package server exposes the hold'em tables over WebSocket: a connection
// hub, a JSON message protocol, and a game service bridging connections to
// the per-table runners.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/tablecraft/holdem/internal/game"
)

// Server accepts WebSocket clients and fans table state out to them.
type Server struct {
	addr        string
	upgrader    websocket.Upgrader
	connections map[*Connection]bool
	register    chan *Connection
	unregister  chan *Connection
	logger      *log.Logger
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
	gameService *GameService
}

// NewServer creates a WebSocket server bound to addr.
func NewServer(addr string, logger *log.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			// TODO: restrict origins once a web client ships from a fixed host.
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections: make(map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		logger:      logger.WithPrefix("server"),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// SetGameService wires in the game service. Must be called before Start.
func (s *Server) SetGameService(gameService *GameService) {
	s.gameService = gameService
}

// Start serves WebSocket and health endpoints. It blocks until the listener
// fails or Stop is called.
func (s *Server) Start() error {
	go s.run()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	s.logger.Info("listening", "addr", s.addr)
	return http.ListenAndServe(s.addr, mux)
}

// Stop closes every connection and stops the hub.
func (s *Server) Stop() error {
	s.cancel()

	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close()
	}
	s.mu.Unlock()

	return nil
}

func (s *Server) run() {
	for {
		select {
		case conn := <-s.register:
			s.mu.Lock()
			s.connections[conn] = true
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("client connected", "total", total)

		case conn := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.connections[conn]; ok {
				delete(s.connections, conn)

				// A player who dropped mid-hand is removed from their
				// table; the state machine folds them on the way out.
				playerID := conn.PlayerID()
				tableID := conn.TableID()
				if playerID != "" && tableID != "" && s.gameService != nil {
					s.logger.Info("removing disconnected player", "player", playerID, "table", tableID)
					_ = s.gameService.LeaveTable(s.ctx, tableID, playerID)
				}
				_ = conn.Close()
			}
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("client disconnected", "total", total)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "err", err)
		return
	}

	client := NewConnection(conn, s.logger, s.gameService)
	s.register <- client
	client.Start()

	go func() {
		<-client.ctx.Done()
		s.unregister <- client
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, "OK")
}

// BroadcastState sends each connection at the table its own masked view of
// the state. Called from runner goroutines on every committed transition.
func (s *Server) BroadcastState(tableID string, state *game.State) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for conn := range s.connections {
		if conn.TableID() != tableID {
			continue
		}
		msg, err := newStateMessage(state, conn.PlayerID())
		if err != nil {
			s.logger.Error("failed to build state message", "err", err)
			continue
		}
		if err := conn.SendMessage(msg); err == nil {
			count++
		}
	}

	s.logger.Debug("state broadcast", "table", tableID, "stage", state.Stage, "recipients", count)
}

// TablePlayers returns the players connected to a table.
func (s *Server) TablePlayers(tableID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var players []string
	for conn := range s.connections {
		if conn.TableID() == tableID && conn.PlayerID() != "" {
			players = append(players, conn.PlayerID())
		}
	}
	return players
}
