package server

import (
	"encoding/json"
	"time"

	"github.com/tablecraft/holdem/internal/game"
)

// MessageType identifies a WebSocket message.
type MessageType string

// Client → server message types.
const (
	MessageTypeAuth       MessageType = "auth"
	MessageTypeJoinTable  MessageType = "join_table"
	MessageTypeLeaveTable MessageType = "leave_table"
	MessageTypeListTables MessageType = "list_tables"
	MessageTypeAction     MessageType = "action"
)

// Server → client message types.
const (
	MessageTypeAuthResponse MessageType = "auth_response"
	MessageTypeTableJoined  MessageType = "table_joined"
	MessageTypeTableLeft    MessageType = "table_left"
	MessageTypeTableList    MessageType = "table_list"
	MessageTypeState        MessageType = "state"
	MessageTypeError        MessageType = "error"
)

func (mt MessageType) String() string {
	return string(mt)
}

// Message is the envelope every WebSocket frame carries.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage wraps a payload in an envelope with the current timestamp.
func NewMessage(messageType MessageType, data any) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → server payloads.

type AuthData struct {
	PlayerName string `json:"playerName"`
	AvatarURL  string `json:"avatarUrl,omitempty"`
}

type JoinTableData struct {
	TableID string `json:"tableId"`
	BuyIn   int    `json:"buyIn"`
}

type LeaveTableData struct {
	TableID string `json:"tableId"`
}

type ActionData struct {
	TableID string `json:"tableId"`
	Action  string `json:"action"`
	Amount  int    `json:"amount,omitempty"`
}

// Server → client payloads. Table state itself travels as a per-player
// game.State view under MessageTypeState.

type AuthResponseData struct {
	Success  bool   `json:"success"`
	PlayerID string `json:"playerId"`
}

type TableJoinedData struct {
	TableID string `json:"tableId"`
}

type TableLeftData struct {
	TableID string `json:"tableId"`
}

type TableSummary struct {
	ID             string `json:"id"`
	Players        int    `json:"players"`
	MaxPlayers     int    `json:"maxPlayers"`
	SmallBlind     int    `json:"smallBlind"`
	BigBlind       int    `json:"bigBlind"`
	HandInProgress bool   `json:"handInProgress"`
	Stage          string `json:"stage"`
}

type TableListData struct {
	Tables []TableSummary `json:"tables"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// newStateMessage builds the per-player state update for one recipient.
func newStateMessage(s *game.State, playerID string) (*Message, error) {
	return NewMessage(MessageTypeState, game.PlayerView(s, playerID))
}
