package progress

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// MsgTypeProgress is the type of every message sent by the hub
const MsgTypeProgress = "progress"

const writeWait = 5 * time.Second

// Message is pushed to subscribers of an upload
type Message struct {
	Type     string    `json:"type"`
	UploadID string    `json:"upload_id"`
	Stage    string    `json:"stage"`
	At       time.Time `json:"at"`
}

// WSConn is the subset of *websocket.Conn used by the hub
type WSConn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

type subscriber struct {
	conn WSConn
	mu   sync.Mutex
}

func (s *subscriber) write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub fans out pipeline progress to websocket subscribers keyed by upload id
type Hub struct {
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu          sync.RWMutex
	subscribers map[string]map[*subscriber]struct{}
}

// NewHub creates an empty hub
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger:      logger,
		subscribers: make(map[string]map[*subscriber]struct{}),
	}
}

// @Summary      Upload progress stream
// @Description  WebSocket that pushes pipeline stages for uploads sent with the same upload_id
// @Tags         narration
// @Param        upload_id  query  string  true  "Client chosen upload id"
// @Success      101  {object}  Message
// @Failure      400  {string}  string  "upload_id is required"
// @Router       /api/ws/progress [get]
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	uploadID := r.URL.Query().Get("upload_id")
	if uploadID == "" {
		http.Error(w, "upload_id is required", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	h.handleConnection(conn, uploadID)
}

func (h *Hub) handleConnection(conn WSConn, uploadID string) {
	sub := &subscriber{conn: conn}
	h.add(uploadID, sub)

	go func() {
		defer func() {
			h.remove(uploadID, sub)
			conn.Close()
		}()
		// Drain client frames until the peer goes away
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.logger.Debug("websocket closed", "upload_id", uploadID, "error", err)
				}
				return
			}
		}
	}()
}

// Publish sends a stage change to everyone subscribed to uploadID
func (h *Hub) Publish(uploadID, stage string) {
	data, err := json.Marshal(Message{
		Type:     MsgTypeProgress,
		UploadID: uploadID,
		Stage:    stage,
		At:       time.Now().UTC(),
	})
	if err != nil {
		h.logger.Error("failed to marshal progress", "error", err)
		return
	}

	h.mu.RLock()
	subs := make([]*subscriber, 0, len(h.subscribers[uploadID]))
	for s := range h.subscribers[uploadID] {
		subs = append(subs, s)
	}
	h.mu.RUnlock()

	for _, s := range subs {
		if err := s.write(data); err != nil {
			h.logger.Warn("failed to send progress", "upload_id", uploadID, "error", err)
		}
	}
}

// Subscribers returns the number of open subscriptions for uploadID
func (h *Hub) Subscribers(uploadID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[uploadID])
}

func (h *Hub) add(uploadID string, s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subscribers[uploadID] == nil {
		h.subscribers[uploadID] = make(map[*subscriber]struct{})
	}
	h.subscribers[uploadID][s] = struct{}{}
}

func (h *Hub) remove(uploadID string, s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subscribers[uploadID], s)
	if len(h.subscribers[uploadID]) == 0 {
		delete(h.subscribers, uploadID)
	}
}
