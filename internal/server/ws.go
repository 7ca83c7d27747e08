package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/doc-chat/internal/chat"
	"github.com/ziadkadry99/doc-chat/internal/errdefs"
	"github.com/ziadkadry99/doc-chat/internal/session"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// chatRequest is the incoming WebSocket message format.
type chatRequest struct {
	Type    string `json:"type"` // "ask" or "retry"
	Content string `json:"content"`
}

// chatFrame is the outgoing WebSocket message format. A turn is a series of
// "delta" frames closed by one "done" frame, or a single "error" frame.
type chatFrame struct {
	Type    string           `json:"type"` // "delta", "done", or "error"
	Content string           `json:"content,omitempty"`
	Sources []session.Source `json:"sources,omitempty"`
	Kind    string           `json:"kind,omitempty"`
}

func (s *Server) handleChatSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade")
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn().Err(err).Msg("websocket read")
			}
			return
		}

		var req chatRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			s.sendFrame(conn, chatFrame{Type: "error", Content: "invalid message format"})
			continue
		}

		switch req.Type {
		case "ask":
			if req.Content == "" {
				s.sendFrame(conn, chatFrame{Type: "error", Content: "content is required"})
				continue
			}
			s.streamAnswer(conn, r, func(onDelta func(string) error) (*chat.Answer, error) {
				return s.engine.Ask(r.Context(), req.Content, onDelta)
			})
		case "retry":
			s.streamAnswer(conn, r, func(onDelta func(string) error) (*chat.Answer, error) {
				return s.engine.Retry(r.Context(), onDelta)
			})
		default:
			s.sendFrame(conn, chatFrame{Type: "error", Content: "unknown message type: " + req.Type})
		}
	}
}

func (s *Server) streamAnswer(conn *websocket.Conn, r *http.Request, run func(onDelta func(string) error) (*chat.Answer, error)) {
	answer, err := run(func(delta string) error {
		return conn.WriteJSON(chatFrame{Type: "delta", Content: delta})
	})
	if err != nil {
		s.sendFrame(conn, chatFrame{Type: "error", Content: err.Error(), Kind: errorKind(err)})
		return
	}
	s.sendFrame(conn, chatFrame{Type: "done", Content: answer.Text, Sources: answer.Sources})
}

func (s *Server) sendFrame(conn *websocket.Conn, frame chatFrame) {
	if err := conn.WriteJSON(frame); err != nil {
		s.log.Warn().Err(err).Msg("websocket write")
	}
}

// errorKind names the taxonomy kind of an error for clients.
func errorKind(err error) string {
	switch {
	case errors.Is(err, chat.ErrNoDocument):
		return "no_document"
	case errors.Is(err, errdefs.ErrQuotaExceeded):
		return "quota_exceeded"
	case errors.Is(err, errdefs.ErrAuthFailed):
		return "auth_failed"
	case errors.Is(err, errdefs.ErrNetwork):
		return "network"
	case errors.Is(err, errdefs.ErrGenerationFailed):
		return "generation_failed"
	default:
		return "error"
	}
}
