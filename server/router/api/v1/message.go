package v1

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/hrygo/thinktank/server/service/chat"
	"github.com/hrygo/thinktank/store"
)

// MessageRequest is the body of a batch or streaming turn.
type MessageRequest struct {
	ThreadID     string   `json:"threadId"`
	Text         string   `json:"text"`
	Participants []string `json:"participants"`
	Mode         string   `json:"mode"`
	Debate       *bool    `json:"debate"`
}

// MessageResponse is the batch turn response.
type MessageResponse struct {
	OK      bool            `json:"ok"`
	Replies []store.Message `json:"replies"`
}

func (r *MessageRequest) turn() chat.Turn {
	return chat.Turn{
		ThreadID:     r.ThreadID,
		Text:         r.Text,
		Participants: r.Participants,
		Mode:         r.Mode,
		Debate:       r.Debate,
	}
}

// PostMessage runs one full turn and returns all produced replies at once.
func (s *APIV1Service) PostMessage(c echo.Context) error {
	var req MessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	replies, err := s.Coordinator.Respond(c.Request().Context(), req.turn())
	if err != nil {
		if errors.Is(err, chat.ErrTextRequired) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		s.Logger.Error("turn failed", slog.String("thread_id", req.ThreadID), slog.String("error", err.Error()))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to process message")
	}
	if replies == nil {
		replies = []store.Message{}
	}
	return c.JSON(http.StatusOK, MessageResponse{OK: true, Replies: replies})
}

// PostMessageStream runs one turn and streams each reply as an NDJSON line
// as soon as it resolves, followed by a debate batch (council mode) and a
// terminal done line.
func (s *APIV1Service) PostMessageStream(c echo.Context) error {
	var req MessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	// Validate before committing to a streaming response; headers cannot be
	// rewritten once the first line is out.
	if strings.TrimSpace(req.Text) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, chat.ErrTextRequired.Error())
	}

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "application/x-ndjson")
	resp.Header().Set("Cache-Control", "no-cache")
	resp.WriteHeader(http.StatusOK)

	enc := json.NewEncoder(resp)
	return s.Coordinator.RespondStream(c.Request().Context(), req.turn(), func(ev chat.Event) {
		// Emits are serialized upstream; encode and flush one line per event.
		if err := enc.Encode(ev); err != nil {
			s.Logger.Warn("failed to write stream event", slog.String("error", err.Error()))
			return
		}
		resp.Flush()
	})
}

// GetThread returns the full thread: participants, message log and docs.
func (s *APIV1Service) GetThread(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		id = "default"
	}
	thread, err := s.Store.GetThread(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load thread")
	}
	return c.JSON(http.StatusOK, thread)
}
