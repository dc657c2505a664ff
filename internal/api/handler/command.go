package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gsearch/gateway/internal/api/response"
	"github.com/gsearch/gateway/internal/domain"
	"github.com/gsearch/gateway/internal/gateway"
	"github.com/gsearch/gateway/internal/upstream"
)

// CommandHandler exposes the slash-command surface.
type CommandHandler struct {
	dispatcher *gateway.Dispatcher
}

// NewCommandHandler creates a new command handler
func NewCommandHandler(dispatcher *gateway.Dispatcher) *CommandHandler {
	return &CommandHandler{dispatcher: dispatcher}
}

// Cmd validates the command envelope and dispatches it. Rejections come
// back as distinct statuses so the console can render them helpfully:
// unknown commands are a normal 200 message, not a failure.
func (h *CommandHandler) Cmd(w http.ResponseWriter, r *http.Request) {
	var cmd domain.UserCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		response.Cmd(w, http.StatusBadRequest, domain.CmdResponse{Error: "invalid request body"})
		return
	}

	if err := validate.Struct(cmd); err != nil {
		response.Cmd(w, http.StatusBadRequest, domain.CmdResponse{Error: err.Error()})
		return
	}

	resp, err := h.dispatcher.Dispatch(r.Context(), cmd)
	switch {
	case err == nil:
		response.Cmd(w, http.StatusOK, resp)
	case errors.Is(err, gateway.ErrUnknownCommand):
		response.Cmd(w, http.StatusOK, domain.CmdResponse{
			Data:     fmt.Sprintf("Unknown command `%s`", cmd.Cmd),
			Markdown: true,
		})
	case errors.Is(err, gateway.ErrInvalidArgument):
		response.Cmd(w, http.StatusBadRequest, domain.CmdResponse{Error: err.Error()})
	case errors.Is(err, gateway.ErrNotImplemented):
		response.Cmd(w, http.StatusNotImplemented, domain.CmdResponse{Error: err.Error()})
	case errors.Is(err, upstream.ErrUnavailable):
		response.Cmd(w, http.StatusServiceUnavailable, domain.CmdResponse{Error: "service unavailable"})
	default:
		response.Cmd(w, http.StatusInternalServerError, domain.CmdResponse{Error: err.Error()})
	}
}
