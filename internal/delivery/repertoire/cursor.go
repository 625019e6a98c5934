package repertoire

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"chess_repertoire/internal/domain/repertoire"
	"chess_repertoire/internal/httpresponse"
)

type CursorResponse struct {
	Location *repertoire.LocationView `json:"location,omitempty"`
	Error    string                   `json:"error,omitempty"`
}

// HandleCursor follows the board of a client: every {notation, position_key}
// message is answered with the line and move index it lands on. The tree is
// fetched per message, so edits made elsewhere show up immediately.
func (h *RepertoireHandler) HandleCursor(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.repertoireUC.GetTree(r.Context(), id); err != nil {
		h.log.Error("HandleCursor: ", err)
		httpresponse.WriteError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("upgrade error: ", err)
		return
	}
	defer conn.Close()

	for {
		var req repertoire.CursorRequest
		if err = conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Error("read error: ", err)
			}
			return
		}

		var resp CursorResponse
		view, err := h.repertoireUC.Locate(r.Context(), id, req.Notation, req.PositionKey)
		switch {
		case err == nil:
			resp.Location = &view
		case httpresponse.StatusFor(err) == http.StatusNotFound:
			resp.Error = err.Error()
		default:
			h.log.Error("cursor locate: ", err)
			resp.Error = "internal server error"
		}

		if err = conn.WriteJSON(resp); err != nil {
			h.log.Error("write error: ", err)
			return
		}
	}
}
