package repertoire

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"chess_repertoire/internal/domain/repertoire"
	"chess_repertoire/internal/httpresponse"
	repertoireUC "chess_repertoire/internal/usecase/repertoire"
	"chess_repertoire/internal/usecase/linetree"
	"chess_repertoire/internal/utils"
)

type RepertoireHandler struct {
	log          *zap.SugaredLogger
	repertoireUC *repertoireUC.RepertoireUseCase
}

type TreeResponse struct {
	Root  repertoire.LineView `json:"root"`
	Stats linetree.Stats      `json:"stats"`
}

type PGNResponse struct {
	PGN string `json:"pgn"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func NewRepertoireHandler(log *zap.SugaredLogger, uc *repertoireUC.RepertoireUseCase) *RepertoireHandler {
	return &RepertoireHandler{
		log:          log,
		repertoireUC: uc,
	}
}

func (h *RepertoireHandler) Routes(r chi.Router) {
	r.Get("/repertoires", h.HandleList)
	r.Post("/repertoires", h.HandleCreate)
	r.Route("/repertoires/{id}", func(r chi.Router) {
		r.Delete("/", h.HandleDelete)
		r.Get("/tree", h.HandleTree)
		r.Post("/moves", h.HandleAddMove)
		r.Delete("/moves", h.HandleDeleteMove)
		r.Get("/locate", h.HandleLocate)
		r.Get("/training", h.HandleTraining)
		r.Get("/pgn", h.HandlePGN)
		r.Get("/pdf", h.HandlePDF)
		r.Get("/cursor", h.HandleCursor)
	})
}

func newTreeResponse(tree *linetree.Tree) TreeResponse {
	return TreeResponse{
		Root:  repertoire.NewLineView(tree.Root, true),
		Stats: tree.Stats(),
	}
}

func (h *RepertoireHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.repertoireUC.ListRepertoires(r.Context())
	if err != nil {
		h.log.Error(err)
		httpresponse.WriteError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, list)
}

// HandleCreate godoc
// @Summary Create a repertoire
// @Tags repertoire
// @Accept json
// @Produce json
// @Param request body repertoire.CreateRepertoireRequest true "name, color and starting position"
// @Success 200 {object} repertoire.Repertoire
// @Failure 400 {object} httpresponse.ErrorResponse
// @Router /repertoires [post]
func (h *RepertoireHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req repertoire.CreateRepertoireRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		h.log.Error("HandleCreate: ", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest,
			httpresponse.ErrorResponse{ErrorDescription: httpresponse.MALFORMEDJSON_errorDesc})
		return
	}

	rep, err := h.repertoireUC.CreateRepertoire(r.Context(), req)
	if err != nil {
		h.log.Error("HandleCreate: ", err)
		httpresponse.WriteError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, rep)
}

func (h *RepertoireHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.repertoireUC.DeleteRepertoire(r.Context(), id); err != nil {
		h.log.Error("HandleDelete: ", err)
		httpresponse.WriteError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, nil)
}

// HandleTree godoc
// @Summary Compiled line tree of a repertoire
// @Tags repertoire
// @Produce json
// @Param id path string true "repertoire id"
// @Success 200 {object} TreeResponse
// @Failure 404 {object} httpresponse.ErrorResponse
// @Router /repertoires/{id}/tree [get]
func (h *RepertoireHandler) HandleTree(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	tree, err := h.repertoireUC.GetTree(r.Context(), id)
	if err != nil {
		h.log.Error("HandleTree: ", err)
		httpresponse.WriteError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, newTreeResponse(tree))
}

func (h *RepertoireHandler) HandleAddMove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req repertoire.AddMoveRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		h.log.Error("HandleAddMove: ", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest,
			httpresponse.ErrorResponse{ErrorDescription: httpresponse.MALFORMEDJSON_errorDesc})
		return
	}

	tree, err := h.repertoireUC.AddMove(r.Context(), id, req)
	if err != nil {
		h.log.Error("HandleAddMove: ", err)
		httpresponse.WriteError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, newTreeResponse(tree))
}

func (h *RepertoireHandler) HandleDeleteMove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req repertoire.DeleteMoveRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		h.log.Error("HandleDeleteMove: ", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest,
			httpresponse.ErrorResponse{ErrorDescription: httpresponse.MALFORMEDJSON_errorDesc})
		return
	}

	tree, err := h.repertoireUC.DeleteMove(r.Context(), id, req)
	if err != nil {
		h.log.Error("HandleDeleteMove: ", err)
		httpresponse.WriteError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, newTreeResponse(tree))
}

func (h *RepertoireHandler) HandleLocate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	notation := r.URL.Query().Get("notation")
	key := r.URL.Query().Get("key")
	if key == "" {
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest,
			httpresponse.ErrorResponse{ErrorDescription: "query parameter key is required"})
		return
	}

	view, err := h.repertoireUC.Locate(r.Context(), id, notation, key)
	if err != nil {
		h.log.Debugf("HandleLocate: %v", err)
		httpresponse.WriteError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, view)
}

func (h *RepertoireHandler) HandleTraining(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	pageNum := 1
	if page := r.URL.Query().Get("page"); page != "" {
		var err error
		if pageNum, err = strconv.Atoi(page); err != nil {
			h.log.Error("HandleTraining: ", err)
			httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest,
				httpresponse.ErrorResponse{ErrorDescription: "page must be a number"})
			return
		}
	}

	page, err := h.repertoireUC.TrainingPage(r.Context(), id, pageNum)
	if err != nil {
		h.log.Error("HandleTraining: ", err)
		httpresponse.WriteError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, page)
}

func (h *RepertoireHandler) HandlePGN(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	pgn, err := h.repertoireUC.ExportPGN(r.Context(), id)
	if err != nil {
		h.log.Error("HandlePGN: ", err)
		httpresponse.WriteError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, PGNResponse{PGN: pgn})
}

func (h *RepertoireHandler) HandlePDF(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.repertoireUC.GetTree(r.Context(), id); err != nil {
		h.log.Error("HandlePDF: ", err)
		httpresponse.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"repertoire.pdf\"")
	if err := h.repertoireUC.ExportPDF(r.Context(), id, w); err != nil {
		h.log.Error("HandlePDF: ", err)
	}
}
