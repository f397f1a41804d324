package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/achieveradarsh/hdnotebackend/internal/usecase"
	"github.com/achieveradarsh/hdnotebackend/pkg/middleware"
	"github.com/achieveradarsh/hdnotebackend/pkg/response"
	xerrors "github.com/achieveradarsh/hdnotebackend/pkg/xerrors"
)

type NoteHandler struct {
	uc     *usecase.NoteUsecase
	logger *zap.Logger
}

func NewNoteHandler(uc *usecase.NoteUsecase, logger *zap.Logger) *NoteHandler {
	return &NoteHandler{uc: uc, logger: logger}
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextUserID).(string)
	if !ok || userID == "" {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req NoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	note, err := h.uc.CreateNote(r.Context(), userID, req.Title, req.Description)
	if err != nil {
		h.writeNoteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]interface{}{"note": note})
}

func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextUserID).(string)
	if !ok || userID == "" {
		response.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	notes, err := h.uc.ListNotes(r.Context(), userID)
	if err != nil {
		h.writeNoteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]interface{}{"notes": notes})
}

func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(middleware.ContextUserID).(string)
	noteID := chi.URLParam(r, "id")

	note, err := h.uc.GetNote(r.Context(), noteID, userID)
	if err != nil {
		h.writeNoteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]interface{}{"note": note})
}

func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(middleware.ContextUserID).(string)
	noteID := chi.URLParam(r, "id")

	var req NoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	note, err := h.uc.UpdateNote(r.Context(), noteID, userID, req.Title, req.Description)
	if err != nil {
		h.writeNoteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]interface{}{"note": note})
}

func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(middleware.ContextUserID).(string)
	noteID := chi.URLParam(r, "id")

	if err := h.uc.DeleteNote(r.Context(), noteID, userID); err != nil {
		h.writeNoteError(w, err)
		return
	}
	response.Message(w, http.StatusOK, "Note deleted")
}

func (h *NoteHandler) writeNoteError(w http.ResponseWriter, err error) {
	if errors.Is(err, xerrors.ErrNoteNotFound) {
		response.Error(w, http.StatusNotFound, "Note not found")
		return
	}
	h.logger.Error("note request failed", zap.Error(err))
	response.Error(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
}
