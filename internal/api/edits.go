package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"docsync/internal/models"
)

func (h *Handler) RegisterEdits(r chi.Router) {
	r.Post("/", h.editDocumentation)
	r.Post("/update", h.updateDocumentation)
	r.Post("/inline", h.inlineEdit)
	r.Get("/ws", h.streamEdits)
}

func (h *Handler) editDocumentation(w http.ResponseWriter, r *http.Request) {
	var req models.EditDocumentationRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	res, err := h.edits.EditDocumentation(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) updateDocumentation(w http.ResponseWriter, r *http.Request) {
	var req models.ChangeRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	res, err := h.edits.UpdateDocumentation(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) inlineEdit(w http.ResponseWriter, r *http.Request) {
	var req models.InlineEditRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	res, err := h.edits.InlineEdit(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
