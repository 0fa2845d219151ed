package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"docsync/internal/models"
)

func (h *Handler) RegisterDocuments(r chi.Router) {
	r.Post("/", h.createDocument)
	r.Get("/", h.documentTree)
	r.Get("/root", h.rootDocuments)
	r.Get("/{id}", h.getDocument)
	r.Put("/{id}", h.updateDocument)
	r.Get("/{id}/versions", h.listVersions)
	r.Post("/{id}/versions", h.createVersion)
	r.Get("/{id}/versions/{version}", h.getVersion)
	r.Get("/{id}/children", h.children)
	r.Get("/{id}/parents", h.parents)
}

type createDocumentRequest struct {
	Document models.DocumentCreate         `json:"document"`
	Content  *models.DocumentContentCreate `json:"content,omitempty"`
}

func (h *Handler) createDocument(w http.ResponseWriter, r *http.Request) {
	var req createDocumentRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	doc, err := h.docs.CreateDocument(r.Context(), req.Document, req.Content)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// documentTree defaults is_deleted to false.
func (h *Handler) documentTree(w http.ResponseWriter, r *http.Request) {
	var filter models.DocumentFilter
	var err error
	if filter.IsDeleted, err = optionalBool(r, "is_deleted"); err != nil {
		h.writeError(w, r, err)
		return
	}
	if filter.IsAPIRef, err = optionalBool(r, "is_api_ref"); err != nil {
		h.writeError(w, r, err)
		return
	}
	if parent := r.URL.Query().Get("parent_id"); parent != "" {
		filter.ParentID = &parent
	}

	tree, err := h.docs.Tree(r.Context(), filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

func (h *Handler) rootDocuments(w http.ResponseWriter, r *http.Request) {
	isAPIRef, err := optionalBool(r, "is_api_ref")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	docs, err := h.docs.RootDocuments(r.Context(), isAPIRef)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (h *Handler) getDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := h.docs.GetDocument(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) updateDocument(w http.ResponseWriter, r *http.Request) {
	var update models.DocumentUpdate
	if err := decode(r, &update); err != nil {
		h.writeError(w, r, err)
		return
	}
	doc, err := h.docs.UpdateDocument(r.Context(), chi.URLParam(r, "id"), update)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) listVersions(w http.ResponseWriter, r *http.Request) {
	versions, err := h.docs.ListVersions(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, versions)
}

func (h *Handler) createVersion(w http.ResponseWriter, r *http.Request) {
	var body models.DocumentContentCreate
	if err := decode(r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	version, err := h.docs.CreateVersion(r.Context(), chi.URLParam(r, "id"), body)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, version)
}

func (h *Handler) getVersion(w http.ResponseWriter, r *http.Request) {
	version, err := h.docs.GetDocumentVersion(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "version"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, version)
}

func (h *Handler) children(w http.ResponseWriter, r *http.Request) {
	docs, err := h.docs.Children(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (h *Handler) parents(w http.ResponseWriter, r *http.Request) {
	docs, err := h.docs.Parents(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}
