package stub

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/d10sys/d10admin/internal/client"
)

func (h *Handler) clientRoutes(r chi.Router) {
	r.Post("/", h.createClient)
	r.Get("/search", h.searchClients)
	r.Get("/{id}", h.getClient)
	r.Put("/{id}", h.updateClient)
	r.Delete("/{id}", h.deleteClient)
}

func (h *Handler) createClient(w http.ResponseWriter, r *http.Request) {
	var params client.CreateParams
	if !decodeBody(w, r, &params) {
		return
	}

	c, err := h.store.CreateClient(params)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, c)
}

func (h *Handler) searchClients(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.SearchClients(r.URL.Query().Get("q")))
}

func (h *Handler) getClient(w http.ResponseWriter, r *http.Request) {
	c, ok := h.store.GetClient(urlParam(r, "id"))
	if !ok {
		respondError(w, http.StatusNotFound, "cliente no encontrado")
		return
	}

	respondJSON(w, http.StatusOK, c)
}

func (h *Handler) updateClient(w http.ResponseWriter, r *http.Request) {
	var params client.CreateParams
	if !decodeBody(w, r, &params) {
		return
	}

	if err := h.store.UpdateClient(urlParam(r, "id"), params); err != nil {
		respondStoreError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteClient(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteClient(urlParam(r, "id")); err != nil {
		respondStoreError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
