package stub

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/d10sys/d10admin/internal/invoice"
)

func (h *Handler) invoiceRoutes(r chi.Router) {
	r.Post("/", h.createInvoice)
	r.Get("/search", h.searchInvoices)
	r.Get("/{id}", h.getInvoice)
	r.Put("/{id}", h.updateInvoice)
	r.Patch("/{id}/status", h.patchInvoiceStatus)
	r.Delete("/{id}", h.deleteInvoice)
}

func (h *Handler) createInvoice(w http.ResponseWriter, r *http.Request) {
	var params invoice.CreateParams
	if !decodeBody(w, r, &params) {
		return
	}

	inv, err := h.store.CreateInvoice(params)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, inv)
}

func (h *Handler) searchInvoices(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.SearchInvoices(r.URL.Query().Get("q")))
}

func (h *Handler) getInvoice(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.store.GetInvoice(urlParam(r, "id"))
	if !ok {
		respondError(w, http.StatusNotFound, "factura no encontrada")
		return
	}

	respondJSON(w, http.StatusOK, inv)
}

func (h *Handler) updateInvoice(w http.ResponseWriter, r *http.Request) {
	var params invoice.CreateParams
	if !decodeBody(w, r, &params) {
		return
	}

	if err := h.store.UpdateInvoice(urlParam(r, "id"), params); err != nil {
		respondStoreError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) patchInvoiceStatus(w http.ResponseWriter, r *http.Request) {
	status := invoice.Status(r.URL.Query().Get("status"))
	if status == "" {
		respondError(w, http.StatusBadRequest, "missing status")
		return
	}

	if err := h.store.UpdateInvoiceStatus(urlParam(r, "id"), status); err != nil {
		respondStoreError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteInvoice(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteInvoice(urlParam(r, "id")); err != nil {
		respondStoreError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
