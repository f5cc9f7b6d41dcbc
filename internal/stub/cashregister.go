package stub

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/d10sys/d10admin/internal/cashregister"
)

func (h *Handler) cashRegisterRoutes(r chi.Router) {
	r.Get("/", h.currentAmount)
	r.Get("/transactions", h.listTransactions)
	r.Post("/transactions", h.createTransaction)
	r.Put("/transactions/{id}", h.updateTransaction)
	r.Delete("/transactions/{id}", h.deleteTransaction)
}

func (h *Handler) currentAmount(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]float64{
		"currentAmount": h.store.CurrentAmount(),
	})
}

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date != "" {
		if _, err := time.Parse(time.DateOnly, date); err != nil {
			respondError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
	}

	respondJSON(w, http.StatusOK, h.store.Transactions(date))
}

func (h *Handler) createTransaction(w http.ResponseWriter, r *http.Request) {
	var params cashregister.CreateTransactionParams
	if !decodeBody(w, r, &params) {
		return
	}

	if params.Amount <= 0 {
		respondError(w, http.StatusBadRequest, "el monto debe ser mayor a 0")
		return
	}

	respondJSON(w, http.StatusCreated, h.store.CreateTransaction(params))
}

func (h *Handler) updateTransaction(w http.ResponseWriter, r *http.Request) {
	var params cashregister.CreateTransactionParams
	if !decodeBody(w, r, &params) {
		return
	}

	if params.Amount <= 0 {
		respondError(w, http.StatusBadRequest, "el monto debe ser mayor a 0")
		return
	}

	if err := h.store.UpdateTransaction(urlParam(r, "id"), params); err != nil {
		respondStoreError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteTransaction(urlParam(r, "id")); err != nil {
		respondStoreError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
