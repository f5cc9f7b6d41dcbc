package stub

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/d10sys/d10admin/internal/product"
)

func (h *Handler) productRoutes(r chi.Router) {
	r.Post("/", h.createProduct)
	r.Get("/", h.listProducts)
	r.Get("/{id}", h.getProduct)
	r.Put("/{id}", h.updateProduct)
	r.Patch("/{id}", h.patchProductDiscontinued)
	r.Patch("/{id}/stock", h.patchProductStock)
	r.Delete("/{id}", h.deleteProduct)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var params product.CreateParams
	if !decodeBody(w, r, &params) {
		return
	}

	respondJSON(w, http.StatusCreated, h.store.CreateProduct(params))
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))

	items, totalPages := h.store.ListProducts(query, page, size)

	respondJSON(w, http.StatusOK, pageOf(items, page, size, totalPages))
}

// pageEnvelope mirrors the backend's pagination shape.
type pageEnvelope[T any] struct {
	Content       []T  `json:"content"`
	Number        int  `json:"number"`
	TotalPages    int  `json:"totalPages"`
	TotalElements int  `json:"totalElements"`
	Size          int  `json:"size"`
	First         bool `json:"first"`
	Last          bool `json:"last"`
	Empty         bool `json:"empty"`
}

func pageOf[T any](items []T, page, size, totalPages int) pageEnvelope[T] {
	return pageEnvelope[T]{
		Content:       items,
		Number:        page,
		TotalPages:    totalPages,
		TotalElements: len(items),
		Size:          size,
		First:         page == 0,
		Last:          page >= totalPages-1,
		Empty:         len(items) == 0,
	}
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, ok := h.store.GetProduct(urlParam(r, "id"))
	if !ok {
		respondError(w, http.StatusNotFound, "producto no encontrado")
		return
	}

	respondJSON(w, http.StatusOK, p)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var params product.CreateParams
	if !decodeBody(w, r, &params) {
		return
	}

	if err := h.store.UpdateProduct(urlParam(r, "id"), params); err != nil {
		respondStoreError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) patchProductDiscontinued(w http.ResponseWriter, r *http.Request) {
	discontinued, err := strconv.ParseBool(r.URL.Query().Get("discontinued"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid discontinued flag")
		return
	}

	if err := h.store.SetProductDiscontinued(urlParam(r, "id"), discontinued); err != nil {
		respondStoreError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) patchProductStock(w http.ResponseWriter, r *http.Request) {
	var movement product.StockMovement
	if !decodeBody(w, r, &movement) {
		return
	}

	if movement.Quantity <= 0 {
		respondError(w, http.StatusBadRequest, "la cantidad debe ser mayor a 0")
		return
	}

	if err := h.store.ApplyStockMovement(urlParam(r, "id"), movement); err != nil {
		respondStoreError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteProduct(urlParam(r, "id")); err != nil {
		respondStoreError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
