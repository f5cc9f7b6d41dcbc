package stub

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (h *Handler) imageRoutes(r chi.Router) {
	r.Get("/", h.issueUploadURL)
	r.Put("/upload/{fileName}", h.uploadImage)
	r.Get("/upload/{fileName}", h.serveImage)
}

// issueUploadURL hands out a plain-text upload URL for the file name. The
// token query parameter stands in for the real store's signed URL; the
// asset URL is everything before the query string.
func (h *Handler) issueUploadURL(w http.ResponseWriter, r *http.Request) {
	fileName := r.URL.Query().Get("fileName")
	if fileName == "" {
		respondError(w, http.StatusBadRequest, "missing fileName")
		return
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}

	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintf(w, "%s://%s/img/upload/%s?token=%s", scheme, r.Host, fileName, uuid.NewString())
}

func (h *Handler) uploadImage(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.store.PutImage(urlParam(r, "fileName"), data)

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) serveImage(w http.ResponseWriter, r *http.Request) {
	data, ok := h.store.GetImage(urlParam(r, "fileName"))
	if !ok {
		respondError(w, http.StatusNotFound, "image not found")
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(data))
	_, _ = w.Write(data)
}
