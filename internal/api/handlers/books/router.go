package books

import "net/http"

// Register mounts the book routes on mux. admin wraps every mutating route;
// generator additionally wraps the routes that call the image model.
func Register(mux *http.ServeMux, h *Handler, admin, generator func(http.Handler) http.Handler) {
	mux.HandleFunc("GET /api/books", h.List)
	mux.HandleFunc("GET /api/books/{id}", h.Get)
	mux.HandleFunc("GET /api/stats", h.Stats)

	mux.Handle("POST /api/books", admin(http.HandlerFunc(h.Create)))
	mux.Handle("POST /api/books/import", admin(http.HandlerFunc(h.Import)))
	mux.Handle("PUT /api/books/{id}", admin(http.HandlerFunc(h.Put)))
	mux.Handle("PATCH /api/books/{id}/status", admin(http.HandlerFunc(h.SetStatus)))
	mux.Handle("DELETE /api/books/{id}", admin(http.HandlerFunc(h.Delete)))
	mux.Handle("POST /api/books/{id}/cover", admin(generator(http.HandlerFunc(h.GenerateCover))))
}
