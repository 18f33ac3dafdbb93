package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/5w1tchy/earthy-reads/internal/api/httpx"
	"github.com/redis/go-redis/v9"
)

type Health struct {
	Status string `json:"status"`
	Redis  string `json:"redis"`
}

// Healthz always answers 200 while the process serves traffic. Redis is
// reported but optional.
func Healthz(rdb *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := Health{Status: "ok", Redis: "disabled"}
		if rdb != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
			defer cancel()
			if err := rdb.Ping(ctx).Err(); err != nil {
				h.Redis = "down"
			} else {
				h.Redis = "ok"
			}
		}
		httpx.WriteJSON(w, http.StatusOK, h)
	}
}

// RootHandler answers unknown paths with a JSON 404 instead of the mux's
// plain-text one.
func RootHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/" {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"name": "earthy-reads", "status": "ok"})
		return
	}
	httpx.Error(w, http.StatusNotFound, "not found")
}
