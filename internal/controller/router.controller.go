package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func (c controller) GetMux() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(c.requestIdMw)
	r.Use(c.requestLoggingMw)
	r.Use(cors.AllowAll().Handler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", c.register)
			r.Post("/login", c.login)
		})

		r.Route("/data", func(r chi.Router) {
			r.Use(c.authMw)
			r.Get("/all", c.getAllData)
			r.Post("/like", c.setLike)
			r.Route("/playlists", func(r chi.Router) {
				r.Post("/", c.createPlaylist)
				r.Post("/songs", c.addPlaylistSong)
			})
		})

		r.Get("/ws", c.session)
	})

	return r
}
