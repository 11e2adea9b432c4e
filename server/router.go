package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.curlew.org/curlew/log"
)

func (s *Server) makeRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(s.withRecoverer)
	r.Use(log.WithZap)
	r.Use(middleware.GetHead)

	r.Route("/export", func(r chi.Router) {
		r.Get("/categories", s.exportCategoriesGet)
		r.Get("/articles", s.exportArticlesGet)
		r.Get("/article", s.exportArticleGet)
		r.Get("/comments", s.exportCommentsGet)
		r.Get("/comment", s.saveComment)
		r.Post("/comment", s.saveComment)
		r.Get("/pages", s.exportPagesGet)
		r.Get("/page", s.exportPageGet)
		r.Get("/manifest", s.exportManifestGet)
		r.Post("/settings", s.exportSettingsPost)
	})

	return r
}

func (s *Server) withRecoverer(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil && rvr != http.ErrAbortHandler {
				s.log.Errorf("panic while serving: %s", rvr)
				w.WriteHeader(http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	}

	return http.HandlerFunc(fn)
}
