package server

import (
	"net/http"
	"time"
)

func (s *Server) exportPagesGet(w http.ResponseWriter, r *http.Request) {
	s.serveJSON(w, http.StatusOK, map[string]interface{}{
		"pages": s.co.ListPages(),
	})
}

func (s *Server) exportPageGet(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r, "pageId")
	if !ok {
		s.serveErrorJSON(w, errInvalidPostID)
		return
	}

	page, found := s.co.Page(id)
	if !found || !page.Published(time.Now()) || page.Protected() ||
		page.Title == "" || s.c.InactivePage(id) {
		s.serveJSON(w, http.StatusOK, map[string]interface{}{
			"page": struct{}{},
		})
		return
	}

	p, err := s.co.FormatPage(page)
	if err != nil {
		s.log.Errorw("page export failed", "err", err)
		s.serveErrorJSON(w, "Internal error")
		return
	}

	s.serveJSON(w, http.StatusOK, map[string]interface{}{
		"page": p,
	})
}
