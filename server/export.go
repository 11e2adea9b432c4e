package server

import (
	"net/http"
	"time"

	"go.curlew.org/curlew/core"
)

const (
	defaultLimit             = 7
	defaultDescriptionLength = 200
)

func (s *Server) exportCategoriesGet(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultLimit)
	descriptionLength := queryInt(r, "descriptionLength", defaultDescriptionLength)

	set, err := s.co.Aggregate(limit, descriptionLength)
	if err != nil {
		s.log.Errorw("aggregate failed", "err", err)
		s.serveErrorJSON(w, "Internal error")
		return
	}

	categories := core.OrderCategories(set, s.c.App.OrderedCategories)
	s.serveJSON(w, http.StatusOK, map[string]interface{}{
		"categories": categories,
	})
}

func (s *Server) exportArticlesGet(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultLimit)
	descriptionLength := queryInt(r, "descriptionLength", defaultDescriptionLength)
	categoryID := queryInt(r, "categoryId", core.LatestCategoryID)

	before := time.Now()
	if ts := queryInt(r, "lastTimestamp", 0); ts > 0 {
		before = time.Unix(int64(ts), 0)
	}

	articles, err := s.co.RecentArticles(before, categoryID, limit, descriptionLength)
	if err != nil {
		s.log.Errorw("articles export failed", "err", err)
		s.serveErrorJSON(w, "Internal error")
		return
	}

	s.serveJSON(w, http.StatusOK, map[string]interface{}{
		"articles": articles,
	})
}

// singleArticle augments an article with the data the app needs to render
// the comment box.
type singleArticle struct {
	core.Article
	CommentStatus    string `json:"comment_status"`
	CommentCount     int    `json:"no_comments"`
	ShowAvatars      int    `json:"show_avatars"`
	RequireNameEmail int    `json:"require_name_email"`
}

func (s *Server) exportArticleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r, "articleId")
	if !ok {
		s.serveErrorJSON(w, errInvalidPostID)
		return
	}

	descriptionLength := queryInt(r, "descriptionLength", defaultDescriptionLength)

	post, ref := s.visiblePost(id)
	if post == nil {
		// Hidden or missing posts are not an error, just an empty payload.
		s.serveJSON(w, http.StatusOK, map[string]interface{}{
			"article": struct{}{},
		})
		return
	}

	a, err := s.co.FormatPost(post, descriptionLength, true)
	if err != nil {
		s.log.Errorw("article export failed", "err", err)
		s.serveErrorJSON(w, "Internal error")
		return
	}

	a.CategoryID = ref.ID
	a.CategoryName = ref.Name

	count, err := s.db.CountApproved(r.Context(), post.ID)
	if err != nil {
		s.log.Errorw("comment count failed", "err", err)
		s.serveErrorJSON(w, "Internal error")
		return
	}

	status := s.co.CommentStatus(post, time.Now())
	if status == core.CommentsClosed && count == 0 {
		status = core.CommentsDisabled
	}

	comments := s.c.Site.Comments
	s.serveJSON(w, http.StatusOK, map[string]interface{}{
		"article": singleArticle{
			Article:          a,
			CommentStatus:    status,
			CommentCount:     count,
			ShowAvatars:      boolToInt(comments.ShowAvatars),
			RequireNameEmail: boolToInt(comments.RequireNameEmail),
		},
	})
}

// visiblePost returns the post when it is published, not password protected
// and belongs to at least one visible category.
func (s *Server) visiblePost(id int) (*core.Entry, *core.CategoryRef) {
	post, ok := s.co.Post(id)
	if !ok || !post.Published(time.Now()) || post.Protected() {
		return nil, nil
	}

	ref := s.co.ResolveVisibleCategory(post)
	if ref == nil {
		return nil, nil
	}

	return post, ref
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
