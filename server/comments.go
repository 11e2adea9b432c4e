package server

import (
	"crypto/md5"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	urlpkg "net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"go.curlew.org/curlew/core"
	"go.curlew.org/curlew/services/database"
)

// commentTokenSubject is the subject claim of every comment submission token.
const commentTokenSubject = "comments"

func (s *Server) exportCommentsGet(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r, "articleId")
	if !ok {
		s.serveErrorJSON(w, errInvalidPostID)
		return
	}

	comments := []core.Comment{}

	post, _ := s.visiblePost(id)
	if post != nil {
		stored, err := s.db.ApprovedComments(r.Context(), post.ID)
		if err != nil {
			s.log.Errorw("comments export failed", "err", err)
			s.serveErrorJSON(w, "Internal error")
			return
		}

		for _, c := range stored {
			avatar := ""
			if s.c.Site.Comments.ShowAvatars {
				avatar = gravatarURL(c.Email)
			}

			comments = append(comments, core.FormatComment(c, post, avatar))
		}
	}

	s.serveJSON(w, http.StatusOK, map[string]interface{}{
		"comments": comments,
	})
}

type commentResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (s *Server) saveComment(w http.ResponseWriter, r *http.Request) {
	// Submissions from external origins are silently dropped.
	if referer := r.Referer(); referer != "" {
		u, err := urlpkg.Parse(referer)
		if err != nil || u.Host != r.Host {
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}

	id, err := strconv.Atoi(r.FormValue("articleId"))
	if err != nil || id <= 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	fail := func(message string) {
		s.serveJSON(w, http.StatusOK, commentResponse{Status: 0, Message: message})
	}

	post, _ := s.visiblePost(id)
	if post == nil {
		fail(errInvalidPostID)
		return
	}

	if s.co.CommentStatus(post, time.Now()) != core.CommentsOpen {
		fail("Comments are closed")
		return
	}

	if !s.verifyCommentToken(r.FormValue("code")) {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	author := strings.TrimSpace(core.SanitizeText(r.FormValue("author")))
	email := strings.TrimSpace(r.FormValue("email"))
	url := strings.TrimSpace(core.SanitizeText(r.FormValue("url")))
	content := strings.TrimSpace(core.Sanitize(r.FormValue("comment")))
	parent, _ := strconv.Atoi(r.FormValue("comment_parent"))

	if s.c.Site.Comments.RequireNameEmail {
		if author == "" || email == "" {
			fail("Missing name or email")
			return
		}

		if _, err := mail.ParseAddress(email); err != nil {
			fail("Invalid email address")
			return
		}
	}

	if content == "" {
		fail("Missing comment")
		return
	}

	approved := !s.c.Site.Comments.Moderation
	if !approved {
		approved, err = s.db.HasApprovedAuthor(r.Context(), email)
		if err != nil {
			s.log.Errorw("comment approval lookup failed", "err", err)
			fail("Internal error")
			return
		}
	}

	err = s.db.AddComment(r.Context(), &core.StoredComment{
		PostID:   post.ID,
		Author:   author,
		Email:    email,
		URL:      url,
		Content:  content,
		Parent:   parent,
		Approved: approved,
		Date:     time.Now(),
	})
	if errors.Is(err, database.ErrDuplicateComment) {
		fail("Duplicate comment")
		return
	}
	if err != nil {
		s.log.Errorw("comment save failed", "err", err)
		fail("Internal error")
		return
	}

	if approved {
		s.serveJSON(w, http.StatusOK, commentResponse{Status: 1, Message: "Your comment was successfully added"})
	} else {
		s.serveJSON(w, http.StatusOK, commentResponse{Status: 2, Message: "Your comment is awaiting moderation"})
	}
}

func (s *Server) verifyCommentToken(code string) bool {
	if code == "" {
		return false
	}

	token, err := jwtauth.VerifyToken(s.jwtAuth, code)
	if err != nil {
		return false
	}

	return token.Subject() == commentTokenSubject
}

func gravatarURL(email string) string {
	hash := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=50&d=mm", hash)
}
