package core

import "time"

// Comment statuses as exposed on the single article export.
const (
	CommentsOpen     = "open"
	CommentsClosed   = "closed"
	CommentsDisabled = "disabled"
)

// StoredComment is the persisted form of a submitted comment.
type StoredComment struct {
	ID       int
	PostID   int
	Author   string
	Email    string
	URL      string
	Content  string
	Parent   int
	Approved bool
	Date     time.Time
}

// Comment is the export shape of an approved comment.
type Comment struct {
	ID           int    `json:"id"`
	Author       string `json:"author"`
	AuthorURL    string `json:"author_url"`
	Date         string `json:"date"`
	Content      string `json:"content"`
	ArticleID    int    `json:"article_id"`
	ArticleTitle string `json:"article_title"`
	Avatar       string `json:"avatar"`
}

// FormatComment converts a stored comment for export. Anonymous commenters
// get a placeholder name; everyone else gets their name capitalized.
func FormatComment(c StoredComment, post *Entry, avatar string) Comment {
	author := "Anonymous"
	if c.Author != "" {
		author = Capitalize(c.Author)
	}

	return Comment{
		ID:           c.ID,
		Author:       author,
		AuthorURL:    c.URL,
		Date:         c.Date.Format(dateFormat),
		Content:      Sanitize(c.Content),
		ArticleID:    post.ID,
		ArticleTitle: post.Title,
		Avatar:       avatar,
	}
}

// CommentStatus reports whether a post currently accepts comments. Comments
// are closed when the post opts out, when commenting requires registration,
// or when the post is older than the configured cutoff.
func (co *Core) CommentStatus(e *Entry, now time.Time) string {
	status := CommentsClosed
	if !e.NoComments && !co.cfg.Site.Comments.Registration {
		status = CommentsOpen
	}

	if !co.cfg.Site.Comments.CloseForOldPosts {
		return status
	}

	days := co.cfg.Site.Comments.CloseDaysOld
	if days <= 0 {
		return status
	}

	if now.Sub(e.Date) > time.Duration(days)*24*time.Hour {
		status = CommentsClosed
	}

	return status
}
