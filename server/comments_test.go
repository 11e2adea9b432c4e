package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.curlew.org/curlew/core"
)

func mintToken(t *testing.T, c *core.Config) string {
	t.Helper()

	secret := base64.StdEncoding.EncodeToString([]byte(c.TokensSecret))
	auth := jwtauth.New("HS256", []byte(secret), nil)

	_, token, err := auth.Encode(map[string]interface{}{
		jwt.SubjectKey: "comments",
	})
	require.NoError(t, err)
	return token
}

func submitComment(t *testing.T, ts string, form url.Values) (int, commentResponse) {
	t.Helper()

	resp, body := postForm(t, ts+"/export/comment", form)
	if resp.StatusCode == http.StatusNoContent {
		return resp.StatusCode, commentResponse{}
	}

	var cr commentResponse
	require.NoError(t, json.Unmarshal(body, &cr))
	return resp.StatusCode, cr
}

func commentForm(token string, fields map[string]string) url.Values {
	form := url.Values{}
	form.Set("articleId", "10")
	form.Set("code", token)
	form.Set("author", "jane")
	form.Set("email", "jane@example.com")
	form.Set("comment", "Nice article!")
	for k, v := range fields {
		form.Set(k, v)
	}
	return form
}

func TestSaveCommentAndExport(t *testing.T) {
	c := testConfig(t)
	c.Site.Comments.ShowAvatars = true
	writePost(t, c, 10, "first", "First", day(1), "World")

	_, ts := newTestServer(t, c)
	token := mintToken(t, c)

	code, cr := submitComment(t, ts.URL, commentForm(token, nil))
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, cr.Status)
	assert.Equal(t, "Your comment was successfully added", cr.Message)

	var payload struct {
		Comments []core.Comment `json:"comments"`
	}
	getJSON(t, ts.URL+"/export/comments?articleId=10", &payload)

	require.Len(t, payload.Comments, 1)
	comment := payload.Comments[0]
	assert.Equal(t, "Jane", comment.Author)
	assert.Equal(t, "Nice article!", comment.Content)
	assert.Equal(t, 10, comment.ArticleID)
	assert.Equal(t, "First", comment.ArticleTitle)
	assert.Contains(t, comment.Avatar, "gravatar.com/avatar/")
	assert.Contains(t, comment.Avatar, "s=50&d=mm")
}

func TestSaveCommentSilentDrops(t *testing.T) {
	c := testConfig(t)
	writePost(t, c, 10, "first", "First", day(1), "World")

	_, ts := newTestServer(t, c)
	token := mintToken(t, c)

	t.Run("missing token", func(t *testing.T) {
		code, _ := submitComment(t, ts.URL, commentForm("", nil))
		assert.Equal(t, http.StatusNoContent, code)
	})

	t.Run("garbage token", func(t *testing.T) {
		code, _ := submitComment(t, ts.URL, commentForm("not-a-token", nil))
		assert.Equal(t, http.StatusNoContent, code)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other := *c
		other.TokensSecret = "different"
		code, _ := submitComment(t, ts.URL, commentForm(mintToken(t, &other), nil))
		assert.Equal(t, http.StatusNoContent, code)
	})

	t.Run("missing article id", func(t *testing.T) {
		form := commentForm(token, nil)
		form.Del("articleId")
		code, _ := submitComment(t, ts.URL, form)
		assert.Equal(t, http.StatusNoContent, code)
	})

	t.Run("external referer", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPost, ts.URL+"/export/comment",
			strings.NewReader(commentForm(token, nil).Encode()))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Referer", "https://elsewhere.example/post")

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer func() {
			_ = resp.Body.Close()
		}()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("same host referer passes", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPost, ts.URL+"/export/comment",
			strings.NewReader(commentForm(token, nil).Encode()))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Referer", ts.URL+"/2024/05/01/first/")

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer func() {
			_ = resp.Body.Close()
		}()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestSaveCommentValidation(t *testing.T) {
	c := testConfig(t)
	c.Site.Comments.RequireNameEmail = true
	writePost(t, c, 10, "first", "First", day(1), "World")

	_, ts := newTestServer(t, c)
	token := mintToken(t, c)

	tests := []struct {
		name    string
		fields  map[string]string
		message string
	}{
		{"unknown article", map[string]string{"articleId": "99"}, "Invalid post id"},
		{"missing name", map[string]string{"author": ""}, "Missing name or email"},
		{"missing email", map[string]string{"email": ""}, "Missing name or email"},
		{"invalid email", map[string]string{"email": "not-an-email"}, "Invalid email address"},
		{"missing comment", map[string]string{"comment": ""}, "Missing comment"},
		{"whitespace comment", map[string]string{"comment": "   "}, "Missing comment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, cr := submitComment(t, ts.URL, commentForm(token, tt.fields))
			require.Equal(t, http.StatusOK, code)
			assert.Equal(t, 0, cr.Status)
			assert.Equal(t, tt.message, cr.Message)
		})
	}
}

func TestSaveCommentClosed(t *testing.T) {
	c := testConfig(t)
	c.Site.Comments.Registration = true
	writePost(t, c, 10, "first", "First", day(1), "World")

	_, ts := newTestServer(t, c)

	code, cr := submitComment(t, ts.URL, commentForm(mintToken(t, c), nil))
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0, cr.Status)
	assert.Equal(t, "Comments are closed", cr.Message)
}

func TestSaveCommentDuplicate(t *testing.T) {
	c := testConfig(t)
	writePost(t, c, 10, "first", "First", day(1), "World")

	_, ts := newTestServer(t, c)
	token := mintToken(t, c)

	_, cr := submitComment(t, ts.URL, commentForm(token, nil))
	require.Equal(t, 1, cr.Status)

	_, cr = submitComment(t, ts.URL, commentForm(token, nil))
	assert.Equal(t, 0, cr.Status)
	assert.Equal(t, "Duplicate comment", cr.Message)
}

func TestSaveCommentModeration(t *testing.T) {
	c := testConfig(t)
	c.Site.Comments.Moderation = true
	writePost(t, c, 10, "first", "First", day(1), "World")

	s, ts := newTestServer(t, c)
	token := mintToken(t, c)

	_, cr := submitComment(t, ts.URL, commentForm(token, nil))
	assert.Equal(t, 2, cr.Status)
	assert.Equal(t, "Your comment is awaiting moderation", cr.Message)

	// Pending comments stay out of the export.
	var payload struct {
		Comments []core.Comment `json:"comments"`
	}
	getJSON(t, ts.URL+"/export/comments?articleId=10", &payload)
	assert.Empty(t, payload.Comments)

	// Commenters with a previously approved comment skip the queue.
	err := s.db.AddComment(context.Background(), &core.StoredComment{
		PostID:   10,
		Author:   "Someone",
		Email:    "trusted@example.com",
		Content:  "An approved one.",
		Approved: true,
		Date:     day(2),
	})
	require.NoError(t, err)

	_, cr = submitComment(t, ts.URL, commentForm(token, map[string]string{
		"email":   "Trusted@Example.com",
		"comment": "Back again.",
	}))
	assert.Equal(t, 1, cr.Status)
}

func TestExportCommentsHiddenArticle(t *testing.T) {
	c := testConfig(t)
	writePost(t, c, 10, "first", "First", day(1), "World")

	_, ts := newTestServer(t, c)

	var payload struct {
		Comments []core.Comment `json:"comments"`
	}
	getJSON(t, ts.URL+"/export/comments?articleId=99", &payload)
	assert.Empty(t, payload.Comments)

	var errPayload map[string]string
	getJSON(t, ts.URL+"/export/comments?articleId=abc", &errPayload)
	assert.Equal(t, "Invalid post id", errPayload["error"])
}
