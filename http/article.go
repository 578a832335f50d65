package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/remarkablejames/richtext"
)

// Content types of the preview formats.
var formatContentTypes = map[richtext.Format]string{
	richtext.FormatJSON:     "application/json",
	richtext.FormatHTML:     "text/html; charset=utf-8",
	richtext.FormatMarkdown: "text/markdown; charset=utf-8",
	richtext.FormatText:     "text/plain; charset=utf-8",
}

// articleRequest is the body of article create and update requests.
type articleRequest struct {
	Title   *string            `json:"title"`
	Slug    *string            `json:"slug"`
	Content *richtext.Document `json:"content"`
}

func decodeArticleRequest(w http.ResponseWriter, r *http.Request) (*articleRequest, error) {
	body, err := readBody(w, r)
	if err != nil {
		return nil, err
	}
	var req articleRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, richtext.Errorf(richtext.EINVALID, "invalid JSON body: %v", err)
	}
	return &req, nil
}

func (s *Server) handleListArticles(w http.ResponseWriter, r *http.Request) {
	var filter richtext.ArticleFilter
	q := r.URL.Query()

	if v := q.Get("slug"); v != "" {
		filter.Slug = &v
	}
	if v := q.Get("paywall"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			Error(w, r, s.log, richtext.Errorf(richtext.EINVALID, "invalid paywall filter %q", v))
			return
		}
		filter.HasPaywall = &b
	}
	for name, dst := range map[string]*int{"limit": &filter.Limit, "offset": &filter.Offset} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			Error(w, r, s.log, richtext.Errorf(richtext.EINVALID, "invalid %s %q", name, v))
			return
		}
		*dst = n
	}

	articles, err := s.ArticleService.FindArticles(r.Context(), filter)
	if err != nil {
		Error(w, r, s.log, err)
		return
	}
	if articles == nil {
		articles = []*richtext.Article{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"articles": articles})
}

func (s *Server) handleCreateArticle(w http.ResponseWriter, r *http.Request) {
	req, err := decodeArticleRequest(w, r)
	if err != nil {
		Error(w, r, s.log, err)
		return
	}

	article := &richtext.Article{Content: req.Content}
	if req.Title != nil {
		article.Title = *req.Title
	}
	if req.Slug != nil {
		article.Slug = *req.Slug
	}

	if err := s.ArticleService.CreateArticle(r.Context(), article); err != nil {
		Error(w, r, s.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, article)
}

func (s *Server) handleGetArticle(w http.ResponseWriter, r *http.Request) {
	article, err := s.ArticleService.FindArticleByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		Error(w, r, s.log, err)
		return
	}

	writeJSON(w, http.StatusOK, article)
}

func (s *Server) handleUpdateArticle(w http.ResponseWriter, r *http.Request) {
	req, err := decodeArticleRequest(w, r)
	if err != nil {
		Error(w, r, s.log, err)
		return
	}

	article, err := s.ArticleService.UpdateArticle(r.Context(), chi.URLParam(r, "id"), richtext.ArticleUpdate{
		Title:   req.Title,
		Slug:    req.Slug,
		Content: req.Content,
	})
	if err != nil {
		Error(w, r, s.log, err)
		return
	}

	writeJSON(w, http.StatusOK, article)
}

func (s *Server) handleDeleteArticle(w http.ResponseWriter, r *http.Request) {
	if err := s.ArticleService.DeleteArticle(r.Context(), chi.URLParam(r, "id")); err != nil {
		Error(w, r, s.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handlePreviewArticle renders an article as readers see it. With
// full=true the subscriber rendition is returned instead.
func (s *Server) handlePreviewArticle(w http.ResponseWriter, r *http.Request) {
	format, err := richtext.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		Error(w, r, s.log, err)
		return
	}
	full, _ := strconv.ParseBool(r.URL.Query().Get("full"))

	article, err := s.ArticleService.FindArticleByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		Error(w, r, s.log, err)
		return
	}

	var out string
	if full {
		out, err = s.Previewer.Full(article.Content, format)
	} else {
		out, err = s.Previewer.Preview(article.Content, format)
	}
	if err != nil {
		Error(w, r, s.log, err)
		return
	}

	w.Header().Set("Content-Type", formatContentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(out))
}
