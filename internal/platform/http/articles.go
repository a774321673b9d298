package http

import (
	"net/http"

	"github.com/sou2aq/platform/internal/platform/service"
	"github.com/sou2aq/platform/pkg/httpx"
	"github.com/sou2aq/platform/pkg/slogx"
)

// ArticleHandler serves the article routes. Reads are public; writes go
// through the article -> site -> owner chain at the route layer.
type ArticleHandler struct {
	ArticleService *service.ArticleService
}

// Create expects siteId in the body; the ownership middleware has already
// verified the caller owns that site (or is superAdmin).
func (h *ArticleHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		SiteID  string `json:"siteId"`
		Title   string `json:"title"`
		Content string `json:"content"`
		Tags    string `json:"tags"`
		Author  string `json:"author"`
		Image   string `json:"image"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Title == "" {
		httpx.WriteError(w, http.StatusBadRequest, httpx.TypeValidation, "Title is required")
		return
	}

	article, err := h.ArticleService.CreateArticle(ctx, req.SiteID, service.ArticleInput{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
		Author:  req.Author,
		Image:   req.Image,
	})
	if err != nil {
		apiErr := mapServiceError(err)
		if apiErr.Status == http.StatusInternalServerError {
			slogx.FromContext(ctx).Error("create article failed", "err", err)
		}
		apiErr.WriteError(w)
		return
	}

	httpx.WriteSuccess(w, http.StatusCreated, "Article created", toArticleView(article))
}

func (h *ArticleHandler) Get(w http.ResponseWriter, r *http.Request) {
	article, err := h.ArticleService.GetArticleByID(r.Context(), r.PathValue("id"))
	if err != nil {
		mapServiceError(err).WriteError(w)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, "", toArticleView(article))
}

func (h *ArticleHandler) List(w http.ResponseWriter, r *http.Request) {
	articles, err := h.ArticleService.ListArticles(r.Context())
	if err != nil {
		slogx.FromContext(r.Context()).Error("list articles failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.TypeServer, "Internal server error")
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, "", toArticleViews(articles))
}

func (h *ArticleHandler) ListBySite(w http.ResponseWriter, r *http.Request) {
	articles, err := h.ArticleService.ListArticlesBySite(r.Context(), r.PathValue("id"))
	if err != nil {
		mapServiceError(err).WriteError(w)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, "", toArticleViews(articles))
}

func (h *ArticleHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
		Tags    string `json:"tags"`
		Author  string `json:"author"`
		Image   string `json:"image"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	article, err := h.ArticleService.UpdateArticle(ctx, r.PathValue("id"), service.ArticleInput{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
		Author:  req.Author,
		Image:   req.Image,
	})
	if err != nil {
		apiErr := mapServiceError(err)
		if apiErr.Status == http.StatusInternalServerError {
			slogx.FromContext(ctx).Error("update article failed", "err", err)
		}
		apiErr.WriteError(w)
		return
	}

	httpx.WriteSuccess(w, http.StatusOK, "Article updated", toArticleView(article))
}

func (h *ArticleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.ArticleService.DeleteArticle(r.Context(), r.PathValue("id")); err != nil {
		mapServiceError(err).WriteError(w)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, "Article deleted", nil)
}
