// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/velora/internal/models"
)

const (
	journalDefaultLimit = 10
	excerptRunes        = 200
	wordsPerMinute      = 200
	defaultArticleImage = "/main/journal/journal.jpg"
)

// ArticlePage is one page of published articles.
type ArticlePage struct {
	Articles   []ArticleDTO `json:"articles"`
	Pagination Pagination   `json:"pagination"`
}

// ListArticles returns published articles, newest first.
//
// @Summary List published articles
// @Tags Journal
// @Produce json
// @Param category query string false "Category; Semua disables the filter"
// @Param search query string false "Case-insensitive title or content match"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} APIResponse{data=ArticlePage}
// @Router /journal/articles [get]
func (h *Handler) ListArticles(w http.ResponseWriter, r *http.Request) {
	def, maxLimit := h.pageLimits(journalDefaultLimit)
	page := parsePage(r, def, maxLimit)
	q := r.URL.Query()

	items, total, err := h.articles.ListPublished(r.Context(), models.ArticleFilter{
		Category: strings.TrimSpace(q.Get("category")),
		Search:   strings.TrimSpace(q.Get("search")),
		Limit:    page.Limit,
		Offset:   page.Offset(),
	})
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, "", ArticlePage{
		Articles:   toArticleDTOs(items),
		Pagination: page.Pagination(total),
	})
}

// GetArticle returns a published article and counts the view.
//
// @Summary Get an article
// @Tags Journal
// @Produce json
// @Param id path string true "Article ID"
// @Success 200 {object} APIResponse{data=ArticleDTO}
// @Failure 404 {object} APIResponse
// @Router /journal/articles/{id} [get]
func (h *Handler) GetArticle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	a, err := h.articles.GetPublished(r.Context(), id)
	if err != nil {
		h.respondStoreError(w, r, err, MsgArticleNotFound)
		return
	}
	views, err := h.articles.IncrementViews(r.Context(), id)
	if err != nil {
		h.respondStoreError(w, r, err, MsgArticleNotFound)
		return
	}
	a.Views = views
	respondSuccess(w, http.StatusOK, "", map[string]ArticleDTO{"article": toArticleDTO(a)})
}

// ArticleCategories counts published articles per category.
//
// @Summary Article categories
// @Tags Journal
// @Produce json
// @Success 200 {object} APIResponse{data=[]CategoryDTO}
// @Router /journal/categories [get]
func (h *Handler) ArticleCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.articles.Categories(r.Context())
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, "", map[string][]CategoryDTO{"categories": toCategoryDTOs(cats)})
}

// CreateArticle publishes an article authored by the account. Missing
// excerpt, image and read time are derived from the content.
//
// @Summary Create an article
// @Tags Journal
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ArticleRequest true "Article"
// @Success 201 {object} APIResponse{data=ArticleDTO}
// @Failure 400 {object} APIResponse
// @Router /journal/articles [post]
func (h *Handler) CreateArticle(w http.ResponseWriter, r *http.Request, acct *models.Account) {
	var req ArticleRequest
	if !h.bind(w, r, &req) {
		return
	}

	authorID := acct.ID
	a := &models.Article{
		Title:       strings.TrimSpace(req.Title),
		Content:     req.Content,
		Category:    strings.TrimSpace(req.Category),
		Excerpt:     stringOr(req.Excerpt, excerptOf(req.Content)),
		ImageURL:    stringOr(req.ImageURL, defaultArticleImage),
		ReadTime:    stringOr(req.ReadTime, readTimeOf(req.Content)),
		IsPublished: req.IsPublished == nil || *req.IsPublished,
		AuthorID:    &authorID,
	}
	saved, err := h.articles.Create(r.Context(), a)
	if err != nil {
		h.respondStoreError(w, r, err, MsgArticleNotFound)
		return
	}
	respondSuccess(w, http.StatusCreated, MsgArticleCreated, map[string]ArticleDTO{"article": toArticleDTO(saved)})
}

// UpdateArticle changes an article written by the account.
//
// @Summary Update an article
// @Tags Journal
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Article ID"
// @Param request body ArticleUpdateRequest true "Changed fields"
// @Success 200 {object} APIResponse{data=ArticleDTO}
// @Failure 400 {object} APIResponse
// @Failure 403 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /journal/articles/{id} [put]
func (h *Handler) UpdateArticle(w http.ResponseWriter, r *http.Request, acct *models.Account) {
	id := chi.URLParam(r, "id")
	if !h.authorizeArticle(w, r, id, acct.ID, MsgArticleEditDenied) {
		return
	}

	var req ArticleUpdateRequest
	if !h.bind(w, r, &req) {
		return
	}
	saved, err := h.articles.Update(r.Context(), id, models.ArticleUpdate{
		Title:       req.Title,
		Content:     req.Content,
		Excerpt:     req.Excerpt,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		ReadTime:    req.ReadTime,
		IsPublished: req.IsPublished,
	})
	if err != nil {
		h.respondStoreError(w, r, err, MsgArticleNotFound)
		return
	}
	respondSuccess(w, http.StatusOK, MsgArticleUpdated, map[string]ArticleDTO{"article": toArticleDTO(saved)})
}

// DeleteArticle removes an article written by the account.
//
// @Summary Delete an article
// @Tags Journal
// @Produce json
// @Security BearerAuth
// @Param id path string true "Article ID"
// @Success 200 {object} APIResponse
// @Failure 403 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /journal/articles/{id} [delete]
func (h *Handler) DeleteArticle(w http.ResponseWriter, r *http.Request, acct *models.Account) {
	id := chi.URLParam(r, "id")
	if !h.authorizeArticle(w, r, id, acct.ID, MsgArticleDeleteDenied) {
		return
	}
	if err := h.articles.Delete(r.Context(), id); err != nil {
		h.respondStoreError(w, r, err, MsgArticleNotFound)
		return
	}
	respondSuccess(w, http.StatusOK, MsgArticleDeleted, nil)
}

// authorizeArticle writes 404 for a missing article and 403 when the account
// is not its author. Articles without an author are editable by no one.
func (h *Handler) authorizeArticle(w http.ResponseWriter, r *http.Request, id, accountID, denied string) bool {
	a, err := h.articles.GetByID(r.Context(), id)
	if err != nil {
		h.respondStoreError(w, r, err, MsgArticleNotFound)
		return false
	}
	if a.AuthorID == nil || *a.AuthorID != accountID {
		respondError(w, http.StatusForbidden, denied)
		return false
	}
	return true
}

// ToggleBookmark bookmarks a published article, or removes the bookmark
// when one exists.
//
// @Summary Toggle an article bookmark
// @Tags Journal
// @Produce json
// @Security BearerAuth
// @Param id path string true "Article ID"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /journal/articles/{id}/bookmark [post]
func (h *Handler) ToggleBookmark(w http.ResponseWriter, r *http.Request, acct *models.Account) {
	id := chi.URLParam(r, "id")
	if _, err := h.articles.GetPublished(r.Context(), id); err != nil {
		h.respondStoreError(w, r, err, MsgArticleNotFound)
		return
	}
	bookmarked, err := h.articles.ToggleBookmark(r.Context(), acct.ID, id)
	if err != nil {
		h.respondStoreError(w, r, err, MsgArticleNotFound)
		return
	}
	message := MsgBookmarkRemoved
	if bookmarked {
		message = MsgBookmarked
	}
	respondSuccess(w, http.StatusOK, message, map[string]bool{"bookmarked": bookmarked})
}

// Bookmarks lists the account's bookmarked articles.
//
// @Summary Bookmarked articles
// @Tags Journal
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=[]ArticleDTO}
// @Router /journal/bookmarks [get]
func (h *Handler) Bookmarks(w http.ResponseWriter, r *http.Request, acct *models.Account) {
	items, err := h.articles.ListBookmarks(r.Context(), acct.ID)
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, "", map[string][]ArticleDTO{"articles": toArticleDTOs(items)})
}

// excerptOf returns at most excerptRunes runes of content followed by an ellipsis.
func excerptOf(content string) string {
	runes := []rune(content)
	if len(runes) > excerptRunes {
		runes = runes[:excerptRunes]
	}
	return string(runes) + "..."
}

// readTimeOf estimates reading time at wordsPerMinute, rounded up.
func readTimeOf(content string) string {
	words := len(strings.Fields(content))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min read", minutes)
}

func stringOr(s *string, fallback string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return fallback
	}
	return *s
}
