// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package database

import (
	"context"
	"time"

	"github.com/tomtom215/velora/internal/database/query"
	"github.com/tomtom215/velora/internal/models"
)

// AllCategories is the category filter value that disables filtering.
const AllCategories = "Semua"

const articleColumns = `a.id, a.title, a.content, a.excerpt, a.category, a.image_url, a.read_time, a.views,
	a.is_published, a.author_id, u.full_name, a.created_at, a.updated_at`

const articleFrom = ` FROM articles a LEFT JOIN users u ON u.id = a.author_id`

// ArticleStore persists articles and article_bookmarks.
type ArticleStore struct {
	db DBTX
}

// NewArticleStore binds an ArticleStore to a pool or transaction.
func NewArticleStore(db DBTX) *ArticleStore {
	return &ArticleStore{db: db}
}

func scanArticle(row scanner) (*models.Article, error) {
	a := &models.Article{}
	err := row.Scan(
		&a.ID, &a.Title, &a.Content, &a.Excerpt, &a.Category, &a.ImageURL, &a.ReadTime, &a.Views,
		&a.IsPublished, &a.AuthorID, &a.AuthorName, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, classify(err)
	}
	return a, nil
}

func (s *ArticleStore) queryArticles(ctx context.Context, query string, args ...any) ([]*models.Article, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err)
	}
	defer closeQuietly(rows)

	articles := []*models.Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return articles, nil
}

// publishedFilter builds the WHERE clause shared by the public list and its count.
func publishedFilter(f models.ArticleFilter) *query.WhereBuilder {
	wb := query.NewWhereBuilder().AddClause("a.is_published = true")
	if f.Category != AllCategories {
		wb.AddEquals("a.category", f.Category)
	}
	return wb.AddSearch(f.Search, "a.title", "a.content")
}

// ListPublished returns one page of published articles, newest first, and the filtered total.
func (s *ArticleStore) ListPublished(ctx context.Context, f models.ArticleFilter) (items []*models.Article, total int, err error) {
	defer observe("select", tableArticles, time.Now(), &err)

	filter := publishedFilter(f)
	where, args := filter.BuildWithPrefix()
	if err = s.db.QueryRowContext(ctx, `SELECT count(*) FROM articles a `+where, args...).Scan(&total); err != nil {
		return nil, 0, classify(err)
	}

	page, args := filter.Page(f.Limit, f.Offset)
	stmt := `SELECT ` + articleColumns + articleFrom + ` ` + where + ` ORDER BY a.created_at DESC` + page
	items, err = s.queryArticles(ctx, stmt, args...)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// GetPublished returns a published article with its author's name.
func (s *ArticleStore) GetPublished(ctx context.Context, id string) (a *models.Article, err error) {
	defer observe("select", tableArticles, time.Now(), &err)

	return scanArticle(s.db.QueryRowContext(ctx,
		`SELECT `+articleColumns+articleFrom+` WHERE a.id = $1 AND a.is_published = true`, id))
}

// GetByID returns an article regardless of its published state.
func (s *ArticleStore) GetByID(ctx context.Context, id string) (a *models.Article, err error) {
	defer observe("select", tableArticles, time.Now(), &err)

	return scanArticle(s.db.QueryRowContext(ctx, `SELECT `+articleColumns+articleFrom+` WHERE a.id = $1`, id))
}

// IncrementViews bumps the view counter and returns the new value.
func (s *ArticleStore) IncrementViews(ctx context.Context, id string) (views int, err error) {
	defer observe("update", tableArticles, time.Now(), &err)

	if err = s.db.QueryRowContext(ctx,
		`UPDATE articles SET views = views + 1 WHERE id = $1 RETURNING views`, id,
	).Scan(&views); err != nil {
		return 0, classify(err)
	}
	return views, nil
}

// Categories counts published articles per category.
func (s *ArticleStore) Categories(ctx context.Context) (cats []models.CategoryCount, err error) {
	defer observe("select", tableArticles, time.Now(), &err)

	rows, err := s.db.QueryContext(ctx, `SELECT category, count(*) FROM articles
		WHERE is_published = true
		GROUP BY category
		ORDER BY category`)
	if err != nil {
		return nil, classify(err)
	}
	defer closeQuietly(rows)

	cats = []models.CategoryCount{}
	for rows.Next() {
		var c models.CategoryCount
		if err = rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, classify(err)
		}
		cats = append(cats, c)
	}
	if err = rows.Err(); err != nil {
		return nil, classify(err)
	}
	return cats, nil
}

// Create inserts an article and returns it with the author's name.
func (s *ArticleStore) Create(ctx context.Context, a *models.Article) (out *models.Article, err error) {
	defer observe("insert", tableArticles, time.Now(), &err)

	var id string
	if err = s.db.QueryRowContext(ctx, `INSERT INTO articles
			(title, content, excerpt, category, image_url, read_time, is_published, author_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		a.Title, a.Content, a.Excerpt, a.Category, a.ImageURL, a.ReadTime, a.IsPublished, a.AuthorID,
	).Scan(&id); err != nil {
		return nil, classify(err)
	}
	return scanArticle(s.db.QueryRowContext(ctx, `SELECT `+articleColumns+articleFrom+` WHERE a.id = $1`, id))
}

// Update applies the non-nil fields of upd.
func (s *ArticleStore) Update(ctx context.Context, id string, upd models.ArticleUpdate) (out *models.Article, err error) {
	defer observe("update", tableArticles, time.Now(), &err)

	res, err := s.db.ExecContext(ctx, `UPDATE articles SET
			title = COALESCE($2, title),
			content = COALESCE($3, content),
			excerpt = COALESCE($4, excerpt),
			category = COALESCE($5, category),
			image_url = COALESCE($6, image_url),
			read_time = COALESCE($7, read_time),
			is_published = COALESCE($8, is_published),
			updated_at = now()
		WHERE id = $1`,
		id, upd.Title, upd.Content, upd.Excerpt, upd.Category, upd.ImageURL, upd.ReadTime, upd.IsPublished)
	if err != nil {
		return nil, classify(err)
	}
	if err = affectedOrNotFound(res); err != nil {
		return nil, err
	}
	return scanArticle(s.db.QueryRowContext(ctx, `SELECT `+articleColumns+articleFrom+` WHERE a.id = $1`, id))
}

// Delete removes an article. Bookmarks cascade.
func (s *ArticleStore) Delete(ctx context.Context, id string) (err error) {
	defer observe("delete", tableArticles, time.Now(), &err)

	res, err := s.db.ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return classify(err)
	}
	return affectedOrNotFound(res)
}

// ToggleBookmark removes the bookmark if present and adds it otherwise.
// It reports whether the article is bookmarked afterwards.
func (s *ArticleStore) ToggleBookmark(ctx context.Context, userID, articleID string) (bookmarked bool, err error) {
	defer observe("upsert", tableBookmarks, time.Now(), &err)

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM article_bookmarks WHERE user_id = $1 AND article_id = $2`, userID, articleID)
	if err != nil {
		return false, classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, classify(err)
	}
	if n > 0 {
		return false, nil
	}

	if _, err = s.db.ExecContext(ctx, `INSERT INTO article_bookmarks (user_id, article_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, article_id) DO NOTHING`, userID, articleID); err != nil {
		return false, classify(err)
	}
	return true, nil
}

// ListBookmarks returns the account's bookmarked articles, most recently bookmarked first.
func (s *ArticleStore) ListBookmarks(ctx context.Context, userID string) (items []*models.Article, err error) {
	defer observe("select", tableBookmarks, time.Now(), &err)

	return s.queryArticles(ctx, `SELECT `+articleColumns+articleFrom+`
		JOIN article_bookmarks b ON b.article_id = a.id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC`, userID)
}
