package sqlite

import (
	"context"
	"time"

	"github.com/sou2aq/platform/internal/platform/domain"
)

type articlesRepo struct {
	db dbtx
}

const articleColumns = `id, site_id, title, content, tags, author, image,
	created_at, modified_at`

func scanArticle(row interface{ Scan(dest ...any) error }) (domain.Article, error) {
	var a domain.Article
	err := row.Scan(
		&a.ID, &a.SiteID, &a.Title, &a.Content, &a.Tags, &a.Author, &a.Image,
		&a.CreatedAt, &a.ModifiedAt,
	)
	if err != nil {
		return domain.Article{}, err
	}
	return a, nil
}

func (r *articlesRepo) CreateArticle(ctx context.Context, a domain.Article) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO articles (
			id, site_id, title, content, tags, author, image, created_at, modified_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.SiteID, a.Title, a.Content, a.Tags, a.Author, a.Image,
		a.CreatedAt, a.ModifiedAt,
	)
	return err
}

func (r *articlesRepo) GetArticleByID(ctx context.Context, id string) (domain.Article, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE id = ?`, id)
	a, err := scanArticle(row)
	if err != nil {
		return domain.Article{}, mapNotFound(err)
	}
	return a, nil
}

func (r *articlesRepo) ListArticles(ctx context.Context) ([]domain.Article, error) {
	return r.list(ctx,
		`SELECT `+articleColumns+` FROM articles ORDER BY created_at DESC`)
}

func (r *articlesRepo) ListArticlesBySite(ctx context.Context, siteID string) ([]domain.Article, error) {
	return r.list(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE site_id = ? ORDER BY created_at DESC`,
		siteID)
}

func (r *articlesRepo) list(ctx context.Context, query string, args ...any) ([]domain.Article, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []domain.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

func (r *articlesRepo) UpdateArticle(ctx context.Context, a domain.Article) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE articles
		SET title = ?, content = ?, tags = ?, author = ?, image = ?, modified_at = ?
		WHERE id = ?`,
		a.Title, a.Content, a.Tags, a.Author, a.Image, time.Now().UTC(), a.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *articlesRepo) DeleteArticle(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM articles WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}
