package sqlite

import (
	"context"
	"time"

	"github.com/sou2aq/platform/internal/platform/domain"
	"github.com/sou2aq/platform/internal/platform/store"
)

type sitesRepo struct {
	db dbtx
}

const siteColumns = `id, owner_id, name, subdomain, description, logo_image,
	is_active, created_at, modified_at`

func scanSite(row interface{ Scan(dest ...any) error }) (domain.Site, error) {
	var s domain.Site
	err := row.Scan(
		&s.ID, &s.OwnerID, &s.Name, &s.Subdomain, &s.Description, &s.LogoImage,
		&s.IsActive, &s.CreatedAt, &s.ModifiedAt,
	)
	if err != nil {
		return domain.Site{}, err
	}
	return s, nil
}

func (r *sitesRepo) CreateSite(ctx context.Context, s domain.Site) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sites (
			id, owner_id, name, subdomain, description, logo_image, is_active,
			created_at, modified_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.OwnerID, s.Name, s.Subdomain, s.Description, s.LogoImage,
		s.IsActive, s.CreatedAt, s.ModifiedAt,
	)
	if isConstraintErr(err) {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *sitesRepo) GetSiteByID(ctx context.Context, id string) (domain.Site, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+siteColumns+` FROM sites WHERE id = ?`, id)
	s, err := scanSite(row)
	if err != nil {
		return domain.Site{}, mapNotFound(err)
	}
	return s, nil
}

func (r *sitesRepo) GetSiteBySubdomain(ctx context.Context, subdomain string) (domain.Site, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+siteColumns+` FROM sites WHERE subdomain = ?`, subdomain)
	s, err := scanSite(row)
	if err != nil {
		return domain.Site{}, mapNotFound(err)
	}
	return s, nil
}

func (r *sitesRepo) ListSites(ctx context.Context) ([]domain.Site, error) {
	return r.list(ctx,
		`SELECT `+siteColumns+` FROM sites ORDER BY created_at DESC`)
}

func (r *sitesRepo) ListSitesByOwner(ctx context.Context, ownerID string) ([]domain.Site, error) {
	return r.list(ctx,
		`SELECT `+siteColumns+` FROM sites WHERE owner_id = ? ORDER BY created_at DESC`,
		ownerID)
}

func (r *sitesRepo) list(ctx context.Context, query string, args ...any) ([]domain.Site, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sites []domain.Site
	for rows.Next() {
		s, err := scanSite(rows)
		if err != nil {
			return nil, err
		}
		sites = append(sites, s)
	}
	return sites, rows.Err()
}

func (r *sitesRepo) UpdateSite(ctx context.Context, s domain.Site) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE sites
		SET name = ?, description = ?, logo_image = ?, modified_at = ?
		WHERE id = ?`,
		s.Name, s.Description, s.LogoImage, time.Now().UTC(), s.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *sitesRepo) SetSiteActive(ctx context.Context, id, isActive string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sites SET is_active = ?, modified_at = ? WHERE id = ?`,
		isActive, time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *sitesRepo) DeleteSite(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sites WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}
