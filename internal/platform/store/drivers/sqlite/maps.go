package sqlite

import (
	"context"
	"time"

	"github.com/sou2aq/platform/internal/platform/domain"
)

type mapsRepo struct {
	db dbtx
}

const mapColumns = `id, site_id, title, address, latitude, longitude, created_at, modified_at`

func scanMap(row interface{ Scan(dest ...any) error }) (domain.Map, error) {
	var m domain.Map
	err := row.Scan(
		&m.ID, &m.SiteID, &m.Title, &m.Address, &m.Latitude, &m.Longitude,
		&m.CreatedAt, &m.ModifiedAt,
	)
	if err != nil {
		return domain.Map{}, err
	}
	return m, nil
}

func (r *mapsRepo) CreateMap(ctx context.Context, m domain.Map) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO maps (
			id, site_id, title, address, latitude, longitude, created_at, modified_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.SiteID, m.Title, m.Address, m.Latitude, m.Longitude,
		m.CreatedAt, m.ModifiedAt,
	)
	return err
}

func (r *mapsRepo) GetMapByID(ctx context.Context, id string) (domain.Map, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+mapColumns+` FROM maps WHERE id = ?`, id)
	m, err := scanMap(row)
	if err != nil {
		return domain.Map{}, mapNotFound(err)
	}
	return m, nil
}

func (r *mapsRepo) ListMapsBySite(ctx context.Context, siteID string) ([]domain.Map, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+mapColumns+` FROM maps WHERE site_id = ? ORDER BY created_at DESC`,
		siteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var maps []domain.Map
	for rows.Next() {
		m, err := scanMap(rows)
		if err != nil {
			return nil, err
		}
		maps = append(maps, m)
	}
	return maps, rows.Err()
}

func (r *mapsRepo) UpdateMap(ctx context.Context, m domain.Map) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE maps
		SET title = ?, address = ?, latitude = ?, longitude = ?, modified_at = ?
		WHERE id = ?`,
		m.Title, m.Address, m.Latitude, m.Longitude, time.Now().UTC(), m.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *mapsRepo) DeleteMap(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM maps WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}
