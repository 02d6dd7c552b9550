package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/imgcrawl"
)

// Compile-time interface verification.
var _ imgcrawl.ManifestService = (*ManifestService)(nil)

// ManifestService implements imgcrawl.ManifestService using SQLite.
type ManifestService struct {
	db *DB
}

// NewManifestService creates a new ManifestService.
func NewManifestService(db *DB) *ManifestService {
	return &ManifestService{db: db}
}

// RecordRun stores the run and its images in one transaction.
// Recording a run ID twice fails.
func (s *ManifestService) RecordRun(ctx context.Context, run *imgcrawl.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, root_url, pages, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?)
	`, run.ID, run.RootURL, run.Pages,
		run.StartedAt.UTC().Format(time.RFC3339), run.FinishedAt.UTC().Format(time.RFC3339)); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO images (run_id, position, url, path, bytes)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, img := range run.Images {
		img.RunID = run.ID
		if _, err := stmt.ExecContext(ctx, run.ID, i, img.URL, img.Path, img.Bytes); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindRunByID retrieves a run and its images.
func (s *ManifestService) FindRunByID(ctx context.Context, id string) (*imgcrawl.Run, error) {
	var run imgcrawl.Run
	var startedAt, finishedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, root_url, pages, started_at, finished_at
		FROM runs
		WHERE id = ?
	`, id).Scan(&run.ID, &run.RootURL, &run.Pages, &startedAt, &finishedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, imgcrawl.Errorf(imgcrawl.ENOTFOUND, "run not found")
	}
	if err != nil {
		return nil, err
	}

	if run.StartedAt, err = parseRFC3339(startedAt, "started_at"); err != nil {
		return nil, err
	}
	if run.FinishedAt, err = parseRFC3339(finishedAt, "finished_at"); err != nil {
		return nil, err
	}

	run.Images, err = s.FindImages(ctx, imgcrawl.ImageFilter{RunID: &run.ID})
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// FindImages retrieves saved images matching the filter.
func (s *ManifestService) FindImages(ctx context.Context, filter imgcrawl.ImageFilter) ([]*imgcrawl.SavedImage, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`
		SELECT i.run_id, i.url, i.path, i.bytes
		FROM images i JOIN runs r ON r.id = i.run_id
		WHERE 1=1`)

	if filter.RunID != nil {
		query.WriteString(" AND i.run_id = ?")
		args = append(args, *filter.RunID)
	}
	if filter.URL != nil {
		query.WriteString(" AND i.url = ?")
		args = append(args, *filter.URL)
	}
	if filter.Path != nil {
		query.WriteString(" AND i.path = ?")
		args = append(args, *filter.Path)
	}

	query.WriteString(" ORDER BY r.finished_at, i.run_id, i.position")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []*imgcrawl.SavedImage
	for rows.Next() {
		var img imgcrawl.SavedImage
		if err := rows.Scan(&img.RunID, &img.URL, &img.Path, &img.Bytes); err != nil {
			return nil, err
		}
		images = append(images, &img)
	}
	return images, rows.Err()
}
