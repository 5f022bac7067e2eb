package uploads

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"pdfchat/internal/models"
)

// SQLStore keeps uploads as rows of the uploads table (see storage.Migrate).
type SQLStore struct {
	db     *sql.DB
	driver string
}

func NewSQLStore(db *sql.DB, driver string) (*SQLStore, error) {
	if db == nil {
		return nil, errors.New("database required")
	}
	driver = strings.ToLower(driver)
	switch driver {
	case "sqlite", "sqlite3":
		driver = "sqlite3"
	case "mysql":
	default:
		return nil, fmt.Errorf("unsupported upload store driver: %s", driver)
	}
	return &SQLStore{db: db, driver: driver}, nil
}

func (s *SQLStore) Put(ctx context.Context, data []byte, contentType string) (string, error) {
	if err := checkUpload(data, contentType); err != nil {
		return "", err
	}
	up := models.Upload{
		ID:          newID(),
		ContentType: PDFContentType,
		Size:        int64(len(data)),
		Data:        data,
		CreatedAt:   time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO uploads (id, content_type, size, data, created_at) VALUES (?, ?, ?, ?, ?)`,
		up.ID, up.ContentType, up.Size, up.Data, up.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("insert upload: %w", err)
	}
	return up.ID, nil
}

// Take removes the row while reading it, so a concurrent Take sees no row.
func (s *SQLStore) Take(ctx context.Context, id string) ([]byte, error) {
	if !ValidID(id) {
		return nil, ErrInvalidID
	}
	var (
		up  *models.Upload
		err error
	)
	if s.driver == "sqlite3" {
		up, err = s.takeReturning(ctx, id)
	} else {
		up, err = s.takeLocked(ctx, id)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("take upload: %w", err)
	}
	return up.Data, nil
}

func (s *SQLStore) takeReturning(ctx context.Context, id string) (*models.Upload, error) {
	up := &models.Upload{ID: id}
	err := s.db.QueryRowContext(ctx,
		`DELETE FROM uploads WHERE id = ? RETURNING content_type, size, data`, id).
		Scan(&up.ContentType, &up.Size, &up.Data)
	if err != nil {
		return nil, err
	}
	return up, nil
}

func (s *SQLStore) takeLocked(ctx context.Context, id string) (*models.Upload, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	up := &models.Upload{ID: id}
	err = tx.QueryRowContext(ctx,
		`SELECT content_type, size, data FROM uploads WHERE id = ? FOR UPDATE`, id).
		Scan(&up.ContentType, &up.Size, &up.Data)
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM uploads WHERE id = ?`, id); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return up, nil
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	if !ValidID(id) {
		return ErrInvalidID
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM uploads WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete upload: %w", err)
	}
	return nil
}

func (s *SQLStore) Sweep(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM uploads WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("sweep uploads: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return int(n), nil
}
