package audios

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/starfox1230/memorize/internal/common"
	"github.com/starfox1230/memorize/internal/dbx"
	"github.com/starfox1230/memorize/internal/server/models"
)

// PostgresRepository implements audio metadata storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert stores a new record. id and created_at are assigned by the database
// and written back into item, so listings always order by server time.
func (r *PostgresRepository) Insert(ctx context.Context, item *models.AudioItem) error {
	query := `
		INSERT INTO audios (username, title, text, voice, url, file_path)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at;
	`
	err := r.db.QueryRowContext(ctx, query,
		item.User, item.Title, item.Text, item.Voice, item.URL, item.FilePath).
		Scan(&item.ID, &item.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to insert audio: %w", err)
	}
	return nil
}

// GetByID returns the full record for id.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.AudioItem, error) {
	query := `
		SELECT id, username, title, text, voice, url, file_path, created_at FROM audios
		WHERE id=$1
	`

	result := &models.AudioItem{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&result.ID, &result.User, &result.Title, &result.Text,
		&result.Voice, &result.URL, &result.FilePath, &result.Timestamp)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to select audio: %w", err)
	}
	return result, nil
}

// DeleteByID removes the record for id. Exactly one row must be affected;
// zero rows means the id does not exist.
func (r *PostgresRepository) DeleteByID(ctx context.Context, id string) error {
	query := `DELETE FROM audios WHERE id=$1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete audio: %w", err)
	}
	ra, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	switch ra {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", ra)
	}
}

// List returns records ordered by created_at descending, optionally
// restricted to one owner.
func (r *PostgresRepository) List(ctx context.Context, user string) ([]*models.AudioItem, error) {
	query := `
		SELECT id, username, title, text, voice, url, file_path, created_at FROM audios
		ORDER BY created_at DESC
	`
	args := []any{}
	if user != "" {
		query = `
		SELECT id, username, title, text, voice, url, file_path, created_at FROM audios
		WHERE username=$1
		ORDER BY created_at DESC
	`
		args = append(args, user)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select audios: %w", err)
	}
	defer rows.Close()

	var result []*models.AudioItem
	for rows.Next() {
		var item models.AudioItem
		if err := rows.Scan(&item.ID, &item.User, &item.Title, &item.Text,
			&item.Voice, &item.URL, &item.FilePath, &item.Timestamp); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
