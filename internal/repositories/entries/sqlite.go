package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mydayapp/myday/internal/common"
	"github.com/mydayapp/myday/internal/dbx"
	"github.com/mydayapp/myday/internal/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// remoteID maps the empty string to NULL so the unique index on remote_id
// only constrains synced entries.
func remoteID(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r *SQLiteRepository) Insert(ctx context.Context, e *models.DiaryEntry) (int64, error) {
	query := `INSERT INTO entries (remote_id, title, content, date, updated_at)
			VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		remoteID(e.RemoteID), e.Title, e.Content, e.Date, e.UpdatedAt)
	if err != nil {
		return 0, fmt.Errorf("%w: insert entry: %v", common.ErrStorage, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: last insert id: %v", common.ErrStorage, err)
	}
	e.ID = id
	return id, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, e *models.DiaryEntry) error {
	query := `UPDATE entries SET remote_id=?, title=?, content=?, date=?, updated_at=? WHERE id=?`
	res, err := r.db.ExecContext(ctx, query,
		remoteID(e.RemoteID), e.Title, e.Content, e.Date, e.UpdatedAt, e.ID)
	if err != nil {
		return fmt.Errorf("%w: update entry: %v", common.ErrStorage, err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected: %v", common.ErrStorage, err)
	}
	if ra == 0 {
		return fmt.Errorf("update entry %d: %w", e.ID, common.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("%w: delete entry: %v", common.ErrStorage, err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected: %v", common.ErrStorage, err)
	}
	if ra == 0 {
		return fmt.Errorf("delete entry %d: %w", id, common.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.DiaryEntry, error) {
	query := `SELECT id, remote_id, title, content, date, updated_at FROM entries WHERE id=?`
	return r.scanEntry(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteRepository) FindByRemoteID(ctx context.Context, rid string) (*models.DiaryEntry, error) {
	query := `SELECT id, remote_id, title, content, date, updated_at FROM entries WHERE remote_id=?`
	return r.scanEntry(r.db.QueryRowContext(ctx, query, rid))
}

func (r *SQLiteRepository) scanEntry(row *sql.Row) (*models.DiaryEntry, error) {
	e := &models.DiaryEntry{}
	var rid sql.NullString
	err := row.Scan(&e.ID, &rid, &e.Title, &e.Content, &e.Date, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scan entry: %v", common.ErrStorage, err)
	}
	e.RemoteID = rid.String
	return e, nil
}

func (r *SQLiteRepository) All(ctx context.Context) ([]models.DiaryEntry, error) {
	query := `SELECT id, remote_id, title, content, date, updated_at FROM entries
			ORDER BY date DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: select entries: %v", common.ErrStorage, err)
	}
	defer rows.Close()

	var result []models.DiaryEntry
	for rows.Next() {
		var e models.DiaryEntry
		var rid sql.NullString
		if err := rows.Scan(&e.ID, &rid, &e.Title, &e.Content, &e.Date, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan entry: %v", common.ErrStorage, err)
		}
		e.RemoteID = rid.String
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate entries: %v", common.ErrStorage, err)
	}
	return result, nil
}

func (r *SQLiteRepository) InsertDeleted(ctx context.Context, e *models.DeletedEntry) error {
	query := `INSERT INTO deleted_entries (id, remote_id, title, content, date, updated_at, deleted_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID, remoteID(e.RemoteID), e.Title, e.Content, e.Date, e.UpdatedAt, e.DeletedAt)
	if err != nil {
		return fmt.Errorf("%w: insert deleted entry: %v", common.ErrStorage, err)
	}
	return nil
}

func (r *SQLiteRepository) GetDeletedByID(ctx context.Context, id int64) (*models.DeletedEntry, error) {
	query := `SELECT id, remote_id, title, content, date, updated_at, deleted_at
			FROM deleted_entries WHERE id=?`
	e := &models.DeletedEntry{}
	var rid sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&e.ID, &rid, &e.Title, &e.Content, &e.Date, &e.UpdatedAt, &e.DeletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scan deleted entry: %v", common.ErrStorage, err)
	}
	e.RemoteID = rid.String
	return e, nil
}

func (r *SQLiteRepository) ListDeleted(ctx context.Context) ([]models.DeletedEntry, error) {
	query := `SELECT id, remote_id, title, content, date, updated_at, deleted_at
			FROM deleted_entries ORDER BY deleted_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: select deleted entries: %v", common.ErrStorage, err)
	}
	defer rows.Close()

	var result []models.DeletedEntry
	for rows.Next() {
		var e models.DeletedEntry
		var rid sql.NullString
		if err := rows.Scan(&e.ID, &rid, &e.Title, &e.Content, &e.Date, &e.UpdatedAt, &e.DeletedAt); err != nil {
			return nil, fmt.Errorf("%w: scan deleted entry: %v", common.ErrStorage, err)
		}
		e.RemoteID = rid.String
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate deleted entries: %v", common.ErrStorage, err)
	}
	return result, nil
}

func (r *SQLiteRepository) RemoveDeleted(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM deleted_entries WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("%w: remove deleted entry: %v", common.ErrStorage, err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected: %v", common.ErrStorage, err)
	}
	if ra == 0 {
		return fmt.Errorf("remove deleted entry %d: %w", id, common.ErrNotFound)
	}
	return nil
}
