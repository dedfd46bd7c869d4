package sleep

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Result messages surfaced by the repository. The update path reports a
// missing id differently from a write that touched zero rows.
const (
	msgNotFound   = "Sleep record not found."
	msgNoSuchID   = "No sleep record with that ID found."
	msgNoChanges  = "No changes were saved."
	msgNotDeleted = "Sleep record not deleted."
)

// Repository is the query/mutation engine over the record store. Every
// method returns a typed result and never an error: storage faults are
// translated into fail results at this boundary.
type Repository interface {
	// GetPage returns a filtered, sorted, paginated page of records.
	GetPage(ctx context.Context, q PageQuery) PagedResponse[Record]

	// GetByID returns a single non-deleted record.
	GetByID(ctx context.Context, id int64) Response[Record]

	// Create inserts a new record; the store assigns the id.
	Create(ctx context.Context, rec Record) Response[Record]

	// Update overwrites the mutable fields of an existing record.
	Update(ctx context.Context, rec Record) Response[Record]

	// SoftDelete marks a record deleted. The row is never removed.
	SoftDelete(ctx context.Context, id int64) Response[Record]
}

// Compile-time interface guard.
var _ Repository = (*SQLiteRepository)(nil)

// SQLiteRepository implements Repository against the sleep_records table.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a Repository. The sleep_records table must
// already exist (created by Migrations).
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const recordColumns = "id, start_time, end_time, is_deleted"

// notDeleted is the soft-delete invariant baked into every read path.
const notDeleted = "is_deleted = 0"

func (r *SQLiteRepository) GetPage(ctx context.Context, q PageQuery) PagedResponse[Record] {
	q = q.normalize()

	// Build the WHERE clause with parameterized placeholders; filters are
	// conjunctive and applied only when present. Day filters compare the
	// date component only.
	where := notDeleted
	var args []any

	if q.Start != nil {
		where += " AND date(start_time) = date(?)"
		args = append(args, formatTime(*q.Start))
	}
	if q.End != nil {
		where += " AND date(end_time) = date(?)"
		args = append(args, formatTime(*q.End))
	}
	if q.MinDurationHours != nil {
		where += " AND " + durationExpr + " >= ?"
		args = append(args, *q.MinDurationHours)
	}
	if q.MaxDurationHours != nil {
		where += " AND " + durationExpr + " <= ?"
		args = append(args, *q.MaxDurationHours)
	}

	// Count matching rows before applying limit/offset.
	var total int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sleep_records WHERE "+where, args...,
	).Scan(&total)
	if err != nil {
		return PageFail[Record](faultMessage("GetPage", err), q.Page, q.PageSize)
	}

	sortExpr, ascending := q.resolveSort()
	orderDir := "DESC"
	if ascending {
		orderDir = "ASC"
	}

	queryArgs := make([]any, 0, len(args)+2)
	queryArgs = append(queryArgs, args...)
	queryArgs = append(queryArgs, q.PageSize, (q.Page-1)*q.PageSize)

	//nolint:gosec // where uses placeholders only; sortExpr comes from the whitelist
	query := fmt.Sprintf(
		"SELECT %s FROM sleep_records WHERE %s ORDER BY %s %s LIMIT ? OFFSET ?",
		recordColumns, where, sortExpr, orderDir,
	)

	rows, err := r.db.QueryContext(ctx, query, queryArgs...)
	if err != nil {
		return PageFail[Record](faultMessage("GetPage", err), q.Page, q.PageSize)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return PageFail[Record](faultMessage("GetPage", err), q.Page, q.PageSize)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return PageFail[Record](faultMessage("GetPage", err), q.Page, q.PageSize)
	}

	return PageSuccess(records, q.Page, q.PageSize, total)
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) Response[Record] {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+recordColumns+" FROM sleep_records WHERE id = ? AND "+notDeleted, id)
	rec, err := scanRecord(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return Fail[Record](msgNotFound)
		}
		return Fail[Record](faultMessage("GetByID", err))
	}
	return Success(rec)
}

func (r *SQLiteRepository) Create(ctx context.Context, rec Record) Response[Record] {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO sleep_records (start_time, end_time, is_deleted) VALUES (?, ?, 0)",
		formatTime(rec.Start), formatTime(rec.End),
	)
	if err != nil {
		return Fail[Record](faultMessage("Create", err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Fail[Record](faultMessage("Create", err))
	}
	rec.ID = id
	rec.IsDeleted = false
	return Success(rec)
}

func (r *SQLiteRepository) Update(ctx context.Context, rec Record) Response[Record] {
	// Separate existence check: a missing id is a distinct failure from a
	// write that saved nothing.
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sleep_records WHERE id = ? AND "+notDeleted, rec.ID,
	).Scan(&count)
	if err != nil {
		return Fail[Record](faultMessage("Update", err))
	}
	if count == 0 {
		return Fail[Record](msgNoSuchID)
	}

	res, err := r.db.ExecContext(ctx,
		"UPDATE sleep_records SET start_time = ?, end_time = ? WHERE id = ? AND "+notDeleted,
		formatTime(rec.Start), formatTime(rec.End), rec.ID,
	)
	if err != nil {
		return Fail[Record](faultMessage("Update", err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Fail[Record](msgNoChanges)
	}
	return Success(rec)
}

func (r *SQLiteRepository) SoftDelete(ctx context.Context, id int64) Response[Record] {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+recordColumns+" FROM sleep_records WHERE id = ? AND "+notDeleted, id)
	rec, err := scanRecord(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return Fail[Record](msgNotFound)
		}
		return Fail[Record](faultMessage("SoftDelete", err))
	}

	res, err := r.db.ExecContext(ctx,
		"UPDATE sleep_records SET is_deleted = 1 WHERE id = ? AND "+notDeleted, id)
	if err != nil {
		return Fail[Record](faultMessage("SoftDelete", err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Fail[Record](msgNotDeleted)
	}

	rec.IsDeleted = true
	return Success(rec)
}

// scanRecord scans one row; start/end are stored as RFC 3339 text.
func scanRecord(scan func(dest ...any) error) (Record, error) {
	var rec Record
	var startStr, endStr string
	if err := scan(&rec.ID, &startStr, &endStr, &rec.IsDeleted); err != nil {
		return Record{}, err
	}
	var err error
	if rec.Start, err = time.Parse(time.RFC3339, startStr); err != nil {
		return Record{}, fmt.Errorf("parse start_time %q: %w", startStr, err)
	}
	if rec.End, err = time.Parse(time.RFC3339, endStr); err != nil {
		return Record{}, fmt.Errorf("parse end_time %q: %w", endStr, err)
	}
	return rec, nil
}

// faultMessage formats a storage fault, prefixed with the operation that
// hit it. Faults surface as fail results, never as raised errors.
func faultMessage(op string, err error) string {
	return fmt.Sprintf("Error in sleep repository %s: %v", op, err)
}
