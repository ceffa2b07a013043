package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceLogRepository struct {
	db       *database.DB
	listener *Listener
}

func NewAttendanceLogRepository(db *database.DB, listener *Listener) attendance.LogRepository {
	return &attendanceLogRepository{db: db, listener: listener}
}

const logColumns = `
	id, user_id, to_char(work_date, 'YYYY-MM-DD'),
	clock_in, clock_out, is_break, break_start, break_total_minutes,
	status, notes, created_at, updated_at
`

func scanLog(row pgx.Row) (attendance.Log, error) {
	var l attendance.Log
	err := row.Scan(
		&l.ID, &l.UserID, &l.Date,
		&l.ClockIn, &l.ClockOut, &l.IsBreak, &l.BreakStart, &l.BreakTotalMinutes,
		&l.Status, &l.Notes, &l.CreatedAt, &l.UpdatedAt,
	)
	return l, err
}

// Insert implements attendance.LogRepository. The provisional id on the
// incoming log is discarded; the database assigns the real one.
func (r *attendanceLogRepository) Insert(ctx context.Context, log attendance.Log) (attendance.Log, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_logs (
			user_id, work_date, clock_in, clock_out, is_break, break_start,
			break_total_minutes, status, notes
		) VALUES (
			$1, $2::date, $3, $4, $5, $6, $7, $8, $9
		) RETURNING ` + logColumns

	stored, err := scanLog(q.QueryRow(ctx, query,
		log.UserID,
		log.Date,
		log.ClockIn,
		log.ClockOut,
		log.IsBreak,
		log.BreakStart,
		log.BreakTotalMinutes,
		log.Status,
		log.Notes,
	))
	if err != nil {
		return attendance.Log{}, fmt.Errorf("failed to insert attendance log: %w: %w", attendance.ErrWriteFailed, err)
	}

	return stored, nil
}

// Update implements attendance.LogRepository.
func (r *attendanceLogRepository) Update(ctx context.Context, log attendance.Log) (attendance.Log, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_logs
		SET clock_out = $2,
			is_break = $3,
			break_start = $4,
			break_total_minutes = $5,
			notes = $6,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + logColumns

	stored, err := scanLog(q.QueryRow(ctx, query,
		log.ID,
		log.ClockOut,
		log.IsBreak,
		log.BreakStart,
		log.BreakTotalMinutes,
		log.Notes,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Log{}, attendance.ErrLogNotFound
		}
		return attendance.Log{}, fmt.Errorf("failed to update attendance log: %w: %w", attendance.ErrWriteFailed, err)
	}

	return stored, nil
}

// Delete implements attendance.LogRepository.
func (r *attendanceLogRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendance_logs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance log: %w: %w", attendance.ErrWriteFailed, err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrLogNotFound
	}
	return nil
}

// Query implements attendance.LogRepository.
func (r *attendanceLogRepository) Query(ctx context.Context, scope attendance.Scope) ([]attendance.Log, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + logColumns + ` FROM attendance_logs`
	args := []interface{}{}
	if !scope.All() {
		query += ` WHERE user_id = $1`
		args = append(args, scope.UserID)
	}
	query += ` ORDER BY clock_in DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance logs: %w", err)
	}
	defer rows.Close()

	logs := make([]attendance.Log, 0)
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance log: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read attendance logs: %w", err)
	}

	return logs, nil
}

// Subscribe implements attendance.LogRepository via the LISTEN/NOTIFY feed.
func (r *attendanceLogRepository) Subscribe(ctx context.Context, scope attendance.Scope) (<-chan attendance.ChangeEvent, func(), error) {
	if r.listener == nil {
		return nil, nil, fmt.Errorf("no change listener configured")
	}
	ch, cleanup := r.listener.subscribe(scope)
	return ch, cleanup, nil
}
