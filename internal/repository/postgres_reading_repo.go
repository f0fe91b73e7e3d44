package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/PaulKinlan/BloodPressureTracker/internal/model"
)

// PostgresReadingRepo はPostgreSQLを使用した血圧測定記録リポジトリ。
type PostgresReadingRepo struct {
	db *sql.DB
}

// NewPostgresReadingRepo はPostgresReadingRepoを生成する。
func NewPostgresReadingRepo(db *sql.DB) *PostgresReadingRepo {
	return &PostgresReadingRepo{db: db}
}

// FindByID は指定IDの測定記録を取得する。見つからない場合はnilを返す。
func (r *PostgresReadingRepo) FindByID(ctx context.Context, id string) (*model.Reading, error) {
	reading := &model.Reading{}
	var pulse sql.NullInt64

	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, taken_at, systolic, diastolic, pulse, notes, created_at, updated_at
		 FROM readings WHERE id = $1`,
		id,
	).Scan(
		&reading.ID, &reading.UserID, &reading.TakenAt,
		&reading.Systolic, &reading.Diastolic, &pulse, &reading.Notes,
		&reading.CreatedAt, &reading.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find reading by ID: %w", err)
	}

	if pulse.Valid {
		p := int(pulse.Int64)
		reading.Pulse = &p
	}

	return reading, nil
}

// ListRecentByUserID はユーザーの測定記録をtaken_at降順で最大limit件返す。
func (r *PostgresReadingRepo) ListRecentByUserID(ctx context.Context, userID string, limit int) ([]*model.Reading, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, taken_at, systolic, diastolic, pulse, notes, created_at, updated_at
		 FROM readings
		 WHERE user_id = $1
		 ORDER BY taken_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list readings: %w", err)
	}
	defer rows.Close()

	var readings []*model.Reading
	for rows.Next() {
		reading := &model.Reading{}
		var pulse sql.NullInt64

		if err := rows.Scan(
			&reading.ID, &reading.UserID, &reading.TakenAt,
			&reading.Systolic, &reading.Diastolic, &pulse, &reading.Notes,
			&reading.CreatedAt, &reading.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan reading: %w", err)
		}

		if pulse.Valid {
			p := int(pulse.Int64)
			reading.Pulse = &p
		}

		readings = append(readings, reading)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate readings: %w", err)
	}

	return readings, nil
}

// Create は測定記録を作成する。
func (r *PostgresReadingRepo) Create(ctx context.Context, reading *model.Reading) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO readings (id, user_id, taken_at, systolic, diastolic, pulse, notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		reading.ID, reading.UserID, reading.TakenAt,
		reading.Systolic, reading.Diastolic, nullableInt(reading.Pulse), reading.Notes,
		reading.CreatedAt, reading.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert reading: %w", err)
	}
	return nil
}

// Update は測定記録の測定値・メモ・測定日時を更新する。
func (r *PostgresReadingRepo) Update(ctx context.Context, reading *model.Reading) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE readings
		 SET taken_at = $2, systolic = $3, diastolic = $4, pulse = $5, notes = $6, updated_at = now()
		 WHERE id = $1`,
		reading.ID, reading.TakenAt, reading.Systolic, reading.Diastolic,
		nullableInt(reading.Pulse), reading.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to update reading: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.NewReadingNotFoundError(reading.ID)
	}
	return nil
}

// DeleteByID は指定IDの測定記録を削除する。
func (r *PostgresReadingRepo) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM readings WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete reading: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.NewReadingNotFoundError(id)
	}
	return nil
}

// nullableInt は*intをSQLのNULL許容値に変換する。
func nullableInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}

// compile-time interface check
var _ ReadingRepository = (*PostgresReadingRepo)(nil)
