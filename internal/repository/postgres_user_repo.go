package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/PaulKinlan/BloodPressureTracker/internal/model"
)

// pqUniqueViolation はPostgreSQLの一意制約違反エラーコード。
const pqUniqueViolation = "23505"

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findBy(ctx, "id", id)
}

// FindByUsername はユーザー名でユーザーを検索する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findBy(ctx, "username", username)
}

// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findBy(ctx, "email", email)
}

// findBy は単一カラムの等値条件でユーザーを検索する。
// columnは呼び出し側が固定文字列のみを渡す。
func (r *PostgresUserRepo) findBy(ctx context.Context, column, value string) (*model.User, error) {
	user := &model.User{}
	var dob sql.NullTime

	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, first_name, last_name,
		        date_of_birth, preferred_unit, created_at, updated_at
		 FROM users WHERE `+column+` = $1`,
		value,
	).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.FirstName, &user.LastName, &dob, &user.PreferredUnit,
		&user.CreatedAt, &user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by %s: %w", column, err)
	}

	if dob.Valid {
		t := dob.Time
		user.DateOfBirth = &t
	}

	return user, nil
}

// Create はユーザーを作成する。
// 一意制約違反はDUPLICATE_USERNAME / DUPLICATE_EMAILのAPIErrorに変換する。
func (r *PostgresUserRepo) Create(ctx context.Context, user *model.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, first_name, last_name,
		                    date_of_birth, preferred_unit, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		user.ID, user.Username, user.Email, user.PasswordHash,
		user.FirstName, user.LastName, nullableTime(user.DateOfBirth),
		user.PreferredUnit, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if apiErr := mapUniqueViolation(err); apiErr != nil {
			return apiErr
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// UpdateProfile はプロフィール項目を更新する。
func (r *PostgresUserRepo) UpdateProfile(ctx context.Context, user *model.User) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users
		 SET email = $2, first_name = $3, last_name = $4,
		     date_of_birth = $5, preferred_unit = $6, updated_at = now()
		 WHERE id = $1`,
		user.ID, user.Email, user.FirstName, user.LastName,
		nullableTime(user.DateOfBirth), user.PreferredUnit,
	)
	if err != nil {
		if apiErr := mapUniqueViolation(err); apiErr != nil {
			return apiErr
		}
		return fmt.Errorf("failed to update user profile: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.NewUserNotFoundError()
	}
	return nil
}

// UpdatePasswordHash はパスワードハッシュを更新する。
func (r *PostgresUserRepo) UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`,
		userID, passwordHash,
	)
	if err != nil {
		return fmt.Errorf("failed to update password hash: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.NewUserNotFoundError()
	}
	return nil
}

// mapUniqueViolation は一意制約違反をユーザー向けAPIErrorに変換する。
// 該当しないエラーの場合はnilを返す。
// 制約名（users_email_key / users_username_key）でemailとusernameを区別する。
func mapUniqueViolation(err error) *model.APIError {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || string(pqErr.Code) != pqUniqueViolation {
		return nil
	}

	if strings.Contains(pqErr.Constraint, "email") {
		return model.NewDuplicateEmailError()
	}
	return model.NewDuplicateUsernameError()
}

// nullableTime は*time.TimeをSQLのNULL許容値に変換する。
func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
