// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/PaulKinlan/BloodPressureTracker/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByUsername はユーザー名でユーザーを検索する。見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Create はユーザーを作成する。
	// username/emailの一意制約違反の場合はmodel.APIError
	// （DUPLICATE_USERNAME / DUPLICATE_EMAIL）を返す。
	Create(ctx context.Context, user *model.User) error

	// UpdateProfile はプロフィール項目（氏名・生年月日・表示単位・メール）を更新する。
	// email一意制約違反の場合はmodel.APIError（DUPLICATE_EMAIL）を返す。
	UpdateProfile(ctx context.Context, user *model.User) error

	// UpdatePasswordHash はパスワードハッシュを更新する。
	UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	// パスワードリセット時の全端末ログアウトに使用する。
	DeleteByUserID(ctx context.Context, userID string) error
}

// ReadingRepository は血圧測定記録の永続化インターフェース。
// 所有権の判定に必要なuser_idは全ての読み出しで返される。
type ReadingRepository interface {
	// FindByID は指定IDの測定記録を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Reading, error)

	// ListRecentByUserID はユーザーの測定記録をtaken_at降順で最大limit件返す。
	ListRecentByUserID(ctx context.Context, userID string, limit int) ([]*model.Reading, error)

	// Create は測定記録を作成する。
	Create(ctx context.Context, reading *model.Reading) error

	// Update は測定記録の測定値・メモ・測定日時を更新する。
	// 所有権の検証は呼び出し側（サービス層）の責務。
	Update(ctx context.Context, reading *model.Reading) error

	// DeleteByID は指定IDの測定記録を削除する。
	DeleteByID(ctx context.Context, id string) error
}
