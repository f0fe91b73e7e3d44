// Package model はドメインモデルを定義する。
package model

import "time"

// 血圧の表示単位。
const (
	UnitMmHg = "mmHg"
	UnitKPa  = "kPa"
)

// User はサービス利用ユーザーを表す。
// PasswordHashにはbcryptハッシュのみを格納し、平文パスワードは保持しない。
type User struct {
	ID            string
	Username      string
	Email         string
	PasswordHash  string
	FirstName     string
	LastName      string
	DateOfBirth   *time.Time
	PreferredUnit string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Session はユーザーのログインセッションを表す。
// Rememberがtrueの場合は30日間の延長セッション、falseの場合は
// ブラウザセッション相当の短期セッションとなる。
type Session struct {
	ID        string
	UserID    string
	Remember  bool
	ExpiresAt time.Time
	CreatedAt time.Time
}

// ValidUnit は表示単位として許可された値かどうかを判定する。
func ValidUnit(unit string) bool {
	switch unit {
	case UnitMmHg, UnitKPa:
		return true
	default:
		return false
	}
}
