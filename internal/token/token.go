// Package token はパスワードリセット用の署名付きトークンを提供する。
//
// トークンはサーバー側に保存しないステートレス方式で、メールアドレス・
// 発行時刻・用途タグをHMAC-SHA256で署名したJWTとして表現する。
// 検証時に署名・用途・経過時間をまとめて確認するため、失効テーブルや
// そのクリーンアップ処理を必要としない。
// トレードオフとして有効期限前の個別失効はできない（許容済みの制約）。
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// PurposePasswordReset はパスワードリセット用途のトークンであることを示す。
// 同一の署名鍵を他機能と共有しても、用途タグの不一致で再利用を防ぐ。
const PurposePasswordReset = "password-reset"

// ErrInvalidToken は検証に失敗したトークンを表す。
// 期限切れと改ざんは呼び出し側へ区別せずこのエラーで返す。
var ErrInvalidToken = fmt.Errorf("invalid or expired token")

// resetClaims はリセットトークンのペイロード。
type resetClaims struct {
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// Service は署名付きトークンの生成と検証を提供する。
type Service struct {
	secretKey []byte
	now       func() time.Time // テストから差し替え可能な現在時刻
}

// NewService はServiceを生成する。
func NewService(secretKey string) *Service {
	return &Service{
		secretKey: []byte(secretKey),
		now:       time.Now,
	}
}

// Generate は指定メールアドレスに対するリセットトークンを発行する。
func (s *Service) Generate(email string) (string, error) {
	now := s.now()
	claims := resetClaims{
		Email:   email,
		Purpose: PurposePasswordReset,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign reset token: %w", err)
	}

	return signed, nil
}

// Verify はトークンの署名・用途・発行からの経過時間を検証し、
// 埋め込まれたメールアドレスを返す。
// 検証失敗の理由は区別せずErrInvalidTokenを返す。
func (s *Service) Verify(tokenString string, maxAge time.Duration) (string, error) {
	claims := &resetClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}

	if claims.Purpose != PurposePasswordReset {
		return "", ErrInvalidToken
	}
	if claims.IssuedAt == nil {
		return "", ErrInvalidToken
	}
	if s.now().Sub(claims.IssuedAt.Time) > maxAge {
		return "", ErrInvalidToken
	}
	if claims.Email == "" {
		return "", ErrInvalidToken
	}

	return claims.Email, nil
}
