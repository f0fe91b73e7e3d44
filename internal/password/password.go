// Package password はパスワードのハッシュ化・照合と受け入れポリシーを提供する。
// 平文パスワードは一切保存せず、bcryptハッシュのみを扱う。
package password

import (
	"fmt"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/PaulKinlan/BloodPressureTracker/internal/model"
)

// MinLength はパスワードの最小文字数。
const MinLength = 8

// Hash は平文パスワードのbcryptハッシュを生成する。
func Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify は平文パスワードが保存済みハッシュと一致するかを判定する。
// bcryptの比較は定数時間で行われる。
func Verify(hash, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// ValidatePolicy はパスワード受け入れポリシーを検証する。
// 最初に違反したルールに対応する具体的なエラーを返す。
// ルール: 8文字以上、大文字・小文字・数字を各1文字以上含む。
func ValidatePolicy(plaintext string) error {
	if len(plaintext) < MinLength {
		return model.NewPasswordTooShortError(MinLength)
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range plaintext {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasUpper {
		return model.NewPasswordNoUpperError()
	}
	if !hasLower {
		return model.NewPasswordNoLowerError()
	}
	if !hasDigit {
		return model.NewPasswordNoDigitError()
	}

	return nil
}

// ValidateConfirmation は確認用パスワードとの完全一致を検証する。
func ValidateConfirmation(plaintext, confirmation string) error {
	if plaintext != confirmation {
		return model.NewPasswordMismatchError()
	}
	return nil
}
