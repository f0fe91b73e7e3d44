// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, authorization, conflict, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeDuplicateUsername  = "DUPLICATE_USERNAME"
	ErrCodeDuplicateEmail     = "DUPLICATE_EMAIL"
	ErrCodePasswordTooShort   = "PASSWORD_TOO_SHORT"
	ErrCodePasswordNoUpper    = "PASSWORD_NO_UPPER"
	ErrCodePasswordNoLower    = "PASSWORD_NO_LOWER"
	ErrCodePasswordNoDigit    = "PASSWORD_NO_DIGIT"
	ErrCodePasswordMismatch   = "PASSWORD_MISMATCH"
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeInvalidUnit        = "INVALID_UNIT"
	ErrCodeReadingNotFound    = "READING_NOT_FOUND"
	ErrCodeNotOwner           = "NOT_OWNER"
	ErrCodeInvalidResetToken  = "INVALID_RESET_TOKEN"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
)

// NewInvalidCredentialsError は認証失敗エラーを生成する。
// ユーザー名不明とパスワード不一致は区別せず同一メッセージを返す。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "ユーザー名またはパスワードが正しくありません。",
		Category: "auth",
		Action:   "入力内容を確認して再度お試しください。",
	}
}

// NewDuplicateUsernameError はユーザー名重複エラーを生成する。
func NewDuplicateUsernameError() *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateUsername,
		Message:  "このユーザー名は既に使用されています。",
		Category: "conflict",
		Action:   "別のユーザー名を選択してください。",
	}
}

// NewDuplicateEmailError はメールアドレス重複エラーを生成する。
func NewDuplicateEmailError() *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateEmail,
		Message:  "このメールアドレスは既に登録されています。",
		Category: "conflict",
		Action:   "別のメールアドレスを使用するか、ログインしてください。",
	}
}

// NewPasswordTooShortError はパスワード長不足エラーを生成する。
func NewPasswordTooShortError(minLength int) *APIError {
	return &APIError{
		Code:     ErrCodePasswordTooShort,
		Message:  fmt.Sprintf("パスワードは%d文字以上で入力してください。", minLength),
		Category: "validation",
		Action:   "より長いパスワードを設定してください。",
	}
}

// NewPasswordNoUpperError は大文字欠如エラーを生成する。
func NewPasswordNoUpperError() *APIError {
	return &APIError{
		Code:     ErrCodePasswordNoUpper,
		Message:  "パスワードには大文字を1文字以上含めてください。",
		Category: "validation",
		Action:   "大文字（A-Z）を追加してください。",
	}
}

// NewPasswordNoLowerError は小文字欠如エラーを生成する。
func NewPasswordNoLowerError() *APIError {
	return &APIError{
		Code:     ErrCodePasswordNoLower,
		Message:  "パスワードには小文字を1文字以上含めてください。",
		Category: "validation",
		Action:   "小文字（a-z）を追加してください。",
	}
}

// NewPasswordNoDigitError は数字欠如エラーを生成する。
func NewPasswordNoDigitError() *APIError {
	return &APIError{
		Code:     ErrCodePasswordNoDigit,
		Message:  "パスワードには数字を1文字以上含めてください。",
		Category: "validation",
		Action:   "数字（0-9）を追加してください。",
	}
}

// NewPasswordMismatchError は確認用パスワード不一致エラーを生成する。
func NewPasswordMismatchError() *APIError {
	return &APIError{
		Code:     ErrCodePasswordMismatch,
		Message:  "確認用パスワードが一致しません。",
		Category: "validation",
		Action:   "同じパスワードを2回入力してください。",
	}
}

// NewInvalidInputError は入力値の形式エラーを生成する。
func NewInvalidInputError(field string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidInput,
		Message:  fmt.Sprintf("入力値が不正です: %s", field),
		Category: "validation",
		Action:   "入力内容を確認して再度お試しください。",
	}
}

// NewInvalidUnitError は表示単位の値エラーを生成する。
func NewInvalidUnitError(unit string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidUnit,
		Message:  fmt.Sprintf("無効な表示単位です: %s", unit),
		Category: "validation",
		Action:   "mmHg または kPa を指定してください。",
	}
}

// NewReadingNotFoundError は測定記録未検出エラーを生成する。
func NewReadingNotFoundError(readingID string) *APIError {
	return &APIError{
		Code:     ErrCodeReadingNotFound,
		Message:  fmt.Sprintf("指定された測定記録が見つかりません: %s", readingID),
		Category: "validation",
		Action:   "記録の一覧から操作し直してください。",
	}
}

// NewNotOwnerError は他ユーザーの記録への操作エラーを生成する。
// 未検出（READING_NOT_FOUND）とは区別する。
func NewNotOwnerError() *APIError {
	return &APIError{
		Code:     ErrCodeNotOwner,
		Message:  "この測定記録を操作する権限がありません。",
		Category: "authorization",
		Action:   "自分の記録のみ編集・削除できます。",
	}
}

// NewInvalidResetTokenError はリセットトークンエラーを生成する。
// 期限切れと改ざんは区別せず同一メッセージを返す。
func NewInvalidResetTokenError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidResetToken,
		Message:  "パスワードリセットのリンクが無効または期限切れです。",
		Category: "auth",
		Action:   "リセットメールを再度リクエストしてください。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}
