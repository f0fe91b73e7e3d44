// Package security はアプリケーションのセキュリティ機能を提供する。
//
// NotesSanitizerService は測定記録の自由記述メモをサニタイズし、
// XSS攻撃などのセキュリティリスクからユーザーを保護する。
// bluemondayライブラリの厳格ポリシーを使用し、HTMLタグを全て除去して
// プレーンテキストのみを保存する。
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// NotesSanitizerService はメモのサニタイズ機能のインターフェースを定義する。
// 測定記録の保存前および更新前に使用される。
type NotesSanitizerService interface {
	// Sanitize はメモからHTMLタグを全て除去したプレーンテキストを返す。
	// 前後の空白は取り除く。空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// notesSanitizer はNotesSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type notesSanitizer struct {
	policy *bluemonday.Policy
}

// NewNotesSanitizer はNotesSanitizerServiceの新しいインスタンスを生成する。
// メモは装飾不要のプレーンテキストとして扱うため、許可タグを持たない
// StrictPolicyを使用する。scriptタグやon*イベント属性を含むあらゆる
// マークアップが除去される。
func NewNotesSanitizer() *notesSanitizer {
	return &notesSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize はメモからHTMLタグを全て除去したプレーンテキストを返す。
func (s *notesSanitizer) Sanitize(raw string) string {
	return strings.TrimSpace(s.policy.Sanitize(raw))
}
