// Package mailer はメール送信ゲートウェイを提供する。
package mailer

import "context"

// Mailer はメール送信のインターフェース。
// ハンドラーからは送信完了を待たずに呼び出される（fire-and-forget）。
type Mailer interface {
	// Send は指定の宛先へメールを送信する。
	Send(ctx context.Context, to, subject, body string) error
}
