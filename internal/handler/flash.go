package handler

import (
	"encoding/base64"
	"net/http"
)

// flashCookieName はフラッシュメッセージを保持する読み捨てCookieの名前。
// 状態変更操作の成否はこのフラッシュメッセージのみでユーザーに伝える。
const flashCookieName = "flash"

// setFlash は次のリクエストで1回だけ表示されるメッセージを設定する。
// Cookie値に使用できない文字を含むためbase64urlでエンコードする。
func setFlash(w http.ResponseWriter, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString([]byte(message)),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlashes はフラッシュメッセージを取り出し、Cookieを削除する。
// メッセージが無い場合は空のスライスを返す。
func popFlashes(w http.ResponseWriter, r *http.Request) []string {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	// 読み取り後は即座に破棄する
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	decoded, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}

	return []string{string(decoded)}
}
