package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/PaulKinlan/BloodPressureTracker/internal/view"
)

// ResetRequestForm はリセットメール要求フォームを表示する。
// GET /reset_password_request
func (h *AuthHandler) ResetRequestForm(w http.ResponseWriter, r *http.Request) {
	render(h.renderer, w, r, http.StatusOK, "reset_password_request", nil)
}

// ResetRequest はリセットトークンを発行し、メールを送信する。
// アカウントの存在を漏らさないため、登録の有無にかかわらず
// 同一のフラッシュメッセージを表示する。
// POST /reset_password_request
func (h *AuthHandler) ResetRequest(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		flashAndRedirect(w, r, "フォームの送信内容を読み取れませんでした。", "/reset_password_request")
		return
	}

	if err := h.service.RequestPasswordReset(r.Context(), r.PostFormValue("email")); err != nil {
		handleServiceError(h.renderer, w, r, err, "/reset_password_request")
		return
	}

	h.collector.RecordResetMailRequested()
	flashAndRedirect(w, r, "メールアドレスが登録されている場合、リセット手順を送信しました。", "/login")
}

// ResetForm は新しいパスワードの入力フォームを表示する。
// トークンが無効または期限切れの場合はフォームを表示せず、
// 汎用メッセージと共にログイン画面へリダイレクトする。
// GET /reset_password/{token}
func (h *AuthHandler) ResetForm(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	if err := h.service.VerifyResetToken(token); err != nil {
		handleServiceError(h.renderer, w, r, err, "/login")
		return
	}

	render(h.renderer, w, r, http.StatusOK, "reset_password", view.Data{
		"Token": token,
	})
}

// Reset はトークンを検証して新しいパスワードを設定する。
// POST /reset_password/{token}
func (h *AuthHandler) Reset(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	if err := r.ParseForm(); err != nil {
		flashAndRedirect(w, r, "フォームの送信内容を読み取れませんでした。", "/reset_password/"+token)
		return
	}

	err := h.service.ResetPassword(r.Context(), token,
		r.PostFormValue("password"),
		r.PostFormValue("password_confirmation"),
	)
	if err != nil {
		handleServiceError(h.renderer, w, r, err, "/reset_password/"+token)
		return
	}

	flashAndRedirect(w, r, "パスワードを更新しました。新しいパスワードでログインしてください。", "/login")
}
