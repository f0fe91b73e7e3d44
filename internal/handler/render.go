// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/PaulKinlan/BloodPressureTracker/internal/middleware"
	"github.com/PaulKinlan/BloodPressureTracker/internal/model"
	"github.com/PaulKinlan/BloodPressureTracker/internal/view"
)

// render は共通データ（認証状態・フラッシュ・CSRFトークン）を補ってビューを描画する。
func render(renderer *view.Renderer, w http.ResponseWriter, r *http.Request, status int, name string, data view.Data) {
	if data == nil {
		data = view.Data{}
	}

	if userID, err := middleware.UserIDFromContext(r.Context()); err == nil {
		data["UserID"] = userID
	}
	data["Flashes"] = popFlashes(w, r)
	data["CSRFToken"] = middleware.CSRFTokenFromRequest(r)

	if err := renderer.Render(w, status, name, data); err != nil {
		slog.Error("failed to render view",
			slog.String("view", name),
			slog.String("error", err.Error()),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// renderNotFound は404エラーページを描画する。
// 存在しない記録IDへの操作は無視せずリクエスト失敗として返す。
func renderNotFound(renderer *view.Renderer, w http.ResponseWriter, r *http.Request) {
	render(renderer, w, r, http.StatusNotFound, "error", view.Data{
		"Title":   "ページが見つかりません",
		"Message": "指定されたページまたは記録は存在しません。",
	})
}

// flashAndRedirect はフラッシュメッセージを設定してリダイレクトする。
// POST後のリダイレクト（PRG）に使用する。
func flashAndRedirect(w http.ResponseWriter, r *http.Request, message, path string) {
	setFlash(w, message)
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// handleServiceError はサービス層のエラーをユーザー向けの応答に変換する。
// - 測定記録の未検出: 404ページ（存在しないIDへの操作はリクエスト失敗）
// - 所有権エラー: ダッシュボードへフラッシュ付きリダイレクト
// - その他のドメインエラー: 元のフォームへフラッシュ付きリダイレクト
// - 想定外のエラー: ログに記録し、汎用メッセージで元のフォームへ戻す
func handleServiceError(renderer *view.Renderer, w http.ResponseWriter, r *http.Request, err error, backPath string) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case model.ErrCodeReadingNotFound:
			renderNotFound(renderer, w, r)
		case model.ErrCodeNotOwner:
			flashAndRedirect(w, r, apiErr.Message, "/dashboard")
		default:
			flashAndRedirect(w, r, apiErr.Message, backPath)
		}
		return
	}

	slog.Error("unexpected service error",
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	flashAndRedirect(w, r, "エラーが発生しました。しばらく待ってから再度お試しください。", backPath)
}
