package handler

import (
	"context"
	"net/http"

	"github.com/PaulKinlan/BloodPressureTracker/internal/middleware"
	"github.com/PaulKinlan/BloodPressureTracker/internal/model"
	"github.com/PaulKinlan/BloodPressureTracker/internal/user"
	"github.com/PaulKinlan/BloodPressureTracker/internal/view"
)

// UserServiceInterface はプロフィールハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	Profile(ctx context.Context, userID string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID string, input user.ProfileInput) (*model.User, error)
}

// ProfileHandler はプロフィール管理のHTTPハンドラー。
type ProfileHandler struct {
	service  UserServiceInterface
	renderer *view.Renderer
}

// NewProfileHandler はProfileHandlerを生成する。
func NewProfileHandler(service UserServiceInterface, renderer *view.Renderer) *ProfileHandler {
	return &ProfileHandler{
		service:  service,
		renderer: renderer,
	}
}

// Show はプロフィールフォームを表示する。
// GET /profile
func (h *ProfileHandler) Show(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	u, err := h.service.Profile(r.Context(), userID)
	if err != nil {
		handleServiceError(h.renderer, w, r, err, "/")
		return
	}

	render(h.renderer, w, r, http.StatusOK, "profile", view.Data{
		"User": u,
	})
}

// Update はプロフィール項目を更新する。
// メールアドレスの重複は具体的なフラッシュメッセージでフォームへ戻す。
// POST /profile
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		flashAndRedirect(w, r, "フォームの送信内容を読み取れませんでした。", "/profile")
		return
	}

	dob, err := parseOptionalDate(r, "date_of_birth")
	if err != nil {
		handleServiceError(h.renderer, w, r, err, "/profile")
		return
	}

	input := user.ProfileInput{
		Email:         r.PostFormValue("email"),
		FirstName:     r.PostFormValue("first_name"),
		LastName:      r.PostFormValue("last_name"),
		DateOfBirth:   dob,
		PreferredUnit: r.PostFormValue("preferred_unit"),
	}

	if _, err := h.service.UpdateProfile(r.Context(), userID, input); err != nil {
		handleServiceError(h.renderer, w, r, err, "/profile")
		return
	}

	flashAndRedirect(w, r, "プロフィールを更新しました。", "/profile")
}
