package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/PaulKinlan/BloodPressureTracker/internal/model"
)

// newResetRouter はトークン付きURLパラメータを解決するためchiルーターに載せる。
func newResetRouter(h *AuthHandler) chi.Router {
	r := chi.NewRouter()
	r.Get("/reset_password_request", h.ResetRequestForm)
	r.Post("/reset_password_request", h.ResetRequest)
	r.Get("/reset_password/{token}", h.ResetForm)
	r.Post("/reset_password/{token}", h.Reset)
	return r
}

func TestAuthHandler_ResetRequest_Success(t *testing.T) {
	collector := &mockCollector{}
	gotEmail := ""
	service := &mockAuthService{
		requestPasswordResetFn: func(ctx context.Context, email string) error {
			gotEmail = email
			return nil
		},
	}
	router := newResetRouter(newAuthHandler(t, service, collector))

	form := url.Values{}
	form.Set("email", "taro@example.com")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, postForm("/reset_password_request", form))

	assertRedirect(t, rec, "/login")
	if gotEmail != "taro@example.com" {
		t.Errorf("email = %q, want %q", gotEmail, "taro@example.com")
	}
	if collector.resetRequested != 1 {
		t.Errorf("resetRequested count = %d, want 1", collector.resetRequested)
	}
	if msg := flashMessage(t, rec); !strings.Contains(msg, "登録されている場合") {
		t.Errorf("flash = %q, want neutral confirmation message", msg)
	}
}

func TestAuthHandler_ResetRequest_UnknownEmail_SameResponse(t *testing.T) {
	// アカウントの存在を漏らさないため、未登録メールでも成功時と同じ応答を返す
	service := &mockAuthService{
		requestPasswordResetFn: func(ctx context.Context, email string) error {
			return nil
		},
	}
	router := newResetRouter(newAuthHandler(t, service, &mockCollector{}))

	form := url.Values{}
	form.Set("email", "unknown@example.com")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, postForm("/reset_password_request", form))

	assertRedirect(t, rec, "/login")
	if msg := flashMessage(t, rec); !strings.Contains(msg, "登録されている場合") {
		t.Errorf("flash = %q, want the same neutral message as for known emails", msg)
	}
}

func TestAuthHandler_ResetForm_ValidToken_RendersForm(t *testing.T) {
	router := newResetRouter(newAuthHandler(t, &mockAuthService{}, &mockCollector{}))

	req := httptest.NewRequest(http.MethodGet, "/reset_password/valid-token", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if body := rec.Body.String(); !strings.Contains(body, "valid-token") {
		t.Error("expected form to carry the reset token")
	}
}

func TestAuthHandler_ResetForm_InvalidToken_RedirectsToLogin(t *testing.T) {
	service := &mockAuthService{
		verifyResetTokenFn: func(token string) error {
			return model.NewInvalidResetTokenError()
		},
	}
	router := newResetRouter(newAuthHandler(t, service, &mockCollector{}))

	req := httptest.NewRequest(http.MethodGet, "/reset_password/expired", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assertRedirect(t, rec, "/login")
	if msg := flashMessage(t, rec); !strings.Contains(msg, "無効または期限切れ") {
		t.Errorf("flash = %q, want invalid token message", msg)
	}
}

func TestAuthHandler_Reset_Success(t *testing.T) {
	var gotToken, gotPassword string
	service := &mockAuthService{
		resetPasswordFn: func(ctx context.Context, token, password, confirmation string) error {
			gotToken, gotPassword = token, password
			return nil
		},
	}
	router := newResetRouter(newAuthHandler(t, service, &mockCollector{}))

	form := url.Values{}
	form.Set("password", "NewPassword1")
	form.Set("password_confirmation", "NewPassword1")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, postForm("/reset_password/valid-token", form))

	assertRedirect(t, rec, "/login")
	if gotToken != "valid-token" {
		t.Errorf("token = %q, want %q", gotToken, "valid-token")
	}
	if gotPassword != "NewPassword1" {
		t.Errorf("password = %q, want %q", gotPassword, "NewPassword1")
	}
	if msg := flashMessage(t, rec); !strings.Contains(msg, "パスワードを更新しました") {
		t.Errorf("flash = %q, want password updated message", msg)
	}
}

func TestAuthHandler_Reset_InvalidToken_RedirectsBack(t *testing.T) {
	service := &mockAuthService{
		resetPasswordFn: func(ctx context.Context, token, password, confirmation string) error {
			return model.NewInvalidResetTokenError()
		},
	}
	router := newResetRouter(newAuthHandler(t, service, &mockCollector{}))

	form := url.Values{}
	form.Set("password", "NewPassword1")
	form.Set("password_confirmation", "NewPassword1")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, postForm("/reset_password/tampered", form))

	assertRedirect(t, rec, "/reset_password/tampered")
}

func TestAuthHandler_Reset_PasswordMismatch_RedirectsBack(t *testing.T) {
	service := &mockAuthService{
		resetPasswordFn: func(ctx context.Context, token, password, confirmation string) error {
			return model.NewPasswordMismatchError()
		},
	}
	router := newResetRouter(newAuthHandler(t, service, &mockCollector{}))

	form := url.Values{}
	form.Set("password", "NewPassword1")
	form.Set("password_confirmation", "Different1")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, postForm("/reset_password/valid-token", form))

	assertRedirect(t, rec, "/reset_password/valid-token")
	if msg := flashMessage(t, rec); !strings.Contains(msg, "一致しません") {
		t.Errorf("flash = %q, want mismatch message", msg)
	}
}
