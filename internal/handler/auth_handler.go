package handler

import (
	"context"
	"net/http"

	"github.com/PaulKinlan/BloodPressureTracker/internal/metrics"
	"github.com/PaulKinlan/BloodPressureTracker/internal/middleware"
	"github.com/PaulKinlan/BloodPressureTracker/internal/model"
	"github.com/PaulKinlan/BloodPressureTracker/internal/view"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	Register(ctx context.Context, username, email, password, confirmation string) (*model.User, error)
	Login(ctx context.Context, username, password string, remember bool) (*model.Session, error)
	Logout(ctx context.Context, sessionID string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password, confirmation string) error
	VerifyResetToken(token string) error
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	CookieDomain   string
	CookieSecure   bool
	SessionMaxAge  int // 短期セッションCookieの有効期間（秒）
	RememberMaxAge int // Remember MeセッションCookieの有効期間（秒）
}

// AuthHandler は登録・ログイン・ログアウトのHTTPハンドラー。
type AuthHandler struct {
	service   AuthServiceInterface
	renderer  *view.Renderer
	collector metrics.MetricsCollector
	config    AuthHandlerConfig
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, renderer *view.Renderer, collector metrics.MetricsCollector, config AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		service:   service,
		renderer:  renderer,
		collector: collector,
		config:    config,
	}
}

// Index はランディングページを表示する。
// 認証済みユーザーはダッシュボードへリダイレクトする。
// GET /
func (h *AuthHandler) Index(w http.ResponseWriter, r *http.Request) {
	if _, err := middleware.UserIDFromContext(r.Context()); err == nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	render(h.renderer, w, r, http.StatusOK, "index", nil)
}

// RegisterForm は登録フォームを表示する。
// GET /register
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	render(h.renderer, w, r, http.StatusOK, "register", nil)
}

// Register は新規アカウントを作成する。
// バリデーション失敗・重複はいずれも具体的なフラッシュメッセージで
// 登録フォームへ戻す。
// POST /register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		flashAndRedirect(w, r, "フォームの送信内容を読み取れませんでした。", "/register")
		return
	}

	_, err := h.service.Register(r.Context(),
		r.PostFormValue("username"),
		r.PostFormValue("email"),
		r.PostFormValue("password"),
		r.PostFormValue("password_confirmation"),
	)
	if err != nil {
		handleServiceError(h.renderer, w, r, err, "/register")
		return
	}

	flashAndRedirect(w, r, "登録が完了しました。ログインしてください。", "/login")
}

// LoginForm はログインフォームを表示する。
// GET /login
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	render(h.renderer, w, r, http.StatusOK, "login", nil)
}

// Login は認証を行い、セッションCookieを設定する。
// Remember Meが選択された場合はCookieとセッションの有効期間を30日に延長する。
// 選択されない場合はブラウザセッション限りのCookieとする（MaxAge未設定）。
// POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		flashAndRedirect(w, r, "フォームの送信内容を読み取れませんでした。", "/login")
		return
	}

	remember := r.PostFormValue("remember") != ""

	session, err := h.service.Login(r.Context(),
		r.PostFormValue("username"),
		r.PostFormValue("password"),
		remember,
	)
	if err != nil {
		h.collector.RecordLoginFailure()
		handleServiceError(h.renderer, w, r, err, "/login")
		return
	}

	cookie := &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.ID,
		Path:     "/",
		Domain:   h.config.CookieDomain,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	if remember {
		cookie.MaxAge = h.config.RememberMaxAge
	}
	http.SetCookie(w, cookie)

	h.collector.RecordLoginSuccess()
	flashAndRedirect(w, r, "ログインしました。", "/dashboard")
}

// Logout はセッションを破棄してCookieを削除する。
// GET /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		// セッション破棄の失敗はログアウトの完了を妨げない
		_ = h.service.Logout(r.Context(), cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	flashAndRedirect(w, r, "ログアウトしました。", "/")
}
