package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/PaulKinlan/BloodPressureTracker/internal/metrics"
	"github.com/PaulKinlan/BloodPressureTracker/internal/middleware"
	"github.com/PaulKinlan/BloodPressureTracker/internal/view"
)

// DBPinger はヘルスチェックでデータベースの疎通を確認するためのインターフェース。
type DBPinger interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionFinder middleware.SessionFinder
	RateLimiter   *middleware.RateLimiter
	CSRFConfig    middleware.CSRFConfig
	Logger        *slog.Logger

	// メトリクス
	Collector metrics.MetricsCollector
	Gatherer  prometheus.Gatherer

	// 認証・パスワードリセット
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// 測定記録
	ReadingService ReadingServiceInterface

	// プロフィール
	UserService UserServiceInterface

	// ビュー
	Renderer *view.Renderer

	// ヘルスチェック
	DB DBPinger
}

// NewRouter は全ルートとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → Logging → Metrics → CSRF → Session
//
// 認証必須ルートはRequireAuthと一般レート制限を追加する。
// 認証情報を受け付けるPOSTルートはIP単位のレート制限を追加する。
// /metrics と /healthz はチェーンの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	authHandler := NewAuthHandler(deps.AuthService, deps.Renderer, deps.Collector, deps.AuthConfig)
	readingHandler := NewReadingHandler(deps.ReadingService, deps.Renderer, deps.Collector)
	profileHandler := NewProfileHandler(deps.UserService, deps.Renderer)

	// --- 運用ルート（ミドルウェアチェーンの外） ---

	r.Get("/metrics", metrics.Handler(deps.Gatherer).ServeHTTP)
	r.Get("/healthz", healthcheckHandler(deps.DB))

	// --- アプリケーションルート ---

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewRecoveryMiddleware())
		r.Use(middleware.NewSecurityHeadersMiddleware())
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
		r.Use(metrics.NewMiddleware(deps.Collector))
		r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))

		// 認証不要のルート
		r.Get("/", authHandler.Index)
		r.Get("/register", authHandler.RegisterForm)
		r.Get("/login", authHandler.LoginForm)
		r.Get("/logout", authHandler.Logout)
		r.Get("/reset_password_request", authHandler.ResetRequestForm)
		r.Get("/reset_password/{token}", authHandler.ResetForm)

		// 認証情報を受け付けるPOSTはIP単位のレート制限で総当たりを抑止する
		r.Group(func(r chi.Router) {
			r.Use(deps.RateLimiter.AuthMiddleware())

			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/reset_password_request", authHandler.ResetRequest)
			r.Post("/reset_password/{token}", authHandler.Reset)
		})

		// 認証が必要なルート
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth("/login"))
			r.Use(deps.RateLimiter.GeneralMiddleware())

			r.Get("/dashboard", readingHandler.Dashboard)
			r.Post("/dashboard", readingHandler.CreateReading)

			r.Get("/edit_reading/{id}", readingHandler.EditForm)
			r.Post("/edit_reading/{id}", readingHandler.UpdateReading)
			r.Post("/delete_reading/{id}", readingHandler.DeleteReading)

			r.Get("/profile", profileHandler.Show)
			r.Post("/profile", profileHandler.Update)
		})
	})

	return r
}

// healthcheckHandler はデータベースの疎通を確認するハンドラーを返す。
func healthcheckHandler(db DBPinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			slog.Error("healthcheck failed",
				slog.String("error", err.Error()),
			)
			http.Error(w, "unhealthy", http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("ok")); err != nil {
			slog.Error("failed to write healthcheck response",
				slog.String("error", err.Error()),
			)
		}
	}
}
