package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/PaulKinlan/BloodPressureTracker/internal/metrics"
	"github.com/PaulKinlan/BloodPressureTracker/internal/middleware"
	"github.com/PaulKinlan/BloodPressureTracker/internal/model"
	"github.com/PaulKinlan/BloodPressureTracker/internal/reading"
	"github.com/PaulKinlan/BloodPressureTracker/internal/view"
)

// ReadingServiceInterface は測定記録ハンドラーが必要とするサービスインターフェース。
// 全ての操作はサービス層で所有権が検証される。
type ReadingServiceInterface interface {
	Create(ctx context.Context, userID string, input reading.Input) (*model.Reading, error)
	ListRecent(ctx context.Context, userID string, limit int) ([]*model.Reading, error)
	Get(ctx context.Context, readingID, userID string) (*model.Reading, error)
	Update(ctx context.Context, readingID, userID string, input reading.Input) (*model.Reading, error)
	Delete(ctx context.Context, readingID, userID string) error
}

// ReadingHandler はダッシュボードと測定記録管理のHTTPハンドラー。
type ReadingHandler struct {
	service   ReadingServiceInterface
	renderer  *view.Renderer
	collector metrics.MetricsCollector
}

// NewReadingHandler はReadingHandlerを生成する。
func NewReadingHandler(service ReadingServiceInterface, renderer *view.Renderer, collector metrics.MetricsCollector) *ReadingHandler {
	return &ReadingHandler{
		service:   service,
		renderer:  renderer,
		collector: collector,
	}
}

// Dashboard は直近の測定記録一覧とグラフデータを表示する。
// GET /dashboard
func (h *ReadingHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	readings, err := h.service.ListRecent(r.Context(), userID, reading.DefaultRecentLimit)
	if err != nil {
		handleServiceError(h.renderer, w, r, err, "/")
		return
	}

	render(h.renderer, w, r, http.StatusOK, "dashboard", view.Data{
		"Readings": readings,
		"Chart":    reading.BuildChartData(readings),
	})
}

// CreateReading はダッシュボードのフォーム送信から測定記録を作成する。
// POST /dashboard
func (h *ReadingHandler) CreateReading(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		flashAndRedirect(w, r, "フォームの送信内容を読み取れませんでした。", "/dashboard")
		return
	}

	input, err := parseReadingForm(r)
	if err != nil {
		handleServiceError(h.renderer, w, r, err, "/dashboard")
		return
	}

	if _, err := h.service.Create(r.Context(), userID, input); err != nil {
		handleServiceError(h.renderer, w, r, err, "/dashboard")
		return
	}

	h.collector.RecordReadingCreated()
	flashAndRedirect(w, r, "血圧測定を記録しました。", "/dashboard")
}

// EditForm は測定記録の編集フォームを表示する。
// 他ユーザーの記録はNOT_OWNERとしてダッシュボードへ戻される。
// GET /edit_reading/{id}
func (h *ReadingHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	readingID := chi.URLParam(r, "id")

	rec, err := h.service.Get(r.Context(), readingID, userID)
	if err != nil {
		handleServiceError(h.renderer, w, r, err, "/dashboard")
		return
	}

	render(h.renderer, w, r, http.StatusOK, "edit_reading", view.Data{
		"Reading": rec,
	})
}

// UpdateReading は測定記録を更新する。
// POST /edit_reading/{id}
func (h *ReadingHandler) UpdateReading(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	readingID := chi.URLParam(r, "id")

	if err := r.ParseForm(); err != nil {
		flashAndRedirect(w, r, "フォームの送信内容を読み取れませんでした。", "/edit_reading/"+readingID)
		return
	}

	input, err := parseReadingForm(r)
	if err != nil {
		handleServiceError(h.renderer, w, r, err, "/edit_reading/"+readingID)
		return
	}

	if _, err := h.service.Update(r.Context(), readingID, userID, input); err != nil {
		handleServiceError(h.renderer, w, r, err, "/edit_reading/"+readingID)
		return
	}

	flashAndRedirect(w, r, "測定記録を更新しました。", "/dashboard")
}

// DeleteReading は測定記録を削除する。削除は即時で取り消しはない。
// POST /delete_reading/{id}
func (h *ReadingHandler) DeleteReading(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	readingID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), readingID, userID); err != nil {
		handleServiceError(h.renderer, w, r, err, "/dashboard")
		return
	}

	flashAndRedirect(w, r, "測定記録を削除しました。", "/dashboard")
}
