package handler

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/PaulKinlan/BloodPressureTracker/internal/middleware"
	"github.com/PaulKinlan/BloodPressureTracker/internal/view"
)

// テスト共通のヘルパーとモック。

type mockCollector struct {
	loginSuccess   int
	loginFailure   int
	readingCreated int
	resetRequested int
}

func (m *mockCollector) RecordHTTPStatus(statusCode int)             {}
func (m *mockCollector) RecordRequestLatency(duration time.Duration) {}
func (m *mockCollector) RecordLoginSuccess()                         { m.loginSuccess++ }
func (m *mockCollector) RecordLoginFailure()                         { m.loginFailure++ }
func (m *mockCollector) RecordReadingCreated()                       { m.readingCreated++ }
func (m *mockCollector) RecordResetMailRequested()                   { m.resetRequested++ }

func newTestRenderer(t *testing.T) *view.Renderer {
	t.Helper()
	renderer, err := view.New()
	if err != nil {
		t.Fatalf("failed to create renderer: %v", err)
	}
	return renderer
}

// authedRequest はセッションミドルウェア通過後の認証済みリクエストを模す。
func authedRequest(req *http.Request, userID string) *http.Request {
	return req.WithContext(middleware.ContextWithUserID(req.Context(), userID))
}

// flashMessage はレスポンスに設定されたフラッシュメッセージをデコードして返す。
func flashMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == flashCookieName && c.MaxAge >= 0 {
			decoded, err := base64.RawURLEncoding.DecodeString(c.Value)
			if err != nil {
				t.Fatalf("failed to decode flash cookie: %v", err)
			}
			return string(decoded)
		}
	}
	return ""
}

func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != location {
		t.Errorf("Location = %q, want %q", loc, location)
	}
}
