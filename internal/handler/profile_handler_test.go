package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PaulKinlan/BloodPressureTracker/internal/model"
	"github.com/PaulKinlan/BloodPressureTracker/internal/user"
)

type mockUserService struct {
	profileFn       func(ctx context.Context, userID string) (*model.User, error)
	updateProfileFn func(ctx context.Context, userID string, input user.ProfileInput) (*model.User, error)
}

func (m *mockUserService) Profile(ctx context.Context, userID string) (*model.User, error) {
	if m.profileFn != nil {
		return m.profileFn(ctx, userID)
	}
	return &model.User{ID: userID, Username: "taro", Email: "taro@example.com", PreferredUnit: model.UnitMmHg}, nil
}

func (m *mockUserService) UpdateProfile(ctx context.Context, userID string, input user.ProfileInput) (*model.User, error) {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(ctx, userID, input)
	}
	return &model.User{ID: userID}, nil
}

var _ UserServiceInterface = (*mockUserService)(nil)

func newProfileHandler(t *testing.T, service UserServiceInterface) *ProfileHandler {
	t.Helper()
	return NewProfileHandler(service, newTestRenderer(t))
}

func TestProfileHandler_Show_RendersProfile(t *testing.T) {
	h := newProfileHandler(t, &mockUserService{})

	req := authedRequest(httptest.NewRequest(http.MethodGet, "/profile", nil), "user-1")
	rec := httptest.NewRecorder()

	h.Show(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if body := rec.Body.String(); !strings.Contains(body, "taro@example.com") {
		t.Error("expected profile form to show the user's email")
	}
}

func TestProfileHandler_Show_Unauthenticated_RedirectsToLogin(t *testing.T) {
	h := newProfileHandler(t, &mockUserService{})

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	rec := httptest.NewRecorder()

	h.Show(rec, req)

	assertRedirect(t, rec, "/login")
}

func TestProfileHandler_Update_Success(t *testing.T) {
	var gotInput user.ProfileInput
	service := &mockUserService{
		updateProfileFn: func(ctx context.Context, userID string, input user.ProfileInput) (*model.User, error) {
			gotInput = input
			return &model.User{ID: userID}, nil
		},
	}
	h := newProfileHandler(t, service)

	form := url.Values{}
	form.Set("email", "new@example.com")
	form.Set("first_name", "太郎")
	form.Set("last_name", "山田")
	form.Set("date_of_birth", "1985-03-15")
	form.Set("preferred_unit", "kPa")
	rec := httptest.NewRecorder()

	h.Update(rec, authedRequest(postForm("/profile", form), "user-1"))

	assertRedirect(t, rec, "/profile")
	if gotInput.Email != "new@example.com" {
		t.Errorf("Email = %q, want %q", gotInput.Email, "new@example.com")
	}
	if gotInput.PreferredUnit != "kPa" {
		t.Errorf("PreferredUnit = %q, want %q", gotInput.PreferredUnit, "kPa")
	}
	wantDOB := time.Date(1985, 3, 15, 0, 0, 0, 0, time.Local)
	if gotInput.DateOfBirth == nil || !gotInput.DateOfBirth.Equal(wantDOB) {
		t.Errorf("DateOfBirth = %v, want %v", gotInput.DateOfBirth, wantDOB)
	}
	if msg := flashMessage(t, rec); !strings.Contains(msg, "プロフィールを更新しました") {
		t.Errorf("flash = %q, want update success message", msg)
	}
}

func TestProfileHandler_Update_EmptyDateOfBirth_PassesNil(t *testing.T) {
	var gotInput user.ProfileInput
	service := &mockUserService{
		updateProfileFn: func(ctx context.Context, userID string, input user.ProfileInput) (*model.User, error) {
			gotInput = input
			return &model.User{ID: userID}, nil
		},
	}
	h := newProfileHandler(t, service)

	form := url.Values{}
	form.Set("email", "taro@example.com")
	form.Set("preferred_unit", "mmHg")
	rec := httptest.NewRecorder()

	h.Update(rec, authedRequest(postForm("/profile", form), "user-1"))

	assertRedirect(t, rec, "/profile")
	if gotInput.DateOfBirth != nil {
		t.Errorf("DateOfBirth = %v, want nil for empty input", gotInput.DateOfBirth)
	}
}

func TestProfileHandler_Update_InvalidDate_RedirectsBack(t *testing.T) {
	service := &mockUserService{
		updateProfileFn: func(ctx context.Context, userID string, input user.ProfileInput) (*model.User, error) {
			t.Error("service must not be called for unparsable input")
			return nil, nil
		},
	}
	h := newProfileHandler(t, service)

	form := url.Values{}
	form.Set("email", "taro@example.com")
	form.Set("date_of_birth", "not-a-date")
	form.Set("preferred_unit", "mmHg")
	rec := httptest.NewRecorder()

	h.Update(rec, authedRequest(postForm("/profile", form), "user-1"))

	assertRedirect(t, rec, "/profile")
}

func TestProfileHandler_Update_DuplicateEmail_RedirectsBackWithFlash(t *testing.T) {
	service := &mockUserService{
		updateProfileFn: func(ctx context.Context, userID string, input user.ProfileInput) (*model.User, error) {
			return nil, model.NewDuplicateEmailError()
		},
	}
	h := newProfileHandler(t, service)

	form := url.Values{}
	form.Set("email", "taken@example.com")
	form.Set("preferred_unit", "mmHg")
	rec := httptest.NewRecorder()

	h.Update(rec, authedRequest(postForm("/profile", form), "user-1"))

	assertRedirect(t, rec, "/profile")
	if msg := flashMessage(t, rec); !strings.Contains(msg, "既に登録されています") {
		t.Errorf("flash = %q, want duplicate email message", msg)
	}
}
