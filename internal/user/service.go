// Package user はプロフィール管理のドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PaulKinlan/BloodPressureTracker/internal/model"
	"github.com/PaulKinlan/BloodPressureTracker/internal/repository"
)

// ProfileInput はプロフィール更新の入力値。
// DateOfBirthは任意項目のためnilを許容する。
type ProfileInput struct {
	Email         string
	FirstName     string
	LastName      string
	DateOfBirth   *time.Time
	PreferredUnit string
}

// Service はプロフィール管理のサービス層。
type Service struct {
	userRepo repository.UserRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(userRepo repository.UserRepository) *Service {
	return &Service{userRepo: userRepo}
}

// Profile は指定ユーザーのプロフィールを取得する。
// セッションにはユーザーIDのみを保持するため、プロフィールは毎リクエスト再取得する。
func (s *Service) Profile(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}
	return user, nil
}

// UpdateProfile はプロフィール項目を検証して更新する。
// メールアドレスの重複は一意制約違反としてDUPLICATE_EMAILで返る。
func (s *Service) UpdateProfile(ctx context.Context, userID string, input ProfileInput) (*model.User, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	email := strings.TrimSpace(input.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, model.NewInvalidInputError("email")
	}
	if !model.ValidUnit(input.PreferredUnit) {
		return nil, model.NewInvalidUnitError(input.PreferredUnit)
	}

	user.Email = email
	user.FirstName = strings.TrimSpace(input.FirstName)
	user.LastName = strings.TrimSpace(input.LastName)
	user.DateOfBirth = input.DateOfBirth
	user.PreferredUnit = input.PreferredUnit

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	slog.Info("profile updated", slog.String("user_id", userID))
	return user, nil
}
