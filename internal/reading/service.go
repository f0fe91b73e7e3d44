// Package reading は血圧測定記録のドメインロジックを提供する。
//
// 測定記録は所有ユーザーのみが閲覧・編集・削除できる。
// 所有権の検証はこのサービス層で行い、他ユーザーの記録への操作は
// 未検出（READING_NOT_FOUND）と区別してNOT_OWNERを返す。
package reading

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/PaulKinlan/BloodPressureTracker/internal/model"
	"github.com/PaulKinlan/BloodPressureTracker/internal/repository"
	"github.com/PaulKinlan/BloodPressureTracker/internal/security"
)

// DefaultRecentLimit はダッシュボードに表示する直近の測定記録件数。
const DefaultRecentLimit = 10

// Input は測定記録の作成・更新の入力値。
// Pulseは任意項目のためnilを許容する（未入力は0ではなくnil）。
// TakenAtがnilの場合は現在時刻が使用される。
type Input struct {
	Systolic  int
	Diastolic int
	Pulse     *int
	Notes     string
	TakenAt   *time.Time
}

// Service は測定記録のサービス層。
type Service struct {
	readingRepo repository.ReadingRepository
	sanitizer   security.NotesSanitizerService
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(readingRepo repository.ReadingRepository, sanitizer security.NotesSanitizerService) *Service {
	return &Service{
		readingRepo: readingRepo,
		sanitizer:   sanitizer,
	}
}

// Create はユーザーの測定記録を作成する。
func (s *Service) Create(ctx context.Context, userID string, input Input) (*model.Reading, error) {
	now := time.Now()

	takenAt := now
	if input.TakenAt != nil {
		takenAt = *input.TakenAt
	}

	reading := &model.Reading{
		ID:        uuid.New().String(),
		UserID:    userID,
		TakenAt:   takenAt,
		Systolic:  input.Systolic,
		Diastolic: input.Diastolic,
		Pulse:     input.Pulse,
		Notes:     s.sanitizer.Sanitize(input.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.readingRepo.Create(ctx, reading); err != nil {
		return nil, err
	}

	slog.Info("reading created",
		slog.String("reading_id", reading.ID),
		slog.String("user_id", userID),
	)

	return reading, nil
}

// ListRecent はユーザーの直近の測定記録を新しい順で最大limit件返す。
// limitが0以下の場合はDefaultRecentLimitを使用する。
func (s *Service) ListRecent(ctx context.Context, userID string, limit int) ([]*model.Reading, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	readings, err := s.readingRepo.ListRecentByUserID(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent readings: %w", err)
	}

	return readings, nil
}

// Get は測定記録を所有権チェック付きで取得する。
func (s *Service) Get(ctx context.Context, readingID, userID string) (*model.Reading, error) {
	reading, err := s.readingRepo.FindByID(ctx, readingID)
	if err != nil {
		return nil, fmt.Errorf("failed to find reading: %w", err)
	}
	if reading == nil {
		return nil, model.NewReadingNotFoundError(readingID)
	}
	if reading.UserID != userID {
		return nil, model.NewNotOwnerError()
	}
	return reading, nil
}

// Update は測定記録を所有権チェック付きで更新する。
func (s *Service) Update(ctx context.Context, readingID, userID string, input Input) (*model.Reading, error) {
	reading, err := s.Get(ctx, readingID, userID)
	if err != nil {
		return nil, err
	}

	if input.TakenAt != nil {
		reading.TakenAt = *input.TakenAt
	}
	reading.Systolic = input.Systolic
	reading.Diastolic = input.Diastolic
	reading.Pulse = input.Pulse
	reading.Notes = s.sanitizer.Sanitize(input.Notes)

	if err := s.readingRepo.Update(ctx, reading); err != nil {
		return nil, err
	}

	slog.Info("reading updated",
		slog.String("reading_id", readingID),
		slog.String("user_id", userID),
	)

	return reading, nil
}

// Delete は測定記録を所有権チェック付きで削除する。
// 削除は即時かつ無条件で、論理削除や取り消しはない。
func (s *Service) Delete(ctx context.Context, readingID, userID string) error {
	if _, err := s.Get(ctx, readingID, userID); err != nil {
		return err
	}

	if err := s.readingRepo.DeleteByID(ctx, readingID); err != nil {
		return err
	}

	slog.Info("reading deleted",
		slog.String("reading_id", readingID),
		slog.String("user_id", userID),
	)

	return nil
}

// BuildChartData は新しい順の測定記録一覧からグラフ描画用データを生成する。
// 入力を時系列昇順に反転し、ラベルと収縮期・拡張期の系列を対応付ける。
func BuildChartData(readings []*model.Reading) model.ChartData {
	data := model.ChartData{
		Labels:    make([]string, 0, len(readings)),
		Systolic:  make([]int, 0, len(readings)),
		Diastolic: make([]int, 0, len(readings)),
	}

	for i := len(readings) - 1; i >= 0; i-- {
		r := readings[i]
		data.Labels = append(data.Labels, r.TakenAt.Format("2006-01-02 15:04"))
		data.Systolic = append(data.Systolic, r.Systolic)
		data.Diastolic = append(data.Diastolic, r.Diastolic)
	}

	return data
}
