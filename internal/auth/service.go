// Package auth はユーザー登録・ログイン・セッション管理・パスワードリセットを提供する。
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/PaulKinlan/BloodPressureTracker/internal/mailer"
	"github.com/PaulKinlan/BloodPressureTracker/internal/model"
	"github.com/PaulKinlan/BloodPressureTracker/internal/password"
	"github.com/PaulKinlan/BloodPressureTracker/internal/repository"
	"github.com/PaulKinlan/BloodPressureTracker/internal/token"
)

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	SessionMaxAge    int           // 短期セッションの有効期間（秒）
	RememberMaxAge   int           // Remember Meセッションの有効期間（秒）
	ResetTokenMaxAge time.Duration // リセットトークンの有効期間
	BaseURL          string        // リセットリンクの生成に使用する公開URL
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	tokens      *token.Service
	mail        mailer.Mailer
	config      ServiceConfig
}

// NewService はServiceを生成する。
func NewService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	tokens *token.Service,
	mail mailer.Mailer,
	config ServiceConfig,
) *Service {
	return &Service{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		tokens:      tokens,
		mail:        mail,
		config:      config,
	}
}

// Register は新規ユーザーを登録する。
// パスワードポリシーと確認用パスワードの一致を検証し、
// ユーザー名・メールアドレスの重複はストレージの一意制約で検出する。
func (s *Service) Register(ctx context.Context, username, email, plaintext, confirmation string) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" {
		return nil, model.NewInvalidInputError("username")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, model.NewInvalidInputError("email")
	}

	if err := password.ValidatePolicy(plaintext); err != nil {
		return nil, err
	}
	if err := password.ValidateConfirmation(plaintext, confirmation); err != nil {
		return nil, err
	}

	hash, err := password.Hash(plaintext)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:            uuid.New().String(),
		Username:      username,
		Email:         email,
		PasswordHash:  hash,
		PreferredUnit: model.UnitMmHg,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	slog.Info("new user registered",
		slog.String("user_id", user.ID),
		slog.String("username", username),
	)

	return user, nil
}

// Login は認証情報を検証し、成功時にセッションを発行する。
// ユーザー名不明とパスワード不一致は区別せずINVALID_CREDENTIALSを返す。
// rememberがtrueの場合は延長セッション（30日）を発行する。
func (s *Service) Login(ctx context.Context, username, plaintext string, remember bool) (*model.Session, error) {
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil || !password.Verify(user.PasswordHash, plaintext) {
		return nil, model.NewInvalidCredentialsError()
	}

	session, err := s.createSession(ctx, user.ID, remember)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	slog.Info("user logged in",
		slog.String("user_id", user.ID),
		slog.Bool("remember", remember),
	)

	return session, nil
}

// Logout はセッションを破棄する。
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session ID is required")
	}

	if err := s.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	slog.Info("user logged out", slog.String("session_id", sessionID))
	return nil
}

// RequestPasswordReset はリセットトークンを発行し、メールで送信する。
// アカウントの存在を外部に漏らさないため、未登録メールアドレスでも
// エラーを返さず正常終了する。
// メール送信はバックグラウンドで行い、失敗はログにのみ記録する。
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return fmt.Errorf("failed to find user by email: %w", err)
	}
	if user == nil {
		slog.Info("password reset requested for unknown email")
		return nil
	}

	resetToken, err := s.tokens.Generate(user.Email)
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	link := fmt.Sprintf("%s/reset_password/%s", strings.TrimRight(s.config.BaseURL, "/"), resetToken)
	body := fmt.Sprintf(
		"パスワードをリセットするには、以下のリンクを開いてください。\n\n%s\n\nこのリンクは%d分間有効です。心当たりがない場合はこのメールを無視してください。\n",
		link, int(s.config.ResetTokenMaxAge.Minutes()),
	)

	// fire-and-forget: 送信失敗はユーザーには通知しない
	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.mail.Send(sendCtx, user.Email, "パスワードリセットのご案内", body); err != nil {
			slog.Error("failed to send password reset mail",
				slog.String("user_id", user.ID),
				slog.String("error", err.Error()),
			)
			return
		}
		slog.Info("password reset mail sent", slog.String("user_id", user.ID))
	}()

	return nil
}

// ResetPassword はリセットトークンを検証して新しいパスワードを設定する。
// 成功時は該当ユーザーの全セッションを破棄する。
func (s *Service) ResetPassword(ctx context.Context, tokenString, plaintext, confirmation string) error {
	email, err := s.tokens.Verify(tokenString, s.config.ResetTokenMaxAge)
	if err != nil {
		return model.NewInvalidResetTokenError()
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to find user by email: %w", err)
	}
	if user == nil {
		return model.NewInvalidResetTokenError()
	}

	if err := password.ValidatePolicy(plaintext); err != nil {
		return err
	}
	if err := password.ValidateConfirmation(plaintext, confirmation); err != nil {
		return err
	}

	hash, err := password.Hash(plaintext)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	// 既存セッションを全て無効化する
	if err := s.sessionRepo.DeleteByUserID(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to delete user sessions: %w", err)
	}

	slog.Info("password reset completed", slog.String("user_id", user.ID))
	return nil
}

// VerifyResetToken はリセットトークンの有効性のみを確認する。
// リセットフォームのGET表示時に使用する。
func (s *Service) VerifyResetToken(tokenString string) error {
	if _, err := s.tokens.Verify(tokenString, s.config.ResetTokenMaxAge); err != nil {
		return model.NewInvalidResetTokenError()
	}
	return nil
}

// createSession はセッションを作成し永続化する。
func (s *Service) createSession(ctx context.Context, userID string, remember bool) (*model.Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	maxAge := s.config.SessionMaxAge
	if remember {
		maxAge = s.config.RememberMaxAge
	}

	session := &model.Session{
		ID:        sessionID,
		UserID:    userID,
		Remember:  remember,
		ExpiresAt: time.Now().Add(time.Duration(maxAge) * time.Second),
		CreatedAt: time.Now(),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

// generateSessionID は暗号的に安全なセッションIDを生成する。
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
