package repository

import (
	"testing"
)

// PostgresReadingRepoはReadingRepositoryインターフェースを満たすことを検証
func TestPostgresReadingRepo_ImplementsInterface(t *testing.T) {
	var _ ReadingRepository = (*PostgresReadingRepo)(nil)
}

// PostgresSessionRepoはSessionRepositoryインターフェースを満たすことを検証
func TestPostgresSessionRepo_ImplementsInterface(t *testing.T) {
	var _ SessionRepository = (*PostgresSessionRepo)(nil)
}

// NewPostgresReadingRepoが正しく初期化されることを検証
func TestNewPostgresReadingRepo_Initializes(t *testing.T) {
	repo := NewPostgresReadingRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// NewPostgresSessionRepoが正しく初期化されることを検証
func TestNewPostgresSessionRepo_Initializes(t *testing.T) {
	repo := NewPostgresSessionRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// nullableIntがnilをSQLのNULLへ、値をValidへ変換することを検証
func TestNullableInt(t *testing.T) {
	if ni := nullableInt(nil); ni.Valid {
		t.Error("expected invalid NullInt64 for nil input")
	}

	pulse := 68
	ni := nullableInt(&pulse)
	if !ni.Valid || ni.Int64 != 68 {
		t.Errorf("NullInt64 = %+v, want valid with 68", ni)
	}
}
