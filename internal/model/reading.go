package model

import "time"

// Reading は1件の血圧測定記録を表す。
// Pulseは任意入力のためポインタで保持し、未入力はnilで表現する（0とは区別する）。
type Reading struct {
	ID        string
	UserID    string
	TakenAt   time.Time
	Systolic  int
	Diastolic int
	Pulse     *int
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ChartData はダッシュボードのグラフ描画用データを表す。
// 各スライスは時系列昇順で、同一インデックスが同一測定に対応する。
type ChartData struct {
	Labels    []string
	Systolic  []int
	Diastolic []int
}
