package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PaulKinlan/BloodPressureTracker/internal/model"
	"github.com/PaulKinlan/BloodPressureTracker/internal/reading"
)

// datetimeLocalLayout は<input type="datetime-local">が送信する日時形式。
const datetimeLocalLayout = "2006-01-02T15:04"

// dateLayout は<input type="date">が送信する日付形式。
const dateLayout = "2006-01-02"

// parseReadingForm は測定記録フォームを型付きの入力値へ変換する。
// 数値項目は厳密に整数として解析し、解析できない入力は
// 暗黙の型変換をせずバリデーションエラーとして拒否する（fail closed）。
// 脈拍の空入力は「値なし」（nil）として扱い、0やエラーにはしない。
func parseReadingForm(r *http.Request) (reading.Input, error) {
	var input reading.Input

	systolic, err := parseRequiredInt(r, "systolic")
	if err != nil {
		return input, err
	}
	diastolic, err := parseRequiredInt(r, "diastolic")
	if err != nil {
		return input, err
	}

	input.Systolic = systolic
	input.Diastolic = diastolic

	if raw := strings.TrimSpace(r.PostFormValue("pulse")); raw != "" {
		pulse, err := strconv.Atoi(raw)
		if err != nil {
			return input, model.NewInvalidInputError("pulse")
		}
		input.Pulse = &pulse
	}

	if raw := strings.TrimSpace(r.PostFormValue("taken_at")); raw != "" {
		takenAt, err := time.ParseInLocation(datetimeLocalLayout, raw, time.Local)
		if err != nil {
			return input, model.NewInvalidInputError("taken_at")
		}
		input.TakenAt = &takenAt
	}

	input.Notes = r.PostFormValue("notes")

	return input, nil
}

// parseRequiredInt は必須の整数フォーム値を解析する。
func parseRequiredInt(r *http.Request, field string) (int, error) {
	raw := strings.TrimSpace(r.PostFormValue(field))
	if raw == "" {
		return 0, model.NewInvalidInputError(field)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, model.NewInvalidInputError(field)
	}
	return v, nil
}

// parseOptionalDate は任意の日付フォーム値を解析する。空入力はnilを返す。
func parseOptionalDate(r *http.Request, field string) (*time.Time, error) {
	raw := strings.TrimSpace(r.PostFormValue(field))
	if raw == "" {
		return nil, nil
	}
	d, err := time.ParseInLocation(dateLayout, raw, time.Local)
	if err != nil {
		return nil, model.NewInvalidInputError(field)
	}
	return &d, nil
}
