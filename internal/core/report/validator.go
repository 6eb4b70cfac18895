package report

import "unicode/utf8"

// Validate は日報の入力値を検証します。
// 判定順は 日付、タイトル必須、タイトル長、内容必須、内容長 で、最初に失敗した規則のエラーを返します。
func Validate(d Draft) error {
	if d.ReportDate == nil {
		return ErrBlank
	}
	if d.Title == "" {
		return ErrBlank
	}
	if utf8.RuneCountInString(d.Title) > MaxTitleLength {
		return ErrTitleLength
	}
	if d.Content == "" {
		return ErrBlank
	}
	if utf8.RuneCountInString(d.Content) > MaxContentLength {
		return ErrContentLength
	}
	return nil
}
