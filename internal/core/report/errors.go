package report

import "errors"

var (
	ErrBlank            = errors.New("report: value is blank")
	ErrTitleLength      = errors.New("report: title is too long")
	ErrContentLength    = errors.New("report: content is too long")
	ErrDateCheck        = errors.New("report: report for this date already exists")
	ErrReportNotFound   = errors.New("report: not found")
	ErrInvalidActor     = errors.New("report: acting employee is required")
	ErrInvalidPageSize  = errors.New("report: invalid page size")
	ErrInvalidPageToken = errors.New("report: invalid page token")
)

// Kind は日報操作の結果種別です。
type Kind string

const (
	KindSuccess       Kind = "SUCCESS"
	KindBlank         Kind = "BLANK_ERROR"
	KindTitleLength   Kind = "TITLE_LENGTH_ERROR"
	KindContentLength Kind = "CONTENT_LENGTH_ERROR"
	KindDateCheck     Kind = "DATECHECK_ERROR"
	KindNotFound      Kind = "NOT_FOUND"
	// KindUnknown は業務上の結果ではない (インフラ障害などの) エラーを表します。
	KindUnknown Kind = ""
)

// KindOf はエラーを結果種別に変換します。nil は KindSuccess です。
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindSuccess
	case errors.Is(err, ErrBlank):
		return KindBlank
	case errors.Is(err, ErrTitleLength):
		return KindTitleLength
	case errors.Is(err, ErrContentLength):
		return KindContentLength
	case errors.Is(err, ErrDateCheck):
		return KindDateCheck
	case errors.Is(err, ErrReportNotFound):
		return KindNotFound
	default:
		return KindUnknown
	}
}

// IsBusiness は err が呼び出し元で修正可能な業務エラーかどうかを返します。
func IsBusiness(err error) bool {
	if err == nil {
		return false
	}
	return KindOf(err) != KindUnknown
}

// IsValidation は err が入力値検証エラーかどうかを返します。
func IsValidation(err error) bool {
	switch KindOf(err) {
	case KindBlank, KindTitleLength, KindContentLength:
		return true
	default:
		return false
	}
}
