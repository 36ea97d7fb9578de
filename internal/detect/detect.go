package detect

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// 폼 제공자의 열 순서는 보장되지 않으므로 고정 오프셋 대신 내용으로 열을 찾는다.
// A열(타임스탬프)만 신뢰하고, JSON 열은 "{"로 시작하는 첫 열, 나머지는 패턴 분류.

var (
	phoneHyphenRe = regexp.MustCompile(`^\d{2,3}-\d{3,4}-\d{4}$`)
	phonePlainRe  = regexp.MustCompile(`^01\d{8,9}$`)
	dateRe        = regexp.MustCompile(`^20\d{2}[-./]`)
)

// Row 열 자동 탐지 결과
type Row struct {
	Timestamp     any    // A열 값 (원래 타입 보존)
	OrderDateTime any    // 주문 일시 (원래 타입 보존, 없으면 nil)
	Name          string
	Phone         string
	JSONPayload   string
	JSONColumn    int // JSON 열 인덱스 (0부터)
}

// NotFoundError JSON 열을 찾지 못함
// 디버깅을 위해 각 열의 앞부분을 보존한다.
type NotFoundError struct {
	Previews []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("JSON 데이터 열을 찾지 못했습니다 (열 미리보기: %s)", strings.Join(e.Previews, " | "))
}

func preview(v any) string {
	s := strings.TrimSpace(cellString(v))
	if s == "" {
		return "(빈 칸)"
	}
	runes := []rune(s)
	if len(runes) > 20 {
		return string(runes[:20]) + "…"
	}
	return s
}

func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case time.Time:
		return t.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprintf("%v", t)
	}
}

// IsPhone 전화번호 패턴 여부
func IsPhone(s string) bool {
	s = strings.TrimSpace(s)
	return phoneHyphenRe.MatchString(s) || phonePlainRe.MatchString(s)
}

// IsDateTime 날짜/일시 값 여부 (네이티브 시간 값 또는 "20XX-" 형태 문자열)
func IsDateTime(v any) bool {
	if _, ok := v.(time.Time); ok {
		return true
	}
	return dateRe.MatchString(strings.TrimSpace(cellString(v)))
}

// DetectColumns 한 행에서 JSON 열과 나머지 열(일시/전화번호/성명)을 찾는다
//   - 0열은 항상 타임스탬프 (패턴 검사 없이 신뢰)
//   - 1열부터 "{"로 시작하는 첫 열이 JSON 페이로드
//   - 나머지 비어 있지 않은 열은 전화번호 → 일시 → 성명 순으로 분류,
//     각 범주는 처음 매칭된 값 하나만 채택
func DetectColumns(cells []any) (*Row, error) {
	if len(cells) == 0 {
		return nil, &NotFoundError{}
	}

	row := &Row{Timestamp: cells[0], JSONColumn: -1}

	for i := 1; i < len(cells); i++ {
		s := strings.TrimSpace(cellString(cells[i]))
		if strings.HasPrefix(s, "{") {
			row.JSONColumn = i
			row.JSONPayload = s
			break
		}
	}

	if row.JSONColumn < 0 {
		previews := make([]string, len(cells))
		for i, c := range cells {
			previews[i] = fmt.Sprintf("%d열=%s", i+1, preview(c))
		}
		return nil, &NotFoundError{Previews: previews}
	}

	for i := 1; i < len(cells); i++ {
		if i == row.JSONColumn {
			continue
		}
		value := cells[i]
		s := strings.TrimSpace(cellString(value))
		if s == "" {
			continue
		}

		switch {
		case IsPhone(s):
			if row.Phone == "" {
				row.Phone = s
			}
		case IsDateTime(value):
			if row.OrderDateTime == nil {
				row.OrderDateTime = value // 원래 타입 보존
			}
		default:
			if row.Name == "" {
				row.Name = s
			}
		}
	}

	return row, nil
}
