package product

import (
	"fmt"
	"strconv"
	"strings"
)

// 3자리 카테고리 코드 범위 (100~106)
// 이 범위 밖의 앞자리는 모두 2자리 카테고리로 해석한다.
const (
	category3Min = 100
	category3Max = 106
)

// FormatErrorKind 상품 코드 형식 오류 종류
type FormatErrorKind int

const (
	// MissingSeparator 하이픈 없음
	MissingSeparator FormatErrorKind = iota
	// EmptySegment 하이픈 앞 또는 뒤가 비어 있음
	EmptySegment
)

// FormatError 상품 코드 형식 오류
type FormatError struct {
	Kind  FormatErrorKind
	Input string
}

func (e *FormatError) Error() string {
	switch e.Kind {
	case MissingSeparator:
		return fmt.Sprintf("상품 코드에 하이픈(-)이 없습니다: %q (예: 08-01)", e.Input)
	case EmptySegment:
		return fmt.Sprintf("상품 코드 형식이 올바르지 않습니다: %q (예: 08-01)", e.Input)
	default:
		return fmt.Sprintf("상품 코드 형식 오류: %q", e.Input)
	}
}

// stripCodeChars 숫자와 하이픈만 남기기
func stripCodeChars(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeCode 상품 코드를 표준 형식으로 변환
// 형식: 00-00 또는 000-00 (예: "8-1" → "08-01", "106-1" → "106-01")
// 빈 입력은 빈 문자열 그대로 반환한다.
func NormalizeCode(raw string) (string, error) {
	value := stripCodeChars(raw)
	if value == "" {
		return "", nil
	}

	if !strings.Contains(value, "-") {
		return "", &FormatError{Kind: MissingSeparator, Input: raw}
	}

	// 하이픈이 여러 개면 첫 번째만 구분자로 사용
	parts := strings.Split(value, "-")
	category := parts[0]
	number := strings.Join(parts[1:], "")

	if category == "" || number == "" {
		return "", &FormatError{Kind: EmptySegment, Input: raw}
	}

	// 카테고리: 1자리면 0 패딩, 3자리 초과면 3자리로 절단
	if len(category) == 1 {
		category = "0" + category
	} else if len(category) > 3 {
		category = category[:3]
	}

	// 번호: 왼쪽 0 패딩 후 앞 2자리
	for len(number) < 2 {
		number = "0" + number
	}
	number = number[:2]

	return category + "-" + number, nil
}

// CodeLookup 자동 하이픈 삽입 시 카탈로그 조회용 콜백
// 코드가 카탈로그에 존재하면 true
type CodeLookup func(code string) bool

// AutoInsertHyphen 숫자만 입력된 상품코드에 하이픈 자동 삽입
// 3자리 카테고리(100~106) 가능성이 남아 있는 동안은 "" 반환 (추가 입력 대기).
// lookup이 nil이 아니면 3자리/2자리 해석 중 카탈로그에 실재하는 쪽을 우선한다.
func AutoInsertHyphen(digits string, lookup CodeLookup) string {
	switch {
	case len(digits) < 3:
		return ""

	case len(digits) == 3:
		n, err := strconv.Atoi(digits)
		if err == nil && n >= category3Min && n <= category3Max {
			return "" // 아직 판단 불가
		}
		return digits[:2] + "-" + digits[2:]

	case len(digits) == 4:
		prefix, err := strconv.Atoi(digits[:3])
		if err == nil && prefix >= category3Min && prefix <= category3Max {
			return "" // "1060" 등은 5자리 완성을 대기
		}
		return digits[:2] + "-" + digits[2:]

	default: // 5자리 이상
		prefix, err := strconv.Atoi(digits[:3])
		if err != nil {
			return ""
		}
		code3 := digits[:3] + "-" + digits[3:]
		code2 := digits[:2] + "-" + digits[2:]

		if prefix < category3Min || prefix > category3Max {
			return code2
		}
		if lookup != nil {
			if norm3, err := NormalizeCode(code3); err == nil && lookup(norm3) {
				return code3
			}
			if norm2, err := NormalizeCode(code2); err == nil && lookup(norm2) {
				return code2
			}
		}
		// 카탈로그로 확정되지 않으면 3자리 카테고리 우선 (100~106 범위)
		return code3
	}
}
