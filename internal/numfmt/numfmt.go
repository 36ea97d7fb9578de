package numfmt

import (
	"strconv"
	"strings"
)

// GroupThousands 정수를 천단위 쉼표 문자열로 변환
func GroupThousands(n int) string {
	neg := n < 0
	digits := strconv.Itoa(n)
	if neg {
		digits = digits[1:]
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return b.String()
}

// ParseGrouped 천단위 쉼표가 포함된 문자열을 정수로 변환
// 파싱 실패 및 빈 입력은 0 (오류를 반환하지 않음)
func ParseGrouped(s string) int {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// PadPostalCode 우편번호를 5자리 문자열로 변환 (앞자리 0 보존)
// 빈 입력은 빈 문자열 유지
func PadPostalCode(v string) string {
	s := strings.TrimSpace(v)
	if s == "" {
		return ""
	}
	for len(s) < 5 {
		s = "0" + s
	}
	return s
}

// digitsOnly 숫자 이외 문자 제거
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatPhone 전화번호에 하이픈 자동 삽입
// 지원 형식: 02-000-0000, 02-0000-0000, 0X0-000-0000, 0X0-0000-0000
// 입력 중인 부분 문자열도 가능한 만큼만 포맷팅 (오류 없음)
func FormatPhone(raw string) string {
	numbers := digitsOnly(raw)
	if numbers == "" {
		return ""
	}

	// 02 지역번호
	if strings.HasPrefix(numbers, "02") {
		switch {
		case len(numbers) <= 2:
			return numbers
		case len(numbers) <= 5:
			return numbers[:2] + "-" + numbers[2:]
		case len(numbers) <= 9:
			return numbers[:2] + "-" + numbers[2:5] + "-" + numbers[5:]
		default:
			return numbers[:2] + "-" + numbers[2:6] + "-" + numbers[6:min(10, len(numbers))]
		}
	}

	// 그 외 지역번호/휴대폰 (3자리)
	switch {
	case len(numbers) <= 3:
		return numbers
	case len(numbers) <= 7:
		return numbers[:3] + "-" + numbers[3:]
	case len(numbers) <= 10:
		return numbers[:3] + "-" + numbers[3:6] + "-" + numbers[6:]
	default:
		return numbers[:3] + "-" + numbers[3:7] + "-" + numbers[7:min(11, len(numbers))]
	}
}

// Last4Digits 전화번호 끝 4자리 (시트 이름 라벨용)
func Last4Digits(phone string) string {
	d := digitsOnly(phone)
	if len(d) <= 4 {
		return d
	}
	return d[len(d)-4:]
}
