package model

import (
	"encoding/json"
	"strings"

	"github.com/muttul58-coder/GS25-Order/internal/numfmt"
)

// FlexInt 숫자 또는 문자열로 들어오는 정수 필드
// 폼 쪽 페이로드는 수량을 문자열("3")로, 단가/금액을 숫자로 보낸다.
// 천단위 쉼표가 섞인 문자열도 허용하고, 파싱 실패는 0으로 처리한다.
type FlexInt int

// UnmarshalJSON json.Unmarshaler 구현
func (n *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*n = 0
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*n = FlexInt(numfmt.ParseGrouped(str))
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		*n = 0
		return nil
	}
	*n = FlexInt(int(f))
	return nil
}

// Int 정수 값
func (n FlexInt) Int() int {
	return int(n)
}

// FlexString 숫자 또는 문자열로 들어오는 문자열 필드 (우편번호 등)
// 숫자로 들어와도 문자열로 보존하여 앞자리 0 처리를 맡긴다.
type FlexString string

// UnmarshalJSON json.Unmarshaler 구현
func (s *FlexString) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*s = ""
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = FlexString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*s = FlexString(num.String())
	return nil
}

// String 문자열 값
func (s FlexString) String() string {
	return string(s)
}
