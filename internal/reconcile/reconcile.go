package reconcile

import (
	"fmt"
	"sort"
)

// Kind 수량 대조 진단 종류
type Kind int

const (
	// Exceeded 배송 수량이 주문 수량 초과 (차단)
	Exceeded Kind = iota
	// Partial 일부만 배분됨 (안내용, 차단 아님)
	Partial
	// UnknownCode 주문 목록에 없는 상품 배분 (차단)
	UnknownCode
)

// Diagnostic 상품코드 하나에 대한 대조 결과
type Diagnostic struct {
	Kind      Kind
	Code      string
	Ordered   int
	Allocated int
}

// Message 폼 안내 문구와 같은 형식의 메시지
func (d Diagnostic) Message() string {
	switch d.Kind {
	case Exceeded:
		return fmt.Sprintf("[%s] 배송 수량(%d)이 주문 수량(%d)을 초과합니다.", d.Code, d.Allocated, d.Ordered)
	case Partial:
		return fmt.Sprintf("[%s] 배송 수량(%d) / 주문 수량(%d)", d.Code, d.Allocated, d.Ordered)
	case UnknownCode:
		return fmt.Sprintf("[%s] 주문 목록에 없는 상품입니다.", d.Code)
	default:
		return fmt.Sprintf("[%s] 알 수 없는 진단", d.Code)
	}
}

// Blocking 제출을 막아야 하는 진단인지
func (d Diagnostic) Blocking() bool {
	return d.Kind == Exceeded || d.Kind == UnknownCode
}

// Result 주문 수량 대 배송 배분 수량의 대조 결과
type Result struct {
	Diagnostics []Diagnostic
	// FullyReconciled 모든 주문 상품이 정확히 배분되고 미지 코드가 없음
	FullyReconciled bool
}

// HasBlocking 차단 진단 존재 여부
func (r Result) HasBlocking() bool {
	for _, d := range r.Diagnostics {
		if d.Blocking() {
			return true
		}
	}
	return false
}

// Messages 진단 메시지 목록
func (r Result) Messages() []string {
	msgs := make([]string, 0, len(r.Diagnostics))
	for _, d := range r.Diagnostics {
		msgs = append(msgs, d.Message())
	}
	return msgs
}

func sortedCodes(m map[string]int) []string {
	codes := make([]string, 0, len(m))
	for code := range m {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Check 상품코드별 주문 수량과 배송 배분 수량 대조
// 진단은 상품코드 오름차순으로 정렬되어 결과가 결정적이다.
func Check(ordered, allocated map[string]int) Result {
	result := Result{FullyReconciled: true}

	for _, code := range sortedCodes(ordered) {
		orderQty := ordered[code]
		allocQty := allocated[code]
		switch {
		case allocQty == orderQty:
			// 일치
		case allocQty > orderQty:
			result.FullyReconciled = false
			result.Diagnostics = append(result.Diagnostics, Diagnostic{
				Kind: Exceeded, Code: code, Ordered: orderQty, Allocated: allocQty,
			})
		case allocQty > 0:
			result.FullyReconciled = false
			result.Diagnostics = append(result.Diagnostics, Diagnostic{
				Kind: Partial, Code: code, Ordered: orderQty, Allocated: allocQty,
			})
		default:
			// 아직 배분 전
			result.FullyReconciled = false
		}
	}

	for _, code := range sortedCodes(allocated) {
		if _, ok := ordered[code]; ok || allocated[code] <= 0 {
			continue
		}
		result.FullyReconciled = false
		result.Diagnostics = append(result.Diagnostics, Diagnostic{
			Kind: UnknownCode, Code: code, Allocated: allocated[code],
		})
	}

	return result
}

// Option 배송 상품 콤보박스에 제시할 선택지 하나
type Option struct {
	Code      string
	Remaining int // 다른 배송 건 배분을 제외한 선택 가능 잔량
}

// SelectableOptions 특정 배송 건에서 선택 가능한 상품 목록
//   - 같은 배송 건에서 이미 다른 행이 선택한 코드는 제외 (usedInGroup)
//   - 다른 배송 건 배분 합계를 뺀 잔량이 0 이하인 코드는 제외
//
// groupIndex는 allocations에서 현재 배송 건의 위치.
func SelectableOptions(ordered map[string]int, allocations []map[string]int, groupIndex int, usedInGroup map[string]bool) []Option {
	otherAllocated := map[string]int{}
	for i, alloc := range allocations {
		if i == groupIndex {
			continue
		}
		for code, qty := range alloc {
			otherAllocated[code] += qty
		}
	}

	var options []Option
	for _, code := range sortedCodes(ordered) {
		if usedInGroup[code] {
			continue
		}
		remaining := ordered[code] - otherAllocated[code]
		if remaining <= 0 {
			continue
		}
		options = append(options, Option{Code: code, Remaining: remaining})
	}
	return options
}
