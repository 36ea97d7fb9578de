package model

import (
	"strconv"
	"strings"
)

// promotionBonus "N+1" 행사 문자열에서 N 추출 (1~20)
// 행사 아님/형식 오류는 ok=false
func promotionBonus(promotion string) (n int, ok bool) {
	p := strings.TrimSpace(promotion)
	if p == "" || strings.EqualFold(p, "none") {
		return 0, false
	}
	head, tail, found := strings.Cut(p, "+")
	if !found || tail != "1" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil || n < 1 || n > 20 {
		return 0, false
	}
	return n, true
}

// ComputeLineAmount 상품 한 줄의 금액 계산
// 행사 "N+1": (N+1)개 묶음당 N개만 결제, 묶음이 안 되는 나머지는 전액 결제.
// 행사 없음 또는 수량/단가가 0 이하이면 수량 × 단가.
func ComputeLineAmount(quantity, unitPrice int, promotion string) int {
	n, ok := promotionBonus(promotion)
	if !ok || quantity <= 0 || unitPrice <= 0 {
		return quantity * unitPrice
	}

	bundleSize := n + 1
	bundles := quantity / bundleSize
	remainder := quantity % bundleSize
	paidQuantity := bundles*n + remainder
	return paidQuantity * unitPrice
}

// HasPromotion 행사 표시가 필요한 값인지 (렌더링에서 강조용)
func HasPromotion(promotion string) bool {
	_, ok := promotionBonus(promotion)
	return ok
}
