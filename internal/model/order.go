package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/muttul58-coder/GS25-Order/internal/numfmt"
)

// Person 인적사항 (주문자 / 보내는 분 / 받는 분)
// JSON 키는 기존 스프레드시트 소비자와의 호환을 위해 그대로 유지한다.
type Person struct {
	Name          string     `json:"성명"`
	Phone         string     `json:"전화번호"`
	PostalCode    FlexString `json:"우편번호"`
	AddressBase   string     `json:"기본주소"`
	AddressDetail string     `json:"상세주소"`
}

// FullAddress 기본주소 + 상세주소 결합
func (p Person) FullAddress() string {
	base := strings.TrimSpace(p.AddressBase)
	detail := strings.TrimSpace(p.AddressDetail)
	if base != "" && detail != "" {
		return base + " " + detail
	}
	if base != "" {
		return base
	}
	return detail
}

// PostalCode5 5자리로 패딩된 우편번호 (빈 값은 빈 문자열)
func (p Person) PostalCode5() string {
	return numfmt.PadPostalCode(p.PostalCode.String())
}

// IsEmpty 모든 필드가 비어 있는지
func (p Person) IsEmpty() bool {
	return strings.TrimSpace(p.Name) == "" &&
		strings.TrimSpace(p.Phone) == "" &&
		strings.TrimSpace(p.PostalCode.String()) == "" &&
		p.FullAddress() == ""
}

// LineItem 주문 상품 한 줄
type LineItem struct {
	Code      string  `json:"상품코드"`
	Name      string  `json:"상품이름"`
	Promotion string  `json:"행사,omitempty"` // "N+1" 또는 빈 값
	Quantity  FlexInt `json:"수량"`
	UnitPrice FlexInt `json:"단가"`
	Amount    FlexInt `json:"금액"`
}

// DeliveryItem 배송 배분 상품 한 줄 (가격 없음, 주문 상품 참조)
type DeliveryItem struct {
	Code     string  `json:"상품코드"`
	Name     string  `json:"상품이름"`
	Quantity FlexInt `json:"수량"`
}

// PersonRef 인적사항 연동 참조 ("주문자 정보와 동일" 체크박스의 선언적 표현)
type PersonRef int

const (
	// LinkNone 연동 없음
	LinkNone PersonRef = iota
	// LinkOrderer 주문자 정보와 동일
	LinkOrderer
	// LinkSender 같은 배송 건의 보내는 분과 동일
	LinkSender
)

// DeliveryGroup 배송 한 건 (보내는 분 → 받는 분)
// 상품목록(변형 A: 가격 포함)과 배송상품목록(변형 B: 배분 참조) 두 형태를 모두 수용한다.
type DeliveryGroup struct {
	SequenceNumber int            `json:"주문번호"`
	Sender         Person         `json:"보내는분"`
	Receiver       Person         `json:"받는분"`
	LineItems      []LineItem     `json:"상품목록,omitempty"`
	DeliveryItems  []DeliveryItem `json:"배송상품목록,omitempty"`

	// 폼 쪽 연동 상태. 직렬화 전에 DeriveLinkedFields로 해소되므로 전송되지 않는다.
	SenderLink   PersonRef `json:"-"`
	ReceiverLink PersonRef `json:"-"`
}

// Totals 전체 합계 (페이로드에 있으면 신뢰, 없으면 재계산)
type Totals struct {
	OrderCount    FlexInt `json:"총주문건수"`
	TotalQuantity FlexInt `json:"총수량"`
	TotalAmount   FlexInt `json:"총금액"`
}

// Order 주문 전체
type Order struct {
	Orderer        Person          `json:"주문자정보"`
	LineItems      []LineItem      `json:"상품목록,omitempty"`
	DeliveryGroups []DeliveryGroup `json:"주문목록"`
	Totals         *Totals         `json:"전체합계,omitempty"`
}

// PayloadParseError JSON 페이로드 파싱 오류
type PayloadParseError struct {
	Err error
}

func (e *PayloadParseError) Error() string {
	return fmt.Sprintf("주문 데이터(JSON) 파싱 오류: %v", e.Err)
}

func (e *PayloadParseError) Unwrap() error {
	return e.Err
}

// ParseOrder JSON 페이로드를 검증 가능한 Order로 변환
// 파싱 직후 Normalize까지 수행하므로 이후 단계는 형태를 다시 방어하지 않는다.
func ParseOrder(payload []byte) (*Order, error) {
	var order Order
	if err := json.Unmarshal(payload, &order); err != nil {
		return nil, &PayloadParseError{Err: err}
	}
	order.Normalize()
	return &order, nil
}

// Normalize 파싱 경계에서 한 번만 수행하는 기본값/불변식 정리
//   - 주문번호를 1부터 빈틈없이 재부여
//   - 루트 상품목록이 있는데 배송 건에도 상품목록이 있으면 배분 참조로 강등
//   - 금액은 수량/단가/행사로부터 재계산 (파생 값, 페이로드를 신뢰하지 않음)
func (o *Order) Normalize() {
	o.RenumberGroups()

	if len(o.LineItems) > 0 {
		for i := range o.DeliveryGroups {
			g := &o.DeliveryGroups[i]
			if len(g.LineItems) == 0 {
				continue
			}
			for _, item := range g.LineItems {
				g.DeliveryItems = append(g.DeliveryItems, DeliveryItem{
					Code:     item.Code,
					Name:     item.Name,
					Quantity: item.Quantity,
				})
			}
			g.LineItems = nil
		}
	}

	recompute := func(items []LineItem) {
		for i := range items {
			items[i].Amount = FlexInt(ComputeLineAmount(
				items[i].Quantity.Int(), items[i].UnitPrice.Int(), items[i].Promotion))
		}
	}
	recompute(o.LineItems)
	for i := range o.DeliveryGroups {
		recompute(o.DeliveryGroups[i].LineItems)
	}
}

// RenumberGroups 주문번호를 1부터 빈틈없이 재부여 (삽입/삭제 후 호출)
func (o *Order) RenumberGroups() {
	for i := range o.DeliveryGroups {
		o.DeliveryGroups[i].SequenceNumber = i + 1
	}
}

// AllLineItems 가격이 있는 주문 상품 전체 (루트 우선, 없으면 배송 건별)
func (o *Order) AllLineItems() []LineItem {
	if len(o.LineItems) > 0 {
		return o.LineItems
	}
	var items []LineItem
	for _, g := range o.DeliveryGroups {
		items = append(items, g.LineItems...)
	}
	return items
}

// RecomputeTotals 전체 합계 재계산
// 합계는 항상 주문 상품에서 계산한다 (배송 배분 상품에는 가격이 없음).
func (o *Order) RecomputeTotals() Totals {
	totalQuantity := 0
	totalAmount := 0
	for _, item := range o.AllLineItems() {
		totalQuantity += item.Quantity.Int()
		totalAmount += item.Amount.Int()
	}
	return Totals{
		OrderCount:    FlexInt(len(o.DeliveryGroups)),
		TotalQuantity: FlexInt(totalQuantity),
		TotalAmount:   FlexInt(totalAmount),
	}
}

// EffectiveTotals 페이로드의 전체합계가 있으면 신뢰하고, 없거나 0이면 재계산 값으로 보완
func (o *Order) EffectiveTotals() Totals {
	computed := o.RecomputeTotals()
	if o.Totals == nil {
		return computed
	}
	result := *o.Totals
	if result.OrderCount == 0 {
		result.OrderCount = computed.OrderCount
	}
	if result.TotalQuantity == 0 {
		result.TotalQuantity = computed.TotalQuantity
	}
	if result.TotalAmount == 0 {
		result.TotalAmount = computed.TotalAmount
	}
	return result
}

// OrderedQuantities 상품코드별 주문 수량 합계
func (o *Order) OrderedQuantities() map[string]int {
	ordered := map[string]int{}
	for _, item := range o.AllLineItems() {
		code := strings.TrimSpace(item.Code)
		if code == "" {
			continue
		}
		ordered[code] += item.Quantity.Int()
	}
	return ordered
}

// AllocatedQuantities 상품코드별 배송 배분 수량 합계 (전체 배송 건)
func (o *Order) AllocatedQuantities() map[string]int {
	allocated := map[string]int{}
	for _, g := range o.DeliveryGroups {
		for _, item := range g.DeliveryItems {
			code := strings.TrimSpace(item.Code)
			if code == "" {
				continue
			}
			allocated[code] += item.Quantity.Int()
		}
	}
	return allocated
}

// GroupAllocations 배송 건별 상품코드 → 수량 (잔량 계산용)
func (o *Order) GroupAllocations() []map[string]int {
	result := make([]map[string]int, len(o.DeliveryGroups))
	for i, g := range o.DeliveryGroups {
		m := map[string]int{}
		for _, item := range g.DeliveryItems {
			code := strings.TrimSpace(item.Code)
			if code == "" {
				continue
			}
			m[code] += item.Quantity.Int()
		}
		result[i] = m
	}
	return result
}

// DeriveLinkedFields 연동 체크 상태를 실제 인적사항으로 해소
// 주문자 → 보내는 분 → 받는 분 순서로 한 방향으로만 전파한다.
func (o *Order) DeriveLinkedFields() {
	for i := range o.DeliveryGroups {
		g := &o.DeliveryGroups[i]
		if g.SenderLink == LinkOrderer {
			g.Sender = o.Orderer
		}
		switch g.ReceiverLink {
		case LinkOrderer:
			g.Receiver = o.Orderer
		case LinkSender:
			g.Receiver = g.Sender
		}
	}
}
