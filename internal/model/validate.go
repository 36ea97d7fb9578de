package model

import (
	"fmt"
	"strings"
)

// ValidationError 필수 입력 검증 오류
// Field는 폼에서 포커스를 옮길 대상 필드 경로 (예: "주문목록[2].받는분.전화번호")
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// validatePerson 인적사항 4개 필드 순서대로 검증 (성명 → 전화번호 → 우편번호 → 주소)
func validatePerson(p Person, fieldPrefix, label string) *ValidationError {
	if strings.TrimSpace(p.Name) == "" {
		return &ValidationError{Field: fieldPrefix + ".성명", Message: label + " 성명을 입력해주세요."}
	}
	if strings.TrimSpace(p.Phone) == "" {
		return &ValidationError{Field: fieldPrefix + ".전화번호", Message: label + " 전화번호를 입력해주세요."}
	}
	if strings.TrimSpace(p.PostalCode.String()) == "" {
		return &ValidationError{Field: fieldPrefix + ".우편번호", Message: label + " 우편번호를 입력해주세요."}
	}
	if p.FullAddress() == "" {
		return &ValidationError{Field: fieldPrefix + ".기본주소", Message: label + " 주소를 입력해주세요."}
	}
	return nil
}

// validateLineItems 상품 행 순서대로 검증 (코드 → 수량 → 단가)
func validateLineItems(items []LineItem, fieldPrefix, label string) *ValidationError {
	for i, item := range items {
		rowPrefix := fmt.Sprintf("%s[%d]", fieldPrefix, i+1)
		rowLabel := fmt.Sprintf("%s상품 %d의", label, i+1)
		if strings.TrimSpace(item.Code) == "" {
			return &ValidationError{Field: rowPrefix + ".상품코드", Message: rowLabel + " 상품 코드를 입력해주세요."}
		}
		if item.Quantity.Int() <= 0 {
			return &ValidationError{Field: rowPrefix + ".수량", Message: rowLabel + " 수량을 입력해주세요."}
		}
		if item.UnitPrice.Int() <= 0 {
			return &ValidationError{Field: rowPrefix + ".단가", Message: rowLabel + " 단가를 입력해주세요."}
		}
	}
	return nil
}

// Validate 필수 입력 검증
// 첫 위반에서 즉시 중단한다. 순서는 화면 배치와 같다:
// 주문자 → 주문 상품 → 배송 건별(보내는 분 → 받는 분 → 상품/배송상품)
func (o *Order) Validate() *ValidationError {
	if err := validatePerson(o.Orderer, "주문자정보", "주문자"); err != nil {
		return err
	}

	if err := validateLineItems(o.LineItems, "상품목록", ""); err != nil {
		return err
	}

	for i, g := range o.DeliveryGroups {
		groupPrefix := fmt.Sprintf("주문목록[%d]", i+1)
		groupLabel := fmt.Sprintf("[주문 #%d] ", i+1)

		if err := validatePerson(g.Sender, groupPrefix+".보내는분", groupLabel+"보내는 분"); err != nil {
			return err
		}
		if err := validatePerson(g.Receiver, groupPrefix+".받는분", groupLabel+"받는 분"); err != nil {
			return err
		}
		if err := validateLineItems(g.LineItems, groupPrefix+".상품목록", groupLabel); err != nil {
			return err
		}
		for j, item := range g.DeliveryItems {
			rowPrefix := fmt.Sprintf("%s.배송상품목록[%d]", groupPrefix, j+1)
			rowLabel := fmt.Sprintf("%s배송 상품 %d의", groupLabel, j+1)
			if strings.TrimSpace(item.Code) == "" {
				return &ValidationError{Field: rowPrefix + ".상품코드", Message: rowLabel + " 상품을 선택해주세요."}
			}
			if item.Quantity.Int() <= 0 {
				return &ValidationError{Field: rowPrefix + ".수량", Message: rowLabel + " 수량을 입력해주세요."}
			}
		}
	}

	return nil
}
