package product

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/muttul58-coder/GS25-Order/internal/numfmt"
)

// DefaultCatalogSheet 상품 카탈로그 시트 이름
// 주문서의 바코드 수식(VLOOKUP)도 이 시트를 참조한다.
const DefaultCatalogSheet = "상품목록"

// Info 카탈로그에 등록된 상품 정보
type Info struct {
	Code            string // 표준 형식 상품코드 (예: "08-01")
	Name            string
	UnitPrice       int
	DefaultQuantity int // 0이면 기본 수량 없음
}

// Catalog 상품코드 → 상품 정보 조회 테이블
type Catalog struct {
	byCode map[string]Info
}

// NewCatalog 빈 카탈로그 생성
func NewCatalog() *Catalog {
	return &Catalog{byCode: map[string]Info{}}
}

// Add 상품 등록 (코드는 표준 형식으로 변환하여 저장)
func (c *Catalog) Add(info Info) error {
	code, err := NormalizeCode(info.Code)
	if err != nil {
		return err
	}
	if code == "" {
		return &FormatError{Kind: EmptySegment, Input: info.Code}
	}
	info.Code = code
	c.byCode[code] = info
	return nil
}

// Len 등록된 상품 수
func (c *Catalog) Len() int {
	return len(c.byCode)
}

// Lookup 상품 코드로 조회 (조회 전 표준 형식으로 변환: "8-1"도 "08-01"을 찾음)
func (c *Catalog) Lookup(rawCode string) (Info, bool) {
	code, err := NormalizeCode(rawCode)
	if err != nil || code == "" {
		return Info{}, false
	}
	info, ok := c.byCode[code]
	return info, ok
}

// Has AutoInsertHyphen에서 쓰는 조회 콜백
func (c *Catalog) Has(code string) bool {
	_, ok := c.byCode[code]
	return ok
}

// Complete 숫자만 입력된 코드를 하이픈 포함 표준 형식으로 완성
// 판단 불가(추가 입력 대기)면 ok=false
func (c *Catalog) Complete(digits string) (code string, ok bool) {
	inserted := AutoInsertHyphen(digits, c.Has)
	if inserted == "" {
		return "", false
	}
	normalized, err := NormalizeCode(inserted)
	if err != nil {
		return "", false
	}
	return normalized, true
}

// LoadCatalogSheet 워크북의 상품 카탈로그 시트를 읽어 카탈로그 구성
// 열 배치: A=상품이름, B=상품코드, C=바코드, D=단가, E=기본수량 (1행은 헤더)
// 코드가 없거나 형식이 잘못된 행은 건너뛴다.
func LoadCatalogSheet(f *excelize.File, sheet string) (*Catalog, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("상품 카탈로그 시트 %q 읽기 실패: %w", sheet, err)
	}

	catalog := NewCatalog()
	for i, row := range rows {
		if i == 0 {
			continue // 헤더
		}
		info := Info{
			Name: strings.TrimSpace(cellAt(row, 0)),
			Code: strings.TrimSpace(cellAt(row, 1)),
		}
		if info.Code == "" {
			continue
		}
		info.UnitPrice = numfmt.ParseGrouped(cellAt(row, 3))
		info.DefaultQuantity = numfmt.ParseGrouped(cellAt(row, 4))

		if err := catalog.Add(info); err != nil {
			continue
		}
	}
	return catalog, nil
}

func cellAt(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}
