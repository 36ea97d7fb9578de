package render

import (
	"fmt"
	"strings"

	"github.com/muttul58-coder/GS25-Order/internal/model"
	"github.com/muttul58-coder/GS25-Order/internal/numfmt"
	"github.com/muttul58-coder/GS25-Order/internal/product"
)

// 주문서 시트는 9열 고정 폭에 커서를 한 방향으로 내리며 그린다.
const sheetWidth = 9

// 상품 행 높이 (바코드 이미지 수용)
const productRowHeight = 100

// 배경/글자 색상 (기존 주문서 시트와 동일)
const (
	titleBg        = "#f9f3c4"
	ordererBandBg  = "#9C27B0"
	ordererLabelBg = "#e1bee7"
	sectionBandBg  = "#4CAF50"
	senderBandBg   = "#ffb3ba"
	senderLabelBg  = "#ffe6e6"
	receiverBandBg = "#d4e9ff"
	receiverLabel  = "#e3f2fd"
	itemBandBg     = "#fff3cd"
	itemHeaderBg   = "#fff9c4"
	totalsBg       = "#fffacd"
	grandBandBg    = "#2563eb"
	grandHeaderBg  = "#dbeafe"
	grandValueBg   = "#eff6ff"
	promotionColor = "#d32f2f"
)

// Renderer 검증된 Order를 주문서 시트로 그리는 렌더러
// 같은 Order에 대해 항상 같은 쓰기 연산 순서를 생성한다.
type Renderer struct {
	sink         Sink
	catalogSheet string // 바코드 VLOOKUP 대상 시트

	err error
	row int
}

// NewRenderer 렌더러 생성
// catalogSheet가 빈 값이면 기본 상품 카탈로그 시트를 참조한다.
func NewRenderer(sink Sink, catalogSheet string) *Renderer {
	if catalogSheet == "" {
		catalogSheet = product.DefaultCatalogSheet
	}
	return &Renderer{sink: sink, catalogSheet: catalogSheet}
}

// 오류가 나면 이후 연산은 전부 무시한다 (첫 오류 보존)
func (r *Renderer) set(row, col int, value any) {
	if r.err != nil {
		return
	}
	r.err = r.sink.SetCell(row, col, value)
}

func (r *Renderer) style(rg Range, st Style) {
	if r.err != nil {
		return
	}
	r.err = r.sink.SetStyle(rg, st)
}

func (r *Renderer) merge(rg Range) {
	if r.err != nil {
		return
	}
	r.err = r.sink.Merge(rg)
}

func (r *Renderer) formula(row, col int, expr string) {
	if r.err != nil {
		return
	}
	r.err = r.sink.SetFormula(row, col, expr)
}

func (r *Renderer) rowHeight(row, height int) {
	if r.err != nil {
		return
	}
	r.err = r.sink.SetRowHeight(row, height)
}

// band 시트 전체 폭 병합 머리띠
func (r *Renderer) band(text string, st Style) {
	rg := Range{Row: r.row, Col: 1, Height: 1, Width: sheetWidth}
	r.merge(rg)
	r.set(r.row, 1, text)
	r.style(rg, st)
	r.row++
}

// personBlock 인적사항 2행 블록 (1행: 성명|전화번호, 2행: 우편번호|주소)
func (r *Renderer) personBlock(p model.Person, labelBg string) {
	label := Style{Bold: true, Background: labelBg}

	r.set(r.row, 1, "성명")
	r.style(Cell(r.row, 1), label)
	r.set(r.row, 2, p.Name)
	r.set(r.row, 3, "전화번호")
	r.style(Cell(r.row, 3), label)
	r.merge(Range{Row: r.row, Col: 4, Height: 1, Width: 6})
	r.set(r.row, 4, p.Phone)
	r.row++

	r.set(r.row, 1, "우편번호")
	r.style(Cell(r.row, 1), label)
	r.style(Cell(r.row, 2), Style{TextFormat: true}) // 앞자리 0 보존
	r.set(r.row, 2, p.PostalCode5())
	r.set(r.row, 3, "주소")
	r.style(Cell(r.row, 3), label)
	r.merge(Range{Row: r.row, Col: 4, Height: 1, Width: 6})
	r.set(r.row, 4, p.FullAddress())
	r.row++
}

// barcodeFormula 카탈로그 시트 B:C 범위에서 바코드를 찾는 수식
func (r *Renderer) barcodeFormula(code string) string {
	return fmt.Sprintf(`IFERROR(VLOOKUP("%s",%s!B:C,2,FALSE),"")`, code, r.catalogSheet)
}

// lineItemTable 가격이 있는 상품 테이블 (행사 열 포함 여부 선택)
// 반환: 테이블의 수량 합계와 금액 합계
func (r *Renderer) lineItemTable(items []model.LineItem, withPromotion bool) (totalQty, totalAmount int) {
	headers := []string{"No.", "상품코드", "상품이름", "수량", "단가", "금액", "바코드"}
	if withPromotion {
		headers = []string{"No.", "상품코드", "상품이름", "행사", "수량", "단가", "금액", "바코드"}
	}
	headerStyle := Style{Bold: true, Background: itemHeaderBg, Align: "center"}
	for i, h := range headers {
		r.set(r.row, i+1, h)
		r.style(Cell(r.row, i+1), headerStyle)
	}
	r.row++

	center := Style{Align: "center"}
	barcodeCol := len(headers)

	for i, item := range items {
		col := 1
		write := func(v any, st Style) {
			r.set(r.row, col, v)
			r.style(Cell(r.row, col), st)
			col++
		}

		write(i+1, center)
		write(item.Code, center)
		write(item.Name, center)
		if withPromotion {
			if model.HasPromotion(item.Promotion) {
				write(item.Promotion, Style{Bold: true, FontColor: promotionColor, Align: "center"})
			} else {
				write("", center)
			}
		}
		write(item.Quantity.Int(), center)
		write(numfmt.GroupThousands(item.UnitPrice.Int()), center)
		write(numfmt.GroupThousands(item.Amount.Int()), center)

		if code := strings.TrimSpace(item.Code); code != "" {
			r.formula(r.row, barcodeCol, r.barcodeFormula(code))
			r.style(Cell(r.row, barcodeCol), center)
		}
		r.rowHeight(r.row, productRowHeight)

		totalQty += item.Quantity.Int()
		totalAmount += item.Amount.Int()
		r.row++
	}

	// 합계 행
	totals := Style{Bold: true, Background: totalsBg, Align: "center"}
	r.merge(Range{Row: r.row, Col: 1, Height: 1, Width: 3})
	r.set(r.row, 1, "합계")
	r.style(Cell(r.row, 1), totals)
	qtyCol, labelCol, amountCol := 4, 5, 6
	if withPromotion {
		qtyCol, labelCol, amountCol = 5, 6, 7
	}
	r.set(r.row, qtyCol, totalQty)
	r.style(Cell(r.row, qtyCol), totals)
	r.set(r.row, labelCol, "총 금액:")
	r.style(Cell(r.row, labelCol), totals)
	r.set(r.row, amountCol, numfmt.GroupThousands(totalAmount)+" 원")
	r.style(Cell(r.row, amountCol), totals)
	r.row++

	return totalQty, totalAmount
}

// deliveryItemTable 배송 배분 상품 테이블 (가격 없음, 수량 소계만)
func (r *Renderer) deliveryItemTable(items []model.DeliveryItem) {
	headers := []string{"No.", "상품코드", "상품이름", "수량"}
	headerStyle := Style{Bold: true, Background: itemHeaderBg, Align: "center"}
	for i, h := range headers {
		r.set(r.row, i+1, h)
		r.style(Cell(r.row, i+1), headerStyle)
	}
	r.row++

	center := Style{Align: "center"}
	totalQty := 0
	for i, item := range items {
		r.set(r.row, 1, i+1)
		r.set(r.row, 2, item.Code)
		r.set(r.row, 3, item.Name)
		r.set(r.row, 4, item.Quantity.Int())
		r.style(Range{Row: r.row, Col: 1, Height: 1, Width: 4}, center)
		totalQty += item.Quantity.Int()
		r.row++
	}

	totals := Style{Bold: true, Background: totalsBg, Align: "center"}
	r.merge(Range{Row: r.row, Col: 1, Height: 1, Width: 3})
	r.set(r.row, 1, "수량 합계")
	r.style(Cell(r.row, 1), totals)
	r.set(r.row, 4, totalQty)
	r.style(Cell(r.row, 4), totals)
	r.row++
}

// Render 주문서 시트 생성
// timestamp/orderDateTime은 탐지된 원래 타입 그대로 쓴다 (주문 일시가 비면 행 생략).
func (r *Renderer) Render(order *model.Order, timestamp, orderDateTime any) error {
	if r.err = r.sink.Clear(); r.err != nil {
		return r.err
	}
	r.row = 1

	// 제목
	r.band("주 문 서", Style{Bold: true, FontSize: 18, Background: titleBg, Align: "center"})
	r.row++

	// 제출 시각 / 주문 일시
	r.set(r.row, 1, "제출 시각:")
	r.merge(Range{Row: r.row, Col: 2, Height: 1, Width: 2})
	r.set(r.row, 2, timestamp)
	r.row++

	if !isEmptyValue(orderDateTime) {
		r.set(r.row, 1, "주문 일시:")
		r.merge(Range{Row: r.row, Col: 2, Height: 1, Width: 2})
		r.set(r.row, 2, orderDateTime)
		r.row++
	}
	r.row++

	// 주문자 정보
	r.band("▣ 주문자 정보", Style{Bold: true, Background: ordererBandBg, FontColor: "#ffffff", Align: "center"})
	r.personBlock(order.Orderer, ordererLabelBg)
	r.row += 2

	// 주문 상품 (루트 목록이 있는 형태)
	rootItems := len(order.LineItems) > 0
	if rootItems {
		r.band("▶ 주문 상품", Style{Bold: true, Background: itemBandBg})
		r.lineItemTable(order.LineItems, true)
		r.row += 2
	}

	// 배송 건별 블록
	groupItems := false
	for _, g := range order.DeliveryGroups {
		r.band(fmt.Sprintf("━━━━━ 주문 #%d ━━━━━", g.SequenceNumber),
			Style{Bold: true, Background: sectionBandBg, FontColor: "#ffffff", Align: "center"})

		r.band("▶ 보내는 분", Style{Bold: true, Background: senderBandBg})
		r.personBlock(g.Sender, senderLabelBg)
		r.row++

		r.band("▶ 받는 분", Style{Bold: true, Background: receiverBandBg})
		r.personBlock(g.Receiver, receiverLabel)
		r.row++

		if len(g.LineItems) > 0 {
			groupItems = true
			r.band("▶ 상품 정보", Style{Bold: true, Background: itemBandBg})
			r.lineItemTable(g.LineItems, false)
		}
		if len(g.DeliveryItems) > 0 {
			r.band("▶ 배송 상품", Style{Bold: true, Background: itemBandBg})
			r.deliveryItemTable(g.DeliveryItems)
		}
		r.row += 3
	}

	// 전체 합계
	r.band("━━━━━ 전체 합계 ━━━━━",
		Style{Bold: true, FontSize: 12, Background: grandBandBg, FontColor: "#ffffff", Align: "center"})

	totals := order.EffectiveTotals()
	grandHeaders := []string{"총 주문 건수", "총 수량", "총 금액"}
	grandValues := []any{
		fmt.Sprintf("%d건", totals.OrderCount.Int()),
		totals.TotalQuantity.Int(),
		numfmt.GroupThousands(totals.TotalAmount.Int()) + " 원",
	}
	grandCols := []int{1, 3, 5}

	for i, h := range grandHeaders {
		rg := Range{Row: r.row, Col: grandCols[i], Height: 1, Width: 2}
		r.merge(rg)
		r.set(r.row, grandCols[i], h)
		r.style(rg, Style{Bold: true, Background: grandHeaderBg, Align: "center"})
	}
	r.row++

	for i, v := range grandValues {
		rg := Range{Row: r.row, Col: grandCols[i], Height: 1, Width: 2}
		r.merge(rg)
		r.set(r.row, grandCols[i], v)
		r.style(rg, Style{Bold: true, FontSize: 12, Background: grandValueBg, Align: "center"})
	}
	r.row += 2

	// 마무리: 열 너비와 테두리
	// 바코드 열 고정 폭은 상품 테이블을 실제로 그렸을 때만 적용한다
	barcodeCol := 0
	switch {
	case rootItems:
		barcodeCol = 8
	case groupItems:
		barcodeCol = 7
	}
	for col := 1; col <= sheetWidth; col++ {
		if r.err != nil {
			break
		}
		if col == barcodeCol {
			r.err = r.sink.SetColumnWidth(col, 28) // 바코드 열은 고정 폭
			continue
		}
		r.err = r.sink.AutosizeColumn(col)
	}
	if r.err == nil {
		r.err = r.sink.SetBorder(Range{Row: 1, Col: 1, Height: r.row - 2, Width: sheetWidth})
	}

	return r.err
}

func isEmptyValue(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}
