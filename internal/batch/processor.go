package batch

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/muttul58-coder/GS25-Order/internal/detect"
	"github.com/muttul58-coder/GS25-Order/internal/model"
	"github.com/muttul58-coder/GS25-Order/internal/numfmt"
	"github.com/muttul58-coder/GS25-Order/internal/product"
	"github.com/muttul58-coder/GS25-Order/internal/render"
)

// RowState 응답 행 처리 상태
type RowState string

const (
	StateRendered         RowState = "rendered"
	StateSkippedDuplicate RowState = "skipped_duplicate"
	StateErrorDetection   RowState = "error_detection"
	StateErrorParse       RowState = "error_parse"
	StateErrorRender      RowState = "error_render"
)

// RowResult 행 하나의 처리 결과
type RowResult struct {
	Row       int      `json:"row"`
	State     RowState `json:"state"`
	SheetName string   `json:"sheet_name,omitempty"`
	Reason    string   `json:"reason,omitempty"`
}

// Summary 일괄 처리 결과 요약
type Summary struct {
	Success int      `json:"success"`
	Skipped int      `json:"skipped"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"` // "행 N: 사유" 형식
}

func (s Summary) String() string {
	return fmt.Sprintf("파싱 완료! 성공: %d건, 건너뜀: %d건, 실패: %d건", s.Success, s.Skipped, s.Failed)
}

// 시트 이름 제약: 그리드 쪽 상한 100자, Excel 워크북 상한 31자
const (
	sheetNameCeiling = 100
	excelSheetLimit  = 31
)

// generatedMarker 자동 생성 시트 이름에 들어가는 표식
const generatedMarker = "_주문_"

// Processor 폼 응답 시트를 행 단위로 처리하는 일괄 드라이버
// 대상 워크북은 공유 자원이므로 행은 항상 순차 처리한다.
type Processor struct {
	file          *excelize.File
	responseSheet string
	catalogSheet  string
}

// Options Processor 설정
type Options struct {
	ResponseSheet string // 빈 값이면 첫 번째 시트
	CatalogSheet  string // 빈 값이면 기본 상품 카탈로그 시트
}

// NewProcessor 열린 워크북에 대한 Processor 생성
func NewProcessor(f *excelize.File, opts Options) *Processor {
	responseSheet := opts.ResponseSheet
	if responseSheet == "" {
		if list := f.GetSheetList(); len(list) > 0 {
			responseSheet = list[0]
		}
	}
	catalogSheet := opts.CatalogSheet
	if catalogSheet == "" {
		catalogSheet = product.DefaultCatalogSheet
	}
	return &Processor{file: f, responseSheet: responseSheet, catalogSheet: catalogSheet}
}

// Open 워크북 파일을 열어 Processor 생성
func Open(path string, opts Options) (*Processor, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("워크북 열기 실패: %w", err)
	}
	return NewProcessor(f, opts), nil
}

// File 내부 워크북 (저장은 호출 측 책임)
func (p *Processor) File() *excelize.File {
	return p.file
}

// ResponseSheet 응답 시트 이름
func (p *Processor) ResponseSheet() string {
	return p.responseSheet
}

// Close 워크북 닫기
func (p *Processor) Close() error {
	return p.file.Close()
}

// dataRows 응답 시트의 데이터 행 (1행 헤더 제외)
// 반환 인덱스는 시트 기준 행 번호 (2부터)
func (p *Processor) dataRows() ([][]string, error) {
	rows, err := p.file.GetRows(p.responseSheet)
	if err != nil {
		return nil, fmt.Errorf("응답 시트 %q 읽기 실패: %w", p.responseSheet, err)
	}
	if len(rows) < 2 {
		return nil, nil
	}
	return rows[1:], nil
}

func toCells(row []string) []any {
	cells := make([]any, len(row))
	for i, v := range row {
		cells[i] = v
	}
	return cells
}

// parseTimestamp 타임스탬프 값 파싱 (시트 이름용)
func parseTimestamp(v any) (time.Time, bool) {
	if t, ok := v.(time.Time); ok {
		return t, true
	}
	s := strings.TrimSpace(fmt.Sprintf("%v", v))
	layouts := []string{
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2006/01/02 15:04:05",
		time.RFC3339,
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// sheetNameFor 생성할 시트 이름
// 형식: "{행번호}_{성명}({전화 끝4자리})_주문_{yyyyMMdd_HHmmss}"
func sheetNameFor(rowIndex int, order *model.Order, detected *detect.Row) string {
	name := strings.TrimSpace(order.Orderer.Name)
	if name == "" {
		name = strings.TrimSpace(detected.Name)
	}
	if name == "" {
		name = "미확인"
	}

	phone := order.Orderer.Phone
	if strings.TrimSpace(phone) == "" {
		phone = detected.Phone
	}
	label := name
	if last4 := numfmt.Last4Digits(phone); last4 != "" {
		label += "(" + last4 + ")"
	}

	stamp := "00000000_000000"
	if t, ok := parseTimestamp(detected.Timestamp); ok {
		stamp = t.Format("20060102_150405")
	}

	full := truncateRunes(fmt.Sprintf("%d_%s%s%s", rowIndex, label, generatedMarker, stamp), sheetNameCeiling)
	return truncateRunes(full, excelSheetLimit)
}

// sheetExists 시트 존재 여부
func (p *Processor) sheetExists(name string) bool {
	idx, err := p.file.GetSheetIndex(name)
	return err == nil && idx >= 0
}

// renderRow 탐지/파싱된 행을 새 시트로 렌더링
func (p *Processor) renderRow(sheetName string, order *model.Order, detected *detect.Row) error {
	if _, err := p.file.NewSheet(sheetName); err != nil {
		return fmt.Errorf("시트 %q 생성 실패: %w", sheetName, err)
	}
	sink := render.NewExcelSink(p.file, sheetName)
	renderer := render.NewRenderer(sink, p.catalogSheet)
	if err := renderer.Render(order, detected.Timestamp, detected.OrderDateTime); err != nil {
		return fmt.Errorf("시트 %q 렌더링 실패: %w", sheetName, err)
	}
	return nil
}

// processRow 행 하나 처리
// overwriteExisting이면 중복 시트를 비우고 다시 그린다 (최신 행 재파싱용)
func (p *Processor) processRow(rowIndex int, cells []any, overwriteExisting bool) RowResult {
	result := RowResult{Row: rowIndex}

	detected, err := detect.DetectColumns(cells)
	if err != nil {
		result.State = StateErrorDetection
		result.Reason = err.Error()
		return result
	}

	order, err := model.ParseOrder([]byte(detected.JSONPayload))
	if err != nil {
		result.State = StateErrorParse
		result.Reason = err.Error()
		return result
	}

	result.SheetName = sheetNameFor(rowIndex, order, detected)

	if p.sheetExists(result.SheetName) {
		if !overwriteExisting {
			result.State = StateSkippedDuplicate
			return result
		}
		// 최신 행은 항상 다시 그린다
	}

	if err := p.renderRow(result.SheetName, order, detected); err != nil {
		result.State = StateErrorRender
		result.Reason = err.Error()
		return result
	}

	result.State = StateRendered
	return result
}

// ProcessAll 모든 응답 행 처리
// 행 단위 오류는 기록만 하고 다음 행으로 진행한다 (재시도 없음).
func (p *Processor) ProcessAll() (Summary, error) {
	rows, err := p.dataRows()
	if err != nil {
		return Summary{}, err
	}

	var summary Summary
	for i, row := range rows {
		rowIndex := i + 2
		result := p.processRow(rowIndex, toCells(row), false)
		switch result.State {
		case StateRendered:
			summary.Success++
			log.Printf("행 %d: 파싱 완료 - %s", rowIndex, result.SheetName)
		case StateSkippedDuplicate:
			summary.Skipped++
			log.Printf("행 %d: 이미 처리됨 - %s", rowIndex, result.SheetName)
		default:
			summary.Failed++
			summary.Errors = append(summary.Errors, fmt.Sprintf("행 %d: %s", rowIndex, result.Reason))
			log.Printf("행 %d: 오류 발생 - %s", rowIndex, result.Reason)
		}
	}
	return summary, nil
}

// ProcessLatest 가장 최근 응답 행 처리 (기존 시트가 있으면 다시 그림)
func (p *Processor) ProcessLatest() (RowResult, error) {
	rows, err := p.dataRows()
	if err != nil {
		return RowResult{}, err
	}
	if len(rows) == 0 {
		return RowResult{}, fmt.Errorf("제출된 데이터가 없습니다")
	}
	rowIndex := len(rows) + 1
	return p.processRow(rowIndex, toCells(rows[len(rows)-1]), true), nil
}

// AppendResponse 응답 시트 끝에 제출 행 추가
// 시트가 비어 있으면 헤더 행을 먼저 만든다. 반환값은 추가된 행 번호.
func (p *Processor) AppendResponse(timestamp, name, phone, payload string) (int, error) {
	rows, err := p.file.GetRows(p.responseSheet)
	if err != nil {
		return 0, fmt.Errorf("응답 시트 %q 읽기 실패: %w", p.responseSheet, err)
	}
	if len(rows) == 0 {
		header := []any{"타임스탬프", "성명", "전화번호", "주문 데이터"}
		if err := p.file.SetSheetRow(p.responseSheet, "A1", &header); err != nil {
			return 0, fmt.Errorf("헤더 쓰기 실패: %w", err)
		}
		rows = append(rows, nil)
	}

	rowIndex := len(rows) + 1
	cell, err := excelize.CoordinatesToCellName(1, rowIndex)
	if err != nil {
		return 0, err
	}
	row := []any{timestamp, name, phone, payload}
	if err := p.file.SetSheetRow(p.responseSheet, cell, &row); err != nil {
		return 0, fmt.Errorf("응답 행 쓰기 실패: %w", err)
	}
	return rowIndex, nil
}

// ColumnDiagnosis 열 분류 진단 (열 순서가 흔들릴 때 디버깅용)
type ColumnDiagnosis struct {
	Row     int      `json:"row"`
	Columns []string `json:"columns"`
	Error   string   `json:"error,omitempty"`
}

// DiagnoseColumns 최근 행의 열 분류 결과를 사람이 읽을 형태로 반환
func (p *Processor) DiagnoseColumns() (ColumnDiagnosis, error) {
	rows, err := p.dataRows()
	if err != nil {
		return ColumnDiagnosis{}, err
	}
	if len(rows) == 0 {
		return ColumnDiagnosis{}, fmt.Errorf("제출된 데이터가 없습니다")
	}

	rowIndex := len(rows) + 1
	cells := toCells(rows[len(rows)-1])
	diagnosis := ColumnDiagnosis{Row: rowIndex}

	detected, err := detect.DetectColumns(cells)
	if err != nil {
		diagnosis.Error = err.Error()
		return diagnosis, nil
	}

	for i, cell := range cells {
		s := strings.TrimSpace(fmt.Sprintf("%v", cell))
		var role string
		switch {
		case i == 0:
			role = "타임스탬프"
		case i == detected.JSONColumn:
			role = "주문 데이터(JSON)"
		case s == "":
			role = "빈 칸"
		case detected.Phone == s:
			role = "전화번호"
		case detected.Name == s:
			role = "성명"
		case fmt.Sprintf("%v", detected.OrderDateTime) == s:
			role = "주문 일시"
		default:
			role = "미분류"
		}
		diagnosis.Columns = append(diagnosis.Columns, fmt.Sprintf("%d열: %s", i+1, role))
	}
	return diagnosis, nil
}

// DeleteGenerated 자동 생성된 주문서 시트 전체 삭제
// 응답/카탈로그 시트는 건드리지 않는다.
func (p *Processor) DeleteGenerated() (int, error) {
	deleted := 0
	for _, name := range p.file.GetSheetList() {
		if name == p.responseSheet || name == p.catalogSheet {
			continue
		}
		if !strings.Contains(name, generatedMarker) {
			continue
		}
		if err := p.file.DeleteSheet(name); err != nil {
			return deleted, fmt.Errorf("시트 %q 삭제 실패: %w", name, err)
		}
		deleted++
	}
	return deleted, nil
}
