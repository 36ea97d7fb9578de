package render

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ExcelSink excelize 워크북의 한 시트에 쓰는 Sink 구현
type ExcelSink struct {
	f       *excelize.File
	sheet   string
	applied map[string]Style // 셀 이름 → 마지막 적용 서식 (테두리 결합용)
	cache   map[string]int   // 서식 키 → excelize 스타일 ID
}

// NewExcelSink 시트에 대한 Sink 생성 (시트는 이미 존재해야 함)
func NewExcelSink(f *excelize.File, sheet string) *ExcelSink {
	return &ExcelSink{
		f:       f,
		sheet:   sheet,
		applied: map[string]Style{},
		cache:   map[string]int{},
	}
}

func cellName(row, col int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func (s *ExcelSink) rangeRefs(r Range) (first, last string) {
	return cellName(r.Row, r.Col), cellName(r.Row+r.Height-1, r.Col+r.Width-1)
}

// SetCell 셀 값 쓰기
func (s *ExcelSink) SetCell(row, col int, value any) error {
	return s.f.SetCellValue(s.sheet, cellName(row, col), value)
}

// Merge 영역 병합
func (s *ExcelSink) Merge(r Range) error {
	first, last := s.rangeRefs(r)
	return s.f.MergeCell(s.sheet, first, last)
}

func styleKey(st Style, border bool) string {
	return fmt.Sprintf("%v|%s|%s|%s|%d|%v|%v",
		st.Bold, st.Background, st.FontColor, st.Align, st.FontSize, st.TextFormat, border)
}

func (s *ExcelSink) styleID(st Style, border bool) (int, error) {
	key := styleKey(st, border)
	if id, ok := s.cache[key]; ok {
		return id, nil
	}

	xs := &excelize.Style{}
	if st.Bold || st.FontSize > 0 || st.FontColor != "" {
		font := &excelize.Font{Bold: st.Bold}
		if st.FontSize > 0 {
			font.Size = float64(st.FontSize)
		}
		if st.FontColor != "" {
			font.Color = strings.TrimPrefix(st.FontColor, "#")
		}
		xs.Font = font
	}
	if st.Background != "" {
		xs.Fill = excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{strings.TrimPrefix(st.Background, "#")},
		}
	}
	if st.Align != "" {
		xs.Alignment = &excelize.Alignment{Horizontal: st.Align, Vertical: "center"}
	}
	if st.TextFormat {
		xs.NumFmt = 49 // "@" 텍스트 형식
	}
	if border {
		edge := func(t string) excelize.Border {
			return excelize.Border{Type: t, Color: "000000", Style: 1}
		}
		xs.Border = []excelize.Border{edge("left"), edge("right"), edge("top"), edge("bottom")}
	}

	id, err := s.f.NewStyle(xs)
	if err != nil {
		return 0, err
	}
	s.cache[key] = id
	return id, nil
}

// SetStyle 영역 서식 적용
func (s *ExcelSink) SetStyle(r Range, st Style) error {
	id, err := s.styleID(st, false)
	if err != nil {
		return err
	}
	first, last := s.rangeRefs(r)
	if err := s.f.SetCellStyle(s.sheet, first, last, id); err != nil {
		return err
	}
	for row := r.Row; row < r.Row+r.Height; row++ {
		for col := r.Col; col < r.Col+r.Width; col++ {
			s.applied[cellName(row, col)] = st
		}
	}
	return nil
}

// SetFormula 수식 쓰기 (앞의 "="는 있어도 되고 없어도 됨)
func (s *ExcelSink) SetFormula(row, col int, expr string) error {
	return s.f.SetCellFormula(s.sheet, cellName(row, col), strings.TrimPrefix(expr, "="))
}

// SetRowHeight 행 높이 지정
func (s *ExcelSink) SetRowHeight(row, height int) error {
	return s.f.SetRowHeight(s.sheet, row, float64(height))
}

// SetColumnWidth 열 너비 지정
func (s *ExcelSink) SetColumnWidth(col int, width float64) error {
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return err
	}
	return s.f.SetColWidth(s.sheet, name, name, width)
}

// AutosizeColumn 내용 길이에 맞춰 열 너비 조정
// excelize에는 자동 맞춤이 없어 문자 폭 기준으로 근사한다.
func (s *ExcelSink) AutosizeColumn(col int) error {
	rows, err := s.f.GetRows(s.sheet)
	if err != nil {
		return err
	}
	maxWidth := 6.0
	for _, row := range rows {
		if col-1 >= len(row) {
			continue
		}
		w := displayWidth(row[col-1])
		if w > maxWidth {
			maxWidth = w
		}
	}
	if maxWidth > 60 {
		maxWidth = 60
	}
	return s.SetColumnWidth(col, maxWidth+2)
}

// displayWidth 셀 표시 폭 근사 (전각 문자는 2칸)
func displayWidth(s string) float64 {
	w := 0.0
	for _, r := range s {
		if r > 0x7F {
			w += 2
		} else {
			w++
		}
	}
	return w
}

// SetBorder 영역 전체에 검은 실선 테두리 적용
// 이미 서식이 있는 셀은 기존 서식을 유지한 채 테두리만 더한다.
func (s *ExcelSink) SetBorder(r Range) error {
	for row := r.Row; row < r.Row+r.Height; row++ {
		for col := r.Col; col < r.Col+r.Width; col++ {
			name := cellName(row, col)
			id, err := s.styleID(s.applied[name], true)
			if err != nil {
				return err
			}
			if err := s.f.SetCellStyle(s.sheet, name, name, id); err != nil {
				return err
			}
		}
	}
	return nil
}

// Clear 시트 내용 비우기 (병합 해제 포함)
func (s *ExcelSink) Clear() error {
	merges, err := s.f.GetMergeCells(s.sheet)
	if err != nil {
		return err
	}
	for _, m := range merges {
		if err := s.f.UnmergeCell(s.sheet, m.GetStartAxis(), m.GetEndAxis()); err != nil {
			return err
		}
	}

	rows, err := s.f.GetRows(s.sheet)
	if err != nil {
		return err
	}
	for range rows {
		if err := s.f.RemoveRow(s.sheet, 1); err != nil {
			return err
		}
	}
	s.applied = map[string]Style{}
	return nil
}
