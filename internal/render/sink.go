package render

// Range 시트 위의 직사각형 영역 (1부터 시작하는 행/열)
type Range struct {
	Row    int
	Col    int
	Height int
	Width  int
}

// Cell 단일 셀 영역
func Cell(row, col int) Range {
	return Range{Row: row, Col: col, Height: 1, Width: 1}
}

// Style 셀 서식 (필요한 속성만 지정, 나머지는 기본값 유지)
type Style struct {
	Bold       bool
	Background string // "#RRGGBB", 빈 값이면 배경 없음
	FontColor  string // "#RRGGBB", 빈 값이면 기본
	Align      string // "center" 등, 빈 값이면 기본
	FontSize   int    // 0이면 기본
	TextFormat bool   // 문자열(텍스트) 표시 형식 (우편번호의 앞자리 0 보존)
}

// Sink 렌더러가 소비하는 그리드 쓰기 대상
// 실제 스프레드시트(ExcelSink)와 테스트용 기록 싱크가 구현한다.
type Sink interface {
	SetCell(row, col int, value any) error
	Merge(r Range) error
	SetStyle(r Range, s Style) error
	SetFormula(row, col int, expr string) error
	SetRowHeight(row, height int) error
	SetColumnWidth(col int, width float64) error
	AutosizeColumn(col int) error
	SetBorder(r Range) error
	Clear() error
}
