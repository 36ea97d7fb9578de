package product

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"8-1", "08-01"},
		{"08-01", "08-01"},
		{"106-1", "106-01"},
		{"106-01", "106-01"},
		{"1-1", "01-01"},
		{"08-1-2", "08-12"},     // 하이픈 여러 개: 뒷부분 결합
		{"1234-1", "123-01"},    // 카테고리 3자리 절단
		{"08-123", "08-12"},     // 번호 앞 2자리
		{" 08 - 01 ", "08-01"},  // 숫자/하이픈 외 문자 제거
		{"a8-b1", "08-01"},
	}
	for _, c := range cases {
		got, err := NormalizeCode(c.in)
		require.NoError(t, err, "NormalizeCode(%q)", c.in)
		assert.Equal(t, c.want, got, "NormalizeCode(%q)", c.in)
	}
}

func TestNormalizeCode_Errors(t *testing.T) {
	t.Parallel()

	_, err := NormalizeCode("1061")
	var fe *FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, MissingSeparator, fe.Kind)

	_, err = NormalizeCode("-01")
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, EmptySegment, fe.Kind)

	_, err = NormalizeCode("08-")
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, EmptySegment, fe.Kind)
}

func TestAutoInsertHyphen_NoCatalog(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string // "" = 추가 입력 대기
	}{
		{"1", ""},
		{"08", ""},
		{"100", ""},      // 100~106: 3자리 카테고리 가능성 → 대기
		{"106", ""},
		{"081", "08-1"},  // 범위 밖 3자리: 2자리 카테고리 확정
		{"099", "09-9"},
		{"107", "10-7"},
		{"1000", ""},     // "100x": 5자리 완성 대기
		{"1060", ""},
		{"0801", "08-01"},
		{"10701", "10-701"},
		{"10601", "106-01"}, // 범위 내 5자리: 3자리 카테고리 우선
	}
	for _, c := range cases {
		assert.Equal(t, c.want, AutoInsertHyphen(c.in, nil), "AutoInsertHyphen(%q)", c.in)
	}
}

func TestAutoInsertHyphen_CatalogPreference(t *testing.T) {
	t.Parallel()

	catalog := NewCatalog()
	require.NoError(t, catalog.Add(Info{Code: "10-60", Name: "음료"}))

	// 3자리 해석("106-01")이 카탈로그에 없고 2자리 해석("10-60")이 있으면 2자리 채택
	assert.Equal(t, "10-601", AutoInsertHyphen("10601", catalog.Has))

	require.NoError(t, catalog.Add(Info{Code: "106-01", Name: "컵라면"}))
	// 둘 다 있으면 3자리 우선
	assert.Equal(t, "106-01", AutoInsertHyphen("10601", catalog.Has))
}

func TestCatalog_Lookup(t *testing.T) {
	t.Parallel()

	catalog := NewCatalog()
	require.NoError(t, catalog.Add(Info{Code: "8-1", Name: "삼각김밥", UnitPrice: 1200, DefaultQuantity: 1}))

	info, ok := catalog.Lookup("08-01")
	require.True(t, ok)
	assert.Equal(t, "삼각김밥", info.Name)
	assert.Equal(t, 1200, info.UnitPrice)

	// 비표준 입력도 표준화 후 조회
	info, ok = catalog.Lookup("8-1")
	require.True(t, ok)
	assert.Equal(t, "08-01", info.Code)

	_, ok = catalog.Lookup("99-99")
	assert.False(t, ok)
}

func TestCatalog_Complete(t *testing.T) {
	t.Parallel()

	catalog := NewCatalog()
	require.NoError(t, catalog.Add(Info{Code: "08-01", Name: "삼각김밥"}))

	code, ok := catalog.Complete("0801")
	require.True(t, ok)
	assert.Equal(t, "08-01", code)

	_, ok = catalog.Complete("106")
	assert.False(t, ok, "대기 상태여야 함")
}
