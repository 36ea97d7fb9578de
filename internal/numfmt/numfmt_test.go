package numfmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroupThousands(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{1, "1"},
		{999, "999"},
		{1000, "1,000"},
		{12345, "12,345"},
		{1234567, "1,234,567"},
		{1000000000, "1,000,000,000"},
		{-12345, "-12,345"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, GroupThousands(c.in), "GroupThousands(%d)", c.in)
	}
}

func TestParseGrouped(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"0", 0},
		{"1,000", 1000},
		{"12,345,678", 12345678},
		{" 2,500 ", 2500},
		{"abc", 0},
		{"12,34a", 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ParseGrouped(c.in), "ParseGrouped(%q)", c.in)
	}
}

// 표시 포맷 왕복: groupThousands(parseGrouped(groupThousands(n))) == groupThousands(n)
func TestGroupParse_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, 12, 999, 1000, 54321, 987654321} {
		once := GroupThousands(n)
		assert.Equal(t, once, GroupThousands(ParseGrouped(once)))
	}
}

func TestPadPostalCode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"123", "00123"},
		{"6035", "06035"},
		{"13529", "13529"},
		{"1", "00001"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, PadPostalCode(c.in), "PadPostalCode(%q)", c.in)
	}
}

func TestFormatPhone(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"0", "0"},
		{"02", "02"},
		{"0212", "02-12"},
		{"021234", "02-123-4"},
		{"021234567", "02-123-4567"},
		{"0212345678", "02-1234-5678"},
		{"010", "010"},
		{"0101234", "010-1234"},
		{"0101234567", "010-123-4567"},
		{"01012345678", "010-1234-5678"},
		{"010-1234-5678", "010-1234-5678"},
		{"010 1234 5678", "010-1234-5678"},
		{"031123456", "031-123-456"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FormatPhone(c.in), "FormatPhone(%q)", c.in)
	}
}

func TestLast4Digits(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "5678", Last4Digits("010-1234-5678"))
	assert.Equal(t, "123", Last4Digits("123"))
	assert.Equal(t, "", Last4Digits(""))
}
