package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck_FullyReconciled(t *testing.T) {
	t.Parallel()

	// 두 배송 건에 6 + 4로 나뉘어도 합계만 맞으면 일치
	result := Check(
		map[string]int{"08-01": 10},
		map[string]int{"08-01": 10},
	)
	assert.True(t, result.FullyReconciled)
	assert.Empty(t, result.Diagnostics)
	assert.False(t, result.HasBlocking())
}

func TestCheck_Exceeded(t *testing.T) {
	t.Parallel()

	result := Check(
		map[string]int{"08-01": 10},
		map[string]int{"08-01": 11},
	)
	assert.False(t, result.FullyReconciled)
	require.Len(t, result.Diagnostics, 1)
	d := result.Diagnostics[0]
	assert.Equal(t, Exceeded, d.Kind)
	assert.Equal(t, 10, d.Ordered)
	assert.Equal(t, 11, d.Allocated)
	assert.True(t, d.Blocking())
	assert.Equal(t, "[08-01] 배송 수량(11)이 주문 수량(10)을 초과합니다.", d.Message())
}

func TestCheck_Partial(t *testing.T) {
	t.Parallel()

	result := Check(
		map[string]int{"08-01": 10},
		map[string]int{"08-01": 4},
	)
	assert.False(t, result.FullyReconciled)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, Partial, result.Diagnostics[0].Kind)
	assert.False(t, result.HasBlocking(), "부분 배분은 차단하지 않음")
}

func TestCheck_UnknownCode(t *testing.T) {
	t.Parallel()

	result := Check(
		map[string]int{"08-01": 10},
		map[string]int{"08-01": 10, "09-01": 1},
	)
	assert.False(t, result.FullyReconciled)
	require.Len(t, result.Diagnostics, 1)
	d := result.Diagnostics[0]
	assert.Equal(t, UnknownCode, d.Kind)
	assert.Equal(t, "09-01", d.Code)
	assert.Equal(t, 1, d.Allocated)
	assert.True(t, d.Blocking())
}

func TestCheck_UnallocatedIsNotFullyReconciled(t *testing.T) {
	t.Parallel()

	result := Check(map[string]int{"08-01": 10}, map[string]int{})
	assert.False(t, result.FullyReconciled)
	assert.Empty(t, result.Diagnostics, "배분 전에는 진단 없이 미완료만 표시")
}

func TestCheck_DeterministicOrder(t *testing.T) {
	t.Parallel()

	ordered := map[string]int{"10-01": 1, "08-01": 1, "09-01": 1}
	result := Check(ordered, map[string]int{"10-01": 2, "08-01": 2, "09-01": 2})
	require.Len(t, result.Diagnostics, 3)
	assert.Equal(t, "08-01", result.Diagnostics[0].Code)
	assert.Equal(t, "09-01", result.Diagnostics[1].Code)
	assert.Equal(t, "10-01", result.Diagnostics[2].Code)
}

func TestSelectableOptions(t *testing.T) {
	t.Parallel()

	ordered := map[string]int{"08-01": 10, "106-01": 2}
	allocations := []map[string]int{
		{"08-01": 6},             // 배송 건 1
		{"08-01": 4, "106-01": 2}, // 배송 건 2
	}

	// 배송 건 1 기준: 08-01 잔량 10-4=6, 106-01 잔량 2-2=0 → 제외
	options := SelectableOptions(ordered, allocations, 0, nil)
	require.Len(t, options, 1)
	assert.Equal(t, "08-01", options[0].Code)
	assert.Equal(t, 6, options[0].Remaining)

	// 같은 배송 건에서 이미 선택한 코드는 제외
	options = SelectableOptions(ordered, allocations, 0, map[string]bool{"08-01": true})
	assert.Empty(t, options)

	// 배송 건 2 기준: 106-01은 다른 건 배분이 없으므로 잔량 2
	options = SelectableOptions(ordered, allocations, 1, nil)
	require.Len(t, options, 2)
	assert.Equal(t, "08-01", options[0].Code)
	assert.Equal(t, 4, options[0].Remaining)
	assert.Equal(t, "106-01", options[1].Code)
	assert.Equal(t, 2, options[1].Remaining)
}
