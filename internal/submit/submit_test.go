package submit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muttul58-coder/GS25-Order/internal/model"
)

func testConfig(formURL string) Config {
	return Config{
		FormURL: formURL,
		Entries: Entries{
			DateTime:  "entry.1000001",
			Name:      "entry.1000002",
			Phone:     "entry.1000003",
			OrderData: "entry.1000004",
		},
	}
}

func testOrder(t *testing.T) *model.Order {
	t.Helper()
	order, err := model.ParseOrder([]byte(`{
		"주문자정보": {"성명": "김주문", "전화번호": "010-1234-5678", "우편번호": "06035", "기본주소": "서울", "상세주소": ""},
		"상품목록": [{"상품코드": "08-01", "상품이름": "삼각김밥", "수량": 3, "단가": 1000}],
		"주문목록": []
	}`))
	require.NoError(t, err)
	return order
}

func TestSubmit(t *testing.T) {
	var gotForm map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{}
		for k := range r.PostForm {
			gotForm[k] = r.PostForm.Get(k)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	sent, err := client.Submit(context.Background(), testOrder(t), "2026-02-11 10:00:00")
	require.NoError(t, err)
	assert.True(t, sent)

	assert.Equal(t, "2026-02-11 10:00:00", gotForm["entry.1000001"])
	assert.Equal(t, "김주문", gotForm["entry.1000002"])
	assert.Equal(t, "010-1234-5678", gotForm["entry.1000003"])
	// 주문 데이터 필드는 한국어 키를 그대로 가진 JSON 문자열
	assert.True(t, strings.Contains(gotForm["entry.1000004"], `"주문자정보"`))
	assert.True(t, strings.Contains(gotForm["entry.1000004"], `"상품코드": "08-01"`))
}

func TestSubmit_SkipsWithoutConfig(t *testing.T) {
	for name, cfg := range map[string]Config{
		"URL 없음":      {Entries: testConfig("x").Entries},
		"필드 ID 일부 누락": {FormURL: "http://example.com", Entries: Entries{Name: "entry.1"}},
		"빈 설정":        {},
	} {
		t.Run(name, func(t *testing.T) {
			sent, err := NewClient(cfg).Submit(context.Background(), testOrder(t), "ts")
			assert.NoError(t, err)
			assert.False(t, sent)
		})
	}
}

func TestSubmit_ReturnsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // 즉시 닫아 연결 실패 유도

	sent, err := NewClient(testConfig(server.URL)).Submit(context.Background(), testOrder(t), "ts")
	assert.Error(t, err)
	assert.False(t, sent)
}

func TestSubmit_IgnoresResponseBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("해석하지 않는 본문"))
	}))
	defer server.Close()

	// 수집 측 응답은 불투명하므로 상태 코드와 무관하게 성공으로 본다
	sent, err := NewClient(testConfig(server.URL)).Submit(context.Background(), testOrder(t), "ts")
	assert.NoError(t, err)
	assert.True(t, sent)
}
