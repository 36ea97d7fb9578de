package server

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/muttul58-coder/GS25-Order/internal/config"
)

const orderBody = `{
	"주문자정보": {"성명": "김주문", "전화번호": "010-1234-5678", "우편번호": "06035", "기본주소": "서울", "상세주소": ""},
	"상품목록": [{"상품코드": "08-01", "상품이름": "삼각김밥", "수량": 3, "단가": 1000}],
	"주문목록": [{
		"주문번호": 1,
		"보내는분": {"성명": "김주문", "전화번호": "010-1234-5678", "우편번호": "06035", "기본주소": "서울", "상세주소": ""},
		"받는분": {"성명": "이수령", "전화번호": "031-111-2222", "우편번호": "13529", "기본주소": "성남", "상세주소": ""},
		"배송상품목록": [{"상품코드": "08-01", "상품이름": "삼각김밥", "수량": 3}]
	}]
}`

// testServer 임시 워크북이 연결된 테스트 서버
func testServer(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	path := filepath.Join(t.TempDir(), "orders.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "설문지 응답 시트1"))
	header := []any{"타임스탬프", "성명", "전화번호", "주문 데이터"}
	require.NoError(t, f.SetSheetRow("설문지 응답 시트1", "A1", &header))

	_, err := f.NewSheet("상품목록")
	require.NoError(t, err)
	catalogHeader := []any{"상품이름", "상품코드", "바코드", "단가", "기본수량"}
	require.NoError(t, f.SetSheetRow("상품목록", "A1", &catalogHeader))
	row := []any{"삼각김밥", "08-01", "8801234567890", "1,000", "1"}
	require.NoError(t, f.SetSheetRow("상품목록", "A2", &row))
	row = []any{"컵라면", "106-01", "8809876543210", "1,500", ""}
	require.NoError(t, f.SetSheetRow("상품목록", "A3", &row))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	cfg := config.DefaultConfig()
	cfg.Workbook.Path = path

	router := gin.New()
	api := router.Group("/api")
	NewHandler(cfg).RegisterRoutes(api)
	return router, path
}

func do(router *gin.Engine, method, url, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, url, reader)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSubmitOrder(t *testing.T) {
	router, path := testServer(t)

	w := do(router, http.MethodPost, "/api/orders", orderBody)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"sheet_name":"2_김주문(5678)_주문_`)
	assert.Contains(t, w.Body.String(), `"submission_id"`)
	assert.Contains(t, w.Body.String(), `"row":2`)

	// 워크북에 응답 행과 주문서 시트가 생겼는지 확인
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("설문지 응답 시트1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Contains(t, rows[1][3], `"주문자정보"`)

	found := false
	for _, name := range f.GetSheetList() {
		if strings.Contains(name, "_주문_") {
			found = true
		}
	}
	assert.True(t, found, "주문서 시트가 없음: %v", f.GetSheetList())
}

func TestSubmitOrder_ConcurrentSubmissions(t *testing.T) {
	router, path := testServer(t)

	// 워크북은 공유 자원: 동시 접수가 서로의 응답 행을 덮어쓰면 안 된다
	const n = 4
	codes := make([]int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = do(router, http.MethodPost, "/api/orders", orderBody).Code
		}(i)
	}
	wg.Wait()

	for i, code := range codes {
		require.Equal(t, http.StatusOK, code, "요청 %d", i)
	}

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("설문지 응답 시트1")
	require.NoError(t, err)
	assert.Len(t, rows, n+1, "헤더 + 접수 건수만큼 행이 남아야 함")

	generated := 0
	for _, name := range f.GetSheetList() {
		if strings.Contains(name, "_주문_") {
			generated++
		}
	}
	assert.Equal(t, n, generated, "접수마다 주문서 시트가 하나씩: %v", f.GetSheetList())
}

func TestSubmitOrder_ValidationError(t *testing.T) {
	router, _ := testServer(t)

	body := strings.Replace(orderBody, `"성명": "김주문"`, `"성명": ""`, 1)
	w := do(router, http.MethodPost, "/api/orders", body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "주문자정보.성명")
}

func TestSubmitOrder_ReconcileBlocks(t *testing.T) {
	router, _ := testServer(t)

	// 배송 수량(5)이 주문 수량(3)을 초과
	body := strings.Replace(orderBody, `"배송상품목록": [{"상품코드": "08-01", "상품이름": "삼각김밥", "수량": 3}]`,
		`"배송상품목록": [{"상품코드": "08-01", "상품이름": "삼각김밥", "수량": 5}]`, 1)
	w := do(router, http.MethodPost, "/api/orders", body)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "주문 수량(3)을 초과합니다")
}

func TestSubmitOrder_BadJSON(t *testing.T) {
	router, _ := testServer(t)
	w := do(router, http.MethodPost, "/api/orders", "JSON 아님")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetProduct(t *testing.T) {
	router, _ := testServer(t)

	// 비표준 입력도 표준 형식으로 변환해 조회
	w := do(router, http.MethodGet, "/api/products/8-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"08-01"`)
	assert.Contains(t, w.Body.String(), `"unit_price":1000`)

	w = do(router, http.MethodGet, "/api/products/99-99", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCompleteProductCode(t *testing.T) {
	router, _ := testServer(t)

	w := do(router, http.MethodGet, "/api/products/complete?digits=10601", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"106-01"`)

	// 3자리 범위 내 입력은 대기
	w = do(router, http.MethodGet, "/api/products/complete?digits=106", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"pending":true`)

	w = do(router, http.MethodGet, "/api/products/complete", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWorkbookEndpoints(t *testing.T) {
	router, _ := testServer(t)

	// 접수로 응답 행을 하나 만든 뒤 메뉴 기능 확인
	w := do(router, http.MethodPost, "/api/orders", orderBody)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(router, http.MethodPost, "/api/workbook/parse-all", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"skipped":1`)

	w = do(router, http.MethodGet, "/api/workbook/diagnose", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "주문 데이터(JSON)")

	w = do(router, http.MethodDelete, "/api/workbook/generated", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"deleted":1`)

	w = do(router, http.MethodPost, "/api/workbook/parse-latest", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"state":"rendered"`)
}

func TestGetStatus(t *testing.T) {
	router, _ := testServer(t)

	w := do(router, http.MethodGet, "/api/status", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"workbook_exists":true`)
	assert.Contains(t, w.Body.String(), `"catalog_size":2`)
	assert.Contains(t, w.Body.String(), `"form_configured":false`)
}
