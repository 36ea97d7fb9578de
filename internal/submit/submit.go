package submit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/muttul58-coder/GS25-Order/internal/model"
)

// 수집 폼 제출은 부가 기능이다. 실패해도 주문서 처리는 계속 진행하고,
// 응답 본문은 해석하지 않는다 (수집 측이 불투명 응답을 돌려줌).

const defaultTimeout = 5 * time.Second

// Entries 수집 폼의 입력 필드 ID
type Entries struct {
	DateTime  string `toml:"date_time"`
	Name      string `toml:"name"`
	Phone     string `toml:"phone"`
	OrderData string `toml:"order_data"`
}

func (e Entries) complete() bool {
	return e.DateTime != "" && e.Name != "" && e.Phone != "" && e.OrderData != ""
}

// Config 수집 폼 엔드포인트 설정
// URL이나 필드 ID가 비어 있으면 제출은 조용히 건너뛴다.
type Config struct {
	FormURL string  `toml:"form_url"`
	Entries Entries `toml:"entries"`
}

// Enabled 제출 가능 여부
func (c Config) Enabled() bool {
	return c.FormURL != "" && c.Entries.complete()
}

// Client 수집 폼에 주문을 전송하는 클라이언트
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient 클라이언트 생성
func NewClient(cfg Config) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: defaultTimeout},
	}
}

// Submit 주문을 수집 폼에 전송
// 설정이 없으면 건너뛰고 (false, nil), 전송 실패는 오류로 돌려주되
// 호출 측은 기록만 하고 계속 진행하면 된다. 재시도하지 않는다.
func (c *Client) Submit(ctx context.Context, order *model.Order, submittedAt string) (bool, error) {
	if !c.cfg.Enabled() {
		log.Printf("수집 폼 설정이 없어 제출을 건너뜁니다")
		return false, nil
	}

	payload, err := json.MarshalIndent(order, "", "  ")
	if err != nil {
		return false, fmt.Errorf("주문 데이터 직렬화 실패: %w", err)
	}

	form := url.Values{}
	form.Set(c.cfg.Entries.DateTime, submittedAt)
	form.Set(c.cfg.Entries.Name, order.Orderer.Name)
	form.Set(c.cfg.Entries.Phone, order.Orderer.Phone)
	form.Set(c.cfg.Entries.OrderData, string(payload))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.FormURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("요청 생성 실패: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("수집 폼 전송 실패: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body) // 본문은 해석하지 않음

	log.Printf("수집 폼 제출 완료 (상태 %d)", resp.StatusCode)
	return true, nil
}
