package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/muttul58-coder/GS25-Order/internal/batch"
	"github.com/muttul58-coder/GS25-Order/internal/config"
	"github.com/muttul58-coder/GS25-Order/internal/model"
	"github.com/muttul58-coder/GS25-Order/internal/product"
	"github.com/muttul58-coder/GS25-Order/internal/reconcile"
	"github.com/muttul58-coder/GS25-Order/internal/submit"
)

// Handler API 처리기
// 워크북은 트랜잭션 격리가 없는 공유 자원이므로 열기→수정→저장 구간은
// mu로 직렬화한다 (동시 접수 시 행 번호 충돌과 저장 덮어쓰기 방지).
type Handler struct {
	cfg    *config.AppConfig
	submit *submit.Client

	mu sync.Mutex
}

// NewHandler 처리기 생성
func NewHandler(cfg *config.AppConfig) *Handler {
	return &Handler{
		cfg:    cfg,
		submit: submit.NewClient(cfg.Form),
	}
}

// RegisterRoutes API 라우팅 등록
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 시스템 상태
	router.GET("/status", h.GetStatus)

	// 주문 접수
	router.POST("/orders", h.SubmitOrder)

	// 상품 조회
	router.GET("/products/complete", h.CompleteProductCode)
	router.GET("/products/:code", h.GetProduct)

	// 워크북 처리 (메뉴 기능)
	router.POST("/workbook/parse-latest", h.ParseLatest)
	router.POST("/workbook/parse-all", h.ParseAll)
	router.GET("/workbook/diagnose", h.DiagnoseColumns)
	router.DELETE("/workbook/generated", h.DeleteGenerated)
}

// openProcessor 설정된 응답 워크북을 여는 일괄 처리기
func (h *Handler) openProcessor() (*batch.Processor, error) {
	return batch.Open(h.cfg.Workbook.Path, batch.Options{
		ResponseSheet: h.cfg.Workbook.ResponseSheet,
		CatalogSheet:  h.cfg.Workbook.CatalogSheet,
	})
}

// loadCatalog 워크북의 상품 카탈로그 로드
func (h *Handler) loadCatalog() (*product.Catalog, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	f, err := excelize.OpenFile(h.cfg.Workbook.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := h.cfg.Workbook.CatalogSheet
	if sheet == "" {
		sheet = product.DefaultCatalogSheet
	}
	return product.LoadCatalogSheet(f, sheet)
}

// StatusResponse 시스템 상태 응답
type StatusResponse struct {
	WorkbookPath   string `json:"workbook_path"`
	WorkbookExists bool   `json:"workbook_exists"`
	ResponseRows   int    `json:"response_rows"`
	CatalogSize    int    `json:"catalog_size"`
	FormConfigured bool   `json:"form_configured"`
}

// GetStatus 시스템 상태
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	resp := StatusResponse{
		WorkbookPath:   h.cfg.Workbook.Path,
		FormConfigured: h.cfg.Form.Enabled(),
	}

	if _, err := os.Stat(h.cfg.Workbook.Path); err == nil {
		resp.WorkbookExists = true
	}
	if resp.WorkbookExists {
		h.mu.Lock()
		if p, err := h.openProcessor(); err == nil {
			if rows, err := p.File().GetRows(p.ResponseSheet()); err == nil && len(rows) > 1 {
				resp.ResponseRows = len(rows) - 1
			}
			p.Close()
		}
		h.mu.Unlock()

		if catalog, err := h.loadCatalog(); err == nil {
			resp.CatalogSize = catalog.Len()
		}
	}

	c.JSON(http.StatusOK, resp)
}

// SubmitOrderResponse 주문 접수 응답
type SubmitOrderResponse struct {
	SubmissionID string   `json:"submission_id"`
	SheetName    string   `json:"sheet_name"`
	Row          int      `json:"row"`
	Warnings     []string `json:"warnings,omitempty"` // 수량 부분 배분 등 차단하지 않는 진단
	FormSent     bool     `json:"form_sent"`
}

// SubmitOrder 주문 접수
// POST /api/orders
// 검증 → 수량 대조 → 응답 시트에 행 추가 → 주문서 시트 생성 → (설정 시) 수집 폼 전송
func (h *Handler) SubmitOrder(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "요청 본문을 읽지 못했습니다"})
		return
	}

	order, err := model.ParseOrder(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order.DeriveLinkedFields()

	if verr := order.Validate(); verr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "field": verr.Field})
		return
	}

	check := reconcile.Check(order.OrderedQuantities(), order.AllocatedQuantities())
	if check.HasBlocking() {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":    "주문 수량과 배송 수량이 맞지 않습니다",
			"messages": check.Messages(),
		})
		return
	}

	submittedAt := time.Now().Format("2006-01-02 15:04:05")
	result, row, err := h.renderSubmission(order, submittedAt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// 수집 폼 전송 실패는 접수를 막지 않는다
	sent, err := h.submit.Submit(c.Request.Context(), order, submittedAt)
	if err != nil {
		log.Printf("수집 폼 전송 실패: %v", err)
	}

	c.JSON(http.StatusOK, SubmitOrderResponse{
		SubmissionID: uuid.New().String(),
		SheetName:    result.SheetName,
		Row:          row,
		Warnings:     check.Messages(),
		FormSent:     sent,
	})
}

// renderSubmission 응답 행 추가부터 주문서 렌더링, 저장까지의 워크북 변경 구간
// 전체를 mu 아래에서 수행하여 접수가 행 단위로 직렬화되게 한다.
func (h *Handler) renderSubmission(order *model.Order, submittedAt string) (batch.RowResult, int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	p, err := h.openProcessor()
	if err != nil {
		return batch.RowResult{}, 0, err
	}
	defer p.Close()

	payload, err := json.Marshal(order)
	if err != nil {
		return batch.RowResult{}, 0, err
	}

	row, err := p.AppendResponse(submittedAt, order.Orderer.Name, order.Orderer.Phone, string(payload))
	if err != nil {
		return batch.RowResult{}, 0, err
	}

	result, err := p.ProcessLatest()
	if err != nil {
		return batch.RowResult{}, 0, err
	}
	if result.State != batch.StateRendered {
		return batch.RowResult{}, 0, fmt.Errorf("행 %d 처리 실패: %s", result.Row, result.Reason)
	}

	if err := p.File().Save(); err != nil {
		return batch.RowResult{}, 0, fmt.Errorf("워크북 저장 실패: %w", err)
	}
	return result, row, nil
}

// ProductResponse 상품 조회 응답
type ProductResponse struct {
	Code            string `json:"code"`
	Name            string `json:"name"`
	UnitPrice       int    `json:"unit_price"`
	DefaultQuantity int    `json:"default_quantity,omitempty"`
}

// GetProduct 상품 코드로 조회
// GET /api/products/:code  (코드는 표준 형식이 아니어도 됨: "8-1"도 "08-01"을 찾음)
func (h *Handler) GetProduct(c *gin.Context) {
	catalog, err := h.loadCatalog()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	info, ok := catalog.Lookup(c.Param("code"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "등록되지 않은 상품 코드입니다"})
		return
	}
	c.JSON(http.StatusOK, ProductResponse{
		Code:            info.Code,
		Name:            info.Name,
		UnitPrice:       info.UnitPrice,
		DefaultQuantity: info.DefaultQuantity,
	})
}

// CompleteResponse 코드 자동 완성 응답
type CompleteResponse struct {
	Code    string `json:"code"`    // 완성된 표준 형식 코드 (판단 불가면 빈 값)
	Pending bool   `json:"pending"` // true면 추가 입력 대기
}

// CompleteProductCode 숫자 입력에 하이픈 자동 삽입
// GET /api/products/complete?digits=10601
func (h *Handler) CompleteProductCode(c *gin.Context) {
	digits := c.Query("digits")
	if digits == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "digits 매개변수가 필요합니다"})
		return
	}

	catalog, err := h.loadCatalog()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	code, ok := catalog.Complete(digits)
	c.JSON(http.StatusOK, CompleteResponse{Code: code, Pending: !ok})
}

// withProcessor 워크북을 열고 작업 후 저장하는 공통 흐름 (mu 아래에서 수행)
func (h *Handler) withProcessor(c *gin.Context, save bool, fn func(*batch.Processor) (any, error)) {
	h.mu.Lock()
	defer h.mu.Unlock()

	p, err := h.openProcessor()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer p.Close()

	resp, err := fn(p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if save {
		if err := p.File().Save(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, resp)
}

// ParseLatest 최근 응답 행 파싱
// POST /api/workbook/parse-latest
func (h *Handler) ParseLatest(c *gin.Context) {
	h.withProcessor(c, true, func(p *batch.Processor) (any, error) {
		return p.ProcessLatest()
	})
}

// ParseAll 모든 응답 행 파싱
// POST /api/workbook/parse-all
func (h *Handler) ParseAll(c *gin.Context) {
	h.withProcessor(c, true, func(p *batch.Processor) (any, error) {
		summary, err := p.ProcessAll()
		if err != nil {
			return nil, err
		}
		return gin.H{
			"success": summary.Success,
			"skipped": summary.Skipped,
			"failed":  summary.Failed,
			"errors":  summary.Errors,
			"message": summary.String(),
		}, nil
	})
}

// DiagnoseColumns 최근 행의 열 분류 진단
// GET /api/workbook/diagnose
func (h *Handler) DiagnoseColumns(c *gin.Context) {
	h.withProcessor(c, false, func(p *batch.Processor) (any, error) {
		return p.DiagnoseColumns()
	})
}

// DeleteGenerated 자동 생성된 주문서 시트 전체 삭제
// DELETE /api/workbook/generated
func (h *Handler) DeleteGenerated(c *gin.Context) {
	h.withProcessor(c, true, func(p *batch.Processor) (any, error) {
		deleted, err := p.DeleteGenerated()
		if err != nil {
			return nil, err
		}
		return gin.H{"deleted": deleted}, nil
	})
}
