package server

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/muttul58-coder/GS25-Order/internal/config"
)

// Server HTTP 서버
type Server struct {
	router  *gin.Engine
	handler *Handler
}

// NewServer 서버 생성
func NewServer(cfg *config.AppConfig) *Server {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		router:  gin.Default(),
		handler: NewHandler(cfg),
	}
	s.setupRoutes()
	return s
}

// setupRoutes 라우팅 설정
func (s *Server) setupRoutes() {
	// CORS (주문서 입력 페이지는 다른 출처에서 열릴 수 있음)
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	api := s.router.Group("/api")
	{
		s.handler.RegisterRoutes(api)
	}
}

// Run 서버 시작
func (s *Server) Run(port int) error {
	return s.router.Run(fmt.Sprintf(":%d", port))
}
