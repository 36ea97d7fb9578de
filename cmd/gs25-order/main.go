package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/muttul58-coder/GS25-Order/internal/batch"
	"github.com/muttul58-coder/GS25-Order/internal/config"
	"github.com/muttul58-coder/GS25-Order/internal/server"
	"github.com/muttul58-coder/GS25-Order/internal/util"
)

var (
	configPath  = flag.String("config", "", "설정 파일 경로 (기본: 실행 파일 옆 config.toml)")
	workbook    = flag.String("workbook", "", "응답 워크북 경로 (설정 파일보다 우선)")
	port        = flag.Int("port", 0, "서버 포트 (설정 파일보다 우선)")
	devMode     = flag.Bool("dev", false, "개발 모드")
	parseLatest = flag.Bool("parse-latest", false, "최근 응답 행만 파싱하고 종료")
	parseAll    = flag.Bool("parse-all", false, "모든 응답 행을 파싱하고 종료")
	diagnose    = flag.Bool("diagnose", false, "최근 행의 열 분류를 진단하고 종료")
	clean       = flag.Bool("clean", false, "자동 생성된 주문서 시트를 모두 삭제하고 종료")
)

func main() {
	flag.Parse()

	cfg := loadConfig()

	// 일괄 처리 플래그가 있으면 서버를 띄우지 않고 한 번 실행 후 종료
	if *parseLatest || *parseAll || *diagnose || *clean {
		if err := runBatch(cfg); err != nil {
			log.Fatalf("%v", err)
		}
		return
	}

	runServer(cfg)
}

func loadConfig() *config.AppConfig {
	var cfg *config.AppConfig
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		log.Printf("설정 로드 실패, 기본 설정 사용: %v", err)
		cfg = config.DefaultConfig()
	}

	// 명령행 인자가 설정 파일보다 우선
	if *workbook != "" {
		cfg.Workbook.Path = *workbook
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	return cfg
}

func runBatch(cfg *config.AppConfig) error {
	p, err := batch.Open(cfg.Workbook.Path, batch.Options{
		ResponseSheet: cfg.Workbook.ResponseSheet,
		CatalogSheet:  cfg.Workbook.CatalogSheet,
	})
	if err != nil {
		return err
	}
	defer p.Close()

	changed := false
	switch {
	case *diagnose:
		diag, err := p.DiagnoseColumns()
		if err != nil {
			return err
		}
		fmt.Printf("행 %d 열 분류:\n  %s\n", diag.Row, strings.Join(diag.Columns, "\n  "))
		if diag.Error != "" {
			fmt.Printf("탐지 실패: %s\n", diag.Error)
		}
	case *clean:
		deleted, err := p.DeleteGenerated()
		if err != nil {
			return err
		}
		fmt.Printf("주문서 시트 %d개 삭제\n", deleted)
		changed = deleted > 0
	case *parseAll:
		summary, err := p.ProcessAll()
		if err != nil {
			return err
		}
		fmt.Println(summary.String())
		for _, msg := range summary.Errors {
			fmt.Println("  " + msg)
		}
		changed = summary.Success > 0
	case *parseLatest:
		result, err := p.ProcessLatest()
		if err != nil {
			return err
		}
		if result.State != batch.StateRendered {
			return fmt.Errorf("행 %d 처리 실패: %s", result.Row, result.Reason)
		}
		fmt.Printf("행 %d 파싱 완료: %s\n", result.Row, result.SheetName)
		changed = true
	}

	if changed {
		if err := p.File().Save(); err != nil {
			return fmt.Errorf("워크북 저장 실패: %w", err)
		}
	}
	return nil
}

func runServer(cfg *config.AppConfig) {
	fmt.Println("==========================================")
	fmt.Println("  GS25-Order - 주문서 접수/출력 도구")
	fmt.Println("==========================================")
	fmt.Printf("응답 워크북: %s\n", cfg.Workbook.Path)

	srv := server.NewServer(cfg)
	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	go func() {
		fmt.Printf("서버 시작, 포트 %d ...\n", cfg.Server.Port)
		if err := srv.Run(cfg.Server.Port); err != nil {
			log.Fatalf("서버 시작 실패: %v", err)
		}
	}()

	if !cfg.Server.DevMode {
		if err := util.OpenBrowserWithFallback(url); err != nil {
			fmt.Printf("브라우저를 열지 못했습니다. 직접 접속해주세요: %s\n", url)
		}
	} else {
		fmt.Printf("개발 모드: %s\n", url)
	}

	fmt.Println("\nCtrl+C로 종료...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\n서버를 종료합니다")
}
