package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/muttul58-coder/GS25-Order/internal/submit"
)

// AppConfig 애플리케이션 설정
type AppConfig struct {
	Server   ServerConfig   `toml:"server"`
	Workbook WorkbookConfig `toml:"workbook"`
	Form     submit.Config  `toml:"form"`
}

// ServerConfig 서버 설정
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// WorkbookConfig 응답 워크북 설정
type WorkbookConfig struct {
	Path          string `toml:"path"`
	ResponseSheet string `toml:"response_sheet"` // 빈 값이면 첫 번째 시트
	CatalogSheet  string `toml:"catalog_sheet"`  // 빈 값이면 "상품목록"
}

// DefaultConfig 기본 설정
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20825,
			DevMode: false,
		},
		Workbook: WorkbookConfig{
			Path: "orders.xlsx",
		},
	}
}

// GetExeDir 실행 파일이 있는 디렉터리
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// applyEnvOverrides 환경 변수 덮어쓰기 (로컬 실행/테스트용)
func applyEnvOverrides(config *AppConfig) {
	if v := os.Getenv("GS25_ORDER_WORKBOOK"); v != "" {
		config.Workbook.Path = v
	}
	if v := os.Getenv("GS25_ORDER_FORM_URL"); v != "" {
		config.Form.FormURL = v
	}
	if v := os.Getenv("GS25_ORDER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			config.Server.Port = port
		}
	}
}

// LoadFile 지정 경로의 config.toml 로드
// 파일이 없으면 기본 설정을 쓴다.
func LoadFile(path string) (*AppConfig, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(config)
			return config, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, err
	}

	applyEnvOverrides(config)
	return config, nil
}

// LoadConfig 실행 파일 옆의 config.toml 로드
func LoadConfig() (*AppConfig, error) {
	exeDir, err := GetExeDir()
	if err != nil {
		// 실행 파일 경로를 얻지 못하면 현재 디렉터리 사용
		exeDir = "."
	}
	return LoadFile(filepath.Join(exeDir, "config.toml"))
}

// SaveConfig 설정을 config.toml로 저장
func SaveConfig(config *AppConfig, path string) error {
	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
