package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/Cordylus1/Calculadora-OpenProject/internal/service/excel"
)

// AppConfig 应用配置
type AppConfig struct {
	Server      ServerConfig      `toml:"server"`
	Data        DataConfig        `toml:"data"`
	OpenProject OpenProjectConfig `toml:"openproject"`
	Excel       ExcelConfig       `toml:"excel"`
	Log         LogConfig         `toml:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig 数据目录配置 (报表历史与导出文件)
type DataConfig struct {
	DataDir string `toml:"data_dir"`
}

// OpenProjectConfig OpenProject API 连接配置
type OpenProjectConfig struct {
	URL            string `toml:"url"`
	APIKey         string `toml:"api_key"`
	PageSize       int    `toml:"page_size"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// ExcelConfig Excel 导出相关配置
type ExcelConfig struct {
	TemplatePath string `toml:"template_path"`
	Sheet        string `toml:"sheet"`
	Anchor       string `toml:"anchor"`
	DurationCell string `toml:"duration_cell"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" 或 "pretty"
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string
	FileFound     bool
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20262,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir: "data",
		},
		OpenProject: OpenProjectConfig{
			PageSize:       100,
			TimeoutSeconds: 30,
		},
		Excel: ExcelConfig{
			Anchor:       excel.DefaultAnchor,
			DurationCell: excel.DefaultDurationCell,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate 校验访问 OpenProject 所需的配置
func (c OpenProjectConfig) Validate() error {
	if strings.TrimSpace(c.URL) == "" || strings.TrimSpace(c.APIKey) == "" {
		return errors.New("missing OPENPROJECT_URL or OPENPROJECT_API_KEY")
	}
	return nil
}

// Timeout HTTP 客户端超时
func (c OpenProjectConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// EmitterOptions 将 Excel 配置转换为导出器选项
func (c ExcelConfig) EmitterOptions() excel.Options {
	return excel.Options{
		TemplatePath: c.TemplatePath,
		Sheet:        c.Sheet,
		Anchor:       c.Anchor,
		DurationCell: c.DurationCell,
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// DefaultConfigPath 可执行文件同目录下的 config.toml
func DefaultConfigPath() string {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return filepath.Join(exeDir, "config.toml")
}

// LoadConfigWithInfo 依次加载 config.toml (默认在可执行文件目录)、工作目录下的 .env、
// 环境变量覆盖
func LoadConfigWithInfo(path string) (*AppConfig, LoadConfigInfo, error) {
	if path == "" {
		path = DefaultConfigPath()
	}
	info := LoadConfigInfo{Path: path}
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		info.FileFound = true
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, err
		}
	case os.IsNotExist(err):
		// 配置文件不存在，使用默认配置
	default:
		return nil, info, err
	}

	if err := loadDotEnv(".env"); err != nil {
		return nil, info, err
	}
	applyEnv(config, &info)

	return config, info, nil
}

// LoadConfig 加载配置
func LoadConfig(path string) (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo(path)
	return config, err
}

// loadDotEnv 不覆盖已存在的环境变量
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return godotenv.Load(path)
}

func applyEnv(config *AppConfig, info *LoadConfigInfo) {
	if v := os.Getenv("OPENPROJECT_URL"); v != "" {
		config.OpenProject.URL = v
	}
	if v := os.Getenv("OPENPROJECT_API_KEY"); v != "" {
		config.OpenProject.APIKey = v
	}
	if v := os.Getenv("CALCULADORA_EXCEL_TEMPLATE_PATH"); v != "" {
		config.Excel.TemplatePath = v
	}
	if v := os.Getenv("CALCULADORA_DATA_DIR"); v != "" {
		config.Data.DataDir = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		config.Log.Level = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			config.Server.Port = port
			info.PortSpecified = true
		}
	}
	config.OpenProject.URL = strings.TrimRight(strings.TrimSpace(config.OpenProject.URL), "/")
}

// SaveConfig 保存配置到 config.toml
func SaveConfig(config *AppConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ResolveDataDir 返回数据目录的绝对路径，相对路径基于可执行文件目录
func ResolveDataDir(config *AppConfig) string {
	dir := config.Data.DataDir
	if filepath.IsAbs(dir) {
		return dir
	}
	exeDir, err := GetExeDir()
	if err != nil || exeDir == "" {
		exeDir = "."
	}
	return filepath.Join(exeDir, dir)
}

// EnsureDataDir 确保数据目录存在
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := ResolveDataDir(config)

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	// 创建子目录
	subdirs := []string{"exports"}
	for _, subdir := range subdirs {
		path := filepath.Join(dataDir, subdir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", err
		}
	}

	return dataDir, nil
}

// GetDataPath 获取数据文件路径
func GetDataPath(config *AppConfig, subdir, filename string) string {
	return filepath.Join(ResolveDataDir(config), subdir, filename)
}
