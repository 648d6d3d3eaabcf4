package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"PaperArchiver/internal/venue"
	"PaperArchiver/internal/venue/aaai"
	"PaperArchiver/internal/venue/iclr"
	"PaperArchiver/internal/venue/icml"
	"PaperArchiver/internal/venue/ijcai"
	"PaperArchiver/internal/venue/neurips"
	"PaperArchiver/pkg/logger"
)

// ArchiveConfig 归档运行参数
type ArchiveConfig struct {
	SaveDir      string `mapstructure:"save_dir" yaml:"save_dir"`
	MaxDownloads int    `mapstructure:"max_downloads" yaml:"max_downloads"` // -1 表示不限
	SkipDownload bool   `mapstructure:"skip_download" yaml:"skip_download"`
	DelaySeconds int    `mapstructure:"delay_seconds" yaml:"delay_seconds"`
	Workers      int    `mapstructure:"workers" yaml:"workers"`
	UserAgent    string `mapstructure:"user_agent" yaml:"user_agent"`
	Timeout      int    `mapstructure:"timeout" yaml:"timeout"` // 秒
	Proxy        string `mapstructure:"proxy" yaml:"proxy"`
}

type SourcesConfig struct {
	HTMLRoot string `mapstructure:"html_root" yaml:"html_root"` // 静态页面根目录
}

type CredentialsConfig struct {
	File string `mapstructure:"file" yaml:"file"` // OpenReview 凭据文件
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
	Color bool   `mapstructure:"color" yaml:"color"`
}

type FeiShuConfig struct {
	AppID     string `mapstructure:"app_id" yaml:"app_id"`
	AppSecret string `mapstructure:"app_secret" yaml:"app_secret"`
	BaseURL   string `mapstructure:"base_url" yaml:"base_url"`
}

type ZoteroConfig struct {
	UserID  string `mapstructure:"user_id" yaml:"user_id"`
	APIKey  string `mapstructure:"api_key" yaml:"api_key"`
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

// AppConfig 应用总配置(全局 + 会议)
type AppConfig struct {
	Archive     ArchiveConfig     `mapstructure:"archive" yaml:"archive"`
	Sources     SourcesConfig     `mapstructure:"sources" yaml:"sources"`
	Credentials CredentialsConfig `mapstructure:"credentials" yaml:"credentials"`
	Database    DatabaseConfig    `mapstructure:"database" yaml:"database"`
	Log         LogConfig         `mapstructure:"log" yaml:"log"`
	FeiShu      FeiShuConfig      `mapstructure:"feishu" yaml:"feishu"`
	Zotero      ZoteroConfig      `mapstructure:"zotero" yaml:"zotero"`

	AAAI    aaai.Config    `mapstructure:"aaai" yaml:"aaai"`
	ICLR    iclr.Config    `mapstructure:"iclr" yaml:"iclr"`
	ICML    icml.Config    `mapstructure:"icml" yaml:"icml"`
	IJCAI   ijcai.Config   `mapstructure:"ijcai" yaml:"ijcai"`
	NeurIPS neurips.Config `mapstructure:"neurips" yaml:"neurips"`
}

const envPrefix = "PAPERARCHIVER"

var (
	global     *AppConfig
	once       sync.Once
	globalErr  error
	configPath string
)

func homeDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".paperarchiver")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("archive.save_dir", "papers")
	v.SetDefault("archive.max_downloads", -1)
	v.SetDefault("archive.skip_download", false)
	v.SetDefault("archive.delay_seconds", 1)
	v.SetDefault("archive.workers", 1)
	v.SetDefault("archive.user_agent", "")
	v.SetDefault("archive.timeout", 120)
	v.SetDefault("archive.proxy", "")

	v.SetDefault("sources.html_root", "static_html")
	v.SetDefault("credentials.file", "openreview_pass.yaml")
	v.SetDefault("database.path", filepath.Join(homeDir(), "data", "catalog.db"))

	v.SetDefault("log.level", "INFO")
	v.SetDefault("log.file", "")
	v.SetDefault("log.color", true)

	v.SetDefault("feishu.app_id", "")
	v.SetDefault("feishu.app_secret", "")
	v.SetDefault("feishu.base_url", "https://open.feishu.cn")

	v.SetDefault("zotero.user_id", "")
	v.SetDefault("zotero.api_key", "")
	v.SetDefault("zotero.base_url", "https://api.zotero.org")
}

// defaults 会议配置先填默认值，配置文件里出现的键再覆盖上去
func defaults() *AppConfig {
	return &AppConfig{
		AAAI:    *aaai.DefaultConfig(),
		ICLR:    *iclr.DefaultConfig(),
		ICML:    *icml.DefaultConfig(),
		IJCAI:   *ijcai.DefaultConfig(),
		NeurIPS: *neurips.DefaultConfig(),
	}
}

func newViper(configPaths ...string) *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AddConfigPath("./config")
	v.AddConfigPath(".")
	v.AddConfigPath(filepath.Join(homeDir(), "config"))

	for _, p := range configPaths {
		if p == "" {
			continue
		}
		if strings.HasSuffix(p, ".yaml") || strings.HasSuffix(p, ".yml") {
			v.SetConfigFile(p)
		} else {
			v.AddConfigPath(p)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	return v
}

// Load 读取配置；找不到配置文件时只用默认值和环境变量
func Load(configPaths ...string) (*AppConfig, string, error) {
	v := newViper(configPaths...)

	used := ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, "", fmt.Errorf("读取配置文件失败: %w", err)
		}
	} else {
		used = v.ConfigFileUsed()
	}

	cfg := defaults()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, "", fmt.Errorf("配置解析失败: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, used, nil
}

// Init 进程级单例；第一次调用时若没有配置文件，会在 ~/.paperarchiver/config 下生成示例
func Init(configPaths ...string) (*AppConfig, error) {
	once.Do(func() {
		cfg, used, err := Load(configPaths...)
		if err != nil {
			globalErr = err
			return
		}
		if used == "" {
			if err := CreateExampleConfig(filepath.Join(homeDir(), "config", "config.yaml")); err != nil {
				logger.Warn("创建示例配置文件失败: %v", err)
			}
		}
		configPath = used
		global = cfg
	})
	return global, globalErr
}

func Get() *AppConfig {
	if global == nil {
		_, _ = Init()
	}
	return global
}

func GetConfigPath() string { return configPath }

func (c *AppConfig) Validate() error {
	if c.Archive.SaveDir == "" {
		return errors.New("archive.save_dir 不能为空")
	}
	if c.Archive.MaxDownloads < -1 {
		return fmt.Errorf("archive.max_downloads 不合法: %d", c.Archive.MaxDownloads)
	}
	if c.Archive.DelaySeconds < 0 {
		return fmt.Errorf("archive.delay_seconds 不能为负: %d", c.Archive.DelaySeconds)
	}
	if c.Archive.Workers < 1 {
		return fmt.Errorf("archive.workers 至少为 1: %d", c.Archive.Workers)
	}
	for name, vc := range c.VenueConfigs() {
		if err := vc.Validate(); err != nil {
			return fmt.Errorf("%s 配置不合法: %w", strings.ToLower(name), err)
		}
	}
	return nil
}

// VenueConfigs 按注册名返回各会议的配置
func (c *AppConfig) VenueConfigs() map[string]venue.Config {
	return map[string]venue.Config{
		aaai.Name:    &c.AAAI,
		iclr.Name:    &c.ICLR,
		icml.Name:    &c.ICML,
		ijcai.Name:   &c.IJCAI,
		neurips.Name: &c.NeurIPS,
	}
}

const exampleConfig = `# PaperArchiver 配置文件

archive:
  save_dir: "papers"       # 产物与台账根目录
  max_downloads: -1        # 每次运行最多尝试下载的数量，-1 不限
  skip_download: false     # 只写台账，不下载
  delay_seconds: 1         # 两次下载之间的间隔
  workers: 1
  timeout: 120
  proxy: ""                # 如 "http://127.0.0.1:7890"

sources:
  html_root: "static_html" # <html_root>/<Venue>/<year>.html

credentials:
  file: "openreview_pass.yaml"  # username/password，也可用 OPENREVIEW_USERNAME / OPENREVIEW_PASSWORD

database:
  path: ""                 # 检索索引位置，留空使用 ~/.paperarchiver/data/catalog.db

log:
  level: "INFO"
  file: ""

# 飞书配置（可选，publish 使用）
feishu:
  app_id: ""
  app_secret: ""

# Zotero 配置（可选，publish --to zotero 使用）
zotero:
  user_id: ""
  api_key: ""
`

func CreateExampleConfig(configFile string) error {
	if _, err := os.Stat(configFile); err == nil {
		logger.Warn("配置文件已存在，请前往编辑即可: %s", configFile)
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("检查配置文件时出错: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("创建配置目录失败: %w", err)
	}
	if err := os.WriteFile(configFile, []byte(exampleConfig), 0644); err != nil {
		return fmt.Errorf("写入配置文件失败: %w", err)
	}
	logger.Info("已在 %s 中创建示例配置文件", configFile)
	return nil
}
