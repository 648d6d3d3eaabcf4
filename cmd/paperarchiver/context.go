package main

import (
	"strings"
	"sync"
	"time"

	"PaperArchiver/config"
	"PaperArchiver/internal/core"
	"PaperArchiver/pkg/logger"
)

type commandContext struct {
	configFlag *string
	logLevel   *string

	configOnce sync.Once
	config     *config.AppConfig
	configErr  error

	appOnce sync.Once
	app     *core.App
	appErr  error
}

func newCommandContext(configFlag, logLevel *string) *commandContext {
	return &commandContext{configFlag: configFlag, logLevel: logLevel}
}

func (c *commandContext) ensureConfig() (*config.AppConfig, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, err := config.Init(path)
		if err != nil {
			c.configErr = err
			return
		}

		level := cfg.Log.Level
		if c.logLevel != nil && *c.logLevel != "" {
			level = *c.logLevel
		}
		logger.InitWithFile(level, cfg.Log.Color, cfg.Log.File)
		if used := config.GetConfigPath(); used != "" {
			logger.Debug("使用配置文件: %s", used)
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// ensureApp 按配置组装 App，凭据只在这里读取一次
func (c *commandContext) ensureApp() (*core.App, error) {
	c.appOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.appErr = err
			return
		}

		creds, err := config.LoadCredentials(cfg.Credentials.File)
		if err != nil {
			c.appErr = err
			return
		}
		if creds.Empty() {
			logger.Debug("未配置 OpenReview 凭据，使用访客访问")
		}

		client := core.NewHTTPClient(time.Duration(cfg.Archive.Timeout)*time.Second, cfg.Archive.Proxy)
		c.app, c.appErr = core.NewApp(core.Options{
			SaveDir:      cfg.Archive.SaveDir,
			HTMLRoot:     cfg.Sources.HTMLRoot,
			DatabasePath: cfg.Database.Path,
			Fetcher:      core.NewFetcher(client, cfg.Archive.UserAgent),
			HTTPClient:   client,
			Credentials:  creds,
			Venues:       cfg.VenueConfigs(),
			FeiShu: core.FeiShuConfig{
				AppID:     cfg.FeiShu.AppID,
				AppSecret: cfg.FeiShu.AppSecret,
				BaseURL:   cfg.FeiShu.BaseURL,
			},
			Zotero: core.ZoteroConfig{
				UserID:  cfg.Zotero.UserID,
				APIKey:  cfg.Zotero.APIKey,
				BaseURL: cfg.Zotero.BaseURL,
			},
		})
	})
	return c.app, c.appErr
}

func (c *commandContext) close() {
	if c.app != nil {
		if err := c.app.Close(); err != nil {
			logger.Warn("关闭检索索引失败: %v", err)
		}
	}
}
