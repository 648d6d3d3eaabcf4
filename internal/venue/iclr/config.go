package iclr

import (
	"fmt"
	"time"
)

// Config ICLR 配置
// 2014-2016 解析静态页面，2017 起查询 OpenReview
type Config struct {
	Dir     string `mapstructure:"dir" yaml:"dir"`
	MinYear int    `mapstructure:"min_year" yaml:"min_year"`

	OpenReviewFrom int    `mapstructure:"openreview_from" yaml:"openreview_from"`
	V2From         int    `mapstructure:"v2_from" yaml:"v2_from"`
	APIV1          string `mapstructure:"api_v1" yaml:"api_v1"`
	APIV2          string `mapstructure:"api_v2" yaml:"api_v2"`
	PDFBase        string `mapstructure:"pdf_base" yaml:"pdf_base"`
	ArxivBase      string `mapstructure:"arxiv_base" yaml:"arxiv_base"`

	PageSize     int           `mapstructure:"page_size" yaml:"page_size"`
	PageDelay    time.Duration `mapstructure:"page_delay" yaml:"page_delay"`
	MaxRetries   int           `mapstructure:"max_retries" yaml:"max_retries"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff" yaml:"retry_backoff"`
}

func DefaultConfig() *Config {
	return &Config{
		Dir:            "ICLR",
		MinYear:        2014,
		OpenReviewFrom: 2017,
		V2From:         2024,
		APIV1:          "https://api.openreview.net",
		APIV2:          "https://api2.openreview.net",
		PDFBase:        "https://openreview.net/pdf?id=",
		ArxivBase:      "https://arxiv.org/pdf/",
		PageSize:       1000,
		PageDelay:      time.Second,
		MaxRetries:     5,
		RetryBackoff:   2 * time.Second,
	}
}

func (c *Config) Validate() error {
	if c.Dir == "" {
		return fmt.Errorf("dir is required")
	}
	if c.APIV1 == "" || c.APIV2 == "" {
		return fmt.Errorf("api_v1 and api_v2 are required")
	}
	if c.V2From < c.OpenReviewFrom {
		return fmt.Errorf("v2_from (%d) must not precede openreview_from (%d)", c.V2From, c.OpenReviewFrom)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page_size must be positive")
	}
	if c.MaxRetries <= 0 {
		return fmt.Errorf("max_retries must be positive")
	}
	if c.PageDelay < 0 || c.RetryBackoff < 0 {
		return fmt.Errorf("page_delay and retry_backoff must not be negative")
	}
	return nil
}
