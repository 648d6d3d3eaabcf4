package neurips

import "fmt"

type Config struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	Dir     string `mapstructure:"dir" yaml:"dir"` // html_root 下的子目录
	MinYear int    `mapstructure:"min_year" yaml:"min_year"`
}

func DefaultConfig() *Config {
	return &Config{
		BaseURL: "https://proceedings.neurips.cc",
		Dir:     "NeurIPS",
		MinYear: 1987,
	}
}

func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	if c.Dir == "" {
		return fmt.Errorf("dir is required")
	}
	return nil
}
