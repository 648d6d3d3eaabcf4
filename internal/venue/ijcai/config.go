package ijcai

import "fmt"

type Config struct {
	Dir     string `mapstructure:"dir" yaml:"dir"`
	MinYear int    `mapstructure:"min_year" yaml:"min_year"`
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	// MainTrack 旧版页面在第一个 h3 之前出现的论文归入此类
	MainTrack string `mapstructure:"main_track" yaml:"main_track"`
}

func DefaultConfig() *Config {
	return &Config{
		Dir:       "IJCAI",
		MinYear:   2015,
		BaseURL:   "https://www.ijcai.org",
		MainTrack: "Main Track",
	}
}

func (c *Config) Validate() error {
	if c.Dir == "" {
		return fmt.Errorf("dir is required")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	return nil
}

func (c *Config) proceedingsURL(year int) string {
	return fmt.Sprintf("%s/proceedings/%d/", c.BaseURL, year)
}
