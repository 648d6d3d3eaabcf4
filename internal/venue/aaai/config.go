package aaai

import "fmt"

type Config struct {
	Dir     string `mapstructure:"dir" yaml:"dir"`
	MinYear int    `mapstructure:"min_year" yaml:"min_year"`
	// SectionedFrom 从这一年开始使用 OJS 的分节页面
	SectionedFrom int `mapstructure:"sectioned_from" yaml:"sectioned_from"`
	// Tracks 每年的分 track 页面数量，未列出的年份只有一个 <year>.html
	Tracks map[int]int `mapstructure:"tracks" yaml:"tracks"`
}

func DefaultConfig() *Config {
	return &Config{
		Dir:           "AAAI",
		MinYear:       2014,
		SectionedFrom: 2023,
		Tracks: map[int]int{
			2020: 7,
			2021: 16,
			2022: 10,
			2023: 11,
			2024: 18,
		},
	}
}

func (c *Config) Validate() error {
	if c.Dir == "" {
		return fmt.Errorf("dir is required")
	}
	if c.SectionedFrom < c.MinYear {
		return fmt.Errorf("sectioned_from (%d) must not precede min_year (%d)", c.SectionedFrom, c.MinYear)
	}
	for year, n := range c.Tracks {
		if n < 0 {
			return fmt.Errorf("invalid track count for %d: %d", year, n)
		}
	}
	return nil
}
