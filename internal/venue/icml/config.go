package icml

import "fmt"

type Config struct {
	Dir     string `mapstructure:"dir" yaml:"dir"`
	MinYear int    `mapstructure:"min_year" yaml:"min_year"`
	// PDFLinkText 论文容器中指向 PDF 的链接文字
	PDFLinkText string `mapstructure:"pdf_link_text" yaml:"pdf_link_text"`
}

func DefaultConfig() *Config {
	return &Config{
		Dir:         "ICML",
		MinYear:     2013,
		PDFLinkText: "Download PDF",
	}
}

func (c *Config) Validate() error {
	if c.Dir == "" {
		return fmt.Errorf("dir is required")
	}
	if c.PDFLinkText == "" {
		return fmt.Errorf("pdf_link_text is required")
	}
	return nil
}
