package icml

import (
	"PaperArchiver/internal/core"
	"PaperArchiver/internal/venue"
)

func New(config *Config) (venue.Parser, error) {
	return NewAdapter(config)
}

func init() {
	core.MustRegister(core.Provider{
		Name: Name,
		New: func(cfg venue.Config, _ venue.Deps) (venue.Parser, error) {
			c, _ := cfg.(*Config)
			if c == nil {
				c = DefaultConfig()
			}
			return New(c)
		},
		DefaultConfig: func() venue.Config { return DefaultConfig() },
	})
}
