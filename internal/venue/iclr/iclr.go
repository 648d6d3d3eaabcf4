package iclr

import (
	"PaperArchiver/internal/core"
	"PaperArchiver/internal/venue"
)

func New(config *Config, deps venue.Deps) (venue.Parser, error) {
	return NewAdapter(config, deps)
}

func init() {
	core.MustRegister(core.Provider{
		Name: Name,
		New: func(cfg venue.Config, deps venue.Deps) (venue.Parser, error) {
			c, _ := cfg.(*Config)
			if c == nil {
				c = DefaultConfig()
			}
			return New(c, deps)
		},
		DefaultConfig: func() venue.Config { return DefaultConfig() },
	})
}
