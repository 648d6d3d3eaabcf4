package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"PaperArchiver/internal/venue"
)

var ErrUnknownVenue = errors.New("unknown venue")

// Provider 一个会议的注册信息
// Name 会议的规范名称，同时用于台账和目录，如 "NeurIPS"
// New 构造解析器；DefaultConfig 返回可用的默认配置
type Provider struct {
	Name string

	New func(cfg venue.Config, deps venue.Deps) (venue.Parser, error)

	DefaultConfig func() venue.Config
}

var (
	regMu    sync.RWMutex
	registry = map[string]Provider{}
)

func key(name string) string { return strings.ToLower(strings.TrimSpace(name)) }

func Register(p Provider) error {
	if p.Name == "" {
		return fmt.Errorf("provider name must not be empty")
	}
	if p.New == nil || p.DefaultConfig == nil {
		return fmt.Errorf("provider %s is incomplete", p.Name)
	}

	regMu.Lock()
	defer regMu.Unlock()
	if _, exists := registry[key(p.Name)]; exists {
		return fmt.Errorf("provider %s already registered", p.Name)
	}
	registry[key(p.Name)] = p
	return nil
}

func MustRegister(p Provider) {
	if err := Register(p); err != nil {
		panic(err)
	}
}

// Get 按名称查找，大小写不敏感
func Get(name string) (Provider, bool) {
	regMu.RLock()
	defer regMu.RUnlock()
	p, ok := registry[key(name)]
	return p, ok
}

// List 返回所有已注册会议的规范名称
func List() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	names := make([]string, 0, len(registry))
	for _, p := range registry {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return names
}
