package archive

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Gate 固定间隔的令牌桶：突发为 1，相邻两次请求之间至少间隔 interval
// 所有 worker 共用同一个 Gate，并发下对同一主机的请求速率也不会超过配置值
type Gate struct {
	limiter  *rate.Limiter
	interval time.Duration
}

// NewGate interval <= 0 表示不限速
func NewGate(interval time.Duration) *Gate {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Gate{limiter: rate.NewLimiter(limit, 1), interval: interval}
}

// Wait 阻塞直到允许发出下一次请求
func (g *Gate) Wait(ctx context.Context) error {
	return g.limiter.Wait(ctx)
}

func (g *Gate) Interval() time.Duration { return g.interval }
