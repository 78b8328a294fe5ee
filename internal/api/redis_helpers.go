package api

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisRateCounter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// loginStore is the subset of redis the login guard needs.
type loginStore interface {
	redisRateCounter
	TTL(ctx context.Context, key string) *redis.DurationCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

func incrWithTTL(ctx context.Context, client redisRateCounter, key string, ttl time.Duration) (int64, error) {
	count, err := client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		_ = client.Expire(ctx, key, ttl).Err()
	}
	return count, nil
}

// LoginGuard 实现登录限流与失败锁定。Redis 不可用时放行。
type LoginGuard struct {
	store     loginStore
	limit     int
	threshold int
	lockTTL   time.Duration
	now       func() time.Time
}

// NewLoginGuard 构造登录保护。client 为 nil 时所有检查直接放行。
func NewLoginGuard(client redis.UniversalClient, limitPerHour, lockThreshold int, lockTTL time.Duration) *LoginGuard {
	g := &LoginGuard{limit: limitPerHour, threshold: lockThreshold, lockTTL: lockTTL, now: time.Now}
	if client != nil {
		g.store = client
	}
	return g
}

// Check 返回空字符串表示允许登录，否则返回拒绝原因。
func (g *LoginGuard) Check(ctx context.Context, ip, username string) string {
	if g == nil || g.store == nil {
		return ""
	}
	name := strings.ToLower(username)

	// 速率限制：每 IP+用户名 每小时 limit 次
	rateKey := "rate:login:" + ip + ":" + name + ":" + g.now().UTC().Format("2006010215")
	count, err := incrWithTTL(ctx, g.store, rateKey, time.Hour)
	if err == nil && g.limit > 0 && count > int64(g.limit) {
		return "rate limit exceeded"
	}

	// 锁定检查
	if ttl, err := g.store.TTL(ctx, "lock:login:"+name).Result(); err == nil && ttl > 0 {
		return "account temporarily locked"
	}
	return ""
}

// Failed 记录一次失败，达到阈值后锁定账号。
func (g *LoginGuard) Failed(ctx context.Context, username string) {
	if g == nil || g.store == nil || g.threshold <= 0 {
		return
	}
	name := strings.ToLower(username)
	count, err := incrWithTTL(ctx, g.store, "lock:login:fail:"+name, g.lockTTL)
	if err != nil {
		return
	}
	if count >= int64(g.threshold) {
		_ = g.store.Set(ctx, "lock:login:"+name, "1", g.lockTTL).Err()
	}
}

// Succeeded 清理失败计数。
func (g *LoginGuard) Succeeded(ctx context.Context, username string) {
	if g == nil || g.store == nil {
		return
	}
	_ = g.store.Del(ctx, "lock:login:fail:"+strings.ToLower(username)).Err()
}
