package backend

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"github.com/devnet-tools/faucet/faucet/backend/config"
	ftypes "github.com/devnet-tools/faucet/faucet/backend/types"
)

// Denial reasons, used as metrics labels.
const (
	DenyReasonDisabled = "disabled"
	DenyReasonIP       = "ip"
	DenyReasonAddress  = "address"
	DenyReasonBusy     = "busy"
)

// RateLimiter guards a faucet against abuse, by tracking request quota
// per requester identity: the remote network address, and the target account.
// Identity state is held in bounded LRU caches; an evicted identity simply
// starts with a fresh quota, which bounds memory without affecting the common case.
//
// A nil *RateLimiter allows everything.
type RateLimiter struct {
	limit rate.Limit
	burst int

	byIP   *lru.Cache[string, *rate.Limiter]
	byAddr *lru.Cache[common.Address, *rate.Limiter]
}

// NewRateLimiter creates a RateLimiter from the quota config.
// It returns nil (allow-all) if the config does not enable rate-limiting.
func NewRateLimiter(cfg config.QuotaConfig) (*RateLimiter, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	size := cfg.CacheSize
	if size <= 0 {
		size = config.DefaultQuotaCacheSize
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	byIP, err := lru.New[string, *rate.Limiter](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create IP quota cache: %w", err)
	}
	byAddr, err := lru.New[common.Address, *rate.Limiter](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create address quota cache: %w", err)
	}
	return &RateLimiter{
		limit:  rate.Every(time.Duration(cfg.Interval)),
		burst:  burst,
		byIP:   byIP,
		byAddr: byAddr,
	}, nil
}

// Check consumes quota for the given requester identities.
// On denial it returns the reason (for metrics) and an error wrapping ftypes.ErrRateLimited.
// An empty IP is not quota-tracked, the target address always is.
func (l *RateLimiter) Check(ip string, target common.Address) (reason string, err error) {
	if l == nil {
		return "", nil
	}
	if ip != "" {
		if !limiterFor(l.byIP, ip, l.limit, l.burst).Allow() {
			return DenyReasonIP, fmt.Errorf("%w: too many requests from %s", ftypes.ErrRateLimited, ip)
		}
	}
	if !limiterFor(l.byAddr, target, l.limit, l.burst).Allow() {
		return DenyReasonAddress, fmt.Errorf("%w: too many requests for %s", ftypes.ErrRateLimited, target)
	}
	return "", nil
}

func limiterFor[K comparable](cache *lru.Cache[K, *rate.Limiter], key K, limit rate.Limit, burst int) *rate.Limiter {
	if lim, ok := cache.Get(key); ok {
		return lim
	}
	lim := rate.NewLimiter(limit, burst)
	if prev, ok, _ := cache.PeekOrAdd(key, lim); ok {
		return prev
	}
	return lim
}
