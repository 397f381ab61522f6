package relay

import (
	"context"
	"strings"
	"time"

	"bitbucket.org/crgw/carrier-call-relay/internal/tools/caching"
	"github.com/redis/go-redis/v9"
)

// CurrentTimeFunc Current time. Can be mocked for testing.
var CurrentTimeFunc = time.Now

const historyKeyPrefix = "trigger-run:"

// TriggerRecord is what is kept about a queued run.
type TriggerRecord struct {
	RunID         string    `json:"runId"`
	TrackingURL   string    `json:"trackingUrl"`
	Status        int       `json:"status"`
	Carrier       string    `json:"carrier"`
	FreightOrder  string    `json:"freightOrder"`
	ContactNumber string    `json:"contactNumber"`
	CorrelationID string    `json:"correlationId"`
	CreatedAt     time.Time `json:"createdAt"`
}

type History interface {
	Record(ctx context.Context, record TriggerRecord) error
	// Lookup returns nil without error when the run is unknown
	Lookup(ctx context.Context, runID string) (*TriggerRecord, error)
}

type cacheHistory struct {
	cache *caching.Cacher
	ttl   time.Duration
}

// NewHistory keeps records in redis. A nil client gives a history that
// stores nothing and finds nothing.
func NewHistory(client *redis.Client, ttl time.Duration) History {
	if client == nil {
		return disabledHistory{}
	}

	return &cacheHistory{
		cache: caching.NewRedisCache(client),
		ttl:   ttl,
	}
}

func (h *cacheHistory) Record(ctx context.Context, record TriggerRecord) error {
	return h.cache.Store(ctx, historyKeyPrefix+record.RunID, record, h.ttl)
}

func (h *cacheHistory) Lookup(ctx context.Context, runID string) (*TriggerRecord, error) {
	var record TriggerRecord

	hit, err := h.cache.Fetch(ctx, historyKeyPrefix+runID, &record)
	if err != nil || !hit {
		return nil, err
	}

	return &record, nil
}

type disabledHistory struct{}

func (disabledHistory) Record(context.Context, TriggerRecord) error {
	return nil
}

func (disabledHistory) Lookup(context.Context, string) (*TriggerRecord, error) {
	return nil, nil
}

// maskContactNumber keeps the leading + and the last four digits.
func maskContactNumber(number string) string {
	number = strings.TrimSpace(number)

	var b strings.Builder
	for i, r := range number {
		switch {
		case i == 0 && r == '+':
			b.WriteRune(r)
		case i >= len(number)-4:
			b.WriteRune(r)
		default:
			b.WriteRune('*')
		}
	}

	return b.String()
}
