package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aretw0/tinderbolt/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// DefaultDedupTTL is how long an update ID is remembered.
// The platform stops redelivering a webhook update well before that.
const DefaultDedupTTL = 24 * time.Hour

// Deduplicator implements ports.Deduplicator with one expiring key per update.
type Deduplicator struct {
	client backend.UniversalClient
	prefix string
	ttl    time.Duration
}

var _ ports.Deduplicator = (*Deduplicator)(nil)

// NewDeduplicator creates a Deduplicator. A non-positive ttl selects DefaultDedupTTL.
func NewDeduplicator(client backend.UniversalClient, prefix string, ttl time.Duration) *Deduplicator {
	if ttl <= 0 {
		ttl = DefaultDedupTTL
	}
	return &Deduplicator{client: client, prefix: prefix, ttl: ttl}
}

// Seen records id and reports whether another replica or an earlier delivery recorded it first.
func (d *Deduplicator) Seen(ctx context.Context, id int64) (bool, error) {
	key := d.prefix + "update:" + strconv.FormatInt(id, 10)
	fresh, err := d.client.SetNX(ctx, key, 1, d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis error recording update %d: %w", id, err)
	}
	return !fresh, nil
}
