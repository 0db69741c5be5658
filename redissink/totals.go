package redissink

import (
	"context"
	"fmt"
	"strconv"

	"github.com/MrEthical07/readprof"
	"github.com/redis/go-redis/v9"
)

// Totals is an aggregate of latency samples. Buckets are not cumulative and
// follow readprof.LatencyBucketBoundsMillis plus a trailing +Inf bucket.
type Totals struct {
	Count     uint64
	SumMillis uint64
	Slow      uint64
	Buckets   [len(readprof.LatencyBucketBoundsMillis) + 1]uint64
}

// Mean returns the average latency in milliseconds, or 0 with no samples.
func (t Totals) Mean() float64 {
	if t.Count == 0 {
		return 0
	}
	return float64(t.SumMillis) / float64(t.Count)
}

func (t *Totals) add(millis int64) {
	if millis < 0 {
		millis = 0
	}
	t.Count++
	t.SumMillis += uint64(millis)
	if millis > readprof.SlowReadThresholdMillis {
		t.Slow++
	}
	t.Buckets[readprof.LatencyBucketIndex(millis)]++
}

func (t *Totals) merge(o Totals) {
	t.Count += o.Count
	t.SumMillis += o.SumMillis
	t.Slow += o.Slow
	for i := range t.Buckets {
		t.Buckets[i] += o.Buckets[i]
	}
}

// Aggregate sums the hashes of every instance under prefix. It scans the
// keyspace and is meant for dashboards and tooling, not the read path.
func Aggregate(ctx context.Context, client redis.UniversalClient, prefix string) (Totals, int, error) {
	var (
		out       Totals
		instances int
		cursor    uint64
	)
	pattern := prefix + ":*"

	for {
		keys, next, err := client.Scan(ctx, cursor, pattern, 1000).Result()
		if err != nil {
			return Totals{}, 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
		for _, key := range keys {
			t, err := readTotals(ctx, client, key)
			if err != nil {
				return Totals{}, 0, err
			}
			out.merge(t)
			instances++
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	return out, instances, nil
}

func readTotals(ctx context.Context, client redis.UniversalClient, key string) (Totals, error) {
	fields, err := client.HGetAll(ctx, key).Result()
	if err != nil {
		return Totals{}, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	var t Totals
	t.Count = parseField(fields, fieldCount)
	t.SumMillis = parseField(fields, fieldSum)
	t.Slow = parseField(fields, fieldSlow)
	for i, name := range bucketFields {
		t.Buckets[i] = parseField(fields, name)
	}
	return t, nil
}

func parseField(fields map[string]string, name string) uint64 {
	v, err := strconv.ParseUint(fields[name], 10, 64)
	if err != nil {
		return 0
	}
	return v
}
