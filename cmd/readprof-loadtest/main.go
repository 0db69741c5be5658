package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MrEthical07/readprof"
	"github.com/MrEthical07/readprof/logging"
	promexport "github.com/MrEthical07/readprof/metrics/export/prometheus"
	"github.com/MrEthical07/readprof/redissink"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	var (
		fileSize    = flag.Int64("file-size", 64<<20, "scratch file size in bytes")
		readSize    = flag.Int("read-size", 64<<10, "bytes per positional read")
		concurrency = flag.Int("concurrency", 32, "number of concurrent workers, each with its own file handle")
		ops         = flag.Int("ops", 200000, "reads per phase (baseline + sampled)")
		percentage  = flag.Int("sampling-percentage", 1, "share of reads to time, 0..100")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		prefix      = flag.String("prefix", "readprof", "redis key prefix")
	)
	flag.Parse()

	if *fileSize <= 0 || *readSize <= 0 || *concurrency <= 0 || *ops <= 0 || int64(*readSize) > *fileSize {
		fmt.Fprintln(os.Stderr, "file-size, read-size, concurrency and ops must be > 0 and read-size <= file-size")
		os.Exit(2)
	}
	cfg := &readprof.Config{MetricsEnabled: true, SamplingPercentage: *percentage}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid sampling config: %v\n", err)
		os.Exit(2)
	}

	zl, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = zl.Sync() }()
	logger := logging.Zap(zl)

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	path, err := writeScratchFile(*fileSize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create scratch file: %v\n", err)
		os.Exit(1)
	}
	defer os.RemoveAll(filepath.Dir(path))

	metrics := readprof.NewMetrics(readprof.DefaultMetricsConfig())
	remote, err := redissink.New(client, redissink.Config{Prefix: *prefix, BufferSize: 8192, DropIfFull: true}, redissink.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create redis sink: %v\n", err)
		os.Exit(1)
	}
	sink := readprof.MultiSink(metrics, remote)

	baseline := runPhase(path, nil, nil, logger, *fileSize, *readSize, *ops, *concurrency)
	sampled := runPhase(path, cfg, sink, logger, *fileSize, *readSize, *ops, *concurrency)
	remote.Close()

	fmt.Println("---- results ----")
	printStats("baseline", baseline)
	printStats("sampled", sampled)

	snap := metrics.Snapshot()
	fmt.Printf("samples=%d slow=%d sum_ms=%d dropped=%d redis_failures=%d\n",
		snap.Counters[readprof.MetricLatencySamples],
		snap.Counters[readprof.MetricSlowReads],
		snap.LatencySumMillis,
		remote.Dropped(),
		remote.Failures(),
	)

	totals, instances, err := redissink.Aggregate(ctx, client, *prefix)
	if err != nil {
		fmt.Fprintf(os.Stderr, "redis aggregate failed: %v\n", err)
	} else {
		fmt.Printf("redis: instances=%d count=%d slow=%d mean_ms=%.2f\n", instances, totals.Count, totals.Slow, totals.Mean())
	}

	text, err := promexport.NewCollector(metrics, nil).Render()
	if err != nil {
		fmt.Fprintf(os.Stderr, "prometheus render failed: %v\n", err)
		return
	}
	fmt.Println("---- prometheus ----")
	fmt.Print(text)
}

func writeScratchFile(size int64) (string, error) {
	dir, err := os.MkdirTemp("", "readprof-loadtest-")
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, "blk_scratch")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	chunk := make([]byte, 1<<20)
	r := rand.New(rand.NewSource(1))
	for written := int64(0); written < size; {
		n := int64(len(chunk))
		if size-written < n {
			n = size - written
		}
		r.Read(chunk[:n])
		if _, err := f.Write(chunk[:n]); err != nil {
			return "", err
		}
		written += n
	}
	return path, f.Sync()
}

func runPhase(path string, cfg *readprof.Config, sink readprof.LatencySink, logger readprof.Logger, fileSize int64, readSize, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()

			f, err := readprof.Open(path, cfg, sink, readprof.SystemClock{}, readprof.WithLogger(logger))
			if err != nil {
				atomic.AddInt64(&failures, 1)
				return
			}
			defer f.Close()

			buf := make([]byte, readSize)
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			local := make([]time.Duration, 0, ops/concurrency+1)
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					break
				}
				off := r.Int63n(fileSize - int64(readSize) + 1)
				t0 := time.Now()
				_, err := f.ReadAt(buf, off)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				local = append(local, d)
			}

			mu.Lock()
			latencies = append(latencies, local...)
			mu.Unlock()
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total, failures: failures}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
