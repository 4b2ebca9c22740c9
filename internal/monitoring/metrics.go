package monitoring

import (
	"context"
	"database/sql"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Counter reports the number of stored rows of one kind.
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// Service holds runtime context for monitoring and reporting.
type Service struct {
	startedAt time.Time
	db        *sql.DB
	users     Counter
	posts     Counter
	log       logrus.FieldLogger
}

type Snapshot struct {
	TimestampUTC       string `json:"timestamp_utc"`
	UptimeSeconds      int64  `json:"uptime_seconds"`
	DBStatus           string `json:"db_status"`
	HTTPActiveRequests int64  `json:"http_active_requests"`
	HTTPTotalRequests  uint64 `json:"http_total_requests"`
	HTTPFailedRequests uint64 `json:"http_failed_requests"`
	DBOpenConnections  int    `json:"db_open_connections"`
	DBInUseConnections int    `json:"db_in_use_connections"`
	DBIdleConnections  int    `json:"db_idle_connections"`
	DBWaitCount        int64  `json:"db_wait_count"`
	Goroutines         int    `json:"goroutines"`
	GoMemoryAllocBytes uint64 `json:"go_memory_alloc_bytes"`
	GoHeapInUseBytes   uint64 `json:"go_heap_in_use_bytes"`
	GoGCCount          uint32 `json:"go_gc_count"`
	UsersTotal         int64  `json:"users_total"`
	PostsTotal         int64  `json:"posts_total"`
}

func NewService(startedAt time.Time, db *sql.DB, users Counter, posts Counter, log logrus.FieldLogger) *Service {
	return &Service{startedAt: startedAt, db: db, users: users, posts: posts, log: log}
}

func (s *Service) dbState(ctx context.Context) string {
	if err := s.db.PingContext(ctx); err != nil {
		return "error: " + err.Error()
	}
	return "ok"
}

func (s *Service) StatusText(ctx context.Context) string {
	uptime := time.Since(s.startedAt).Round(time.Second)
	activeHTTP, totalHTTP, failedHTTP := getHTTPStats()
	stats := s.db.Stats()

	return strings.Join([]string{
		"Blog API Server Status",
		fmt.Sprintf("Uptime: %s", uptime),
		fmt.Sprintf("DB: %s", s.dbState(ctx)),
		fmt.Sprintf("HTTP active requests: %d", activeHTTP),
		fmt.Sprintf("HTTP total requests: %d", totalHTTP),
		fmt.Sprintf("HTTP failed requests: %d", failedHTTP),
		fmt.Sprintf("DB open connections: %d", stats.OpenConnections),
		fmt.Sprintf("Go goroutines: %d", runtime.NumGoroutine()),
	}, "\n")
}

func (s *Service) Snapshot(ctx context.Context) Snapshot {
	stats := s.db.Stats()
	activeHTTP, totalHTTP, failedHTTP := getHTTPStats()

	var memory runtime.MemStats
	runtime.ReadMemStats(&memory)

	snap := Snapshot{
		TimestampUTC:       time.Now().UTC().Format(time.RFC3339),
		UptimeSeconds:      int64(time.Since(s.startedAt).Seconds()),
		DBStatus:           s.dbState(ctx),
		HTTPActiveRequests: activeHTTP,
		HTTPTotalRequests:  totalHTTP,
		HTTPFailedRequests: failedHTTP,
		DBOpenConnections:  stats.OpenConnections,
		DBInUseConnections: stats.InUse,
		DBIdleConnections:  stats.Idle,
		DBWaitCount:        stats.WaitCount,
		Goroutines:         runtime.NumGoroutine(),
		GoMemoryAllocBytes: memory.Alloc,
		GoHeapInUseBytes:   memory.HeapInuse,
		GoGCCount:          memory.NumGC,
	}

	snap.UsersTotal = s.count(ctx, "users", s.users)
	snap.PostsTotal = s.count(ctx, "posts", s.posts)

	return snap
}

// count returns -1 when the total cannot be read.
func (s *Service) count(ctx context.Context, name string, counter Counter) int64 {
	total, err := counter.Count(ctx)
	if err != nil {
		s.log.WithError(err).Warnf("monitoring: counting %s failed", name)
		return -1
	}
	return total
}
