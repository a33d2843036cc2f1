package health

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// DBPinger is optional; a nil pinger reports the database as disconnected.
type DBPinger interface {
	Ping() error
}

// DepStatus is one dependency's health.
type DepStatus struct {
	Status string `json:"status"`
	PingMs *int64 `json:"pingMs"`
}

// Result is the health check payload.
type Result struct {
	Status       string               `json:"status"`
	Dependencies map[string]DepStatus `json:"dependencies"`
}

// Collect pings the database and Redis and reports overall status:
// "ok" when both respond, "issue" otherwise.
func Collect(ctx context.Context, rdb *redis.Client, db DBPinger) Result {
	result := Result{Dependencies: make(map[string]DepStatus)}

	result.Dependencies["database"] = ping(func() error {
		if db == nil {
			return errDisconnected
		}
		return db.Ping()
	})
	result.Dependencies["redis"] = ping(func() error {
		if rdb == nil {
			return errDisconnected
		}
		return rdb.Ping(ctx).Err()
	})

	result.Status = "ok"
	for _, dep := range result.Dependencies {
		if dep.Status != "connected" {
			result.Status = "issue"
		}
	}
	return result
}

var errDisconnected = disconnectedError{}

type disconnectedError struct{}

func (disconnectedError) Error() string { return "disconnected" }

func ping(fn func() error) DepStatus {
	start := time.Now()
	if err := fn(); err != nil {
		if err == errDisconnected {
			return DepStatus{Status: "disconnected"}
		}
		return DepStatus{Status: "error"}
	}
	ms := time.Since(start).Milliseconds()
	return DepStatus{Status: "connected", PingMs: &ms}
}
