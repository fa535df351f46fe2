package http

import (
	"github.com/nats-io/nats.go"
	"github.com/samirrijal/railboard/internal/adapters/postgres"
	"github.com/samirrijal/railboard/internal/adapters/valkey"
	"github.com/samirrijal/railboard/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
// Only Boards is required; the rest are optional and reported by /v1/ready.
type Dependencies struct {
	Boards *usecases.PipelineService
	Latest *usecases.BoardStore
	NATS   *nats.Conn
	DB     *postgres.DB
	Cache  *valkey.Cache
}
