package natsadapter

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/railboard/internal/core/domain"
	"github.com/samirrijal/railboard/internal/pkg/metrics"
	"github.com/samirrijal/railboard/internal/pkg/serialize"
)

const (
	// BoardStream holds the published boards, one subject per station.
	BoardStream = "RAIL_BOARDS"
	// BoardSubjects matches every board subject.
	BoardSubjects = "rail.boards.>"

	boardSubjectPrefix = "rail.boards."
)

// BoardSubject returns the subject a station's board is published on. The
// station name is reduced to a lower-case token that is valid in a subject.
func BoardSubject(station string) string {
	return boardSubjectPrefix + slug(station)
}

func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "unknown"
	}
	return out
}

// Publisher implements ports.BoardPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	if err := ensureStream(js); err != nil {
		return nil, err
	}
	return &Publisher{conn: conn, js: js}, nil
}

func ensureStream(js nats.JetStreamContext) error {
	cfg := &nats.StreamConfig{
		Name:              BoardStream,
		Subjects:          []string{BoardSubjects},
		Retention:         nats.LimitsPolicy,
		MaxMsgsPerSubject: 10,
		MaxAge:            24 * time.Hour,
		Storage:           nats.FileStorage,
		Duplicates:        2 * time.Minute,
	}
	if _, err := js.AddStream(cfg); err != nil {
		// Stream may already exist; try update
		if _, err := js.UpdateStream(cfg); err != nil {
			return fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}
	return nil
}

// Publish sends each board to its station subject. Each call gets a batch
// id, and message ids derived from it let JetStream drop redelivered
// publishes of the same batch.
func (p *Publisher) Publish(ctx context.Context, boards []domain.StationAndServices) error {
	batch := uuid.NewString()
	for _, b := range boards {
		data, err := serialize.Board(b)
		if err != nil {
			return fmt.Errorf("serialize %q: %w", b.Station.Name, err)
		}
		subject := BoardSubject(b.Station.Name)
		if _, err := p.js.Publish(subject, data,
			nats.MsgId(batch+":"+subject),
			nats.Context(ctx),
		); err != nil {
			return fmt.Errorf("publish %s: %w", subject, err)
		}
		metrics.BoardsPublished.WithLabelValues("nats").Inc()
	}
	return nil
}

// Conn exposes the underlying connection for readiness checks.
func (p *Publisher) Conn() *nats.Conn {
	return p.conn
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("railboard"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
