// Package darwin fetches departure boards from the National Rail Darwin
// OpenLDBWS SOAP service.
package darwin

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hooklift/gowsdl/soap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/railboard/internal/core/domain"
	"github.com/samirrijal/railboard/internal/pkg/metrics"
	"github.com/samirrijal/railboard/internal/pkg/telemetry"
)

// DefaultEndpoint is the public OpenLDBWS endpoint.
const DefaultEndpoint = "https://lite.realtime.nationalrail.co.uk/OpenLDBWS/ldb11.asmx"

// Config configures a Client.
type Config struct {
	Endpoint string
	Token    string
	// NumRows caps the services returned per board.
	NumRows int
	Timeout time.Duration
	// MaxRetries bounds retries of transport failures. SOAP faults are never retried.
	MaxRetries     int
	InitialBackoff time.Duration
}

// Client implements ports.DepartureBoardSource against Darwin.
type Client struct {
	soap     *soap.Client
	cfg      Config
	stations map[string]string
}

// New creates a Client. stations maps origin station names to CRS codes.
func New(cfg Config, stations map[string]string) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.NumRows <= 0 {
		cfg.NumRows = 100
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 500 * time.Millisecond
	}

	client := soap.NewClient(cfg.Endpoint, soap.WithTimeout(cfg.Timeout))
	client.AddHeader(&accessToken{TokenValue: cfg.Token})

	return &Client{soap: client, cfg: cfg, stations: stations}
}

// CRS returns the station code for name.
func (c *Client) CRS(name string) (string, error) {
	crs, ok := c.stations[name]
	if !ok || crs == "" {
		return "", &domain.LookupError{Station: name}
	}
	return crs, nil
}

// GetDepartureBoard fetches the departure board with calling point details
// for originName.
func (c *Client) GetDepartureBoard(ctx context.Context, originName string) (*domain.DepartureBoard, error) {
	crs, err := c.CRS(originName)
	if err != nil {
		return nil, err
	}

	ctx, span := otel.Tracer("github.com/samirrijal/railboard/internal/adapters/darwin").Start(ctx, "GetDepBoardWithDetails",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(telemetry.AttrOrigin.String(originName), telemetry.AttrCRS.String(crs)),
	)
	defer span.End()

	req := &getDepBoardWithDetailsRequest{NumRows: c.cfg.NumRows, Crs: crs}
	resp, err := backoff.RetryNotifyWithData(
		func() (*getDepBoardWithDetailsResponse, error) {
			resp := new(getDepBoardWithDetailsResponse)
			err := c.soap.CallContext(ctx, getDepBoardWithDetailsAction, req, resp)
			if err != nil {
				if perm := permanent(err); perm != nil {
					return nil, backoff.Permanent(perm)
				}
				return nil, err
			}
			return resp, nil
		},
		c.backoff(ctx),
		func(err error, d time.Duration) {
			metrics.UpstreamRetries.Inc()
			slog.Warn("departure board request failed, retrying", "origin", originName, "crs", crs, "backoff", d, "error", err)
		},
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, &domain.UpstreamError{Station: originName, Err: err}
	}
	if resp.Result == nil {
		return nil, domain.Malformed("GetStationBoardResult", fmt.Errorf("missing from response for %s", crs))
	}
	return toDomain(resp.Result), nil
}

// permanent returns the error to give up with when err is a SOAP fault or a
// client error, and nil when the call is worth retrying. Faults arrive as
// HTTP 500, so the body decides.
func permanent(err error) error {
	var fault *soap.SOAPFault
	if errors.As(err, &fault) {
		return err
	}

	var httpErr *soap.HTTPError
	if !errors.As(err, &httpErr) {
		return nil
	}
	var env faultEnvelope
	if xml.Unmarshal(httpErr.ResponseBody, &env) == nil && env.Body.Fault != nil {
		return fmt.Errorf("soap fault %s: %s", env.Body.Fault.Code, env.Body.Fault.String)
	}
	switch code := httpErr.StatusCode; {
	case code == http.StatusRequestTimeout, code == http.StatusTooManyRequests:
		return nil
	case code >= 400 && code < 500:
		return err
	}
	return nil
}

func (c *Client) backoff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.cfg.InitialBackoff
	b.MaxElapsedTime = 2 * c.cfg.Timeout
	var bo backoff.BackOff = b
	if c.cfg.MaxRetries >= 0 {
		bo = backoff.WithMaxRetries(bo, uint64(c.cfg.MaxRetries))
	}
	return backoff.WithContext(bo, ctx)
}
