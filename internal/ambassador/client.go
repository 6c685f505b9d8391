package ambassador

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fjod/go_cart/purchases-service/pkg/circuitbreaker"
	"github.com/fjod/go_cart/purchases-service/pkg/logger"
	pb "github.com/fjod/go_cart/purchases-service/pkg/proto/ambassador"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

var (
	// ErrUnreachable means the authority could not be asked at all. It never
	// means an ambassador is invalid.
	ErrUnreachable  = errors.New("ambassador authority unreachable")
	ErrEmptyRequest = errors.New("no ambassador ids to validate")
)

// PricedAmbassador is an ambassador the authority accepted, with its current price in tiyin.
type PricedAmbassador struct {
	AmbassadorID int64
	Price        int64
}

// ValidationResult partitions the requested ids: every requested id is in
// exactly one of Valid or Invalid, in request order.
type ValidationResult struct {
	Valid   []PricedAmbassador
	Invalid []int64
}

// Prices maps validated ids to their price.
func (r *ValidationResult) Prices() map[int64]int64 {
	prices := make(map[int64]int64, len(r.Valid))
	for _, v := range r.Valid {
		prices[v.AmbassadorID] = v.Price
	}
	return prices
}

type dialFunc func(target string, opts ...grpc.DialOption) (*grpc.ClientConn, error)

// Client talks to the AmbassadorValidation service over one shared connection.
// It is safe for concurrent use.
type Client struct {
	addr     string
	timeout  time.Duration
	dialOpts []grpc.DialOption
	dial     dialFunc
	log      *slog.Logger

	mu   sync.Mutex
	conn *grpc.ClientConn

	breaker *gobreaker.CircuitBreaker[*pb.ValidateResponse]
}

type Option func(*Client)

func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(c *Client) {
		c.dialOpts = append(c.dialOpts, opts...)
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

func WithBreakerSettings(s circuitbreaker.Settings) Option {
	return func(c *Client) {
		s.IsFailure = isBreakerFailure
		c.breaker = circuitbreaker.New[*pb.ValidateResponse](s)
	}
}

func NewClient(addr string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		addr:    addr,
		timeout: timeout,
		dialOpts: []grpc.DialOption{
			grpc.WithTransportCredentials(insecure.NewCredentials()),
			grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
		},
		dial: grpc.NewClient,
		log:  logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.breaker == nil {
		s := circuitbreaker.DefaultSettings("ambassador-authority")
		s.IsFailure = isBreakerFailure
		c.breaker = circuitbreaker.New[*pb.ValidateResponse](s)
	}
	return c
}

// Validate asks the authority which ids are sellable and at what price.
// Duplicate ids are passed through as they are.
func (c *Client) Validate(ctx context.Context, ambassadorIDs []int64) (*ValidationResult, error) {
	if len(ambassadorIDs) == 0 {
		return nil, ErrEmptyRequest
	}

	conn, err := c.connection()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	resp, err := c.breaker.Execute(func() (*pb.ValidateResponse, error) {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()
		resp, err := pb.NewAmbassadorValidationClient(conn).ValidateAmbassadors(callCtx, &pb.ValidateRequest{
			AmbassadorIds: ambassadorIDs,
		})
		if err != nil && ctx.Err() != nil {
			return nil, callerGoneError{err}
		}
		return resp, err
	})
	if err != nil {
		if circuitbreaker.IsOpen(err) {
			c.log.WarnContext(ctx, "ambassador authority breaker open", "error", err)
			return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
		}
		// A caller whose context ended leaves the shared connection alone.
		if ctx.Err() != nil {
			return nil, fmt.Errorf("validate ambassadors: %w", ctx.Err())
		}
		if isTransportFailure(err) {
			c.reset(conn)
			c.log.WarnContext(ctx, "ambassador authority unreachable", "addr", c.addr, "error", err)
			return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
		}
		return nil, fmt.Errorf("validate ambassadors: %w", err)
	}

	result := partition(ambassadorIDs, resp)
	c.log.DebugContext(ctx, "ambassadors validated",
		"requested", ambassadorIDs,
		"valid", len(result.Valid),
		"invalid", result.Invalid)
	return result, nil
}

// Close releases the shared connection. A later Validate reconnects.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *Client) connection() (*grpc.ClientConn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		return c.conn, nil
	}
	conn, err := c.dial(c.addr, c.dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	return conn, nil
}

// reset tears down conn unless another caller already replaced it.
func (c *Client) reset(conn *grpc.ClientConn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != conn {
		return
	}
	if err := c.conn.Close(); err != nil {
		c.log.Warn("failed to close ambassador connection", "error", err)
	}
	c.conn = nil
}

func partition(requested []int64, resp *pb.ValidateResponse) *ValidationResult {
	prices := make(map[int64]int64, len(resp.GetValidAmbassadors()))
	for _, v := range resp.GetValidAmbassadors() {
		if v == nil {
			continue
		}
		prices[v.AmbassadorId] = v.Price
	}

	result := &ValidationResult{
		Valid:   make([]PricedAmbassador, 0, len(requested)),
		Invalid: make([]int64, 0),
	}
	for _, id := range requested {
		if price, ok := prices[id]; ok {
			result.Valid = append(result.Valid, PricedAmbassador{AmbassadorID: id, Price: price})
			continue
		}
		result.Invalid = append(result.Invalid, id)
	}
	return result
}

// callerGoneError marks a call that failed because its caller's context ended.
type callerGoneError struct{ error }

func (e callerGoneError) Unwrap() error { return e.error }

// isBreakerFailure counts only failures the authority is responsible for.
func isBreakerFailure(err error) bool {
	var gone callerGoneError
	if errors.As(err, &gone) {
		return false
	}
	return isTransportFailure(err)
}

func isTransportFailure(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded:
		return true
	}
	return false
}
