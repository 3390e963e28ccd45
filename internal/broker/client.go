// Package broker provides the connection to the on-device key/value broker
// that carries all state exchanged with the phone bridge.
package broker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	defaultHost    = "127.0.0.1"
	defaultPort    = 6379
	defaultTimeout = 1500 * time.Millisecond
)

var (
	// ErrNil is returned when a key is absent.
	ErrNil = errors.New("broker: key not found")
	// ErrWrongType is returned when a key holds a value of another type.
	ErrWrongType = errors.New("broker: wrong value type")
	// ErrUnavailable is returned when the broker cannot be reached.
	ErrUnavailable = errors.New("broker: unavailable")
)

// Store is the subset of broker operations the SDK relies on.
// Keys are logical names resolved through the store's KeyMap.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	MGet(ctx context.Context, keys ...string) (Values, error)
	Set(ctx context.Context, key, value string) error
	LPush(ctx context.Context, key, value string) error
	Ping(ctx context.Context) error
	Close() error
}

// Options configures the broker client.
type Options struct {
	Host    string
	Port    int
	Timeout time.Duration
	Keys    KeyMap
}

func (o Options) withDefaults() Options {
	if o.Host == "" {
		o.Host = defaultHost
	}
	if o.Port <= 0 {
		o.Port = defaultPort
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	return o
}

// Addr returns host:port.
func (o Options) Addr() string {
	return net.JoinHostPort(o.Host, fmt.Sprint(o.Port))
}

// Verify Client implements Store at compile time.
var _ Store = (*Client)(nil)

// Client is a synchronous broker client holding a single connection.
// It is meant to be used from the frame loop only.
type Client struct {
	opts Options
	log  *zap.Logger
	rdb  *redis.Client
}

// New creates a client. The connection is established lazily on first use.
func New(opts Options, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Client{opts: opts.withDefaults(), log: log.Named("broker")}
	c.rdb = c.dial()
	return c
}

func (c *Client) dial() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         c.opts.Addr(),
		DialTimeout:  c.opts.Timeout,
		ReadTimeout:  c.opts.Timeout,
		WriteTimeout: c.opts.Timeout,
		PoolSize:     1,
		MaxRetries:   -1, // retries are handled by do
	})
}

// Keys returns the client's key map.
func (c *Client) Keys() KeyMap {
	return c.opts.Keys
}

// Reconnect drops the current connection and opens a fresh one.
func (c *Client) Reconnect() {
	if c.rdb != nil {
		_ = c.rdb.Close()
	}
	c.rdb = c.dial()
}

// do runs op with the client timeout, reconnecting and retrying once on a
// transient connection failure.
func (c *Client) do(ctx context.Context, name string, op func(ctx context.Context, rdb *redis.Client) error) error {
	err := c.attempt(ctx, op)
	if err == nil || !isTransient(err) {
		return translate(err)
	}

	c.log.Info("connection lost, reconnecting",
		zap.String("op", name), zap.String("addr", c.opts.Addr()), zap.Error(err))
	c.Reconnect()

	err = c.attempt(ctx, op)
	if err != nil && isTransient(err) {
		return fmt.Errorf("%s: %w: %w", name, ErrUnavailable, err)
	}
	return translate(err)
}

func (c *Client) attempt(ctx context.Context, op func(ctx context.Context, rdb *redis.Client) error) error {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()
	return op(ctx, c.rdb)
}

// Get returns the string value stored at key.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	var val string
	err := c.do(ctx, "GET", func(ctx context.Context, rdb *redis.Client) error {
		var err error
		val, err = rdb.Get(ctx, c.opts.Keys.Resolve(key)).Result()
		return err
	})
	return val, err
}

// MGet returns the values of all present keys, indexed by logical name.
func (c *Client) MGet(ctx context.Context, keys ...string) (Values, error) {
	if len(keys) == 0 {
		return Values{}, nil
	}
	resolved := make([]string, len(keys))
	for i, k := range keys {
		resolved[i] = c.opts.Keys.Resolve(k)
	}

	var raw []any
	err := c.do(ctx, "MGET", func(ctx context.Context, rdb *redis.Client) error {
		var err error
		raw, err = rdb.MGet(ctx, resolved...).Result()
		return err
	})
	if err != nil {
		return nil, err
	}

	vals := make(Values, len(keys))
	for i, v := range raw {
		if i >= len(keys) {
			break
		}
		if s, ok := v.(string); ok {
			vals[keys[i]] = s
		}
	}
	return vals, nil
}

// Set stores value at key.
func (c *Client) Set(ctx context.Context, key, value string) error {
	return c.do(ctx, "SET", func(ctx context.Context, rdb *redis.Client) error {
		return rdb.Set(ctx, c.opts.Keys.Resolve(key), value, 0).Err()
	})
}

// LPush pushes value to the head of the list at key.
func (c *Client) LPush(ctx context.Context, key, value string) error {
	return c.do(ctx, "LPUSH", func(ctx context.Context, rdb *redis.Client) error {
		return rdb.LPush(ctx, c.opts.Keys.Resolve(key), value).Err()
	})
}

// Ping verifies the connection.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, "PING", func(ctx context.Context, rdb *redis.Client) error {
		return rdb.Ping(ctx).Err()
	})
}

// Close releases the connection.
func (c *Client) Close() error {
	if c.rdb == nil {
		return nil
	}
	err := c.rdb.Close()
	c.rdb = nil
	return err
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, redis.Nil):
		return ErrNil
	case strings.HasPrefix(err.Error(), "WRONGTYPE"):
		return fmt.Errorf("%w: %w", ErrWrongType, err)
	default:
		return err
	}
}

// isTransient reports whether err is a connection-level failure worth a
// reconnect. Reply errors from the broker itself are not.
func isTransient(err error) bool {
	if err == nil || errors.Is(err, redis.Nil) {
		return false
	}
	var rerr redis.Error
	if errors.As(err, &rerr) {
		return false
	}
	var nerr net.Error
	switch {
	case errors.As(err, &nerr),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, redis.ErrClosed),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.EPIPE),
		errors.Is(err, context.DeadlineExceeded):
		return true
	}
	return false
}
