// Package connector opens the single TCP connection a session runs over:
// resolve once, dial once with a deadline, send the greeting.
package connector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"
)

// Resolver is the subset of *net.Resolver the connector needs.
type Resolver interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
	LookupPort(ctx context.Context, network, service string) (int, error)
}

// DialFunc matches (*net.Dialer).DialContext.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

type Connector struct {
	timeout  time.Duration
	greeting []byte
	resolver Resolver
	dial     DialFunc
}

type Option func(*Connector)

func WithResolver(r Resolver) Option {
	return func(c *Connector) { c.resolver = r }
}

func WithDialFunc(fn DialFunc) Option {
	return func(c *Connector) { c.dial = fn }
}

func New(timeout time.Duration, greeting string, opts ...Option) *Connector {
	c := &Connector{
		timeout:  timeout,
		greeting: []byte(greeting),
		resolver: net.DefaultResolver,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.dial == nil {
		d := &net.Dialer{}
		c.dial = d.DialContext
	}
	return c
}

// Dial resolves host:port, connects to the first resolved address and writes
// the greeting. There are no retries. On a greeting failure the connection is
// closed before returning.
func (c *Connector) Dial(ctx context.Context, host, port string) (net.Conn, error) {
	addr, err := c.resolve(ctx, host, port)
	if err != nil {
		return nil, err
	}

	// Never dial without a bound.
	if c.timeout <= 0 {
		return nil, fmt.Errorf("%w: %s: non-positive timeout %v", ErrConnectTimeout, addr, c.timeout)
	}
	dialCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	conn, err := c.dial(dialCtx, "tcp", addr)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %s after %v: %w", ErrConnectTimeout, addr, c.timeout, err)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrConnect, addr, err)
	}
	slog.Info("Connected", "address", addr)

	// Each relayed line should leave immediately.
	if tcpConn, ok := conn.(*net.TCPConn); ok {
		_ = tcpConn.SetNoDelay(true)
	}

	if len(c.greeting) > 0 {
		if _, err := conn.Write(c.greeting); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("%w: %w", ErrInitialWrite, err)
		}
		slog.Debug("Sent greeting", "bytes", len(c.greeting))
	}
	return conn, nil
}

func (c *Connector) resolve(ctx context.Context, host, port string) (string, error) {
	target := net.JoinHostPort(host, port)
	ips, err := c.resolver.LookupIPAddr(ctx, host)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrResolution, target, err)
	}
	if len(ips) == 0 {
		return "", fmt.Errorf("%w: %s: no addresses", ErrResolution, target)
	}
	portNum, err := c.resolver.LookupPort(ctx, "tcp", port)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrResolution, target, err)
	}
	// First result only, no fallback to the others.
	addr := (&net.TCPAddr{IP: ips[0].IP, Port: portNum, Zone: ips[0].Zone}).String()
	slog.Debug("Resolved address", "target", target, "address", addr, "candidates", len(ips))
	return addr, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
