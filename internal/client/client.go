package client

import (
	"context"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/Versifine/telnetc/internal/connector"
	"github.com/Versifine/telnetc/internal/pump"
)

type Options struct {
	Host       string
	Port       string
	Timeout    time.Duration
	Greeting   string
	BufferSize int

	Stdin  io.Reader
	Stdout io.Writer
	// Status receives user-facing status lines; usually stderr.
	Status io.Writer

	// Connector overrides the default one built from Timeout and Greeting.
	Connector *connector.Connector
}

type Client struct {
	opts Options
}

func New(opts Options) *Client {
	if opts.Connector == nil {
		opts.Connector = connector.New(opts.Timeout, opts.Greeting)
	}
	return &Client{opts: opts}
}

// Run performs one session. A non-nil error is always a startup failure;
// once the connection is up every ending is reported through the Result.
func (c *Client) Run(ctx context.Context) (pump.Result, error) {
	address := net.JoinHostPort(c.opts.Host, c.opts.Port)
	slog.Info("Connecting", "address", address, "timeout", c.opts.Timeout)

	conn, err := c.opts.Connector.Dial(ctx, c.opts.Host, c.opts.Port)
	if err != nil {
		return pump.Result{}, err
	}
	defer conn.Close()

	p := pump.New(c.opts.Stdin, c.opts.Stdout,
		pump.WithBufferSize(c.opts.BufferSize),
		pump.WithStatus(c.opts.Status),
	)
	res := p.Run(ctx, conn)
	if res.Err != nil {
		slog.Info("Session finished", "address", address, "outcome", res.Outcome.String(), "error", res.Err)
	} else {
		slog.Info("Session finished", "address", address, "outcome", res.Outcome.String())
	}
	return res, nil
}
