// Package pump 负责会话期间的双向数据转发
// 入站: 连接 -> 输出; 出站: 输入行 -> 连接
package pump

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
)

const DefaultBufferSize = 512

type Pump struct {
	in      io.Reader
	out     io.Writer
	status  io.Writer
	bufSize int
}

type Option func(*Pump)

// WithBufferSize sets the inbound read chunk size. Non-positive values are
// ignored.
func WithBufferSize(n int) Option {
	return func(p *Pump) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// WithStatus sets where status lines such as "Connection closed by server."
// are written. Defaults to io.Discard.
func WithStatus(w io.Writer) Option {
	return func(p *Pump) {
		if w != nil {
			p.status = w
		}
	}
}

func New(in io.Reader, out io.Writer, opts ...Option) *Pump {
	p := &Pump{
		in:      in,
		out:     out,
		status:  io.Discard,
		bufSize: DefaultBufferSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type halfCloser interface {
	CloseRead() error
	CloseWrite() error
}

type flusher interface {
	Flush() error
}

type session struct {
	*Pump
	conn      io.ReadWriteCloser
	inputDone atomic.Bool

	mu    sync.Mutex // guards ended and serializes status lines
	ended bool
}

// Run relays until the inbound direction terminates or ctx ends. It does not
// wait for the outbound loop, which may stay blocked on its input; a peer
// close always ends the session even while input is still open. The caller
// owns conn and should close it after Run returns.
func (p *Pump) Run(ctx context.Context, conn io.ReadWriteCloser) Result {
	s := &session{Pump: p, conn: conn}

	inboundDone := make(chan Result, 1)
	go func() {
		inboundDone <- s.inbound()
	}()
	go s.outbound()

	select {
	case res := <-inboundDone:
		s.end()
		res.InputDone = s.inputDone.Load()
		slog.Debug("Session ended", "outcome", res.Outcome.String(), "input_done", res.InputDone)
		return res
	case <-ctx.Done():
		s.end()
		_ = conn.Close()
		slog.Debug("Session canceled", "error", ctx.Err())
		return Result{Outcome: Canceled, Err: ctx.Err(), InputDone: s.inputDone.Load()}
	}
}

func (s *session) inbound() Result {
	buf := make([]byte, s.bufSize)
	var total int64
	for {
		n, err := s.conn.Read(buf)
		if n > 0 {
			if werr := s.emit(buf[:n]); werr != nil {
				s.statusf("Error writing output: %v", werr)
				return Result{Outcome: ReadError, Err: werr}
			}
			total += int64(n)
			slog.Debug("Relayed inbound", "bytes", n, "total", total)
		}
		if err == nil {
			continue
		}
		switch {
		case errors.Is(err, io.EOF):
			s.statusf("Connection closed by server.")
			return Result{Outcome: PeerClosed}
		case isReset(err):
			s.statusf("Connection was reset by the server.")
			return Result{Outcome: ConnectionReset, Err: err}
		default:
			s.statusf("Error reading from socket: %v", err)
			return Result{Outcome: ReadError, Err: err}
		}
	}
}

func (s *session) emit(p []byte) error {
	if _, err := s.out.Write(p); err != nil {
		return err
	}
	if f, ok := s.out.(flusher); ok {
		return f.Flush()
	}
	return nil
}

func (s *session) outbound() {
	r := bufio.NewReader(s.in)
	var total int64
	writeFailed := false
	for {
		// A read that returns zero bytes means end of input, never an
		// empty line; a trailing line without '\n' is still sent.
		line, err := r.ReadBytes('\n')
		if len(line) > 0 {
			if _, werr := s.conn.Write(line); werr != nil {
				s.statusf("Error writing to socket: %v", werr)
				writeFailed = true
				break
			}
			total += int64(len(line))
			slog.Debug("Relayed outbound", "bytes", len(line), "total", total)
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.statusf("Error reading from stdin: %v", err)
			}
			break
		}
	}

	s.inputDone.Store(true)
	if !writeFailed {
		s.statusf("Input finished, shutting down socket.")
	}
	if err := shutdown(s.conn); err != nil {
		s.statusf("Error shutting down socket: %v", err)
	}
}

// shutdown stops both directions. With a half-closable conn the descriptor
// stays valid and a blocked Read returns EOF; otherwise Close makes it fail.
func shutdown(conn io.ReadWriteCloser) error {
	hc, ok := conn.(halfCloser)
	if !ok {
		return conn.Close()
	}
	return errors.Join(hc.CloseWrite(), hc.CloseRead())
}

// end marks the session finished. Once it returns no further status line is
// written, even by a loop that is still running.
func (s *session) end() {
	s.mu.Lock()
	s.ended = true
	s.mu.Unlock()
}

func (s *session) statusf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return
	}
	fmt.Fprintf(s.status, format+"\n", args...)
}
