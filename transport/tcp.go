package transport

import (
	"errors"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/indigo-web/gateway/config"
)

type listener interface {
	net.Listener
	SetDeadline(t time.Time) error
}

// TCP is the accept loop. Every accepted connection is served in its own goroutine, with no
// upper bound on their number.
type TCP struct {
	// mu guards l, which is set by Bind and may be closed concurrently by Stop
	mu   sync.Mutex
	l    listener
	wg   *sync.WaitGroup
	stop *atomic.Bool
}

func NewTCP() *TCP {
	return &TCP{
		wg:   new(sync.WaitGroup),
		stop: new(atomic.Bool),
	}
}

// Bind starts listening on the address. SO_REUSEADDR is set by the runtime on every
// listening socket on Unix systems. If Stop was called already, the socket is closed right
// away and Listen returns immediately.
func (t *TCP) Bind(addr string) error {
	tcpaddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return err
	}

	l, err := net.ListenTCP("tcp", tcpaddr)
	if err != nil {
		return err
	}

	t.setListener(l)
	return nil
}

func (t *TCP) setListener(l listener) {
	t.mu.Lock()
	t.l = l
	t.mu.Unlock()

	if t.stop.Load() {
		t.Close()
	}
}

func (t *TCP) listener() listener {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.l
}

// Addr returns the bound address. Useful when bound to port 0.
func (t *TCP) Addr() net.Addr {
	return t.listener().Addr()
}

// Listen blocks on accepting new connections, passing each of them to the callback in a
// new goroutine. It returns nil after Stop and the accept error otherwise. The listener is
// closed in both cases, already running callbacks are left alone.
func (t *TCP) Listen(cfg config.NET, cb func(conn net.Conn)) error {
	defer t.Close()

	l := t.listener()

	for !t.stop.Load() {
		err := l.SetDeadline(time.Now().Add(cfg.AcceptLoopInterruptPeriod))
		if err != nil {
			if t.stop.Load() {
				return nil
			}

			return err
		}

		conn, err := l.Accept()
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				continue
			}

			if t.stop.Load() {
				return nil
			}

			return err
		}

		t.wg.Add(1)
		go func(conn net.Conn) {
			defer t.wg.Done()
			cb(conn)
		}(conn)
	}

	return nil
}

// Stop interrupts the accept loop. The call isn't blocking and is safe to make at any
// moment, even before Bind.
func (t *TCP) Stop() {
	if !t.stop.Swap(true) {
		t.Close()
	}
}

func (t *TCP) Close() {
	if l := t.listener(); l != nil {
		_ = l.Close()
	}
}

// Wait blocks until all the spawned callbacks return.
func (t *TCP) Wait() {
	t.wg.Wait()
}
