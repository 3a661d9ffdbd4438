package dummy

import (
	"errors"
	"io"
	"net"

	"github.com/indigo-web/gateway/transport"
)

var _ transport.Client = new(Client)

// ErrNoMoreData is returned by a Client set to block once it has no more data. It's the way
// to tell a stalled peer from one that closed the connection.
var ErrNoMoreData = errors.New("mock client: no more data")

// Client returns the data it was initialised with, piece by piece, and then io.EOF. It
// also tracks all the written data and the number of Close calls, making it thereby a
// universal mock suitable for most of the tests.
type Client struct {
	pointer    int
	closes     int
	reads      int
	journaling bool
	stall      bool
	looped     bool
	remote     net.Addr
	written    []byte
	data       [][]byte
}

func NewMockClient(data ...[]byte) *Client {
	return &Client{
		data:       data,
		journaling: true,
		remote:     &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 54321},
	}
}

func (c *Client) Read() (data []byte, err error) {
	c.reads++

	if c.closes > 0 {
		return nil, net.ErrClosed
	}

	if c.pointer >= len(c.data) {
		if c.looped && len(c.data) > 0 {
			c.pointer = 0
		} else if c.stall {
			return nil, ErrNoMoreData
		} else {
			return nil, io.EOF
		}
	}

	piece := c.data[c.pointer]
	c.pointer++

	return piece, nil
}

func (c *Client) Write(p []byte) (int, error) {
	if c.closes > 0 {
		return 0, net.ErrClosed
	}

	if c.journaling {
		c.written = append(c.written, p...)
	}

	return len(p), nil
}

func (c *Client) Remote() net.Addr {
	return c.remote
}

func (c *Client) Close() error {
	c.closes++
	return nil
}

// LoopReads makes the client start over when the data is exhausted.
func (c *Client) LoopReads() *Client {
	c.looped = true
	return c
}

// Stall makes the client return ErrNoMoreData instead of io.EOF when exhausted.
func (c *Client) Stall() *Client {
	c.stall = true
	return c
}

func (c *Client) Journaling(flag bool) *Client {
	c.journaling = flag
	return c
}

func (c *Client) Written() string {
	if !c.journaling {
		panic("mock client: cannot access written data: journaling is disabled!")
	}

	return string(c.written)
}

// Closes returns how many times Close was called.
func (c *Client) Closes() int {
	return c.closes
}

// Reads returns how many times Read was called.
func (c *Client) Reads() int {
	return c.reads
}

// Pending returns the number of pieces not read yet.
func (c *Client) Pending() int {
	return len(c.data) - c.pointer
}
