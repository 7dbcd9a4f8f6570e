package network

import (
	"net"
	"time"

	"tezgo/application"
)

type TCPDialer interface {
	Dial(network, address string) (net.Conn, error)
}

// TCPConnection dials one peer over TCP.
type TCPConnection struct {
	addr   string
	dialer TCPDialer
}

func NewTCPConnection(addr string, dialTimeout time.Duration) application.Connection {
	return &TCPConnection{
		addr:   addr,
		dialer: &net.Dialer{Timeout: dialTimeout},
	}
}

func NewTCPConnectionWithDialer(addr string, dialer TCPDialer) application.Connection {
	return &TCPConnection{
		addr:   addr,
		dialer: dialer,
	}
}

func (c *TCPConnection) Establish() (application.ConnectionAdapter, error) {
	conn, connErr := c.dialer.Dial("tcp", c.addr)
	if connErr != nil {
		return nil, connErr
	}
	return &TcpAdapter{Conn: conn}, nil
}
