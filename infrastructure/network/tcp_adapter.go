package network

import "net"

// TcpAdapter exposes a net.Conn through the ConnectionAdapter contract.
type TcpAdapter struct {
	Conn net.Conn
}

func (ta *TcpAdapter) Write(data []byte) (int, error) {
	return ta.Conn.Write(data)
}

func (ta *TcpAdapter) Read(buffer []byte) (int, error) {
	return ta.Conn.Read(buffer)
}

func (ta *TcpAdapter) Close() error {
	return ta.Conn.Close()
}
