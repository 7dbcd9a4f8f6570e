package p2p

import (
	"github.com/sirupsen/logrus"

	"tezgo/application"
	"tezgo/infrastructure/cryptography/tezbox"
	"tezgo/infrastructure/encoding"
	"tezgo/infrastructure/network"
)

// HandshakePhase enumerates the linear handshake progression. There are
// no back edges; Finish self-loops so the supervisor can drive past it.
type HandshakePhase int

const (
	HandshakeConnection HandshakePhase = iota
	HandshakeMetadata
	HandshakeAcknowledge
	HandshakeFinish
)

// HandshakeState negotiates one session: connection-message exchange and
// key agreement, then metadata, then acknowledge. Each Run call performs
// exactly one transition. Any failure is fatal to the socket.
type HandshakeState struct {
	phase     HandshakePhase
	identity  *tezbox.Identity
	chainName string
	telemetry *Telemetry

	metadataConn *TrustedConnection[*encoding.MetadataMessage]
	ackConn      *TrustedConnection[*encoding.AckMessage]
	ack          *encoding.AckMessage
}

func NewHandshake(identity *tezbox.Identity, chainName string, telemetry *Telemetry) *HandshakeState {
	return &HandshakeState{
		phase:     HandshakeConnection,
		identity:  identity,
		chainName: chainName,
		telemetry: telemetry,
	}
}

func (h *HandshakeState) Phase() HandshakePhase {
	return h.phase
}

// Finished reports the handshake outcome once the Finish phase is
// reached: the acknowledge-typed connection (transmutable to the next
// message family) and the peer's acknowledge.
func (h *HandshakeState) Finished() (*TrustedConnection[*encoding.AckMessage], *encoding.AckMessage, bool) {
	if h.phase != HandshakeFinish {
		return nil, nil, false
	}
	return h.ackConn, h.ack, true
}

// Run advances the handshake by one transition over the given stream.
func (h *HandshakeState) Run(logger logrus.FieldLogger, stream application.ConnectionAdapter) error {
	switch h.phase {
	case HandshakeConnection:
		decipher, err := h.outgoingConnection(stream)
		if err != nil {
			return err
		}
		h.metadataConn = NewTrustedConnection(stream, decipher, encoding.DecodeMetadataMessage, "metadata", logger)
		logger.Info("exchanged connection messages")
		h.phase = HandshakeMetadata

	case HandshakeMetadata:
		if err := h.metadataConn.Write(&encoding.MetadataMessage{DisableMempool: false, PrivateNode: false}); err != nil {
			return err
		}
		// the peer's metadata carries nothing this node acts on
		if _, err := h.metadataConn.Read(); err != nil {
			return err
		}
		h.ackConn = Transmute(h.metadataConn, encoding.DecodeAckMessage, "ack")
		h.metadataConn = nil
		logger.Info("exchanged metadata messages")
		h.phase = HandshakeAcknowledge

	case HandshakeAcknowledge:
		if err := h.ackConn.Write(encoding.Ack()); err != nil {
			return err
		}
		ack, err := h.ackConn.Read()
		if err != nil {
			return err
		}
		h.ack = ack
		logger.Info("exchanged acknowledge messages")
		h.phase = HandshakeFinish

	case HandshakeFinish:
		// terminal within the handshake; the supervisor inspects the ack
	}
	return nil
}

// outgoingConnection writes the local connection message as a cleartext
// chunk, reads the peer's, and runs key agreement over the two wire-level
// chunks, initiator first. Outbound sockets are always the initiator.
func (h *HandshakeState) outgoingConnection(stream application.ConnectionAdapter) (*DecipherState, error) {
	message := &encoding.ConnectionMessage{
		Port:             0,
		PublicKey:        h.identity.PublicKey,
		ProofOfWorkStamp: h.identity.ProofOfWorkStamp,
		Versions: []encoding.NetworkVersion{
			{ChainName: h.chainName, DistributedDBVersion: 0, P2PVersion: 1},
		},
	}
	bytes, err := message.MarshalBinary()
	if err != nil {
		return nil, ErrEncoding
	}
	initiatorChunk, err := network.NewBinaryChunk(bytes)
	if err != nil {
		return nil, chunkError(err)
	}
	if _, err := stream.Write(initiatorChunk.Raw()); err != nil {
		return nil, ioError(err)
	}

	responderChunk, err := network.ReadBinaryChunk(stream)
	if err != nil {
		return nil, ioError(err)
	}

	decipher, err := h.identity.Decipher(initiatorChunk, responderChunk)
	if err != nil {
		return nil, encryptionError(err)
	}
	return NewDecipherState(decipher, true).WithTelemetry(h.telemetry), nil
}
