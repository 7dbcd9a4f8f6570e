// Package presentation wires the configured pieces into a running
// client: peer resolution, identity, telemetry and the socket itself.
package presentation

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"tezgo/domain/chain"
	"tezgo/infrastructure/cryptography/tezbox"
	"tezgo/infrastructure/network"
	"tezgo/infrastructure/settings"
	"tezgo/infrastructure/telemetry/metrics"
	"tezgo/infrastructure/telemetry/trafficstats"
	"tezgo/p2p"
	"tezgo/p2p/bootstrap"
)

// StartClient resolves a peer and drives one socket to its terminal
// state. It returns nil on a clean terminal (Finish or UnknownChain).
func StartClient(ctx context.Context, conf settings.Settings, peerArgument string, logger *logrus.Logger) error {
	peer, err := SelectPeer(peerArgument, conf)
	if err != nil {
		return err
	}
	socketAddr, err := network.ParseSocket(peer)
	if err != nil {
		return err
	}

	identity, err := loadIdentity(conf)
	if err != nil {
		return err
	}

	stats := trafficstats.NewCollector(time.Second, 0.3)
	telemetry := &p2p.Telemetry{
		Stats:   stats,
		Metrics: metrics.NewMetrics(),
	}

	config := p2p.Config{
		Identity:  identity,
		ChainName: chainName(conf),
		ChainID:   chain.GenesisChainID,
		Store:     &bootstrap.FileStore{Path: conf.DumpPath},
		Telemetry: telemetry,
	}
	connection := network.NewTCPConnection(socketAddr.StringAddr(), conf.DialTimeoutMs.Duration())
	socket, shutdown := p2p.Outgoing(connection, config)

	socketLogger := logger.WithField("peer", socketAddr.StringAddr())

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	group, groupCtx := errgroup.WithContext(runCtx)
	group.Go(func() error {
		stats.Start(groupCtx)
		return nil
	})
	if conf.MetricsAddr != "" {
		group.Go(func() error {
			return telemetry.Metrics.Serve(groupCtx, conf.MetricsAddr)
		})
	}
	group.Go(func() error {
		defer cancel()
		defer shutdown.Shutdown()
		return socket.Run(groupCtx, socketLogger)
	})

	err = group.Wait()

	snapshot := stats.Snapshot()
	socketLogger.WithFields(logrus.Fields{
		"rx":        trafficstats.FormatTotal(snapshot.RXBytesTotal),
		"tx":        trafficstats.FormatTotal(snapshot.TXBytesTotal),
		"rx_chunks": snapshot.RXChunksTotal,
		"tx_chunks": snapshot.TXChunksTotal,
	}).Info("socket closed")
	return err
}

func loadIdentity(conf settings.Settings) (*tezbox.Identity, error) {
	if conf.IdentityPath == "" {
		return tezbox.DefaultIdentity(), nil
	}
	identity, err := tezbox.LoadIdentity(conf.IdentityPath)
	if err != nil {
		return nil, fmt.Errorf("identity: %w", err)
	}
	return identity, nil
}

func chainName(conf settings.Settings) string {
	if conf.ChainName != "" {
		return conf.ChainName
	}
	return chain.GenesisChainName
}
