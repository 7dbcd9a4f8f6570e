// Package settings carries the client configuration: which peer to talk
// to, where the identity and the header dump live, and the few knobs the
// shell exposes.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

type Settings struct {
	// Peer is the ip:port of the remote node. A positional argument
	// overrides it.
	Peer string `yaml:"peer"`
	// Peers lists known peer addresses for interactive selection.
	Peers []string `yaml:"peers"`
	// IdentityPath points at the identity JSON document; empty selects
	// the embedded identity.
	IdentityPath string `yaml:"identity_path"`
	// DumpPath receives the downloaded header chain.
	DumpPath string `yaml:"dump_path"`
	// ChainName is the network version name announced in the connection
	// message.
	ChainName string `yaml:"chain_name"`
	// MetricsAddr is the optional listen address of the Prometheus
	// endpoint; empty disables it.
	MetricsAddr string `yaml:"metrics_addr"`
	// LogLevel is a logrus level name.
	LogLevel string `yaml:"log_level"`

	DialTimeoutMs DialTimeoutMs `yaml:"dial_timeout_ms"`
}

// DefaultPath is where Load looks when no explicit path is given.
const DefaultPath = "tezgo.yaml"

// Load reads settings from path, falling back to defaults when the file
// does not exist. A present but malformed file is an error.
func Load(path string) (Settings, error) {
	s := defaults()

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("read settings: %w", err)
	}
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return s, fmt.Errorf("parse settings: %w", err)
	}
	return s, nil
}

func defaults() Settings {
	return Settings{
		DumpPath:      "data.dump",
		LogLevel:      "debug",
		DialTimeoutMs: 5000,
	}
}
