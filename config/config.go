// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package config holds the node configuration, loaded from a YAML file and
// overridden by command line flags.
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/fctrlabs/fstake/ledger"
)

type Config struct {
	DataDir   string         `yaml:"dataDir"`
	CacheSize int            `yaml:"cacheSize"` // records kept in memory
	DBCacheMB int            `yaml:"dbCacheMB"`
	Protocol  ProtocolConfig `yaml:"protocol"`
	API       APIConfig      `yaml:"api"`
	Metrics   MetricsConfig  `yaml:"metrics"`
	Admin     AdminConfig    `yaml:"admin"`
	Clock     ClockConfig    `yaml:"clock"`
	Log       LogConfig      `yaml:"log"`
}

type ProtocolConfig struct {
	RoundTime     uint64 `yaml:"roundTime"` // seconds
	RewardRateBps uint64 `yaml:"rewardRateBps"`
	ProofSigner   string `yaml:"proofSigner"` // base58 address
	OwnerKeyFile  string `yaml:"ownerKeyFile"`
	SignerKeyFile string `yaml:"signerKeyFile"`
	AllowAirdrop  bool   `yaml:"allowAirdrop"`
}

type APIConfig struct {
	Addr               string        `yaml:"addr"`
	CORS               []string      `yaml:"cors,omitempty"`
	EnableReqLogger    bool          `yaml:"enableReqLogger"`
	SlowQueryThreshold time.Duration `yaml:"slowQueryThreshold"`
	EventsLimit        uint64        `yaml:"eventsLimit"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

type AdminConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

type ClockConfig struct {
	NTPServer string        `yaml:"ntpServer"` // empty disables syncing
	Tolerance time.Duration `yaml:"tolerance"`
}

type LogConfig struct {
	Verbosity int  `yaml:"verbosity"` // 0 crit .. 5 trace
	JSON      bool `yaml:"json"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		DataDir:   defaultDataDir(),
		CacheSize: 4096,
		DBCacheMB: 64,
		Protocol: ProtocolConfig{
			RoundTime:     86400,
			RewardRateBps: 1000,
			OwnerKeyFile:  "owner.key",
			SignerKeyFile: "signer.key",
		},
		API: APIConfig{
			Addr:               "localhost:8669",
			SlowQueryThreshold: time.Second,
			EventsLimit:        1000,
		},
		Metrics: MetricsConfig{
			Addr: "localhost:2112",
		},
		Admin: AdminConfig{
			Addr: "localhost:2113",
		},
		Clock: ClockConfig{
			NTPServer: "pool.ntp.org",
			Tolerance: 2 * time.Second,
		},
		Log: LogConfig{
			Verbosity: 3,
		},
	}
}

func defaultDataDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".fstake")
	}
	return ".fstake"
}

// Load reads the YAML file at path over the defaults. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %v", path)
	}
	return cfg, nil
}

// Save writes cfg as YAML to path.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Validate rejects nonsensical values.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("dataDir is required")
	}
	if c.CacheSize < 0 {
		return errors.New("cacheSize must not be negative")
	}
	if c.DBCacheMB < 0 {
		return errors.New("dbCacheMB must not be negative")
	}
	if c.Protocol.RoundTime == 0 {
		return errors.New("protocol.roundTime must be positive")
	}
	if c.Protocol.RewardRateBps == 0 || c.Protocol.RewardRateBps > 100_000 {
		return errors.New("protocol.rewardRateBps must be within (0, 100000]")
	}
	if c.Protocol.ProofSigner != "" {
		if _, err := ledger.ParseAddress(c.Protocol.ProofSigner); err != nil {
			return errors.Wrap(err, "protocol.proofSigner")
		}
	}
	if c.Protocol.OwnerKeyFile == "" || c.Protocol.SignerKeyFile == "" {
		return errors.New("protocol key files are required")
	}
	if c.API.Addr == "" {
		return errors.New("api.addr is required")
	}
	if c.API.EventsLimit == 0 {
		return errors.New("api.eventsLimit must be positive")
	}
	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return errors.New("metrics.addr is required when metrics are enabled")
	}
	if c.Admin.Enabled && c.Admin.Addr == "" {
		return errors.New("admin.addr is required when admin is enabled")
	}
	if c.Clock.Tolerance < 0 {
		return errors.New("clock.tolerance must not be negative")
	}
	if c.Log.Verbosity < 0 || c.Log.Verbosity > 5 {
		return errors.New("log.verbosity must be within [0, 5]")
	}
	return nil
}

// KeyPath resolves a key file name relative to the data dir.
func (c *Config) KeyPath(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}
