// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"crypto/rand"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/elastic/gosigar"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/fctrlabs/fstake/config"
	"github.com/fctrlabs/fstake/eventdb"
	"github.com/fctrlabs/fstake/kv"
	"github.com/fctrlabs/fstake/ledger"
	"github.com/fctrlabs/fstake/log"
	"github.com/fctrlabs/fstake/proof"
	"github.com/fctrlabs/fstake/state"
)

// loadConfig reads the config file, if given, and applies flag overrides.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if path := ctx.String(configFlag.Name); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}

	set := func(name string, apply func()) {
		if ctx.IsSet(name) {
			apply()
		}
	}
	set(dataDirFlag.Name, func() { cfg.DataDir = ctx.String(dataDirFlag.Name) })
	set(cacheFlag.Name, func() { cfg.CacheSize = ctx.Int(cacheFlag.Name) })
	set(dbCacheFlag.Name, func() { cfg.DBCacheMB = ctx.Int(dbCacheFlag.Name) })
	set(verbosityFlag.Name, func() { cfg.Log.Verbosity = ctx.Int(verbosityFlag.Name) })
	set(jsonLogsFlag.Name, func() { cfg.Log.JSON = ctx.Bool(jsonLogsFlag.Name) })
	set(roundTimeFlag.Name, func() { cfg.Protocol.RoundTime = ctx.Uint64(roundTimeFlag.Name) })
	set(rewardRateFlag.Name, func() { cfg.Protocol.RewardRateBps = ctx.Uint64(rewardRateFlag.Name) })
	set(proofSignerFlag.Name, func() { cfg.Protocol.ProofSigner = ctx.String(proofSignerFlag.Name) })
	set(allowAirdropFlag.Name, func() { cfg.Protocol.AllowAirdrop = ctx.Bool(allowAirdropFlag.Name) })
	set(apiAddrFlag.Name, func() { cfg.API.Addr = ctx.String(apiAddrFlag.Name) })
	set(apiCorsFlag.Name, func() { cfg.API.CORS = splitList(ctx.String(apiCorsFlag.Name)) })
	set(enableAPILogsFlag.Name, func() { cfg.API.EnableReqLogger = ctx.Bool(enableAPILogsFlag.Name) })
	set(apiSlowQueriesThresholdFlag.Name, func() { cfg.API.SlowQueryThreshold = ctx.Duration(apiSlowQueriesThresholdFlag.Name) })
	set(apiEventsLimitFlag.Name, func() { cfg.API.EventsLimit = ctx.Uint64(apiEventsLimitFlag.Name) })
	set(enableMetricsFlag.Name, func() { cfg.Metrics.Enabled = ctx.Bool(enableMetricsFlag.Name) })
	set(metricsAddrFlag.Name, func() { cfg.Metrics.Addr = ctx.String(metricsAddrFlag.Name) })
	set(enableAdminFlag.Name, func() { cfg.Admin.Enabled = ctx.Bool(enableAdminFlag.Name) })
	set(adminAddrFlag.Name, func() { cfg.Admin.Addr = ctx.String(adminAddrFlag.Name) })
	set(ntpServerFlag.Name, func() { cfg.Clock.NTPServer = ctx.String(ntpServerFlag.Name) })

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// initLogger installs the root handler. The returned level can be changed at runtime.
func initLogger(cfg *config.Config) *slog.LevelVar {
	logLevel := new(slog.LevelVar)
	logLevel.Set(log.FromVerbosity(cfg.Log.Verbosity))

	if cfg.Log.JSON {
		log.SetDefault(log.NewJSONHandler(os.Stderr, logLevel))
		return logLevel
	}
	useColor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
	log.SetDefault(log.NewTerminalHandler(os.Stderr, logLevel, useColor))
	return logLevel
}

func makeDataDir(cfg *config.Config) (string, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return "", errors.Wrapf(err, "create data dir at '%v'", cfg.DataDir)
	}
	return cfg.DataDir, nil
}

func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 16 {
		sizeMB = 16
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		logger.Warn("failed to get total mem:", "err", err)
	} else {
		// limit to 1/2 os physical ram
		limitMB := int(mem.Total / 1024 / 1024 / 2)
		if sizeMB > limitMB {
			sizeMB = limitMB
			logger.Warn("db cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

func openStateDB(dataDir string, cacheMB int) (kv.Store, error) {
	path := filepath.Join(dataDir, "state.db")
	db, err := kv.Open(path, kv.Options{CacheSize: normalizeCacheSize(cacheMB), OpenFilesCacheCapacity: 64})
	if err != nil {
		return nil, errors.Wrapf(err, "open state database at '%v'", path)
	}
	return db, nil
}

func openEventDB(dataDir string) (*eventdb.EventDB, error) {
	path := filepath.Join(dataDir, "events.db")
	db, err := eventdb.New(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open event database at '%v'", path)
	}
	return db, nil
}

// stores bundles the opened databases of a node.
type stores struct {
	stater *state.Stater
	db     kv.Store
	events *eventdb.EventDB
}

func openStores(cfg *config.Config) (*stores, error) {
	dataDir, err := makeDataDir(cfg)
	if err != nil {
		return nil, err
	}
	db, err := openStateDB(dataDir, cfg.DBCacheMB)
	if err != nil {
		return nil, err
	}
	events, err := openEventDB(dataDir)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &stores{
		stater: state.NewStater(db, cfg.CacheSize),
		db:     db,
		events: events,
	}, nil
}

func (s *stores) Close() {
	logger.Info("closing event database...")
	if err := s.events.Close(); err != nil {
		logger.Warn("failed to close event database", "err", err)
	}
	logger.Info("closing state database...")
	if err := s.db.Close(); err != nil {
		logger.Warn("failed to close state database", "err", err)
	}
}

func loadOwnerKey(cfg *config.Config) (*proof.PrivateKey, error) {
	return proof.LoadOrGenerateKey(cfg.KeyPath(cfg.Protocol.OwnerKeyFile), rand.Reader)
}

func loadSignerKey(cfg *config.Config) (*proof.PrivateKey, error) {
	return proof.LoadOrGenerateKey(cfg.KeyPath(cfg.Protocol.SignerKeyFile), rand.Reader)
}

// proofSigner returns the configured proof signer, falling back to the signer key.
func proofSigner(cfg *config.Config) (ledger.Address, error) {
	if cfg.Protocol.ProofSigner != "" {
		return ledger.ParseAddress(cfg.Protocol.ProofSigner)
	}
	key, err := loadSignerKey(cfg)
	if err != nil {
		return ledger.Address{}, err
	}
	return key.Address(), nil
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}
