// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/fctrlabs/fstake/api"
	"github.com/fctrlabs/fstake/api/admin"
	"github.com/fctrlabs/fstake/api/events"
	"github.com/fctrlabs/fstake/builtin"
	"github.com/fctrlabs/fstake/builtin/staking/pricing"
	"github.com/fctrlabs/fstake/clock"
	"github.com/fctrlabs/fstake/config"
	"github.com/fctrlabs/fstake/eventdb"
	"github.com/fctrlabs/fstake/health"
	"github.com/fctrlabs/fstake/ledger"
	"github.com/fctrlabs/fstake/metrics"
	"github.com/fctrlabs/fstake/processor"
	"github.com/fctrlabs/fstake/proof"
)

func keygenAction(ctx *cli.Context) error {
	path := ctx.String(keyOutFlag.Name)
	if path == "" {
		return errors.New("missing --out")
	}
	key, err := proof.GenerateKey(rand.Reader)
	if err != nil {
		return err
	}
	if err := proof.SaveKey(path, key); err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, key.Address())
	return nil
}

// node is an opened processor with its stores.
type node struct {
	cfg      *config.Config
	logLevel *slog.LevelVar
	stores   *stores
	clock    clock.Clock
	proc     *processor.Processor
}

func openNode(ctx *cli.Context, clk clock.Clock) (*node, error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	logLevel := initLogger(cfg)

	st, err := openStores(cfg)
	if err != nil {
		return nil, err
	}
	return &node{
		cfg:      cfg,
		logLevel: logLevel,
		stores:   st,
		clock:    clk,
		proc:     processor.New(st.stater, proof.Ed25519{}, clk, st.events, processor.Options{AllowAirdrop: cfg.Protocol.AllowAirdrop}),
	}, nil
}

func (n *node) Close() {
	n.proc.Close()
	n.stores.Close()
}

func (n *node) initialized() bool {
	_, err := n.proc.View().Staking.Protocol()
	return err == nil
}

func initAction(ctx *cli.Context) error {
	n, err := openNode(ctx, clock.NewSystem())
	if err != nil {
		return err
	}
	defer n.Close()

	owner, err := loadOwnerKey(n.cfg)
	if err != nil {
		return errors.Wrap(err, "load owner key")
	}
	signer, err := proofSigner(n.cfg)
	if err != nil {
		return errors.Wrap(err, "proof signer")
	}
	if _, err := n.proc.Execute(context.Background(), &processor.Transition{
		Op:            processor.OpInitialize,
		Caller:        owner.Address(),
		RoundTime:     n.cfg.Protocol.RoundTime,
		ProofSigner:   signer,
		RewardRateBps: n.cfg.Protocol.RewardRateBps,
	}); err != nil {
		return err
	}

	fmt.Fprintf(ctx.App.Writer, "program:     %v\n", builtin.Staking.Address)
	fmt.Fprintf(ctx.App.Writer, "owner:       %v\n", owner.Address())
	fmt.Fprintf(ctx.App.Writer, "proofSigner: %v\n", signer)
	return nil
}

func startRoundAction(ctx *cli.Context) error {
	n, err := openNode(ctx, clock.NewSystem())
	if err != nil {
		return err
	}
	defer n.Close()

	owner, err := loadOwnerKey(n.cfg)
	if err != nil {
		return errors.Wrap(err, "load owner key")
	}
	r, err := n.proc.Execute(context.Background(), &processor.Transition{
		Op:     processor.OpStartRound,
		Caller: owner.Address(),
		Final:  ctx.Bool(finalRoundFlag.Name),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.App.Writer, "round:    %v\n", r.Round.Index)
	fmt.Fprintf(ctx.App.Writer, "deadline: %v\n", time.Unix(int64(r.Round.Deadline), 0).UTC().Format(time.RFC3339)) // #nosec G115
	fmt.Fprintf(ctx.App.Writer, "final:    %v\n", r.Round.IsFinal)
	return nil
}

func serveAction(ctx *cli.Context) error {
	clk := clock.NewSystem()
	n, err := openNode(ctx, clk)
	if err != nil {
		return err
	}
	defer n.Close()
	cfg := n.cfg

	exitSignal := handleExitSignal()

	var maxSyncAge time.Duration
	if cfg.Clock.NTPServer != "" {
		maxSyncAge = 3 * ctx.Duration(ntpIntervalFlag.Name)
	}
	nodeHealth := health.New(n.initialized, maxSyncAge)

	if cfg.Clock.NTPServer != "" {
		syncClockOnce(clk, cfg.Clock, nodeHealth)
		go syncClock(exitSignal, clk, cfg.Clock, nodeHealth, ctx.Duration(ntpIntervalFlag.Name))
	}

	if cfg.Metrics.Enabled {
		metrics.Enable()
		srv, err := startMetricsServer(cfg.Metrics.Addr)
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping metrics server..."); srv.Shutdown(context.Background()) }()
		logger.Info("metrics server started", "url", srv.url)
	}

	go pruneRequests(exitSignal, n.proc, clk, time.Minute)

	var reqLogger atomic.Bool
	reqLogger.Store(cfg.API.EnableReqLogger)

	if cfg.Admin.Enabled {
		srv, err := startAdminServer(cfg.Admin.Addr, admin.New(n.logLevel, &reqLogger, nodeHealth))
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping admin server..."); srv.Shutdown(context.Background()) }()
		logger.Info("admin server started", "url", srv.url)
	}

	handler, closeSubs := api.New(n.proc, n.stores.events, proof.Ed25519{}, clk, api.Options{
		AllowedOrigins:     cfg.API.CORS,
		EnableReqLogger:    &reqLogger,
		SlowQueryThreshold: cfg.API.SlowQueryThreshold,
		Log5xxErrors:       ctx.Bool(apiLog5xxErrorsFlag.Name),
		EnableMetrics:      cfg.Metrics.Enabled,
		EventsLimit:        cfg.API.EventsLimit,
	})
	defer closeSubs()

	srv, err := startAPIServer(cfg.API.Addr, handler)
	if err != nil {
		return err
	}
	logger.Info("API server started", "url", srv.url, "program", builtin.Staking.Address)

	<-exitSignal.Done()
	logger.Info("stopping API server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func syncClockOnce(clk *clock.System, cfg config.ClockConfig, h *health.Health) {
	if err := clk.Sync(cfg.NTPServer, cfg.Tolerance); err != nil {
		logger.Warn("clock sync failed", "server", cfg.NTPServer, "err", err)
		h.ClockSyncFailed(err)
		return
	}
	h.ClockSynced(clk.Offset())
}

func syncClock(ctx context.Context, clk *clock.System, cfg config.ClockConfig, h *health.Health, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			syncClockOnce(clk, cfg, h)
		}
	}
}

// pruneRequests periodically forgets the ids of expired signed requests.
func pruneRequests(ctx context.Context, proc *processor.Processor, clk clock.Clock, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := proc.PruneRequests(clk.Now()); err != nil {
				logger.Debug("failed to prune request marks", "err", err)
			}
		}
	}
}

func addressArg(ctx *cli.Context, i int) (ledger.Address, error) {
	arg := ctx.Args().Get(i)
	if arg == "" {
		return ledger.Address{}, errors.Errorf("missing argument %d, usage: %v", i+1, ctx.Command.ArgsUsage)
	}
	return ledger.ParseAddress(arg)
}

func inspectAction(ctx *cli.Context) error {
	n, err := openNode(ctx, clock.NewSystem())
	if err != nil {
		return err
	}
	defer n.Close()

	var record any
	switch what := ctx.Args().First(); what {
	case "protocol":
		err = n.proc.Read(func(v *processor.View) (err error) {
			record, err = v.Staking.Protocol()
			return
		})
	case "staker":
		addr, aerr := addressArg(ctx, 1)
		if aerr != nil {
			return aerr
		}
		err = n.proc.Read(func(v *processor.View) (err error) {
			record, err = v.Staking.Staker(addr)
			return
		})
	case "balance":
		addr, aerr := addressArg(ctx, 1)
		if aerr != nil {
			return aerr
		}
		record, err = balanceOf(n.proc, addr)
	default:
		return errors.Errorf("unknown record %q, usage: %v", what, ctx.Command.ArgsUsage)
	}
	if err != nil {
		return err
	}
	spew.Fdump(ctx.App.Writer, record)
	return nil
}

type balance struct {
	Native    *uint256.Int
	Primary   *uint256.Int
	Secondary *uint256.Int
}

func balanceOf(proc *processor.Processor, addr ledger.Address) (*balance, error) {
	b := &balance{}
	err := proc.Read(func(view *processor.View) (err error) {
		if b.Native, err = view.State.GetBalance(addr); err != nil {
			return err
		}
		if b.Primary, err = view.Staking.TokenBalance(pricing.Primary, addr); err != nil {
			return err
		}
		b.Secondary, err = view.Staking.TokenBalance(pricing.Secondary, addr)
		return err
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func proofAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	staker, err := addressArg(ctx, 0)
	if err != nil {
		return err
	}
	signer, err := loadSignerKey(cfg)
	if err != nil {
		return errors.Wrap(err, "load signer key")
	}
	fmt.Fprintln(ctx.App.Writer, hexutil.Encode(signer.SignRegistration(builtin.Staking.Address, staker)))
	return nil
}

func airdropAction(ctx *cli.Context) error {
	n, err := openNode(ctx, clock.NewSystem())
	if err != nil {
		return err
	}
	defer n.Close()

	addr, err := addressArg(ctx, 0)
	if err != nil {
		return err
	}
	amount, err := uint256.FromDecimal(ctx.Args().Get(1))
	if err != nil {
		return errors.WithMessage(err, "amount")
	}
	if _, err := n.proc.Execute(context.Background(), &processor.Transition{
		Op:     processor.OpAirdrop,
		Caller: addr,
		Amount: amount,
	}); err != nil {
		return err
	}
	bal, err := n.proc.Balance(addr)
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "%v: %v\n", addr, bal.Dec())
	return nil
}

func exportAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	initLogger(cfg)
	dataDir, err := makeDataDir(cfg)
	if err != nil {
		return err
	}
	db, err := openEventDB(dataDir)
	if err != nil {
		return err
	}
	defer db.Close()

	out := ctx.App.Writer
	if path := ctx.String(exportOutFlag.Name); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return errors.Wrap(err, "create export file")
		}
		defer f.Close()
		out = f
	}
	return exportEvents(context.Background(), db, out, ctx.App.ErrWriter)
}

// exportEvents writes every recorded event as a JSON line, oldest first.
func exportEvents(ctx context.Context, db *eventdb.EventDB, out io.Writer, progress io.Writer) error {
	const pageSize = 1000

	total, err := db.Count(ctx)
	if err != nil {
		return err
	}
	bar := pb.New64(int64(total)).
		Set64(0).
		SetMaxWidth(90)
	if progress == nil {
		progress = os.Stderr
	}
	bar.Output = progress
	bar.Start()
	defer func() { bar.NotPrint = true }()

	enc := json.NewEncoder(out)
	for offset := uint64(0); ; offset += pageSize {
		page, err := db.Filter(ctx, &eventdb.Filter{
			Order:   eventdb.ASC,
			Options: &eventdb.Options{Offset: offset, Limit: pageSize},
		})
		if err != nil {
			return err
		}
		for _, ev := range page {
			if err := enc.Encode(events.ConvertEvent(ev)); err != nil {
				return err
			}
		}
		bar.Add64(int64(len(page)))
		if len(page) < pageSize {
			break
		}
	}
	bar.Finish()
	return nil
}
