// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"time"

	cli "gopkg.in/urfave/cli.v1"
)

var (
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "path to the YAML configuration file",
	}
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Usage: "directory for state and event databases",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-5)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}
	cacheFlag = cli.IntFlag{
		Name:  "cache",
		Usage: "number of state records cached in memory",
	}
	dbCacheFlag = cli.IntFlag{
		Name:  "db-cache",
		Usage: "megabytes of ram allocated to the state database read cache",
	}

	// protocol
	roundTimeFlag = cli.Uint64Flag{
		Name:  "round-time",
		Usage: "seconds a stake stays locked",
	}
	rewardRateFlag = cli.Uint64Flag{
		Name:  "reward-rate-bps",
		Usage: "yearly staking reward rate in basis points",
	}
	proofSignerFlag = cli.StringFlag{
		Name:  "proof-signer",
		Usage: "address whose signature admits stakers, defaults to the signer key",
	}
	finalRoundFlag = cli.BoolFlag{
		Name:  "final",
		Usage: "mark the round as the last of the schedule",
	}
	allowAirdropFlag = cli.BoolFlag{
		Name:  "allow-airdrop",
		Usage: "allow crediting native units out of thin air (development only)",
	}

	// api
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:  "enable-api-logs",
		Usage: "enables API requests logging",
	}
	apiSlowQueriesThresholdFlag = cli.DurationFlag{
		Name:  "api-slow-queries-threshold",
		Value: 0,
		Usage: "log requests slower than the threshold, zero disables",
	}
	apiLog5xxErrorsFlag = cli.BoolFlag{
		Name:  "api-log-5xx-errors",
		Usage: "log requests answered with a 5xx status",
	}
	apiEventsLimitFlag = cli.Uint64Flag{
		Name:  "api-events-limit",
		Usage: "limit the number of events returned by /events API",
	}

	// metrics
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Usage: "metrics service listening address",
	}
	enableAdminFlag = cli.BoolFlag{
		Name:  "enable-admin",
		Usage: "enables admin server",
	}
	adminAddrFlag = cli.StringFlag{
		Name:  "admin-addr",
		Usage: "admin service listening address",
	}

	// clock
	ntpServerFlag = cli.StringFlag{
		Name:  "ntp-server",
		Usage: "NTP server used to correct the local clock, empty disables",
	}
	ntpIntervalFlag = cli.DurationFlag{
		Name:  "ntp-interval",
		Value: 10 * time.Minute,
		Usage: "interval between clock corrections",
	}

	// keys
	keyOutFlag = cli.StringFlag{
		Name:  "out",
		Usage: "path of the key file to write",
	}
	exportOutFlag = cli.StringFlag{
		Name:  "out",
		Usage: "path of the JSON lines file to write, stdout when empty",
	}
)

// commonFlags are accepted by every command that reads the configuration.
var commonFlags = []cli.Flag{
	configFlag,
	dataDirFlag,
	cacheFlag,
	dbCacheFlag,
	verbosityFlag,
	jsonLogsFlag,
	allowAirdropFlag,
}
