// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/fctrlabs/fstake/log"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Version = fullVersion()
	app.Name = "fstake"
	app.Usage = "Fixed rate staking node"
	app.Commands = []cli.Command{
		{
			Name:   "keygen",
			Usage:  "generate an Ed25519 key file and print its address",
			Flags:  []cli.Flag{keyOutFlag},
			Action: keygenAction,
		},
		{
			Name:   "init",
			Usage:  "create the mints and initialize the protocol",
			Flags:  append([]cli.Flag{roundTimeFlag, rewardRateFlag, proofSignerFlag}, commonFlags...),
			Action: initAction,
		},
		{
			Name:   "start-round",
			Usage:  "open the next round of the schedule as the owner",
			Flags:  append([]cli.Flag{finalRoundFlag}, commonFlags...),
			Action: startRoundAction,
		},
		{
			Name:  "serve",
			Usage: "serve the HTTP API",
			Flags: append([]cli.Flag{
				apiAddrFlag,
				apiCorsFlag,
				enableAPILogsFlag,
				apiSlowQueriesThresholdFlag,
				apiLog5xxErrorsFlag,
				apiEventsLimitFlag,
				enableMetricsFlag,
				metricsAddrFlag,
				enableAdminFlag,
				adminAddrFlag,
				ntpServerFlag,
				ntpIntervalFlag,
			}, commonFlags...),
			Action: serveAction,
		},
		{
			Name:      "inspect",
			Usage:     "dump a record",
			ArgsUsage: "protocol | staker <address> | balance <address>",
			Flags:     commonFlags,
			Action:    inspectAction,
		},
		{
			Name:      "proof",
			Usage:     "sign the registration proof of a staker with the signer key",
			ArgsUsage: "<staker address>",
			Flags:     commonFlags,
			Action:    proofAction,
		},
		{
			Name:   "export",
			Usage:  "write every recorded event as JSON lines",
			Flags:  append([]cli.Flag{exportOutFlag}, commonFlags...),
			Action: exportAction,
		},
		{
			Name:      "airdrop",
			Usage:     "credit native units to an address (requires --allow-airdrop)",
			ArgsUsage: "<address> <amount>",
			Flags:     commonFlags,
			Action:    airdropAction,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
