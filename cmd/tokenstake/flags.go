// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var (
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for the node database",
	}
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "YAML file with token and ledger parameters, built-in defaults apply when omitted",
	}
	deploymentFlag = cli.StringFlag{
		Name:  "deployment",
		Value: "deployment-info.json",
		Usage: "path of the deployment record",
	}
	deployerFlag = cli.StringFlag{
		Name:  "deployer",
		Value: defaultDeployer.String(),
		Usage: "address sending the deployment transactions",
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
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Usage: "metrics service listening address, disabled when empty",
	}
)
