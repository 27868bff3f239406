// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/tokenstake/deployment"
	"github.com/vechain/tokenstake/log"
)

var (
	version   string
	gitCommit string
	gitTag    string
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func newApp() *cli.App {
	common := []cli.Flag{
		dataDirFlag,
		configFlag,
		deploymentFlag,
		deployerFlag,
		verbosityFlag,
		jsonLogsFlag,
		metricsAddrFlag,
	}
	app := cli.App{
		Version:   fullVersion(),
		Name:      "tokenstake",
		Usage:     "Deploy and upgrade the upgradeable token staking ledger on a solo node",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Commands: []cli.Command{
			{
				Name:   "deploy",
				Usage:  "deploy tokens, ledger and proxy, then fund the reward treasury",
				Flags:  common,
				Action: deployAction,
			},
			{
				Name:   "upgrade",
				Usage:  "upgrade the recorded proxy to the V2 ledger and set staking caps",
				Flags:  common,
				Action: upgradeAction,
			},
			{
				Name:   "inspect",
				Usage:  "print the ledger state read through the recorded proxy",
				Flags:  common,
				Action: inspectAction,
			},
		},
	}
	return &app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func deployAction(ctx *cli.Context) error {
	env, err := setup(ctx)
	if err != nil {
		return err
	}
	defer env.close()

	rec, err := deploy(env.node, env.deployer, &env.config)
	if err != nil {
		return err
	}
	path := ctx.String(deploymentFlag.Name)
	if err := deployment.Save(path, rec); err != nil {
		return err
	}
	log.Info("deployment info saved", "path", path)
	return nil
}

func upgradeAction(ctx *cli.Context) error {
	env, err := setup(ctx)
	if err != nil {
		return err
	}
	defer env.close()

	path := ctx.String(deploymentFlag.Name)
	rec, err := deployment.Load(path)
	if err != nil {
		return errors.WithMessage(err, "failed to load deployment info, run deploy first")
	}
	log.Info("loaded addresses", "proxy", rec.TokenStakeProxy, "rewardToken", rec.RewardToken, "stakingToken", rec.StakingToken)

	if err := upgrade(env.node, env.deployer, &env.config, rec); err != nil {
		return err
	}
	if err := deployment.Save(path, rec); err != nil {
		return err
	}
	log.Info("upgrade complete, deployment info updated", "path", path)
	return nil
}

func inspectAction(ctx *cli.Context) error {
	env, err := setup(ctx)
	if err != nil {
		return err
	}
	defer env.close()

	rec, err := deployment.Load(ctx.String(deploymentFlag.Name))
	if err != nil {
		return err
	}
	return inspect(env.node, rec, os.Stdout)
}
