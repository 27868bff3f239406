// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"io"
	"log/slog"
	"os"
	"os/user"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/tokenstake/log"
	"github.com/vechain/tokenstake/lvldb"
	"github.com/vechain/tokenstake/metrics"
	"github.com/vechain/tokenstake/solo"
	"github.com/vechain/tokenstake/thor"
)

// defaultDeployer is the first account of the thor dev network.
var defaultDeployer = thor.MustParseAddress("0xf077b491b355e64048ce21e3a6fc4751eeea77fa")

func initLogger(ctx *cli.Context) {
	level := log.FromLegacyLevel(ctx.Int(verbosityFlag.Name))
	log.SetDefault(log.NewLogger(newLogHandler(os.Stderr, level, ctx.Bool(jsonLogsFlag.Name))))
}

func newLogHandler(w io.Writer, level slog.Level, jsonLogs bool) slog.Handler {
	lvl := new(slog.LevelVar)
	lvl.Set(level)
	if jsonLogs {
		return log.JSONHandlerWithLevel(w, lvl)
	}
	useColor := false
	if f, ok := w.(*os.File); ok {
		useColor = (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) && os.Getenv("TERM") != "dumb"
	}
	return log.NewTerminalHandlerWithLevel(w, lvl, useColor)
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		return filepath.Join(home, ".tokenstake")
	}
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

type environment struct {
	config   Config
	deployer thor.Address
	db       *lvldb.LevelDB
	node     *solo.Node
	closers  []func()
}

func (e *environment) close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
}

// setup prepares logging, metrics and the solo node shared by all commands.
func setup(ctx *cli.Context) (*environment, error) {
	initLogger(ctx)

	env := &environment{}
	var err error
	if env.config, err = loadConfig(ctx.String(configFlag.Name)); err != nil {
		return nil, err
	}
	if env.deployer, err = thor.ParseAddress(ctx.String(deployerFlag.Name)); err != nil {
		return nil, errors.WithMessage(err, "deployer")
	}

	if addr := ctx.String(metricsAddrFlag.Name); addr != "" {
		metrics.InitializePrometheusMetrics()
		url, stop, err := startMetricsServer(addr)
		if err != nil {
			return nil, err
		}
		env.closers = append(env.closers, stop)
		log.Info("metrics server started", "url", url)
	}

	dataDir := ctx.String(dataDirFlag.Name)
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		env.close()
		return nil, errors.Wrapf(err, "create data dir [%v]", dataDir)
	}
	if env.db, err = lvldb.New(filepath.Join(dataDir, "main.db"), lvldb.Options{
		CacheSize:              64,
		OpenFilesCacheCapacity: 64,
	}); err != nil {
		env.close()
		return nil, err
	}
	env.closers = append(env.closers, func() {
		log.Debug("closing main database...")
		env.db.Close()
	})

	if env.node, err = solo.New(env.db, solo.Options{}); err != nil {
		env.close()
		return nil, err
	}
	head := env.node.Head()
	log.Info("node ready", "dataDir", dataDir, "head", head.Number, "time", head.Time)
	return env, nil
}
