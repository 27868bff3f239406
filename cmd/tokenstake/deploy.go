// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"io"
	"math/big"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"

	"github.com/vechain/tokenstake/builtin"
	"github.com/vechain/tokenstake/deployment"
	"github.com/vechain/tokenstake/log"
	"github.com/vechain/tokenstake/solo"
	"github.com/vechain/tokenstake/solo/bind"
	"github.com/vechain/tokenstake/thor"
)

// deploy creates both tokens, the ledger implementation and the proxy, then
// initializes the ledger through the proxy and funds its reward treasury.
func deploy(node *solo.Node, deployer thor.Address, cfg *Config) (*deployment.Record, error) {
	log.Info("deploying contracts", "account", deployer)

	reserved, err := cfg.reservedAddresses()
	if err != nil {
		return nil, err
	}
	supply := cfg.units(cfg.InitialSupply)

	rewardToken, err := node.Deploy(deployer, builtin.ValueToken.Program,
		cfg.RewardToken.Name, cfg.RewardToken.Symbol, cfg.Decimals, supply)
	if err != nil {
		return nil, errors.WithMessage(err, "reward token")
	}
	stakingToken, err := node.Deploy(deployer, builtin.ValueToken.Program,
		cfg.StakingToken.Name, cfg.StakingToken.Symbol, cfg.Decimals, supply)
	if err != nil {
		return nil, errors.WithMessage(err, "staking token")
	}
	log.Info("tokens deployed", "rewardToken", rewardToken, "stakingToken", stakingToken)

	impl, err := node.Deploy(deployer, builtin.TokenStake.Program)
	if err != nil {
		return nil, errors.WithMessage(err, "ledger implementation")
	}
	proxyAddr, err := node.Deploy(deployer, builtin.Proxy.Program)
	if err != nil {
		return nil, errors.WithMessage(err, "proxy")
	}

	proxy := bind.New(node, proxyAddr, builtin.Proxy.ABI)
	if _, err := proxy.Send(deployer, "initialize", impl); err != nil {
		return nil, errors.WithMessage(err, "initialize proxy")
	}

	ledger := proxy.Attach(builtin.TokenStake.ABI)
	if _, err := ledger.Send(deployer, "initialize",
		deployer,
		cfg.ContractURI,
		reserved,
		rewardToken,
		stakingToken,
		big.NewInt(cfg.RewardRatio),
		big.NewInt(cfg.LockPeriod),
		big.NewInt(cfg.Fee),
	); err != nil {
		return nil, errors.WithMessage(err, "initialize ledger")
	}

	deposit := cfg.units(cfg.Deposit)
	reward := bind.New(node, rewardToken, builtin.ValueToken.ABI)
	if _, err := reward.Send(deployer, "approve", proxyAddr, deposit); err != nil {
		return nil, errors.WithMessage(err, "approve deposit")
	}
	if _, err := ledger.Send(deployer, "depositRewardTokens", deposit); err != nil {
		return nil, errors.WithMessage(err, "deposit reward tokens")
	}

	var balance *big.Int
	if err := ledger.Call("getRewardTokenBalance", &balance); err != nil {
		return nil, err
	}
	log.Info("reward token balance in contract", "balance", formatUnits(balance, cfg.Decimals))

	return &deployment.Record{
		RewardToken:              rewardToken,
		StakingToken:             stakingToken,
		TokenStakeProxy:          proxyAddr,
		TokenStakeImplementation: impl,
	}, nil
}

// upgrade points the recorded proxy at a new V2 implementation, sets the
// staking caps and updates the record.
func upgrade(node *solo.Node, deployer thor.Address, cfg *Config, rec *deployment.Record) error {
	log.Info("upgrading contracts", "account", deployer, "proxy", rec.TokenStakeProxy)

	implV2, err := node.Deploy(deployer, builtin.TokenStakeV2.Program)
	if err != nil {
		return errors.WithMessage(err, "ledger v2 implementation")
	}

	proxy := bind.New(node, rec.TokenStakeProxy, builtin.Proxy.ABI)
	if _, err := proxy.Send(deployer, "upgradeTo", implV2); err != nil {
		return errors.WithMessage(err, "upgrade proxy")
	}
	log.Info("proxy upgraded", "implementation", implV2)

	ledger := proxy.Attach(builtin.TokenStakeV2.ABI)
	if _, err := ledger.Send(deployer, "setMaxStakingVolume", cfg.units(cfg.MaxStakingVolume)); err != nil {
		return errors.WithMessage(err, "set max staking volume")
	}
	if _, err := ledger.Send(deployer, "setMaxIndividualStakingVolume", cfg.units(cfg.MaxIndividualStakingVolume)); err != nil {
		return errors.WithMessage(err, "set max individual staking volume")
	}

	var marker string
	if err := ledger.Call("testUpgradeFunction", &marker); err != nil {
		return errors.WithMessage(err, "verify upgrade")
	}
	log.Info("upgrade function result", "result", marker)

	var balance *big.Int
	if err := ledger.Call("getRewardTokenBalance", &balance); err != nil {
		return err
	}
	log.Info("reward token balance in contract", "balance", formatUnits(balance, cfg.Decimals))

	rec.TokenStakeImplementation = implV2
	return nil
}

// inspect writes the ledger state read through the proxy.
func inspect(node *solo.Node, rec *deployment.Record, w io.Writer) error {
	proxy := bind.New(node, rec.TokenStakeProxy, builtin.Proxy.ABI)
	ledger := proxy.Attach(builtin.TokenStakeV2.ABI)
	token := bind.New(node, rec.RewardToken, builtin.ValueToken.ABI)

	var decimals uint8
	if err := token.Call("decimals", &decimals); err != nil {
		return errors.WithMessage(err, "reward token decimals")
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	row := func(name string, v any) {
		fmt.Fprintf(tw, "%s\t%v\n", name, v)
	}

	var (
		impl, admin, trustee thor.Address
		version              *big.Int
	)
	for _, get := range []struct {
		c    *bind.Contract
		name string
		out  any
	}{
		{proxy, "implementation", &impl},
		{proxy, "admin", &admin},
		{ledger, "version", &version},
		{ledger, "trustee", &trustee},
	} {
		if err := get.c.Call(get.name, get.out); err != nil {
			return errors.WithMessage(err, get.name)
		}
	}
	row("proxy", rec.TokenStakeProxy)
	row("implementation", impl)
	row("admin", admin)
	row("version", version)
	row("trustee", trustee)

	for _, name := range []string{"rewardRatio", "lockPeriod", "fee"} {
		var v *big.Int
		if err := ledger.Call(name, &v); err != nil {
			return errors.WithMessage(err, name)
		}
		row(name, v)
	}

	amounts := []string{"totalStaked", "getRewardTokenBalance"}
	if version.Cmp(big.NewInt(2)) >= 0 {
		amounts = append(amounts, "maxStakingVolume", "maxIndividualStakingVolume")
	}
	for _, name := range amounts {
		var v *big.Int
		if err := ledger.Call(name, &v); err != nil {
			return errors.WithMessage(err, name)
		}
		row(name, formatUnits(v, decimals))
	}
	return tw.Flush()
}

// formatUnits renders base units as a decimal token amount.
func formatUnits(v *big.Int, decimals uint8) string {
	s := new(big.Rat).SetFrac(v, unit(decimals)).FloatString(int(decimals))
	if strings.Contains(s, ".") {
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}
	return s
}
