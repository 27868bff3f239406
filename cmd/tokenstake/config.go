// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"math/big"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/tokenstake/builtin/tokenstake"
	"github.com/vechain/tokenstake/thor"
)

// TokenConfig names a deployed value token.
type TokenConfig struct {
	Name   string `yaml:"name"`
	Symbol string `yaml:"symbol"`
}

// Config holds the deployment parameters. Token amounts are in whole tokens.
type Config struct {
	Decimals      uint8       `yaml:"decimals"`
	InitialSupply uint64      `yaml:"initialSupply"`
	RewardToken   TokenConfig `yaml:"rewardToken"`
	StakingToken  TokenConfig `yaml:"stakingToken"`

	ContractURI string   `yaml:"contractURI"`
	Reserved    []string `yaml:"reserved"`
	RewardRatio int64    `yaml:"rewardRatio"`
	LockPeriod  int64    `yaml:"lockPeriod"`
	Fee         int64    `yaml:"fee"`
	Deposit     uint64   `yaml:"deposit"`

	MaxStakingVolume           uint64 `yaml:"maxStakingVolume"`
	MaxIndividualStakingVolume uint64 `yaml:"maxIndividualStakingVolume"`
}

// DefaultConfig returns the parameters used when no config file is given.
func DefaultConfig() Config {
	return Config{
		Decimals:      18,
		InitialSupply: 1_000_000,
		RewardToken:   TokenConfig{Name: "Reward Token", Symbol: "RT"},
		StakingToken:  TokenConfig{Name: "Staking Token", Symbol: "ST"},
		ContractURI:   "contractURI",
		RewardRatio:   60,
		LockPeriod:    30,
		Fee:           50,
		Deposit:       1000,

		MaxStakingVolume:           2000,
		MaxIndividualStakingVolume: 100,
	}
}

// loadConfig reads path over the defaults. An empty path yields the defaults.
func loadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config")
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, errors.Wrapf(err, "decode config %s", path)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, errors.WithMessagef(err, "config %s", path)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if limit := tokenstake.BasisPoints.Int64(); c.Fee < 0 || c.Fee > limit {
		return errors.Errorf("fee %d out of range [0, %d]", c.Fee, limit)
	}
	if c.LockPeriod <= 0 {
		return errors.New("lockPeriod must be positive")
	}
	if limit := tokenstake.MaxLockPeriod.Int64(); c.LockPeriod > limit {
		return errors.Errorf("lockPeriod %d exceeds %d days", c.LockPeriod, limit)
	}
	if c.RewardRatio < 0 {
		return errors.New("rewardRatio must not be negative")
	}
	if c.Deposit > c.InitialSupply {
		return errors.Errorf("deposit %d exceeds initialSupply %d", c.Deposit, c.InitialSupply)
	}
	_, err := c.reservedAddresses()
	return err
}

// units converts whole tokens to base units.
func (c *Config) units(n uint64) *big.Int {
	return new(big.Int).Mul(new(big.Int).SetUint64(n), unit(c.Decimals))
}

func (c *Config) reservedAddresses() ([]thor.Address, error) {
	addrs := make([]thor.Address, 0, len(c.Reserved))
	for _, s := range c.Reserved {
		addr, err := thor.ParseAddress(s)
		if err != nil {
			return nil, errors.WithMessagef(err, "reserved address %q", s)
		}
		addrs = append(addrs, addr)
	}
	return addrs, nil
}

func unit(decimals uint8) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
}
