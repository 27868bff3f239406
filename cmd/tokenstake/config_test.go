// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/tokenstake/thor"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, "1000000000000000000000", cfg.units(cfg.Deposit).String())
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
decimals: 6
rewardRatio: 120
reserved:
  - "0xf077b491b355e64048ce21e3a6fc4751eeea77fa"
stakingToken:
  name: Vote Token
  symbol: VT
`)
	cfg, err := loadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, uint8(6), cfg.Decimals)
	assert.Equal(t, int64(120), cfg.RewardRatio)
	assert.Equal(t, TokenConfig{Name: "Vote Token", Symbol: "VT"}, cfg.StakingToken)
	// untouched fields keep their defaults
	assert.Equal(t, int64(30), cfg.LockPeriod)
	assert.Equal(t, "RT", cfg.RewardToken.Symbol)
	assert.Equal(t, "1000000", cfg.units(1).String())

	reserved, err := cfg.reservedAddresses()
	require.NoError(t, err)
	assert.Equal(t, []thor.Address{defaultDeployer}, reserved)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"unknown field", "rewardRatoi: 1\n", "field rewardRatoi not found"},
		{"fee out of range", "fee: 10001\n", "fee 10001 out of range"},
		{"zero lock", "lockPeriod: 0\n", "lockPeriod must be positive"},
		{"lock too long", "lockPeriod: 36501\n", "lockPeriod 36501 exceeds 36500 days"},
		{"deposit over supply", "initialSupply: 10\ndeposit: 11\n", "deposit 11 exceeds initialSupply 10"},
		{"bad reserved", "reserved: [\"0x01\"]\n", "reserved address"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config")
}

func TestFormatUnits(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "1000", formatUnits(cfg.units(1000), 18))
	assert.Equal(t, "0.5", formatUnits(new(big.Int).Mul(big.NewInt(5), unit(17)), 18))
	assert.Equal(t, "1.000001", formatUnits(big.NewInt(1_000_001), 6))
	assert.Equal(t, "42", formatUnits(big.NewInt(42), 0))
	assert.Equal(t, "0", formatUnits(new(big.Int), 18))
}
