// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"log/slog"
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
)

func TestPrettyNumbers(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{99999, "99999"},
		{100000, "100,000"},
		{-1000000, "-1,000,000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, string(appendInt64(nil, tt.n)))
	}

	big, _ := new(big.Int).SetString("1000000000000000000000000", 10)
	assert.Equal(t, "1,000,000,000,000,000,000,000,000", string(appendBigInt(nil, big)))
	assert.Equal(t, "1,000,000", string(appendU256(nil, uint256.NewInt(1000000))))
}

func TestTerminalHandler(t *testing.T) {
	var out bytes.Buffer
	l := NewLogger(NewTerminalHandler(&out, false))
	l.Info("staked", "amount", big.NewInt(1000), "who", "alice bob")

	line := out.String()
	assert.Contains(t, line, "INFO ")
	assert.Contains(t, line, "staked")
	assert.Contains(t, line, "amount=1000")
	assert.Contains(t, line, `who="alice bob"`)
}

func TestLevelFilter(t *testing.T) {
	var out bytes.Buffer
	var lvl slog.LevelVar
	lvl.Set(LevelWarn)
	l := NewLogger(NewTerminalHandlerWithLevel(&out, &lvl, false))

	l.Info("hidden")
	assert.Empty(t, out.String())
	l.Warn("shown")
	assert.Contains(t, out.String(), "shown")
}

func TestWithContextFollowsRoot(t *testing.T) {
	defer SetDefault(NewLogger(DiscardHandler()))

	logger := WithContext("pkg", "test")

	var out bytes.Buffer
	SetDefault(NewLogger(JSONHandler(&out)))
	logger.Info("hello")

	assert.Contains(t, out.String(), `"pkg":"test"`)
	assert.Contains(t, out.String(), `"msg":"hello"`)
	assert.Contains(t, out.String(), `"lvl":"info"`)
}

func TestFromLegacyLevel(t *testing.T) {
	assert.Equal(t, LevelCrit, FromLegacyLevel(0))
	assert.Equal(t, LevelInfo, FromLegacyLevel(3))
	assert.Equal(t, LevelTrace, FromLegacyLevel(9))
}
