// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package deployment

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/tokenstake/test/datagen"
)

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "deployment.json")
	r := &Record{
		RewardToken:              datagen.RandAddress(),
		StakingToken:             datagen.RandAddress(),
		TokenStakeProxy:          datagen.RandAddress(),
		TokenStakeImplementation: datagen.RandAddress(),
	}
	require.NoError(t, Save(path, r))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, r, loaded)

	// keys are kept as deploy tooling expects them
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]string
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Len(t, doc, 4)
	assert.Equal(t, r.TokenStakeProxy.String(), doc["tokenStakeProxy"])
	assert.Equal(t, r.TokenStakeImplementation.String(), doc["tokenStakeImplementation"])
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
	_, err = Load(bad)
	assert.Error(t, err)

	partial := filepath.Join(dir, "partial.json")
	require.NoError(t, os.WriteFile(partial, []byte(`{"rewardToken":"`+datagen.RandAddress().String()+`"}`), 0o600))
	_, err = Load(partial)
	assert.EqualError(t, err, "deployment: missing stakingToken")
}
