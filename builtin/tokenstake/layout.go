// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tokenstake

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/vechain/tokenstake/thor"
)

// Field is a named, typed storage variable.
type Field struct {
	Name string
	Type string
}

// Layout is an ordered storage schema. The i-th field occupies ordinal slot i.
type Layout struct {
	Version uint64
	Fields  []Field
}

// LayoutV1 is the storage schema of the first ledger version.
var LayoutV1 = Layout{
	Version: 1,
	Fields: []Field{
		{"initialized", "bool"},
		{"trustee", "address"},
		{"contractURI", "string"},
		{"reserved", "address[]"},
		{"rewardToken", "address"},
		{"stakingToken", "address"},
		{"rewardRatioBasisPoints", "uint256"},
		{"lockPeriodDays", "uint256"},
		{"feeBasisPoints", "uint256"},
		{"rewardTreasuryBalance", "uint256"},
		{"totalStaked", "uint256"},
		{"stakerBalances", "mapping(address => StakerBalance)"},
	},
}

// LayoutV2 appends the staking volume caps.
var LayoutV2 = LayoutV1.Extend(2,
	Field{"maxStakingVolume", "uint256"},
	Field{"maxIndividualStakingVolume", "uint256"},
)

// Extend returns a new layout of the given version with fields appended.
func (l Layout) Extend(version uint64, fields ...Field) Layout {
	all := make([]Field, 0, len(l.Fields)+len(fields))
	all = append(all, l.Fields...)
	return Layout{
		Version: version,
		Fields:  append(all, fields...),
	}
}

// Has returns whether the layout declares the named field.
func (l Layout) Has(name string) bool {
	_, ok := l.index(name)
	return ok
}

func (l Layout) index(name string) (int, bool) {
	for i, f := range l.Fields {
		if f.Name == name {
			return i, true
		}
	}
	return 0, false
}

// Slot returns the storage slot of the named field.
// It panics if the field is not declared.
func (l Layout) Slot(name string) thor.Bytes32 {
	i, ok := l.index(name)
	if !ok {
		panic(fmt.Sprintf("layout v%d: no field %q", l.Version, name))
	}
	return thor.BytesToBytes32([]byte{byte(i)})
}

// CheckCompatible verifies that next can interpret storage written under prev:
// every field of prev must keep its name, type and slot, and new fields may only be appended.
func CheckCompatible(prev, next Layout) error {
	if next.Version <= prev.Version {
		return errors.Errorf("version not increased: v%d -> v%d", prev.Version, next.Version)
	}
	if len(next.Fields) < len(prev.Fields) {
		return errors.Errorf("v%d drops %d field(s) of v%d", next.Version, len(prev.Fields)-len(next.Fields), prev.Version)
	}
	for i, f := range prev.Fields {
		if next.Fields[i] != f {
			return errors.Errorf("slot %d changed: %s %s -> %s %s", i, f.Type, f.Name, next.Fields[i].Type, next.Fields[i].Name)
		}
	}
	seen := make(map[string]bool, len(next.Fields))
	for _, f := range next.Fields {
		if seen[f.Name] {
			return errors.Errorf("duplicated field %s", f.Name)
		}
		seen[f.Name] = true
	}
	return nil
}
