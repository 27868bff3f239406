// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/vechain/tokenstake/abi"
	"github.com/vechain/tokenstake/builtin/gascharger"
	"github.com/vechain/tokenstake/builtin/reverts"
	"github.com/vechain/tokenstake/builtin/tokenstake"
	"github.com/vechain/tokenstake/thor"
	"github.com/vechain/tokenstake/xenv"
)

// upgradeMarker is returned by the marker method that only exists from v2.
const upgradeMarker = "TokenStake V2: upgrade successful"

var (
	transferMethod     = mustMethod(ValueToken.ABI, "transfer")
	transferFromMethod = mustMethod(ValueToken.ABI, "transferFrom")
)

// envTokens moves value tokens by calling the token contracts from the current frame.
type envTokens struct {
	env *xenv.Environment
}

func (t *envTokens) call(token thor.Address, method *abi.Method, args ...any) error {
	output := t.env.CallContract(token, method, args...)
	var ok bool
	if err := method.DecodeOutput(output, &ok); err != nil {
		return reverts.ErrInvalidTarget.WithDetail("%v is not a value token", token)
	}
	if !ok {
		return errors.Errorf("%v: %s returned false", token, method.Name())
	}
	return nil
}

func (t *envTokens) TransferFrom(token, from, to thor.Address, amount *big.Int) error {
	return t.call(token, transferFromMethod, from, to, amount)
}

func (t *envTokens) Transfer(token, to thor.Address, amount *big.Int) error {
	return t.call(token, transferMethod, to, amount)
}

func (p *tokenStakeProgram) ledger(env *xenv.Environment) *tokenstake.Ledger {
	return p.Native(env.To(), env.State(), gascharger.New(env), &envTokens{env})
}

func initTokenStakeMethods(p *tokenStakeProgram) {
	p.setConstructor(func(env *xenv.Environment) []any {
		must(env, p.ledger(env).Construct(env.Caller()))
		return nil
	})

	amountArg := func(env *xenv.Environment) *big.Int {
		var args struct {
			Amount *big.Int
		}
		env.ParseArgs(&args)
		return args.Amount
	}
	stakerArg := func(env *xenv.Environment) thor.Address {
		var args struct {
			Staker common.Address
		}
		env.ParseArgs(&args)
		return thor.Address(args.Staker)
	}
	stakerTopic := func(env *xenv.Environment) []thor.Bytes32 {
		return []thor.Bytes32{addressTopic(env.Caller())}
	}

	defines := []struct {
		name string
		run  func(env *xenv.Environment) []any
	}{
		{"initialize", func(env *xenv.Environment) []any {
			var args struct {
				Trustee      common.Address
				ContractURI  string
				Reserved     []common.Address
				RewardToken  common.Address
				StakingToken common.Address
				RewardRatio  *big.Int
				LockPeriod   *big.Int
				Fee          *big.Int
			}
			env.ParseArgs(&args)

			reserved := make([]thor.Address, 0, len(args.Reserved))
			for _, r := range args.Reserved {
				reserved = append(reserved, thor.Address(r))
			}
			must(env, p.ledger(env).Initialize(&tokenstake.Params{
				Trustee:      thor.Address(args.Trustee),
				ContractURI:  args.ContractURI,
				Reserved:     reserved,
				RewardToken:  thor.Address(args.RewardToken),
				StakingToken: thor.Address(args.StakingToken),
				RewardRatio:  args.RewardRatio,
				LockPeriod:   args.LockPeriod,
				Fee:          args.Fee,
			}))
			emit(env, p.Program, "Initialized", []thor.Bytes32{addressTopic(thor.Address(args.Trustee))},
				thor.Address(args.RewardToken), thor.Address(args.StakingToken))
			return nil
		}},
		{"depositRewardTokens", func(env *xenv.Environment) []any {
			amount := amountArg(env)
			must(env, p.ledger(env).DepositRewardTokens(env.Caller(), amount))
			emit(env, p.Program, "RewardDeposited", stakerTopic(env), amount)
			return nil
		}},
		{"withdrawRewardTokens", func(env *xenv.Environment) []any {
			amount := amountArg(env)
			must(env, p.ledger(env).WithdrawRewardTokens(env.Caller(), amount))
			emit(env, p.Program, "RewardWithdrawn", stakerTopic(env), amount)
			return nil
		}},
		{"getRewardTokenBalance", func(env *xenv.Environment) []any {
			bal, err := p.ledger(env).RewardTokenBalance()
			must(env, err)
			return []any{bal}
		}},
		{"stake", func(env *xenv.Environment) []any {
			amount := amountArg(env)
			must(env, p.ledger(env).Stake(env.Caller(), amount, blockTime(env)))
			emit(env, p.Program, "Staked", stakerTopic(env), amount)
			return nil
		}},
		{"withdraw", func(env *xenv.Environment) []any {
			amount := amountArg(env)
			must(env, p.ledger(env).Withdraw(env.Caller(), amount, blockTime(env)))
			emit(env, p.Program, "Withdrawn", stakerTopic(env), amount)
			return nil
		}},
		{"emergencyWithdraw", func(env *xenv.Environment) []any {
			amount := amountArg(env)
			fee, err := p.ledger(env).EmergencyWithdraw(env.Caller(), amount, blockTime(env))
			must(env, err)
			emit(env, p.Program, "EmergencyWithdrawn", stakerTopic(env), amount, fee)
			return nil
		}},
		{"claimReward", func(env *xenv.Environment) []any {
			reward, err := p.ledger(env).ClaimReward(env.Caller(), blockTime(env))
			must(env, err)
			if reward.Sign() > 0 {
				emit(env, p.Program, "RewardClaimed", stakerTopic(env), reward)
			}
			return []any{reward}
		}},
		{"pendingReward", func(env *xenv.Environment) []any {
			reward, err := p.ledger(env).PendingReward(stakerArg(env), blockTime(env))
			must(env, err)
			return []any{reward}
		}},
		{"stakerInfo", func(env *xenv.Environment) []any {
			info, err := p.ledger(env).StakerInfo(stakerArg(env), blockTime(env))
			must(env, err)
			return []any{
				info.Amount,
				new(big.Int).SetUint64(info.DepositTime),
				info.Accrued,
				new(big.Int).SetUint64(info.UnlockTime),
			}
		}},
		{"totalStaked", func(env *xenv.Environment) []any {
			total, err := p.ledger(env).TotalStaked()
			must(env, err)
			return []any{total}
		}},
		{"initialized", func(env *xenv.Environment) []any {
			initialized, err := p.ledger(env).Initialized()
			must(env, err)
			return []any{initialized}
		}},
		{"trustee", func(env *xenv.Environment) []any {
			trustee, err := p.ledger(env).Trustee()
			must(env, err)
			return []any{trustee}
		}},
		{"contractURI", func(env *xenv.Environment) []any {
			uri, err := p.ledger(env).ContractURI()
			must(env, err)
			return []any{uri}
		}},
		{"reserved", func(env *xenv.Environment) []any {
			reserved, err := p.ledger(env).Reserved()
			must(env, err)
			if reserved == nil {
				reserved = []thor.Address{}
			}
			return []any{reserved}
		}},
		{"rewardToken", func(env *xenv.Environment) []any {
			token, err := p.ledger(env).RewardToken()
			must(env, err)
			return []any{token}
		}},
		{"stakingToken", func(env *xenv.Environment) []any {
			token, err := p.ledger(env).StakingToken()
			must(env, err)
			return []any{token}
		}},
		{"rewardRatio", func(env *xenv.Environment) []any {
			ratio, err := p.ledger(env).RewardRatio()
			must(env, err)
			return []any{ratio}
		}},
		{"lockPeriod", func(env *xenv.Environment) []any {
			days, err := p.ledger(env).LockPeriod()
			must(env, err)
			return []any{days}
		}},
		{"fee", func(env *xenv.Environment) []any {
			fee, err := p.ledger(env).Fee()
			must(env, err)
			return []any{fee}
		}},
		{"version", func(env *xenv.Environment) []any {
			return []any{new(big.Int).SetUint64(p.layout.Version)}
		}},
		{"setContractURI", func(env *xenv.Environment) []any {
			var args struct {
				URI string
			}
			env.ParseArgs(&args)
			must(env, p.ledger(env).SetContractURI(env.Caller(), args.URI))
			emit(env, p.Program, "ContractURIUpdated", nil, args.URI)
			return nil
		}},
	}
	for _, def := range defines {
		p.define(def.name, def.run)
	}
}

func initTokenStakeV2Methods() {
	p := TokenStakeV2

	defines := []struct {
		name string
		run  func(env *xenv.Environment) []any
	}{
		{"setMaxStakingVolume", func(env *xenv.Environment) []any {
			var args struct {
				Amount *big.Int
			}
			env.ParseArgs(&args)
			must(env, p.ledger(env).SetMaxStakingVolume(env.Caller(), args.Amount))
			emit(env, p.Program, "MaxStakingVolumeUpdated", nil, args.Amount)
			return nil
		}},
		{"setMaxIndividualStakingVolume", func(env *xenv.Environment) []any {
			var args struct {
				Amount *big.Int
			}
			env.ParseArgs(&args)
			must(env, p.ledger(env).SetMaxIndividualStakingVolume(env.Caller(), args.Amount))
			emit(env, p.Program, "MaxIndividualStakingVolumeUpdated", nil, args.Amount)
			return nil
		}},
		{"maxStakingVolume", func(env *xenv.Environment) []any {
			limit, err := p.ledger(env).MaxStakingVolume()
			must(env, err)
			return []any{limit}
		}},
		{"maxIndividualStakingVolume", func(env *xenv.Environment) []any {
			limit, err := p.ledger(env).MaxIndividualStakingVolume()
			must(env, err)
			return []any{limit}
		}},
		{"testUpgradeFunction", func(env *xenv.Environment) []any {
			return []any{upgradeMarker}
		}},
	}
	for _, def := range defines {
		p.define(def.name, def.run)
	}
}
