// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tokenstake

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/tokenstake/builtin/reverts"
	"github.com/vechain/tokenstake/builtin/token"
	"github.com/vechain/tokenstake/lvldb"
	"github.com/vechain/tokenstake/state"
	"github.com/vechain/tokenstake/test/datagen"
	"github.com/vechain/tokenstake/thor"
)

// ledgerTokens moves tokens directly in state, acting as the ledger account.
type ledgerTokens struct {
	self   thor.Address
	tokens map[thor.Address]*token.Token
}

func (lt *ledgerTokens) TransferFrom(tok, from, to thor.Address, amount *big.Int) error {
	return lt.tokens[tok].TransferFrom(lt.self, from, to, amount)
}

func (lt *ledgerTokens) Transfer(tok, to thor.Address, amount *big.Int) error {
	return lt.tokens[tok].Transfer(lt.self, to, amount)
}

type fixture struct {
	st           *state.State
	addr         thor.Address
	trustee      thor.Address
	rewardAddr   thor.Address
	stakingAddr  thor.Address
	rewardToken  *token.Token
	stakingToken *token.Token
	tokens       *ledgerTokens
}

const day = thor.SecondsPerDay

func newFixture(t *testing.T) *fixture {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := &fixture{
		st:          state.New(db),
		addr:        datagen.RandAddress(),
		trustee:     datagen.RandAddress(),
		rewardAddr:  datagen.RandAddress(),
		stakingAddr: datagen.RandAddress(),
	}
	f.rewardToken = token.New(f.rewardAddr, f.st, nil)
	f.stakingToken = token.New(f.stakingAddr, f.st, nil)
	require.NoError(t, f.rewardToken.Init(f.trustee, "Reward", "RWD", 18, big.NewInt(1_000_000)))
	require.NoError(t, f.stakingToken.Init(f.trustee, "Stake", "STK", 18, big.NewInt(1_000_000)))
	f.tokens = &ledgerTokens{
		self: f.addr,
		tokens: map[thor.Address]*token.Token{
			f.rewardAddr:  f.rewardToken,
			f.stakingAddr: f.stakingToken,
		},
	}
	return f
}

func (f *fixture) ledger(layout Layout) *Ledger {
	return New(layout, f.addr, f.st, nil, f.tokens)
}

func (f *fixture) params() *Params {
	return &Params{
		Trustee:      f.trustee,
		ContractURI:  "ipfs://stake",
		Reserved:     []thor.Address{datagen.RandAddress()},
		RewardToken:  f.rewardAddr,
		StakingToken: f.stakingAddr,
		RewardRatio:  big.NewInt(60),
		LockPeriod:   big.NewInt(30),
		Fee:          big.NewInt(50),
	}
}

// fund gives the staker staking tokens and an allowance for the ledger.
func (f *fixture) fund(t *testing.T, staker thor.Address, amount int64) {
	require.NoError(t, f.stakingToken.Transfer(f.trustee, staker, big.NewInt(amount)))
	require.NoError(t, f.stakingToken.Approve(staker, f.addr, big.NewInt(amount)))
}

func (f *fixture) deposit(t *testing.T, l *Ledger, amount int64) {
	require.NoError(t, f.rewardToken.Approve(f.trustee, f.addr, big.NewInt(amount)))
	require.NoError(t, l.DepositRewardTokens(f.trustee, big.NewInt(amount)))
}

// bigOf returns a helper unwrapping big.Int getters.
func bigOf(t *testing.T) func(*big.Int, error) *big.Int {
	return func(v *big.Int, err error) *big.Int {
		require.NoError(t, err)
		return v
	}
}

func TestInitialize(t *testing.T) {
	mustBig := bigOf(t)
	f := newFixture(t)
	l := f.ledger(LayoutV1)

	initialized, err := l.Initialized()
	require.NoError(t, err)
	assert.False(t, initialized)

	require.NoError(t, l.Initialize(f.params()))

	initialized, err = l.Initialized()
	require.NoError(t, err)
	assert.True(t, initialized)

	trustee, err := l.Trustee()
	require.NoError(t, err)
	assert.Equal(t, f.trustee, trustee)

	uri, err := l.ContractURI()
	require.NoError(t, err)
	assert.Equal(t, "ipfs://stake", uri)

	reserved, err := l.Reserved()
	require.NoError(t, err)
	assert.Len(t, reserved, 1)

	rt, err := l.RewardToken()
	require.NoError(t, err)
	assert.Equal(t, f.rewardAddr, rt)
	st, err := l.StakingToken()
	require.NoError(t, err)
	assert.Equal(t, f.stakingAddr, st)

	assert.Equal(t, int64(60), mustBig(l.RewardRatio()).Int64())
	assert.Equal(t, int64(30), mustBig(l.LockPeriod()).Int64())
	assert.Equal(t, int64(50), mustBig(l.Fee()).Int64())
	assert.Equal(t, uint64(1), l.Version())

	err = l.Initialize(f.params())
	assert.True(t, errors.Is(err, reverts.ErrAlreadyInitialized))
}

func TestInitializeRejectsInvalidParams(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		modify func(p *Params)
	}{
		{"same token", func(p *Params) { p.StakingToken = p.RewardToken }},
		{"zero reward token", func(p *Params) { p.RewardToken = thor.Address{} }},
		{"zero trustee", func(p *Params) { p.Trustee = thor.Address{} }},
		{"zero lock period", func(p *Params) { p.LockPeriod = big.NewInt(0) }},
		{"lock period too long", func(p *Params) { p.LockPeriod = new(big.Int).Add(MaxLockPeriod, big.NewInt(1)) }},
		{"huge lock period", func(p *Params) { p.LockPeriod = new(big.Int).Lsh(big.NewInt(1), 64) }},
		{"fee too high", func(p *Params) { p.Fee = big.NewInt(10001) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := f.ledger(LayoutV1)
			p := f.params()
			tt.modify(p)
			err := l.Initialize(p)
			assert.True(t, errors.Is(err, reverts.ErrInvalidArgument), "got %v", err)

			initialized, err := l.Initialized()
			require.NoError(t, err)
			assert.False(t, initialized)
		})
	}
}

func TestConstructLocksImplementation(t *testing.T) {
	f := newFixture(t)
	l := f.ledger(LayoutV1)
	deployer := datagen.RandAddress()

	require.NoError(t, l.Construct(deployer))
	trustee, err := l.Trustee()
	require.NoError(t, err)
	assert.Equal(t, deployer, trustee)

	assert.True(t, errors.Is(l.Initialize(f.params()), reverts.ErrAlreadyInitialized))
	assert.True(t, errors.Is(l.Stake(deployer, big.NewInt(1), 0), reverts.ErrNotInitialized))
}

func TestDepositAndWithdrawRewardTokens(t *testing.T) {
	mustBig := bigOf(t)
	f := newFixture(t)
	l := f.ledger(LayoutV1)
	require.NoError(t, l.Initialize(f.params()))

	f.deposit(t, l, 1000)
	assert.Equal(t, int64(1000), mustBig(l.RewardTokenBalance()).Int64())
	assert.Equal(t, int64(1000), mustBig(f.rewardToken.BalanceOf(f.addr)).Int64())

	// no allowance left
	err := l.DepositRewardTokens(f.trustee, big.NewInt(1))
	assert.True(t, errors.Is(err, reverts.ErrInsufficientAllow))
	assert.Equal(t, int64(1000), mustBig(l.RewardTokenBalance()).Int64())

	err = l.WithdrawRewardTokens(datagen.RandAddress(), big.NewInt(100))
	assert.True(t, errors.Is(err, reverts.ErrAuthorization))

	err = l.WithdrawRewardTokens(f.trustee, big.NewInt(1001))
	assert.True(t, errors.Is(err, reverts.ErrInsufficientBalance))

	require.NoError(t, l.WithdrawRewardTokens(f.trustee, big.NewInt(400)))
	assert.Equal(t, int64(600), mustBig(l.RewardTokenBalance()).Int64())
	assert.Equal(t, int64(1_000_000-600), mustBig(f.rewardToken.BalanceOf(f.trustee)).Int64())
}

func TestTreasuryAtUint256Limit(t *testing.T) {
	mustBig := bigOf(t)
	f := newFixture(t)
	l := f.ledger(LayoutV1)
	require.NoError(t, l.Initialize(f.params()))

	rest := new(big.Int).Sub(math.MaxBig256, big.NewInt(1_000_000))
	require.NoError(t, f.rewardToken.Mint(f.trustee, f.trustee, rest))
	require.NoError(t, f.rewardToken.Approve(f.trustee, f.addr, math.MaxBig256))
	require.NoError(t, l.DepositRewardTokens(f.trustee, math.MaxBig256))

	err := f.rewardToken.Mint(f.trustee, f.trustee, big.NewInt(1))
	assert.True(t, errors.Is(err, reverts.ErrOverflow))

	require.NoError(t, f.rewardToken.Approve(f.trustee, f.addr, big.NewInt(1)))
	err = l.DepositRewardTokens(f.trustee, big.NewInt(1))
	assert.True(t, errors.Is(err, reverts.ErrOverflow))

	// treasury and custody stay equal
	assert.Equal(t, 0, math.MaxBig256.Cmp(mustBig(l.RewardTokenBalance())))
	assert.Equal(t, 0, math.MaxBig256.Cmp(mustBig(f.rewardToken.BalanceOf(f.addr))))
}

func TestStakeWithdrawAndClaim(t *testing.T) {
	mustBig := bigOf(t)
	f := newFixture(t)
	l := f.ledger(LayoutV1)
	require.NoError(t, l.Initialize(f.params()))
	f.deposit(t, l, 1000)

	staker := datagen.RandAddress()
	f.fund(t, staker, 10_000)

	start := uint64(1_000_000)
	require.NoError(t, l.Stake(staker, big.NewInt(10_000), start))
	assert.Equal(t, int64(10_000), mustBig(l.TotalStaked()).Int64())
	assert.Equal(t, 0, mustBig(f.stakingToken.BalanceOf(staker)).Sign())

	// half the lock period earns half the ratio
	half := start + 15*day
	assert.Equal(t, int64(30), mustBig(l.PendingReward(staker, half)).Int64())

	err := l.Withdraw(staker, big.NewInt(1), half)
	assert.True(t, errors.Is(err, reverts.ErrLockPeriodActive))
	_, err = l.ClaimReward(staker, half)
	assert.True(t, errors.Is(err, reverts.ErrLockPeriodActive))

	unlock := start + 30*day
	info, err := l.StakerInfo(staker, unlock)
	require.NoError(t, err)
	assert.Equal(t, int64(10_000), info.Amount.Int64())
	assert.Equal(t, start, info.DepositTime)
	assert.Equal(t, unlock, info.UnlockTime)
	assert.Equal(t, int64(60), info.Accrued.Int64())

	reward, err := l.ClaimReward(staker, unlock)
	require.NoError(t, err)
	assert.Equal(t, int64(60), reward.Int64())
	assert.Equal(t, int64(60), mustBig(f.rewardToken.BalanceOf(staker)).Int64())
	assert.Equal(t, int64(940), mustBig(l.RewardTokenBalance()).Int64())
	assert.Equal(t, 0, mustBig(l.PendingReward(staker, unlock)).Sign())

	require.NoError(t, l.Withdraw(staker, big.NewInt(10_000), unlock))
	assert.Equal(t, int64(10_000), mustBig(f.stakingToken.BalanceOf(staker)).Int64())
	assert.Equal(t, 0, mustBig(l.TotalStaked()).Sign())

	err = l.Withdraw(staker, big.NewInt(1), unlock)
	assert.True(t, errors.Is(err, reverts.ErrInsufficientBalance))
}

func TestClaimRewardExceedsTreasury(t *testing.T) {
	mustBig := bigOf(t)
	f := newFixture(t)
	l := f.ledger(LayoutV1)
	require.NoError(t, l.Initialize(f.params()))
	f.deposit(t, l, 10)

	staker := datagen.RandAddress()
	f.fund(t, staker, 10_000)
	require.NoError(t, l.Stake(staker, big.NewInt(10_000), 0))

	_, err := l.ClaimReward(staker, 30*day)
	assert.True(t, errors.Is(err, reverts.ErrInsufficientBalance))
	assert.Equal(t, int64(10), mustBig(l.RewardTokenBalance()).Int64())
}

func TestEmergencyWithdraw(t *testing.T) {
	mustBig := bigOf(t)
	f := newFixture(t)
	l := f.ledger(LayoutV1)
	require.NoError(t, l.Initialize(f.params()))

	staker := datagen.RandAddress()
	f.fund(t, staker, 10_000)
	require.NoError(t, l.Stake(staker, big.NewInt(10_000), 0))

	trusteeBefore := mustBig(f.stakingToken.BalanceOf(f.trustee))

	// 0.5% fee while locked
	fee, err := l.EmergencyWithdraw(staker, big.NewInt(4000), day)
	require.NoError(t, err)
	assert.Equal(t, int64(20), fee.Int64())
	assert.Equal(t, int64(3980), mustBig(f.stakingToken.BalanceOf(staker)).Int64())
	assert.Equal(t, 0, new(big.Int).Add(trusteeBefore, big.NewInt(20)).Cmp(mustBig(f.stakingToken.BalanceOf(f.trustee))))

	// no fee after unlock
	fee, err = l.EmergencyWithdraw(staker, big.NewInt(6000), 30*day)
	require.NoError(t, err)
	assert.Equal(t, 0, fee.Sign())
	assert.Equal(t, int64(9980), mustBig(f.stakingToken.BalanceOf(staker)).Int64())
	assert.Equal(t, 0, mustBig(l.TotalStaked()).Sign())

	// accrued reward survives the withdrawal
	assert.True(t, mustBig(l.PendingReward(staker, 30*day)).Sign() > 0)
}

func TestStakingVolumeCaps(t *testing.T) {
	mustBig := bigOf(t)
	f := newFixture(t)
	require.NoError(t, f.ledger(LayoutV1).Initialize(f.params()))
	f.deposit(t, f.ledger(LayoutV1), 1000)

	v1 := f.ledger(LayoutV1)
	_, err := v1.MaxStakingVolume()
	assert.True(t, errors.Is(err, reverts.ErrMethodNotFound))

	// the upgraded ledger keeps everything written before
	v2 := f.ledger(LayoutV2)
	assert.Equal(t, uint64(2), v2.Version())
	assert.Equal(t, int64(1000), mustBig(v2.RewardTokenBalance()).Int64())
	assert.Equal(t, 0, mustBig(v2.MaxStakingVolume()).Sign())

	err = v2.SetMaxStakingVolume(datagen.RandAddress(), big.NewInt(2000))
	assert.True(t, errors.Is(err, reverts.ErrAuthorization))

	require.NoError(t, v2.SetMaxStakingVolume(f.trustee, big.NewInt(2000)))
	require.NoError(t, v2.SetMaxIndividualStakingVolume(f.trustee, big.NewInt(100)))
	assert.Equal(t, int64(2000), mustBig(v2.MaxStakingVolume()).Int64())
	assert.Equal(t, int64(100), mustBig(v2.MaxIndividualStakingVolume()).Int64())

	staker := datagen.RandAddress()
	f.fund(t, staker, 1000)

	err = v2.Stake(staker, big.NewInt(101), 0)
	assert.True(t, errors.Is(err, reverts.ErrVolumeExceeded))
	require.NoError(t, v2.Stake(staker, big.NewInt(100), 0))
	err = v2.Stake(staker, big.NewInt(1), 0)
	assert.True(t, errors.Is(err, reverts.ErrVolumeExceeded))

	// zero removes the cap
	require.NoError(t, v2.SetMaxIndividualStakingVolume(f.trustee, big.NewInt(0)))
	require.NoError(t, v2.Stake(staker, big.NewInt(1), 0))
	assert.Equal(t, int64(101), mustBig(v2.TotalStaked()).Int64())

	// v1 ignores the caps it does not know about
	require.NoError(t, v2.SetMaxStakingVolume(f.trustee, big.NewInt(101)))
	assert.True(t, errors.Is(v2.Stake(staker, big.NewInt(1), 0), reverts.ErrVolumeExceeded))
	require.NoError(t, v1.Stake(staker, big.NewInt(1), 0))
}

func TestSetContractURI(t *testing.T) {
	f := newFixture(t)
	l := f.ledger(LayoutV1)
	require.NoError(t, l.Initialize(f.params()))

	assert.True(t, errors.Is(l.SetContractURI(datagen.RandAddress(), "x"), reverts.ErrAuthorization))
	require.NoError(t, l.SetContractURI(f.trustee, "ipfs://new"))
	uri, err := l.ContractURI()
	require.NoError(t, err)
	assert.Equal(t, "ipfs://new", uri)
}

func TestAccrue(t *testing.T) {
	assert.Equal(t, int64(60), accrue(big.NewInt(10_000), big.NewInt(60), 30*day, 30*day).Int64())
	assert.Equal(t, int64(120), accrue(big.NewInt(10_000), big.NewInt(60), 60*day, 30*day).Int64())
	assert.Equal(t, 0, accrue(big.NewInt(10_000), big.NewInt(60), day, 0).Sign())
}
