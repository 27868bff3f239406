// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package tokenstake implements the staking and reward ledger.
//
// A ledger is bound to the storage of the account it runs for, which is the proxy
// when it is reached through one. All values are kept in ordinal slots described
// by a versioned Layout, so a later version can read what an earlier one wrote.
package tokenstake

import (
	"math/big"

	"github.com/vechain/tokenstake/builtin/gascharger"
	"github.com/vechain/tokenstake/builtin/reverts"
	"github.com/vechain/tokenstake/builtin/solidity"
	"github.com/vechain/tokenstake/log"
	"github.com/vechain/tokenstake/state"
	"github.com/vechain/tokenstake/thor"
)

var logger = log.WithContext("pkg", "tokenstake")

// BasisPoints is the denominator of ratios and fees.
var BasisPoints = big.NewInt(10000)

// MaxLockPeriod bounds the lock period, in days.
var MaxLockPeriod = big.NewInt(36500)

// Tokens moves value tokens on behalf of the ledger account.
type Tokens interface {
	// TransferFrom pulls amount from 'from' to 'to' using the ledger's allowance.
	TransferFrom(token, from, to thor.Address, amount *big.Int) error
	// Transfer sends amount out of the ledger's own balance.
	Transfer(token, to thor.Address, amount *big.Int) error
}

// Params are the one-shot initialization values.
type Params struct {
	Trustee      thor.Address
	ContractURI  string
	Reserved     []thor.Address
	RewardToken  thor.Address
	StakingToken thor.Address
	RewardRatio  *big.Int // basis points earned per full lock period
	LockPeriod   *big.Int // days
	Fee          *big.Int // basis points charged on early emergency withdrawal
}

// StakerBalance is the per staker record.
type StakerBalance struct {
	Amount      *big.Int
	DepositTime uint64 // start of the current lock
	LastAccrual uint64 // time rewards were last settled
	Accrued     *big.Int
}

func (s *StakerBalance) normalize() {
	if s.Amount == nil {
		s.Amount = new(big.Int)
	}
	if s.Accrued == nil {
		s.Accrued = new(big.Int)
	}
}

// Ledger is the staking ledger bound to an account's storage.
type Ledger struct {
	layout Layout
	self   thor.Address
	tokens Tokens

	initialized  *solidity.Bool
	trustee      *solidity.Address
	contractURI  *solidity.Value[string]
	reserved     *solidity.Value[[]thor.Address]
	rewardToken  *solidity.Address
	stakingToken *solidity.Address
	rewardRatio  *solidity.Uint256
	lockPeriod   *solidity.Uint256
	fee          *solidity.Uint256
	treasury     *solidity.Uint256
	totalStaked  *solidity.Uint256
	stakers      *solidity.Mapping[thor.Address, *StakerBalance]

	// present from v2
	maxStakingVolume           *solidity.Uint256
	maxIndividualStakingVolume *solidity.Uint256
}

// New creates a ledger interpreting the storage of addr with the given layout.
func New(layout Layout, addr thor.Address, state *state.State, charger *gascharger.Charger, tokens Tokens) *Ledger {
	ctx := solidity.NewContext(addr, state, charger)
	l := &Ledger{
		layout:       layout,
		self:         addr,
		tokens:       tokens,
		initialized:  solidity.NewBool(ctx, layout.Slot("initialized")),
		trustee:      solidity.NewAddress(ctx, layout.Slot("trustee")),
		contractURI:  solidity.NewValue[string](ctx, layout.Slot("contractURI")),
		reserved:     solidity.NewValue[[]thor.Address](ctx, layout.Slot("reserved")),
		rewardToken:  solidity.NewAddress(ctx, layout.Slot("rewardToken")),
		stakingToken: solidity.NewAddress(ctx, layout.Slot("stakingToken")),
		rewardRatio:  solidity.NewUint256(ctx, layout.Slot("rewardRatioBasisPoints")),
		lockPeriod:   solidity.NewUint256(ctx, layout.Slot("lockPeriodDays")),
		fee:          solidity.NewUint256(ctx, layout.Slot("feeBasisPoints")),
		treasury:     solidity.NewUint256(ctx, layout.Slot("rewardTreasuryBalance")),
		totalStaked:  solidity.NewUint256(ctx, layout.Slot("totalStaked")),
		stakers:      solidity.NewMapping[thor.Address, *StakerBalance](ctx, layout.Slot("stakerBalances")),
	}
	if layout.Has("maxStakingVolume") {
		l.maxStakingVolume = solidity.NewUint256(ctx, layout.Slot("maxStakingVolume"))
	}
	if layout.Has("maxIndividualStakingVolume") {
		l.maxIndividualStakingVolume = solidity.NewUint256(ctx, layout.Slot("maxIndividualStakingVolume"))
	}
	return l
}

// Version returns the layout version the ledger runs with.
func (l *Ledger) Version() uint64 {
	return l.layout.Version
}

// Construct locks the bare implementation account: the deployer becomes its trustee
// and it is marked initialized, so it can only be used through a proxy.
func (l *Ledger) Construct(deployer thor.Address) error {
	if err := l.trustee.Set(deployer); err != nil {
		return err
	}
	return l.initialized.Set(true)
}

// Initialize moves the ledger from uninitialized to active. It succeeds only once.
func (l *Ledger) Initialize(p *Params) error {
	initialized, err := l.initialized.Get()
	if err != nil {
		return err
	}
	if initialized {
		return reverts.ErrAlreadyInitialized.WithDetail("ledger")
	}

	switch {
	case p.Trustee.IsZero():
		return reverts.ErrInvalidArgument.WithDetail("zero trustee")
	case p.RewardToken.IsZero() || p.StakingToken.IsZero():
		return reverts.ErrInvalidArgument.WithDetail("zero token address")
	case p.RewardToken == p.StakingToken:
		return reverts.ErrInvalidArgument.WithDetail("reward and staking token must differ")
	case p.LockPeriod.Sign() <= 0:
		return reverts.ErrInvalidArgument.WithDetail("lock period must be positive")
	case p.LockPeriod.Cmp(MaxLockPeriod) > 0:
		return reverts.ErrInvalidArgument.WithDetail("lock period exceeds %v days", MaxLockPeriod)
	case p.RewardRatio.Sign() < 0:
		return reverts.ErrInvalidArgument.WithDetail("negative reward ratio")
	case p.Fee.Sign() < 0 || p.Fee.Cmp(BasisPoints) > 0:
		return reverts.ErrInvalidArgument.WithDetail("fee out of range")
	}

	if err := l.initialized.Set(true); err != nil {
		return err
	}
	if err := l.trustee.Set(p.Trustee); err != nil {
		return err
	}
	if err := l.contractURI.Set(p.ContractURI); err != nil {
		return err
	}
	if err := l.reserved.Set(p.Reserved); err != nil {
		return err
	}
	if err := l.rewardToken.Set(p.RewardToken); err != nil {
		return err
	}
	if err := l.stakingToken.Set(p.StakingToken); err != nil {
		return err
	}
	if err := l.rewardRatio.Set(p.RewardRatio); err != nil {
		return err
	}
	if err := l.lockPeriod.Set(p.LockPeriod); err != nil {
		return err
	}
	if err := l.fee.Set(p.Fee); err != nil {
		return err
	}
	logger.Debug("ledger initialized", "account", l.self, "trustee", p.Trustee,
		"ratio", p.RewardRatio, "lock", p.LockPeriod, "fee", p.Fee)
	return nil
}

func (l *Ledger) requireActive() error {
	initialized, err := l.initialized.Get()
	if err != nil {
		return err
	}
	if !initialized {
		return reverts.ErrNotInitialized
	}
	rewardToken, err := l.rewardToken.Get()
	if err != nil {
		return err
	}
	// the bare implementation is initialized but has no tokens
	if rewardToken.IsZero() {
		return reverts.ErrNotInitialized
	}
	return nil
}

func (l *Ledger) requireTrustee(caller thor.Address) error {
	trustee, err := l.trustee.Get()
	if err != nil {
		return err
	}
	if caller != trustee {
		return reverts.ErrAuthorization.WithDetail("caller is not the trustee")
	}
	return nil
}

func requirePositive(amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return reverts.ErrInvalidArgument.WithDetail("amount must be positive")
	}
	return nil
}

// DepositRewardTokens pulls amount reward tokens from 'from' into the treasury.
func (l *Ledger) DepositRewardTokens(from thor.Address, amount *big.Int) error {
	if err := l.requireActive(); err != nil {
		return err
	}
	if err := requirePositive(amount); err != nil {
		return err
	}
	treasury, err := l.treasury.Get()
	if err != nil {
		return err
	}
	if err := solidity.CheckRange(treasury.Add(treasury, amount)); err != nil {
		return err
	}
	token, err := l.rewardToken.Get()
	if err != nil {
		return err
	}
	// the treasury only grows after the inbound transfer is confirmed
	if err := l.tokens.TransferFrom(token, from, l.self, amount); err != nil {
		return err
	}
	return l.treasury.Set(treasury)
}

// WithdrawRewardTokens sends unused treasury back to the trustee.
func (l *Ledger) WithdrawRewardTokens(caller thor.Address, amount *big.Int) error {
	if err := l.requireActive(); err != nil {
		return err
	}
	if err := l.requireTrustee(caller); err != nil {
		return err
	}
	if err := requirePositive(amount); err != nil {
		return err
	}
	if err := l.payReward(caller, amount); err != nil {
		return err
	}
	return nil
}

// payReward moves amount out of the treasury.
func (l *Ledger) payReward(to thor.Address, amount *big.Int) error {
	treasury, err := l.treasury.Get()
	if err != nil {
		return err
	}
	if treasury.Cmp(amount) < 0 {
		return reverts.ErrInsufficientBalance.WithDetail("treasury %v, required %v", treasury, amount)
	}
	if err := l.treasury.Set(treasury.Sub(treasury, amount)); err != nil {
		return err
	}
	token, err := l.rewardToken.Get()
	if err != nil {
		return err
	}
	return l.tokens.Transfer(token, to, amount)
}

// RewardTokenBalance returns the treasury.
func (l *Ledger) RewardTokenBalance() (*big.Int, error) {
	return l.treasury.Get()
}

func (l *Ledger) lockSeconds() (uint64, error) {
	days, err := l.lockPeriod.Get()
	if err != nil {
		return 0, err
	}
	return days.Uint64() * thor.SecondsPerDay, nil
}

func (l *Ledger) getStaker(staker thor.Address) (*StakerBalance, error) {
	bal, err := l.stakers.Get(staker)
	if err != nil {
		return nil, err
	}
	bal.normalize()
	return bal, nil
}

// settle moves the reward earned since the last settlement into Accrued.
func (l *Ledger) settle(bal *StakerBalance, now uint64) error {
	pending, err := l.pending(bal, now)
	if err != nil {
		return err
	}
	bal.Accrued.Add(bal.Accrued, pending)
	bal.LastAccrual = now
	return nil
}

func (l *Ledger) pending(bal *StakerBalance, now uint64) (*big.Int, error) {
	if bal.Amount.Sign() == 0 || now <= bal.LastAccrual {
		return new(big.Int), nil
	}
	ratio, err := l.rewardRatio.Get()
	if err != nil {
		return nil, err
	}
	lock, err := l.lockSeconds()
	if err != nil {
		return nil, err
	}
	return accrue(bal.Amount, ratio, now-bal.LastAccrual, lock), nil
}

// accrue returns amount * ratio * elapsed / (10000 * lockSeconds).
func accrue(amount, ratio *big.Int, elapsed, lockSeconds uint64) *big.Int {
	if lockSeconds == 0 {
		return new(big.Int)
	}
	num := new(big.Int).Mul(amount, ratio)
	num.Mul(num, new(big.Int).SetUint64(elapsed))
	den := new(big.Int).Mul(BasisPoints, new(big.Int).SetUint64(lockSeconds))
	return num.Quo(num, den)
}

func (l *Ledger) unlockTime(bal *StakerBalance) (uint64, error) {
	lock, err := l.lockSeconds()
	if err != nil {
		return 0, err
	}
	return bal.DepositTime + lock, nil
}

// Stake pulls amount staking tokens from the staker and restarts its lock.
func (l *Ledger) Stake(staker thor.Address, amount *big.Int, now uint64) error {
	if err := l.requireActive(); err != nil {
		return err
	}
	if err := requirePositive(amount); err != nil {
		return err
	}
	bal, err := l.getStaker(staker)
	if err != nil {
		return err
	}
	total, err := l.totalStaked.Get()
	if err != nil {
		return err
	}
	if err := l.checkVolume(total, bal.Amount, amount); err != nil {
		return err
	}
	if err := solidity.CheckRange(new(big.Int).Add(total, amount)); err != nil {
		return err
	}

	token, err := l.stakingToken.Get()
	if err != nil {
		return err
	}
	if err := l.tokens.TransferFrom(token, staker, l.self, amount); err != nil {
		return err
	}

	if err := l.settle(bal, now); err != nil {
		return err
	}
	bal.Amount.Add(bal.Amount, amount)
	bal.DepositTime = now
	if err := l.stakers.Set(staker, bal); err != nil {
		return err
	}
	return l.totalStaked.Set(total.Add(total, amount))
}

// checkVolume enforces the caps, a zero cap is not configured.
func (l *Ledger) checkVolume(total, staked, amount *big.Int) error {
	if l.maxStakingVolume != nil {
		limit, err := l.maxStakingVolume.Get()
		if err != nil {
			return err
		}
		if limit.Sign() > 0 && new(big.Int).Add(total, amount).Cmp(limit) > 0 {
			return reverts.ErrVolumeExceeded.WithDetail("total staking volume cap %v", limit)
		}
	}
	if l.maxIndividualStakingVolume != nil {
		limit, err := l.maxIndividualStakingVolume.Get()
		if err != nil {
			return err
		}
		if limit.Sign() > 0 && new(big.Int).Add(staked, amount).Cmp(limit) > 0 {
			return reverts.ErrVolumeExceeded.WithDetail("individual staking volume cap %v", limit)
		}
	}
	return nil
}

// Withdraw returns amount staking tokens once the lock has expired.
func (l *Ledger) Withdraw(staker thor.Address, amount *big.Int, now uint64) error {
	bal, err := l.prepareWithdraw(staker, amount, now)
	if err != nil {
		return err
	}
	unlock, err := l.unlockTime(bal)
	if err != nil {
		return err
	}
	if now < unlock {
		return reverts.ErrLockPeriodActive.WithDetail("unlocks at %d", unlock)
	}
	return l.release(staker, bal, amount, new(big.Int))
}

// EmergencyWithdraw returns amount staking tokens at any time. Before the lock
// expires a fee is charged and sent to the trustee. It returns the fee.
func (l *Ledger) EmergencyWithdraw(staker thor.Address, amount *big.Int, now uint64) (*big.Int, error) {
	bal, err := l.prepareWithdraw(staker, amount, now)
	if err != nil {
		return nil, err
	}
	unlock, err := l.unlockTime(bal)
	if err != nil {
		return nil, err
	}
	fee := new(big.Int)
	if now < unlock {
		feeBps, err := l.fee.Get()
		if err != nil {
			return nil, err
		}
		fee.Mul(amount, feeBps).Quo(fee, BasisPoints)
	}
	if err := l.release(staker, bal, amount, fee); err != nil {
		return nil, err
	}
	return fee, nil
}

func (l *Ledger) prepareWithdraw(staker thor.Address, amount *big.Int, now uint64) (*StakerBalance, error) {
	if err := l.requireActive(); err != nil {
		return nil, err
	}
	if err := requirePositive(amount); err != nil {
		return nil, err
	}
	bal, err := l.getStaker(staker)
	if err != nil {
		return nil, err
	}
	if bal.Amount.Cmp(amount) < 0 {
		return nil, reverts.ErrInsufficientBalance.WithDetail("staked %v, required %v", bal.Amount, amount)
	}
	if err := l.settle(bal, now); err != nil {
		return nil, err
	}
	return bal, nil
}

// release pays amount-fee to the staker and fee to the trustee.
func (l *Ledger) release(staker thor.Address, bal *StakerBalance, amount, fee *big.Int) error {
	bal.Amount.Sub(bal.Amount, amount)
	if err := l.stakers.Set(staker, bal); err != nil {
		return err
	}
	if err := l.totalStaked.Sub(amount); err != nil {
		return err
	}

	token, err := l.stakingToken.Get()
	if err != nil {
		return err
	}
	if err := l.tokens.Transfer(token, staker, new(big.Int).Sub(amount, fee)); err != nil {
		return err
	}
	if fee.Sign() > 0 {
		trustee, err := l.trustee.Get()
		if err != nil {
			return err
		}
		return l.tokens.Transfer(token, trustee, fee)
	}
	return nil
}

// ClaimReward pays the accrued reward out of the treasury once the lock has expired.
func (l *Ledger) ClaimReward(staker thor.Address, now uint64) (*big.Int, error) {
	if err := l.requireActive(); err != nil {
		return nil, err
	}
	bal, err := l.getStaker(staker)
	if err != nil {
		return nil, err
	}
	unlock, err := l.unlockTime(bal)
	if err != nil {
		return nil, err
	}
	if bal.Amount.Sign() > 0 && now < unlock {
		return nil, reverts.ErrLockPeriodActive.WithDetail("unlocks at %d", unlock)
	}
	if err := l.settle(bal, now); err != nil {
		return nil, err
	}
	reward := new(big.Int).Set(bal.Accrued)
	if reward.Sign() == 0 {
		return reward, nil
	}
	if err := l.payReward(staker, reward); err != nil {
		return nil, err
	}
	bal.Accrued.SetUint64(0)
	if err := l.stakers.Set(staker, bal); err != nil {
		return nil, err
	}
	return reward, nil
}

// PendingReward returns the reward the staker could claim at time now.
func (l *Ledger) PendingReward(staker thor.Address, now uint64) (*big.Int, error) {
	bal, err := l.getStaker(staker)
	if err != nil {
		return nil, err
	}
	pending, err := l.pending(bal, now)
	if err != nil {
		return nil, err
	}
	return pending.Add(pending, bal.Accrued), nil
}

// StakerInfo is a staker snapshot.
type StakerInfo struct {
	Amount      *big.Int
	DepositTime uint64
	Accrued     *big.Int // including rewards not settled yet
	UnlockTime  uint64
}

// StakerInfo returns the staker snapshot at time now.
func (l *Ledger) StakerInfo(staker thor.Address, now uint64) (*StakerInfo, error) {
	bal, err := l.getStaker(staker)
	if err != nil {
		return nil, err
	}
	pending, err := l.pending(bal, now)
	if err != nil {
		return nil, err
	}
	info := &StakerInfo{
		Amount:      bal.Amount,
		DepositTime: bal.DepositTime,
		Accrued:     pending.Add(pending, bal.Accrued),
	}
	if bal.Amount.Sign() > 0 {
		if info.UnlockTime, err = l.unlockTime(bal); err != nil {
			return nil, err
		}
	}
	return info, nil
}

func (l *Ledger) TotalStaked() (*big.Int, error)      { return l.totalStaked.Get() }
func (l *Ledger) Initialized() (bool, error)          { return l.initialized.Get() }
func (l *Ledger) Trustee() (thor.Address, error)      { return l.trustee.Get() }
func (l *Ledger) ContractURI() (string, error)        { return l.contractURI.Get() }
func (l *Ledger) Reserved() ([]thor.Address, error)   { return l.reserved.Get() }
func (l *Ledger) RewardToken() (thor.Address, error)  { return l.rewardToken.Get() }
func (l *Ledger) StakingToken() (thor.Address, error) { return l.stakingToken.Get() }
func (l *Ledger) RewardRatio() (*big.Int, error)      { return l.rewardRatio.Get() }
func (l *Ledger) LockPeriod() (*big.Int, error)       { return l.lockPeriod.Get() }
func (l *Ledger) Fee() (*big.Int, error)              { return l.fee.Get() }

// SetContractURI replaces the metadata uri.
func (l *Ledger) SetContractURI(caller thor.Address, uri string) error {
	if err := l.requireTrustee(caller); err != nil {
		return err
	}
	return l.contractURI.Set(uri)
}

func (l *Ledger) requireCaps() error {
	if l.maxStakingVolume == nil || l.maxIndividualStakingVolume == nil {
		return reverts.ErrMethodNotFound.WithDetail("staking volume caps need layout v2")
	}
	return nil
}

// SetMaxStakingVolume sets the cap of total staked amount, zero removes it.
func (l *Ledger) SetMaxStakingVolume(caller thor.Address, amount *big.Int) error {
	if err := l.requireCaps(); err != nil {
		return err
	}
	if err := l.requireTrustee(caller); err != nil {
		return err
	}
	if amount.Sign() < 0 {
		return reverts.ErrInvalidArgument.WithDetail("negative cap")
	}
	return l.maxStakingVolume.Set(amount)
}

// SetMaxIndividualStakingVolume sets the cap of each staker's amount, zero removes it.
func (l *Ledger) SetMaxIndividualStakingVolume(caller thor.Address, amount *big.Int) error {
	if err := l.requireCaps(); err != nil {
		return err
	}
	if err := l.requireTrustee(caller); err != nil {
		return err
	}
	if amount.Sign() < 0 {
		return reverts.ErrInvalidArgument.WithDetail("negative cap")
	}
	return l.maxIndividualStakingVolume.Set(amount)
}

func (l *Ledger) MaxStakingVolume() (*big.Int, error) {
	if err := l.requireCaps(); err != nil {
		return nil, err
	}
	return l.maxStakingVolume.Get()
}

func (l *Ledger) MaxIndividualStakingVolume() (*big.Int, error) {
	if err := l.requireCaps(); err != nil {
		return nil, err
	}
	return l.maxIndividualStakingVolume.Get()
}
