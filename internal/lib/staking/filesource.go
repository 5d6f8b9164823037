package staking

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/ssgreg/repeat"

	"github.com/TxnLab/stakeview/internal/lib/misc"
)

// SnapshotFile is the on-disk form of the contract state, as exported by the indexer.
// Amounts are base-10 wei strings so they survive JSON without precision loss.
type SnapshotFile struct {
	BlockNumber uint64 `json:"blockNumber"`
	// TotalStaking is optional - the sum of validator stakes is used when empty.
	TotalStaking string              `json:"totalStaking,omitempty"`
	Validators   []SnapshotValidator `json:"validators"`
}

type SnapshotValidator struct {
	Address        string `json:"address"`
	StakingAmount  string `json:"stakingAmount"`
	CommissionRate uint32 `json:"commissionRate"` // basis points
	RewardAmount   string `json:"rewardAmount,omitempty"`
	SlashAmount    string `json:"slashAmount,omitempty"`
	Status         Status `json:"status"`
	// Stakers maps delegator address to wei staked with this validator.
	Stakers map[string]string `json:"stakers,omitempty"`
}

// state is the decoded, immutable form of a SnapshotFile.
type state struct {
	modTime     time.Time
	blockNumber uint64
	total       *big.Int
	order       []string
	active      []string
	validators  map[string]*ValidatorSnapshot
	stakes      map[string]map[string]*big.Int
}

// FileSource serves contract state from a JSON snapshot file. Load (or Reload) swaps in a
// fully decoded state, so readers never observe a half loaded file.
type FileSource struct {
	path   string
	logger *slog.Logger

	// retry settings for Load
	MaxTries  int
	BaseDelay time.Duration
	MaxDelay  time.Duration

	sync.RWMutex
	cur *state
}

func NewFileSource(logger *slog.Logger, path string) *FileSource {
	return &FileSource{
		path:      path,
		logger:    logger,
		MaxTries:  10,
		BaseDelay: 2 * time.Second,
		MaxDelay:  10 * time.Second,
	}
}

func (f *FileSource) Path() string { return f.path }

// Load reads and decodes the snapshot file, retrying transient failures (file being
// rewritten, mount not ready) with jittered backoff.
func (f *FileSource) Load(ctx context.Context) error {
	var (
		st      *state
		lastErr error
	)
	err := repeat.Repeat(
		repeat.Fn(func() error {
			if ctx.Err() != nil {
				return repeat.HintStop(ctx.Err())
			}
			var err error
			st, err = readSnapshotFile(f.path)
			if err != nil {
				lastErr = err
				return repeat.HintTemporary(err)
			}
			return nil
		}),
		repeat.StopOnSuccess(),
		repeat.LimitMaxTries(f.MaxTries),
		repeat.FnOnError(func(err error) error {
			misc.Warnf(f.logger, "retrying load of snapshot %s, error:%v", f.path, err)
			return err
		}),
		repeat.WithDelay(
			repeat.SetContextHintStop(),
			(&repeat.FullJitterBackoffBuilder{
				BaseDelay: f.BaseDelay,
				MaxDelay:  f.MaxDelay,
			}).Set(),
		),
	)
	if err != nil {
		if lastErr != nil && ctx.Err() == nil {
			// report the read failure, not the retry hint
			err = lastErr
		}
		return fmt.Errorf("unable to load snapshot %s: %w", f.path, err)
	}
	f.Lock()
	f.cur = st
	f.Unlock()
	misc.Infof(f.logger, "snapshot loaded from %s, block:%d, validators:%d", f.path, st.blockNumber, len(st.order))
	return nil
}

// Changed reports whether the file on disk differs (by modification time) from what was
// last loaded. Always true before the first successful Load.
func (f *FileSource) Changed() (bool, error) {
	fi, err := os.Stat(f.path)
	if err != nil {
		return false, err
	}
	f.RLock()
	defer f.RUnlock()
	return f.cur == nil || !fi.ModTime().Equal(f.cur.modTime), nil
}

func (f *FileSource) state() (*state, error) {
	f.RLock()
	defer f.RUnlock()
	if f.cur == nil {
		return nil, ErrNoSnapshot
	}
	return f.cur, nil
}

func (f *FileSource) Validators(ctx context.Context) ([]string, error) {
	st, err := f.state()
	if err != nil {
		return nil, err
	}
	return append([]string(nil), st.order...), nil
}

func (f *FileSource) ActiveValidators(ctx context.Context) ([]string, error) {
	st, err := f.state()
	if err != nil {
		return nil, err
	}
	return append([]string(nil), st.active...), nil
}

func (f *FileSource) Validator(ctx context.Context, address string) (*ValidatorSnapshot, error) {
	st, err := f.state()
	if err != nil {
		return nil, err
	}
	v, ok := st.validators[address]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrValidatorNotFound, address)
	}
	return v, nil
}

func (f *FileSource) Stake(ctx context.Context, validator, delegator string) (*big.Int, error) {
	st, err := f.state()
	if err != nil {
		return nil, err
	}
	if amt, ok := st.stakes[validator][delegator]; ok {
		return amt, nil
	}
	return new(big.Int), nil
}

func (f *FileSource) TotalNetworkStake(ctx context.Context) (*big.Int, error) {
	st, err := f.state()
	if err != nil {
		return nil, err
	}
	return st.total, nil
}

func (f *FileSource) BlockNumber(ctx context.Context) (uint64, error) {
	st, err := f.state()
	if err != nil {
		return 0, err
	}
	return st.blockNumber, nil
}

func readSnapshotFile(path string) (*state, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	fi, err := file.Stat()
	if err != nil {
		return nil, err
	}

	var snap SnapshotFile
	if err := json.NewDecoder(file).Decode(&snap); err != nil {
		return nil, fmt.Errorf("error decoding snapshot: %w", err)
	}
	st, err := decodeSnapshot(&snap)
	if err != nil {
		return nil, err
	}
	st.modTime = fi.ModTime()
	return st, nil
}

func decodeSnapshot(snap *SnapshotFile) (*state, error) {
	st := &state{
		blockNumber: snap.BlockNumber,
		total:       new(big.Int),
		validators:  make(map[string]*ValidatorSnapshot, len(snap.Validators)),
		stakes:      make(map[string]map[string]*big.Int, len(snap.Validators)),
	}
	for i, sv := range snap.Validators {
		addr, err := NormalizeAddress(sv.Address)
		if err != nil {
			return nil, fmt.Errorf("validator #%d: %w", i+1, err)
		}
		if _, dup := st.validators[addr]; dup {
			return nil, fmt.Errorf("validator #%d: duplicate address %s", i+1, addr)
		}
		v := &ValidatorSnapshot{
			Address:                   addr,
			CommissionRateBasisPoints: sv.CommissionRate,
			Status:                    sv.Status,
		}
		if v.StakingAmount, err = ParseWei(sv.StakingAmount); err != nil {
			return nil, fmt.Errorf("validator %s stakingAmount: %w", addr, err)
		}
		if v.RewardAmount, err = ParseWei(sv.RewardAmount); err != nil {
			return nil, fmt.Errorf("validator %s rewardAmount: %w", addr, err)
		}
		if v.SlashAmount, err = ParseWei(sv.SlashAmount); err != nil {
			return nil, fmt.Errorf("validator %s slashAmount: %w", addr, err)
		}
		stakes := make(map[string]*big.Int, len(sv.Stakers))
		for delegator, amount := range sv.Stakers {
			dAddr, err := NormalizeAddress(delegator)
			if err != nil {
				return nil, fmt.Errorf("validator %s staker: %w", addr, err)
			}
			wei, err := ParseWei(amount)
			if err != nil {
				return nil, fmt.Errorf("validator %s staker %s: %w", addr, dAddr, err)
			}
			stakes[dAddr] = wei
			v.StakerAddresses = append(v.StakerAddresses, dAddr)
		}
		// map iteration order is random - keep staker lists stable
		slices.Sort(v.StakerAddresses)

		st.validators[addr] = v
		st.stakes[addr] = stakes
		st.order = append(st.order, addr)
		if v.IsActive() {
			st.active = append(st.active, addr)
		}
		st.total.Add(st.total, v.StakingAmount)
	}
	if snap.TotalStaking != "" {
		total, err := ParseWei(snap.TotalStaking)
		if err != nil {
			return nil, fmt.Errorf("totalStaking: %w", err)
		}
		st.total = total
	}
	return st, nil
}
