// Package dashboard assembles the views served to users (validator listings, yield reports,
// delegator rankings, network statistics) from the cached staking reads, and memoises the
// computed views in their own cache namespaces.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/TxnLab/stakeview/internal/cache"
	"github.com/TxnLab/stakeview/internal/lib/ranking"
	"github.com/TxnLab/stakeview/internal/lib/staking"
	"github.com/TxnLab/stakeview/internal/lib/yield"
)

// Cache namespaces for computed views.
const (
	NamespaceAPY     = "apy"
	NamespaceRanking = "ranking"
	NamespaceStats   = "stats"
)

// StakingReader is implemented by staking.Service.
type StakingReader interface {
	Validators(ctx context.Context) staking.Result[[]string]
	ValidatorInfo(ctx context.Context, address string) (*staking.ValidatorSnapshot, error)
	TotalNetworkStake(ctx context.Context) staking.Result[*big.Int]
	BlockNumber(ctx context.Context) staking.Result[uint64]
}

// Ranker is implemented by ranking.Engine.
type Ranker interface {
	Rank(ctx context.Context, page, limit int) (ranking.Page, error)
	RankOf(ctx context.Context, delegator string) (ranking.Position, error)
}

type Dashboard struct {
	logger *slog.Logger
	reader StakingReader
	ranker Ranker
	params yield.Params

	apy     *cache.Store
	ranking *cache.Store
	stats   *cache.Store
}

func New(logger *slog.Logger, registry *cache.Registry, reader StakingReader, ranker Ranker, params yield.Params) *Dashboard {
	return &Dashboard{
		logger:  logger,
		reader:  reader,
		ranker:  ranker,
		params:  params,
		apy:     registry.Store(NamespaceAPY),
		ranking: registry.Store(NamespaceRanking),
		stats:   registry.Store(NamespaceStats),
	}
}

func (d *Dashboard) Params() yield.Params { return d.params }

// degradedResult carries a computed value out of cache.Fetch without it being stored, so a
// view built on fallback data is recomputed on the next request.
type degradedResult[T any] struct {
	value T
}

func (degradedResult[T]) Error() string { return "degraded result" }

// memoize returns the cached view for key or builds it. Views built from degraded reads are
// returned but not cached.
func memoize[T any](ctx context.Context, store *cache.Store, key string, build func(context.Context) (T, bool, error)) (T, error) {
	v, err := cache.Fetch(ctx, store, key, 0, func(ctx context.Context) (T, error) {
		v, degraded, err := build(ctx)
		if err == nil && degraded {
			return v, &degradedResult[T]{value: v}
		}
		return v, err
	})
	var dr *degradedResult[T]
	if errors.As(err, &dr) {
		return dr.value, nil
	}
	return v, err
}

func pageKey(page, limit int) string { return fmt.Sprintf("page_%d_%d", page, limit) }
