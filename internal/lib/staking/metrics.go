package staking

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	promPoolCount = promauto.NewGauge(prometheus.GaugeOpts{
		Subsystem: "staking",
		Name:      "pool_count",
	})
	promPositionCount = promauto.NewGauge(prometheus.GaugeOpts{
		Subsystem: "staking",
		Name:      "position_count",
	})
	promTotalStaked = promauto.NewGauge(prometheus.GaugeOpts{
		Subsystem: "staking",
		Name:      "staked_total",
	})
	promTokensMinted = promauto.NewGauge(prometheus.GaugeOpts{
		Subsystem: "staking",
		Name:      "position_tokens_minted",
	})
	promStakeOps = promauto.NewCounter(prometheus.CounterOpts{
		Subsystem: "staking",
		Name:      "stake_ops_total",
	})
	promClaimOps = promauto.NewCounter(prometheus.CounterOpts{
		Subsystem: "staking",
		Name:      "claim_ops_total",
	})
	promFeesPaid = promauto.NewCounter(prometheus.CounterOpts{
		Subsystem: "staking",
		Name:      "fees_paid_total",
	})
	promRewardAccrued = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Subsystem: "staking",
		Name:      "pool_reward_accrued",
	}, []string{"pool"})
)
