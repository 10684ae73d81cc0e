package telemetry

import (
	"github.com/armon/go-metrics"
)

const (
	collateralMetricsPrefix = "collateral"
	lifecycleMetricsPrefix  = "lifecycle"
)

func UpdateCollateralPollCounter(action string, cnt int) {
	metrics.IncrCounter([]string{collateralMetricsPrefix, "poll_counter", action}, float32(cnt))
}

func UpdateCollateralCreateCounter(action string, cnt int) {
	metrics.IncrCounter([]string{collateralMetricsPrefix, "create_counter", action}, float32(cnt))
}

func UpdateCollateralExhaustedCounter(action string) {
	metrics.IncrCounter([]string{collateralMetricsPrefix, "exhausted_counter", action}, 1)
}

func UpdatePlansBuiltCounter(action string) {
	metrics.IncrCounter([]string{lifecycleMetricsPrefix, "plans_built_counter", action}, 1)
}

func UpdateTxSubmittedCounter(action string) {
	metrics.IncrCounter([]string{lifecycleMetricsPrefix, "tx_submitted_counter", action}, 1)
}

func UpdateTxFailedCounter(action string, kind string) {
	metrics.IncrCounter([]string{lifecycleMetricsPrefix, "tx_failed_counter", action, kind}, 1)
}

func UpdateTxSize(action string, size int) {
	metrics.SetGauge([]string{lifecycleMetricsPrefix, "tx_size", action}, float32(size))
}
