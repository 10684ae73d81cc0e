package core

import "errors"

var (
	ErrCollateralUnavailable = errors.New("collateral unavailable")
	ErrMissingExpectedUtxo   = errors.New("expected utxo not found")
	ErrPlanConstruction      = errors.New("transaction plan construction failed")
	ErrBalancingFailure      = errors.New("transaction balancing failed")
	ErrSigningFailure        = errors.New("transaction signing failed")
	ErrSubmissionRejected    = errors.New("transaction submission rejected")
)

// ErrorKind returns short name of the error kind or "unknown"
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrCollateralUnavailable):
		return "collateral_unavailable"
	case errors.Is(err, ErrMissingExpectedUtxo):
		return "missing_expected_utxo"
	case errors.Is(err, ErrPlanConstruction):
		return "plan_construction"
	case errors.Is(err, ErrBalancingFailure):
		return "balancing"
	case errors.Is(err, ErrSigningFailure):
		return "signing"
	case errors.Is(err, ErrSubmissionRejected):
		return "submission_rejected"
	default:
		return "unknown"
	}
}
