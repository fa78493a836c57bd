package strategy

import "fmt"

// UnknownStrategyError reports an unrecognized strategy identifier.
type UnknownStrategyError struct {
	StrategyID string
}

func (e *UnknownStrategyError) Error() string {
	return fmt.Sprintf("unknown strategy %q", e.StrategyID)
}

// InvalidParameterError reports a parameter outside its documented range
// or of the wrong shape. Field names the offending parameter.
type InvalidParameterError struct {
	StrategyID string
	Field      string
	Reason     string
}

func (e *InvalidParameterError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: invalid parameters: %s", e.StrategyID, e.Reason)
	}
	return fmt.Sprintf("%s: invalid parameter %q: %s", e.StrategyID, e.Field, e.Reason)
}

// MalformedSeriesError reports a NAV series violating its ordering or
// uniqueness invariants. A data-quality problem in the upstream provider,
// distinct from a series that is merely too short.
type MalformedSeriesError struct {
	Index  int
	Reason string
}

func (e *MalformedSeriesError) Error() string {
	return fmt.Sprintf("malformed NAV series at index %d: %s", e.Index, e.Reason)
}
