package core

// BridgeStats represents runtime observability state for a bridge.
type BridgeStats struct {
	Name        string
	State       string
	Queued      int
	Outstanding int
}
