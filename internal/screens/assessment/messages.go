package assessment

import (
	assess "github.com/abhisek/coursefit/internal/assessment"
)

// savedMsg reports the outcome of persisting a finalized result.
type savedMsg struct {
	Result *assess.Result
	Err    error
}
