package trust

import "fmt"

// InvalidEdgeError reports a raw rating that cannot become a graph edge:
// a score outside [0,10] or a self-rating. Rejection happens at graph
// construction, before the rating can pollute the propagation input.
type InvalidEdgeError struct {
	RaterID  int64
	TargetID int64
	Reason   string
}

func (e *InvalidEdgeError) Error() string {
	return fmt.Sprintf("invalid rating %d -> %d: %s", e.RaterID, e.TargetID, e.Reason)
}
