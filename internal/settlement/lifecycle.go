package settlement

import (
	"math"
	"time"

	"github.com/carbonport/deskcore/internal/model"
)

// Stage is one happy-path step annotated for display.
type Stage struct {
	Status    model.SettlementStatus
	Completed bool
	Current   bool
}

// Stages computes completion flags for the five happy-path stages given the
// batch status. A stage is completed when its ordinal is at or before the
// status ordinal, and current when they match. FAILED marks no stage as
// current: it is an out-of-band terminal marker rendered separately.
func Stages(status model.SettlementStatus) []Stage {
	ord := status.Ordinal()

	path := model.HappyPath()
	stages := make([]Stage, len(path))
	for i, st := range path {
		stages[i] = Stage{
			Status:    st,
			Completed: ord >= 0 && i <= ord,
			Current:   ord >= 0 && i == ord,
		}
	}
	return stages
}

// CanTransition reports whether the server may legally move a batch from
// one status to another: one step forward on the happy path, or FAILED from
// any non-terminal state.
func CanTransition(from, to model.SettlementStatus) bool {
	if from.Terminal() {
		return false
	}
	if to == model.StatusFailed {
		return true
	}
	fromOrd, toOrd := from.Ordinal(), to.Ordinal()
	return fromOrd >= 0 && toOrd == fromOrd+1
}

// DaysRemaining returns ceil((expected − now) / 1 day) for a batch, which
// is negative once overdue. ok is false when the batch is already SETTLED
// and the figure is meaningless. A FAILED batch keeps its figure so the UI
// can show how overdue it was when it failed.
func DaysRemaining(batch model.SettlementBatch, now time.Time) (days int, ok bool) {
	if batch.Status == model.StatusSettled {
		return 0, false
	}
	remaining := batch.ExpectedSettlementDate.Sub(now)
	return int(math.Ceil(remaining.Hours() / 24)), true
}

// Progress returns a batch's completion percentage in [0,100].
//
// A server-supplied figure wins (clamped, so bad data cannot escape the
// range). Otherwise progress is linear between createdAt and the expected
// settlement date. Terminal batches stop the clock: SETTLED is always 100,
// FAILED freezes at the failure time when known.
func Progress(batch model.SettlementBatch, now time.Time) float64 {
	if batch.ProgressPercent != nil {
		return clampPercent(*batch.ProgressPercent)
	}

	switch batch.Status {
	case model.StatusSettled:
		return 100
	case model.StatusFailed:
		if at, ok := failedAt(batch); ok && at.Before(now) {
			now = at
		}
	}

	total := batch.ExpectedSettlementDate.Sub(batch.CreatedAt)
	if total <= 0 {
		// Expected date at or before creation is degenerate data; the batch
		// is due immediately rather than NaN/Inf.
		return 100
	}

	elapsed := now.Sub(batch.CreatedAt)
	return clampPercent(float64(elapsed) / float64(total) * 100)
}

// failedAt finds when a batch failed, preferring the timeline entry over
// the actual settlement date.
func failedAt(batch model.SettlementBatch) (time.Time, bool) {
	for i := len(batch.Timeline) - 1; i >= 0; i-- {
		if batch.Timeline[i].Status == model.StatusFailed {
			return batch.Timeline[i].At, true
		}
	}
	if batch.ActualSettlementDate != nil {
		return *batch.ActualSettlementDate, true
	}
	return time.Time{}, false
}

func clampPercent(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Pending reports whether a batch still belongs in the pending view.
// Terminal batches drop out but stay queryable by id.
func Pending(batch model.SettlementBatch) bool {
	return !batch.Status.Terminal()
}
