package monitoring

import (
	"sync"
	"time"

	"github.com/JStLouisCode/SYSC4001-A2-P3/tracing"
)

// A ProgressBar is a tracker of the progress
type ProgressBar struct {
	sync.Mutex
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	StartTime  time.Time `json:"start_time"`
	Total      uint64    `json:"total"`
	Finished   uint64    `json:"finished"`
	InProgress uint64    `json:"in_progress"`
}

// IncrementInProgress adds the number of in-progress element.
func (b *ProgressBar) IncrementInProgress(amount uint64) {
	b.Lock()
	defer b.Unlock()

	if b.StartTime.IsZero() {
		b.StartTime = time.Now()
	}

	b.InProgress += amount
}

// MoveInProgressToFinished reduces the number of in progress item by a certain
// amount and increase the finished item by the same amount.
func (b *ProgressBar) MoveInProgressToFinished(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.InProgress -= amount
	b.Finished += amount
}

// Counts returns the finished and in-progress numbers.
func (b *ProgressBar) Counts() (finished, inProgress uint64) {
	b.Lock()
	defer b.Unlock()

	return b.Finished, b.InProgress
}

// progressTracer counts interpretation frames on a bar.
type progressTracer struct {
	bar *ProgressBar
}

func newProgressTracer(bar *ProgressBar) *progressTracer {
	return &progressTracer{bar: bar}
}

func (t *progressTracer) StartTask(_ tracing.Task) {
	t.bar.IncrementInProgress(1)
}

func (t *progressTracer) StepTask(_ tracing.Task) {}

func (t *progressTracer) EndTask(_ tracing.Task) {
	t.bar.MoveInProgressToFinished(1)
}
