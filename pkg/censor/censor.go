package censor

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// SegmentChecker resolves one text segment to an allow/block verdict.
type SegmentChecker interface {
	CheckSegment(ctx context.Context, content string) bool
}

// Censor reduces arbitrary-length text to a single allow/block verdict:
// the text is split into segments, each segment is checked concurrently,
// and the per-segment verdicts are AND-ed together.
type Censor struct {
	checker SegmentChecker
	logger  *logrus.Logger
}

func NewCensor(checker SegmentChecker, logger *logrus.Logger) *Censor {
	return &Censor{
		checker: checker,
		logger:  logger,
	}
}

// CheckText returns true when every segment of text passes moderation.
// Empty text is vacuously allowed without dispatching anything. The verdict
// is always a plain boolean; any failure along the way resolves to false.
func (c *Censor) CheckText(ctx context.Context, text string) bool {
	if text == "" {
		return true
	}

	segments := splitText(text)
	if len(segments) == 1 {
		return c.checkSegment(ctx, segments[0])
	}

	// All segments are dispatched concurrently and awaited jointly; the
	// reduction runs only after every verdict is in.
	verdicts := make([]bool, len(segments))
	var wg sync.WaitGroup
	for i, segment := range segments {
		wg.Add(1)
		go func(i int, segment string) {
			defer wg.Done()
			verdicts[i] = c.checkSegment(ctx, segment)
		}(i, segment)
	}
	wg.Wait()

	for _, allowed := range verdicts {
		if !allowed {
			return false
		}
	}
	return true
}

// checkSegment wraps the checker so an unexpected panic in a single segment
// resolves that segment to blocked instead of taking down the whole check.
func (c *Censor) checkSegment(ctx context.Context, segment string) (allowed bool) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.WithField("panic", r).Error("segment moderation panicked")
			allowed = false
		}
	}()
	return c.checker.CheckSegment(ctx, segment)
}
