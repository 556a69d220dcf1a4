package extractor

import (
	"context"
	"time"

	"clipper/clipper/utils/logging"

	"go.uber.org/zap"
)

// Orchestrator races the heavy extractor against its budget and degrades
// to the lightweight path when it loses. It never returns an error: every
// internal failure is absorbed into a Basic outcome.
type Orchestrator struct {
	heavy       *HeavyExtractor
	heavyBudget time.Duration
	lightBudget time.Duration
}

func NewOrchestrator(heavy *HeavyExtractor, heavyBudget, lightBudget time.Duration) *Orchestrator {
	return &Orchestrator{
		heavy:       heavy,
		heavyBudget: heavyBudget,
		lightBudget: lightBudget,
	}
}

// Run produces exactly one Full or Basic outcome.
//
// The heavy extractor gets a context bounded by the heavy budget, so
// losing the race cancels its in-flight sockets instead of letting them
// drain. Worst case wall clock is roughly heavyBudget + lightBudget.
func (o *Orchestrator) Run(ctx context.Context, rawURL string) Outcome {
	start := time.Now()

	hctx, cancel := context.WithTimeout(ctx, o.heavyBudget)
	defer cancel()

	type heavyMsg struct {
		full *Full
		err  error
	}
	// Buffered: an abandoned heavy goroutine must not block on send.
	ch := make(chan heavyMsg, 1)
	go func() {
		full, err := o.heavy.Extract(hctx, rawURL)
		ch <- heavyMsg{full, err}
	}()

	select {
	case msg := <-ch:
		if msg.err == nil {
			return Outcome{Status: StatusFull, Full: msg.full, Elapsed: time.Since(start)}
		}
		logging.AppLogger.Warn("heavy extraction failed, falling back",
			zap.String("url", rawURL), zap.Error(msg.err))
	case <-hctx.Done():
		logging.AppLogger.Warn("heavy extraction timed out, falling back",
			zap.String("url", rawURL), zap.Duration("budget", o.heavyBudget))
	}
	cancel() // abort whatever the heavy path still has in flight

	basic := ExtractLight(ctx, rawURL, o.lightBudget)
	return Outcome{Status: StatusBasic, Basic: &basic, Elapsed: time.Since(start)}
}
