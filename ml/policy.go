package ml

import (
	"log/slog"
	"sync"

	"github.com/hupe1980/shogitt/model"
	"github.com/hupe1980/shogitt/table"
)

// PolicyConfig configures a learned replacement policy.
type PolicyConfig struct {
	// MinSamples is the buffer fill required before the first training
	// pass. Defaults to 64.
	MinSamples int
	// RetrainPeriod is the number of new samples between training passes.
	// Defaults to 128.
	RetrainPeriod int
	// BufferSize bounds the training buffer (oldest-first eviction).
	// Defaults to 1024.
	BufferSize int
	// Scale enables mean/std standardization fitted from buffered samples.
	Scale bool
	// Logger receives training diagnostics; nil disables logging.
	Logger *slog.Logger
}

// PolicyStats summarizes decisions and training activity.
type PolicyStats struct {
	Decisions   int64
	Kept        int64
	Replaced    int64
	Relocated   int64
	Outcomes    int64
	Beneficial  int64
	TrainPasses int64
	Buffered    int
}

// Policy is the ML-driven replacement policy. It satisfies
// table.CollisionDecider, so any backend accepting a decider can use it.
// Safe for concurrent use.
type Policy struct {
	cfg    PolicyConfig
	model  Model
	logger *slog.Logger

	mu          sync.Mutex
	buffer      []Sample
	sinceTrain  int
	trainPasses int64
	scaler      StandardScaler

	decisions  [3]int64
	outcomes   int64
	beneficial int64
}

// NewPolicy creates a Policy around the given model.
func NewPolicy(m Model, cfg PolicyConfig) *Policy {
	if cfg.MinSamples <= 0 {
		cfg.MinSamples = 64
	}
	if cfg.RetrainPeriod <= 0 {
		cfg.RetrainPeriod = 128
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1024
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Policy{
		cfg:    cfg,
		model:  m,
		logger: logger,
		buffer: make([]Sample, 0, cfg.BufferSize),
	}
}

// DecideContext runs the model on a full collision context.
func (p *Policy) DecideContext(ctx *Context) Prediction {
	v := ctx.Vector()

	p.mu.Lock()
	if p.cfg.Scale {
		v = p.scaler.Transform(v)
	}
	p.mu.Unlock()

	pred := p.model.Predict(v)

	p.mu.Lock()
	p.decisions[pred.Decision%3]++
	p.mu.Unlock()

	return pred
}

// Decide implements table.CollisionDecider with an entries-only context.
func (p *Policy) Decide(existing, candidate model.Entry) table.CollisionDecision {
	pred := p.DecideContext(&Context{Existing: existing, Candidate: candidate})

	switch pred.Decision {
	case ReplaceWithNew:
		return table.DecisionReplace
	case StoreNewElsewhere:
		return table.DecisionRelocate
	default:
		return table.DecisionKeep
	}
}

// RecordOutcome feeds an observed outcome into the training buffer and
// retrains the model once enough new samples accumulated.
func (p *Policy) RecordOutcome(ctx *Context, decision Decision, beneficial bool) {
	v := ctx.Vector()

	p.mu.Lock()

	p.outcomes++
	if beneficial {
		p.beneficial++
	}

	if len(p.buffer) >= p.cfg.BufferSize {
		// Oldest-first eviction keeps memory predictable.
		copy(p.buffer, p.buffer[1:])
		p.buffer = p.buffer[:len(p.buffer)-1]
	}
	p.buffer = append(p.buffer, Sample{Features: v, Decision: decision, Beneficial: beneficial})
	p.sinceTrain++

	var toTrain []Sample
	if len(p.buffer) >= p.cfg.MinSamples && p.sinceTrain >= p.cfg.RetrainPeriod {
		toTrain = make([]Sample, len(p.buffer))
		copy(toTrain, p.buffer)
		p.sinceTrain = 0
	}
	p.mu.Unlock()

	if toTrain == nil {
		return
	}

	p.train(toTrain)
}

func (p *Policy) train(samples []Sample) {
	if p.cfg.Scale {
		vectors := make([][]float64, len(samples))
		for i := range samples {
			vectors[i] = samples[i].Features
		}

		p.mu.Lock()
		if err := p.scaler.Fit(vectors); err == nil {
			for i := range samples {
				// Transform copies; the buffer keeps raw vectors so later
				// fits see unscaled data.
				scaled := make([]float64, len(samples[i].Features))
				copy(scaled, samples[i].Features)
				samples[i].Features = p.scaler.Transform(scaled)
			}
		}
		p.mu.Unlock()
	}

	if err := p.model.Train(samples); err != nil {
		p.logger.Warn("model training failed",
			"model", p.model.Name(),
			"samples", len(samples),
			"error", err,
		)
		return
	}

	p.mu.Lock()
	p.trainPasses++
	p.mu.Unlock()

	p.logger.Debug("model retrained",
		"model", p.model.Name(),
		"samples", len(samples),
	)
}

// Stats returns decision and training counters.
func (p *Policy) Stats() PolicyStats {
	p.mu.Lock()
	defer p.mu.Unlock()

	return PolicyStats{
		Decisions:   p.decisions[0] + p.decisions[1] + p.decisions[2],
		Kept:        p.decisions[KeepExisting],
		Replaced:    p.decisions[ReplaceWithNew],
		Relocated:   p.decisions[StoreNewElsewhere],
		Outcomes:    p.outcomes,
		Beneficial:  p.beneficial,
		TrainPasses: p.trainPasses,
		Buffered:    len(p.buffer),
	}
}
