package trace

// Tracer is the interface transforms and the codec emit trace events
// through. The only production implementation is RingTracer; Nop is used
// when tracing is disabled.
type Tracer interface {
	// Emit records a trace event. Must be goroutine-safe.
	Emit(ev *Event)

	// Level returns the current tracing level.
	Level() Level

	// Enabled returns true if tracing is active (Level > LevelOff).
	Enabled() bool
}

// Config holds tracer configuration.
type Config struct {
	Level    Level // tracing level
	RingSize int   // ring buffer capacity (default 4096)
}

// New creates a Tracer based on Config.
func New(cfg Config) Tracer {
	if cfg.Level == LevelOff {
		return Nop
	}
	if cfg.RingSize <= 0 {
		cfg.RingSize = 4096
	}
	return NewRingTracer(cfg.RingSize, cfg.Level)
}
