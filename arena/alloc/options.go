package alloc

import "log/slog"

// Option configures a FirstFit allocator.
type Option func(*FirstFit)

// WithLogger sets the logger used for growth, split, and failure events.
func WithLogger(l *slog.Logger) Option {
	return func(a *FirstFit) {
		if l != nil {
			a.log = l
		}
	}
}

// WithMetrics reports allocator activity to m.
func WithMetrics(m *Metrics) Option {
	return func(a *FirstFit) { a.metrics = m }
}

// WithDirtyTracker reports every header write to dt. Use it with a
// file-backed arena so the writes can be flushed.
func WithDirtyTracker(dt DirtyTracker) Option {
	return func(a *FirstFit) { a.dt = dt }
}

// WithGrowHook calls fn with the block count before every growth request.
func WithGrowHook(fn func(blocks uint32)) Option {
	return func(a *FirstFit) { a.onGrow = fn }
}
