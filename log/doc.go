// Package log provides a leveled structured logger built on [log/slog].
//
// A [Logger] is an immutable value: options are applied when it is created
// with [Make] or derived with [Logger.Wrap], and [Logger.With] returns a copy
// that carries extra attributes. The zero Logger discards everything, which
// lets library types hold one without checking whether logging was set up.
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithPretty(false))
//
//	logger.Debug("resolved", slog.String("field", "total"))
//
// # Levels
//
// In addition to the slog levels, [LevelTrace] sits below [LevelDebug]. The
// formula evaluator and document context log every resolution step at
// trace level.
//
// # Output
//
// [FormatText] and [FormatJSON] select the slog text and JSON handlers.
// With [WithPretty] enabled (the default) both are replaced by a colorized
// handler; colors are dropped when the output is not a terminal.
//
// # Package Logger
//
// The package-level functions ([Info], [Debug], ...) write to a default
// logger on standard error, reconfigured with [Config].
package log
