// Package profile wraps [github.com/pkg/profile] so the formula command can
// be profiled without paying for it in normal builds.
//
// Profiling is compiled in only with the pprof build tag:
//
//	go build -tags pprof .
//	./formula --pprof-mode cpu eval -d invoice.yaml '{total}'
//
// Without the tag, [Modes] is empty and [Profiler.Start] returns a no-op.
// With it, the tag also registers the [net/http/pprof] handlers.
//
// Profiles are written to the directory named by [Profiler.Path] (by default
// the "pprof" subdirectory of the user cache directory) and are read with
// go tool pprof:
//
//	go tool pprof -http=: ./formula ~/.cache/formula/pprof/cpu.pprof
package profile
