// Package cli contains the command line interface for formula.
//
// # Usage
//
//	formula '1 + 2 * 3'
//	formula eval -d invoice.yaml '{total} * 2'
//	formula eval -v rate=0.2 -o json 'ROUND(100 * {rate}, 1)'
//	formula parse -o tree 'SUM(MAP(items, (r) -> r.price))'
//	formula resolve -d invoice.yaml total items.price
//	formula check -d invoice.yaml
//	formula repl -d invoice.yaml
//
// Documents named with -d are looked up in the working directory, then in
// each directory given with --path, then in FORMULA_PATH.
//
// # Configuration
//
// Flags may also be set in config.yaml (or config.json) in the user config
// directory. Nested keys are joined with hyphens:
//
//	log:
//	  level: debug
//	  format: text
//	path: [~/forms]
//
// Command-line flags override config file values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, none, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o formula .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: ~/.cache/formula/pprof)
package cli
