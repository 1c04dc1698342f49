package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/formula/log"
)

// resolve returns a [kong.ConfigurationLoader] that reads YAML config files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config.yaml")
//
// Nested mappings are flattened by joining keys with hyphens, so the
// following sets --log-level and --log-pretty:
//
//	log:
//	  level: debug
//	  pretty: false
//	path: [~/forms, /srv/forms]
//
// Keys may use underscores in place of hyphens (log_level). Lists become
// comma-separated values. A file that cannot be parsed is logged and
// ignored. Command-line flags override config file values.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}

		var raw map[string]any

		if err := yaml.UnmarshalContext(ctx, data, &raw); err != nil {
			log.WarnContext(ctx, "ignoring invalid config", slog.Any("error", err))

			return config{}, nil
		}

		cfg := config{}
		cfg.flatten("", raw)

		return cfg, nil
	}
}

// config implements [kong.Resolver] over flattened YAML.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	if value, ok := c[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil
}

func (c config) flatten(prefix string, m map[string]any) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "-" + k
		}

		if sub, ok := v.(map[string]any); ok {
			c.flatten(key, sub)

			continue
		}

		c[key] = scalar(v)
	}
}

// scalar converts a YAML value to the form Kong parses flag values from.
// Kong requires numbers as strings.
func scalar(v any) any {
	switch x := v.(type) {
	case uint64:
		return strconv.FormatUint(x, 10)

	case int64:
		return strconv.FormatInt(x, 10)

	case int:
		return strconv.Itoa(x)

	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)

	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = fmt.Sprint(scalar(e))
		}

		return strings.Join(parts, ",")

	default:
		return v
	}
}
