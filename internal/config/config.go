// Package config loads CLI flag defaults from a YAML file.
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the CLI looks for its config file.
const DefaultPath = "~/.bloodlink/config.yaml"

// YAML is a kong.ConfigurationLoader. Keys are flag names with dashes or
// underscores, so both no-color and no_color resolve --no-color. Flags of
// subcommands may be nested under the command name.
//
//	server: https://portal.example.org
//	timeout: 10s
//	requests:
//	  city: Pune
func YAML(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&values); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	var f kong.ResolverFunc = func(kctx *kong.Context, parent *kong.Path, flag *kong.Flag) (any, error) {
		scope := values
		if parent != nil && parent.Command != nil {
			if nested, ok := lookup(values, parent.Command.Name).(map[string]any); ok {
				if v := lookup(nested, flag.Name); v != nil {
					return scalar(v)
				}
			}
		}
		v := lookup(scope, flag.Name)
		if v == nil {
			return nil, nil
		}
		return scalar(v)
	}

	return f, nil
}

func lookup(values map[string]any, name string) any {
	if v, ok := values[name]; ok {
		return v
	}
	if v, ok := values[strings.ReplaceAll(name, "-", "_")]; ok {
		return v
	}
	return nil
}

// scalar renders a YAML value the way it would be typed on the command line.
func scalar(v any) (any, error) {
	switch v := v.(type) {
	case map[string]any:
		return nil, fmt.Errorf("config value must be a scalar or list, got a mapping")
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ","), nil
	default:
		return fmt.Sprint(v), nil
	}
}
