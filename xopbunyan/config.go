package xopbunyan

import (
	"sort"

	"github.com/xoplog/xopbunyan-go/xopbase"
	"github.com/xoplog/xopbunyan-go/xopnum"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// Config is the subset of options that can come from a configuration
// file or the environment.  The zero Config is not the default: start
// from DefaultConfig.
type Config struct {
	Name          string                 `config:"name"`
	SchemaVersion int                    `config:"schema_version"`
	SpanIDs       bool                   `config:"span_ids"`
	SpanType      bool                   `config:"span_type"`
	SpanFields    bool                   `config:"span_fields"`
	SpanStarts    bool                   `config:"span_starts"`
	IdleTime      bool                   `config:"idle_time"`
	MergeCache    bool                   `config:"merge_cache"`
	MessageStyle  string                 `config:"message_style"`
	SkipFields    []string               `config:"skip_fields"`
	DefaultFields map[string]interface{} `config:"default_fields"`
	// Levels overrides entries in the level table: level name
	// ("info", "warn", ...) to Bunyan level number.
	Levels map[string]int `config:"levels"`
}

func DefaultConfig() Config {
	return Config{
		SpanFields:   true,
		SpanStarts:   true,
		MergeCache:   true,
		MessageStyle: PlainMessages.String(),
	}
}

// DecodeConfig overlays raw onto DefaultConfig.  Keys that are not
// part of Config are an error.  Strings are accepted for numbers and
// booleans, and a comma separated string is accepted for skip_fields,
// so values can come straight from environment variables.
func DecodeConfig(raw map[string]interface{}) (Config, error) {
	c := DefaultConfig()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "config",
		Result:           &c,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
	})
	if err != nil {
		return c, errors.Wrap(err, "build config decoder")
	}
	if err := dec.Decode(raw); err != nil {
		return c, errors.Wrap(err, "decode xopbunyan config")
	}
	return c, nil
}

// Options converts a Config into Options for New
func (c Config) Options() ([]Option, error) {
	style, err := ParseMessageStyle(c.MessageStyle)
	if err != nil {
		return nil, err
	}
	opts := []Option{
		WithName(c.Name),
		WithSchemaVersion(c.SchemaVersion),
		WithSpanIDs(c.SpanIDs),
		WithSpanType(c.SpanType),
		WithSpanFields(c.SpanFields),
		WithSpanStarts(c.SpanStarts),
		WithIdleTime(c.IdleTime),
		WithMergeCache(c.MergeCache),
		WithMessageStyle(style),
	}
	if len(c.SkipFields) != 0 {
		opts = append(opts, WithSkipFields(c.SkipFields...))
	}
	if len(c.DefaultFields) != 0 {
		keys := make([]string, 0, len(c.DefaultFields))
		for k := range c.DefaultFields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fields := make([]xopbase.Field, len(keys))
		for i, k := range keys {
			fields[i] = xopbase.Any(k, c.DefaultFields[k])
		}
		opts = append(opts, WithDefaultFields(fields...))
	}
	if len(c.Levels) != 0 {
		m := xopnum.DefaultLevelMap.Copy()
		for name, num := range c.Levels {
			level, err := xopnum.LevelString(name)
			if err != nil {
				return nil, errors.Wrap(err, "config levels")
			}
			m[level] = xopnum.BunyanLevel(num)
		}
		opts = append(opts, WithLevelMap(m))
	}
	return opts, nil
}
