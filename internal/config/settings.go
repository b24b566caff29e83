package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// setting parses an environment value into one field.
type setting struct {
	set func(string) error
}

func stringSetting(p *string) setting {
	return setting{set: func(v string) error {
		*p = v
		return nil
	}}
}

func intSetting(p *int) setting {
	return setting{set: func(v string) error {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("not an integer: %w", err)
		}
		*p = n
		return nil
	}}
}

func floatSetting(p *float64) setting {
	return setting{set: func(v string) error {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("not a number: %w", err)
		}
		*p = f
		return nil
	}}
}

func boolSetting(p *bool) setting {
	return setting{set: func(v string) error {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "on", "1":
			*p = true
		case "false", "no", "off", "0", "":
			*p = false
		default:
			return errors.New("not a boolean")
		}
		return nil
	}}
}

// listSetting splits comma-separated values; an empty value clears the list.
func listSetting(p *[]string) setting {
	return setting{set: func(v string) error {
		*p = nil
		for _, item := range strings.Split(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				*p = append(*p, item)
			}
		}
		return nil
	}}
}

func floatListSetting(p *[]float64) setting {
	return setting{set: func(v string) error {
		var out []float64
		for _, item := range strings.Split(v, ",") {
			f, err := strconv.ParseFloat(strings.TrimSpace(item), 64)
			if err != nil {
				return fmt.Errorf("not a number list: %w", err)
			}
			out = append(out, f)
		}
		*p = out
		return nil
	}}
}

// settings maps config paths to the fields of c.
func (c *Config) settings() map[string]setting {
	return map[string]setting{
		"display.mode":          stringSetting(&c.Display.Mode),
		"display.tabWidth":      intSetting(&c.Display.TabWidth),
		"glyph.baseSize":        floatSetting(&c.Glyph.BaseSize),
		"glyph.headingScales":   floatListSetting(&c.Glyph.HeadingScales),
		"icons.builtin":         boolSetting(&c.Icons.Builtin),
		"icons.packs":           listSetting(&c.Icons.Packs),
		"icons.database":        stringSetting(&c.Icons.Database),
		"icons.watch":           boolSetting(&c.Icons.Watch),
		"viewport.padding":      intSetting(&c.Viewport.Padding),
		"viewport.marginTop":    intSetting(&c.Viewport.MarginTop),
		"viewport.marginBottom": intSetting(&c.Viewport.MarginBottom),
		"logging.level":         stringSetting(&c.Logging.Level),
		"logging.file":          stringSetting(&c.Logging.File),
		"logging.json":          boolSetting(&c.Logging.JSON),
	}
}
