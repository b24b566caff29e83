package loader

import (
	"os"
	"sort"
	"strings"
)

// EnvLoader collects configuration overrides from environment variables.
type EnvLoader struct {
	prefix  string            // Environment variable prefix (e.g., "ICONIZE_")
	mapping map[string]string // Env var -> config path
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "ICONIZE_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: make(map[string]string),
	}
}

// AddMapping routes an environment variable to a config path that the
// default naming rule would not produce.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	l.mapping[envVar] = configPath
}

// RemoveMapping removes an environment variable mapping.
func (l *EnvLoader) RemoveMapping(envVar string) {
	delete(l.mapping, envVar)
}

// Override is one environment value destined for a config path.
type Override struct {
	Env   string
	Path  string
	Value string
}

// Load returns every prefixed variable as an override, sorted by path.
// Empty values are kept; they are valid settings, not unset ones.
func (l *EnvLoader) Load() []Override {
	var out []Override
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		path, mapped := l.mapping[name]
		if !mapped {
			path = l.envToPath(name)
		}
		out = append(out, Override{Env: name, Path: path, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// envToPath converts ICONIZE_GLYPH_BASE_SIZE to glyph.baseSize.
func (l *EnvLoader) envToPath(env string) string {
	name := strings.TrimPrefix(env, l.prefix)
	parts := strings.Split(name, "_")

	section := strings.ToLower(parts[0])
	if len(parts) == 1 {
		return section
	}

	settingName := strings.ToLower(parts[1])
	for _, part := range parts[2:] {
		if len(part) > 0 {
			settingName += strings.ToUpper(part[:1]) + strings.ToLower(part[1:])
		}
	}
	return section + "." + settingName
}
