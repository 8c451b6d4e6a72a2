package loader

import (
	"os"
	"strconv"
	"strings"
)

// EnvPrefix is the prefix for fuzzypatch environment variables.
const EnvPrefix = "FUZZYPATCH_"

// EnvLoader loads configuration from environment variables.
type EnvLoader struct {
	prefix  string            // Environment variable prefix (e.g., "FUZZYPATCH_")
	mapping map[string]string // Env var -> config path
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "FUZZYPATCH_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(),
	}
}

// NewEnvLoaderWithMapping creates a loader with custom environment variable mappings.
func NewEnvLoaderWithMapping(prefix string, mapping map[string]string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: mapping,
	}
}

// defaultEnvMapping returns the default environment variable mappings.
// These cover settings whose names would not survive the generic
// SECTION_KEY split, plus convenient short forms.
func defaultEnvMapping() map[string]string {
	return map[string]string{
		"FUZZYPATCH_BACKUP":    "apply.backup",
		"FUZZYPATCH_DRY_RUN":   "apply.dry_run",
		"FUZZYPATCH_COLOR":     "output.color",
		"FUZZYPATCH_JSON":      "output.json",
		"FUZZYPATCH_LOG_LEVEL": "log.level",
		"FUZZYPATCH_LOG_FILE":  "log.file",
	}
}

// Load reads environment variables and returns a configuration map.
// Note: Empty string values are treated as valid values, not as unset.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)

	// First, load explicitly mapped variables
	for env, path := range l.mapping {
		if val, ok := os.LookupEnv(env); ok {
			setByPath(config, path, parseValue(val))
		}
	}

	// Then, scan for additional prefixed variables not in mapping
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, l.prefix) {
			continue
		}

		name, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}

		// Skip if already mapped
		if _, ok := l.mapping[name]; ok {
			continue
		}

		// Convert FUZZYPATCH_OUTPUT_CONTEXT to output.context
		setByPath(config, l.envToPath(name), parseValue(value))
	}

	return config, nil
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	if l.mapping == nil {
		l.mapping = make(map[string]string)
	}
	l.mapping[envVar] = configPath
}

// envToPath converts FUZZYPATCH_APPLY_DRY_RUN to apply.dry_run. The
// first underscore-separated part after the prefix names the section;
// the rest form the setting name.
func (l *EnvLoader) envToPath(env string) string {
	name := strings.ToLower(strings.TrimPrefix(env, l.prefix))

	section, setting, ok := strings.Cut(name, "_")
	if !ok {
		return name
	}
	return section + "." + setting
}

// parseValue attempts to parse the string value into an appropriate type.
func parseValue(s string) any {
	if s == "" {
		return s
	}

	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}

	// Numeric 0/1 stay integers; settings that expect a bool coerce them.
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}

	return s
}

// setByPath sets a value in a nested map using a dot-separated path.
func setByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data

	for i := 0; i < len(parts)-1; i++ {
		part := parts[i]
		if next, ok := current[part].(map[string]any); ok {
			current = next
		} else {
			next := make(map[string]any)
			current[part] = next
			current = next
		}
	}

	current[parts[len(parts)-1]] = value
}
