package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"
)

// EnvPrefix prefixes every environment variable the library
// reads.
const EnvPrefix = "DOUBLES_"

// Getter looks up environment values.
type Getter interface {
	Get(key string) string
}

// EnvLoader reads variables from .env files and the process
// environment. Process variables take precedence over loaded
// ones.
type EnvLoader struct {
	mu     sync.RWMutex
	vars   map[string]string
	loaded bool
}

// NewEnvLoader creates an empty EnvLoader.
func NewEnvLoader() *EnvLoader {
	return &EnvLoader{vars: make(map[string]string)}
}

// Load reads KEY=VALUE lines from a .env file. Blank lines and
// lines starting with # are skipped and surrounding quotes are
// removed from values.
func (l *EnvLoader) Load(path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open env file %s: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)
		l.vars[key] = value
	}

	l.loaded = true
	return scanner.Err()
}

// Loaded reports whether a file has been loaded.
func (l *EnvLoader) Loaded() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loaded
}

// Get returns the value for key, preferring the process
// environment.
func (l *EnvLoader) Get(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.vars[key]
}

// GetWithDefault returns the value for key, or defaultValue
// when it is unset.
func (l *EnvLoader) GetWithDefault(key, defaultValue string) string {
	if v := l.Get(key); v != "" {
		return v
	}
	return defaultValue
}

// Set stores a value in the loader only. The process
// environment is left untouched.
func (l *EnvLoader) Set(key, value string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.vars[key] = value
}

// All returns a copy of the loaded variables.
func (l *EnvLoader) All() map[string]string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	result := make(map[string]string, len(l.vars))
	for k, v := range l.vars {
		result[k] = v
	}
	return result
}
