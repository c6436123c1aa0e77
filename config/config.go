// Package config reads and writes the flat key=value configuration
// file the desktop daemon loads at startup (§6.3). The format is kept
// on the standard library rather than a third-party parser: no example
// in the corpus targets this exact "preserve insertion order, round-trip
// unknown keys" grammar, and the format itself is a handful of lines of
// bufio.Scanner work.
package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/zyncd/zyncd/reconcile"
	"github.com/zyncd/zyncd/zyncerr"
)

// Config is an ordered set of key=value pairs.
type Config struct {
	order  []string
	values map[string]string
}

// New returns an empty Config.
func New() *Config {
	return &Config{values: make(map[string]string)}
}

// Load reads path into a new Config. A missing file is not an error;
// Load returns an empty Config so the daemon can run with defaults.
func Load(path string) (*Config, error) {
	c := New()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, fmt.Errorf("%w: open %s: %v", zyncerr.ErrConfig, path, err)
	}
	defer f.Close()
	if err := c.readFrom(f); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) readFrom(r io.Reader) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, val, ok := strings.Cut(line, "=")
		if !ok || strings.Contains(val, "=") {
			return fmt.Errorf("%w: malformed line %q", zyncerr.ErrConfig, line)
		}
		c.Set(strings.TrimSpace(key), strings.TrimSpace(val))
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("%w: %v", zyncerr.ErrConfig, err)
	}
	return nil
}

// Get returns the value for key, or "" if unset.
func (c *Config) Get(key string) string { return c.values[key] }

// GetDefault returns the value for key, or def if unset.
func (c *Config) GetDefault(key, def string) string {
	if v, ok := c.values[key]; ok {
		return v
	}
	return def
}

// Set assigns key=val, preserving the original insertion position for
// an existing key and appending new keys at the end.
func (c *Config) Set(key, val string) {
	if _, exists := c.values[key]; !exists {
		c.order = append(c.order, key)
	}
	c.values[key] = val
}

// Save writes the config back to path in insertion order.
func (c *Config) Save(path string) error {
	var b strings.Builder
	for _, k := range c.order {
		fmt.Fprintf(&b, "%s=%s\n", k, c.values[k])
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("%w: write %s: %v", zyncerr.ErrConfig, path, err)
	}
	return nil
}

// ConflictWinner parses the conflict_winner key into a reconcile.Policy,
// defaulting to DeviceWins when unset (§9 open question: the original
// left this implicit via argument order; this module makes it explicit).
func (c *Config) ConflictWinner() (reconcile.Policy, error) {
	v, ok := c.values["conflict_winner"]
	if !ok {
		return reconcile.DeviceWins, nil
	}
	return reconcile.ParsePolicy(v)
}

// ListenPort returns the listen_port key, defaulting to 4245.
func (c *Config) ListenPort() (int, error) {
	return c.intOr("listen_port", 4245)
}

// InitiatePort returns the initiate_port key, defaulting to 4244.
func (c *Config) InitiatePort() (int, error) {
	return c.intOr("initiate_port", 4244)
}

func (c *Config) intOr(key string, def int) (int, error) {
	v, ok := c.values[key]
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q: %v", zyncerr.ErrConfig, key, v, err)
	}
	return n, nil
}
