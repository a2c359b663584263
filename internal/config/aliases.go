package config

import (
	"bufio"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
)

// AliasConfig holds item label aliases declared by the user. Each key is a
// raw label as it appears in input files and the value is the canonical item
// label it is counted as, e.g. "whole milk=milk".
type AliasConfig struct {
	Aliases map[string]string
}

// LoadAliases reads an aliases file of "raw=canonical" lines. If the file does
// not exist, an empty config is returned without an error. Invalid or
// malformed lines are silently skipped.
func LoadAliases(path string) (*AliasConfig, error) {
	cfg := &AliasConfig{
		Aliases: make(map[string]string),
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrapf(err, "failed to open aliases file %s", path)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip blank lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		idx := strings.IndexByte(line, '=')
		if idx <= 0 {
			continue // no "=" or "=" is first character
		}

		raw := strings.TrimSpace(line[:idx])
		canonical := strings.TrimSpace(line[idx+1:])
		if raw == "" || canonical == "" {
			continue
		}

		cfg.Aliases[raw] = canonical
	}

	if err := scanner.Err(); err != nil {
		return cfg, errors.Wrapf(err, "failed to read aliases file %s", path)
	}

	return cfg, nil
}
