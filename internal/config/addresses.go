package config

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// LoadAddresses reads an allowlist file: either a JSON array of addresses or one address per
// line, with blank lines and # comments ignored.
func LoadAddresses(path string) ([]common.Address, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading allowlist: %w", err)
	}

	var entries []string
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, fmt.Errorf("parsing allowlist: %w", err)
		}
	} else {
		sc := bufio.NewScanner(bytes.NewReader(data))
		for sc.Scan() {
			line, _, _ := strings.Cut(sc.Text(), "#")
			// Tolerate CSV exports: the address is the first column.
			line, _, _ = strings.Cut(line, ",")
			entries = append(entries, line)
		}
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("reading allowlist: %w", err)
		}
	}
	return ParseAddresses(entries)
}
