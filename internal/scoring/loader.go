package scoring

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wonny/astro/internal/contracts"
)

// File YAML override document
type File struct {
	Tables []Table `yaml:"tables"`
}

// Table one (dimension, horizon) table in a File
type Table struct {
	Dimension contracts.Dimension `yaml:"dimension"`
	Horizon   contracts.Horizon   `yaml:"horizon"`
	Rules     []Rule              `yaml:"rules"`
}

// LoadRules reads a YAML file whose tables replace the built-in ones.
// Tables not listed keep their defaults.
func LoadRules(path string) (RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	return ParseRules(data)
}

// ParseRules decodes YAML overrides on top of DefaultRules
// KnownFields(true): 오타/미사용 필드는 즉시 실패
func ParseRules(data []byte) (RuleSet, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode rules: %w", err)
	}

	rs := DefaultRules()
	seen := make(map[Key]bool, len(f.Tables))
	for i, t := range f.Tables {
		if !t.Dimension.Valid() || !t.Horizon.Valid() {
			return nil, ValidationError{fmt.Sprintf("tables[%d]", i), fmt.Sprintf("unknown table %s.%s", t.Dimension, t.Horizon)}
		}
		key := Key{Dimension: t.Dimension, Horizon: t.Horizon}
		if seen[key] {
			return nil, ValidationError{fmt.Sprintf("tables[%d]", i), fmt.Sprintf("duplicate table %s.%s", t.Dimension, t.Horizon)}
		}
		seen[key] = true
		rs[key] = t.Rules
	}

	if err := rs.Validate(); err != nil {
		return nil, err
	}
	return rs, nil
}

// Hash fingerprints a rule set (canonical JSON, fixed table order)
func Hash(rs RuleSet) (string, error) {
	ordered := make([]Table, 0, len(contracts.Dimensions)*len(contracts.Horizons))
	for _, d := range contracts.Dimensions {
		for _, h := range contracts.Horizons {
			ordered = append(ordered, Table{Dimension: d, Horizon: h, Rules: rs.Rules(d, h)})
		}
	}

	b, err := json.Marshal(ordered)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
