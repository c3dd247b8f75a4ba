package rules

import (
	"encoding/json"
	"fmt"
	"os"

	"starproxy/internal/shared/utils"
	"starproxy/internal/sqlast"
)

// Load reads and validates a rule config file. Beyond struct-tag
// validation, each WhereClause filter is parsed eagerly so a malformed
// predicate expression fails at startup instead of on the first matching
// request.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rule config %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parsing rule config %s: %w", path, err)
	}

	if err := utils.ValidateStruct(&cfg); err != nil {
		return nil, fmt.Errorf("validating rule config %s: %w", path, err)
	}

	for _, entry := range cfg.Rules {
		if entry.Value.Type == VariantWhereClause {
			if _, err := sqlast.ParseExpr(entry.Value.WhereClause.Filter); err != nil {
				return nil, fmt.Errorf("rule %q: invalid filter expression %q: %w", entry.Name, entry.Value.WhereClause.Filter, err)
			}
		}
	}

	return &cfg, nil
}
