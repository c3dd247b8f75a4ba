package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadValidConfig(t *testing.T) {
	body := `{
		"rules": [
			{"name": "cidr-check", "table_name": "db.x", "value": {"type": "CidrOrigin", "inbound_cidr": "10.0.0.0/8"}, "action": "Block"},
			{"name": "star-check", "table_name": "db.y", "value": {"type": "SelectStarNoLimit"}, "action": "InjectHeader"},
			{"name": "where-check", "table_name": "db.z", "value": {"type": "WhereClause", "filter": "tenant_id = 42"}},
			{"name": "cost-check", "table_name": "db.w", "value": {"type": "ScanEstimates", "max_cpu_cost": 1000}, "action": "Block"}
		]
	}`
	path := writeConfig(t, body)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Rules, 4)

	require.NotNil(t, cfg.Rules[0].Value.CidrOrigin)
	assert.Equal(t, "10.0.0.0/8", cfg.Rules[0].Value.CidrOrigin.InboundCIDR)

	require.NotNil(t, cfg.Rules[3].Action)
	assert.Equal(t, ActionBlock, *cfg.Rules[3].Action)
}

func TestLoadUnknownVariantType(t *testing.T) {
	body := `{"rules": [{"name": "bad", "table_name": "db.x", "value": {"type": "NotARealVariant"}}]}`
	path := writeConfig(t, body)

	_, err := Load(path)
	require.Error(t, err, "unknown variant type should fail")
}

func TestLoadMalformedCIDR(t *testing.T) {
	body := `{"rules": [{"name": "bad", "table_name": "db.x", "value": {"type": "CidrOrigin", "inbound_cidr": "not-a-cidr"}}]}`
	path := writeConfig(t, body)

	_, err := Load(path)
	require.Error(t, err, "malformed CIDR should fail validation")
}

func TestLoadMalformedFilterExpression(t *testing.T) {
	body := `{"rules": [{"name": "bad", "table_name": "db.x", "value": {"type": "WhereClause", "filter": "this is not ( valid sql"}}]}`
	path := writeConfig(t, body)

	_, err := Load(path)
	require.Error(t, err, "unparseable filter should fail")
}

func TestLoadMissingTableName(t *testing.T) {
	body := `{"rules": [{"name": "bad", "value": {"type": "SelectStarNoLimit"}}]}`
	path := writeConfig(t, body)

	_, err := Load(path)
	require.Error(t, err, "missing table_name should fail validation")
}
