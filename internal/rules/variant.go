package rules

import (
	"encoding/json"
	"fmt"
)

// VariantType is the discriminant carried by a RuleEntry's "value.type"
// field.
type VariantType string

const (
	VariantWhereClause       VariantType = "WhereClause"
	VariantSelectStarNoLimit VariantType = "SelectStarNoLimit"
	VariantCidrOrigin        VariantType = "CidrOrigin"
	VariantScanEstimates     VariantType = "ScanEstimates"
)

// WhereClauseParams requires the named table to carry the given predicate.
type WhereClauseParams struct {
	Filter string `json:"filter" validate:"required"`
}

// SelectStarNoLimitParams has no parameters; its presence is the rule.
type SelectStarNoLimitParams struct{}

// CidrOriginParams restricts the named table to requests originating from
// an IPv4 address inside InboundCIDR.
type CidrOriginParams struct {
	InboundCIDR string `json:"inbound_cidr" validate:"required,cidrv4"`
}

// ScanEstimatesParams bounds the named table's queries by an upstream
// EXPLAIN plan's worst-case CPU cost.
type ScanEstimatesParams struct {
	MaxCPUCost float64 `json:"max_cpu_cost" validate:"required,gt=0"`
}

// Variant is a discriminated union over the four rule kinds. Exactly one
// of the typed fields is populated, matching Type.
type Variant struct {
	Type VariantType `json:"type" validate:"required,oneof=WhereClause SelectStarNoLimit CidrOrigin ScanEstimates"`

	WhereClause       *WhereClauseParams       `json:"-" validate:"omitempty"`
	SelectStarNoLimit *SelectStarNoLimitParams `json:"-" validate:"omitempty"`
	CidrOrigin        *CidrOriginParams        `json:"-" validate:"omitempty"`
	ScanEstimates     *ScanEstimatesParams     `json:"-" validate:"omitempty"`
}

// UnmarshalJSON dispatches on the "type" discriminant, decoding the
// remaining fields into the matching params struct. An unrecognized type
// fails load-time parsing rather than silently becoming a no-op rule.
func (v *Variant) UnmarshalJSON(data []byte) error {
	var head struct {
		Type VariantType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return fmt.Errorf("rule variant: %w", err)
	}

	v.Type = head.Type

	switch head.Type {
	case VariantWhereClause:
		var params WhereClauseParams
		if err := json.Unmarshal(data, &params); err != nil {
			return fmt.Errorf("rule variant WhereClause: %w", err)
		}
		v.WhereClause = &params
	case VariantSelectStarNoLimit:
		v.SelectStarNoLimit = &SelectStarNoLimitParams{}
	case VariantCidrOrigin:
		var params CidrOriginParams
		if err := json.Unmarshal(data, &params); err != nil {
			return fmt.Errorf("rule variant CidrOrigin: %w", err)
		}
		v.CidrOrigin = &params
	case VariantScanEstimates:
		var params ScanEstimatesParams
		if err := json.Unmarshal(data, &params); err != nil {
			return fmt.Errorf("rule variant ScanEstimates: %w", err)
		}
		v.ScanEstimates = &params
	default:
		return fmt.Errorf("rule variant: unknown type %q", head.Type)
	}

	return nil
}

// MarshalJSON re-emits the discriminant alongside whichever params struct
// is populated, flattened to a single object — the inverse of UnmarshalJSON.
func (v Variant) MarshalJSON() ([]byte, error) {
	type envelope map[string]interface{}
	env := envelope{"type": v.Type}

	var params interface{}
	switch v.Type {
	case VariantWhereClause:
		params = v.WhereClause
	case VariantSelectStarNoLimit:
		params = v.SelectStarNoLimit
	case VariantCidrOrigin:
		params = v.CidrOrigin
	case VariantScanEstimates:
		params = v.ScanEstimates
	}

	if params != nil {
		raw, err := json.Marshal(params)
		if err != nil {
			return nil, err
		}
		var fields map[string]interface{}
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, err
		}
		for k, val := range fields {
			env[k] = val
		}
	}

	return json.Marshal(env)
}
