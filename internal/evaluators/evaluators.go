// Package evaluators implements one function per rule variant: a pure
// mapping from (parsed query + request metadata) to violation / no
// violation, except ScanEstimates, which additionally makes an upstream
// EXPLAIN call.
package evaluators

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/dolthub/vitess/go/vt/sqlparser"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"starproxy/internal/explain"
	"starproxy/internal/metrics"
	"starproxy/internal/query"
	"starproxy/internal/rules"
	apperrors "starproxy/internal/shared/errors"
	"starproxy/internal/shared/logger"
	"starproxy/internal/sqlast"
	"starproxy/internal/tracing"
)

// referenced reports whether table is among the tables extracted from the
// parsed statement — the common "skip if table not referenced" gate every
// evaluator applies before doing any real work.
func referenced(tables map[string]struct{}, table string) bool {
	_, ok := tables[table]
	return ok
}

// CidrOrigin is a violation when the rule's table is referenced and the
// first X-Forwarded-For value either is absent (fail-closed) or does not
// fall inside the configured CIDR.
func CidrOrigin(tables map[string]struct{}, table string, params *rules.CidrOriginParams, qd *query.Data) (bool, error) {
	if !referenced(tables, table) {
		return false, nil
	}

	values := qd.Headers.Values("X-Forwarded-For")
	if len(values) == 0 {
		return true, nil
	}

	first := strings.TrimSpace(strings.SplitN(values[0], ",", 2)[0])
	ip := net.ParseIP(first)
	if ip == nil || ip.To4() == nil {
		return true, nil
	}

	_, cidr, err := net.ParseCIDR(params.InboundCIDR)
	if err != nil {
		return false, apperrors.NewInternalError("invalid inbound_cidr in rule config", err.Error())
	}

	if cidr.Contains(ip.To4()) {
		return false, nil
	}
	return true, nil
}

// WhereClause is a violation when the rule's table is referenced and the
// configured filter predicate is not present anywhere in the statement.
func WhereClause(stmt sqlparser.Statement, tables map[string]struct{}, table string, params *rules.WhereClauseParams) (bool, error) {
	if !referenced(tables, table) {
		return false, nil
	}

	target, err := sqlast.ParseExpr(params.Filter)
	if err != nil {
		return false, apperrors.NewInternalError("failed to parse configured filter expression", err.Error())
	}

	if sqlast.ContainsPredicate(stmt, target) {
		return false, nil
	}
	return true, nil
}

// SelectStarNoLimit delegates to sqlast's combined FROM/wildcard/LIMIT
// check.
func SelectStarNoLimit(stmt sqlparser.Statement, tables map[string]struct{}, table string) (bool, error) {
	if !referenced(tables, table) {
		return false, nil
	}
	return sqlast.SelectStarWithoutLimit(stmt, table), nil
}

// allowedStrippedHeaders lists the headers removed before forwarding a
// synthesized EXPLAIN request — a strip-list, not a keep-list. A
// keep-list would drop Authorization and every other header the
// upstream statement endpoint needs end-to-end.
var allowedStrippedHeaders = []string{"Content-Length", "Content-Type", "If-Match", "Range"}

// ScanEstimates requires an authenticated caller; with no Authorization
// header present the evaluator itself fails (fatal for the request, per
// the error-handling disposition table). Otherwise it issues the upstream
// EXPLAIN call and compares the plan's maximum observed CPU cost against
// the configured threshold. An upstream failure is logged and treated as
// no-violation — the system prefers to forward over blocking on an
// unreliable auxiliary call.
func ScanEstimates(ctx context.Context, client *http.Client, upstreamBaseURL string, tables map[string]struct{}, table string, params *rules.ScanEstimatesParams, qd *query.Data) (bool, error) {
	if !referenced(tables, table) {
		return false, nil
	}

	if qd.Headers.Get("Authorization") == "" {
		return false, apperrors.NewInternalError("ScanEstimates requires an Authorization header")
	}

	span, ctx := tracing.StartSpan(ctx, "scan_estimates.explain")
	defer span.Finish()

	forwarded := stripHeaders(qd.Headers, allowedStrippedHeaders)

	timer := prometheus.NewTimer(metrics.ExplainCallDuration)
	node, err := explain.FetchPlan(ctx, client, upstreamBaseURL, forwarded, qd.SQL)
	timer.ObserveDuration()

	if err != nil {
		metrics.ExplainCallFailures.Inc()
		logger.Warn("explain upstream call failed, treating as no-violation",
			zap.String("table", table),
			zap.Error(err))
		return false, nil
	}

	return explain.MaxCPUCost(node) > params.MaxCPUCost, nil
}

func stripHeaders(headers http.Header, strip []string) http.Header {
	out := headers.Clone()
	for _, name := range strip {
		out.Del(name)
	}
	return out
}
