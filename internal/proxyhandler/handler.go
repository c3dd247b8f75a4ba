package proxyhandler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dolthub/vitess/go/vt/sqlparser"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"starproxy/internal/actions"
	"starproxy/internal/evaluators"
	"starproxy/internal/metrics"
	"starproxy/internal/query"
	"starproxy/internal/rules"
	apperrors "starproxy/internal/shared/errors"
	"starproxy/internal/shared/logger"
	"starproxy/internal/sqlast"
	"starproxy/internal/tracing"
)

type handler struct {
	upstreamAuthority string
	upstreamPort      int
	ruleConfig        *rules.Config
	maxBodyBytes      int64
	explainTimeout    time.Duration
	client            *http.Client
}

func (h *handler) upstreamBaseURL() string {
	return fmt.Sprintf("https://%s:%d", h.upstreamAuthority, h.upstreamPort)
}

func (h *handler) handle(c *gin.Context) {
	span, ctx := tracing.StartSpan(c.Request.Context(), "proxy.handle_request")
	defer span.Finish()
	c.Request = c.Request.WithContext(ctx)

	// Step 1: rewrite authority.
	c.Request.URL.Scheme = "https"
	c.Request.URL.Host = fmt.Sprintf("%s:%d", h.upstreamAuthority, h.upstreamPort)
	c.Request.Host = h.upstreamAuthority
	c.Request.Header.Set("Host", h.upstreamAuthority)

	// Step 2: classify.
	if !h.classify(c.Request) {
		h.forward(c, c.Request.Header.Clone())
		return
	}

	// Step 3: buffer body.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.respondError(c, apperrors.NewInternalError("failed to read request body", err.Error()))
		return
	}

	qd := &query.Data{SQL: string(body), Headers: c.Request.Header.Clone()}
	outHeaders := c.Request.Header.Clone()

	// Step 4: evaluate.
	if blocked := h.evaluate(c, qd, outHeaders); blocked {
		return
	}

	// Step 5: replace body (byte-identical).
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	c.Request.ContentLength = int64(len(body))

	// Step 6: forward.
	h.forward(c, outHeaders)
}

// classify reports whether the inspection pipeline should run: POST,
// exactly /v1/statement, Authorization present.
func (h *handler) classify(req *http.Request) bool {
	return req.Method == http.MethodPost &&
		req.URL.Path == "/v1/statement" &&
		req.Header.Get("Authorization") != ""
}

// evaluate runs every configured rule in order against the parsed query,
// mutating outHeaders for InjectHeader violations and responding directly
// (returning true) on a fatal evaluator error or a Block.
func (h *handler) evaluate(c *gin.Context, qd *query.Data, outHeaders http.Header) bool {
	stmt, err := sqlast.Parse(qd.SQL)
	if err != nil {
		h.respondError(c, apperrors.NewInternalError("failed to parse query", err.Error()))
		return true
	}
	tables := sqlast.ExtractTables(stmt)

	for _, rule := range h.ruleConfig.Rules {
		if _, ok := tables[rule.TableName]; !ok {
			continue
		}

		violated, err := h.runEvaluator(c.Request.Context(), stmt, tables, rule, qd)
		if err != nil {
			h.respondError(c, apperrors.NewInternalError("rule evaluation failed", err.Error()))
			return true
		}
		if !violated {
			continue
		}

		actionName := "none"
		if rule.Action != nil {
			actionName = string(*rule.Action)
		}
		metrics.RuleViolationsTotal.WithLabelValues(rule.Name, actionName).Inc()

		if rule.Action == nil {
			logger.Info("rule violated, no action configured",
				zap.String("rule", rule.Name), zap.String("table", rule.TableName))
			continue
		}

		switch *rule.Action {
		case rules.ActionBlock:
			c.Set("rule_decision", map[string]string{"rule": rule.Name, "action": "Block"})
			metrics.RequestsTotal.WithLabelValues("blocked").Inc()
			c.Data(http.StatusForbidden, "text/plain", []byte(actions.BlockedBody))
			c.Abort()
			return true
		case rules.ActionInjectHeader:
			c.Set("rule_decision", map[string]string{"rule": rule.Name, "action": "InjectHeader"})
			actions.InjectLowPriorityTag(outHeaders)
		}
	}

	return false
}

// runEvaluator dispatches to the evaluator matching the rule's variant
// type — the discriminated union's exhaustive match the design notes call
// for.
func (h *handler) runEvaluator(ctx context.Context, stmt sqlparser.Statement, tables map[string]struct{}, rule rules.Entry, qd *query.Data) (bool, error) {
	switch rule.Value.Type {
	case rules.VariantWhereClause:
		return evaluators.WhereClause(stmt, tables, rule.TableName, rule.Value.WhereClause)
	case rules.VariantSelectStarNoLimit:
		return evaluators.SelectStarNoLimit(stmt, tables, rule.TableName)
	case rules.VariantCidrOrigin:
		return evaluators.CidrOrigin(tables, rule.TableName, rule.Value.CidrOrigin, qd)
	case rules.VariantScanEstimates:
		explainCtx, cancel := context.WithTimeout(ctx, h.explainTimeout)
		defer cancel()
		return evaluators.ScanEstimates(explainCtx, h.client, h.upstreamBaseURL(), tables, rule.TableName, rule.Value.ScanEstimates, qd)
	default:
		return false, fmt.Errorf("unhandled rule variant %q", rule.Value.Type)
	}
}

func (h *handler) respondError(c *gin.Context, appErr *apperrors.AppError) {
	logger.Error("pipeline error",
		zap.Int("code", appErr.Code), zap.String("message", appErr.Message), zap.String("details", appErr.Details))
	metrics.RequestsTotal.WithLabelValues("error").Inc()
	c.String(appErr.Code, appErr.Error())
	c.Abort()
}
