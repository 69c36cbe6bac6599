package service

import (
	"fmt"

	"github.com/coffeecorner/queue/cmd/queue-service/models"
	"github.com/coffeecorner/queue/common/config"
	"github.com/coffeecorner/queue/common/logger"
	"github.com/google/cel-go/cel"
)

const (
	minPriority = 0
	maxPriority = 10
)

type priorityRule struct {
	expr     string
	priority int
	prg      cel.Program
}

// PriorityRules raises a join request's priority when a CEL condition over
// the request holds. Conditions see one variable, entry, keyed by JSON field name.
type PriorityRules struct {
	rules []priorityRule
	log   *logger.Logger
}

// NewPriorityRules compiles every rule; any compile error fails construction
func NewPriorityRules(rules []config.PriorityRule, log *logger.Logger) (*PriorityRules, error) {
	env, err := cel.NewEnv(
		cel.Variable("entry", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL env: %w", err)
	}

	compiled := make([]priorityRule, 0, len(rules))
	for i, r := range rules {
		ast, issues := env.Compile(r.When)
		if issues != nil && issues.Err() != nil {
			return nil, fmt.Errorf("priority rule %d: CEL compilation error: %w", i, issues.Err())
		}
		if ot := ast.OutputType(); !ot.IsExactType(cel.BoolType) && !ot.IsExactType(cel.DynType) {
			return nil, fmt.Errorf("priority rule %d: condition must be boolean, got %s", i, ot)
		}

		prg, err := env.Program(ast)
		if err != nil {
			return nil, fmt.Errorf("priority rule %d: failed to create CEL program: %w", i, err)
		}
		compiled = append(compiled, priorityRule{expr: r.When, priority: r.Priority, prg: prg})
	}

	return &PriorityRules{rules: compiled, log: log}, nil
}

// Resolve returns the larger of the requested priority and every matching
// rule, clamped to 0..10. Rules that fail to evaluate are skipped.
func (p *PriorityRules) Resolve(req *models.JoinRequest) int {
	priority := req.Priority
	activation := map[string]interface{}{
		"entry": requestFacts(req),
	}

	for _, r := range p.rules {
		if r.priority <= priority {
			continue
		}

		out, _, err := r.prg.Eval(activation)
		if err != nil {
			p.log.Warn("priority rule evaluation failed", "rule", r.expr, "error", err)
			continue
		}
		if matched, ok := out.Value().(bool); ok && matched {
			priority = r.priority
		}
	}

	return clampPriority(priority)
}

func clampPriority(p int) int {
	return max(minPriority, min(maxPriority, p))
}

func requestFacts(req *models.JoinRequest) map[string]interface{} {
	orderValue, _ := req.OrderValue.Float64()
	partySize := req.PartySize
	if partySize == 0 {
		partySize = 1
	}

	return map[string]interface{}{
		"customer_name":        req.CustomerName,
		"queue_type":           req.QueueType.String(),
		"party_size":           int64(partySize),
		"has_order":            req.OrderID != "",
		"order_value":          orderValue,
		"special_requests":     req.SpecialRequests,
		"seating_preference":   req.SeatingPreference,
		"accessibility_needs":  nonNil(req.AccessibilityNeeds),
		"dietary_restrictions": nonNil(req.DietaryRestrictions),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
