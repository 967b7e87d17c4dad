// Package policy evaluates compatibility rules over a component configuration.
// Rules are govaluate expressions that must hold; a rule evaluating to false is
// a violation the configurator reports as a configuration error.
package policy

import (
	"fmt"
	"strings"

	"github.com/Knetic/govaluate"
)

// Rule is a named expression that must evaluate to true.
type Rule struct {
	ID         string `json:"id" yaml:"id"`
	Expression string `json:"expression" yaml:"expression"`
	Message    string `json:"message" yaml:"message"`
}

// Violation is a rule that did not hold.
type Violation struct {
	RuleID  string
	Message string
}

func (v Violation) String() string {
	return v.RuleID + ": " + v.Message
}

type compiledRule struct {
	Rule
	expr *govaluate.EvaluableExpression
}

// Enforcer evaluates a fixed rule set in declaration order.
type Enforcer struct {
	rules []compiledRule
}

// NewEnforcer compiles rules. A nil or empty slice yields an enforcer that never reports violations.
func NewEnforcer(rules []Rule) (*Enforcer, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		if r.Expression == "" {
			return nil, fmt.Errorf("policy rule ID '%s' has an empty expression", r.ID)
		}
		expr, err := govaluate.NewEvaluableExpression(r.Expression)
		if err != nil {
			return nil, fmt.Errorf("failed to compile rule ID '%s': %w", r.ID, err)
		}
		compiled = append(compiled, compiledRule{Rule: r, expr: expr})
	}
	return &Enforcer{rules: compiled}, nil
}

// MustEnforcer is like NewEnforcer but panics on a bad rule. Use it for compiled-in rule sets.
func MustEnforcer(rules []Rule) *Enforcer {
	e, err := NewEnforcer(rules)
	if err != nil {
		panic(err)
	}
	return e
}

// Evaluate runs every rule against params and returns the violations found.
// A missing parameter or a non-boolean result is an error, not a violation.
func (e *Enforcer) Evaluate(params map[string]interface{}) ([]Violation, error) {
	var violations []Violation
	for _, r := range e.rules {
		result, err := r.expr.Evaluate(params)
		if err != nil {
			return nil, fmt.Errorf("error evaluating rule ID '%s': %w", r.ID, err)
		}
		ok, isBool := result.(bool)
		if !isBool {
			return nil, fmt.Errorf("rule ID '%s' returned %T, want bool", r.ID, result)
		}
		if !ok {
			violations = append(violations, Violation{RuleID: r.ID, Message: r.Message})
		}
	}
	return violations, nil
}

// Describe joins violations into one message.
func Describe(violations []Violation) string {
	parts := make([]string, 0, len(violations))
	for _, v := range violations {
		parts = append(parts, v.String())
	}
	return strings.Join(parts, "; ")
}
