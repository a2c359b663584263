// Package rulefilter selects association rules with CEL expressions.
//
// An expression sees one rule at a time through these variables:
//
//	antecedent  list(string)  labels of the left-hand side
//	consequent  list(string)  labels of the right-hand side
//	confidence  double
//	support     double
//	lift        double
//	size        int           number of distinct labels in the rule
//
// Examples:
//
//	lift > 1.2
//	"milk" in consequent && confidence >= 0.8
//	size(antecedent) == 1
package rulefilter

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/google/cel-go/cel"

	"github.com/blackwell-systems/apriori/internal/apriori"
)

var (
	env     *cel.Env
	envErr  error
	envOnce sync.Once
)

func getEnv() (*cel.Env, error) {
	envOnce.Do(func() {
		env, envErr = cel.NewEnv(
			cel.Variable("antecedent", cel.ListType(cel.StringType)),
			cel.Variable("consequent", cel.ListType(cel.StringType)),
			cel.Variable("confidence", cel.DoubleType),
			cel.Variable("support", cel.DoubleType),
			cel.Variable("lift", cel.DoubleType),
			cel.Variable("size", cel.IntType),
		)
	})
	return env, envErr
}

// Filter is a compiled rule predicate. The zero value and a nil *Filter
// match every rule. A Filter is safe for concurrent use.
type Filter struct {
	expr string
	prg  cel.Program
}

// Compile parses and type-checks expr. An empty expression yields a filter
// that matches everything.
func Compile(expr string) (*Filter, error) {
	if expr == "" {
		return &Filter{}, nil
	}

	e, err := getEnv()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create filter environment")
	}

	ast, issues := e.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, errors.WithHint(
			errors.Wrapf(issues.Err(), "failed to compile filter %q", expr),
			"available variables: antecedent, consequent, confidence, support, lift, size",
		)
	}

	out := ast.OutputType()
	if !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, errors.Newf("filter %q must evaluate to bool, got %s", expr, out)
	}

	prg, err := e.Program(ast)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build filter %q", expr)
	}
	return &Filter{expr: expr, prg: prg}, nil
}

// String returns the source expression.
func (f *Filter) String() string {
	if f == nil {
		return ""
	}
	return f.expr
}

// Match reports whether r satisfies the filter.
func (f *Filter) Match(r apriori.RuleRecord) (bool, error) {
	if f == nil || f.prg == nil {
		return true, nil
	}

	out, _, err := f.prg.Eval(map[string]any{
		"antecedent": r.Antecedent,
		"consequent": r.Consequent,
		"confidence": r.Confidence,
		"support":    r.Support,
		"lift":       r.Lift,
		"size":       int64(ruleSize(r)),
	})
	if err != nil {
		return false, errors.Wrapf(err, "failed to evaluate filter %q", f.expr)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, errors.Newf("filter %q must evaluate to bool, got %T", f.expr, out.Value())
	}
	return result, nil
}

// Apply returns the rules that match, preserving order.
func (f *Filter) Apply(rules []apriori.RuleRecord) ([]apriori.RuleRecord, error) {
	if f == nil || f.prg == nil {
		return rules, nil
	}

	out := make([]apriori.RuleRecord, 0, len(rules))
	for _, r := range rules {
		ok, err := f.Match(r)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// ruleSize counts the distinct labels of a rule. Antecedent and consequent are
// disjoint for mined rules, but saved or hand-built records are not checked.
func ruleSize(r apriori.RuleRecord) int {
	seen := make(map[string]struct{}, len(r.Antecedent)+len(r.Consequent))
	for _, l := range r.Antecedent {
		seen[l] = struct{}{}
	}
	for _, l := range r.Consequent {
		seen[l] = struct{}{}
	}
	return len(seen)
}
