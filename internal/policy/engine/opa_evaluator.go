package engine

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/v1/ast"
	"github.com/open-policy-agent/opa/v1/rego"
)

const policyQuery = "data.tourapi.rbac.allow"

// Rego policy for role-gated routes: a request passes when the resolved
// role is a member of the route's allowed set.
const rbacRegoPolicy = `package tourapi.rbac

default allow = false

allow if {
	input.role == input.allowed[_]
}
`

// OPAEvaluator evaluates role-gate decisions using OPA Rego.
type OPAEvaluator struct{}

// NewOPAEvaluator returns an OPA-based role-gate evaluator.
func NewOPAEvaluator() *OPAEvaluator {
	return &OPAEvaluator{}
}

// Allow reports whether role is permitted given the route's allowed roles.
func (e *OPAEvaluator) Allow(ctx context.Context, role string, allowed []string) (bool, error) {
	input := map[string]interface{}{
		"role":    role,
		"allowed": allowed,
	}
	v, err := e.evaluate(ctx, input)
	if err != nil {
		return false, err
	}
	return v, nil
}

// HealthCheck verifies that the in-process OPA Rego engine can compile and
// evaluate the role-gate policy. Returns nil on success.
func (e *OPAEvaluator) HealthCheck(ctx context.Context) error {
	input := map[string]interface{}{
		"role":    "user",
		"allowed": []string{"user"},
	}
	v, err := e.evaluate(ctx, input)
	if err != nil {
		return err
	}
	if !v {
		return fmt.Errorf("policy query returned unexpected result")
	}
	return nil
}

func (e *OPAEvaluator) evaluate(ctx context.Context, input map[string]interface{}) (bool, error) {
	modules := map[string]string{"rbac.rego": rbacRegoPolicy}
	compiler, err := ast.CompileModules(modules)
	if err != nil {
		return false, fmt.Errorf("compile policy: %w", err)
	}
	q := rego.New(
		rego.Query(policyQuery),
		rego.Compiler(compiler),
		rego.Input(input),
	)
	rs, err := q.Eval(ctx)
	if err != nil {
		return false, fmt.Errorf("eval policy: %w", err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return false, fmt.Errorf("policy query returned no result")
	}
	v, ok := rs[0].Expressions[0].Value.(bool)
	if !ok {
		return false, fmt.Errorf("policy query returned non-boolean result")
	}
	return v, nil
}
