// Package engine evaluates access-control policy for role-gated routes.
package engine

import "context"

// Evaluator decides whether a resolved role may pass a role-gated route.
type Evaluator interface {
	// Allow reports whether role is permitted given the route's allowed set.
	Allow(ctx context.Context, role string, allowed []string) (bool, error)
	// HealthCheck verifies the policy engine can compile and evaluate its policy.
	HealthCheck(ctx context.Context) error
}
