package evaluator

import (
	"github.com/kea-lang/kea/internal/ast"
)

func (e *Evaluator) evalExpression(expr ast.Expression, env *Environment) (interface{}, error) {
	switch n := expr.(type) {
	case *ast.IntegerLiteral:
		return n.Value, nil
	case *ast.FloatLiteral:
		return n.Value, nil
	case *ast.StringLiteral:
		return n.Value, nil
	case *ast.BooleanLiteral:
		return n.Value, nil
	case *ast.NullLiteral:
		return nil, nil

	case *ast.Identifier:
		if val, ok := env.Get(n.Value); ok {
			return val, nil
		}
		return nil, newError(n.Token, "undefined variable '%s'", n.Value)

	case *ast.ListLiteral:
		elements := make([]interface{}, len(n.Elements))
		for i, el := range n.Elements {
			v, err := e.evalExpression(el, env)
			if err != nil {
				return nil, err
			}
			elements[i] = v
		}
		return elements, nil

	case *ast.MapLiteral:
		m := make(map[interface{}]interface{}, len(n.Pairs))
		for _, pair := range n.Pairs {
			k, err := e.evalExpression(pair.Key, env)
			if err != nil {
				return nil, err
			}
			v, err := e.evalExpression(pair.Value, env)
			if err != nil {
				return nil, err
			}
			m[k] = v
		}
		return m, nil

	case *ast.PrefixExpression:
		return e.evalPrefix(n, env)

	case *ast.InfixExpression:
		return e.evalInfix(n, env)

	case *ast.TernaryExpression:
		cond, err := e.evalExpression(n.Condition, env)
		if err != nil {
			return nil, err
		}
		if isTruthy(cond) {
			return e.evalExpression(n.Consequence, env)
		}
		return e.evalExpression(n.Alternative, env)

	case *ast.AssignExpression:
		return e.evalAssign(n, env)

	case *ast.MemberExpression:
		return e.evalMember(n, env)

	case *ast.IndexExpression:
		return e.evalIndex(n, env)

	case *ast.CallExpression:
		return e.evalCall(n, env)

	case *ast.NewExpression:
		return e.evalNew(n, env)

	default:
		return nil, newError(expr.GetToken(), "unsupported expression %T", expr)
	}
}

func (e *Evaluator) evalPrefix(n *ast.PrefixExpression, env *Environment) (interface{}, error) {
	right, err := e.evalExpression(n.Right, env)
	if err != nil {
		return nil, err
	}
	switch n.Operator {
	case "!":
		return !isTruthy(right), nil
	case "-":
		return negate(n, right)
	}
	return nil, newError(n.Token, "unknown prefix operator '%s'", n.Operator)
}

func (e *Evaluator) evalInfix(n *ast.InfixExpression, env *Environment) (interface{}, error) {
	// Logical operators short-circuit, so the right side is evaluated
	// lazily.
	if n.Operator == "&&" || n.Operator == "||" {
		left, err := e.evalExpression(n.Left, env)
		if err != nil {
			return nil, err
		}
		if n.Operator == "&&" && !isTruthy(left) {
			return false, nil
		}
		if n.Operator == "||" && isTruthy(left) {
			return true, nil
		}
		right, err := e.evalExpression(n.Right, env)
		if err != nil {
			return nil, err
		}
		return isTruthy(right), nil
	}

	left, err := e.evalExpression(n.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := e.evalExpression(n.Right, env)
	if err != nil {
		return nil, err
	}
	return applyBinary(n, left, right)
}
