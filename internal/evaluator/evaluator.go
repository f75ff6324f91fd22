package evaluator

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/kea-lang/kea/internal/ast"
	"github.com/kea-lang/kea/internal/introspection"
)

// Evaluator walks the AST and drives every property, index, call and
// iteration through the dispatch facade. One evaluator may serve concurrent
// evaluations; all mutable state lives in the Environment and the
// introspection caches, which carry their own locking.
type Evaluator struct {
	uber *introspection.Uberspect
	log  zerolog.Logger
}

func New(uber *introspection.Uberspect, log zerolog.Logger) *Evaluator {
	return &Evaluator{uber: uber, log: log}
}

// Uberspect exposes the dispatch facade, mainly to embedders registering
// constructors.
func (e *Evaluator) Uberspect() *introspection.Uberspect { return e.uber }

// EvalProgram runs a parsed program and returns the value of its last
// statement, honoring an explicit return.
func (e *Evaluator) EvalProgram(program *ast.Program, env *Environment) (interface{}, error) {
	var result interface{}
	for _, stmt := range program.Statements {
		val, err := e.evalStatement(stmt, env)
		if err != nil {
			var ret *returnSignal
			if errors.As(err, &ret) {
				return ret.value, nil
			}
			return nil, err
		}
		result = val
	}
	return result, nil
}

func (e *Evaluator) evalStatement(stmt ast.Statement, env *Environment) (interface{}, error) {
	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		return e.evalExpression(s.Expression, env)

	case *ast.VarStatement:
		var val interface{}
		if s.Value != nil {
			v, err := e.evalExpression(s.Value, env)
			if err != nil {
				return nil, err
			}
			val = v
		}
		env.Define(s.Name.Value, val)
		return val, nil

	case *ast.BlockStatement:
		return e.evalBlock(s, NewEnclosedEnvironment(env))

	case *ast.IfStatement:
		cond, err := e.evalExpression(s.Condition, env)
		if err != nil {
			return nil, err
		}
		if isTruthy(cond) {
			return e.evalBlock(s.Consequence, NewEnclosedEnvironment(env))
		}
		if s.Alternative != nil {
			return e.evalStatement(s.Alternative, env)
		}
		return nil, nil

	case *ast.WhileStatement:
		for {
			cond, err := e.evalExpression(s.Condition, env)
			if err != nil {
				return nil, err
			}
			if !isTruthy(cond) {
				return nil, nil
			}
			if _, err := e.evalBlock(s.Body, NewEnclosedEnvironment(env)); err != nil {
				if errors.Is(err, errBreak) {
					return nil, nil
				}
				if errors.Is(err, errContinue) {
					continue
				}
				return nil, err
			}
		}

	case *ast.ForEachStatement:
		return e.evalForEach(s, env)

	case *ast.BreakStatement:
		return nil, errBreak

	case *ast.ContinueStatement:
		return nil, errContinue

	case *ast.ReturnStatement:
		var val interface{}
		if s.Value != nil {
			v, err := e.evalExpression(s.Value, env)
			if err != nil {
				return nil, err
			}
			val = v
		}
		return nil, &returnSignal{value: val}

	default:
		return nil, newError(stmt.GetToken(), "unsupported statement %T", stmt)
	}
}

func (e *Evaluator) evalBlock(block *ast.BlockStatement, env *Environment) (interface{}, error) {
	var result interface{}
	for _, stmt := range block.Statements {
		val, err := e.evalStatement(stmt, env)
		if err != nil {
			return nil, err
		}
		result = val
	}
	return result, nil
}

func (e *Evaluator) evalForEach(s *ast.ForEachStatement, env *Environment) (interface{}, error) {
	seq, err := e.evalExpression(s.Iterable, env)
	if err != nil {
		return nil, err
	}
	iter, err := e.uber.GetIterator(seq)
	if err != nil {
		return nil, wrapError(s.Token, err, "for loop source")
	}
	for {
		el, ok := iter.Next()
		if !ok {
			return nil, nil
		}
		loopEnv := NewEnclosedEnvironment(env)
		loopEnv.Define(s.Name.Value, el)
		if _, err := e.evalBlock(s.Body, loopEnv); err != nil {
			if errors.Is(err, errBreak) {
				return nil, nil
			}
			if errors.Is(err, errContinue) {
				continue
			}
			return nil, err
		}
	}
}
