package evaluator

import (
	"reflect"

	"github.com/kea-lang/kea/internal/ast"
	"github.com/kea-lang/kea/internal/introspection"
)

// Call-site caches: each access node remembers the executor discovered on a
// previous evaluation. The executor's own TryExecute guards reuse against a
// changed receiver type or key, so a stale entry degrades to rediscovery,
// never to a wrong access.

type getSite struct {
	exec introspection.GetExecutor
}

type setSite struct {
	exec introspection.SetExecutor
}

type callSite struct {
	inv introspection.Invoker
}

func (e *Evaluator) evalMember(n *ast.MemberExpression, env *Environment) (interface{}, error) {
	obj, err := e.evalExpression(n.Left, env)
	if err != nil {
		return nil, err
	}
	return e.getProperty(&n.Cache, n, obj, n.Member.Value)
}

func (e *Evaluator) evalIndex(n *ast.IndexExpression, env *Environment) (interface{}, error) {
	obj, err := e.evalExpression(n.Left, env)
	if err != nil {
		return nil, err
	}
	idx, err := e.evalExpression(n.Index, env)
	if err != nil {
		return nil, err
	}
	return e.getProperty(&n.Cache, n, obj, idx)
}

func (e *Evaluator) getProperty(cache *ast.CacheSlot, n ast.Expression, obj, identifier interface{}) (interface{}, error) {
	if obj == nil {
		return nil, newError(n.GetToken(), "property access on null")
	}

	if entry, ok := cache.Load().(*getSite); ok {
		res, err := entry.exec.TryExecute(obj, identifier)
		if err != nil {
			return nil, wrapError(n.GetToken(), err, "property '%v'", identifier)
		}
		if res != introspection.TryFailed {
			return res, nil
		}
	}

	exec := e.uber.GetPropertyGet(obj, identifier)
	if exec == nil {
		return nil, newError(n.GetToken(), "undefined property '%v' on %T", identifier, obj)
	}
	cache.Store(&getSite{exec: exec})

	res, err := exec.Execute(obj)
	if err != nil {
		return nil, wrapError(n.GetToken(), err, "property '%v'", identifier)
	}
	return res, nil
}

func (e *Evaluator) evalAssign(n *ast.AssignExpression, env *Environment) (interface{}, error) {
	val, err := e.evalExpression(n.Value, env)
	if err != nil {
		return nil, err
	}

	switch target := n.Target.(type) {
	case *ast.Identifier:
		if !env.Update(target.Value, val) {
			env.Define(target.Value, val)
		}
		return val, nil

	case *ast.MemberExpression:
		obj, err := e.evalExpression(target.Left, env)
		if err != nil {
			return nil, err
		}
		return e.setProperty(&n.Cache, n, obj, target.Member.Value, val)

	case *ast.IndexExpression:
		obj, err := e.evalExpression(target.Left, env)
		if err != nil {
			return nil, err
		}
		idx, err := e.evalExpression(target.Index, env)
		if err != nil {
			return nil, err
		}
		return e.setProperty(&n.Cache, n, obj, idx, val)

	default:
		return nil, newError(n.Token, "invalid assignment target %T", n.Target)
	}
}

func (e *Evaluator) setProperty(cache *ast.CacheSlot, n *ast.AssignExpression, obj, identifier, val interface{}) (interface{}, error) {
	if obj == nil {
		return nil, newError(n.Token, "property assignment on null")
	}

	if entry, ok := cache.Load().(*setSite); ok {
		res, err := entry.exec.TryExecute(obj, identifier, val)
		if err != nil {
			return nil, wrapError(n.Token, err, "assigning property '%v'", identifier)
		}
		if res != introspection.TryFailed {
			return res, nil
		}
	}

	exec := e.uber.GetPropertySet(obj, identifier, val)
	if exec == nil {
		return nil, newError(n.Token, "cannot assign property '%v' on %T", identifier, obj)
	}
	cache.Store(&setSite{exec: exec})

	res, err := exec.Execute(obj, val)
	if err != nil {
		return nil, wrapError(n.Token, err, "assigning property '%v'", identifier)
	}
	return res, nil
}

func (e *Evaluator) evalCall(n *ast.CallExpression, env *Environment) (interface{}, error) {
	args := make([]interface{}, len(n.Arguments))
	evalArgs := func() error {
		for i, a := range n.Arguments {
			v, err := e.evalExpression(a, env)
			if err != nil {
				return err
			}
			args[i] = v
		}
		return nil
	}

	// Method call: receiver.name(args)
	if member, ok := n.Callee.(*ast.MemberExpression); ok {
		obj, err := e.evalExpression(member.Left, env)
		if err != nil {
			return nil, err
		}
		if err := evalArgs(); err != nil {
			return nil, err
		}
		if obj == nil {
			return nil, newError(n.Token, "method call on null")
		}
		return e.invokeMethod(n, obj, member.Member.Value, args)
	}

	// Bare call: a context-bound function value.
	callee, err := e.evalExpression(n.Callee, env)
	if err != nil {
		return nil, err
	}
	if err := evalArgs(); err != nil {
		return nil, err
	}
	name := "<anonymous>"
	if id, ok := n.Callee.(*ast.Identifier); ok {
		name = id.Value
	}
	res, err := introspection.CallFunc(name, callee, args)
	if err != nil {
		return nil, wrapError(n.Token, err, "calling '%s'", name)
	}
	return res, nil
}

func (e *Evaluator) invokeMethod(n *ast.CallExpression, obj interface{}, name string, args []interface{}) (interface{}, error) {
	if entry, ok := n.Cache.Load().(*callSite); ok && entry.inv.Matches(obj, args) {
		res, err := entry.inv.Execute(obj, args)
		if err != nil {
			return nil, wrapError(n.Token, err, "calling method '%s'", name)
		}
		return res, nil
	}

	if inv := e.uber.GetMethod(obj, name, args); inv != nil {
		n.Cache.Store(&callSite{inv: inv})
		res, err := inv.Execute(obj, args)
		if err != nil {
			return nil, wrapError(n.Token, err, "calling method '%s'", name)
		}
		return res, nil
	}

	// Functor fallback: a property holding a function value.
	if exec := e.uber.GetPropertyGet(obj, name); exec != nil {
		fn, err := exec.Execute(obj)
		if err == nil && fn != nil && reflect.ValueOf(fn).Kind() == reflect.Func {
			res, callErr := introspection.CallFunc(name, fn, args)
			if callErr != nil {
				return nil, wrapError(n.Token, callErr, "calling '%s'", name)
			}
			return res, nil
		}
	}

	return nil, newError(n.Token, "undefined method '%s' on %T", name, obj)
}

func (e *Evaluator) evalNew(n *ast.NewExpression, env *Environment) (interface{}, error) {
	args := make([]interface{}, len(n.Arguments))
	for i, a := range n.Arguments {
		v, err := e.evalExpression(a, env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	if entry, ok := n.Cache.Load().(*callSite); ok && entry.inv.Matches(nil, args) {
		res, err := entry.inv.Execute(nil, args)
		if err != nil {
			return nil, wrapError(n.Token, err, "new %s", n.TypeName.Value)
		}
		return res, nil
	}

	inv := e.uber.GetConstructor(n.TypeName.Value, args)
	if inv == nil {
		return nil, newError(n.Token, "no constructor for '%s' with %d arguments", n.TypeName.Value, len(args))
	}
	n.Cache.Store(&callSite{inv: inv})

	res, err := inv.Execute(nil, args)
	if err != nil {
		return nil, wrapError(n.Token, err, "new %s", n.TypeName.Value)
	}
	return res, nil
}
