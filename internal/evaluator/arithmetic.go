package evaluator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/kea-lang/kea/internal/ast"
)

// Table-driven numeric promotion for operators: script numbers are int64 or
// float64; host values of other numeric widths normalize on entry. Operator
// coercion stays out of the dispatch core.

func isTruthy(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	}
	if i, ok := asInt(v); ok {
		return i != 0
	}
	if f, ok := asFloat(v); ok {
		return f != 0
	}
	return true
}

// asInt normalizes any integer-kinded value to int64.
func asInt(v interface{}) (int64, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint()), true
	}
	return 0, false
}

// asFloat normalizes any numeric value to float64.
func asFloat(v interface{}) (float64, bool) {
	if i, ok := asInt(v); ok {
		return float64(i), true
	}
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	if k := rv.Kind(); k == reflect.Float32 || k == reflect.Float64 {
		return rv.Float(), true
	}
	return 0, false
}

func isFloatValue(v interface{}) bool {
	if v == nil {
		return false
	}
	k := reflect.ValueOf(v).Kind()
	return k == reflect.Float32 || k == reflect.Float64
}

func negate(n *ast.PrefixExpression, v interface{}) (interface{}, error) {
	if isFloatValue(v) {
		f, _ := asFloat(v)
		return -f, nil
	}
	if i, ok := asInt(v); ok {
		return -i, nil
	}
	return nil, newError(n.Token, "cannot negate %T", v)
}

func applyBinary(n *ast.InfixExpression, left, right interface{}) (interface{}, error) {
	op := n.Operator

	switch op {
	case "==":
		return valuesEqual(left, right), nil
	case "!=":
		return !valuesEqual(left, right), nil
	}

	// String concatenation and comparison.
	ls, lok := left.(string)
	rs, rok := right.(string)
	if op == "+" && (lok || rok) {
		return stringify(left) + stringify(right), nil
	}
	if lok && rok {
		switch op {
		case "<":
			return ls < rs, nil
		case ">":
			return ls > rs, nil
		case "<=":
			return ls <= rs, nil
		case ">=":
			return ls >= rs, nil
		}
	}

	// Numeric promotion: float when either side is float.
	if isFloatValue(left) || isFloatValue(right) {
		lf, lok := asFloat(left)
		rf, rok := asFloat(right)
		if lok && rok {
			return applyFloat(n, op, lf, rf)
		}
	}
	li, lok2 := asInt(left)
	ri, rok2 := asInt(right)
	if lok2 && rok2 {
		return applyInt(n, op, li, ri)
	}

	return nil, newError(n.Token, "operator '%s' not applicable to %T and %T", op, left, right)
}

func applyInt(n *ast.InfixExpression, op string, l, r int64) (interface{}, error) {
	switch op {
	case "+":
		return l + r, nil
	case "-":
		return l - r, nil
	case "*":
		return l * r, nil
	case "/":
		if r == 0 {
			return nil, newError(n.Token, "division by zero")
		}
		return l / r, nil
	case "%":
		if r == 0 {
			return nil, newError(n.Token, "division by zero")
		}
		return l % r, nil
	case "<":
		return l < r, nil
	case ">":
		return l > r, nil
	case "<=":
		return l <= r, nil
	case ">=":
		return l >= r, nil
	}
	return nil, newError(n.Token, "unknown operator '%s'", op)
}

func applyFloat(n *ast.InfixExpression, op string, l, r float64) (interface{}, error) {
	switch op {
	case "+":
		return l + r, nil
	case "-":
		return l - r, nil
	case "*":
		return l * r, nil
	case "/":
		if r == 0 {
			return nil, newError(n.Token, "division by zero")
		}
		return l / r, nil
	case "%":
		return nil, newError(n.Token, "operator '%%' not applicable to floats")
	case "<":
		return l < r, nil
	case ">":
		return l > r, nil
	case "<=":
		return l <= r, nil
	case ">=":
		return l >= r, nil
	}
	return nil, newError(n.Token, "unknown operator '%s'", op)
}

func valuesEqual(left, right interface{}) bool {
	if left == nil || right == nil {
		return left == nil && right == nil
	}
	// Cross-width numeric equality.
	if lf, ok := asFloat(left); ok {
		if rf, ok := asFloat(right); ok {
			return lf == rf
		}
		return false
	}
	return reflect.DeepEqual(left, right)
}

// stringify renders a value for concatenation and the REPL.
func stringify(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case []interface{}:
		parts := make([]string, len(x))
		for i, el := range x {
			parts[i] = stringify(el)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Stringify is the exported render used by the CLI.
func Stringify(v interface{}) string { return stringify(v) }
