package parser

import (
	"testing"

	"github.com/kea-lang/kea/internal/ast"
	"github.com/kea-lang/kea/internal/lexer"
)

func parse(t *testing.T, input string) *ast.Program {
	t.Helper()
	p := New(lexer.New(input))
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse errors for %q: %v", input, errs)
	}
	return program
}

func parseExpr(t *testing.T, input string) ast.Expression {
	t.Helper()
	program := parse(t, input)
	if len(program.Statements) != 1 {
		t.Fatalf("want 1 statement, got %d", len(program.Statements))
	}
	es, ok := program.Statements[0].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("want expression statement, got %T", program.Statements[0])
	}
	return es.Expression
}

func TestVarStatement(t *testing.T) {
	program := parse(t, "var x = 5; var y;")
	if len(program.Statements) != 2 {
		t.Fatalf("want 2 statements, got %d", len(program.Statements))
	}
	vs := program.Statements[0].(*ast.VarStatement)
	if vs.Name.Value != "x" {
		t.Errorf("name = %q", vs.Name.Value)
	}
	if lit, ok := vs.Value.(*ast.IntegerLiteral); !ok || lit.Value != 5 {
		t.Errorf("value = %v", vs.Value)
	}
	if program.Statements[1].(*ast.VarStatement).Value != nil {
		t.Error("bare var must have no initializer")
	}
}

func TestOperatorPrecedence(t *testing.T) {
	// 1 + 2 * 3 parses as 1 + (2 * 3)
	inf := parseExpr(t, "1 + 2 * 3").(*ast.InfixExpression)
	if inf.Operator != "+" {
		t.Fatalf("top operator = %q", inf.Operator)
	}
	right := inf.Right.(*ast.InfixExpression)
	if right.Operator != "*" {
		t.Errorf("right operator = %q", right.Operator)
	}

	// Comparison binds tighter than &&, which binds tighter than ||.
	or := parseExpr(t, "a < b && c || d").(*ast.InfixExpression)
	if or.Operator != "||" {
		t.Fatalf("top operator = %q, want ||", or.Operator)
	}
	and := or.Left.(*ast.InfixExpression)
	if and.Operator != "&&" {
		t.Fatalf("left operator = %q, want &&", and.Operator)
	}
	if cmp := and.Left.(*ast.InfixExpression); cmp.Operator != "<" {
		t.Errorf("innermost operator = %q, want <", cmp.Operator)
	}
}

func TestGroupingOverridesPrecedence(t *testing.T) {
	inf := parseExpr(t, "(1 + 2) * 3").(*ast.InfixExpression)
	if inf.Operator != "*" {
		t.Fatalf("top operator = %q", inf.Operator)
	}
	if left := inf.Left.(*ast.InfixExpression); left.Operator != "+" {
		t.Errorf("grouped operator = %q", left.Operator)
	}
}

func TestTernary(t *testing.T) {
	te := parseExpr(t, "a > 1 ? 'big' : 'small'").(*ast.TernaryExpression)
	if _, ok := te.Condition.(*ast.InfixExpression); !ok {
		t.Errorf("condition = %T", te.Condition)
	}
	if lit := te.Consequence.(*ast.StringLiteral); lit.Value != "big" {
		t.Errorf("consequence = %q", lit.Value)
	}
	if lit := te.Alternative.(*ast.StringLiteral); lit.Value != "small" {
		t.Errorf("alternative = %q", lit.Value)
	}
}

func TestMemberIndexAndCallChain(t *testing.T) {
	call := parseExpr(t, "orders[0].customer.rename('Ada')").(*ast.CallExpression)
	if len(call.Arguments) != 1 {
		t.Fatalf("want 1 argument, got %d", len(call.Arguments))
	}
	member := call.Callee.(*ast.MemberExpression)
	if member.Member.Value != "rename" {
		t.Errorf("method = %q", member.Member.Value)
	}
	inner := member.Left.(*ast.MemberExpression)
	if inner.Member.Value != "customer" {
		t.Errorf("inner member = %q", inner.Member.Value)
	}
	idx := inner.Left.(*ast.IndexExpression)
	if idx.Left.(*ast.Identifier).Value != "orders" {
		t.Errorf("index base = %v", idx.Left)
	}
}

func TestAssignmentTargets(t *testing.T) {
	for _, input := range []string{"x = 1", "a.b = 1", "a[0] = 1"} {
		expr := parseExpr(t, input)
		if _, ok := expr.(*ast.AssignExpression); !ok {
			t.Errorf("%q: got %T, want assignment", input, expr)
		}
	}

	p := New(lexer.New("1 = 2"))
	p.ParseProgram()
	if len(p.Errors()) == 0 {
		t.Error("literal assignment target must be a parse error")
	}
}

func TestAssignmentIsRightAssociative(t *testing.T) {
	outer := parseExpr(t, "a = b = 1").(*ast.AssignExpression)
	if outer.Target.(*ast.Identifier).Value != "a" {
		t.Errorf("outer target = %v", outer.Target)
	}
	inner := outer.Value.(*ast.AssignExpression)
	if inner.Target.(*ast.Identifier).Value != "b" {
		t.Errorf("inner target = %v", inner.Target)
	}
}

func TestNewExpression(t *testing.T) {
	ne := parseExpr(t, "new Point(1, 2)").(*ast.NewExpression)
	if ne.TypeName.Value != "Point" {
		t.Errorf("type = %q", ne.TypeName.Value)
	}
	if len(ne.Arguments) != 2 {
		t.Errorf("want 2 arguments, got %d", len(ne.Arguments))
	}
}

func TestListAndMapLiterals(t *testing.T) {
	ll := parseExpr(t, "[1, 'two', true]").(*ast.ListLiteral)
	if len(ll.Elements) != 3 {
		t.Errorf("want 3 elements, got %d", len(ll.Elements))
	}
	if empty := parseExpr(t, "[]").(*ast.ListLiteral); len(empty.Elements) != 0 {
		t.Error("empty list must have no elements")
	}

	ml := parseExpr(t, "{'a': 1, 'b': 2}").(*ast.MapLiteral)
	if len(ml.Pairs) != 2 {
		t.Fatalf("want 2 pairs, got %d", len(ml.Pairs))
	}
	if key := ml.Pairs[0].Key.(*ast.StringLiteral); key.Value != "a" {
		t.Errorf("first key = %q", key.Value)
	}
}

func TestIfElseChain(t *testing.T) {
	program := parse(t, `if (a) { 1 } else if (b) { 2 } else { 3 }`)
	is := program.Statements[0].(*ast.IfStatement)
	elseIf, ok := is.Alternative.(*ast.IfStatement)
	if !ok {
		t.Fatalf("alternative = %T, want nested if", is.Alternative)
	}
	if _, ok := elseIf.Alternative.(*ast.BlockStatement); !ok {
		t.Errorf("final else = %T, want block", elseIf.Alternative)
	}
}

func TestLoops(t *testing.T) {
	program := parse(t, `while (n > 0) { n = n - 1; if (n == 2) { break } }`)
	ws := program.Statements[0].(*ast.WhileStatement)
	if len(ws.Body.Statements) != 2 {
		t.Errorf("body has %d statements", len(ws.Body.Statements))
	}

	program = parse(t, `for (item : list) { continue }`)
	fs := program.Statements[0].(*ast.ForEachStatement)
	if fs.Name.Value != "item" {
		t.Errorf("loop variable = %q", fs.Name.Value)
	}
	if _, ok := fs.Iterable.(*ast.Identifier); !ok {
		t.Errorf("iterable = %T", fs.Iterable)
	}
}

func TestReturnStatement(t *testing.T) {
	program := parse(t, "return 1 + 2;")
	rs := program.Statements[0].(*ast.ReturnStatement)
	if _, ok := rs.Value.(*ast.InfixExpression); !ok {
		t.Errorf("return value = %T", rs.Value)
	}

	program = parse(t, "return;")
	if program.Statements[0].(*ast.ReturnStatement).Value != nil {
		t.Error("bare return must carry no value")
	}
}

func TestParseErrorsCarryPositions(t *testing.T) {
	p := New(lexer.New("var = 5"))
	p.ParseProgram()
	errs := p.Errors()
	if len(errs) == 0 {
		t.Fatal("want at least one error")
	}
	if errs[0].Line != 1 || errs[0].Column == 0 {
		t.Errorf("error position = %d:%d", errs[0].Line, errs[0].Column)
	}
}

func TestUnterminatedBlock(t *testing.T) {
	p := New(lexer.New("while (x) { y"))
	p.ParseProgram()
	if len(p.Errors()) == 0 {
		t.Error("want error for unterminated block")
	}
}
