package ast

import (
	"sync/atomic"

	"github.com/kea-lang/kea/internal/token"
)

// CacheSlot is an atomically published call-site cache. The evaluator stores
// the executor it discovered for this node together with the receiver's
// runtime type; a later evaluation with a different receiver type discards
// the entry and rediscovers. The slot itself never interprets its contents.
type CacheSlot struct {
	v atomic.Value
}

func (c *CacheSlot) Load() interface{} { return c.v.Load() }

func (c *CacheSlot) Store(entry interface{}) { c.v.Store(entry) }

// Identifier represents a bare name.
type Identifier struct {
	Token token.Token
	Value string
}

func (i *Identifier) expressionNode()       {}
func (i *Identifier) TokenLiteral() string  { return i.Token.Literal }
func (i *Identifier) GetToken() token.Token { return i.Token }

// IntegerLiteral represents an integer literal.
type IntegerLiteral struct {
	Token token.Token
	Value int64
}

func (il *IntegerLiteral) expressionNode()       {}
func (il *IntegerLiteral) TokenLiteral() string  { return il.Token.Literal }
func (il *IntegerLiteral) GetToken() token.Token { return il.Token }

// FloatLiteral represents a floating point literal.
type FloatLiteral struct {
	Token token.Token
	Value float64
}

func (fl *FloatLiteral) expressionNode()       {}
func (fl *FloatLiteral) TokenLiteral() string  { return fl.Token.Literal }
func (fl *FloatLiteral) GetToken() token.Token { return fl.Token }

// StringLiteral represents a quoted string literal.
type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) expressionNode()       {}
func (sl *StringLiteral) TokenLiteral() string  { return sl.Token.Literal }
func (sl *StringLiteral) GetToken() token.Token { return sl.Token }

// BooleanLiteral represents true or false.
type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (bl *BooleanLiteral) expressionNode()       {}
func (bl *BooleanLiteral) TokenLiteral() string  { return bl.Token.Literal }
func (bl *BooleanLiteral) GetToken() token.Token { return bl.Token }

// NullLiteral represents the null keyword.
type NullLiteral struct {
	Token token.Token
}

func (nl *NullLiteral) expressionNode()       {}
func (nl *NullLiteral) TokenLiteral() string  { return nl.Token.Literal }
func (nl *NullLiteral) GetToken() token.Token { return nl.Token }

// ListLiteral represents [a, b, c].
type ListLiteral struct {
	Token    token.Token // the '[' token
	Elements []Expression
}

func (ll *ListLiteral) expressionNode()       {}
func (ll *ListLiteral) TokenLiteral() string  { return ll.Token.Literal }
func (ll *ListLiteral) GetToken() token.Token { return ll.Token }

// MapPair is one key: value entry of a map literal.
type MapPair struct {
	Key   Expression
	Value Expression
}

// MapLiteral represents {k: v, ...}.
type MapLiteral struct {
	Token token.Token // the '{' token
	Pairs []MapPair
}

func (ml *MapLiteral) expressionNode()       {}
func (ml *MapLiteral) TokenLiteral() string  { return ml.Token.Literal }
func (ml *MapLiteral) GetToken() token.Token { return ml.Token }

// PrefixExpression represents a unary operator application: !x, -x.
type PrefixExpression struct {
	Token    token.Token
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) expressionNode()       {}
func (pe *PrefixExpression) TokenLiteral() string  { return pe.Token.Literal }
func (pe *PrefixExpression) GetToken() token.Token { return pe.Token }

// InfixExpression represents a binary operator application.
type InfixExpression struct {
	Token    token.Token
	Left     Expression
	Operator string
	Right    Expression
}

func (ie *InfixExpression) expressionNode()       {}
func (ie *InfixExpression) TokenLiteral() string  { return ie.Token.Literal }
func (ie *InfixExpression) GetToken() token.Token { return ie.Token }

// TernaryExpression represents cond ? a : b.
type TernaryExpression struct {
	Token       token.Token // the '?' token
	Condition   Expression
	Consequence Expression
	Alternative Expression
}

func (te *TernaryExpression) expressionNode()       {}
func (te *TernaryExpression) TokenLiteral() string  { return te.Token.Literal }
func (te *TernaryExpression) GetToken() token.Token { return te.Token }

// AssignExpression represents target = value, where target is an identifier,
// a member access, or an index access.
type AssignExpression struct {
	Token  token.Token // the '=' token
	Target Expression
	Value  Expression
	Cache  CacheSlot
}

func (ae *AssignExpression) expressionNode()       {}
func (ae *AssignExpression) TokenLiteral() string  { return ae.Token.Literal }
func (ae *AssignExpression) GetToken() token.Token { return ae.Token }

// MemberExpression represents dot access: obj.prop.
type MemberExpression struct {
	Token  token.Token // the '.' token
	Left   Expression
	Member *Identifier
	Cache  CacheSlot
}

func (me *MemberExpression) expressionNode()       {}
func (me *MemberExpression) TokenLiteral() string  { return me.Token.Literal }
func (me *MemberExpression) GetToken() token.Token { return me.Token }

// IndexExpression represents bracket access: obj[idx].
type IndexExpression struct {
	Token token.Token // the '[' token
	Left  Expression
	Index Expression
	Cache CacheSlot
}

func (ie *IndexExpression) expressionNode()       {}
func (ie *IndexExpression) TokenLiteral() string  { return ie.Token.Literal }
func (ie *IndexExpression) GetToken() token.Token { return ie.Token }

// CallExpression represents callee(args). When Callee is a MemberExpression
// this is a method call on the member's receiver.
type CallExpression struct {
	Token     token.Token // the '(' token
	Callee    Expression
	Arguments []Expression
	Cache     CacheSlot
}

func (ce *CallExpression) expressionNode()       {}
func (ce *CallExpression) TokenLiteral() string  { return ce.Token.Literal }
func (ce *CallExpression) GetToken() token.Token { return ce.Token }

// NewExpression represents new TypeName(args).
type NewExpression struct {
	Token     token.Token // the 'new' token
	TypeName  *Identifier
	Arguments []Expression
	Cache     CacheSlot
}

func (ne *NewExpression) expressionNode()       {}
func (ne *NewExpression) TokenLiteral() string  { return ne.Token.Literal }
func (ne *NewExpression) GetToken() token.Token { return ne.Token }
