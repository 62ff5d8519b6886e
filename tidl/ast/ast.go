// Copyright 2018 The CUE Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package ast declares the concrete syntax tree produced by tidl/parser.
//
// Unlike a typical Go AST built from an Expr/Decl/Label interface hierarchy,
// every node here is modeled as one tagged variant: a single Node interface
// backed by a NodeKind discriminator, with one concrete struct per kind. A
// type switch over Kind() (see tidl/treeutil's VisitChildren) is the
// exhaustiveness mechanism in place of a marker-method-per-category scheme.
package ast

import (
	"fmt"

	"tidl.org/go/tidl/token"
)

// NodeKind discriminates the concrete type of a Node.
type NodeKind int

const (
	_ NodeKind = iota

	// Root.
	Script

	// Declarations.
	ModelStatement
	ScalarStatement
	NamespaceStatement
	InterfaceStatement
	UnionStatement
	OperationStatement
	EnumStatement
	AliasStatement
	UsingStatement
	ImportStatement
	DecoratorDeclarationStatement
	FunctionDeclarationStatement
	ProjectionStatement

	// Expressions.
	Identifier
	MemberExpression
	TypeReference
	UnionExpression
	IntersectionExpression
	ArrayExpression
	TupleExpression
	ModelExpression
	StringLiteral
	NumericLiteral
	BooleanLiteral
	VoidKeyword
	NeverKeyword
	UnknownKeyword
	InvalidExpression

	// Members.
	ModelProperty
	ModelSpreadProperty
	EnumMember
	EnumSpreadMember
	UnionVariant
	OperationSignatureDeclaration
	OperationSignatureReference
	FunctionParameter
	TemplateParameterDeclaration

	// Decorations.
	DecoratorExpression
	AugmentDecoratorStatement
	DirectiveExpression

	// Doc nodes.
	Doc
	DocText
	DocParamTag
	DocTemplateTag
	DocReturnsTag
	DocUnknownTag

	// Projection nodes.
	Projection
	ProjectionSelector
	ProjectionBlockExpression
	ProjectionIfExpression
	ProjectionLambdaExpression
	ProjectionLambdaParameter
	ProjectionTupleExpression
	ProjectionModelExpression
	ProjectionCallExpression
	ProjectionMemberExpression
	ProjectionDecoratorReferenceExpression
	ProjectionReturnExpression
	ProjectionLogicalExpression
	ProjectionRelationalExpression
	ProjectionEqualityExpression
	ProjectionArithmeticExpression
	ProjectionUnaryExpression
	ProjectionParameterDeclaration
	ProjectionExpressionStatement
)

var nodeKindNames = map[NodeKind]string{
	Script:                                 "Script",
	ModelStatement:                         "ModelStatement",
	ScalarStatement:                        "ScalarStatement",
	NamespaceStatement:                     "NamespaceStatement",
	InterfaceStatement:                     "InterfaceStatement",
	UnionStatement:                         "UnionStatement",
	OperationStatement:                     "OperationStatement",
	EnumStatement:                          "EnumStatement",
	AliasStatement:                         "AliasStatement",
	UsingStatement:                         "UsingStatement",
	ImportStatement:                        "ImportStatement",
	DecoratorDeclarationStatement:          "DecoratorDeclarationStatement",
	FunctionDeclarationStatement:           "FunctionDeclarationStatement",
	ProjectionStatement:                    "ProjectionStatement",
	Identifier:                             "Identifier",
	MemberExpression:                       "MemberExpression",
	TypeReference:                          "TypeReference",
	UnionExpression:                        "UnionExpression",
	IntersectionExpression:                 "IntersectionExpression",
	ArrayExpression:                        "ArrayExpression",
	TupleExpression:                        "TupleExpression",
	ModelExpression:                        "ModelExpression",
	StringLiteral:                          "StringLiteral",
	NumericLiteral:                         "NumericLiteral",
	BooleanLiteral:                         "BooleanLiteral",
	VoidKeyword:                            "VoidKeyword",
	NeverKeyword:                           "NeverKeyword",
	UnknownKeyword:                         "UnknownKeyword",
	InvalidExpression:                      "InvalidExpression",
	ModelProperty:                          "ModelProperty",
	ModelSpreadProperty:                    "ModelSpreadProperty",
	EnumMember:                             "EnumMember",
	EnumSpreadMember:                       "EnumSpreadMember",
	UnionVariant:                           "UnionVariant",
	OperationSignatureDeclaration:          "OperationSignatureDeclaration",
	OperationSignatureReference:            "OperationSignatureReference",
	FunctionParameter:                      "FunctionParameter",
	TemplateParameterDeclaration:           "TemplateParameterDeclaration",
	DecoratorExpression:                    "DecoratorExpression",
	AugmentDecoratorStatement:              "AugmentDecoratorStatement",
	DirectiveExpression:                    "DirectiveExpression",
	Doc:                                    "Doc",
	DocText:                                "DocText",
	DocParamTag:                            "DocParamTag",
	DocTemplateTag:                         "DocTemplateTag",
	DocReturnsTag:                          "DocReturnsTag",
	DocUnknownTag:                          "DocUnknownTag",
	Projection:                             "Projection",
	ProjectionSelector:                     "ProjectionSelector",
	ProjectionBlockExpression:              "ProjectionBlockExpression",
	ProjectionIfExpression:                 "ProjectionIfExpression",
	ProjectionLambdaExpression:             "ProjectionLambdaExpression",
	ProjectionLambdaParameter:              "ProjectionLambdaParameter",
	ProjectionTupleExpression:              "ProjectionTupleExpression",
	ProjectionModelExpression:              "ProjectionModelExpression",
	ProjectionCallExpression:               "ProjectionCallExpression",
	ProjectionMemberExpression:             "ProjectionMemberExpression",
	ProjectionDecoratorReferenceExpression: "ProjectionDecoratorReferenceExpression",
	ProjectionReturnExpression:             "ProjectionReturnExpression",
	ProjectionLogicalExpression:            "ProjectionLogicalExpression",
	ProjectionRelationalExpression:         "ProjectionRelationalExpression",
	ProjectionEqualityExpression:           "ProjectionEqualityExpression",
	ProjectionArithmeticExpression:         "ProjectionArithmeticExpression",
	ProjectionUnaryExpression:              "ProjectionUnaryExpression",
	ProjectionParameterDeclaration:         "ProjectionParameterDeclaration",
	ProjectionExpressionStatement:          "ProjectionExpressionStatement",
}

func (k NodeKind) String() string {
	if s, ok := nodeKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

// NodeFlags records error/synthesis metadata carried by every node.
type NodeFlags uint8

const (
	// ThisNodeHasError is set directly on the node a diagnostic was
	// attached to.
	ThisNodeHasError NodeFlags = 1 << iota
	// DescendantHasError is the memoized result of a subtree scan; only
	// meaningful once DescendantErrorsExamined is also set.
	DescendantHasError
	// DescendantErrorsExamined marks that the lazy subtree scan backing
	// DescendantHasError has already run (see tidl/treeutil.HasParseError).
	DescendantErrorsExamined
	// Synthetic marks a node fabricated by error recovery rather than
	// parsed from source text (e.g. a missing identifier or a missing
	// delimiter's placeholder).
	Synthetic
)

func (f NodeFlags) Has(mask NodeFlags) bool { return f&mask == mask }

// Node is implemented by every concrete node type in the tree. A type switch
// on Kind() recovers the concrete type.
type Node interface {
	Kind() NodeKind
	Pos() token.Pos
	End() token.Pos
	Flags() NodeFlags
	SetFlags(NodeFlags)
}

// NodeBase is embedded in every concrete node struct and supplies the Node
// interface's bookkeeping methods.
type NodeBase struct {
	kind  NodeKind
	pos   token.Pos
	end   token.Pos
	flags NodeFlags
}

func (n *NodeBase) Kind() NodeKind       { return n.kind }
func (n *NodeBase) Pos() token.Pos       { return n.pos }
func (n *NodeBase) End() token.Pos       { return n.end }
func (n *NodeBase) Flags() NodeFlags     { return n.flags }
func (n *NodeBase) SetFlags(f NodeFlags) { n.flags = f }

// NewNodeBase constructs the embeddable bookkeeping header for a node
// spanning [pos, end) of the given kind. Callers outside this package (the
// parser, building one concrete node struct per production) use this rather
// than a keyed literal, since the header's fields are deliberately
// unexported to keep node construction funneled through one place.
func NewNodeBase(kind NodeKind, pos, end token.Pos) NodeBase {
	return NodeBase{kind: kind, pos: pos, end: end}
}

// MarkError sets ThisNodeHasError on n.
func (n *NodeBase) MarkError() { n.flags |= ThisNodeHasError }

// MarkSynthetic sets Synthetic on n.
func (n *NodeBase) MarkSynthetic() { n.flags |= Synthetic }

// ----------------------------------------------------------------------------
// Comments

// CommentGroup is a single line or block comment collected when
// Options.Comments is set; adjacent comments are not merged.
type CommentGroup struct {
	Token token.Token // COMMENT or BLOCK_COMMENT
	Text  string
	Pos_  token.Pos
}

func (c *CommentGroup) Pos() token.Pos { return c.Pos_ }

// ----------------------------------------------------------------------------
// Root

// ScriptNode is the root of a parsed source file.
type ScriptNode struct {
	NodeBase
	Statements       []Node
	Comments         []*CommentGroup
	Docs             []*DocNode
	ParseDiagnostics []Diagnostic
	Printable        bool
	ParseOptions     ParseOptions
	ID               string // synthetic identifier, set to the source file path
}

// Diagnostic is the subset of errors.Diagnostic the ast package needs to
// reference without importing tidl/errors (which itself imports tidl/token
// but not tidl/ast), avoiding an import cycle.
type Diagnostic interface {
	Position() token.Pos
	Error() string
}

// ParseOptions mirrors tidl/parser.Options; duplicated here (rather than
// imported) so ScriptNode has no dependency on the parser package.
type ParseOptions struct {
	Comments bool
	Docs     bool
}

// ----------------------------------------------------------------------------
// Declarations

// Prelude groups the doc/directive/decorator annotations a declaration
// may carry.
type Prelude struct {
	Docs       []*DocNode
	Directives []*DirectiveExpressionNode
	Decorators []*DecoratorExpressionNode
}

// Modifiers accumulates the `extern` keyword and any future modifier as a
// bit flag attached to a declaration.
type Modifiers uint8

const (
	ModifierExtern Modifiers = 1 << iota
)

type ModelStatementNode struct {
	NodeBase
	Prelude
	ID         *IdentifierNode
	Templates  []*TemplateParameterDeclarationNode
	Extends    Node // Expr, or nil
	Is         Node // Expr, or nil
	Properties []Node
	HasBody    bool
}

type ScalarStatementNode struct {
	NodeBase
	Prelude
	ID        *IdentifierNode
	Templates []*TemplateParameterDeclarationNode
	Extends   Node // Expr, or nil
}

// NamespaceStatementNode represents one segment of a (possibly dotted)
// namespace declaration. Inner points at the next nested segment of a
// dotted chain and is nil for the innermost segment. Only the innermost
// segment holds Statements, and only when the declaration has a braced
// body (see HasBlock); every other segment has nil Statements.
type NamespaceStatementNode struct {
	NodeBase
	Prelude
	ID         *IdentifierNode
	HasBlock   bool
	Statements []Node // braced-body declarations, on the innermost segment only
	Inner      *NamespaceStatementNode
}

// IsBlocklessNamespace reports whether this node is a semicolon-terminated
// namespace declaration rather than a braced one.
func (n *NamespaceStatementNode) IsBlocklessNamespace() bool { return !n.HasBlock }

type InterfaceStatementNode struct {
	NodeBase
	Prelude
	ID        *IdentifierNode
	Templates []*TemplateParameterDeclarationNode
	Extends   []Node // Expr list
	Members   []Node
}

type UnionStatementNode struct {
	NodeBase
	Prelude
	ID        *IdentifierNode
	Templates []*TemplateParameterDeclarationNode
	Variants  []*UnionVariantNode
}

type OperationStatementNode struct {
	NodeBase
	Prelude
	ID        *IdentifierNode
	Templates []*TemplateParameterDeclarationNode
	Signature Node // *OperationSignatureDeclarationNode or *OperationSignatureReferenceNode
}

type EnumStatementNode struct {
	NodeBase
	Prelude
	ID      *IdentifierNode
	Members []Node
}

type AliasStatementNode struct {
	NodeBase
	Prelude
	ID        *IdentifierNode
	Templates []*TemplateParameterDeclarationNode
	Value     Node // Expr
}

type UsingStatementNode struct {
	NodeBase
	Prelude
	Name Node // dotted reference: Identifier or MemberExpression chain
}

type ImportStatementNode struct {
	NodeBase
	Path *StringLiteralNode
}

type DecoratorDeclarationStatementNode struct {
	NodeBase
	Prelude
	Modifiers  Modifiers
	ID         *IdentifierNode
	Parameters []*FunctionParameterNode
}

type FunctionDeclarationStatementNode struct {
	NodeBase
	Prelude
	Modifiers  Modifiers
	ID         *IdentifierNode
	Parameters []*FunctionParameterNode
	ReturnType Node // Expr, or nil
}

// ProjectionStatementNode declares named `to`/`from` transforms over a
// selected declaration kind.
type ProjectionStatementNode struct {
	NodeBase
	Prelude
	Selector *ProjectionSelectorNode
	ID       *IdentifierNode
	To       *ProjectionNode // nil if absent
	From     *ProjectionNode // nil if absent
}

// ----------------------------------------------------------------------------
// Expressions

type IdentifierNode struct {
	NodeBase
	Name string
}

// NewMissingIdentifier fabricates a synthetic identifier used wherever the
// grammar requires one but the source text did not supply it. seq must be
// unique for the lifetime of one parse (the parser's
// missingIdentifierCounter).
func NewMissingIdentifier(pos token.Pos, seq int) *IdentifierNode {
	n := &IdentifierNode{NodeBase: NodeBase{kind: Identifier, pos: pos, end: pos}}
	n.Name = fmt.Sprintf("<missing identifier>%d", seq)
	n.MarkSynthetic()
	return n
}

type MemberExpressionNode struct {
	NodeBase
	Base Node // Expr
	Sel  *IdentifierNode
}

type TypeReferenceNode struct {
	NodeBase
	Base         Node // Identifier or MemberExpression
	TemplateArgs []Node
}

type UnionExpressionNode struct {
	NodeBase
	Options []Node
}

type IntersectionExpressionNode struct {
	NodeBase
	Operands []Node
}

type ArrayExpressionNode struct {
	NodeBase
	ElementType Node
}

type TupleExpressionNode struct {
	NodeBase
	Values []Node
}

type ModelExpressionNode struct {
	NodeBase
	Properties []Node
}

type StringLiteralNode struct {
	NodeBase
	Value string // unquoted
}

type NumericLiteralNode struct {
	NodeBase
	Value string // raw literal text, e.g. "3", "1.5e10"
}

type BooleanLiteralNode struct {
	NodeBase
	Value bool
}

type VoidKeywordNode struct{ NodeBase }
type NeverKeywordNode struct{ NodeBase }
type UnknownKeywordNode struct{ NodeBase }

// InvalidExpressionNode is a synthetic placeholder produced by error
// recovery wherever an expression was expected but could not be parsed.
type InvalidExpressionNode struct{ NodeBase }

// ----------------------------------------------------------------------------
// Members

type ModelPropertyNode struct {
	NodeBase
	Prelude
	ID       *IdentifierNode
	Optional bool
	Type     Node // Expr
	Default  Node // Expr, or nil
}

type ModelSpreadPropertyNode struct {
	NodeBase
	Target Node // Expr
}

type EnumMemberNode struct {
	NodeBase
	Prelude
	ID    *IdentifierNode
	Value Node // string/numeric literal, or nil
}

type EnumSpreadMemberNode struct {
	NodeBase
	Target Node // Expr
}

type UnionVariantNode struct {
	NodeBase
	Prelude
	ID   *IdentifierNode // nil for an unnamed variant
	Type Node            // Expr
}

type OperationSignatureDeclarationNode struct {
	NodeBase
	Parameters []Node // ModelProperty / ModelSpreadProperty members
	ReturnType Node   // Expr
}

type OperationSignatureReferenceNode struct {
	NodeBase
	BaseOperation Node // Expr (reference expression)
}

type FunctionParameterNode struct {
	NodeBase
	Prelude
	ID       *IdentifierNode
	Optional bool
	Rest     bool
	Type     Node // Expr, or nil
	Default  Node // Expr, or nil
}

type TemplateParameterDeclarationNode struct {
	NodeBase
	ID         *IdentifierNode
	Constraint Node // Expr, or nil
	Default    Node // Expr, or nil
}

// ----------------------------------------------------------------------------
// Decorations

type DecoratorExpressionNode struct {
	NodeBase
	Target    Node // reference expression
	Arguments []Node
}

type AugmentDecoratorStatementNode struct {
	NodeBase
	Target     Node // reference expression
	TargetType Node // Expr
	Arguments  []Node
}

type DirectiveExpressionNode struct {
	NodeBase
	Target    *IdentifierNode
	Arguments []Node
}

// ----------------------------------------------------------------------------
// Doc nodes

// DocNode is a parsed doc comment: free text followed by any number of
// recognized or unrecognized tags.
type DocNode struct {
	NodeBase
	Content []Node // *DocTextNode and tag nodes, in source order
}

type DocTextNode struct {
	NodeBase
	Text string
}

type DocParamTagNode struct {
	NodeBase
	Name    *IdentifierNode
	Content []*DocTextNode
}

type DocTemplateTagNode struct {
	NodeBase
	Name    *IdentifierNode
	Content []*DocTextNode
}

type DocReturnsTagNode struct {
	NodeBase
	Content []*DocTextNode
}

// DocUnknownTagNode preserves an unrecognized @tagname so downstream tooling
// can still see it; the tag is not a hard error, matching the original
// compiler's doc-comment parser.
type DocUnknownTagNode struct {
	NodeBase
	TagName string
	Content []*DocTextNode
}

// ----------------------------------------------------------------------------
// Projection nodes

type ProjectionSelectorKind int

const (
	ProjectionSelectorModel ProjectionSelectorKind = iota
	ProjectionSelectorOperation
	ProjectionSelectorInterface
	ProjectionSelectorUnion
	ProjectionSelectorEnum
	ProjectionSelectorExpression // identifier or member expression
)

func (k ProjectionSelectorKind) String() string {
	switch k {
	case ProjectionSelectorModel:
		return "model"
	case ProjectionSelectorOperation:
		return "op"
	case ProjectionSelectorInterface:
		return "interface"
	case ProjectionSelectorUnion:
		return "union"
	case ProjectionSelectorEnum:
		return "enum"
	case ProjectionSelectorExpression:
		return "expression"
	}
	return fmt.Sprintf("ProjectionSelectorKind(%d)", int(k))
}

type ProjectionSelectorNode struct {
	NodeBase
	SelectorKind ProjectionSelectorKind
	Expr         Node // set iff SelectorKind == ProjectionSelectorExpression
}

// ProjectionNode is one directional transform body (`to { ... }` or
// `from { ... }`).
type ProjectionNode struct {
	NodeBase
	Direction  string // "to" or "from"
	Parameters []*ProjectionParameterDeclarationNode
	Body       *ProjectionBlockExpressionNode
}

type ProjectionBlockExpressionNode struct {
	NodeBase
	Statements []Node // *ProjectionExpressionStatementNode
}

type ProjectionExpressionStatementNode struct {
	NodeBase
	Expr Node
}

type ProjectionIfExpressionNode struct {
	NodeBase
	Test Node
	Then *ProjectionBlockExpressionNode
	Else Node // *ProjectionBlockExpressionNode, *ProjectionIfExpressionNode, or nil
}

type ProjectionLambdaParameterNode struct {
	NodeBase
	ID *IdentifierNode
}

type ProjectionLambdaExpressionNode struct {
	NodeBase
	Parameters []*ProjectionLambdaParameterNode
	Body       *ProjectionBlockExpressionNode
}

type ProjectionTupleExpressionNode struct {
	NodeBase
	Values []Node
}

type ProjectionModelExpressionNode struct {
	NodeBase
	Properties []Node // shares ModelProperty/ModelSpreadProperty with the primary grammar
}

type ProjectionCallExpressionNode struct {
	NodeBase
	Callee    Node
	Arguments []Node
}

type ProjectionMemberExpressionNode struct {
	NodeBase
	Base     Node
	Sel      *IdentifierNode
	Selector token.Token // token.DOT or token.COLONCOLON
}

type ProjectionDecoratorReferenceExpressionNode struct {
	NodeBase
	Target Node
}

type ProjectionReturnExpressionNode struct {
	NodeBase
	Value Node // Expr, or nil
}

type ProjectionLogicalExpressionNode struct {
	NodeBase
	Op    token.Token // OROR or ANDAND
	Left  Node
	Right Node
}

type ProjectionEqualityExpressionNode struct {
	NodeBase
	Op    token.Token // EQEQ or NEQ
	Left  Node
	Right Node
}

type ProjectionRelationalExpressionNode struct {
	NodeBase
	Op    token.Token // LANGLE, LEQ, RANGLE, GEQ
	Left  Node
	Right Node
}

type ProjectionArithmeticExpressionNode struct {
	NodeBase
	Op    token.Token // PLUS, MINUS, STAR, SLASH
	Left  Node
	Right Node
}

type ProjectionUnaryExpressionNode struct {
	NodeBase
	Op      token.Token // BANG
	Operand Node
}

type ProjectionParameterDeclarationNode struct {
	NodeBase
	ID *IdentifierNode
}
