package workflow

import (
	"fmt"
	"strings"

	"github.com/ringods/projen-pulumi/pkg/logger"
)

var expressionNodesLog = logger.New("workflow:expression_nodes")

// ConditionNode represents a node in a GitHub Actions expression tree
type ConditionNode interface {
	Render() string
}

// FunctionCallNode represents a function call expression like fromJSON(value)
type FunctionCallNode struct {
	FunctionName string
	Arguments    []ConditionNode
}

func (f *FunctionCallNode) Render() string {
	var args []string
	for _, arg := range f.Arguments {
		args = append(args, arg.Render())
	}
	return fmt.Sprintf("%s(%s)", f.FunctionName, strings.Join(args, ", "))
}

// PropertyAccessNode represents property access like needs.discover.outputs.stacks
type PropertyAccessNode struct {
	PropertyPath string
}

func (p *PropertyAccessNode) Render() string {
	return p.PropertyPath
}

// StringLiteralNode represents a string literal value
type StringLiteralNode struct {
	Value string
}

func (s *StringLiteralNode) Render() string {
	return fmt.Sprintf("'%s'", strings.ReplaceAll(s.Value, "'", "''"))
}

// ComparisonNode represents == and != comparisons
type ComparisonNode struct {
	Left     ConditionNode
	Operator string
	Right    ConditionNode
}

func (c *ComparisonNode) Render() string {
	return fmt.Sprintf("%s %s %s", c.Left.Render(), c.Operator, c.Right.Render())
}

// BuildPropertyAccess creates a property access node for a dotted path
func BuildPropertyAccess(path string) *PropertyAccessNode {
	return &PropertyAccessNode{PropertyPath: path}
}

// BuildNotEquals creates a "left != right" comparison
func BuildNotEquals(left, right ConditionNode) *ComparisonNode {
	return &ComparisonNode{Left: left, Operator: "!=", Right: right}
}

// BuildFromJSON wraps value in fromJSON()
func BuildFromJSON(value ConditionNode) *FunctionCallNode {
	return &FunctionCallNode{FunctionName: "fromJSON", Arguments: []ConditionNode{value}}
}

// wrapExpression renders node inside ${{ }} for use in a value position.
// Job and step "if:" fields take the bare expression instead.
func wrapExpression(node ConditionNode) string {
	return "${{ " + node.Render() + " }}"
}

// EvaluateCondition evaluates a comparison the way the Actions runner would,
// resolving property paths through lookup. Only the node types the generator
// emits for conditions are supported.
func EvaluateCondition(node ConditionNode, lookup func(path string) string) (bool, error) {
	switch n := node.(type) {
	case *ComparisonNode:
		left, err := evaluateOperand(n.Left, lookup)
		if err != nil {
			return false, err
		}
		right, err := evaluateOperand(n.Right, lookup)
		if err != nil {
			return false, err
		}
		// string comparison in Actions expressions ignores case
		switch n.Operator {
		case "==":
			return strings.EqualFold(left, right), nil
		case "!=":
			return !strings.EqualFold(left, right), nil
		}
		return false, fmt.Errorf("unsupported comparison operator %q", n.Operator)
	}
	expressionNodesLog.Printf("Cannot evaluate node of type %T", node)
	return false, fmt.Errorf("unsupported condition node %T", node)
}

func evaluateOperand(node ConditionNode, lookup func(string) string) (string, error) {
	switch n := node.(type) {
	case *StringLiteralNode:
		return n.Value, nil
	case *PropertyAccessNode:
		return lookup(n.PropertyPath), nil
	}
	return "", fmt.Errorf("unsupported operand %T", node)
}
