/*
Package tree defines decision tree nodes, grows trees from datasets with
the ID3 algorithm and walks them to make predictions.
*/
package tree

import (
	"fmt"
	"sort"
	"strings"
)

// TreeError represents an error related with growing or using trees
type TreeError string

/*
ErrEmptyTrainingSet is the error returned when trying to grow a tree from a
dataset without rows.
*/
const ErrEmptyTrainingSet = TreeError("cannot grow a tree from an empty training set")

/*
ErrMissingAttribute is the error returned when predicting a row that has no
value for an attribute the tree needs to ask about.
*/
const ErrMissingAttribute = TreeError("row has no value for the split attribute")

func (te TreeError) Error() string {
	return string(te)
}

/*
Predict takes the root of a tree and an attribute tuple and returns the label
the tree predicts for it.

Starting at the root, each internal node sends the row to the child for the
value the row holds at the node's attribute. If there is no child for that
value, the node's fallback label is returned right away. Otherwise the label
of the leaf reached is returned.
*/
func Predict(n Node, attrs []string) (string, error) {
	for {
		switch cn := n.(type) {
		case *Leaf:
			return cn.Label, nil
		case *Internal:
			if cn.Attribute >= len(attrs) {
				return "", fmt.Errorf("%w: attribute %d on a row with %d attributes", ErrMissingAttribute, cn.Attribute, len(attrs))
			}
			child, ok := cn.Children[attrs[cn.Attribute]]
			if !ok {
				return cn.Fallback, nil
			}
			n = child
		default:
			return "", fmt.Errorf("unknown node type %T", n)
		}
	}
}

/*
Walk takes the root of a tree and a function and calls the function with
every node of the tree and its depth, parents before their children and
children in ascending order of their values. If the function returns an
error the walk is aborted and the error returned.
*/
func Walk(n Node, f func(n Node, depth int) error) error {
	return walk(n, 0, f)
}

func walk(n Node, depth int, f func(Node, int) error) error {
	err := f(n, depth)
	if err != nil {
		return err
	}
	in, ok := n.(*Internal)
	if !ok {
		return nil
	}
	for _, v := range sortedValues(in) {
		err = walk(in.Children[v], depth+1, f)
		if err != nil {
			return err
		}
	}
	return nil
}

// Depth returns the number of internal nodes on the longest path from the
// given node to a leaf.
func Depth(n Node) int {
	var result int
	Walk(n, func(n Node, depth int) error {
		if _, ok := n.(*Leaf); ok && depth > result {
			result = depth
		}
		return nil
	})
	return result
}

// CountLeaves returns the number of leaves under the given node.
func CountLeaves(n Node) int {
	var result int
	Walk(n, func(n Node, _ int) error {
		if _, ok := n.(*Leaf); ok {
			result++
		}
		return nil
	})
	return result
}

/*
Render returns a textual drawing of the tree under the given node. Attribute
names are taken from the names slice when available, otherwise attributes are
named by their index.
*/
func Render(n Node, names []string) string {
	return subtreeString(n, names)
}

func subtreeString(n Node, names []string) string {
	switch cn := n.(type) {
	case *Leaf:
		return fmt.Sprintf("[%s]\n", cn.Label)
	case *Internal:
		result := fmt.Sprintf("{ %s ? otherwise %s }\n|\n", attributeName(cn.Attribute, names), cn.Fallback)
		values := sortedValues(cn)
		for i, v := range values {
			for j, line := range strings.Split(subtreeString(cn.Children[v], names), "\n") {
				if len(line) == 0 {
					continue
				}
				if j == 0 {
					result = fmt.Sprintf("%s|__%s: %s\n", result, v, line)
				} else if i == len(values)-1 {
					result = fmt.Sprintf("%s   %s\n", result, line)
				} else {
					result = fmt.Sprintf("%s|  %s\n", result, line)
				}
			}
		}
		return result
	}
	return fmt.Sprintf("ERROR: unknown node type %T\n", n)
}

func attributeName(i int, names []string) string {
	if i < len(names) && names[i] != "" {
		return names[i]
	}
	return fmt.Sprintf("attribute %d", i)
}

func sortedValues(n *Internal) []string {
	values := make([]string, 0, len(n.Children))
	for v := range n.Children {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}
