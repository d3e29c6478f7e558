/*
Package json serializes decision trees as JSON documents, so that a tree
can be grown once and used to make predictions later.

A leaf is serialized as an object with its label:

	{"label": "e"}

An internal node as an object with the index of its attribute, its
fallback label and an object mapping each attribute value to its child:

	{"attribute": 4, "fallback": "e", "children": {"a": {"label": "e"}, "f": {"label": "p"}}}
*/
package json

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mGarbowski/wsi-decision-tree/tree"
)

/*
NodeEncodeDecoder is an interface for objects
that allow encoding trees into slices of
bytes and decoding them back to trees.
*/
type NodeEncodeDecoder interface {

	//Encode receives the root of a tree
	// and returns a slice of bytes with the tree
	//encoded or an error if the encoding could not
	//be performed for some reason.
	Encode(tree.Node) ([]byte, error)

	//Decode receives a slice of bytes
	//and returns the root of the tree decoded from the
	//slice of bytes or an error if the decoding
	//could not be performed for some reason.
	Decode([]byte) (tree.Node, error)
}

type nodeEncodeDecoder struct{}

type node struct {
	Label     *string          `json:"label,omitempty"`
	Attribute *int             `json:"attribute,omitempty"`
	Fallback  string           `json:"fallback,omitempty"`
	Children  map[string]*node `json:"children,omitempty"`
}

// New returns a NodeEncodeDecoder that represents trees as nested JSON objects.
func New() NodeEncodeDecoder {
	return nodeEncodeDecoder{}
}

func (nodeEncodeDecoder) Encode(n tree.Node) ([]byte, error) {
	jn, err := toJSONNode(n)
	if err != nil {
		return nil, fmt.Errorf("encoding tree as json: %v", err)
	}
	return json.Marshal(jn)
}

func (nodeEncodeDecoder) Decode(data []byte) (tree.Node, error) {
	jn := &node{}
	err := json.Unmarshal(data, jn)
	if err != nil {
		return nil, fmt.Errorf("decoding tree from json: %v", err)
	}
	n, err := fromJSONNode(jn, "root")
	if err != nil {
		return nil, fmt.Errorf("decoding tree from json: %v", err)
	}
	return n, nil
}

func toJSONNode(n tree.Node) (*node, error) {
	switch cn := n.(type) {
	case *tree.Leaf:
		label := cn.Label
		return &node{Label: &label}, nil
	case *tree.Internal:
		attribute := cn.Attribute
		jn := &node{Attribute: &attribute, Fallback: cn.Fallback, Children: make(map[string]*node, len(cn.Children))}
		for v, child := range cn.Children {
			jc, err := toJSONNode(child)
			if err != nil {
				return nil, err
			}
			jn.Children[v] = jc
		}
		return jn, nil
	}
	return nil, fmt.Errorf("unknown node type %T", n)
}

func fromJSONNode(jn *node, path string) (tree.Node, error) {
	if jn == nil {
		return nil, fmt.Errorf("%s: null node", path)
	}
	if jn.Label != nil {
		if jn.Attribute != nil || len(jn.Children) > 0 {
			return nil, fmt.Errorf("%s: leaf with attribute or children", path)
		}
		return &tree.Leaf{Label: *jn.Label}, nil
	}
	if jn.Attribute == nil {
		return nil, fmt.Errorf("%s: node with neither label nor attribute", path)
	}
	if *jn.Attribute < 0 {
		return nil, fmt.Errorf("%s: negative attribute %d", path, *jn.Attribute)
	}
	n := &tree.Internal{Attribute: *jn.Attribute, Fallback: jn.Fallback, Children: make(map[string]tree.Node, len(jn.Children))}
	for v, jc := range jn.Children {
		child, err := fromJSONNode(jc, fmt.Sprintf("%s/%s", path, v))
		if err != nil {
			return nil, err
		}
		n.Children[v] = child
	}
	return n, nil
}

/*
WriteJSONTree takes an io.Writer and the root of a tree and writes the
tree onto the writer serialized as JSON, or returns an error.
*/
func WriteJSONTree(w io.Writer, n tree.Node) error {
	data, err := New().Encode(n)
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

/*
ReadJSONTree takes an io.Reader and returns the root of the tree
serialized as JSON on it, or an error.
*/
func ReadJSONTree(r io.Reader) (tree.Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading json tree: %v", err)
	}
	return New().Decode(data)
}

/*
ReadJSONTreeFromFilePath takes a filepath string, opens the file and uses
ReadJSONTree to return the tree serialized on it, or an error.
*/
func ReadJSONTreeFromFilePath(filepath string) (tree.Node, error) {
	f, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading tree in JSON from %s: %v", filepath, err)
	}
	defer f.Close()
	n, err := ReadJSONTree(f)
	if err != nil {
		return nil, fmt.Errorf("parsing tree in JSON from %s: %v", filepath, err)
	}
	return n, nil
}
