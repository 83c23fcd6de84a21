// Package toctree models the remote documentation table of contents and
// caches it on disk and in memory.
package toctree

import (
	"bytes"
	"encoding/json"
)

// Node is one node of the raw table of contents. The source document has no
// fixed schema: a node is either a JSON object carrying any of the optional
// ttl/ln/id/children fields, or a bare JSON array of child nodes. Array
// nodes hold only Children and report IsList.
type Node struct {
	Title    string `json:"ttl"`
	Link     string `json:"ln"`
	ID       string `json:"id"`
	Children []Node `json:"children"`

	list bool
}

// IsList reports whether the node was a JSON array rather than an object.
func (n Node) IsList() bool {
	return n.list
}

// ListNode builds an array-shaped node. Used by tests and callers that
// construct trees programmatically.
func ListNode(children ...Node) Node {
	return Node{Children: children, list: true}
}

// UnmarshalJSON accepts either shape. Scalar nodes decode to an empty
// object node so that a malformed document degrades instead of failing.
func (n *Node) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		*n = Node{}
		return nil
	}

	switch trimmed[0] {
	case '[':
		var children []Node
		if err := json.Unmarshal(data, &children); err != nil {
			return err
		}
		*n = Node{Children: children, list: true}
		return nil
	case '{':
		type plain Node
		var p plain
		if err := json.Unmarshal(data, &p); err != nil {
			return err
		}
		*n = Node(p)
		return nil
	default:
		*n = Node{}
		return nil
	}
}

// Tree is the root table-of-contents document.
type Tree struct {
	Books []Node `json:"books"`
}
