// Package graph is a minimal scene graph: named nodes with a local
// transform, optional geometry, and parent/child links.
package graph

import (
	"sync/atomic"

	"github.com/gekko3d/scrub/mesh"
	"github.com/go-gl/mathgl/mgl32"
)

// NodeID is unique for the lifetime of the process.
type NodeID uint64

var lastNodeID atomic.Uint64

type Node struct {
	ID      NodeID
	Name    string
	Local   Transform
	Visible bool
	// Geometry is in the node's object space; nil for groups.
	Geometry *mesh.Mesh
	Color    [4]uint8

	parent   *Node
	children []*Node
}

func NewNode(name string) *Node {
	return &Node{
		ID:      NodeID(lastNodeID.Add(1)),
		Name:    name,
		Local:   NewTransform(),
		Visible: true,
	}
}

func (n *Node) Parent() *Node { return n.parent }

func (n *Node) Children() []*Node { return n.children }

// Add attaches child to n, detaching it from any previous parent.
func (n *Node) Add(child *Node) {
	if child == nil || child == n {
		return
	}
	child.Detach()
	child.parent = n
	n.children = append(n.children, child)
}

// Remove detaches a direct child. It reports whether child was attached to n.
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			child.parent = nil
			return true
		}
	}
	return false
}

func (n *Node) Detach() {
	if n.parent != nil {
		n.parent.Remove(n)
	}
}

// Clear detaches every child.
func (n *Node) Clear() {
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
}

func (n *Node) WorldTransform() Transform {
	if n.parent == nil {
		return n.Local
	}
	return n.parent.WorldTransform().Compose(n.Local)
}

func (n *Node) WorldMatrix() mgl32.Mat4 {
	m := n.Local.ObjectToWorld()
	for p := n.parent; p != nil; p = p.parent {
		m = p.Local.ObjectToWorld().Mul4(m)
	}
	return m
}

func (n *Node) WorldPosition() mgl32.Vec3 {
	return n.WorldMatrix().Col(3).Vec3()
}

// Traverse visits n and its descendants depth first. Returning false from fn
// skips the node's subtree.
func (n *Node) Traverse(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Traverse(fn)
	}
}

// Find returns the first descendant (or n itself) with the given name.
func (n *Node) Find(name string) *Node {
	var found *Node
	n.Traverse(func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.Name == name {
			found = c
			return false
		}
		return true
	})
	return found
}
