package graph

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeIDsAreUnique(t *testing.T) {
	a, b := NewNode("a"), NewNode("b")
	assert.NotEqual(t, a.ID, b.ID)
}

func TestAddReparents(t *testing.T) {
	root1, root2, child := NewNode("r1"), NewNode("r2"), NewNode("c")
	root1.Add(child)
	root2.Add(child)

	assert.Empty(t, root1.Children())
	require.Len(t, root2.Children(), 1)
	assert.Same(t, root2, child.Parent())

	assert.True(t, root2.Remove(child))
	assert.False(t, root2.Remove(child))
	assert.Nil(t, child.Parent())
}

func TestClearDetachesAll(t *testing.T) {
	root := NewNode("root")
	a, b := NewNode("a"), NewNode("b")
	root.Add(a)
	root.Add(b)
	root.Clear()
	assert.Empty(t, root.Children())
	assert.Nil(t, a.Parent())
	assert.Nil(t, b.Parent())
}

func TestWorldMatrixComposesParents(t *testing.T) {
	root := NewNode("root")
	root.Local.Position = mgl32.Vec3{1, 0, 0}
	root.Local.Rotation = mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})
	child := NewNode("child")
	child.Local.Position = mgl32.Vec3{0, 0, 2}
	child.Local.Scale = mgl32.Vec3{2, 2, 2}
	root.Add(child)

	p := child.WorldPosition()
	// +Z rotated 90° about Y is +X.
	assert.InDelta(t, 3, p.X(), 1e-5)
	assert.InDelta(t, 0, p.Z(), 1e-5)

	wt := child.WorldTransform()
	assert.InDelta(t, p.X(), wt.Position.X(), 1e-5)
	assert.InDelta(t, 2, wt.Scale.X(), 1e-6)
}

func TestWorldToObjectInvertsObjectToWorld(t *testing.T) {
	tr := NewTransform()
	tr.Position = mgl32.Vec3{3, -2, 5}
	tr.Rotation = mgl32.QuatRotate(0.7, mgl32.Vec3{1, 1, 0}.Normalize())
	tr.Scale = mgl32.Vec3{0.5, 0.5, 0.5}

	p := mgl32.Vec3{0.3, 0.2, -1}
	round := tr.WorldToObject().Mul4x1(tr.ObjectToWorld().Mul4x1(p.Vec4(1))).Vec3()
	assert.True(t, round.ApproxEqualThreshold(p, 1e-4), "got %v", round)
}

func TestFindAndTraverse(t *testing.T) {
	root := NewNode("root")
	group := NewNode("group")
	leaf := NewNode("leaf")
	root.Add(group)
	group.Add(leaf)

	assert.Same(t, leaf, root.Find("leaf"))
	assert.Nil(t, root.Find("missing"))

	var names []string
	root.Traverse(func(n *Node) bool {
		names = append(names, n.Name)
		return n.Name != "group"
	})
	assert.Equal(t, []string{"root", "group"}, names)
}
