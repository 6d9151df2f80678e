package codec

import (
	"fmt"
	"io"
)

// testNode is a minimal node shape used only to exercise the codec
// against something simpler than a real term graph: a byte tag, an
// int32 payload, and either a list of children or (if refTo is set) a
// reference to another node.
type testNode struct {
	tag      byte
	value    int32
	children []*testNode
	refTo    *testNode
}

func leaf(tag byte, value int32) *testNode {
	return &testNode{tag: tag, value: value}
}

func nested(tag byte, value int32, children ...*testNode) *testNode {
	return &testNode{tag: tag, value: value, children: children}
}

func ref(to *testNode) *testNode {
	return &testNode{refTo: to}
}

// testCodec implements GraphCodec[*testNode, *testNode] — R and G are
// the same concrete type here, the common case where a reference
// occurrence needs no lighter-weight representation of its own.
type testCodec struct{}

func (testCodec) WriteBytePrefix(g *testNode, sink io.Writer) error {
	buf := prefixBytes(g)
	_, err := sink.Write(buf)
	return err
}

func (testCodec) BytePrefixLength(g *testNode) int {
	return len(prefixBytes(g))
}

func (testCodec) BytePrefixIndex(g *testNode, i int) byte {
	return prefixBytes(g)[i]
}

func (testCodec) Foreach(g *testNode, f func(child *testNode)) {
	for _, c := range g.children {
		f(c)
	}
}

func (testCodec) IsReference(g *testNode) bool {
	return g.refTo != nil
}

func (testCodec) AsReference(g *testNode) *testNode {
	return g
}

func (testCodec) Dereference(r *testNode) *testNode {
	return r.refTo
}

func (testCodec) ToGraph(r *testNode) *testNode {
	return r
}

func (testCodec) StageDecoder(src io.Reader) Decoder[*testNode, *testNode] {
	return &testDecoder{src: src}
}

func prefixBytes(g *testNode) []byte {
	buf := make([]byte, 5)
	buf[0] = g.tag
	putU32BE(buf[1:], uint32(g.value))
	return buf
}

type testDecoder struct {
	src io.Reader
}

func (d *testDecoder) Decode(nextChild func() (*testNode, bool)) (*testNode, error) {
	var buf [5]byte
	if _, err := io.ReadFull(d.src, buf[:]); err != nil {
		return nil, fmt.Errorf("testDecoder: short prefix read: %w", err)
	}
	n := &testNode{tag: buf[0], value: int32(getU32BE(buf[1:]))}
	for {
		child, ok := nextChild()
		if !ok {
			break
		}
		n.children = append(n.children, child)
	}
	return n, nil
}

func (d *testDecoder) MakeReference(pos uint64, prefix []byte) *testNode {
	return &testNode{}
}

func (d *testDecoder) SetReference(r *testNode, referent *testNode) {
	r.refTo = referent
}

// equalGraph compares two testNode graphs structurally, following
// references but not re-entering an already-visited pair (so it
// terminates on cyclic graphs).
func equalGraph(a, b *testNode) bool {
	return equalGraphVisited(a, b, map[[2]*testNode]bool{})
}

func equalGraphVisited(a, b *testNode, visited map[[2]*testNode]bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	key := [2]*testNode{a, b}
	if visited[key] {
		return true
	}
	visited[key] = true

	if (a.refTo == nil) != (b.refTo == nil) {
		return false
	}
	if a.refTo != nil {
		return equalGraphVisited(a.refTo, b.refTo, visited)
	}
	if a.tag != b.tag || a.value != b.value || len(a.children) != len(b.children) {
		return false
	}
	for i := range a.children {
		if !equalGraphVisited(a.children[i], b.children[i], visited) {
			return false
		}
	}
	return true
}
