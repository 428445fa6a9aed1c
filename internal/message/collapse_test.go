package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/terranova/internal/wire"
)

func TestCollapseElementsEmpty(t *testing.T) {
	assert.Nil(t, CollapseElements(nil))
	assert.Nil(t, CollapseElements([]*wire.Element{}))
}

// A single pending element is sent as itself, never wrapped.
func TestCollapseElementsSingleton(t *testing.T) {
	el := wire.NewElement(TagChat, "message", "hi")
	got := CollapseElements([]*wire.Element{el})
	assert.Same(t, el, got)
}

func TestCollapseElementsEnvelope(t *testing.T) {
	a := wire.NewElement(TagChat, "message", "first")
	b := wire.NewElement(TagUpdate)
	c := wire.NewElement(TagRemove)

	got := CollapseElements([]*wire.Element{a, b, c})
	require.NotNil(t, got)
	assert.Equal(t, TagMultiple, got.Tag())
	require.Equal(t, 3, got.ChildCount())
	assert.Equal(t, TagChat, got.ChildAt(0).Tag())
	assert.Equal(t, TagUpdate, got.ChildAt(1).Tag())
	assert.Equal(t, TagRemove, got.ChildAt(2).Tag())
}

// Envelope children are copies: mutating an input afterwards cannot
// reach into the batch.
func TestCollapseElementsCopies(t *testing.T) {
	a := wire.NewElement(TagChat, "message", "first")
	b := wire.NewElement(TagChat, "message", "second")
	got := CollapseElements([]*wire.Element{a, b})

	a.SetAttr("message", "tampered")
	assert.Equal(t, "first", got.ChildAt(0).Attr("message"))
}

func TestCollapseMessages(t *testing.T) {
	assert.Nil(t, Collapse(nil))

	one := Collapse([]*Message{New(TagChat, "message", "hi")})
	require.NotNil(t, one)
	assert.Equal(t, TagChat, one.Type())

	two := Collapse([]*Message{New(TagChat, "message", "hi"), New(TagUpdate)})
	require.NotNil(t, two)
	assert.Equal(t, TagMultiple, two.Type())
	assert.Equal(t, 2, two.Root().ChildCount())
}
