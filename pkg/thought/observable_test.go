package thought

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ha1tch/thinkmap/pkg/geom"
)

func TestObservable(t *testing.T) {
	var o Observable
	var got []string

	first := o.Subscribe(func(m Message) { got = append(got, "first:"+string(m)) })
	o.Subscribe(func(m Message) { got = append(got, "second:"+string(m)) })
	assert.Equal(t, 2, o.Observers())

	o.Notify(MessageModified)
	assert.Equal(t, []string{"first:modified", "second:modified"}, got)

	got = nil
	o.Unsubscribe(first)
	o.Unsubscribe(first)
	o.Notify(MessageXOffset)
	assert.Equal(t, []string{"second:xOffset"}, got)
}

func TestObservableUnsubscribeDuringNotify(t *testing.T) {
	var o Observable
	calls := 0
	var id Subscription
	id = o.Subscribe(func(Message) {
		calls++
		o.Unsubscribe(id)
	})
	o.Subscribe(func(Message) { calls++ })

	o.Notify(MessageModified)
	o.Notify(MessageModified)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 1, o.Observers())
}

func TestViewport(t *testing.T) {
	v := NewViewport(10, 20)
	var msgs []Message
	v.Subscribe(func(m Message) { msgs = append(msgs, m) })

	assert.Equal(t, geom.Pt(15, 25), v.ToAbsolute(geom.Pt(5, 5)))
	assert.Equal(t, geom.Pt(5, 5), v.ToRelative(geom.Pt(15, 25)))

	v.Pan(geom.Pt(3, -4))
	assert.Equal(t, geom.Pt(7, 24), v.Offset())
	assert.Equal(t, []Message{MessageXOffset, MessageYOffset}, msgs)

	msgs = nil
	v.SetXOffset(1)
	assert.Equal(t, []Message{MessageXOffset}, msgs)
	assert.Equal(t, 1.0, v.XOffset())
	assert.Equal(t, 24.0, v.YOffset())
}

func TestTheme(t *testing.T) {
	theme := DefaultTheme()
	assert.NoError(t, theme.Validate())

	c, err := theme.Color(theme.BackgroundTopColor)
	assert.NoError(t, err)
	assert.Equal(t, "#abccff", c.Hex())

	_, err = theme.Color("nope")
	assert.Error(t, err)
	assert.Equal(t, "#000000", theme.ColorOrBlack("nope").Hex())

	white, _ := theme.Color("#FFFFFF")
	black, _ := theme.Color("#000000")
	assert.Equal(t, black, Gradient(black, black, 0.7))
	assert.Equal(t, "#808080", Gradient(black, white, 0.5).Hex())
	assert.Equal(t, "#ffffff", Lighten(black, 1).Hex())

	theme.Name = ""
	assert.ErrorContains(t, theme.Validate(), "name is required")
}
