package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLayout(t *testing.T) {
	l := NewLayout(60, 20)
	assert.Equal(t, 60, l.ContentWidth())
	assert.Equal(t, 18, l.ContentHeight())

	header := l.RenderHeader("campuspocket", "8:55 AM")
	assert.Contains(t, header, "campuspocket")
	assert.Contains(t, header, "8:55 AM")

	frame := l.RenderWithFrame(header, "body", l.RenderStatusBar("q quit"))
	assert.Equal(t, 3, len(strings.Split(frame, "\n")))
}
