package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPager_ShowMoreShowLess(t *testing.T) {
	records := sampleTools()
	p := NewPager(6, 6)

	page := Apply(records, Params{Visible: p.Visible()})
	assert.True(t, page.HasMore)
	assert.False(t, p.CanLess(page))

	assert.True(t, p.Toggle(page))
	assert.Equal(t, 12, p.Visible())

	page = Apply(records, Params{Visible: p.Visible()})
	assert.Len(t, page.Records, 9)
	assert.False(t, page.HasMore)
	assert.True(t, p.CanLess(page))

	assert.True(t, p.Toggle(page))
	assert.Equal(t, 6, p.Visible())
}

func TestPager_LessOnlyWhenExhausted(t *testing.T) {
	p := NewPager(2, 2)
	records := sampleTools()

	p.More()
	page := Apply(records, Params{Visible: p.Visible()})
	assert.True(t, page.HasMore)
	assert.False(t, p.Less(page), "records remain, so the cursor stays")
	assert.Equal(t, 4, p.Visible())
}

func TestPager_NothingToToggle(t *testing.T) {
	p := NewPager(6, 6)
	page := Apply(sampleTools()[:3], Params{Visible: p.Visible()})

	assert.False(t, p.Toggle(page))
	assert.Equal(t, 6, p.Visible())
}

func TestPager_Reset(t *testing.T) {
	p := NewPager(0, -1)
	assert.Equal(t, DefaultPageSize, p.PageSize())

	p.More()
	p.More()
	assert.Equal(t, DefaultPageSize+2*DefaultPageIncrement, p.Visible())

	p.Reset()
	assert.Equal(t, DefaultPageSize, p.Visible())
}
