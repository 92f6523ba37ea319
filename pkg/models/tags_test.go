package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQualify(t *testing.T) {
	assert.Equal(t, "mark/x", CategoryMark.Qualify("x"))
	assert.Equal(t, "tag/web", CategoryTag.Qualify("web"))
	assert.Equal(t, "service/x", CategoryMark.Qualify("service/x"))
}

func TestCategoryAndShortName(t *testing.T) {
	tag := TagInfo{Name: "service/dns"}
	assert.Equal(t, CategoryService, tag.Category())
	assert.Equal(t, "dns", tag.ShortName())
	assert.True(t, tag.Category().Valid())

	bare := TagInfo{Name: "orphan"}
	assert.Equal(t, TagCategory("orphan"), bare.Category())
	assert.Equal(t, "orphan", bare.ShortName())
	assert.False(t, bare.Category().Valid())
}
