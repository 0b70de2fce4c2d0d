package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListingMatches(t *testing.T) {
	l := Listing{Title: "Modern Web Development", Author: "Alex Chen", Tags: []string{"react"}}
	assert.True(t, l.Matches(""))
	assert.True(t, l.Matches("WEB"))
	assert.True(t, l.Matches("chen"))
	assert.True(t, l.Matches("React"))
	assert.False(t, l.Matches("cooking"))
}

func TestListingInCategory(t *testing.T) {
	l := Listing{Category: "Business"}
	assert.True(t, l.InCategory("all"))
	assert.True(t, l.InCategory(""))
	assert.True(t, l.InCategory("business"))
	assert.False(t, l.InCategory("arts"))
}

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{"a", "b c"}, SplitTags(" a, ,b c,,"))
	assert.Empty(t, SplitTags(""))
}

func TestCoverURLPrecedence(t *testing.T) {
	var nilDesign *BookDesign
	assert.Equal(t, PlaceholderCoverURL, nilDesign.CoverURL())

	d := &BookDesign{SelectedTemplate: 2}
	assert.Equal(t, DesignTemplates()[2].Preview, d.CoverURL())

	url := "/static/covers/x.png"
	d.GeneratedCoverURL = &url
	assert.Equal(t, url, d.CoverURL())

	d.GeneratedCoverURL = nil
	d.SelectedTemplate = 9
	assert.Equal(t, PlaceholderCoverURL, d.CoverURL())
}

func TestAuthorGrowth(t *testing.T) {
	assert.Equal(t, 29, AuthorStatsFixture().Growth())
	assert.Equal(t, 0, AuthorStats{ThisMonth: 10}.Growth())
	assert.Equal(t, -50, AuthorStats{ThisMonth: 5, LastMonth: 10}.Growth())
}
