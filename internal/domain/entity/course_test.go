package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCourseDefaults(t *testing.T) {
	c := NewCourse("owner", "Go", "golang", CourseOptions{})
	assert.Equal(t, DifficultyBeginner, c.Difficulty)
	assert.Equal(t, "1 Hour", c.Duration)
	assert.False(t, c.AddVideo)
	assert.Equal(t, 5, c.DesiredChapters)
	assert.False(t, c.IsPublic)
	assert.Nil(t, c.ShareID)
	assert.NotNil(t, c.Chapters)
}

func TestParseDifficulty(t *testing.T) {
	d, err := ParseDifficulty("intermediate")
	require.NoError(t, err)
	assert.Equal(t, DifficultyIntermediate, d)

	d, err = ParseDifficulty("")
	require.NoError(t, err)
	assert.Equal(t, DifficultyBeginner, d)

	_, err = ParseDifficulty("Expert")
	assert.Error(t, err)
}

func TestApplyOutline(t *testing.T) {
	c := NewCourse("owner", "Input", "Go", CourseOptions{})
	c.ApplyOutline("", "desc", []string{"A", "B"})

	assert.Equal(t, "Input", c.Title)
	assert.Equal(t, "desc", c.Description)
	require.Len(t, c.Chapters, 2)
	assert.Equal(t, 0, c.Chapters[0].Position)
	assert.Equal(t, "B", c.Chapters[1].Title)
	assert.NotEmpty(t, c.Chapters[0].ID)
	assert.False(t, c.Chapters[0].HasContent())
	assert.Same(t, c.Chapters[1], c.ChapterByID(c.Chapters[1].ID))
	assert.Nil(t, c.ChapterByID("missing"))

	c.ApplyOutline("Generated", "d", nil)
	assert.Equal(t, "Generated", c.Title)
	assert.Empty(t, c.Chapters)
}

func TestShareUnshareKeepsFieldsCoupled(t *testing.T) {
	c := NewCourse("owner", "T", "Go", CourseOptions{})
	c.Share("tok-1")
	assert.True(t, c.IsShared())
	assert.Equal(t, "tok-1", *c.ShareID)

	c.Share("tok-2")
	assert.Equal(t, "tok-1", *c.ShareID)

	c.Unshare()
	assert.False(t, c.IsPublic)
	assert.Nil(t, c.ShareID)
	assert.False(t, c.IsShared())
}

func TestChapterApplyContentOverwrites(t *testing.T) {
	ch := NewChapter("c", 0, "Intro")
	ch.ApplyContent("body", "why", "code", []string{"a", "b"})
	assert.True(t, ch.HasContent())

	ch.ApplyContent("new", "", "", nil)
	assert.Equal(t, "new", ch.Content)
	assert.Empty(t, ch.Explanation)
	assert.Empty(t, ch.CodeExample)
	assert.NotNil(t, ch.References)
	assert.Empty(t, ch.References)
}

func TestSortChapters(t *testing.T) {
	c := &Course{Chapters: []*Chapter{{Position: 2}, {Position: 0}, {Position: 1}}}
	c.SortChapters()
	assert.Equal(t, 0, c.Chapters[0].Position)
	assert.Equal(t, 2, c.Chapters[2].Position)
}

func TestUserPassword(t *testing.T) {
	u := NewUser("  Foo@Example.COM ", "Foo")
	assert.Equal(t, "foo@example.com", u.Email)
	require.NoError(t, u.SetPassword("secret"))
	assert.True(t, u.CheckPassword("secret"))
	assert.False(t, u.CheckPassword("wrong"))
}
