package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-course-builder-api/internal/domain/entity"
	"ai-course-builder-api/internal/domain/repository"
)

func newCourse(owner, title string, chapters ...string) *entity.Course {
	c := entity.NewCourse(owner, title, "Go", entity.CourseOptions{})
	c.ApplyOutline(title, "desc", chapters)
	return c
}

func TestCourseRepositoryCreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewCourseRepository(newTestClient(t))

	c := newCourse("owner-1", "Go 101", "A", "B", "C")
	require.NoError(t, repo.Create(ctx, c))
	require.NotEmpty(t, c.ID)

	got, err := repo.GetByIDForOwner(ctx, "owner-1", c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go 101", got.Title)
	assert.Equal(t, entity.DifficultyBeginner, got.Difficulty)
	assert.Equal(t, "1 Hour", got.Duration)
	assert.Equal(t, 5, got.DesiredChapters)
	require.Len(t, got.Chapters, 3)
	for i, ch := range got.Chapters {
		assert.Equal(t, i, ch.Position)
		assert.Equal(t, c.ID, ch.CourseID)
		assert.NotNil(t, ch.References)
	}
	assert.Equal(t, "C", got.Chapters[2].Title)

	_, err = repo.GetByIDForOwner(ctx, "someone-else", c.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCourseRepositoryListByOwnerNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewCourseRepository(newTestClient(t))

	base := time.Now().Add(-time.Hour)
	for i, title := range []string{"first", "second", "third"} {
		c := newCourse("owner-1", title, "A")
		c.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Create(ctx, c))
	}
	require.NoError(t, repo.Create(ctx, newCourse("owner-2", "other")))

	page, err := repo.ListByOwner(ctx, "owner-1", repository.NewPagination(1, 2))
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "third", page.Items[0].Title)
	assert.Equal(t, "second", page.Items[1].Title)
	assert.Len(t, page.Items[0].Chapters, 1)

	page, err = repo.ListByOwner(ctx, "owner-1", repository.NewPagination(2, 2))
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "first", page.Items[0].Title)
}

func TestCourseRepositoryUpdateAndShare(t *testing.T) {
	ctx := context.Background()
	repo := NewCourseRepository(newTestClient(t))

	c := newCourse("owner-1", "Go", "A")
	require.NoError(t, repo.Create(ctx, c))

	c.Title = "Go Advanced"
	c.AddVideo = true
	c.Share("token-1")
	require.NoError(t, repo.Update(ctx, c))

	shared, err := repo.GetByShareID(ctx, "token-1")
	require.NoError(t, err)
	assert.Equal(t, "Go Advanced", shared.Title)
	assert.True(t, shared.AddVideo)
	assert.Len(t, shared.Chapters, 1)

	c.Unshare()
	require.NoError(t, repo.Update(ctx, c))
	_, err = repo.GetByShareID(ctx, "token-1")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	got, err := repo.GetByIDForOwner(ctx, "owner-1", c.ID)
	require.NoError(t, err)
	assert.False(t, got.IsPublic)
	assert.Nil(t, got.ShareID)

	c.OwnerID = "intruder"
	assert.ErrorIs(t, repo.Update(ctx, c), repository.ErrNotFound)
}

func TestCourseRepositoryUpdateChapterContent(t *testing.T) {
	ctx := context.Background()
	repo := NewCourseRepository(newTestClient(t))

	c := newCourse("owner-1", "Go", "A", "B")
	require.NoError(t, repo.Create(ctx, c))

	ch := c.Chapters[1]
	ch.ApplyContent("body", "why", "code", []string{"https://go.dev"})
	require.NoError(t, repo.UpdateChapterContent(ctx, "owner-1", c.ID, ch))

	got, err := repo.GetByIDForOwner(ctx, "owner-1", c.ID)
	require.NoError(t, err)
	assert.Equal(t, "body", got.Chapters[1].Content)
	assert.Equal(t, []string{"https://go.dev"}, got.Chapters[1].References)
	assert.False(t, got.Chapters[0].HasContent())

	// 整体覆盖：清空字段同样写入
	ch.ApplyContent("new", "", "", nil)
	require.NoError(t, repo.UpdateChapterContent(ctx, "owner-1", c.ID, ch))
	got, err = repo.GetByIDForOwner(ctx, "owner-1", c.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Chapters[1].Content)
	assert.Empty(t, got.Chapters[1].Explanation)
	assert.Empty(t, got.Chapters[1].References)

	err = repo.UpdateChapterContent(ctx, "intruder", c.ID, ch)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCourseRepositoryDelete(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	repo := NewCourseRepository(client)

	c := newCourse("owner-1", "Go", "A", "B")
	require.NoError(t, repo.Create(ctx, c))

	assert.ErrorIs(t, repo.Delete(ctx, "intruder", c.ID), repository.ErrNotFound)
	require.NoError(t, repo.Delete(ctx, "owner-1", c.ID))
	assert.ErrorIs(t, repo.Delete(ctx, "owner-1", c.ID), repository.ErrNotFound)

	var remaining int64
	require.NoError(t, client.DB().Model(&entity.Chapter{}).Where("course_id = ?", c.ID).Count(&remaining).Error)
	assert.Zero(t, remaining)
}

func TestTxManagerRollsBack(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	repo := NewCourseRepository(client)
	tx := NewTxManager(client)

	boom := errors.New("boom")
	var id string
	err := tx.WithTransaction(ctx, func(ctx context.Context) error {
		c := newCourse("owner-1", "Go", "A")
		if err := repo.Create(ctx, c); err != nil {
			return err
		}
		id = c.ID
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = repo.GetByIDForOwner(ctx, "owner-1", id)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestHealthCheck(t *testing.T) {
	client := newTestClient(t)
	assert.NoError(t, client.HealthCheck(context.Background()))
	assert.NoError(t, client.Ping(context.Background()))
}
