package course

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-course-builder-api/internal/domain/entity"
	"ai-course-builder-api/internal/domain/repository"
	"ai-course-builder-api/internal/infrastructure/messaging"
	rediscache "ai-course-builder-api/internal/infrastructure/persistence/redis"
	apperrors "ai-course-builder-api/pkg/errors"
)

func createCourse(t *testing.T, f *fixture) *entity.Course {
	t.Helper()
	c, err := f.svc.Create(context.Background(), "owner", CreateInput{Title: "Go 101", Topic: "Go"})
	require.NoError(t, err)
	return c
}

func strPtr(s string) *string { return &s }

func TestCreate(t *testing.T) {
	f := newFixture()

	c := createCourse(t, f)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "Generated", c.Title)
	assert.Equal(t, "Go", c.Topic)
	assert.Equal(t, "D", c.Description)
	require.Len(t, c.Chapters, 3)
	for i, ch := range c.Chapters {
		assert.Equal(t, i, ch.Position)
		assert.False(t, ch.HasContent())
	}

	assert.Equal(t, "Beginner", f.outlines.gotOpts.Difficulty)
	assert.Equal(t, entity.DefaultDesiredChapters, f.outlines.gotOpts.DesiredChapters)
	assert.Equal(t, entity.DefaultDuration, f.outlines.gotOpts.Duration)

	stored, err := f.svc.Get(context.Background(), "owner", c.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Chapters, 3)
}

func TestCreateKeepsInputTitleWhenOutlineHasNone(t *testing.T) {
	f := newFixture()
	f.outlines.outline.Title = ""

	c := createCourse(t, f)
	assert.Equal(t, "Go 101", c.Title)
}

func TestCreateRequiresTitleAndTopic(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(context.Background(), "owner", CreateInput{Title: " ", Topic: "Go"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidParam)

	_, err = f.svc.Create(context.Background(), "owner", CreateInput{Title: "T"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidParam)
}

func TestGetIsOwnerScoped(t *testing.T) {
	f := newFixture()
	c := createCourse(t, f)

	_, err := f.svc.Get(context.Background(), "someone-else", c.ID)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestList(t *testing.T) {
	f := newFixture()
	createCourse(t, f)
	createCourse(t, f)

	res, err := f.svc.List(context.Background(), "owner", repository.NewPagination(1, 10))
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.Total)

	res, err = f.svc.List(context.Background(), "nobody", repository.NewPagination(1, 10))
	require.NoError(t, err)
	assert.Empty(t, res.Items)
}

func TestUpdate(t *testing.T) {
	f := newFixture()
	c := createCourse(t, f)
	ctx := context.Background()

	updated, err := f.svc.Update(ctx, "owner", c.ID, UpdateInput{
		Title:      strPtr("Renamed"),
		Difficulty: strPtr("advance"),
		Chapters: []ChapterEdit{{
			ID:         c.Chapters[1].ID,
			Content:    strPtr("<p>hand written</p>"),
			References: []string{"https://pkg.go.dev/"},
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, entity.DifficultyAdvance, updated.Difficulty)

	stored, err := f.svc.Get(ctx, "owner", c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", stored.Title)
	assert.Equal(t, "<p>hand written</p>", stored.Chapters[1].Content)
	assert.Equal(t, []string{"https://pkg.go.dev/"}, stored.Chapters[1].References)
	assert.Equal(t, "B", stored.Chapters[1].Title)
	assert.Len(t, stored.Chapters, 3)
}

func TestUpdateRejectsInvalidInput(t *testing.T) {
	f := newFixture()
	c := createCourse(t, f)
	ctx := context.Background()

	_, err := f.svc.Update(ctx, "owner", c.ID, UpdateInput{Chapters: []ChapterEdit{{ID: "missing"}}})
	assert.ErrorIs(t, err, apperrors.ErrChapterNotFound)

	_, err = f.svc.Update(ctx, "owner", c.ID, UpdateInput{Difficulty: strPtr("Expert")})
	assert.ErrorIs(t, err, apperrors.ErrInvalidParam)

	_, err = f.svc.Update(ctx, "owner", c.ID, UpdateInput{Title: strPtr("")})
	assert.ErrorIs(t, err, apperrors.ErrInvalidParam)

	_, err = f.svc.Update(ctx, "other", c.ID, UpdateInput{Title: strPtr("x")})
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestPatch(t *testing.T) {
	f := newFixture()
	c := createCourse(t, f)
	ctx := context.Background()

	patch := []byte(`[
		{"op":"replace","path":"/title","value":"Patched"},
		{"op":"replace","path":"/chapters/0/content","value":"new body"},
		{"op":"add","path":"/chapters/0/references/-","value":"https://go.dev/doc/"}
	]`)
	updated, err := f.svc.Patch(ctx, "owner", c.ID, patch)
	require.NoError(t, err)
	assert.Equal(t, "Patched", updated.Title)

	stored, err := f.svc.Get(ctx, "owner", c.ID)
	require.NoError(t, err)
	assert.Equal(t, "new body", stored.Chapters[0].Content)
	assert.Equal(t, []string{"https://go.dev/doc/"}, stored.Chapters[0].References)
	assert.Equal(t, "Go", stored.Topic)
}

func TestPatchRejectsStructuralChanges(t *testing.T) {
	f := newFixture()
	c := createCourse(t, f)
	ctx := context.Background()

	cases := map[string]string{
		"malformed":      `{"op":"replace"}`,
		"missing path":   `[{"op":"replace","path":"/nope/0","value":1}]`,
		"remove chapter": `[{"op":"remove","path":"/chapters/0"}]`,
		"add chapter":    `[{"op":"add","path":"/chapters/-","value":{"id":"x","title":"new"}}]`,
		"change id":      `[{"op":"replace","path":"/chapters/0/id","value":"other"}]`,
	}
	for name, patch := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.Patch(ctx, "owner", c.ID, []byte(patch))
			assert.ErrorIs(t, err, apperrors.ErrInvalidPatch)
		})
	}
}

func TestGenerateChapterOverwritesWholesale(t *testing.T) {
	f := newFixture()
	c := createCourse(t, f)
	ctx := context.Background()

	_, err := f.svc.Update(ctx, "owner", c.ID, UpdateInput{Chapters: []ChapterEdit{{
		ID:          c.Chapters[0].ID,
		Explanation: strPtr("stale"),
		References:  []string{"a", "b", "c"},
	}}})
	require.NoError(t, err)

	ch, err := f.svc.GenerateChapter(ctx, "owner", c.ID, c.Chapters[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "body of A", ch.Content)
	assert.Equal(t, "why A", ch.Explanation)
	assert.Equal(t, "code Go", ch.CodeExample)
	assert.Equal(t, []string{"https://go.dev/"}, ch.References)

	stored, err := f.svc.Get(ctx, "owner", c.ID)
	require.NoError(t, err)
	assert.Equal(t, "body of A", stored.Chapters[0].Content)
	assert.Equal(t, []string{"https://go.dev/"}, stored.Chapters[0].References)
	assert.False(t, stored.Chapters[1].HasContent())
}

func TestGenerateChapterNotFound(t *testing.T) {
	f := newFixture()
	c := createCourse(t, f)

	_, err := f.svc.GenerateChapter(context.Background(), "owner", c.ID, "missing")
	assert.ErrorIs(t, err, apperrors.ErrChapterNotFound)

	_, err = f.svc.GenerateChapter(context.Background(), "other", c.ID, c.Chapters[0].ID)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestGenerateAllChaptersBoundsParallelism(t *testing.T) {
	f := newFixture()
	f.outlines.outline.Chapters = append(f.outlines.outline.Chapters,
		f.outlines.outline.Chapters[0], f.outlines.outline.Chapters[1], f.outlines.outline.Chapters[2])
	f.chapters.delay = 20 * time.Millisecond
	c := createCourse(t, f)
	require.Len(t, c.Chapters, 6)

	updated, err := f.svc.GenerateAllChapters(context.Background(), "owner", c.ID)
	require.NoError(t, err)

	assert.EqualValues(t, 6, f.chapters.calls)
	assert.LessOrEqual(t, f.chapters.maxSeen, int32(2))
	for _, ch := range updated.Chapters {
		assert.Equal(t, "body of "+ch.Title, ch.Content)
	}

	stored, err := f.svc.Get(context.Background(), "owner", c.ID)
	require.NoError(t, err)
	for i, ch := range stored.Chapters {
		assert.Equal(t, i, ch.Position)
		assert.True(t, ch.HasContent())
	}
	assert.EqualValues(t, 1, f.tx.calls)
}

func TestEnqueueGenerateAll(t *testing.T) {
	f := newFixture()
	c := createCourse(t, f)
	ctx := context.Background()

	jobID, err := f.svc.EnqueueGenerateAll(ctx, "owner", c.ID)
	require.NoError(t, err)
	require.Len(t, f.jobs.jobs, 1)
	assert.Equal(t, jobID, f.jobs.jobs[0].JobID)
	assert.Equal(t, c.ID, f.jobs.jobs[0].CourseID)
	assert.Equal(t, "owner", f.jobs.jobs[0].UserID)

	_, err = f.svc.EnqueueGenerateAll(ctx, "other", c.ID)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)

	f.jobs.err = errors.New("redis down")
	_, err = f.svc.EnqueueGenerateAll(ctx, "owner", c.ID)
	assert.ErrorIs(t, err, apperrors.ErrEnqueueFailed)

	noQueue := NewService(f.repo, f.tx, f.outlines, f.chapters, nil, nil, Config{})
	_, err = noQueue.EnqueueGenerateAll(ctx, "owner", c.ID)
	assert.ErrorIs(t, err, apperrors.ErrServiceUnavailable)
}

func TestHandleGenerateAllJob(t *testing.T) {
	f := newFixture()
	c := createCourse(t, f)
	ctx := context.Background()

	msg, err := messaging.NewMessage("job", messaging.MessageTypeGenerateAllChapters, "owner", c.ID,
		&messaging.GenerateAllChaptersJob{JobID: "job", UserID: "owner", CourseID: c.ID})
	require.NoError(t, err)
	require.NoError(t, f.svc.HandleGenerateAllJob(ctx, msg))

	stored, err := f.svc.Get(ctx, "owner", c.ID)
	require.NoError(t, err)
	assert.True(t, stored.Chapters[2].HasContent())

	gone, err := messaging.NewMessage("job2", messaging.MessageTypeGenerateAllChapters, "owner", "missing",
		&messaging.GenerateAllChaptersJob{JobID: "job2", UserID: "owner", CourseID: "missing"})
	require.NoError(t, err)
	assert.NoError(t, f.svc.HandleGenerateAllJob(ctx, gone))
}

func TestShareLifecycle(t *testing.T) {
	f := newFixture()
	c := createCourse(t, f)
	ctx := context.Background()

	shared, err := f.svc.Share(ctx, "owner", c.ID)
	require.NoError(t, err)
	require.True(t, shared.IsShared())
	shareID := *shared.ShareID
	assert.Len(t, shareID, 36)

	again, err := f.svc.Share(ctx, "owner", c.ID)
	require.NoError(t, err)
	assert.Equal(t, shareID, *again.ShareID)

	public, err := f.svc.GetShared(ctx, shareID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, public.ID)
	assert.Len(t, public.Chapters, 3)

	_, err = f.svc.GetShared(ctx, shareID)
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.loads)

	_, err = f.svc.Update(ctx, "owner", c.ID, UpdateInput{Title: strPtr("Fresh")})
	require.NoError(t, err)
	assert.Contains(t, f.cache.deleted, rediscache.ShareKey(shareID))

	public, err = f.svc.GetShared(ctx, shareID)
	require.NoError(t, err)
	assert.Equal(t, "Fresh", public.Title)
	assert.Equal(t, 2, f.cache.loads)

	unshared, err := f.svc.Unshare(ctx, "owner", c.ID)
	require.NoError(t, err)
	assert.False(t, unshared.IsPublic)
	assert.Nil(t, unshared.ShareID)

	_, err = f.svc.GetShared(ctx, shareID)
	assert.ErrorIs(t, err, apperrors.ErrShareNotFound)

	reshared, err := f.svc.Share(ctx, "owner", c.ID)
	require.NoError(t, err)
	assert.NotEqual(t, shareID, *reshared.ShareID)
}

func TestGetSharedWithoutCache(t *testing.T) {
	f := newFixture()
	svc := NewService(f.repo, f.tx, f.outlines, f.chapters, nil, nil, Config{})
	c := createCourse(t, f)

	shared, err := svc.Share(context.Background(), "owner", c.ID)
	require.NoError(t, err)

	got, err := svc.GetShared(context.Background(), *shared.ShareID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)

	_, err = svc.GetShared(context.Background(), "")
	assert.ErrorIs(t, err, apperrors.ErrShareNotFound)
}

func TestDelete(t *testing.T) {
	f := newFixture()
	c := createCourse(t, f)
	ctx := context.Background()

	shared, err := f.svc.Share(ctx, "owner", c.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.Delete(ctx, "other", c.ID), apperrors.ErrCourseNotFound)
	require.NoError(t, f.svc.Delete(ctx, "owner", c.ID))
	assert.Contains(t, f.cache.deleted, rediscache.ShareKey(*shared.ShareID))

	_, err = f.svc.Get(ctx, "owner", c.ID)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
	assert.ErrorIs(t, f.svc.Delete(ctx, "owner", c.ID), apperrors.ErrCourseNotFound)
}
