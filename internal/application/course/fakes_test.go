package course

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"ai-course-builder-api/internal/application/generation"
	"ai-course-builder-api/internal/domain/entity"
	"ai-course-builder-api/internal/domain/repository"
	"ai-course-builder-api/internal/infrastructure/messaging"
)

// memCourseRepo 内存课程仓储，读写都做深拷贝
type memCourseRepo struct {
	mu      sync.Mutex
	courses map[string]*entity.Course
	updates int
}

func newMemCourseRepo() *memCourseRepo {
	return &memCourseRepo{courses: make(map[string]*entity.Course)}
}

func clone(c *entity.Course) *entity.Course {
	b, _ := json.Marshal(c)
	var out entity.Course
	_ = json.Unmarshal(b, &out)
	out.OwnerID = c.OwnerID
	for _, ch := range out.Chapters {
		ch.CourseID = c.ID
	}
	return &out
}

func (r *memCourseRepo) Create(_ context.Context, c *entity.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	for _, ch := range c.Chapters {
		ch.CourseID = c.ID
	}
	r.courses[c.ID] = clone(c)
	return nil
}

func (r *memCourseRepo) GetByIDForOwner(_ context.Context, ownerID, id string) (*entity.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.courses[id]
	if !ok || c.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	return clone(c), nil
}

func (r *memCourseRepo) GetByShareID(_ context.Context, shareID string) (*entity.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.courses {
		if c.IsPublic && c.ShareID != nil && *c.ShareID == shareID {
			return clone(c), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memCourseRepo) ListByOwner(_ context.Context, ownerID string, p repository.Pagination) (*repository.PagedResult[*entity.Course], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []*entity.Course
	for _, c := range r.courses {
		if c.OwnerID == ownerID {
			items = append(items, clone(c))
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	total := int64(len(items))
	start := min(p.Offset(), len(items))
	end := min(start+p.Limit(), len(items))
	return repository.NewPagedResult(items[start:end], total, p), nil
}

func (r *memCourseRepo) Update(_ context.Context, c *entity.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.courses[c.ID]
	if !ok || stored.OwnerID != c.OwnerID {
		return repository.ErrNotFound
	}
	chapters := stored.Chapters
	updated := clone(c)
	updated.Chapters = chapters
	r.courses[c.ID] = updated
	r.updates++
	return nil
}

func (r *memCourseRepo) Delete(_ context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.courses[id]
	if !ok || c.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(r.courses, id)
	return nil
}

func (r *memCourseRepo) UpdateChapterContent(_ context.Context, ownerID, courseID string, ch *entity.Chapter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.courses[courseID]
	if !ok || c.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	stored := c.ChapterByID(ch.ID)
	if stored == nil {
		return repository.ErrNotFound
	}
	stored.Title = ch.Title
	stored.ApplyContent(ch.Content, ch.Explanation, ch.CodeExample, ch.References)
	return nil
}

// passTx 直接执行回调
type passTx struct{ calls int32 }

func (t *passTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	atomic.AddInt32(&t.calls, 1)
	return fn(ctx)
}

type stubOutlines struct {
	outline *generation.CourseOutline
	gotOpts generation.GenerationOptions
}

func (s *stubOutlines) Generate(_ context.Context, title, _ string, opts generation.GenerationOptions) *generation.CourseOutline {
	s.gotOpts = opts
	out := *s.outline
	if out.Title == "" {
		out.Title = title
	}
	return &out
}

// stubChapters 按章节标题返回内容，并记录最大并发
type stubChapters struct {
	delay   time.Duration
	active  int32
	maxSeen int32
	calls   int32
}

func (s *stubChapters) Generate(_ context.Context, chapterTitle, topic string) *generation.ChapterContent {
	atomic.AddInt32(&s.calls, 1)
	n := atomic.AddInt32(&s.active, 1)
	for {
		seen := atomic.LoadInt32(&s.maxSeen)
		if n <= seen || atomic.CompareAndSwapInt32(&s.maxSeen, seen, n) {
			break
		}
	}
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	atomic.AddInt32(&s.active, -1)
	return &generation.ChapterContent{
		Content:     "body of " + chapterTitle,
		Explanation: "why " + chapterTitle,
		CodeExample: "code " + topic,
		References:  []string{"https://go.dev/"},
	}
}

// memCache 内存缓存，记录加载与删除次数
type memCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	loads   int
	deleted []string
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (c *memCache) GetOrLoad(ctx context.Context, key string, _ time.Duration, loader func(ctx context.Context) (any, error)) ([]byte, error) {
	c.mu.Lock()
	if b, ok := c.data[key]; ok {
		c.mu.Unlock()
		return b, nil
	}
	c.loads++
	c.mu.Unlock()

	v, err := loader(ctx)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.data[key] = b
	c.mu.Unlock()
	return b, nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
		c.deleted = append(c.deleted, k)
	}
	return nil
}

type recordingPublisher struct {
	jobs []*messaging.GenerateAllChaptersJob
	err  error
}

func (p *recordingPublisher) PublishGenerateAllChapters(_ context.Context, job *messaging.GenerateAllChaptersJob) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	p.jobs = append(p.jobs, job)
	return "1-0", nil
}

type fixture struct {
	svc      *Service
	repo     *memCourseRepo
	tx       *passTx
	outlines *stubOutlines
	chapters *stubChapters
	cache    *memCache
	jobs     *recordingPublisher
}

func newFixture() *fixture {
	outline := &generation.CourseOutline{
		Title:       "Generated",
		Description: "D",
		Chapters:    []generation.OutlineChapter{{Title: "A"}, {Title: "B"}, {Title: "C"}},
	}
	f := &fixture{
		repo:     newMemCourseRepo(),
		tx:       &passTx{},
		outlines: &stubOutlines{outline: outline},
		chapters: &stubChapters{},
		cache:    newMemCache(),
		jobs:     &recordingPublisher{},
	}
	f.svc = NewService(f.repo, f.tx, f.outlines, f.chapters, f.cache, f.jobs, Config{MaxParallelChapters: 2})
	return f
}
