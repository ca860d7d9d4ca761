package content_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/kyangwi/portfolio/internal/cache"
	"github.com/kyangwi/portfolio/internal/content"
	"github.com/kyangwi/portfolio/internal/docstore"
	"github.com/kyangwi/portfolio/internal/domain/achievement"
	"github.com/kyangwi/portfolio/internal/domain/blog"
	"github.com/kyangwi/portfolio/internal/domain/course"
	"github.com/kyangwi/portfolio/internal/domain/cv"
	"github.com/kyangwi/portfolio/internal/richtext"
	"github.com/kyangwi/portfolio/pkg/apperror"
	"github.com/kyangwi/portfolio/pkg/logger"
)

type notifyEvent struct {
	entity content.Entity
	action string
	id     string
}

type recordingNotifier struct {
	events []notifyEvent
	err    error
}

func (n *recordingNotifier) ContentChanged(_ context.Context, entity content.Entity, action, id string) error {
	n.events = append(n.events, notifyEvent{entity: entity, action: action, id: id})
	return n.err
}

// failingSetCache accepts reads but rejects every write.
type failingSetCache struct {
	cache.Store
}

func (f failingSetCache) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("cache down")
}

type RepositorySuite struct {
	suite.Suite

	store    *docstore.Memory
	cache    *cache.Memory
	notifier *recordingNotifier
	repo     *content.Repository
	now      time.Time
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) SetupTest() {
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return s.now }

	s.store = docstore.NewMemory()
	s.store.Now = clock
	s.cache = cache.NewMemory()
	s.cache.Now = clock
	s.notifier = &recordingNotifier{}

	s.repo = content.New(s.store, s.cache, logger.NewNop(),
		content.WithClock(clock), content.WithNotifier(s.notifier))
}

func (s *RepositorySuite) advance(d time.Duration) {
	s.now = s.now.Add(d)
}

func (s *RepositorySuite) seedPost(id string, fields map[string]any) {
	data := map[string]any{
		"post_id": id,
		"title":   "Title " + id,
		"content": "<p>body</p>",
		"status":  "published",
	}
	for k, v := range fields {
		data[k] = v
	}
	s.store.Seed("blog_posts", id, data)
}

func (s *RepositorySuite) TestListProjectsSortsNewestFirst() {
	s.store.Seed("projects", "old", map[string]any{"title": "Old", "created_at": "2024-01-01T00:00:00Z"})
	s.store.Seed("projects", "new", map[string]any{"title": "New", "created_at": "2025-01-01T00:00:00Z"})

	projects, err := s.repo.ListProjects(context.Background())
	s.Require().NoError(err)
	s.Require().Len(projects, 2)
	s.Equal("New", projects[0].Title)
	s.Equal("Old", projects[1].Title)
}

func (s *RepositorySuite) TestListServesFromCacheUntilTTL() {
	s.store.Seed("projects", "p1", map[string]any{"title": "One"})

	projects, err := s.repo.ListProjects(context.Background())
	s.Require().NoError(err)
	s.Require().Len(projects, 1)

	// A record added behind the cache's back stays invisible while the
	// entry is fresh.
	s.store.Seed("projects", "p2", map[string]any{"title": "Two"})

	s.advance(59 * time.Minute)
	projects, err = s.repo.ListProjects(context.Background())
	s.Require().NoError(err)
	s.Len(projects, 1)

	s.advance(2 * time.Minute)
	projects, err = s.repo.ListProjects(context.Background())
	s.Require().NoError(err)
	s.Len(projects, 2)
}

func (s *RepositorySuite) TestEmptyListIsAValidCachedValue() {
	projects, err := s.repo.ListProjects(context.Background())
	s.Require().NoError(err)
	s.Empty(projects)

	s.store.Seed("projects", "p1", map[string]any{"title": "One"})

	projects, err = s.repo.ListProjects(context.Background())
	s.Require().NoError(err)
	s.Empty(projects)
}

func (s *RepositorySuite) TestCorruptCacheEntryIsPurgedAndRefetched() {
	s.store.Seed("projects", "p1", map[string]any{"title": "One"})
	key := content.EntityProjects.CollectionKey()
	s.Require().NoError(s.cache.Set(context.Background(), key, []byte("{not json"), time.Hour))

	projects, err := s.repo.ListProjects(context.Background())
	s.Require().NoError(err)
	s.Require().Len(projects, 1)

	raw, err := s.cache.Get(context.Background(), key)
	s.Require().NoError(err)
	s.Contains(string(raw), `"stored_at"`)
}

func (s *RepositorySuite) TestStoreFailureSurfacesAsUnavailable() {
	s.store.FailReads = errors.New("connection refused")

	_, err := s.repo.ListProjects(context.Background())
	s.Require().Error(err)
	s.ErrorIs(err, apperror.ErrUnavailable)
}

func (s *RepositorySuite) TestCacheWriteFailureDoesNotFailTheRead() {
	s.store.Seed("projects", "p1", map[string]any{"title": "One"})
	repo := content.New(s.store, failingSetCache{Store: s.cache}, logger.NewNop())

	projects, err := repo.ListProjects(context.Background())
	s.Require().NoError(err)
	s.Len(projects, 1)
}

func (s *RepositorySuite) TestOversizedPayloadIsServedButNotCached() {
	s.store.Seed("projects", "p1", map[string]any{
		"title":        "Huge",
		"image_base64": strings.Repeat("a", 5<<20),
	})

	projects, err := s.repo.ListProjects(context.Background())
	s.Require().NoError(err)
	s.Require().Len(projects, 1)

	_, err = s.cache.Get(context.Background(), content.EntityProjects.CollectionKey())
	s.ErrorIs(err, cache.ErrMiss)
}

func (s *RepositorySuite) TestServerTimestampsNormalizeToRFC3339Strings() {
	id, err := s.repo.AddPost(context.Background(), blog.Post{Title: "My First Post!!"})
	s.Require().NoError(err)

	p, err := s.repo.GetPost(context.Background(), id)
	s.Require().NoError(err)
	s.Require().NotNil(p)
	s.Equal("my-first-post", p.PostID)
	s.Equal(s.now.Format(time.RFC3339), p.CreatedAt)
	s.Zero(p.Views)
}

func (s *RepositorySuite) TestGetPostResolvesByIDThenSlug() {
	s.seedPost("doc1", map[string]any{"post_id": "my-post"})

	byID, err := s.repo.GetPost(context.Background(), "doc1")
	s.Require().NoError(err)
	s.Require().NotNil(byID)
	s.Equal("doc1", byID.ID)

	bySlug, err := s.repo.GetPost(context.Background(), "my-post")
	s.Require().NoError(err)
	s.Require().NotNil(bySlug)
	s.Equal("doc1", bySlug.ID)
}

func (s *RepositorySuite) TestGetPostAbsenceIsCachedNotAnError() {
	p, err := s.repo.GetPost(context.Background(), "nothing-here")
	s.Require().NoError(err)
	s.Nil(p)

	s.seedPost("nothing-here", nil)

	p, err = s.repo.GetPost(context.Background(), "nothing-here")
	s.Require().NoError(err)
	s.Nil(p)

	s.advance(content.TTL + time.Second)
	p, err = s.repo.GetPost(context.Background(), "nothing-here")
	s.Require().NoError(err)
	s.NotNil(p)
}

func (s *RepositorySuite) TestUpdatePostDropsOldSlugCacheEntry() {
	s.seedPost("doc1", map[string]any{"post_id": "old-slug"})

	warm, err := s.repo.GetPost(context.Background(), "old-slug")
	s.Require().NoError(err)
	s.Require().NotNil(warm)

	updated := *warm
	updated.PostID = "new-slug"
	s.Require().NoError(s.repo.UpdatePost(context.Background(), "doc1", updated))

	gone, err := s.repo.GetPost(context.Background(), "old-slug")
	s.Require().NoError(err)
	s.Nil(gone)

	found, err := s.repo.GetPost(context.Background(), "new-slug")
	s.Require().NoError(err)
	s.Require().NotNil(found)
	s.Equal("doc1", found.ID)
}

func (s *RepositorySuite) TestGetPostForEditMasksGhosts() {
	s.store.Seed("blog_posts", "ghost", map[string]any{
		"post_id": "ghost", "title": "", "description": "", "content": "", "image_base64": "",
	})

	p, err := s.repo.GetPostForEdit(context.Background(), "ghost")
	s.Require().NoError(err)
	s.Nil(p)
}

func (s *RepositorySuite) TestGetPostForEditPicksMostCompleteDuplicate() {
	// The primary id resolves to a ghost; two richer duplicates share the
	// same slug and the fuller one must win.
	s.store.Seed("blog_posts", "dup", map[string]any{"post_id": "dup"})
	s.store.Seed("blog_posts", "thin", map[string]any{"post_id": "dup", "title": "Thin"})
	s.store.Seed("blog_posts", "full", map[string]any{
		"post_id": "dup", "title": "Full", "content": "<p>x</p>", "description": "d",
	})

	p, err := s.repo.GetPostForEdit(context.Background(), "dup")
	s.Require().NoError(err)
	s.Require().NotNil(p)
	s.Equal("full", p.ID)
}

func (s *RepositorySuite) TestGetPostForEditBypassesCache() {
	s.seedPost("doc1", map[string]any{"title": "Before"})

	_, err := s.repo.GetPost(context.Background(), "doc1")
	s.Require().NoError(err)

	s.Require().NoError(s.store.Update(context.Background(), "blog_posts", "doc1",
		map[string]any{"title": "After"}))

	p, err := s.repo.GetPostForEdit(context.Background(), "doc1")
	s.Require().NoError(err)
	s.Require().NotNil(p)
	s.Equal("After", p.Title)

	// The cached public copy is untouched.
	cached, err := s.repo.GetPost(context.Background(), "doc1")
	s.Require().NoError(err)
	s.Equal("Before", cached.Title)
}

func (s *RepositorySuite) TestRecentPublishedPostsFiltersAndLimits() {
	s.seedPost("a", map[string]any{"status": "draft"})
	s.seedPost("b", map[string]any{"published_at": "2025-01-01T00:00:00Z"})
	s.seedPost("c", map[string]any{"published_at": "2025-03-01T00:00:00Z"})
	s.seedPost("d", map[string]any{"published_at": "2025-02-01T00:00:00Z"})

	posts, err := s.repo.RecentPublishedPosts(context.Background(), 2)
	s.Require().NoError(err)
	s.Require().Len(posts, 2)
	s.Equal("c", posts[0].ID)
	s.Equal("d", posts[1].ID)
}

func (s *RepositorySuite) TestLegacyCourseChaptersExpandOnReadOnly() {
	s.store.Seed("courses", "c1", map[string]any{
		"course_id": "go-course",
		"title":     "Go Course",
		"status":    "published",
		"chapters": []any{
			map[string]any{"title": "Intro", "notes": "plain <notes>"},
		},
	})

	c, err := s.repo.GetCourse(context.Background(), "c1")
	s.Require().NoError(err)
	s.Require().NotNil(c)
	s.Require().Len(c.Chapters, 1)
	s.Require().Len(c.Chapters[0].Topics, 1)

	topic := c.Chapters[0].Topics[0]
	s.Equal("Notes", topic.Title)
	s.Equal("<p>plain &lt;notes&gt;</p>", topic.Content)
	s.Equal(1, topic.ReadTime)

	// The stored record keeps its legacy shape.
	doc, err := s.store.Get(context.Background(), "courses", "c1")
	s.Require().NoError(err)
	chapters := doc.Data["chapters"].([]any)
	s.NotContains(chapters[0].(map[string]any), "topics")
}

func (s *RepositorySuite) TestDraftChapterWithoutTopicsSurvivesRoundTrip() {
	built, err := richtext.BuildCourse(richtext.CourseDraft{
		Title:    "Roadmap",
		Chapters: []course.Chapter{{Title: "Coming Soon"}},
	}, blog.StatusDraft, s.now)
	s.Require().NoError(err)

	id, err := s.repo.AddCourse(context.Background(), built)
	s.Require().NoError(err)

	c, err := s.repo.GetCourse(context.Background(), id)
	s.Require().NoError(err)
	s.Require().NotNil(c)
	s.Require().Len(c.Chapters, 1)
	s.Equal("Coming Soon", c.Chapters[0].Title)
	s.Empty(c.Chapters[0].Topics)
}

func (s *RepositorySuite) TestLogCourseAccessSetsFirstAccessOnce() {
	ctx := context.Background()
	s.Require().NoError(s.repo.LogCourseAccess(ctx, "u1", "u1@example.com"))

	first := s.now.UTC().Format(time.RFC3339)
	s.advance(48 * time.Hour)
	s.Require().NoError(s.repo.LogCourseAccess(ctx, "u1", "u1@example.com"))

	users, err := s.repo.CourseAccessUsers(ctx)
	s.Require().NoError(err)
	s.Require().Len(users, 1)
	s.Equal(first, users[0].FirstAccessAt)
	s.Equal(s.now.UTC().Format(time.RFC3339), users[0].LastAccessAt)
}

func (s *RepositorySuite) TestCVProfileSingletonUpsert() {
	ctx := context.Background()

	p, err := s.repo.CVProfile(ctx)
	s.Require().NoError(err)
	s.Nil(p)

	s.Require().NoError(s.repo.SaveCVProfile(ctx, cv.Profile{Name: "Ada", Title: "Engineer"}))

	p, err = s.repo.CVProfile(ctx)
	s.Require().NoError(err)
	s.Require().NotNil(p)
	s.Equal("Ada", p.Name)

	// A second save replaces the cached copy immediately.
	s.Require().NoError(s.repo.SaveCVProfile(ctx, cv.Profile{Name: "Grace", Title: "Engineer"}))
	p, err = s.repo.CVProfile(ctx)
	s.Require().NoError(err)
	s.Equal("Grace", p.Name)
}

func (s *RepositorySuite) TestCVEducationSortsByEndYear() {
	s.store.Seed("cv_education", "a", map[string]any{"degree": "BSc", "end_year": "2019"})
	s.store.Seed("cv_education", "b", map[string]any{"degree": "MSc", "end_year": "2023"})

	items, err := s.repo.CVEducation(context.Background())
	s.Require().NoError(err)
	s.Require().Len(items, 2)
	s.Equal("MSc", items[0].Degree)
}

func (s *RepositorySuite) TestAddAchievementAppliesDefaultCategory() {
	id, err := s.repo.AddAchievement(context.Background(), achievement.Achievement{Title: "Won"})
	s.Require().NoError(err)

	doc, err := s.store.Get(context.Background(), "achievements", id)
	s.Require().NoError(err)
	s.Equal(achievement.DefaultCategory, doc.Data["category"])
}

func (s *RepositorySuite) TestGetUserByEmail() {
	s.store.Seed("users", "u1", map[string]any{"email": "admin@example.com", "password_hash": "x"})

	u, err := s.repo.GetUserByEmail(context.Background(), "admin@example.com")
	s.Require().NoError(err)
	s.Equal("u1", u.ID)

	_, err = s.repo.GetUserByEmail(context.Background(), "nobody@example.com")
	s.ErrorIs(err, apperror.ErrNotFound)
}

func (s *RepositorySuite) TestMutationsNotifyPeers() {
	id, err := s.repo.AddPost(context.Background(), blog.Post{Title: "Hello"})
	s.Require().NoError(err)

	s.Require().Len(s.notifier.events, 1)
	s.Equal(content.EntityPosts, s.notifier.events[0].entity)
	s.Equal("created", s.notifier.events[0].action)
	s.Equal(id, s.notifier.events[0].id)
}

func (s *RepositorySuite) TestNotifierFailureDoesNotFailTheWrite() {
	s.notifier.err = errors.New("broker down")
	_, err := s.repo.AddPost(context.Background(), blog.Post{Title: "Hello"})
	s.NoError(err)
}

func (s *RepositorySuite) TestInvalidateEntityDropsKeys() {
	s.store.Seed("projects", "p1", map[string]any{"title": "One"})
	_, err := s.repo.ListProjects(context.Background())
	s.Require().NoError(err)

	s.repo.InvalidateEntity(context.Background(), content.EntityProjects)

	_, err = s.cache.Get(context.Background(), content.EntityProjects.CollectionKey())
	s.ErrorIs(err, cache.ErrMiss)
}
