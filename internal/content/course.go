package content

import (
	"context"
	"errors"
	"time"

	"github.com/kyangwi/portfolio/internal/docstore"
	"github.com/kyangwi/portfolio/internal/domain/access"
	"github.com/kyangwi/portfolio/internal/domain/blog"
	"github.com/kyangwi/portfolio/internal/domain/course"
	"github.com/kyangwi/portfolio/internal/richtext"
	"github.com/kyangwi/portfolio/pkg/apperror"
)

// ListCourses returns every course, drafts included, newest first. Legacy
// flat-notes chapters are expanded on the way out; the stored records are
// never migrated in place.
func (r *Repository) ListCourses(ctx context.Context) ([]course.Course, error) {
	courses, err := fetchThrough(ctx, r, EntityCourses.CollectionKey(), func(ctx context.Context) ([]course.Course, error) {
		return scan[course.Course](ctx, r, EntityCourses)
	})
	if err != nil {
		return nil, err
	}
	for i := range courses {
		courses[i].Chapters = richtext.ExpandChapters(courses[i].Chapters)
	}
	sortByWhenDesc(courses, func(c course.Course) string { return c.CreatedAt })
	return courses, nil
}

// PublishedCourses returns the published subset, newest first.
func (r *Repository) PublishedCourses(ctx context.Context) ([]course.Course, error) {
	all, err := r.ListCourses(ctx)
	if err != nil {
		return nil, err
	}
	published := make([]course.Course, 0, len(all))
	for _, c := range all {
		if c.Status == blog.StatusPublished {
			published = append(published, c)
		}
	}
	return published, nil
}

// GetCourse resolves a course by document id or slug through the per-item
// cache, expanding legacy chapters on the way out.
func (r *Repository) GetCourse(ctx context.Context, idOrSlug string) (*course.Course, error) {
	c, err := fetchThrough(ctx, r, EntityCourses.ItemKey(idOrSlug), func(ctx context.Context) (*course.Course, error) {
		return r.lookupCourse(ctx, idOrSlug)
	})
	if err != nil || c == nil {
		return c, err
	}
	c.Chapters = richtext.ExpandChapters(c.Chapters)
	return c, nil
}

func (r *Repository) lookupCourse(ctx context.Context, idOrSlug string) (*course.Course, error) {
	c, ok, err := getOne[course.Course](ctx, r, EntityCourses, idOrSlug)
	if err != nil {
		return nil, err
	}
	if ok {
		return &c, nil
	}

	docs, err := r.store.Query(ctx, EntityCourses.Collection(), "course_id", idOrSlug)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}
	v, err := decodeDoc[course.Course](docs[0])
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// GetCourseForEdit resolves a course for the editor, bypassing the cache in
// both directions, masking ghosts and falling back to a completeness scan.
func (r *Repository) GetCourseForEdit(ctx context.Context, idOrSlug string) (*course.Course, error) {
	c, err := r.lookupCourse(ctx, idOrSlug)
	if err != nil {
		return nil, apperror.NewUnavailable("fetch course for edit", err)
	}
	if c != nil && !c.IsGhost() {
		c.Chapters = richtext.ExpandChapters(c.Chapters)
		return c, nil
	}

	docs, err := r.store.GetAll(ctx, EntityCourses.Collection())
	if err != nil {
		return nil, apperror.NewUnavailable("scan courses for edit", err)
	}
	courses, err := decodeDocs[course.Course](docs)
	if err != nil {
		return nil, apperror.NewUnavailable("decode courses for edit", err)
	}

	var best *course.Course
	for i := range courses {
		cand := &courses[i]
		if cand.ID != idOrSlug && cand.CourseID != idOrSlug {
			continue
		}
		if cand.IsGhost() {
			continue
		}
		if best == nil || cand.CompletenessScore() > best.CompletenessScore() {
			best = cand
		}
	}
	if best != nil {
		best.Chapters = richtext.ExpandChapters(best.Chapters)
	}
	return best, nil
}

func (r *Repository) AddCourse(ctx context.Context, c course.Course) (string, error) {
	if c.CourseID == "" {
		c.CourseID = richtext.Slugify(c.Title)
	}

	data, err := docstore.ToData(c)
	if err != nil {
		return "", apperror.NewInternal("encode course", err)
	}
	data["created_at"] = docstore.ServerTimestamp
	data["updated_at"] = docstore.ServerTimestamp

	id, err := r.store.Add(ctx, EntityCourses.Collection(), data)
	if err != nil {
		return "", apperror.NewUnavailable("add course", err)
	}
	r.invalidate(ctx, EntityCourses, "created", id, c.CourseID)
	return id, nil
}

func (r *Repository) UpdateCourse(ctx context.Context, id string, c course.Course) error {
	oldSlug := ""
	if existing, ok, err := getOne[course.Course](ctx, r, EntityCourses, id); err != nil {
		return apperror.NewUnavailable("read course before update", err)
	} else if ok {
		oldSlug = existing.CourseID
	}

	data, err := docstore.ToData(c)
	if err != nil {
		return apperror.NewInternal("encode course", err)
	}
	delete(data, "created_at")
	data["updated_at"] = docstore.ServerTimestamp

	if err := r.store.Update(ctx, EntityCourses.Collection(), id, data); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return apperror.NewNotFound("course", id)
		}
		return apperror.NewUnavailable("update course", err)
	}
	r.invalidate(ctx, EntityCourses, "updated", id, oldSlug, c.CourseID)
	return nil
}

func (r *Repository) DeleteCourse(ctx context.Context, id string) error {
	slug := ""
	if existing, ok, err := getOne[course.Course](ctx, r, EntityCourses, id); err != nil {
		return apperror.NewUnavailable("read course before delete", err)
	} else if ok {
		slug = existing.CourseID
	}

	if err := r.store.Delete(ctx, EntityCourses.Collection(), id); err != nil {
		return apperror.NewUnavailable("delete course", err)
	}
	r.invalidate(ctx, EntityCourses, "deleted", id, slug)
	return nil
}

// LogCourseAccess upserts the viewer's access record: first_access_at is
// written once, last_access_at on every visit. Keyed by user id so repeat
// visits stay one record.
func (r *Repository) LogCourseAccess(ctx context.Context, userID, email string) error {
	if userID == "" {
		return apperror.NewInvalidInput("user id required", nil)
	}

	ts := r.now().UTC().Format(time.RFC3339)
	data := map[string]any{
		"email":          email,
		"last_access_at": ts,
	}

	_, ok, err := getOne[access.Record](ctx, r, EntityCourseAccess, userID)
	if err != nil {
		return apperror.NewUnavailable("read course access record", err)
	}
	if !ok {
		data["first_access_at"] = ts
	}

	if err := r.store.Set(ctx, EntityCourseAccess.Collection(), userID, data); err != nil {
		return apperror.NewUnavailable("log course access", err)
	}
	r.purge(ctx, EntityCourseAccess.CollectionKey())
	return nil
}

// CourseAccessUsers lists everyone who has opened a course, most recent
// visit first.
func (r *Repository) CourseAccessUsers(ctx context.Context) ([]access.Record, error) {
	records, err := fetchThrough(ctx, r, EntityCourseAccess.CollectionKey(), func(ctx context.Context) ([]access.Record, error) {
		return scan[access.Record](ctx, r, EntityCourseAccess)
	})
	if err != nil {
		return nil, err
	}
	sortByWhenDesc(records, func(rec access.Record) string { return rec.LastAccessAt })
	return records, nil
}
