package content

import (
	"context"
	"errors"

	"github.com/kyangwi/portfolio/internal/docstore"
	"github.com/kyangwi/portfolio/internal/domain/blog"
	"github.com/kyangwi/portfolio/internal/richtext"
	"github.com/kyangwi/portfolio/pkg/apperror"
)

// ListPosts returns every post, drafts included, newest first.
func (r *Repository) ListPosts(ctx context.Context) ([]blog.Post, error) {
	posts, err := fetchThrough(ctx, r, EntityPosts.CollectionKey(), func(ctx context.Context) ([]blog.Post, error) {
		return scan[blog.Post](ctx, r, EntityPosts)
	})
	if err != nil {
		return nil, err
	}
	sortByWhenDesc(posts, func(p blog.Post) string { return p.CreatedAt })
	return posts, nil
}

// RecentPublishedPosts returns up to limit published posts, most recently
// published first. limit <= 0 means no limit.
func (r *Repository) RecentPublishedPosts(ctx context.Context, limit int) ([]blog.Post, error) {
	all, err := r.ListPosts(ctx)
	if err != nil {
		return nil, err
	}
	published := make([]blog.Post, 0, len(all))
	for _, p := range all {
		if p.Status == blog.StatusPublished {
			published = append(published, p)
		}
	}
	sortByWhenDesc(published, func(p blog.Post) string { return p.PublishedAt })
	if limit > 0 && len(published) > limit {
		published = published[:limit]
	}
	return published, nil
}

// GetPost resolves a post by document id or slug through the per-item
// cache. A nil post with nil error means the post does not exist; the
// absence itself is cached so repeated misses stay cheap.
func (r *Repository) GetPost(ctx context.Context, idOrSlug string) (*blog.Post, error) {
	return fetchThrough(ctx, r, EntityPosts.ItemKey(idOrSlug), func(ctx context.Context) (*blog.Post, error) {
		return r.lookupPost(ctx, idOrSlug)
	})
}

// lookupPost is the dual-key resolution: document id first, slug-equality
// query second.
func (r *Repository) lookupPost(ctx context.Context, idOrSlug string) (*blog.Post, error) {
	p, ok, err := getOne[blog.Post](ctx, r, EntityPosts, idOrSlug)
	if err != nil {
		return nil, err
	}
	if ok {
		return &p, nil
	}

	docs, err := r.store.Query(ctx, EntityPosts.Collection(), "post_id", idOrSlug)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}
	v, err := decodeDoc[blog.Post](docs[0])
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// GetPostForEdit resolves a post for the editor, never touching the cache
// in either direction. Ghost records are masked; when the direct lookup
// yields a ghost or nothing, the collection is scanned for every record
// matching the id or slug and the most complete one wins.
func (r *Repository) GetPostForEdit(ctx context.Context, idOrSlug string) (*blog.Post, error) {
	p, err := r.lookupPost(ctx, idOrSlug)
	if err != nil {
		return nil, apperror.NewUnavailable("fetch post for edit", err)
	}
	if p != nil && !p.IsGhost() {
		return p, nil
	}

	docs, err := r.store.GetAll(ctx, EntityPosts.Collection())
	if err != nil {
		return nil, apperror.NewUnavailable("scan posts for edit", err)
	}
	posts, err := decodeDocs[blog.Post](docs)
	if err != nil {
		return nil, apperror.NewUnavailable("decode posts for edit", err)
	}

	var best *blog.Post
	for i := range posts {
		c := &posts[i]
		if c.ID != idOrSlug && c.PostID != idOrSlug {
			continue
		}
		if c.IsGhost() {
			continue
		}
		if best == nil || c.CompletenessScore() > best.CompletenessScore() {
			best = c
		}
	}
	return best, nil
}

// AddPost stores a new post. The slug is derived from the title when not
// supplied; timestamps are assigned by the store and the view counter
// starts at zero.
func (r *Repository) AddPost(ctx context.Context, p blog.Post) (string, error) {
	if p.PostID == "" {
		p.PostID = richtext.Slugify(p.Title)
	}
	p.Views = 0

	data, err := docstore.ToData(p)
	if err != nil {
		return "", apperror.NewInternal("encode post", err)
	}
	data["created_at"] = docstore.ServerTimestamp
	data["updated_at"] = docstore.ServerTimestamp

	id, err := r.store.Add(ctx, EntityPosts.Collection(), data)
	if err != nil {
		return "", apperror.NewUnavailable("add post", err)
	}
	r.invalidate(ctx, EntityPosts, "created", id, p.PostID)
	return id, nil
}

// UpdatePost merge-writes a post by document id. The record is pre-read so
// a slug change also drops the stale slug-addressed cache entry.
func (r *Repository) UpdatePost(ctx context.Context, id string, p blog.Post) error {
	oldSlug := ""
	if existing, ok, err := getOne[blog.Post](ctx, r, EntityPosts, id); err != nil {
		return apperror.NewUnavailable("read post before update", err)
	} else if ok {
		oldSlug = existing.PostID
	}

	data, err := docstore.ToData(p)
	if err != nil {
		return apperror.NewInternal("encode post", err)
	}
	delete(data, "created_at")
	delete(data, "views")
	data["updated_at"] = docstore.ServerTimestamp

	if err := r.store.Update(ctx, EntityPosts.Collection(), id, data); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return apperror.NewNotFound("post", id)
		}
		return apperror.NewUnavailable("update post", err)
	}
	r.invalidate(ctx, EntityPosts, "updated", id, oldSlug, p.PostID)
	return nil
}

// DeletePost removes a post and its id- and slug-addressed cache entries.
func (r *Repository) DeletePost(ctx context.Context, id string) error {
	slug := ""
	if existing, ok, err := getOne[blog.Post](ctx, r, EntityPosts, id); err != nil {
		return apperror.NewUnavailable("read post before delete", err)
	} else if ok {
		slug = existing.PostID
	}

	if err := r.store.Delete(ctx, EntityPosts.Collection(), id); err != nil {
		return apperror.NewUnavailable("delete post", err)
	}
	r.invalidate(ctx, EntityPosts, "deleted", id, slug)
	return nil
}

// IncrementPostViews bumps the view counter without disturbing the cached
// copy; view counts tolerate TTL staleness.
func (r *Repository) IncrementPostViews(ctx context.Context, id string) error {
	existing, ok, err := getOne[blog.Post](ctx, r, EntityPosts, id)
	if err != nil {
		return apperror.NewUnavailable("read post views", err)
	}
	if !ok {
		return apperror.NewNotFound("post", id)
	}
	err = r.store.Update(ctx, EntityPosts.Collection(), id, map[string]any{"views": existing.Views + 1})
	if err != nil {
		return apperror.NewUnavailable("update post views", err)
	}
	return nil
}
