package content

import (
	"context"
	"errors"

	"github.com/kyangwi/portfolio/internal/docstore"
	"github.com/kyangwi/portfolio/internal/domain/project"
	"github.com/kyangwi/portfolio/pkg/apperror"
)

// ListProjects returns every project, newest first.
func (r *Repository) ListProjects(ctx context.Context) ([]project.Project, error) {
	projects, err := fetchThrough(ctx, r, EntityProjects.CollectionKey(), func(ctx context.Context) ([]project.Project, error) {
		return scan[project.Project](ctx, r, EntityProjects)
	})
	if err != nil {
		return nil, err
	}
	sortByWhenDesc(projects, func(p project.Project) string { return p.CreatedAt })
	return projects, nil
}

// FeaturedProjects returns the featured subset, newest first.
func (r *Repository) FeaturedProjects(ctx context.Context) ([]project.Project, error) {
	all, err := r.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	featured := make([]project.Project, 0, len(all))
	for _, p := range all {
		if p.Featured {
			featured = append(featured, p)
		}
	}
	return featured, nil
}

func (r *Repository) AddProject(ctx context.Context, p project.Project) (string, error) {
	data, err := docstore.ToData(p)
	if err != nil {
		return "", apperror.NewInternal("encode project", err)
	}
	data["created_at"] = docstore.ServerTimestamp

	id, err := r.store.Add(ctx, EntityProjects.Collection(), data)
	if err != nil {
		return "", apperror.NewUnavailable("add project", err)
	}
	r.invalidate(ctx, EntityProjects, "created", id)
	return id, nil
}

func (r *Repository) UpdateProject(ctx context.Context, id string, p project.Project) error {
	data, err := docstore.ToData(p)
	if err != nil {
		return apperror.NewInternal("encode project", err)
	}
	delete(data, "created_at")

	if err := r.store.Update(ctx, EntityProjects.Collection(), id, data); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return apperror.NewNotFound("project", id)
		}
		return apperror.NewUnavailable("update project", err)
	}
	r.invalidate(ctx, EntityProjects, "updated", id)
	return nil
}

func (r *Repository) DeleteProject(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, EntityProjects.Collection(), id); err != nil {
		return apperror.NewUnavailable("delete project", err)
	}
	r.invalidate(ctx, EntityProjects, "deleted", id)
	return nil
}
