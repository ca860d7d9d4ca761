package content

import (
	"context"
	"errors"

	"github.com/kyangwi/portfolio/internal/docstore"
	"github.com/kyangwi/portfolio/internal/domain/achievement"
	"github.com/kyangwi/portfolio/pkg/apperror"
)

// ListAchievements returns every achievement, most recent first.
func (r *Repository) ListAchievements(ctx context.Context) ([]achievement.Achievement, error) {
	items, err := fetchThrough(ctx, r, EntityAchievements.CollectionKey(), func(ctx context.Context) ([]achievement.Achievement, error) {
		return scan[achievement.Achievement](ctx, r, EntityAchievements)
	})
	if err != nil {
		return nil, err
	}
	sortByWhenDesc(items, func(a achievement.Achievement) string { return a.Date })
	return items, nil
}

func (r *Repository) AddAchievement(ctx context.Context, a achievement.Achievement) (string, error) {
	if a.Category == "" {
		a.Category = achievement.DefaultCategory
	}

	data, err := docstore.ToData(a)
	if err != nil {
		return "", apperror.NewInternal("encode achievement", err)
	}
	data["created_at"] = docstore.ServerTimestamp

	id, err := r.store.Add(ctx, EntityAchievements.Collection(), data)
	if err != nil {
		return "", apperror.NewUnavailable("add achievement", err)
	}
	r.invalidate(ctx, EntityAchievements, "created", id)
	return id, nil
}

func (r *Repository) UpdateAchievement(ctx context.Context, id string, a achievement.Achievement) error {
	data, err := docstore.ToData(a)
	if err != nil {
		return apperror.NewInternal("encode achievement", err)
	}
	delete(data, "created_at")

	if err := r.store.Update(ctx, EntityAchievements.Collection(), id, data); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return apperror.NewNotFound("achievement", id)
		}
		return apperror.NewUnavailable("update achievement", err)
	}
	r.invalidate(ctx, EntityAchievements, "updated", id)
	return nil
}

func (r *Repository) DeleteAchievement(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, EntityAchievements.Collection(), id); err != nil {
		return apperror.NewUnavailable("delete achievement", err)
	}
	r.invalidate(ctx, EntityAchievements, "deleted", id)
	return nil
}
