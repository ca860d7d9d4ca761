package content

import (
	"context"
	"errors"
	"sort"

	"github.com/kyangwi/portfolio/internal/docstore"
	"github.com/kyangwi/portfolio/internal/domain/cv"
	"github.com/kyangwi/portfolio/pkg/apperror"
)

// CVProfile returns the singleton profile document, or nil when it has
// never been saved.
func (r *Repository) CVProfile(ctx context.Context) (*cv.Profile, error) {
	return fetchThrough(ctx, r, EntityCVProfile.CollectionKey(), func(ctx context.Context) (*cv.Profile, error) {
		p, ok, err := getOne[cv.Profile](ctx, r, EntityCVProfile, cv.ProfileDocID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		return &p, nil
	})
}

// SaveCVProfile merge-upserts the singleton profile document.
func (r *Repository) SaveCVProfile(ctx context.Context, p cv.Profile) error {
	data, err := docstore.ToData(p)
	if err != nil {
		return apperror.NewInternal("encode cv profile", err)
	}
	if err := r.store.Set(ctx, EntityCVProfile.Collection(), cv.ProfileDocID, data); err != nil {
		return apperror.NewUnavailable("save cv profile", err)
	}
	r.invalidate(ctx, EntityCVProfile, "updated")
	return nil
}

// CVSkillGroups returns every skill group in scan order; the front end
// renders categories as entered.
func (r *Repository) CVSkillGroups(ctx context.Context) ([]cv.SkillGroup, error) {
	return fetchThrough(ctx, r, EntityCVSkills.CollectionKey(), func(ctx context.Context) ([]cv.SkillGroup, error) {
		return scan[cv.SkillGroup](ctx, r, EntityCVSkills)
	})
}

// CVEducation returns education entries, most recent end year first.
// Entries without an end year sort last.
func (r *Repository) CVEducation(ctx context.Context) ([]cv.Education, error) {
	items, err := fetchThrough(ctx, r, EntityCVEducation.CollectionKey(), func(ctx context.Context) ([]cv.Education, error) {
		return scan[cv.Education](ctx, r, EntityCVEducation)
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return parseYear(items[i].EndYear) > parseYear(items[j].EndYear)
	})
	return items, nil
}

// CVExperience returns experience entries, most recent start date first.
func (r *Repository) CVExperience(ctx context.Context) ([]cv.Experience, error) {
	items, err := fetchThrough(ctx, r, EntityCVExperience.CollectionKey(), func(ctx context.Context) ([]cv.Experience, error) {
		return scan[cv.Experience](ctx, r, EntityCVExperience)
	})
	if err != nil {
		return nil, err
	}
	sortByWhenDesc(items, func(e cv.Experience) string { return e.StartDate })
	return items, nil
}

// CVCertifications returns certifications, most recently issued first.
func (r *Repository) CVCertifications(ctx context.Context) ([]cv.Certification, error) {
	items, err := fetchThrough(ctx, r, EntityCVCertifications.CollectionKey(), func(ctx context.Context) ([]cv.Certification, error) {
		return scan[cv.Certification](ctx, r, EntityCVCertifications)
	})
	if err != nil {
		return nil, err
	}
	sortByWhenDesc(items, func(c cv.Certification) string { return c.IssueDate })
	return items, nil
}

// The four CV list collections share identical add/update/delete plumbing.

func (r *Repository) addCVEntry(ctx context.Context, entity Entity, v any) (string, error) {
	data, err := docstore.ToData(v)
	if err != nil {
		return "", apperror.NewInternal("encode cv entry", err)
	}
	id, err := r.store.Add(ctx, entity.Collection(), data)
	if err != nil {
		return "", apperror.NewUnavailable("add cv entry", err)
	}
	r.invalidate(ctx, entity, "created", id)
	return id, nil
}

func (r *Repository) updateCVEntry(ctx context.Context, entity Entity, id string, v any) error {
	data, err := docstore.ToData(v)
	if err != nil {
		return apperror.NewInternal("encode cv entry", err)
	}
	if err := r.store.Update(ctx, entity.Collection(), id, data); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return apperror.NewNotFound("cv entry", id)
		}
		return apperror.NewUnavailable("update cv entry", err)
	}
	r.invalidate(ctx, entity, "updated", id)
	return nil
}

func (r *Repository) deleteCVEntry(ctx context.Context, entity Entity, id string) error {
	if err := r.store.Delete(ctx, entity.Collection(), id); err != nil {
		return apperror.NewUnavailable("delete cv entry", err)
	}
	r.invalidate(ctx, entity, "deleted", id)
	return nil
}

func (r *Repository) AddCVSkillGroup(ctx context.Context, g cv.SkillGroup) (string, error) {
	return r.addCVEntry(ctx, EntityCVSkills, g)
}

func (r *Repository) UpdateCVSkillGroup(ctx context.Context, id string, g cv.SkillGroup) error {
	return r.updateCVEntry(ctx, EntityCVSkills, id, g)
}

func (r *Repository) DeleteCVSkillGroup(ctx context.Context, id string) error {
	return r.deleteCVEntry(ctx, EntityCVSkills, id)
}

func (r *Repository) AddCVEducation(ctx context.Context, e cv.Education) (string, error) {
	return r.addCVEntry(ctx, EntityCVEducation, e)
}

func (r *Repository) UpdateCVEducation(ctx context.Context, id string, e cv.Education) error {
	return r.updateCVEntry(ctx, EntityCVEducation, id, e)
}

func (r *Repository) DeleteCVEducation(ctx context.Context, id string) error {
	return r.deleteCVEntry(ctx, EntityCVEducation, id)
}

func (r *Repository) AddCVExperience(ctx context.Context, e cv.Experience) (string, error) {
	return r.addCVEntry(ctx, EntityCVExperience, e)
}

func (r *Repository) UpdateCVExperience(ctx context.Context, id string, e cv.Experience) error {
	return r.updateCVEntry(ctx, EntityCVExperience, id, e)
}

func (r *Repository) DeleteCVExperience(ctx context.Context, id string) error {
	return r.deleteCVEntry(ctx, EntityCVExperience, id)
}

func (r *Repository) AddCVCertification(ctx context.Context, c cv.Certification) (string, error) {
	return r.addCVEntry(ctx, EntityCVCertifications, c)
}

func (r *Repository) UpdateCVCertification(ctx context.Context, id string, c cv.Certification) error {
	return r.updateCVEntry(ctx, EntityCVCertifications, id, c)
}

func (r *Repository) DeleteCVCertification(ctx context.Context, id string) error {
	return r.deleteCVEntry(ctx, EntityCVCertifications, id)
}
