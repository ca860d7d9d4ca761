package content

// Entity names a stored collection. The string value doubles as the
// document store collection name.
type Entity string

const (
	EntityProjects         Entity = "projects"
	EntityPosts            Entity = "blog_posts"
	EntityCourses          Entity = "courses"
	EntityAchievements     Entity = "achievements"
	EntityCVProfile        Entity = "cv_profile"
	EntityCVSkills         Entity = "cv_skills"
	EntityCVEducation      Entity = "cv_education"
	EntityCVExperience     Entity = "cv_experience"
	EntityCVCertifications Entity = "cv_certifications"
	EntityCourseAccess     Entity = "course_access"
	EntityUsers            Entity = "users"
)

// Collection is the document store collection backing the entity.
func (e Entity) Collection() string { return string(e) }

// CollectionKey is the cache key for the whole-collection payload. The v2
// prefix fences off envelopes written by earlier cache formats.
func (e Entity) CollectionKey() string { return "cache_v2_" + string(e) }

// ItemKey is the cache key for a single record, addressed by either its
// document id or its slug. Only posts and courses are cached per item.
func (e Entity) ItemKey(id string) string {
	switch e {
	case EntityPosts:
		return "cache_post_" + id
	case EntityCourses:
		return "cache_course_" + id
	}
	return "cache_v2_" + string(e) + "_" + id
}
