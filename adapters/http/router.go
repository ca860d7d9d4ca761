package http

import (
	"github.com/gin-gonic/gin"

	"github.com/kyangwi/portfolio/pkg/logger"
)

type Handlers struct {
	Auth        *AuthHandler
	Project     *ProjectHandler
	Blog        *BlogHandler
	Course      *CourseHandler
	Achievement *AchievementHandler
	CV          *CVHandler
	Media       *MediaHandler
}

// NewRouter wires the public site routes and the JWT-guarded admin
// routes. The course area sits behind auth on the public side too; opening
// it logs the visit.
func NewRouter(h Handlers, authMiddleware gin.HandlerFunc, log logger.Logger) *gin.Engine {
	router := gin.Default()
	router.Use(ErrorHandler(log))

	api := router.Group("/api")
	{
		api.GET("/projects", h.Project.List)
		api.GET("/projects/featured", h.Project.ListFeatured)

		api.GET("/posts", h.Blog.ListPublished)
		api.GET("/posts/recent", h.Blog.ListRecent)
		api.GET("/posts/:id", h.Blog.GetPublished)

		api.GET("/achievements", h.Achievement.List)
		api.GET("/cv", h.CV.Get)

		courses := api.Group("/courses")
		courses.Use(authMiddleware)
		{
			courses.GET("", h.Course.ListPublished)
			courses.GET("/:id", h.Course.GetPublished)
		}

		admin := api.Group("/admin")
		{
			admin.POST("/auth/login", h.Auth.Login)

			private := admin.Group("/")
			private.Use(authMiddleware)
			{
				private.POST("/projects", h.Project.Create)
				private.PUT("/projects/:id", h.Project.Update)
				private.DELETE("/projects/:id", h.Project.Delete)

				private.GET("/posts", h.Blog.AdminList)
				private.GET("/posts/:id", h.Blog.AdminGet)
				private.POST("/posts", h.Blog.Create)
				private.PUT("/posts/:id", h.Blog.Update)
				private.DELETE("/posts/:id", h.Blog.Delete)

				private.GET("/courses", h.Course.AdminList)
				private.GET("/courses/:id", h.Course.AdminGet)
				private.POST("/courses", h.Course.Create)
				private.PUT("/courses/:id", h.Course.Update)
				private.DELETE("/courses/:id", h.Course.Delete)
				private.GET("/course-access", h.Course.AdminAccessList)

				private.POST("/achievements", h.Achievement.Create)
				private.PUT("/achievements/:id", h.Achievement.Update)
				private.DELETE("/achievements/:id", h.Achievement.Delete)

				private.PUT("/cv/profile", h.CV.SaveProfile)
				private.POST("/cv/skills", h.CV.CreateSkillGroup)
				private.PUT("/cv/skills/:id", h.CV.UpdateSkillGroup)
				private.DELETE("/cv/skills/:id", h.CV.DeleteSkillGroup)
				private.POST("/cv/education", h.CV.CreateEducation)
				private.PUT("/cv/education/:id", h.CV.UpdateEducation)
				private.DELETE("/cv/education/:id", h.CV.DeleteEducation)
				private.POST("/cv/experience", h.CV.CreateExperience)
				private.PUT("/cv/experience/:id", h.CV.UpdateExperience)
				private.DELETE("/cv/experience/:id", h.CV.DeleteExperience)
				private.POST("/cv/certifications", h.CV.CreateCertification)
				private.PUT("/cv/certifications/:id", h.CV.UpdateCertification)
				private.DELETE("/cv/certifications/:id", h.CV.DeleteCertification)

				private.POST("/media/image", h.Media.UploadImage)
			}
		}
	}

	return router
}
