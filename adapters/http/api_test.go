package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"

	"github.com/kyangwi/portfolio/internal/cache"
	"github.com/kyangwi/portfolio/internal/content"
	"github.com/kyangwi/portfolio/internal/docstore"
	"github.com/kyangwi/portfolio/pkg/auth"
	"github.com/kyangwi/portfolio/pkg/logger"
)

type stubComp struct{}

func (stubComp) CompressToDataURI(io.Reader) (string, error) {
	return "data:image/jpeg;base64,Zm9v", nil
}

type APITestSuite struct {
	suite.Suite

	router *gin.Engine
	store  *docstore.Memory
	jwtSvc *auth.JWTService

	adminEmail string
	adminPass  string
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}

func (s *APITestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	log := logger.NewNop()

	s.store = docstore.NewMemory()
	repo := content.New(s.store, cache.NewMemory(), log)
	s.jwtSvc = auth.NewJWTService("test-secret", time.Hour)

	s.adminEmail = "admin@example.com"
	s.adminPass = "correct horse battery staple"
	hash, err := auth.HashPassword(s.adminPass)
	s.Require().NoError(err)
	s.store.Seed("users", "u1", map[string]any{
		"email":         s.adminEmail,
		"password_hash": hash,
	})

	handlers := Handlers{
		Auth:        NewAuthHandler(repo, s.jwtSvc),
		Project:     NewProjectHandler(repo),
		Blog:        NewBlogHandler(repo, stubComp{}, nil, log),
		Course:      NewCourseHandler(repo, stubComp{}, nil, nil, log),
		Achievement: NewAchievementHandler(repo),
		CV:          NewCVHandler(repo),
		Media:       NewMediaHandler(stubComp{}, nil, log),
	}
	s.router = NewRouter(handlers, AuthMiddleware(s.jwtSvc), log)
}

func (s *APITestSuite) request(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *APITestSuite) login() string {
	w := s.request(http.MethodPost, "/api/admin/auth/login", "", gin.H{
		"email":    s.adminEmail,
		"password": s.adminPass,
	})
	s.Require().Equal(http.StatusOK, w.Code)

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Require().NotEmpty(resp.AccessToken)
	return resp.AccessToken
}

func (s *APITestSuite) TestLoginRejectsWrongPassword() {
	w := s.request(http.MethodPost, "/api/admin/auth/login", "", gin.H{
		"email":    s.adminEmail,
		"password": "wrong",
	})
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *APITestSuite) TestAdminRoutesRequireToken() {
	w := s.request(http.MethodGet, "/api/admin/posts", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.request(http.MethodGet, "/api/admin/posts", "not-a-token", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *APITestSuite) TestDraftPostsAreInvisibleOnThePublicSite() {
	s.store.Seed("blog_posts", "d1", map[string]any{
		"post_id": "wip", "title": "WIP", "content": "<p>x</p>", "status": "draft",
	})

	w := s.request(http.MethodGet, "/api/posts/wip", "", nil)
	s.Equal(http.StatusNotFound, w.Code)

	w = s.request(http.MethodGet, "/api/posts", "", nil)
	s.Equal(http.StatusOK, w.Code)
	s.NotContains(w.Body.String(), "WIP")
}

func (s *APITestSuite) TestCreateAndPublishPostThroughTheAPI() {
	token := s.login()

	w := s.request(http.MethodPost, "/api/admin/posts", token, SavePostRequest{
		Title:       "Hello World",
		ContentHTML: "<p>first post</p>",
		Status:      "published",
	})
	s.Require().Equal(http.StatusCreated, w.Code)

	w = s.request(http.MethodGet, "/api/posts/hello-world", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "Hello World")
}

func (s *APITestSuite) TestPublishWithoutContentIsRejected() {
	token := s.login()

	w := s.request(http.MethodPost, "/api/admin/posts", token, SavePostRequest{
		Title:  "No Body",
		Status: "published",
	})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *APITestSuite) TestBackendOutageSurfacesAsBadGateway() {
	s.store.FailReads = context.DeadlineExceeded

	w := s.request(http.MethodGet, "/api/projects", "", nil)
	s.Equal(http.StatusBadGateway, w.Code)
}

func (s *APITestSuite) TestCourseAreaRequiresLoginAndLogsAccess() {
	s.store.Seed("courses", "c1", map[string]any{
		"course_id": "go", "title": "Go", "status": "published", "chapters": []any{},
	})

	w := s.request(http.MethodGet, "/api/courses", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)

	token := s.login()
	w = s.request(http.MethodGet, "/api/courses", token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "Go")

	access, err := s.store.GetAll(context.Background(), "course_access")
	s.Require().NoError(err)
	s.Require().Len(access, 1)
	s.Equal(s.adminEmail, access[0].Data["email"])
}

func (s *APITestSuite) TestCVAggregatesAllSections() {
	s.store.Seed("cv_profile", "main", map[string]any{"name": "Ada"})
	s.store.Seed("cv_skills", "sk1", map[string]any{"category": "Languages", "skills": []any{"Go"}})

	w := s.request(http.MethodGet, "/api/cv", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "Ada")
	s.Contains(w.Body.String(), "Languages")
}
