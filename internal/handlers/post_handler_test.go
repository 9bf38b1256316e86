package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/stackload-app/stackload/backend/internal/models"
	"github.com/stackload-app/stackload/backend/internal/repositories"
	"github.com/stackload-app/stackload/backend/internal/viewtrack"
)

// flakyPostRepository fails the first N view-count increments, then delegates.
type flakyPostRepository struct {
	repositories.PostRepository
	failures int
	calls    int
}

func (r *flakyPostRepository) IncrementViewCount(ctx context.Context, id int64) error {
	r.calls++
	if r.calls <= r.failures {
		return errors.New("write failed")
	}
	return r.PostRepository.IncrementViewCount(ctx, id)
}

func setupPostHandlerDB(t *testing.T) (*gorm.DB, *models.Post) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Post{}))

	author := &models.User{ID: uuid.NewString(), Name: "author", Email: "author@example.com", Role: models.RoleUser}
	require.NoError(t, db.Create(author).Error)
	post := &models.Post{UserID: author.ID, Title: "hello", Content: "world"}
	require.NoError(t, db.Create(post).Error)
	return db, post
}

func newGetPostRequest(t *testing.T, postID string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/posts/:id")
	c.SetParamNames("id")
	c.SetParamValues(postID)
	return c, rec
}

func viewedPostsCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == viewtrack.CookieName {
			return cookie
		}
	}
	return nil
}

func TestGetPostRetriesViewIncrementOnce(t *testing.T) {
	db, post := setupPostHandlerDB(t)
	repo := &flakyPostRepository{
		PostRepository: repositories.NewPostgresPostRepository(db),
		failures:       1,
	}
	handler := NewPostHandler(repo, zap.NewNop())

	c, rec := newGetPostRequest(t, "1")
	require.NoError(t, handler.GetPost(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.True(t, body.Success)
	assert.Equal(t, float64(1), body.Data["view_count"])

	// One failure, one retry that succeeded.
	assert.Equal(t, 2, repo.calls)

	var stored models.Post
	require.NoError(t, db.First(&stored, post.ID).Error)
	assert.Equal(t, int64(1), stored.ViewCount)
}

// When the retry fails too, the response still succeeds and the cookie is
// still written; the view is lost but the request is not.
func TestGetPostSurvivesViewIncrementFailure(t *testing.T) {
	db, post := setupPostHandlerDB(t)
	repo := &flakyPostRepository{
		PostRepository: repositories.NewPostgresPostRepository(db),
		failures:       2,
	}
	handler := NewPostHandler(repo, zap.NewNop())

	c, rec := newGetPostRequest(t, "1")
	require.NoError(t, handler.GetPost(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.True(t, body.Success)
	assert.Equal(t, float64(0), body.Data["view_count"])

	// Exactly one retry, never more.
	assert.Equal(t, 2, repo.calls)

	cookie := viewedPostsCookie(t, rec)
	require.NotNil(t, cookie)
	records := viewtrack.Decode(cookie.Value)
	require.Len(t, records, 1)
	assert.Equal(t, post.ID, records[0].PostID)

	var stored models.Post
	require.NoError(t, db.First(&stored, post.ID).Error)
	assert.Equal(t, int64(0), stored.ViewCount)
}

func TestGetPostWithinWindowCountsOnce(t *testing.T) {
	db, _ := setupPostHandlerDB(t)
	repo := repositories.NewPostgresPostRepository(db)
	handler := NewPostHandler(repo, zap.NewNop())

	c, rec := newGetPostRequest(t, "1")
	require.NoError(t, handler.GetPost(c))
	first := viewedPostsCookie(t, rec)
	require.NotNil(t, first)

	// Replay the request with the cookie from the first response.
	c, rec = newGetPostRequest(t, "1")
	c.Request().AddCookie(first)
	require.NoError(t, handler.GetPost(c))

	body := decodeEnvelope(t, rec)
	assert.Equal(t, float64(1), body.Data["view_count"])

	var stored models.Post
	require.NoError(t, db.First(&stored, 1).Error)
	assert.Equal(t, int64(1), stored.ViewCount)
}
