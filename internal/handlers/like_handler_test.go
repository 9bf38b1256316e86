package handlers

import (
	"encoding/json"
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

	"github.com/stackload-app/stackload/backend/internal/access"
	"github.com/stackload-app/stackload/backend/internal/middleware"
	"github.com/stackload-app/stackload/backend/internal/models"
	"github.com/stackload-app/stackload/backend/internal/notify"
	"github.com/stackload-app/stackload/backend/internal/repositories"
)

type envelope struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func setupLikeHandler(t *testing.T) (*LikeHandler, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Like{},
		&models.Comment{},
		&models.CommentLike{},
		&models.Notification{},
	))

	notifier := notify.New(repositories.NewPostgresNotificationRepository(db), zap.NewNop())
	handler := NewLikeHandler(
		repositories.NewPostgresLikeRepository(db),
		repositories.NewPostgresCommentLikeRepository(db),
		repositories.NewPostgresPostRepository(db),
		repositories.NewPostgresCommentRepository(db),
		repositories.NewPostgresUserRepository(db),
		notifier,
	)
	return handler, db
}

func newLikeRequest(t *testing.T, method, postID string, subject *access.Subject) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/posts/:id/like")
	c.SetParamNames("id")
	c.SetParamValues(postID)
	if subject != nil {
		c.Set(middleware.SubjectContextKey, subject)
	}
	return c, rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var body envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestTogglePostLikeRequiresAuth(t *testing.T) {
	handler, _ := setupLikeHandler(t)

	c, rec := newLikeRequest(t, http.MethodPost, "1", nil)
	require.NoError(t, handler.TogglePostLike(c))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	assert.Equal(t, "UNAUTHENTICATED", body.Error.Code)
}

func TestTogglePostLikeUnknownPost(t *testing.T) {
	handler, _ := setupLikeHandler(t)
	subject := &access.Subject{ID: uuid.NewString(), Role: models.RoleUser}

	c, rec := newLikeRequest(t, http.MethodPost, "999", subject)
	require.NoError(t, handler.TogglePostLike(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeEnvelope(t, rec)
	require.NotNil(t, body.Error)
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
}

func TestTogglePostLikeRoundTrip(t *testing.T) {
	handler, db := setupLikeHandler(t)

	author := &models.User{ID: uuid.NewString(), Name: "author", Email: "author@example.com", Role: models.RoleUser}
	liker := &models.User{ID: uuid.NewString(), Name: "liker", Email: "liker@example.com", Role: models.RoleUser}
	require.NoError(t, db.Create(author).Error)
	require.NoError(t, db.Create(liker).Error)
	post := &models.Post{UserID: author.ID, Title: "hello", Content: "world"}
	require.NoError(t, db.Create(post).Error)
	subject := &access.Subject{ID: liker.ID, Email: liker.Email, Role: liker.Role}

	c, rec := newLikeRequest(t, http.MethodPost, "1", subject)
	require.NoError(t, handler.TogglePostLike(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.True(t, body.Success)
	assert.Equal(t, true, body.Data["liked"])
	assert.Equal(t, float64(1), body.Data["like_count"])

	// Liking someone else's post leaves a notification for the author.
	var notifications int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("recipient_id = ?", author.ID).Count(&notifications).Error)
	assert.Equal(t, int64(1), notifications)

	// The second toggle reverses the first.
	c, rec = newLikeRequest(t, http.MethodPost, "1", subject)
	require.NoError(t, handler.TogglePostLike(c))

	body = decodeEnvelope(t, rec)
	assert.Equal(t, false, body.Data["liked"])
	assert.Equal(t, float64(0), body.Data["like_count"])
}

func TestGetPostLikeStatusAnonymous(t *testing.T) {
	handler, db := setupLikeHandler(t)

	author := &models.User{ID: uuid.NewString(), Name: "author", Email: "a@example.com", Role: models.RoleUser}
	require.NoError(t, db.Create(author).Error)
	require.NoError(t, db.Create(&models.Post{UserID: author.ID, Title: "t", Content: "c"}).Error)

	c, rec := newLikeRequest(t, http.MethodGet, "1", nil)
	require.NoError(t, handler.GetPostLikeStatus(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.True(t, body.Success)
	assert.Equal(t, false, body.Data["liked"])
	assert.Nil(t, body.Data["liked_at"])
}

func TestGetPostLikeStatusAfterToggle(t *testing.T) {
	handler, db := setupLikeHandler(t)

	author := &models.User{ID: uuid.NewString(), Name: "author", Email: "a@example.com", Role: models.RoleUser}
	require.NoError(t, db.Create(author).Error)
	require.NoError(t, db.Create(&models.Post{UserID: author.ID, Title: "t", Content: "c"}).Error)
	subject := &access.Subject{ID: author.ID, Email: author.Email, Role: author.Role}

	c, _ := newLikeRequest(t, http.MethodPost, "1", subject)
	require.NoError(t, handler.TogglePostLike(c))

	c, rec := newLikeRequest(t, http.MethodGet, "1", subject)
	require.NoError(t, handler.GetPostLikeStatus(c))

	body := decodeEnvelope(t, rec)
	assert.Equal(t, true, body.Data["liked"])
	assert.NotNil(t, body.Data["liked_at"])
}
