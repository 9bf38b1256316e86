package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stackload-app/stackload/backend/internal/models"
)

func setupLikeTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Like{},
		&models.Comment{},
		&models.CommentLike{},
	))
	return db
}

func seedUserAndPost(t *testing.T, db *gorm.DB) (*models.User, *models.Post) {
	t.Helper()
	user := &models.User{ID: uuid.NewString(), Name: "alice", Email: "alice@example.com", Role: models.RoleUser}
	require.NoError(t, db.Create(user).Error)
	post := &models.Post{UserID: user.ID, Title: "hello", Content: "world"}
	require.NoError(t, db.Create(post).Error)
	return user, post
}

func TestToggleAlternatesAndMovesCounterByOne(t *testing.T) {
	db := setupLikeTestDB(t)
	repo := NewPostgresLikeRepository(db)
	ctx := context.Background()

	user, post := seedUserAndPost(t, db)

	wantLiked := []bool{true, false, true, false}
	wantCount := []int64{1, 0, 1, 0}
	for i := range wantLiked {
		liked, count, err := repo.Toggle(ctx, post.ID, user.ID)
		require.NoError(t, err)
		assert.Equal(t, wantLiked[i], liked, "toggle %d", i)
		assert.Equal(t, wantCount[i], count, "toggle %d", i)

		// Counter never diverges from the row count.
		rows, err := repo.CountByPostID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, count, rows, "toggle %d", i)
	}
}

func TestToggleTwoSubjectsIndependent(t *testing.T) {
	db := setupLikeTestDB(t)
	repo := NewPostgresLikeRepository(db)
	ctx := context.Background()

	user, post := seedUserAndPost(t, db)
	other := &models.User{ID: uuid.NewString(), Name: "bob", Email: "bob@example.com", Role: models.RoleUser}
	require.NoError(t, db.Create(other).Error)

	_, count, err := repo.Toggle(ctx, post.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	_, count, err = repo.Toggle(ctx, post.ID, other.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	_, count, err = repo.Toggle(ctx, post.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

// A duplicate insert losing the unique-index race must be absorbed: the row
// count stays at one and the counter is not bumped a second time.
func TestDuplicateLikeInsertAbsorbed(t *testing.T) {
	db := setupLikeTestDB(t)
	repo := NewPostgresLikeRepository(db)
	ctx := context.Background()

	user, post := seedUserAndPost(t, db)

	liked, count, err := repo.Toggle(ctx, post.ID, user.ID)
	require.NoError(t, err)
	require.True(t, liked)
	require.Equal(t, int64(1), count)

	// The same write a racing request would issue after its stale
	// existence check.
	res := db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Like{PostID: post.ID, UserID: user.ID})
	require.NoError(t, res.Error)
	assert.Equal(t, int64(0), res.RowsAffected)

	rows, err := repo.CountByPostID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	var stored models.Post
	require.NoError(t, db.First(&stored, post.ID).Error)
	assert.Equal(t, int64(1), stored.LikeCount)
}

func TestGetLikeReportsState(t *testing.T) {
	db := setupLikeTestDB(t)
	repo := NewPostgresLikeRepository(db)
	ctx := context.Background()

	user, post := seedUserAndPost(t, db)

	_, err := repo.GetLike(ctx, post.ID, user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, _, err = repo.Toggle(ctx, post.ID, user.ID)
	require.NoError(t, err)

	like, err := repo.GetLike(ctx, post.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, like.PostID)
	assert.False(t, like.CreatedAt.IsZero())
}

func TestCommentLikeToggleAlternates(t *testing.T) {
	db := setupLikeTestDB(t)
	repo := NewPostgresCommentLikeRepository(db)
	ctx := context.Background()

	user, post := seedUserAndPost(t, db)
	comment := &models.Comment{PostID: post.ID, UserID: user.ID, Content: "nice"}
	require.NoError(t, db.Create(comment).Error)

	liked, count, err := repo.Toggle(ctx, comment.ID, user.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, int64(1), count)

	liked, count, err = repo.Toggle(ctx, comment.ID, user.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, int64(0), count)
}
