package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vuongngo/reactive-forum-api/internal/domain"
)

func TestThreadRepository_FindByIDOrdersTree(t *testing.T) {
	db := setupTestDB(t)
	repo := NewThreadRepository(db)
	ctx := context.Background()
	author := uuid.New()
	thread := createTestThread(t, db, author)

	var commentIDs []uuid.UUID
	for _, text := range []string{"one", "two", "three"} {
		comment := &domain.Comment{ThreadID: thread.ID, AuthorID: author, Text: text}
		require.NoError(t, repo.CreateComment(ctx, comment))
		commentIDs = append(commentIDs, comment.ID)
	}
	for _, text := range []string{"a", "b"} {
		reply := &domain.Reply{ThreadID: thread.ID, CommentID: commentIDs[1], AuthorID: author, Text: text}
		require.NoError(t, repo.CreateReply(ctx, reply))
	}

	found, err := repo.FindByID(ctx, thread.ID)
	require.NoError(t, err)
	require.Len(t, found.Comments, 3)
	assert.Equal(t, "one", found.Comments[0].Text)
	assert.Equal(t, "two", found.Comments[1].Text)
	assert.Equal(t, "three", found.Comments[2].Text)
	require.Len(t, found.Comments[1].Replies, 2)
	assert.Equal(t, "a", found.Comments[1].Replies[0].Text)
	assert.Equal(t, "b", found.Comments[1].Replies[1].Text)
	assert.Empty(t, found.Comments[0].Replies)
}

func TestThreadRepository_CommentScopedToThread(t *testing.T) {
	db := setupTestDB(t)
	repo := NewThreadRepository(db)
	ctx := context.Background()
	author := uuid.New()
	thread := createTestThread(t, db, author)
	other := createTestThread(t, db, author)

	comment := &domain.Comment{ThreadID: thread.ID, AuthorID: author, Text: "hello"}
	require.NoError(t, repo.CreateComment(ctx, comment))

	_, err := repo.FindComment(ctx, other.ID, comment.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	found, err := repo.FindComment(ctx, thread.ID, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", found.Text)
}

func TestThreadRepository_UpdateCommentTextRequiresAuthor(t *testing.T) {
	db := setupTestDB(t)
	repo := NewThreadRepository(db)
	ctx := context.Background()
	author := uuid.New()
	thread := createTestThread(t, db, author)
	comment := &domain.Comment{ThreadID: thread.ID, AuthorID: author, Text: "hello"}
	require.NoError(t, repo.CreateComment(ctx, comment))

	err := repo.UpdateCommentText(ctx, thread.ID, comment.ID, uuid.New(), "hijacked")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.UpdateCommentText(ctx, thread.ID, comment.ID, author, "edited"))
	found, err := repo.FindComment(ctx, thread.ID, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", found.Text)
}

func TestThreadRepository_DeleteCommentCascades(t *testing.T) {
	db := setupTestDB(t)
	repo := NewThreadRepository(db)
	likes := NewLikeRepository(db)
	ctx := context.Background()
	author := uuid.New()
	thread := createTestThread(t, db, author)

	comment := &domain.Comment{ThreadID: thread.ID, AuthorID: author, Text: "hello"}
	require.NoError(t, repo.CreateComment(ctx, comment))
	reply := &domain.Reply{ThreadID: thread.ID, CommentID: comment.ID, AuthorID: uuid.New(), Text: "hi"}
	require.NoError(t, repo.CreateReply(ctx, reply))
	_, err := likes.Toggle(ctx, domain.LikeTargetReply, reply.ID, author)
	require.NoError(t, err)
	_, err = likes.Toggle(ctx, domain.LikeTargetComment, comment.ID, author)
	require.NoError(t, err)

	assert.ErrorIs(t, repo.DeleteComment(ctx, thread.ID, comment.ID, uuid.New()), gorm.ErrRecordNotFound)
	require.NoError(t, repo.DeleteComment(ctx, thread.ID, comment.ID, author))

	var replies, likeRows int64
	db.Model(&domain.Reply{}).Count(&replies)
	db.Model(&domain.Like{}).Count(&likeRows)
	assert.Zero(t, replies)
	assert.Zero(t, likeRows)
}

func TestThreadRepository_DeleteComment_WithForeignKeys(t *testing.T) {
	db := setupTestDBWithForeignKeys(t)
	repo := NewThreadRepository(db)
	likes := NewLikeRepository(db)
	ctx := context.Background()
	author := uuid.New()
	thread := createTestThread(t, db, author)

	comment := &domain.Comment{ThreadID: thread.ID, AuthorID: author, Text: "hello"}
	require.NoError(t, repo.CreateComment(ctx, comment))
	other := &domain.Comment{ThreadID: thread.ID, AuthorID: author, Text: "stays"}
	require.NoError(t, repo.CreateComment(ctx, other))

	reply := &domain.Reply{ThreadID: thread.ID, CommentID: comment.ID, AuthorID: uuid.New(), Text: "hi"}
	require.NoError(t, repo.CreateReply(ctx, reply))
	kept := &domain.Reply{ThreadID: thread.ID, CommentID: other.ID, AuthorID: author, Text: "kept"}
	require.NoError(t, repo.CreateReply(ctx, kept))

	_, err := likes.Toggle(ctx, domain.LikeTargetReply, reply.ID, author)
	require.NoError(t, err)
	_, err = likes.Toggle(ctx, domain.LikeTargetComment, comment.ID, author)
	require.NoError(t, err)
	_, err = likes.Toggle(ctx, domain.LikeTargetReply, kept.ID, author)
	require.NoError(t, err)

	// 실패: 작성자가 아니면 아무것도 지워지지 않음
	assert.ErrorIs(t, repo.DeleteComment(ctx, thread.ID, comment.ID, uuid.New()), gorm.ErrRecordNotFound)
	var likeRows int64
	db.Model(&domain.Like{}).Count(&likeRows)
	assert.Equal(t, int64(3), likeRows)

	require.NoError(t, repo.DeleteComment(ctx, thread.ID, comment.ID, author))

	var replies, replyLikes, commentLikes int64
	db.Model(&domain.Reply{}).Where("comment_id = ?", comment.ID).Count(&replies)
	db.Model(&domain.Like{}).Where("target_type = ? AND target_id = ?", domain.LikeTargetReply, reply.ID).Count(&replyLikes)
	db.Model(&domain.Like{}).Where("target_type = ? AND target_id = ?", domain.LikeTargetComment, comment.ID).Count(&commentLikes)
	assert.Zero(t, replies)
	assert.Zero(t, replyLikes)
	assert.Zero(t, commentLikes)

	db.Model(&domain.Like{}).Count(&likeRows)
	assert.Equal(t, int64(1), likeRows)
	var remaining int64
	db.Model(&domain.Reply{}).Where("comment_id = ?", other.ID).Count(&remaining)
	assert.Equal(t, int64(1), remaining)
}

func TestThreadRepository_DeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	repo := NewThreadRepository(db)
	likes := NewLikeRepository(db)
	users := NewUserRepository(db)
	ctx := context.Background()
	author := createTestUser(t, db, "alice")
	thread := createTestThread(t, db, author.ID)
	keep := createTestThread(t, db, author.ID)

	comment := &domain.Comment{ThreadID: thread.ID, AuthorID: author.ID, Text: "hello"}
	require.NoError(t, repo.CreateComment(ctx, comment))
	require.NoError(t, repo.CreateReply(ctx, &domain.Reply{ThreadID: thread.ID, CommentID: comment.ID, AuthorID: author.ID, Text: "r"}))
	_, err := likes.Toggle(ctx, domain.LikeTargetThread, thread.ID, author.ID)
	require.NoError(t, err)
	_, err = likes.Toggle(ctx, domain.LikeTargetThread, keep.ID, author.ID)
	require.NoError(t, err)
	_, err = users.ToggleFlag(ctx, author.ID, thread.ID)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, thread.ID))

	_, err = repo.FindByID(ctx, thread.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var comments, replies, likeRows, flags int64
	db.Model(&domain.Comment{}).Count(&comments)
	db.Model(&domain.Reply{}).Count(&replies)
	db.Model(&domain.Like{}).Count(&likeRows)
	db.Model(&domain.UserFlag{}).Count(&flags)
	assert.Zero(t, comments)
	assert.Zero(t, replies)
	assert.Equal(t, int64(1), likeRows)
	assert.Zero(t, flags)

	assert.ErrorIs(t, repo.Delete(ctx, thread.ID), gorm.ErrRecordNotFound)
}

func TestThreadRepository_CountsByAuthor(t *testing.T) {
	db := setupTestDB(t)
	repo := NewThreadRepository(db)
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()
	thread := createTestThread(t, db, alice)

	first := &domain.Comment{ThreadID: thread.ID, AuthorID: alice, Text: "1"}
	second := &domain.Comment{ThreadID: thread.ID, AuthorID: bob, Text: "2"}
	require.NoError(t, repo.CreateComment(ctx, first))
	require.NoError(t, repo.CreateComment(ctx, second))
	require.NoError(t, repo.CreateReply(ctx, &domain.Reply{ThreadID: thread.ID, CommentID: first.ID, AuthorID: bob, Text: "r"}))
	require.NoError(t, repo.CreateReply(ctx, &domain.Reply{ThreadID: thread.ID, CommentID: first.ID, AuthorID: bob, Text: "r"}))
	require.NoError(t, repo.CreateReply(ctx, &domain.Reply{ThreadID: thread.ID, CommentID: second.ID, AuthorID: alice, Text: "r"}))

	comments, err := repo.CommentCountsByAuthor(ctx, thread.ID)
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]int64{alice: 1, bob: 1}, comments)

	replies, err := repo.ReplyCountsByAuthor(ctx, thread.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]int64{alice: 1, bob: 2}, replies)

	replies, err = repo.ReplyCountsByAuthor(ctx, thread.ID, &first.ID)
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]int64{bob: 2}, replies)
}

func TestThreadRepository_ListFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewThreadRepository(db)
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()
	createTestThread(t, db, alice)
	createTestThread(t, db, bob)
	createTestThread(t, db, alice)

	threads, err := repo.List(ctx, domain.ListOptions{
		Filters: []domain.Filter{{Column: "author_id", Op: domain.OpEq, Values: []interface{}{alice.String()}}},
	})
	require.NoError(t, err)
	assert.Len(t, threads, 2)
	for _, thread := range threads {
		assert.Equal(t, alice, thread.AuthorID)
	}
}
