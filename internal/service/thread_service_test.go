package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vuongngo/reactive-forum-api/internal/domain"
	"github.com/vuongngo/reactive-forum-api/internal/dto"
	"github.com/vuongngo/reactive-forum-api/internal/response"
)

func (e *testEngine) createThread(t *testing.T, authorID, topicID uuid.UUID) *dto.ThreadResponse {
	thread, err := e.threads.Create(context.Background(), authorID, &dto.CreateThreadRequest{
		TopicID: topicID,
		Title:   "Mock",
		Body:    "Mock",
		Tags:    []string{"go", " ", "forum"},
	})
	require.NoError(t, err)
	return thread
}

func TestThreadService_Create(t *testing.T) {
	e := newTestEngine(t)
	user := e.createUser(t, "mock")
	topic := e.createTopic(t, "Mock")

	tests := []struct {
		name        string
		req         *dto.CreateThreadRequest
		wantErrCode string
	}{
		{
			name: "성공: 스레드 생성",
			req:  &dto.CreateThreadRequest{TopicID: topic.ID, Title: "Mock", Body: "Mock", CardImage: &domain.Image{URL: "https://cdn.example.com/card.png"}},
		},
		{
			name:        "실패: 존재하지 않는 토픽",
			req:         &dto.CreateThreadRequest{TopicID: uuid.New(), Title: "Mock", Body: "Mock"},
			wantErrCode: response.ErrCodeNotFound,
		},
		{
			name:        "실패: 제목 누락",
			req:         &dto.CreateThreadRequest{TopicID: topic.ID, Body: "Mock"},
			wantErrCode: response.ErrCodeValidation,
		},
		{
			name:        "실패: 태그만 있는 본문",
			req:         &dto.CreateThreadRequest{TopicID: topic.ID, Title: "Mock", Body: "<script>alert(1)</script>"},
			wantErrCode: response.ErrCodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := e.threads.Create(context.Background(), user.ID, tt.req)

			if tt.wantErrCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErrCode, response.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, user.ID, result.Author.ID)
			assert.Equal(t, "mock", result.Author.Username)
			assert.Equal(t, "https://cdn.example.com/card.png", result.CardImage.URL)
			assert.Empty(t, result.Comments)
			assert.Empty(t, result.LikerIDs)
		})
	}

	// only the successful create counts
	reloaded := e.reloadUser(t, user.ID)
	assert.Equal(t, int64(1), reloaded.Profile.Posts)
	assert.Equal(t, int64(1), reloaded.Profile.Total)

	var threads int64
	require.NoError(t, e.db.Model(&domain.Thread{}).Count(&threads).Error)
	assert.Equal(t, int64(1), threads)
}

func TestThreadService_CreateComment_Scenario(t *testing.T) {
	e := newTestEngine(t)
	user := e.createUser(t, "Mock")
	topic := e.createTopic(t, "Mock")
	thread := e.createThread(t, user.ID, topic.ID)
	assert.Equal(t, []string{"go", "forum"}, thread.Tags)

	before := e.reloadUser(t, user.ID)

	result, err := e.threads.CreateComment(context.Background(), user.ID, thread.ID, &dto.TextRequest{Text: "Mock"})
	require.NoError(t, err)

	require.Len(t, result.Comments, 1)
	last := result.Comments[len(result.Comments)-1]
	assert.Equal(t, "Mock", last.Text)
	assert.Equal(t, user.ID, last.Author.ID)
	assert.Equal(t, "Mock", last.Author.Username)

	after := e.reloadUser(t, user.ID)
	assert.Equal(t, before.Profile.Comments+1, after.Profile.Comments)
	assert.Equal(t, before.Profile.Total+1, after.Profile.Total)

	second, err := e.threads.CreateComment(context.Background(), user.ID, thread.ID, &dto.TextRequest{Text: "Second"})
	require.NoError(t, err)
	require.Len(t, second.Comments, 2)
	assert.Equal(t, "Second", second.Comments[1].Text)

	assert.Equal(t, []string{"newThread", "newComment", "newComment"}, e.sink.names())
	assert.Equal(t, thread.ID, e.sink.events[1].ThreadID)
	require.NotNil(t, e.sink.events[1].CommentID)
	assert.Equal(t, last.ID, *e.sink.events[1].CommentID)
}

func TestThreadService_LikeComment_Toggle(t *testing.T) {
	e := newTestEngine(t)
	user := e.createUser(t, "Mock")
	topic := e.createTopic(t, "Mock")
	thread := e.createThread(t, user.ID, topic.ID)
	withComment, err := e.threads.CreateComment(context.Background(), user.ID, thread.ID, &dto.TextRequest{Text: "Mock"})
	require.NoError(t, err)
	commentID := withComment.Comments[0].ID

	liked, err := e.threads.LikeComment(context.Background(), user.ID, thread.ID, commentID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), liked.Comments[0].LikeCount)
	assert.Equal(t, []uuid.UUID{user.ID}, liked.Comments[0].LikerIDs)

	unliked, err := e.threads.LikeComment(context.Background(), user.ID, thread.ID, commentID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unliked.Comments[0].LikeCount)
	assert.Empty(t, unliked.Comments[0].LikerIDs)
}

func TestThreadService_UpdateReply_OnlyAuthor(t *testing.T) {
	e := newTestEngine(t)
	owner := e.createUser(t, "owner")
	other := e.createUser(t, "other")
	topic := e.createTopic(t, "Mock")
	thread := e.createThread(t, owner.ID, topic.ID)

	withComment, err := e.threads.CreateComment(context.Background(), owner.ID, thread.ID, &dto.TextRequest{Text: "Mock"})
	require.NoError(t, err)
	commentID := withComment.Comments[0].ID

	withReply, err := e.threads.CreateReply(context.Background(), other.ID, thread.ID, commentID, &dto.TextRequest{Text: "Reply"})
	require.NoError(t, err)
	require.Len(t, withReply.Comments[0].Replies, 1)
	replyID := withReply.Comments[0].Replies[0].ID
	assert.Equal(t, other.ID, withReply.Comments[0].Replies[0].Author.ID)

	_, err = e.threads.UpdateReply(context.Background(), owner.ID, thread.ID, commentID, replyID, &dto.TextRequest{Text: "Hijack"})
	assert.Equal(t, response.ErrCodeUnauthorized, response.CodeOf(err))

	_, err = e.threads.RemoveReply(context.Background(), owner.ID, thread.ID, commentID, replyID)
	assert.Equal(t, response.ErrCodeUnauthorized, response.CodeOf(err))

	updated, err := e.threads.UpdateReply(context.Background(), other.ID, thread.ID, commentID, replyID, &dto.TextRequest{Text: "Edited"})
	require.NoError(t, err)
	assert.Equal(t, "Edited", updated.Comments[0].Replies[0].Text)
}

func TestThreadService_CommentAuthorization(t *testing.T) {
	e := newTestEngine(t)
	owner := e.createUser(t, "owner")
	other := e.createUser(t, "other")
	topic := e.createTopic(t, "Mock")
	thread := e.createThread(t, owner.ID, topic.ID)
	otherThread := e.createThread(t, other.ID, topic.ID)

	withComment, err := e.threads.CreateComment(context.Background(), owner.ID, thread.ID, &dto.TextRequest{Text: "Mock"})
	require.NoError(t, err)
	commentID := withComment.Comments[0].ID

	tests := []struct {
		name        string
		userID      uuid.UUID
		threadID    uuid.UUID
		commentID   uuid.UUID
		wantErrCode string
	}{
		{name: "실패: 다른 사용자의 댓글", userID: other.ID, threadID: thread.ID, commentID: commentID, wantErrCode: response.ErrCodeUnauthorized},
		{name: "실패: 다른 스레드의 댓글 ID", userID: owner.ID, threadID: otherThread.ID, commentID: commentID, wantErrCode: response.ErrCodeNotFound},
		{name: "실패: 존재하지 않는 댓글", userID: owner.ID, threadID: thread.ID, commentID: uuid.New(), wantErrCode: response.ErrCodeNotFound},
		{name: "성공: 작성자의 수정", userID: owner.ID, threadID: thread.ID, commentID: commentID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := e.threads.UpdateComment(context.Background(), tt.userID, tt.threadID, tt.commentID, &dto.TextRequest{Text: "Edited"})
			if tt.wantErrCode != "" {
				assert.Equal(t, tt.wantErrCode, response.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Edited", result.Comments[0].Text)
		})
	}

	_, err = e.threads.LikeComment(context.Background(), owner.ID, otherThread.ID, commentID)
	assert.Equal(t, response.ErrCodeNotFound, response.CodeOf(err))
}

func TestThreadService_RemoveComment_RevokesContributions(t *testing.T) {
	e := newTestEngine(t)
	owner := e.createUser(t, "owner")
	other := e.createUser(t, "other")
	topic := e.createTopic(t, "Mock")
	thread := e.createThread(t, owner.ID, topic.ID)

	withComment, err := e.threads.CreateComment(context.Background(), owner.ID, thread.ID, &dto.TextRequest{Text: "Mock"})
	require.NoError(t, err)
	commentID := withComment.Comments[0].ID
	_, err = e.threads.CreateReply(context.Background(), other.ID, thread.ID, commentID, &dto.TextRequest{Text: "Reply"})
	require.NoError(t, err)
	_, err = e.threads.CreateReply(context.Background(), other.ID, thread.ID, commentID, &dto.TextRequest{Text: "Reply 2"})
	require.NoError(t, err)

	assert.Equal(t, int64(2), e.reloadUser(t, other.ID).Profile.Replies)

	result, err := e.threads.RemoveComment(context.Background(), owner.ID, thread.ID, commentID)
	require.NoError(t, err)
	assert.Empty(t, result.Comments)

	ownerAfter := e.reloadUser(t, owner.ID)
	assert.Equal(t, int64(0), ownerAfter.Profile.Comments)
	assert.Equal(t, int64(1), ownerAfter.Profile.Total)

	otherAfter := e.reloadUser(t, other.ID)
	assert.Equal(t, int64(0), otherAfter.Profile.Replies)
	assert.Equal(t, int64(0), otherAfter.Profile.Total)

	var replies int64
	require.NoError(t, e.db.Model(&domain.Reply{}).Where("comment_id = ?", commentID).Count(&replies).Error)
	assert.Zero(t, replies)

	_, err = e.threads.RemoveComment(context.Background(), owner.ID, thread.ID, commentID)
	assert.Equal(t, response.ErrCodeNotFound, response.CodeOf(err))
}

func TestThreadService_Remove(t *testing.T) {
	e := newTestEngine(t)
	owner := e.createUser(t, "owner")
	other := e.createUser(t, "other")
	topic := e.createTopic(t, "Mock")
	thread := e.createThread(t, owner.ID, topic.ID)

	withComment, err := e.threads.CreateComment(context.Background(), other.ID, thread.ID, &dto.TextRequest{Text: "Mock"})
	require.NoError(t, err)
	_, err = e.threads.CreateReply(context.Background(), owner.ID, thread.ID, withComment.Comments[0].ID, &dto.TextRequest{Text: "Reply"})
	require.NoError(t, err)
	_, err = e.threads.Like(context.Background(), other.ID, thread.ID)
	require.NoError(t, err)

	require.NoError(t, e.threads.Remove(context.Background(), thread.ID))

	_, err = e.threads.GetByID(context.Background(), thread.ID)
	assert.Equal(t, response.ErrCodeNotFound, response.CodeOf(err))
	assert.Equal(t, response.ErrCodeNotFound, response.CodeOf(e.threads.Remove(context.Background(), thread.ID)))

	for _, id := range []uuid.UUID{owner.ID, other.ID} {
		profile := e.reloadUser(t, id).Profile
		assert.Zero(t, profile.Posts)
		assert.Zero(t, profile.Comments)
		assert.Zero(t, profile.Replies)
		assert.Zero(t, profile.Total)
	}

	var likes int64
	require.NoError(t, e.db.Model(&domain.Like{}).Count(&likes).Error)
	assert.Zero(t, likes)

	assert.Equal(t, "removedThread", e.sink.names()[len(e.sink.events)-1])
}

func TestThreadService_Update(t *testing.T) {
	e := newTestEngine(t)
	owner := e.createUser(t, "owner")
	topic := e.createTopic(t, "Mock")
	newTopic := e.createTopic(t, "Other")
	thread := e.createThread(t, owner.ID, topic.ID)

	missingTopic := uuid.New()
	_, err := e.threads.Update(context.Background(), thread.ID, &dto.UpdateThreadRequest{TopicID: &missingTopic})
	assert.Equal(t, response.ErrCodeNotFound, response.CodeOf(err))

	updated, err := e.threads.Update(context.Background(), thread.ID, &dto.UpdateThreadRequest{
		TopicID: &newTopic.ID,
		Title:   "Renamed",
		Tags:    []string{"updated"},
	})
	require.NoError(t, err)
	assert.Equal(t, newTopic.ID, updated.TopicID)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "Mock", updated.Body)
	assert.Equal(t, []string{"updated"}, updated.Tags)

	_, err = e.threads.Update(context.Background(), uuid.New(), &dto.UpdateThreadRequest{Title: "x"})
	assert.Equal(t, response.ErrCodeNotFound, response.CodeOf(err))
}

func TestThreadService_List(t *testing.T) {
	e := newTestEngine(t)
	owner := e.createUser(t, "owner")
	other := e.createUser(t, "other")
	topic := e.createTopic(t, "Mock")
	e.createThread(t, owner.ID, topic.ID)
	e.createThread(t, other.ID, topic.ID)

	all, err := e.threads.List(context.Background(), domain.ListOptions{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := e.threads.List(context.Background(), domain.ListOptions{
		Limit:   10,
		Filters: []domain.Filter{{Column: "author_id", Op: domain.OpEq, Values: []interface{}{owner.ID}}},
	})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "owner", mine[0].Author.Username)
}

func TestThreadService_PublishFailureDoesNotFailMutation(t *testing.T) {
	e := newTestEngine(t)
	e.sink.err = errors.New("sink down")
	owner := e.createUser(t, "owner")
	topic := e.createTopic(t, "Mock")

	thread := e.createThread(t, owner.ID, topic.ID)

	assert.NotEqual(t, uuid.Nil, thread.ID)
	assert.Len(t, e.sink.events, 1)
}

func TestThreadService_DeletedAuthorKeepsID(t *testing.T) {
	e := newTestEngine(t)
	owner := e.createUser(t, "owner")
	topic := e.createTopic(t, "Mock")
	thread := e.createThread(t, owner.ID, topic.ID)

	require.NoError(t, e.store.Users().Delete(context.Background(), owner.ID))

	result, err := e.threads.GetByID(context.Background(), thread.ID)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, result.Author.ID)
	assert.Empty(t, result.Author.Username)
}

func TestThreadService_CommentText(t *testing.T) {
	e := newTestEngine(t)
	user := e.createUser(t, "Mock")
	topic := e.createTopic(t, "Mock")
	thread := e.createThread(t, user.ID, topic.ID)

	tests := []struct {
		name        string
		text        string
		want        string
		wantErrCode string
	}{
		{name: "성공: 특수문자는 그대로 저장", text: "a & b < c", want: "a & b < c"},
		{name: "성공: 태그만 제거", text: "<b>bold</b> text", want: "bold text"},
		{name: "실패: 태그뿐인 입력", text: "<b>", wantErrCode: response.ErrCodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := e.threads.CreateComment(context.Background(), user.ID, thread.ID, &dto.TextRequest{Text: tt.text})
			if tt.wantErrCode != "" {
				assert.Equal(t, tt.wantErrCode, response.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Comments[len(result.Comments)-1].Text)

			reloaded, err := e.threads.GetByID(context.Background(), thread.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, reloaded.Comments[len(reloaded.Comments)-1].Text)
		})
	}
}
