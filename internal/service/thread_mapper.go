package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/vuongngo/reactive-forum-api/internal/domain"
	"github.com/vuongngo/reactive-forum-api/internal/dto"
)

// toThreadResponses resolves authors and likers for threads with a fixed number of queries
func (s *threadServiceImpl) toThreadResponses(ctx context.Context, threads []*domain.Thread) ([]*dto.ThreadResponse, error) {
	authorSet := make(map[uuid.UUID]struct{})
	var threadIDs, commentIDs, replyIDs []uuid.UUID

	for _, thread := range threads {
		authorSet[thread.AuthorID] = struct{}{}
		threadIDs = append(threadIDs, thread.ID)
		for _, comment := range thread.Comments {
			authorSet[comment.AuthorID] = struct{}{}
			commentIDs = append(commentIDs, comment.ID)
			for _, reply := range comment.Replies {
				authorSet[reply.AuthorID] = struct{}{}
				replyIDs = append(replyIDs, reply.ID)
			}
		}
	}

	authorIDs := make([]uuid.UUID, 0, len(authorSet))
	for id := range authorSet {
		authorIDs = append(authorIDs, id)
	}
	users, err := s.store.Users().FindByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	authors := make(map[uuid.UUID]*dto.AuthorResponse, len(users))
	for _, user := range users {
		authors[user.ID] = dto.ToAuthorResponse(user)
	}

	threadLikers, err := s.likers(ctx, domain.LikeTargetThread, threadIDs)
	if err != nil {
		return nil, err
	}
	commentLikers, err := s.likers(ctx, domain.LikeTargetComment, commentIDs)
	if err != nil {
		return nil, err
	}
	replyLikers, err := s.likers(ctx, domain.LikeTargetReply, replyIDs)
	if err != nil {
		return nil, err
	}

	author := func(id uuid.UUID) *dto.AuthorResponse {
		if a, ok := authors[id]; ok {
			return a
		}
		// deleted users keep their id only
		return &dto.AuthorResponse{ID: id}
	}

	responses := make([]*dto.ThreadResponse, 0, len(threads))
	for _, thread := range threads {
		comments := make([]dto.CommentResponse, 0, len(thread.Comments))
		for _, comment := range thread.Comments {
			replies := make([]dto.ReplyResponse, 0, len(comment.Replies))
			for _, reply := range comment.Replies {
				replies = append(replies, dto.ReplyResponse{
					ID:        reply.ID,
					Author:    author(reply.AuthorID),
					Text:      reply.Text,
					LikeCount: reply.LikeCount,
					LikerIDs:  orEmpty(replyLikers[reply.ID]),
					CreatedAt: reply.CreatedAt,
					UpdatedAt: reply.UpdatedAt,
				})
			}
			comments = append(comments, dto.CommentResponse{
				ID:        comment.ID,
				Author:    author(comment.AuthorID),
				Text:      comment.Text,
				Replies:   replies,
				LikeCount: comment.LikeCount,
				LikerIDs:  orEmpty(commentLikers[comment.ID]),
				CreatedAt: comment.CreatedAt,
				UpdatedAt: comment.UpdatedAt,
			})
		}

		tags := []string(thread.Tags)
		if tags == nil {
			tags = []string{}
		}
		responses = append(responses, &dto.ThreadResponse{
			ID:        thread.ID,
			TopicID:   thread.TopicID,
			Author:    author(thread.AuthorID),
			Title:     thread.Title,
			Body:      thread.Body,
			CardImage: thread.CardImage.Data(),
			Tags:      tags,
			Comments:  comments,
			LikeCount: thread.LikeCount,
			LikerIDs:  orEmpty(threadLikers[thread.ID]),
			CreatedAt: thread.CreatedAt,
			UpdatedAt: thread.UpdatedAt,
		})
	}
	return responses, nil
}

func (s *threadServiceImpl) likers(ctx context.Context, target domain.LikeTarget, ids []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	if len(ids) == 0 {
		return map[uuid.UUID][]uuid.UUID{}, nil
	}
	return s.store.Likes().LikerIDs(ctx, target, ids)
}

func orEmpty(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return []uuid.UUID{}
	}
	return ids
}
