package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vuongngo/reactive-forum-api/internal/domain"
	"github.com/vuongngo/reactive-forum-api/internal/dto"
	"github.com/vuongngo/reactive-forum-api/internal/notify"
	"github.com/vuongngo/reactive-forum-api/internal/repository"
	"github.com/vuongngo/reactive-forum-api/internal/response"
)

// CreateComment appends a comment to the thread
func (s *threadServiceImpl) CreateComment(ctx context.Context, userID, threadID uuid.UUID, req *dto.TextRequest) (*dto.ThreadResponse, error) {
	text, err := s.text(req)
	if err != nil {
		return nil, err
	}

	comment := &domain.Comment{ThreadID: threadID, AuthorID: userID, Text: text}
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := tx.Threads().FindHeader(ctx, threadID); err != nil {
			return translateError(err, "Thread not found", "Failed to fetch thread")
		}
		if err := tx.Threads().CreateComment(ctx, comment); err != nil {
			return err
		}
		return adjustContributions(ctx, tx.Users(), userID, domain.ContributionComments, 1)
	})
	if err != nil {
		return nil, translateError(err, "Author not found", "Failed to create comment")
	}

	s.metrics.IncrementCommentCreated()
	s.logger.Debug("Comment created",
		zap.String("thread_id", threadID.String()),
		zap.String("comment_id", comment.ID.String()))

	return s.respond(ctx, threadID, notify.Event{
		Kind:      notify.KindCreate,
		Entity:    notify.EntityComment,
		CommentID: &comment.ID,
	})
}

// UpdateComment replaces the text of a comment written by userID
func (s *threadServiceImpl) UpdateComment(ctx context.Context, userID, threadID, commentID uuid.UUID, req *dto.TextRequest) (*dto.ThreadResponse, error) {
	text, err := s.text(req)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedComment(ctx, s.store, userID, threadID, commentID); err != nil {
		return nil, err
	}

	if err := s.store.Threads().UpdateCommentText(ctx, threadID, commentID, userID, text); err != nil {
		return nil, translateError(err, "Comment not found", "Failed to update comment")
	}

	return s.respond(ctx, threadID, notify.Event{
		Kind:      notify.KindUpdate,
		Entity:    notify.EntityComment,
		CommentID: &commentID,
	})
}

// RemoveComment deletes a comment with its replies and likes
func (s *threadServiceImpl) RemoveComment(ctx context.Context, userID, threadID, commentID uuid.UUID) (*dto.ThreadResponse, error) {
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := s.ownedComment(ctx, tx, userID, threadID, commentID); err != nil {
			return err
		}
		replyCounts, err := tx.Threads().ReplyCountsByAuthor(ctx, threadID, &commentID)
		if err != nil {
			return err
		}
		if err := tx.Threads().DeleteComment(ctx, threadID, commentID, userID); err != nil {
			return translateError(err, "Comment not found", "Failed to delete comment")
		}

		if err := revokeContributions(ctx, tx.Users(), map[uuid.UUID]int64{userID: 1}, domain.ContributionComments); err != nil {
			return err
		}
		return revokeContributions(ctx, tx.Users(), replyCounts, domain.ContributionReplies)
	})
	if err != nil {
		return nil, translateError(err, "Comment not found", "Failed to delete comment")
	}

	return s.respond(ctx, threadID, notify.Event{
		Kind:      notify.KindRemove,
		Entity:    notify.EntityComment,
		CommentID: &commentID,
	})
}

// LikeComment toggles the caller's like on a comment of the thread
func (s *threadServiceImpl) LikeComment(ctx context.Context, userID, threadID, commentID uuid.UUID) (*dto.ThreadResponse, error) {
	if _, err := s.store.Threads().FindComment(ctx, threadID, commentID); err != nil {
		return nil, translateError(err, "Comment not found", "Failed to fetch comment")
	}

	liked, err := s.store.Likes().Toggle(ctx, domain.LikeTargetComment, commentID, userID)
	if err != nil {
		return nil, translateError(err, "Comment not found", "Failed to toggle like")
	}
	s.metrics.RecordLikeToggle(string(domain.LikeTargetComment), liked)

	return s.respond(ctx, threadID, notify.Event{
		Kind:      notify.KindUpdate,
		Entity:    notify.EntityComment,
		CommentID: &commentID,
	})
}

// CreateReply appends a reply to a comment of the thread
func (s *threadServiceImpl) CreateReply(ctx context.Context, userID, threadID, commentID uuid.UUID, req *dto.TextRequest) (*dto.ThreadResponse, error) {
	text, err := s.text(req)
	if err != nil {
		return nil, err
	}

	reply := &domain.Reply{ThreadID: threadID, CommentID: commentID, AuthorID: userID, Text: text}
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := tx.Threads().FindComment(ctx, threadID, commentID); err != nil {
			return translateError(err, "Comment not found", "Failed to fetch comment")
		}
		if err := tx.Threads().CreateReply(ctx, reply); err != nil {
			return err
		}
		return adjustContributions(ctx, tx.Users(), userID, domain.ContributionReplies, 1)
	})
	if err != nil {
		return nil, translateError(err, "Author not found", "Failed to create reply")
	}

	s.metrics.IncrementReplyCreated()

	return s.respond(ctx, threadID, notify.Event{
		Kind:      notify.KindCreate,
		Entity:    notify.EntityReply,
		CommentID: &commentID,
		ReplyID:   &reply.ID,
	})
}

// UpdateReply replaces the text of a reply written by userID
func (s *threadServiceImpl) UpdateReply(ctx context.Context, userID, threadID, commentID, replyID uuid.UUID, req *dto.TextRequest) (*dto.ThreadResponse, error) {
	text, err := s.text(req)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedReply(ctx, s.store, userID, threadID, commentID, replyID); err != nil {
		return nil, err
	}

	if err := s.store.Threads().UpdateReplyText(ctx, threadID, commentID, replyID, userID, text); err != nil {
		return nil, translateError(err, "Reply not found", "Failed to update reply")
	}

	return s.respond(ctx, threadID, notify.Event{
		Kind:      notify.KindUpdate,
		Entity:    notify.EntityReply,
		CommentID: &commentID,
		ReplyID:   &replyID,
	})
}

// RemoveReply deletes a reply written by userID
func (s *threadServiceImpl) RemoveReply(ctx context.Context, userID, threadID, commentID, replyID uuid.UUID) (*dto.ThreadResponse, error) {
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := s.ownedReply(ctx, tx, userID, threadID, commentID, replyID); err != nil {
			return err
		}
		if err := tx.Threads().DeleteReply(ctx, threadID, commentID, replyID, userID); err != nil {
			return translateError(err, "Reply not found", "Failed to delete reply")
		}
		return revokeContributions(ctx, tx.Users(), map[uuid.UUID]int64{userID: 1}, domain.ContributionReplies)
	})
	if err != nil {
		return nil, translateError(err, "Reply not found", "Failed to delete reply")
	}

	return s.respond(ctx, threadID, notify.Event{
		Kind:      notify.KindRemove,
		Entity:    notify.EntityReply,
		CommentID: &commentID,
		ReplyID:   &replyID,
	})
}

// LikeReply toggles the caller's like on a reply
func (s *threadServiceImpl) LikeReply(ctx context.Context, userID, threadID, commentID, replyID uuid.UUID) (*dto.ThreadResponse, error) {
	if _, err := s.store.Threads().FindReply(ctx, threadID, commentID, replyID); err != nil {
		return nil, translateError(err, "Reply not found", "Failed to fetch reply")
	}

	liked, err := s.store.Likes().Toggle(ctx, domain.LikeTargetReply, replyID, userID)
	if err != nil {
		return nil, translateError(err, "Reply not found", "Failed to toggle like")
	}
	s.metrics.RecordLikeToggle(string(domain.LikeTargetReply), liked)

	return s.respond(ctx, threadID, notify.Event{
		Kind:      notify.KindUpdate,
		Entity:    notify.EntityReply,
		CommentID: &commentID,
		ReplyID:   &replyID,
	})
}

func (s *threadServiceImpl) text(req *dto.TextRequest) (string, error) {
	text := s.sanitizer.SanitizeText(req.Text)
	if text == "" {
		return "", response.NewValidationError("Text is required", "")
	}
	return text, nil
}

// ownedComment resolves the comment inside the thread and checks userID wrote it
func (s *threadServiceImpl) ownedComment(ctx context.Context, store repository.Store, userID, threadID, commentID uuid.UUID) (*domain.Comment, error) {
	comment, err := store.Threads().FindComment(ctx, threadID, commentID)
	if err != nil {
		return nil, translateError(err, "Comment not found", "Failed to fetch comment")
	}
	if comment.AuthorID != userID {
		return nil, response.NewUnauthorizedError("Only the author can change this comment", "")
	}
	return comment, nil
}

// ownedReply resolves the reply inside the comment and checks userID wrote it
func (s *threadServiceImpl) ownedReply(ctx context.Context, store repository.Store, userID, threadID, commentID, replyID uuid.UUID) (*domain.Reply, error) {
	reply, err := store.Threads().FindReply(ctx, threadID, commentID, replyID)
	if err != nil {
		return nil, translateError(err, "Reply not found", "Failed to fetch reply")
	}
	if reply.AuthorID != userID {
		return nil, response.NewUnauthorizedError("Only the author can change this reply", "")
	}
	return reply, nil
}
