package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vuongngo/reactive-forum-api/internal/domain"
)

// ThreadRepository defines data access for the thread aggregate: threads, their comments and replies
type ThreadRepository interface {
	Create(ctx context.Context, thread *domain.Thread) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Thread, error)
	FindHeader(ctx context.Context, id uuid.UUID) (*domain.Thread, error)
	List(ctx context.Context, opts domain.ListOptions) ([]*domain.Thread, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error

	CreateComment(ctx context.Context, comment *domain.Comment) error
	FindComment(ctx context.Context, threadID, commentID uuid.UUID) (*domain.Comment, error)
	UpdateCommentText(ctx context.Context, threadID, commentID, authorID uuid.UUID, text string) error
	DeleteComment(ctx context.Context, threadID, commentID, authorID uuid.UUID) error

	CreateReply(ctx context.Context, reply *domain.Reply) error
	FindReply(ctx context.Context, threadID, commentID, replyID uuid.UUID) (*domain.Reply, error)
	UpdateReplyText(ctx context.Context, threadID, commentID, replyID, authorID uuid.UUID, text string) error
	DeleteReply(ctx context.Context, threadID, commentID, replyID, authorID uuid.UUID) error

	CommentCountsByAuthor(ctx context.Context, threadID uuid.UUID) (map[uuid.UUID]int64, error)
	ReplyCountsByAuthor(ctx context.Context, threadID uuid.UUID, commentID *uuid.UUID) (map[uuid.UUID]int64, error)
}

// threadRepositoryImpl is the GORM implementation of ThreadRepository
type threadRepositoryImpl struct {
	db *gorm.DB
}

// NewThreadRepository creates a new instance of ThreadRepository
func NewThreadRepository(db *gorm.DB) ThreadRepository {
	return &threadRepositoryImpl{db: db}
}

// withTree preloads comments and replies in insertion order
func withTree(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at ASC, comments.id ASC")
		}).
		Preload("Comments.Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("replies.created_at ASC, replies.id ASC")
		})
}

func (r *threadRepositoryImpl) Create(ctx context.Context, thread *domain.Thread) error {
	return r.db.WithContext(ctx).Omit("Comments").Create(thread).Error
}

// FindByID loads the whole aggregate
func (r *threadRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Thread, error) {
	var thread domain.Thread
	if err := withTree(r.db.WithContext(ctx)).Where("id = ?", id).First(&thread).Error; err != nil {
		return nil, err
	}
	return &thread, nil
}

// FindHeader loads the thread row without comments
func (r *threadRepositoryImpl) FindHeader(ctx context.Context, id uuid.UUID) (*domain.Thread, error) {
	var thread domain.Thread
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&thread).Error; err != nil {
		return nil, err
	}
	return &thread, nil
}

func (r *threadRepositoryImpl) List(ctx context.Context, opts domain.ListOptions) ([]*domain.Thread, error) {
	query, err := applyListOptions(r.db.WithContext(ctx).Model(&domain.Thread{}), opts)
	if err != nil {
		return nil, err
	}

	var threads []*domain.Thread
	if err := withTree(query).Order("threads.created_at DESC, threads.id DESC").Find(&threads).Error; err != nil {
		return nil, err
	}
	return threads, nil
}

func (r *threadRepositoryImpl) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&domain.Thread{}).Where("id = ?", id).Updates(fields)
	return notFoundIfNoRows(result)
}

// Delete removes the thread with its comments, replies, likes and flags
func (r *threadRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var replyIDs, commentIDs []uuid.UUID
		if err := tx.Model(&domain.Reply{}).Where("thread_id = ?", id).Pluck("id", &replyIDs).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.Comment{}).Where("thread_id = ?", id).Pluck("id", &commentIDs).Error; err != nil {
			return err
		}

		if err := deleteLikes(tx, domain.LikeTargetReply, replyIDs); err != nil {
			return err
		}
		if err := deleteLikes(tx, domain.LikeTargetComment, commentIDs); err != nil {
			return err
		}
		if err := deleteLikes(tx, domain.LikeTargetThread, []uuid.UUID{id}); err != nil {
			return err
		}

		if err := tx.Where("thread_id = ?", id).Delete(&domain.Reply{}).Error; err != nil {
			return err
		}
		if err := tx.Where("thread_id = ?", id).Delete(&domain.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("thread_id = ?", id).Delete(&domain.UserFlag{}).Error; err != nil {
			return err
		}
		return notFoundIfNoRows(tx.Where("id = ?", id).Delete(&domain.Thread{}))
	})
}

func (r *threadRepositoryImpl) CreateComment(ctx context.Context, comment *domain.Comment) error {
	return r.db.WithContext(ctx).Omit("Replies").Create(comment).Error
}

// FindComment resolves a comment only inside its own thread
func (r *threadRepositoryImpl) FindComment(ctx context.Context, threadID, commentID uuid.UUID) (*domain.Comment, error) {
	var comment domain.Comment
	err := r.db.WithContext(ctx).
		Where("id = ? AND thread_id = ?", commentID, threadID).
		First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// UpdateCommentText changes the text only when the comment belongs to the thread and the author
func (r *threadRepositoryImpl) UpdateCommentText(ctx context.Context, threadID, commentID, authorID uuid.UUID, text string) error {
	result := r.db.WithContext(ctx).Model(&domain.Comment{}).
		Where("id = ? AND thread_id = ? AND author_id = ?", commentID, threadID, authorID).
		Update("text", text)
	return notFoundIfNoRows(result)
}

// DeleteComment removes an authored comment with its replies and their likes.
// Likes go first since the replies foreign key cascades on comment delete.
func (r *threadRepositoryImpl) DeleteComment(ctx context.Context, threadID, commentID, authorID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owned int64
		if err := tx.Model(&domain.Comment{}).
			Where("id = ? AND thread_id = ? AND author_id = ?", commentID, threadID, authorID).
			Count(&owned).Error; err != nil {
			return err
		}
		if owned == 0 {
			return gorm.ErrRecordNotFound
		}

		var replyIDs []uuid.UUID
		if err := tx.Model(&domain.Reply{}).Where("comment_id = ?", commentID).Pluck("id", &replyIDs).Error; err != nil {
			return err
		}
		if err := deleteLikes(tx, domain.LikeTargetReply, replyIDs); err != nil {
			return err
		}
		if err := deleteLikes(tx, domain.LikeTargetComment, []uuid.UUID{commentID}); err != nil {
			return err
		}
		if err := tx.Where("comment_id = ?", commentID).Delete(&domain.Reply{}).Error; err != nil {
			return err
		}
		return notFoundIfNoRows(tx.Where("id = ? AND thread_id = ? AND author_id = ?", commentID, threadID, authorID).
			Delete(&domain.Comment{}))
	})
}

func (r *threadRepositoryImpl) CreateReply(ctx context.Context, reply *domain.Reply) error {
	return r.db.WithContext(ctx).Create(reply).Error
}

// FindReply resolves a reply only under its own comment and thread
func (r *threadRepositoryImpl) FindReply(ctx context.Context, threadID, commentID, replyID uuid.UUID) (*domain.Reply, error) {
	var reply domain.Reply
	err := r.db.WithContext(ctx).
		Where("id = ? AND comment_id = ? AND thread_id = ?", replyID, commentID, threadID).
		First(&reply).Error
	if err != nil {
		return nil, err
	}
	return &reply, nil
}

func (r *threadRepositoryImpl) UpdateReplyText(ctx context.Context, threadID, commentID, replyID, authorID uuid.UUID, text string) error {
	result := r.db.WithContext(ctx).Model(&domain.Reply{}).
		Where("id = ? AND comment_id = ? AND thread_id = ? AND author_id = ?", replyID, commentID, threadID, authorID).
		Update("text", text)
	return notFoundIfNoRows(result)
}

func (r *threadRepositoryImpl) DeleteReply(ctx context.Context, threadID, commentID, replyID, authorID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND comment_id = ? AND thread_id = ? AND author_id = ?", replyID, commentID, threadID, authorID).
			Delete(&domain.Reply{})
		if err := notFoundIfNoRows(result); err != nil {
			return err
		}
		return deleteLikes(tx, domain.LikeTargetReply, []uuid.UUID{replyID})
	})
}

// CommentCountsByAuthor counts the comments of a thread per author
func (r *threadRepositoryImpl) CommentCountsByAuthor(ctx context.Context, threadID uuid.UUID) (map[uuid.UUID]int64, error) {
	return countByAuthor(r.db.WithContext(ctx).Model(&domain.Comment{}).Where("thread_id = ?", threadID))
}

// ReplyCountsByAuthor counts replies per author in a thread, or in one comment when commentID is set
func (r *threadRepositoryImpl) ReplyCountsByAuthor(ctx context.Context, threadID uuid.UUID, commentID *uuid.UUID) (map[uuid.UUID]int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Reply{}).Where("thread_id = ?", threadID)
	if commentID != nil {
		query = query.Where("comment_id = ?", *commentID)
	}
	return countByAuthor(query)
}

type authorCount struct {
	AuthorID uuid.UUID
	Total    int64
}

func countByAuthor(query *gorm.DB) (map[uuid.UUID]int64, error) {
	var rows []authorCount
	if err := query.Select("author_id, COUNT(*) AS total").Group("author_id").Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[uuid.UUID]int64, len(rows))
	for _, row := range rows {
		counts[row.AuthorID] = row.Total
	}
	return counts, nil
}

func deleteLikes(tx *gorm.DB, target domain.LikeTarget, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return tx.Where("target_type = ? AND target_id IN ?", target, ids).Delete(&domain.Like{}).Error
}
