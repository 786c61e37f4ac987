package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vuongngo/reactive-forum-api/internal/policy"
	"github.com/vuongngo/reactive-forum-api/internal/repository"
	"github.com/vuongngo/reactive-forum-api/internal/response"
)

// ResourceResolver looks up the authors of path resources
type ResourceResolver interface {
	ThreadAuthor(ctx context.Context, threadID uuid.UUID) (uuid.UUID, error)
	CommentAuthor(ctx context.Context, threadID, commentID uuid.UUID) (uuid.UUID, error)
	ReplyAuthor(ctx context.Context, threadID, commentID, replyID uuid.UUID) (uuid.UUID, error)
}

type repositoryResolver struct {
	threads repository.ThreadRepository
}

// NewRepositoryResolver resolves authors through the thread repository
func NewRepositoryResolver(threads repository.ThreadRepository) ResourceResolver {
	return &repositoryResolver{threads: threads}
}

func (r *repositoryResolver) ThreadAuthor(ctx context.Context, threadID uuid.UUID) (uuid.UUID, error) {
	thread, err := r.threads.FindHeader(ctx, threadID)
	if err != nil {
		return uuid.Nil, err
	}
	return thread.AuthorID, nil
}

func (r *repositoryResolver) CommentAuthor(ctx context.Context, threadID, commentID uuid.UUID) (uuid.UUID, error) {
	comment, err := r.threads.FindComment(ctx, threadID, commentID)
	if err != nil {
		return uuid.Nil, err
	}
	return comment.AuthorID, nil
}

func (r *repositoryResolver) ReplyAuthor(ctx context.Context, threadID, commentID, replyID uuid.UUID) (uuid.UUID, error) {
	reply, err := r.threads.FindReply(ctx, threadID, commentID, replyID)
	if err != nil {
		return uuid.Nil, err
	}
	return reply.AuthorID, nil
}

// Authorizer builds per-route authorization middleware
type Authorizer struct {
	resolver ResourceResolver
	logger   *zap.Logger
}

// NewAuthorizer creates an Authorizer
func NewAuthorizer(resolver ResourceResolver, logger *zap.Logger) *Authorizer {
	return &Authorizer{resolver: resolver, logger: logger}
}

// Require resolves the :threadId, :commentId and :replyId path resources and
// lets the request through when the caller satisfies any of roles.
// Unknown role names panic at route setup.
func (a *Authorizer) Require(roles ...string) gin.HandlerFunc {
	required := policy.MustParseRoles(roles...)

	return func(c *gin.Context) {
		pctx, ok := a.resolve(c)
		if !ok {
			return
		}

		if policy.Authorize(required, *pctx) == policy.Deny {
			a.logger.Debug("Request denied",
				zap.String("path", c.FullPath()),
				zap.String("user_id", pctx.Caller.ID.String()),
				zap.Strings("roles", roles))
			response.AbortWithError(c, http.StatusForbidden, response.ErrCodeUnauthorized, "You are not allowed to perform this action")
			return
		}
		c.Next()
	}
}

// resolve writes the error response itself and reports false on failure
func (a *Authorizer) resolve(c *gin.Context) (*policy.Context, bool) {
	pctx := &policy.Context{Caller: callerFrom(c)}

	ids := make(map[string]uuid.UUID, 4)
	for _, name := range []string{"userId", "threadId", "commentId", "replyId"} {
		raw := c.Param(name)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			response.AbortWithError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid "+name)
			return nil, false
		}
		ids[name] = id
	}

	if id, ok := ids["userId"]; ok {
		pctx.PathUserID = &id
	}

	ctx := c.Request.Context()
	threadID, hasThread := ids["threadId"]
	if !hasThread {
		return pctx, true
	}
	author, err := a.resolver.ThreadAuthor(ctx, threadID)
	if !a.check(c, err, "Thread not found") {
		return nil, false
	}
	pctx.ThreadAuthorID = &author

	commentID, hasComment := ids["commentId"]
	if !hasComment {
		return pctx, true
	}
	commentAuthor, err := a.resolver.CommentAuthor(ctx, threadID, commentID)
	if !a.check(c, err, "Comment not found") {
		return nil, false
	}
	pctx.CommentAuthorID = &commentAuthor

	replyID, hasReply := ids["replyId"]
	if !hasReply {
		return pctx, true
	}
	replyAuthor, err := a.resolver.ReplyAuthor(ctx, threadID, commentID, replyID)
	if !a.check(c, err, "Reply not found") {
		return nil, false
	}
	pctx.ReplyAuthorID = &replyAuthor

	return pctx, true
}

func (a *Authorizer) check(c *gin.Context, err error, notFoundMessage string) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.AbortWithError(c, http.StatusNotFound, response.ErrCodeNotFound, notFoundMessage)
	default:
		a.logger.Error("Failed to resolve resource", zap.String("path", c.FullPath()), zap.Error(err))
		response.AbortWithError(c, http.StatusInternalServerError, response.ErrCodeInternal, "Failed to resolve resource")
	}
	return false
}

func callerFrom(c *gin.Context) policy.Caller {
	var caller policy.Caller
	if id, ok := c.Get(ContextKeyUserID); ok {
		caller.ID, _ = id.(uuid.UUID)
	}
	if role, ok := c.Get(ContextKeyUserRole); ok {
		caller.Role, _ = role.(string)
	}
	return caller
}
