package service

import (
	"context"
	"testing"

	"queentouch/internal/models"
	"queentouch/internal/moderation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubCommentRepo is an in-memory CommentRepository for service tests.
type stubCommentRepo struct {
	comments map[uint]*models.Comment
	likes    map[string]map[uint]bool
	nextID   uint
	deleted  []uint
}

func newStubCommentRepo() *stubCommentRepo {
	return &stubCommentRepo{
		comments: map[uint]*models.Comment{},
		likes:    map[string]map[uint]bool{},
	}
}

func (r *stubCommentRepo) Create(_ context.Context, comment *models.Comment) error {
	r.nextID++
	comment.ID = r.nextID
	r.comments[comment.ID] = comment
	return nil
}

func (r *stubCommentRepo) GetByID(_ context.Context, id uint) (*models.Comment, error) {
	comment, ok := r.comments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return comment, nil
}

func (r *stubCommentRepo) ListByTarget(_ context.Context, targetID string) ([]*models.Comment, error) {
	var out []*models.Comment
	for id := r.nextID; id >= 1; id-- {
		if c, ok := r.comments[id]; ok && c.TargetID == targetID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *stubCommentRepo) ToggleLike(_ context.Context, authorID string, commentID uint) (bool, int, error) {
	if r.likes[authorID] == nil {
		r.likes[authorID] = map[uint]bool{}
	}
	comment := r.comments[commentID]
	if r.likes[authorID][commentID] {
		delete(r.likes[authorID], commentID)
		comment.LikeCount--
		return false, comment.LikeCount, nil
	}
	r.likes[authorID][commentID] = true
	comment.LikeCount++
	return true, comment.LikeCount, nil
}

func (r *stubCommentRepo) DeleteWithReplies(_ context.Context, id uint) error {
	r.deleted = append(r.deleted, id)
	delete(r.comments, id)
	for cid, c := range r.comments {
		if c.ParentID != nil && *c.ParentID == id {
			delete(r.comments, cid)
		}
	}
	return nil
}

// flakyGate fails with ErrUnavailable a fixed number of times before
// delegating to the verdict.
type flakyGate struct {
	failures int
	verdict  bool
	calls    int
}

func (g *flakyGate) Review(_ context.Context, _ string) (bool, error) {
	g.calls++
	if g.calls <= g.failures {
		return false, moderation.ErrUnavailable
	}
	return g.verdict, nil
}

func testActor() *models.Actor {
	return &models.Actor{UserID: 7, Email: "gold@queentouch.com", Name: "Clienta Gold", Tier: models.TierGold}
}

func TestPostComment_Success(t *testing.T) {
	t.Parallel()
	repo := newStubCommentRepo()
	svc := NewCommentService(repo, moderation.NewKeywordGate())

	comment, err := svc.PostComment(context.Background(), PostCommentInput{
		Actor:    testActor(),
		TargetID: "product-1",
		Content:  "  hola mundo  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "hola mundo", comment.Content)
	assert.Equal(t, "gold@queentouch.com", comment.AuthorID)
	assert.Equal(t, "Clienta Gold", comment.AuthorName)
	assert.NotZero(t, comment.ID)
}

func TestPostComment_ModerationRejected(t *testing.T) {
	t.Parallel()
	repo := newStubCommentRepo()
	svc := NewCommentService(repo, moderation.NewKeywordGate())

	_, err := svc.PostComment(context.Background(), PostCommentInput{
		Actor:    testActor(),
		TargetID: "product-1",
		Content:  "esto contiene mierda",
	})
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeModerationRejected, appErr.Code)
	assert.Empty(t, repo.comments)
}

func TestPostComment_ModerationRetriesThenSucceeds(t *testing.T) {
	t.Parallel()
	repo := newStubCommentRepo()
	gate := &flakyGate{failures: 2, verdict: true}
	svc := NewCommentService(repo, gate)

	_, err := svc.PostComment(context.Background(), PostCommentInput{
		Actor:    testActor(),
		TargetID: "product-1",
		Content:  "hola",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, gate.calls)
}

func TestPostComment_ModerationUnavailable(t *testing.T) {
	t.Parallel()
	repo := newStubCommentRepo()
	gate := &flakyGate{failures: 10}
	svc := NewCommentService(repo, gate)

	_, err := svc.PostComment(context.Background(), PostCommentInput{
		Actor:    testActor(),
		TargetID: "product-1",
		Content:  "hola",
	})
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeModerationUnavailable, appErr.Code)
	assert.Equal(t, 3, gate.calls)
	assert.Empty(t, repo.comments)
}

func TestPostComment_Validation(t *testing.T) {
	t.Parallel()
	svc := NewCommentService(newStubCommentRepo(), moderation.NewKeywordGate())
	ctx := context.Background()

	_, err := svc.PostComment(ctx, PostCommentInput{TargetID: "p", Content: "hola"})
	assert.Error(t, err) // no actor

	_, err = svc.PostComment(ctx, PostCommentInput{Actor: testActor(), TargetID: "p", Content: "   "})
	assert.Error(t, err) // blank content

	_, err = svc.PostComment(ctx, PostCommentInput{Actor: testActor(), Content: "hola"})
	assert.Error(t, err) // missing target
}

func TestPostComment_ParentChecks(t *testing.T) {
	t.Parallel()
	repo := newStubCommentRepo()
	svc := NewCommentService(repo, moderation.NewKeywordGate())
	ctx := context.Background()

	root, err := svc.PostComment(ctx, PostCommentInput{
		Actor: testActor(), TargetID: "product-1", Content: "primera",
	})
	require.NoError(t, err)

	// Reply in the same thread works.
	reply, err := svc.PostComment(ctx, PostCommentInput{
		Actor: testActor(), TargetID: "product-1", ParentID: &root.ID, Content: "respuesta",
	})
	require.NoError(t, err)
	assert.Equal(t, root.ID, *reply.ParentID)

	// Reply across threads is rejected.
	_, err = svc.PostComment(ctx, PostCommentInput{
		Actor: testActor(), TargetID: "product-2", ParentID: &root.ID, Content: "cruce",
	})
	assert.Error(t, err)

	// Reply to a missing parent is a not-found.
	missing := uint(999)
	_, err = svc.PostComment(ctx, PostCommentInput{
		Actor: testActor(), TargetID: "product-1", ParentID: &missing, Content: "huérfano",
	})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestToggleLike(t *testing.T) {
	t.Parallel()
	repo := newStubCommentRepo()
	svc := NewCommentService(repo, moderation.NewKeywordGate())
	ctx := context.Background()

	comment, err := svc.PostComment(ctx, PostCommentInput{
		Actor: testActor(), TargetID: "product-1", Content: "hola",
	})
	require.NoError(t, err)

	result, err := svc.ToggleLike(ctx, ToggleLikeInput{Actor: testActor(), CommentID: comment.ID})
	require.NoError(t, err)
	assert.True(t, result.Liked)
	assert.Equal(t, 1, result.LikeCount)

	result, err = svc.ToggleLike(ctx, ToggleLikeInput{Actor: testActor(), CommentID: comment.ID})
	require.NoError(t, err)
	assert.False(t, result.Liked)
	assert.Equal(t, 0, result.LikeCount)

	_, err = svc.ToggleLike(ctx, ToggleLikeInput{Actor: testActor(), CommentID: 999})
	assert.Error(t, err)

	_, err = svc.ToggleLike(ctx, ToggleLikeInput{CommentID: comment.ID})
	assert.Error(t, err) // anonymous
}

func TestDeleteComment_Authorization(t *testing.T) {
	t.Parallel()
	repo := newStubCommentRepo()
	svc := NewCommentService(repo, moderation.NewKeywordGate())
	ctx := context.Background()

	owner := testActor()
	comment, err := svc.PostComment(ctx, PostCommentInput{
		Actor: owner, TargetID: "product-1", Content: "mi comentario",
	})
	require.NoError(t, err)

	stranger := &models.Actor{UserID: 8, Email: "otra@queentouch.com", Name: "Otra"}
	err = svc.DeleteComment(ctx, DeleteCommentInput{Actor: stranger, CommentID: comment.ID})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeForbidden, appErr.Code)

	// Admins may delete anyone's comment.
	admin := &models.Actor{UserID: 1, Email: "admin@queentouch.com", Name: "Admin", IsAdmin: true}
	require.NoError(t, svc.DeleteComment(ctx, DeleteCommentInput{Actor: admin, CommentID: comment.ID}))
	assert.Equal(t, []uint{comment.ID}, repo.deleted)
}

func TestListThread(t *testing.T) {
	t.Parallel()
	repo := newStubCommentRepo()
	svc := NewCommentService(repo, moderation.NewKeywordGate())
	ctx := context.Background()

	root, err := svc.PostComment(ctx, PostCommentInput{
		Actor: testActor(), TargetID: "product-1", Content: "raíz",
	})
	require.NoError(t, err)
	_, err = svc.PostComment(ctx, PostCommentInput{
		Actor: testActor(), TargetID: "product-1", ParentID: &root.ID, Content: "respuesta",
	})
	require.NoError(t, err)
	_, err = svc.PostComment(ctx, PostCommentInput{
		Actor: testActor(), TargetID: "product-2", Content: "otro hilo",
	})
	require.NoError(t, err)

	thread, err := svc.ListThread(ctx, "product-1")
	require.NoError(t, err)
	require.Len(t, thread, 1)
	assert.Equal(t, root.ID, thread[0].ID)
	require.Len(t, thread[0].Replies, 1)

	flat, err := svc.ListComments(ctx, "product-1")
	require.NoError(t, err)
	assert.Len(t, flat, 2)
	assert.Equal(t, len(flat), CountCommentTree(thread))
}
