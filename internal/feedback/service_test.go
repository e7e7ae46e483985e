// AngelaMos | 2026
// service_test.go

package feedback

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/reviewboard/internal/core"
	"github.com/carterperez-dev/reviewboard/internal/middleware"
)

type fakeFeedbackRepo struct {
	titles   map[string]bool
	reviews  map[string]*Review
	comments map[string]*Comment
}

func newFakeFeedbackRepo(titleIDs ...string) *fakeFeedbackRepo {
	r := &fakeFeedbackRepo{
		titles:   map[string]bool{},
		reviews:  map[string]*Review{},
		comments: map[string]*Comment{},
	}
	for _, id := range titleIDs {
		r.titles[id] = true
	}
	return r
}

func (r *fakeFeedbackRepo) TitleExists(
	_ context.Context,
	titleID string,
) (bool, error) {
	return r.titles[titleID], nil
}

func (r *fakeFeedbackRepo) CreateReview(
	_ context.Context,
	review *Review,
) error {
	for _, existing := range r.reviews {
		if existing.TitleID == review.TitleID &&
			existing.AuthorID == review.AuthorID {
			return fmt.Errorf("create review: %w", core.ErrDuplicateKey)
		}
	}
	review.PubDate = time.Now()
	review.UpdatedAt = review.PubDate
	copied := *review
	r.reviews[review.ID] = &copied
	return nil
}

func (r *fakeFeedbackRepo) GetReview(
	_ context.Context,
	titleID, reviewID string,
) (*Review, error) {
	if rev, ok := r.reviews[reviewID]; ok && rev.TitleID == titleID {
		copied := *rev
		return &copied, nil
	}
	return nil, fmt.Errorf("get review: %w", core.ErrNotFound)
}

func (r *fakeFeedbackRepo) UpdateReview(
	_ context.Context,
	review *Review,
) error {
	if _, ok := r.reviews[review.ID]; !ok {
		return fmt.Errorf("update review: %w", core.ErrNotFound)
	}
	review.UpdatedAt = time.Now()
	copied := *review
	r.reviews[review.ID] = &copied
	return nil
}

func (r *fakeFeedbackRepo) DeleteReview(
	_ context.Context,
	titleID, reviewID string,
) error {
	if rev, ok := r.reviews[reviewID]; !ok || rev.TitleID != titleID {
		return fmt.Errorf("delete review: %w", core.ErrNotFound)
	}
	delete(r.reviews, reviewID)
	return nil
}

func (r *fakeFeedbackRepo) ListReviews(
	_ context.Context,
	titleID string,
	_ ListParams,
) ([]Review, int, error) {
	var out []Review
	for _, rev := range r.reviews {
		if rev.TitleID == titleID {
			out = append(out, *rev)
		}
	}
	return out, len(out), nil
}

func (r *fakeFeedbackRepo) CreateComment(
	_ context.Context,
	comment *Comment,
) error {
	comment.PubDate = time.Now()
	comment.UpdatedAt = comment.PubDate
	copied := *comment
	r.comments[comment.ID] = &copied
	return nil
}

func (r *fakeFeedbackRepo) GetComment(
	_ context.Context,
	reviewID, commentID string,
) (*Comment, error) {
	if c, ok := r.comments[commentID]; ok && c.ReviewID == reviewID {
		copied := *c
		return &copied, nil
	}
	return nil, fmt.Errorf("get comment: %w", core.ErrNotFound)
}

func (r *fakeFeedbackRepo) UpdateComment(
	_ context.Context,
	comment *Comment,
) error {
	if _, ok := r.comments[comment.ID]; !ok {
		return fmt.Errorf("update comment: %w", core.ErrNotFound)
	}
	comment.UpdatedAt = time.Now()
	copied := *comment
	r.comments[comment.ID] = &copied
	return nil
}

func (r *fakeFeedbackRepo) DeleteComment(
	_ context.Context,
	reviewID, commentID string,
) error {
	if c, ok := r.comments[commentID]; !ok || c.ReviewID != reviewID {
		return fmt.Errorf("delete comment: %w", core.ErrNotFound)
	}
	delete(r.comments, commentID)
	return nil
}

func (r *fakeFeedbackRepo) ListComments(
	_ context.Context,
	reviewID string,
	_ ListParams,
) ([]Comment, int, error) {
	var out []Comment
	for _, c := range r.comments {
		if c.ReviewID == reviewID {
			out = append(out, *c)
		}
	}
	return out, len(out), nil
}

var (
	author = Actor{
		UserID:   "u1",
		Username: "alice",
	}
	moderator = Actor{
		UserID:       "u2",
		Username:     "mod",
		Capabilities: middleware.Capabilities{Moderate: true},
	}
	stranger = Actor{
		UserID:   "u3",
		Username: "bob",
	}
)

func TestCreateReview(t *testing.T) {
	repo := newFakeFeedbackRepo("t1")
	svc := NewService(repo)

	review, err := svc.CreateReview(context.Background(), "t1", author,
		CreateReviewRequest{Text: "great", Score: 9})
	require.NoError(t, err)

	assert.Equal(t, "u1", review.AuthorID)
	assert.Equal(t, "alice", review.AuthorUsername)
	assert.Equal(t, 9, review.Score)
	assert.False(t, review.PubDate.IsZero())
}

func TestCreateReview_UnknownTitle(t *testing.T) {
	svc := NewService(newFakeFeedbackRepo())

	_, err := svc.CreateReview(context.Background(), "missing", author,
		CreateReviewRequest{Text: "great", Score: 9})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestCreateReview_SecondReviewConflicts(t *testing.T) {
	repo := newFakeFeedbackRepo("t1")
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.CreateReview(ctx, "t1", author,
		CreateReviewRequest{Text: "first", Score: 8})
	require.NoError(t, err)

	_, err = svc.CreateReview(ctx, "t1", author,
		CreateReviewRequest{Text: "second", Score: 3})
	require.Error(t, err)

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "conflict", appErr.Code)
}

func TestUpdateReview_AuthorAndModeratorAllowed(t *testing.T) {
	repo := newFakeFeedbackRepo("t1")
	svc := NewService(repo)
	ctx := context.Background()

	review, err := svc.CreateReview(ctx, "t1", author,
		CreateReviewRequest{Text: "ok", Score: 5})
	require.NoError(t, err)

	newText := "actually quite good"
	updated, err := svc.UpdateReview(ctx, "t1", review.ID, author,
		UpdateReviewRequest{Text: &newText})
	require.NoError(t, err)
	assert.Equal(t, newText, updated.Text)

	modScore := 7
	updated, err = svc.UpdateReview(ctx, "t1", review.ID, moderator,
		UpdateReviewRequest{Score: &modScore})
	require.NoError(t, err)
	assert.Equal(t, 7, updated.Score)
}

func TestUpdateReview_StrangerForbidden(t *testing.T) {
	repo := newFakeFeedbackRepo("t1")
	svc := NewService(repo)
	ctx := context.Background()

	review, err := svc.CreateReview(ctx, "t1", author,
		CreateReviewRequest{Text: "mine", Score: 5})
	require.NoError(t, err)

	text := "hijack"
	_, err = svc.UpdateReview(ctx, "t1", review.ID, stranger,
		UpdateReviewRequest{Text: &text})
	require.Error(t, err)

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "forbidden", appErr.Code)
}

func TestDeleteReview_Permissions(t *testing.T) {
	repo := newFakeFeedbackRepo("t1")
	svc := NewService(repo)
	ctx := context.Background()

	review, err := svc.CreateReview(ctx, "t1", author,
		CreateReviewRequest{Text: "mine", Score: 5})
	require.NoError(t, err)

	err = svc.DeleteReview(ctx, "t1", review.ID, stranger)
	require.Error(t, err)
	assert.True(t, core.IsAppError(err))

	err = svc.DeleteReview(ctx, "t1", review.ID, moderator)
	assert.NoError(t, err)
}

func TestComments_NestedUnderReview(t *testing.T) {
	repo := newFakeFeedbackRepo("t1")
	svc := NewService(repo)
	ctx := context.Background()

	review, err := svc.CreateReview(ctx, "t1", author,
		CreateReviewRequest{Text: "mine", Score: 5})
	require.NoError(t, err)

	comment, err := svc.CreateComment(ctx, "t1", review.ID, stranger,
		CreateCommentRequest{Text: "disagree"})
	require.NoError(t, err)
	assert.Equal(t, review.ID, comment.ReviewID)
	assert.Equal(t, "bob", comment.AuthorUsername)

	// Wrong title in the path means the review lookup fails.
	_, err = svc.CreateComment(ctx, "t2", review.ID, stranger,
		CreateCommentRequest{Text: "lost"})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestUpdateComment_Permissions(t *testing.T) {
	repo := newFakeFeedbackRepo("t1")
	svc := NewService(repo)
	ctx := context.Background()

	review, err := svc.CreateReview(ctx, "t1", author,
		CreateReviewRequest{Text: "mine", Score: 5})
	require.NoError(t, err)

	comment, err := svc.CreateComment(ctx, "t1", review.ID, stranger,
		CreateCommentRequest{Text: "original"})
	require.NoError(t, err)

	// The review author does not own the comment and cannot edit it.
	_, err = svc.UpdateComment(ctx, "t1", review.ID, comment.ID, author,
		UpdateCommentRequest{Text: "rewrite"})
	require.Error(t, err)
	assert.True(t, core.IsAppError(err))

	updated, err := svc.UpdateComment(ctx, "t1", review.ID, comment.ID,
		stranger, UpdateCommentRequest{Text: "edited"})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Text)

	_, err = svc.UpdateComment(ctx, "t1", review.ID, comment.ID,
		moderator, UpdateCommentRequest{Text: "moderated"})
	assert.NoError(t, err)
}

func TestDeleteComment(t *testing.T) {
	repo := newFakeFeedbackRepo("t1")
	svc := NewService(repo)
	ctx := context.Background()

	review, err := svc.CreateReview(ctx, "t1", author,
		CreateReviewRequest{Text: "mine", Score: 5})
	require.NoError(t, err)

	comment, err := svc.CreateComment(ctx, "t1", review.ID, stranger,
		CreateCommentRequest{Text: "bye"})
	require.NoError(t, err)

	err = svc.DeleteComment(ctx, "t1", review.ID, comment.ID, author)
	require.Error(t, err, "review author cannot delete another's comment")

	err = svc.DeleteComment(ctx, "t1", review.ID, comment.ID, stranger)
	require.NoError(t, err)

	_, err = svc.GetComment(ctx, "t1", review.ID, comment.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
}
