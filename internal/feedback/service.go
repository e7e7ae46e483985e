// AngelaMos | 2026
// service.go

package feedback

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/carterperez-dev/reviewboard/internal/core"
	"github.com/carterperez-dev/reviewboard/internal/middleware"
)

// Actor identifies the authenticated caller for ownership checks.
type Actor struct {
	UserID       string
	Username     string
	Capabilities middleware.Capabilities
}

func (a Actor) canEdit(authorID string) bool {
	return a.UserID == authorID || a.Capabilities.Moderate
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateReview(
	ctx context.Context,
	titleID string,
	actor Actor,
	req CreateReviewRequest,
) (*Review, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}

	review := &Review{
		ID:             uuid.NewString(),
		TitleID:        titleID,
		AuthorID:       actor.UserID,
		AuthorUsername: actor.Username,
		Text:           req.Text,
		Score:          req.Score,
	}

	if err := s.repo.CreateReview(ctx, review); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, core.ConflictError(
				"you have already reviewed this title")
		}
		return nil, err
	}

	return review, nil
}

func (s *Service) GetReview(
	ctx context.Context,
	titleID, reviewID string,
) (*Review, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}
	return s.repo.GetReview(ctx, titleID, reviewID)
}

func (s *Service) UpdateReview(
	ctx context.Context,
	titleID, reviewID string,
	actor Actor,
	req UpdateReviewRequest,
) (*Review, error) {
	review, err := s.GetReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if !actor.canEdit(review.AuthorID) {
		return nil, core.ForbiddenError(
			"only the author or a moderator can edit this review")
	}

	if req.Text != nil {
		review.Text = *req.Text
	}
	if req.Score != nil {
		review.Score = *req.Score
	}

	if err := s.repo.UpdateReview(ctx, review); err != nil {
		return nil, err
	}

	return review, nil
}

func (s *Service) DeleteReview(
	ctx context.Context,
	titleID, reviewID string,
	actor Actor,
) error {
	review, err := s.GetReview(ctx, titleID, reviewID)
	if err != nil {
		return err
	}

	if !actor.canEdit(review.AuthorID) {
		return core.ForbiddenError(
			"only the author or a moderator can delete this review")
	}

	return s.repo.DeleteReview(ctx, titleID, reviewID)
}

func (s *Service) ListReviews(
	ctx context.Context,
	titleID string,
	params ListParams,
) ([]Review, int, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, 0, err
	}
	return s.repo.ListReviews(ctx, titleID, params)
}

func (s *Service) CreateComment(
	ctx context.Context,
	titleID, reviewID string,
	actor Actor,
	req CreateCommentRequest,
) (*Comment, error) {
	if _, err := s.GetReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comment := &Comment{
		ID:             uuid.NewString(),
		ReviewID:       reviewID,
		AuthorID:       actor.UserID,
		AuthorUsername: actor.Username,
		Text:           req.Text,
	}

	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

func (s *Service) GetComment(
	ctx context.Context,
	titleID, reviewID, commentID string,
) (*Comment, error) {
	if _, err := s.GetReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	return s.repo.GetComment(ctx, reviewID, commentID)
}

func (s *Service) UpdateComment(
	ctx context.Context,
	titleID, reviewID, commentID string,
	actor Actor,
	req UpdateCommentRequest,
) (*Comment, error) {
	comment, err := s.GetComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	if !actor.canEdit(comment.AuthorID) {
		return nil, core.ForbiddenError(
			"only the author or a moderator can edit this comment")
	}

	comment.Text = req.Text

	if err := s.repo.UpdateComment(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

func (s *Service) DeleteComment(
	ctx context.Context,
	titleID, reviewID, commentID string,
	actor Actor,
) error {
	comment, err := s.GetComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return err
	}

	if !actor.canEdit(comment.AuthorID) {
		return core.ForbiddenError(
			"only the author or a moderator can delete this comment")
	}

	return s.repo.DeleteComment(ctx, reviewID, commentID)
}

func (s *Service) ListComments(
	ctx context.Context,
	titleID, reviewID string,
	params ListParams,
) ([]Comment, int, error) {
	if _, err := s.GetReview(ctx, titleID, reviewID); err != nil {
		return nil, 0, err
	}
	return s.repo.ListComments(ctx, reviewID, params)
}

func (s *Service) requireTitle(ctx context.Context, titleID string) error {
	exists, err := s.repo.TitleExists(ctx, titleID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("title %s: %w", titleID, core.ErrNotFound)
	}
	return nil
}
