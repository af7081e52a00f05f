package services

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/Rakhulsr/go-storefront/app/helpers"
	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/Rakhulsr/go-storefront/app/repositories"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type ReviewInput struct {
	Username string `json:"username" validate:"required"`
	Title    string `json:"title" validate:"required"`
	Comment  string `json:"comment" validate:"required"`
	Stars    int    `json:"stars" validate:"min=1,max=5"`
}

func (in ReviewInput) trimmed() ReviewInput {
	in.Username = strings.TrimSpace(in.Username)
	in.Title = strings.TrimSpace(in.Title)
	in.Comment = strings.TrimSpace(in.Comment)
	return in
}

type ReviewService struct {
	store    *repositories.Store
	validate *validator.Validate
	log      *zap.Logger
}

func NewReviewService(store *repositories.Store, validate *validator.Validate, log *zap.Logger) *ReviewService {
	if validate == nil {
		validate = helpers.NewValidator()
	}
	return &ReviewService{store: store, validate: validate, log: log}
}

// SubmitReview appends a review. Reviews are inserted as new rows, so
// concurrent submissions never overwrite each other.
func (s *ReviewService) SubmitReview(ctx context.Context, productID uint, input ReviewInput) (*models.Review, error) {
	id := strconv.FormatUint(uint64(productID), 10)
	input = input.trimmed()

	if err := s.validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			field, msg := helpers.FirstField(helpers.FormatValidationErrors(verrs))
			e := newError(ErrInvalidReview, field, id, err)
			e.Message = msg
			return nil, e
		}
		return nil, newError(ErrInvalidReview, "", id, err)
	}

	ok, err := s.store.Products.Exists(ctx, productID)
	if err != nil {
		return nil, upstream("failed to look up product", err)
	}
	if !ok {
		return nil, newError(ErrProductNotFound, "product_id", id, nil)
	}

	review := &models.Review{
		ProductID: productID,
		Username:  input.Username,
		Title:     input.Title,
		Comment:   input.Comment,
		Stars:     input.Stars,
	}
	if err := s.store.Reviews.Add(ctx, review); err != nil {
		return nil, upstream("failed to save review", err)
	}

	s.log.Info("review submitted", zap.Uint("product_id", productID), zap.Int("stars", review.Stars))
	return review, nil
}
