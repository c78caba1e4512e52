package domain

import (
	"context"
	"errors"

	"github.com/chrisdetmering/Product-Page/internal/eventbus"
	"github.com/chrisdetmering/Product-Page/pkg/validator"
)

// Validation messages, reported in this order.
const (
	MsgNameRequired   = "Name required"
	MsgReviewRequired = "Review required"
	MsgRatingRequired = "Rating required"
)

// ReviewInput is the raw review form input. A zero Rating means no rating
// was selected.
type ReviewInput struct {
	Name   string `json:"name" validate:"required"`
	Review string `json:"review" validate:"required"`
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
}

// ReviewFormState is the serializable state of a ReviewForm.
type ReviewFormState struct {
	Name   string   `json:"name"`
	Review string   `json:"review"`
	Rating int      `json:"rating"`
	Errors []string `json:"errors"`
}

// ReviewForm holds the transient review input and publishes a Review on
// TopicReviewSubmitted when a submission is valid. It never references the
// product that displays reviews.
type ReviewForm struct {
	bus   *eventbus.Bus
	input ReviewInput
	errs  []string
}

// NewReviewForm restores a form from state.
func NewReviewForm(bus *eventbus.Bus, state ReviewFormState) *ReviewForm {
	f := &ReviewForm{
		bus: bus,
		input: ReviewInput{
			Name:   state.Name,
			Review: state.Review,
			Rating: state.Rating,
		},
	}
	f.errs = append(f.errs, state.Errors...)
	return f
}

// Fill replaces the form input.
func (f *ReviewForm) Fill(in ReviewInput) {
	f.input = in
}

// Submit validates the current input. On success the review is published,
// the fields and errors are cleared, and true is returned. Otherwise the
// error list is rebuilt and the input is left as entered.
func (f *ReviewForm) Submit(ctx context.Context) (Review, bool) {
	f.errs = f.validate()
	if len(f.errs) > 0 {
		return Review{}, false
	}

	review := Review{
		Name:   f.input.Name,
		Text:   f.input.Review,
		Rating: f.input.Rating,
	}
	eventbus.Publish(ctx, f.bus, TopicReviewSubmitted, review)

	f.input = ReviewInput{}
	f.errs = nil
	return review, true
}

func (f *ReviewForm) validate() []string {
	var verr *validator.ValidationError
	if !errors.As(validator.Validate(f.input), &verr) {
		return nil
	}

	var errs []string
	if verr.Has("name") {
		errs = append(errs, MsgNameRequired)
	}
	if verr.Has("review") {
		errs = append(errs, MsgReviewRequired)
	}
	if verr.Has("rating") {
		errs = append(errs, MsgRatingRequired)
	}
	return errs
}

// Input returns the current input.
func (f *ReviewForm) Input() ReviewInput {
	return f.input
}

// Errors returns a copy of the messages from the last failed submission.
func (f *ReviewForm) Errors() []string {
	if len(f.errs) == 0 {
		return nil
	}
	out := make([]string, len(f.errs))
	copy(out, f.errs)
	return out
}

// State returns the serializable form state.
func (f *ReviewForm) State() ReviewFormState {
	return ReviewFormState{
		Name:   f.input.Name,
		Review: f.input.Review,
		Rating: f.input.Rating,
		Errors: f.Errors(),
	}
}
