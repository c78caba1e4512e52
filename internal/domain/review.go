package domain

import "github.com/chrisdetmering/Product-Page/internal/eventbus"

// TopicReviewSubmitted carries reviews that passed form validation.
var TopicReviewSubmitted = eventbus.NewTopic[Review]("review-submitted")

// Review is a submitted product review. A Review is only constructed by a
// successful ReviewForm submission and is never modified afterwards.
type Review struct {
	Name   string `json:"name"`
	Text   string `json:"review"`
	Rating int    `json:"rating"`
}
