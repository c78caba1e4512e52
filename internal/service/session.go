package service

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/chrisdetmering/Product-Page/internal/domain"
	"github.com/chrisdetmering/Product-Page/internal/event"
	"github.com/chrisdetmering/Product-Page/internal/eventbus"
	"github.com/chrisdetmering/Product-Page/internal/repository"
	apperrors "github.com/chrisdetmering/Product-Page/pkg/errors"
	"github.com/chrisdetmering/Product-Page/pkg/logger"
	"github.com/chrisdetmering/Product-Page/pkg/tracing"
)

const lockStripes = 64

// Options configures a SessionService.
type Options struct {
	Premium    bool
	SessionTTL time.Duration
}

// SessionService runs storefront actions against stored sessions. Actions on
// one session run one at a time; different sessions run concurrently.
type SessionService struct {
	catalog  domain.ProductInfo
	repo     repository.SessionRepository
	producer *event.Producer
	logger   *slog.Logger
	tracer   trace.Tracer
	premium  bool
	ttl      time.Duration
	locks    [lockStripes]sync.Mutex
	now      func() time.Time
}

// NewSessionService creates a new session service.
func NewSessionService(
	catalog domain.ProductInfo,
	repo repository.SessionRepository,
	producer *event.Producer,
	logger *slog.Logger,
	opts Options,
) *SessionService {
	if producer == nil {
		producer = event.NewProducer(nil, logger)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{
		catalog:  catalog,
		repo:     repo,
		producer: producer,
		logger:   logger,
		tracer:   tracing.Tracer("storefront"),
		premium:  opts.Premium,
		ttl:      opts.SessionTTL,
		now:      time.Now,
	}
}

// NewSessionID returns a fresh session ID.
func NewSessionID() string {
	return uuid.NewString()
}

// ValidSessionID reports whether id has the shape of an issued session ID.
func ValidSessionID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// View returns the page for a session, starting one if needed.
func (s *SessionService) View(ctx context.Context, sessionID string) (*View, error) {
	return s.apply(ctx, sessionID, "view", func(context.Context, *Storefront) error {
		return nil
	})
}

// SelectVariant selects the variant at index.
func (s *SessionService) SelectVariant(ctx context.Context, sessionID string, index int) (*View, error) {
	return s.apply(ctx, sessionID, "select_variant", func(_ context.Context, sf *Storefront) error {
		if err := sf.Product().SelectVariant(index); err != nil {
			return &apperrors.AppError{
				Code:    "INVALID_VARIANT",
				Message: fmt.Sprintf("variant index %d does not exist", index),
				Status:  http.StatusBadRequest,
				Err:     err,
			}
		}
		return nil
	})
}

// AddToCart adds the selected variant to the cart.
func (s *SessionService) AddToCart(ctx context.Context, sessionID string) (*View, error) {
	return s.apply(ctx, sessionID, "add_to_cart", func(ctx context.Context, sf *Storefront) error {
		if err := sf.AddToCart(); err != nil {
			cartActions.WithLabelValues("add", "refused").Inc()
			return &apperrors.AppError{
				Code:    "PURCHASE_DISABLED",
				Message: "the selected variant cannot be added to the cart",
				Status:  http.StatusConflict,
				Err:     err,
			}
		}
		cartActions.WithLabelValues("add", "ok").Inc()
		return nil
	})
}

// RemoveFromCart removes one entry of the selected variant from the cart.
func (s *SessionService) RemoveFromCart(ctx context.Context, sessionID string) (*View, error) {
	return s.apply(ctx, sessionID, "remove_from_cart", func(_ context.Context, sf *Storefront) error {
		sf.Product().RemoveFromCart()
		cartActions.WithLabelValues("remove", "ok").Inc()
		return nil
	})
}

// SelectTab makes tab the active tab.
func (s *SessionService) SelectTab(ctx context.Context, sessionID string, tab domain.Tab) (*View, error) {
	return s.apply(ctx, sessionID, "select_tab", func(_ context.Context, sf *Storefront) error {
		sf.Tabs().Select(tab)
		return nil
	})
}

// SubmitReview fills the review form with in and submits it. A rejected
// submission is not an error: the returned view carries the form errors.
func (s *SessionService) SubmitReview(ctx context.Context, sessionID string, in domain.ReviewInput) (*View, error) {
	return s.apply(ctx, sessionID, "submit_review", func(ctx context.Context, sf *Storefront) error {
		sf.Form().Fill(in)
		if _, ok := sf.Form().Submit(ctx); !ok {
			reviewSubmissions.WithLabelValues("rejected").Inc()
			return nil
		}
		reviewSubmissions.WithLabelValues("accepted").Inc()
		return nil
	})
}

// Reset discards a session. The next action starts a fresh one.
func (s *SessionService) Reset(ctx context.Context, sessionID string) error {
	if !ValidSessionID(sessionID) {
		return nil
	}

	mu := s.lockFor(sessionID)
	mu.Lock()
	defer mu.Unlock()

	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// apply loads the session, runs fn on its storefront and saves the result.
// A failed action leaves the stored session untouched. Domain events raised
// during the action are mirrored only after the save succeeds.
func (s *SessionService) apply(ctx context.Context, sessionID, action string, fn func(context.Context, *Storefront) error) (*View, error) {
	if !ValidSessionID(sessionID) {
		sessionID = NewSessionID()
	}

	ctx, span := s.tracer.Start(ctx, "storefront."+action,
		trace.WithAttributes(attribute.String("session.id", sessionID)),
	)
	defer span.End()

	mu := s.lockFor(sessionID)
	mu.Lock()
	defer mu.Unlock()

	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, s.fail(span, err)
	}

	sf, err := NewStorefront(s.catalog, session, s.premium)
	if errors.Is(err, domain.ErrInvalidVariantIndex) {
		logger.WithContext(ctx, s.logger).WarnContext(ctx, "stored session does not fit the catalog, starting over",
			slog.String("session_id", sessionID),
			slog.Int("selected", session.Selected),
		)
		sessionsCreated.Inc()
		session = domain.NewSession(sessionID, s.now(), s.ttl)
		sf, err = NewStorefront(s.catalog, session, s.premium)
	}
	if err != nil {
		return nil, s.fail(span, apperrors.Internal(err))
	}

	var submitted []domain.Review
	eventbus.Subscribe(sf.Bus(), domain.TopicReviewSubmitted, func(_ context.Context, r domain.Review) {
		submitted = append(submitted, r)
	})
	cartBefore := sf.Cart().Len()

	if err := fn(ctx, sf); err != nil {
		return nil, s.fail(span, err)
	}

	sf.Snapshot(session)
	session.Touch(s.now(), s.ttl)
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, s.fail(span, fmt.Errorf("save session: %w", err))
	}

	s.mirror(ctx, sf, sessionID, action, cartBefore, submitted)

	return newView(sessionID, sf), nil
}

// load returns the stored session, or a new one when it is missing or expired.
func (s *SessionService) load(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := s.repo.Get(ctx, sessionID)
	switch {
	case err == nil && !session.Expired(s.now()):
		return session, nil
	case err == nil, errors.Is(err, apperrors.ErrNotFound):
		sessionsCreated.Inc()
		logger.WithContext(ctx, s.logger).InfoContext(ctx, "session started",
			slog.String("session_id", sessionID),
		)
		return domain.NewSession(sessionID, s.now(), s.ttl), nil
	default:
		return nil, fmt.Errorf("load session: %w", err)
	}
}

func (s *SessionService) mirror(ctx context.Context, sf *Storefront, sessionID, action string, cartBefore int, submitted []domain.Review) {
	log := logger.WithContext(ctx, s.logger)

	for _, r := range submitted {
		if err := s.producer.PublishReviewSubmitted(ctx, sessionID, sf.Product().Title(), r); err != nil {
			log.WarnContext(ctx, "failed to mirror review event", slog.String("error", err.Error()))
		}
	}

	if sf.Cart().Len() == cartBefore {
		return
	}
	cartAction := "add"
	if action == "remove_from_cart" {
		cartAction = "remove"
	}
	variantID := sf.Product().Variant().ID
	if err := s.producer.PublishCartUpdated(ctx, sessionID, cartAction, variantID, sf.Cart().Entries()); err != nil {
		log.WarnContext(ctx, "failed to mirror cart event", slog.String("error", err.Error()))
	}
}

func (s *SessionService) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func (s *SessionService) lockFor(sessionID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(sessionID))
	return &s.locks[h.Sum32()%lockStripes]
}
