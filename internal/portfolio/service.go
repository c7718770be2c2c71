// Package portfolio orchestrates the position valuation pipeline: stored
// snapshots are read from the repository and overlaid with live quotes at
// request time. Nothing here writes valuation data back; the overlay is
// transient per request.
package portfolio

import (
	"context"
	"math"

	"github.com/portix/portfolio-service/internal/models"
	"github.com/portix/portfolio-service/internal/pricelabel"
	"github.com/sirupsen/logrus"
)

// Repository defines the position persistence operations the service needs.
type Repository interface {
	CreatePosition(input *models.CreatePositionInput) (*models.Position, error)
	GetAllPositions() ([]*models.Position, error)
	GetPositionBySlug(slug string) (*models.Position, error)
	UpdatePosition(slug string, input *models.UpdatePositionInput) (*models.Position, error)
	DeletePosition(slug string) error
}

// QuoteFetcher fetches live quotes for a batch of provider symbols.
type QuoteFetcher interface {
	FetchQuotes(ctx context.Context, symbols []string) ([]models.Quote, error)
}

// EventPublisher publishes position lifecycle events.
type EventPublisher interface {
	PublishPositionCreated(ctx context.Context, p *models.Position) error
	PublishPositionDeleted(ctx context.Context, slug string) error
}

// Service composes the repository, quote provider and event producer.
type Service struct {
	repo   Repository
	quotes QuoteFetcher
	events EventPublisher
	log    *logrus.Logger
}

// NewService creates the portfolio service. events may be nil when no broker
// is configured.
func NewService(repo Repository, quotes QuoteFetcher, events EventPublisher, log *logrus.Logger) *Service {
	return &Service{
		repo:   repo,
		quotes: quotes,
		events: events,
		log:    log,
	}
}

// ListPositions returns all positions with live quotes overlaid onto their
// stored snapshots. A provider failure is logged and swallowed: the stored
// snapshot view is served instead, so a quote outage degrades freshness but
// never availability. Overlaid values are not persisted; two successive
// calls under moving markets can show different numbers with no audit trail.
func (s *Service) ListPositions(ctx context.Context) ([]*models.Position, error) {
	positions, err := s.repo.GetAllPositions()
	if err != nil {
		return nil, err
	}

	symbols := quoteSymbols(positions)
	if len(symbols) == 0 {
		return positions, nil
	}

	quotes, err := s.quotes.FetchQuotes(ctx, symbols)
	if err != nil {
		s.log.WithError(err).Warn("quote fetch failed, serving stored snapshots")
		return positions, nil
	}

	bySymbol := make(map[string]models.Quote, len(quotes))
	for _, q := range quotes {
		bySymbol[q.Symbol] = q
	}

	for _, p := range positions {
		if q, ok := bySymbol[p.QuoteSymbol]; ok {
			overlayQuote(p, q)
		}
	}
	return positions, nil
}

// CreatePosition persists a new position with its initial snapshot and
// publishes a lifecycle event. Publish failures are logged, never surfaced.
func (s *Service) CreatePosition(ctx context.Context, input *models.CreatePositionInput) (*models.Position, error) {
	p, err := s.repo.CreatePosition(input)
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		if err := s.events.PublishPositionCreated(ctx, p); err != nil {
			s.log.WithError(err).WithField("slug", p.Slug).Warn("failed to publish position created event")
		}
	}
	return p, nil
}

// GetPosition returns one position with its latest stored snapshot.
func (s *Service) GetPosition(ctx context.Context, slug string) (*models.Position, error) {
	return s.repo.GetPositionBySlug(slug)
}

// UpdatePosition applies a metadata update.
func (s *Service) UpdatePosition(ctx context.Context, slug string, input *models.UpdatePositionInput) (*models.Position, error) {
	return s.repo.UpdatePosition(slug, input)
}

// DeletePosition removes a position (snapshots cascade) and publishes a
// lifecycle event.
func (s *Service) DeletePosition(ctx context.Context, slug string) error {
	if err := s.repo.DeletePosition(slug); err != nil {
		return err
	}

	if s.events != nil {
		if err := s.events.PublishPositionDeleted(ctx, slug); err != nil {
			s.log.WithError(err).WithField("slug", slug).Warn("failed to publish position deleted event")
		}
	}
	return nil
}

// quoteSymbols collects the distinct non-empty quote symbols across the
// positions, preserving first-seen order.
func quoteSymbols(positions []*models.Position) []string {
	seen := make(map[string]bool, len(positions))
	var symbols []string
	for _, p := range positions {
		if p.QuoteSymbol == "" || seen[p.QuoteSymbol] {
			continue
		}
		seen[p.QuoteSymbol] = true
		symbols = append(symbols, p.QuoteSymbol)
	}
	return symbols
}

// overlayQuote rewrites a position's current price and return from a live
// quote. Quotes without a finite price leave the position untouched. The
// stored return value is kept when the purchase price label does not parse
// to a usable number or the recomputed return is not finite.
func overlayQuote(p *models.Position, q models.Quote) {
	if q.Price == nil || math.IsNaN(*q.Price) || math.IsInf(*q.Price, 0) {
		return
	}
	livePrice := *q.Price

	currency := ""
	if q.Currency != nil && *q.Currency != "" {
		currency = *q.Currency
		p.CurrentPriceCurrency = q.Currency
	} else if p.CurrentPriceCurrency != nil {
		currency = *p.CurrentPriceCurrency
	}

	p.CurrentPriceValue = &livePrice
	if label, ok := pricelabel.FormatPriceLabel(livePrice, currency); ok {
		p.CurrentPriceLabel = label
	}

	if purchase, ok := pricelabel.ParseNumericValue(p.PurchasePriceLabel); ok && purchase != 0 {
		ret := (livePrice - purchase) / purchase * 100
		if !math.IsNaN(ret) && !math.IsInf(ret, 0) {
			p.ReturnValue = ret
		}
	}
	p.ReturnLabel = pricelabel.FormatReturnLabel(p.ReturnValue)
}
