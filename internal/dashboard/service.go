package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"golang.org/x/sync/singleflight"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mapleai/mapleai/internal/shared"
)

// UsageCounters reads aggregate usage counters for the analytics section.
type UsageCounters interface {
	Counters(ctx context.Context) (map[string]int64, error)
}

// Service assembles dashboard payloads: static feature-area metrics plus
// the live tenant facts layered on top.
type Service struct {
	repo    Repository
	usage   UsageCounters
	cache   *Cache
	logger  *slog.Logger
	group   singleflight.Group
	printer *message.Printer
}

// NewService constructs the dashboard service. usage and cache may be nil.
func NewService(repo Repository, usage UsageCounters, cache *Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:    repo,
		usage:   usage,
		cache:   cache,
		logger:  logger,
		printer: message.NewPrinter(language.English),
	}
}

// Overview builds the aggregated dashboard for the tenant in the claims.
// Concurrent requests for the same company share one build; the result is
// cached per company.
func (s *Service) Overview(ctx context.Context, claims shared.SessionClaims) (*Overview, error) {
	if cached, ok := s.cache.Get(ctx, claims.CompanyID); ok {
		return cached, nil
	}
	result, err, _ := s.group.Do(claims.CompanyID, func() (any, error) {
		return s.buildOverview(ctx, claims)
	})
	if err != nil {
		return nil, err
	}
	return result.(*Overview), nil
}

func (s *Service) buildOverview(ctx context.Context, claims shared.SessionClaims) (*Overview, error) {
	teamSize, err := s.repo.TeamSize(ctx, claims.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("dashboard: team size: %w", err)
	}

	sections := make([]Section, 0, len(SectionKeys))
	for _, key := range SectionKeys {
		section, _ := CatalogSection(key)
		sections = append(sections, s.format(section))
	}

	overview := &Overview{
		CompanyName: claims.Company.Name,
		Plan:        string(claims.Subscription.Plan),
		TeamSize:    teamSize,
		MaxUsers:    claims.Subscription.MaxUsers,
		Sections:    sections,
	}
	if s.usage != nil {
		counters, err := s.usage.Counters(ctx)
		if err != nil {
			s.logger.Warn("usage counters", slog.Any("error", err))
		} else {
			overview.Usage = counters
		}
	}

	if err := s.cache.Set(ctx, claims.CompanyID, overview); err != nil {
		s.logger.Warn("cache overview", slog.String("company_id", claims.CompanyID), slog.Any("error", err))
	}
	return overview, nil
}

// SectionFor returns one formatted feature area, shared.ErrNotFound for an
// unknown key.
func (s *Service) SectionFor(ctx context.Context, claims shared.SessionClaims, key string) (*Section, error) {
	section, ok := CatalogSection(key)
	if !ok {
		return nil, shared.ErrNotFound
	}
	formatted := s.format(section)
	return &formatted, nil
}

// format fills the Display field on a copy of the section's metrics.
func (s *Service) format(section Section) Section {
	metrics := make([]Metric, len(section.Metrics))
	for i, m := range section.Metrics {
		m.Display = s.display(m)
		metrics[i] = m
	}
	section.Metrics = metrics
	return section
}

func (s *Service) display(m Metric) string {
	switch m.Unit {
	case unitPercent:
		if m.Value == math.Trunc(m.Value) {
			return s.printer.Sprintf("%d%%", int64(m.Value))
		}
		return s.printer.Sprintf("%.1f%%", m.Value)
	case unitUSD:
		if m.Value >= 1_000_000 {
			return s.printer.Sprintf("$%.1fM", m.Value/1_000_000)
		}
		return s.printer.Sprintf("$%d", int64(m.Value))
	case unitHours:
		return s.printer.Sprintf("%dh", int64(m.Value))
	case unitMillis:
		return s.printer.Sprintf("%dms", int64(m.Value))
	case unitWeeks:
		return s.printer.Sprintf("%.1f weeks", m.Value)
	default:
		if m.Value >= 1_000_000 {
			return s.printer.Sprintf("%.1fM", m.Value/1_000_000)
		}
		return s.printer.Sprintf("%d", int64(m.Value))
	}
}
