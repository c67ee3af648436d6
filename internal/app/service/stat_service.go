package service

import (
	"context"
	"fmt"

	"github.com/sifan077/LinkDesk/internal/app/model"
	"github.com/sifan077/LinkDesk/internal/app/repository"
)

const statsListLimit = 5

// Stats is everything the statistics page shows.
type Stats struct {
	repository.Totals
	RecentURLs     []model.URL      `json:"recent_urls"`
	TopClickedURLs []model.URL      `json:"top_clicked_urls"`
	Emails         []string         `json:"emails"`
	Tags           []model.TagCount `json:"tags"`
}

// StatService computes aggregate statistics.
type StatService interface {
	GetStats(ctx context.Context) (*Stats, error)
}

type statService struct {
	stats repository.StatsRepository
	urls  repository.URLRepository
}

// NewStatService returns a StatService backed by the given repositories.
func NewStatService(stats repository.StatsRepository, urls repository.URLRepository) StatService {
	return &statService{stats: stats, urls: urls}
}

func (s *statService) GetStats(ctx context.Context) (*Stats, error) {
	totals, err := s.stats.Totals(ctx)
	if err != nil {
		return nil, fmt.Errorf("get stats: %w", err)
	}

	recent, err := s.urls.ListLatest(ctx, statsListLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("get stats: recent urls: %w", err)
	}
	top, err := s.urls.ListMostClicked(ctx, statsListLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("get stats: top urls: %w", err)
	}
	emails, err := s.stats.UniqueEmails(ctx)
	if err != nil {
		return nil, fmt.Errorf("get stats: %w", err)
	}
	tags, err := s.stats.TagsWithCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("get stats: %w", err)
	}

	return &Stats{
		Totals:         totals,
		RecentURLs:     recent,
		TopClickedURLs: top,
		Emails:         emails,
		Tags:           tags,
	}, nil
}
