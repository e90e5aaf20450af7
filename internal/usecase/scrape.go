package usecase

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ScrapeSource yields one snapshot of the event pages per call.
type ScrapeSource interface {
	Scrape(ctx context.Context) (Snapshot, error)
}

// Snapshot holds the raw batches of one scrape.
type Snapshot struct {
	Teams    []TeamRecord     `validate:"dive"`
	Results  []ResultRecord   `validate:"dive"`
	Live     []LiveRecord     `validate:"dive"`
	Upcoming []UpcomingRecord `validate:"dive"`
}

type TeamRecord struct {
	TeamID int64  `validate:"gt=0"`
	Name   string `validate:"required"`
}

type ResultRecord struct {
	MatchID     int64  `validate:"gt=0"`
	ScheduledAt int64  `validate:"gt=0"`
	Team1       string `validate:"required"`
	Team2       string `validate:"required"`
	Score1      int    `validate:"gte=0"`
	Score2      int    `validate:"gte=0"`
	Map         string
}

// LiveRecord is a match in progress. Live rows carry no start time.
type LiveRecord struct {
	MatchID int64  `validate:"gt=0"`
	Team1   string `validate:"required"`
	Team2   string `validate:"required"`
	Score1  int    `validate:"gte=0"`
	Score2  int    `validate:"gte=0"`
	Map     string `validate:"required"`
}

type UpcomingRecord struct {
	MatchID     int64  `validate:"gt=0"`
	ScheduledAt int64  `validate:"gt=0"`
	Team1       string `validate:"required"`
	Team2       string `validate:"required"`
	Map         string
}

func (s Snapshot) Len() int {
	return len(s.Teams) + len(s.Results) + len(s.Live) + len(s.Upcoming)
}

// SnapshotValidator checks record shapes before they reach the index.
type SnapshotValidator struct {
	validate *validator.Validate
}

func NewSnapshotValidator() *SnapshotValidator {
	return &SnapshotValidator{validate: validator.New()}
}

func (v *SnapshotValidator) Validate(ctx context.Context, snap Snapshot) error {
	if err := v.validate.StructCtx(ctx, snap); err != nil {
		return fmt.Errorf("%w: malformed scrape snapshot: %v", ErrInvalidInput, err)
	}
	return nil
}
