package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-notify/internal/domain"
	"github.com/spec-kit/ticket-notify/internal/observability"
	util "github.com/spec-kit/ticket-notify/pkg/util/errorutil"
)

func newRatingService(repo *fakeRatingRepo) *RatingService {
	return NewRatingService(RatingDependencies{
		RatingRepo: repo,
		Logger:     zap.NewNop(),
		Metrics:    observability.NewMetrics(),
	})
}

func validInput() RatingCreateInput {
	return RatingCreateInput{
		TicketID:   "T-1",
		CustomerID: "C-1",
		Rating:     4,
		Phone:      "918639224022",
	}
}

func TestRatingCreateRejectsMissingFields(t *testing.T) {
	svc := newRatingService(newFakeRatingRepo())

	tests := []struct {
		name   string
		mutate func(*RatingCreateInput)
	}{
		{"missing ticket", func(in *RatingCreateInput) { in.TicketID = "" }},
		{"missing customer", func(in *RatingCreateInput) { in.CustomerID = "" }},
		{"missing rating", func(in *RatingCreateInput) { in.Rating = 0 }},
		{"missing phone", func(in *RatingCreateInput) { in.Phone = " " }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(&input)
			_, err := svc.Create(context.Background(), input)
			require.Error(t, err)
			assert.Equal(t, "VALIDATION_FAILED", util.ToDomainError(err).Code)
		})
	}
}

func TestRatingCreateRejectsOutOfRange(t *testing.T) {
	svc := newRatingService(newFakeRatingRepo())

	for _, score := range []int{-1, 6, 100} {
		input := validInput()
		input.Rating = score
		_, err := svc.Create(context.Background(), input)
		require.Error(t, err, "rating %d", score)
		assert.Equal(t, "VALIDATION_FAILED", util.ToDomainError(err).Code)
	}
}

func TestRatingCreateDefaultsSourceToWeb(t *testing.T) {
	svc := newRatingService(newFakeRatingRepo())

	rating, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, domain.RatingSourceWeb, rating.Source)
	assert.NotEmpty(t, rating.ID)
}

func TestRatingCreateDuplicateSurfacesAsDuplicate(t *testing.T) {
	svc := newRatingService(newFakeRatingRepo())

	_, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), validInput())
	require.Error(t, err)
	assert.True(t, util.IsDuplicate(err))
}

func TestRatingExistsAfterCreate(t *testing.T) {
	svc := newRatingService(newFakeRatingRepo())

	exists, err := svc.Exists(context.Background(), "T-1")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	exists, err = svc.Exists(context.Background(), "T-1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRatingGetByTicketNotFound(t *testing.T) {
	svc := newRatingService(newFakeRatingRepo())

	_, err := svc.GetByTicket(context.Background(), "T-404")
	require.Error(t, err)
	assert.True(t, util.IsNotFound(err))
}

func TestRatingStats(t *testing.T) {
	repo := newFakeRatingRepo()
	svc := newRatingService(repo)

	for i, score := range []int{5, 3, 5} {
		input := validInput()
		input.TicketID = string(rune('A' + i))
		input.Rating = score
		_, err := svc.Create(context.Background(), input)
		require.NoError(t, err)
	}

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Count)
	assert.Equal(t, 3, stats.Min)
	assert.Equal(t, 5, stats.Max)
	assert.InDelta(t, 4.33, stats.Average, 0.01)
	assert.Equal(t, int64(2), stats.Histogram[5])
}
