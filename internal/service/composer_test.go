package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/ticket-notify/internal/domain"
)

func TestComposerDeterministic(t *testing.T) {
	notice := TicketNotice{
		TicketID:     "T-1",
		Title:        "Router offline",
		CustomerName: "Asha",
		Priority:     domain.TicketPriorityHigh,
		AssigneeName: "Ravi",
		ETA:          "2 hours",
	}

	assert.Equal(t, ComposeOpened(notice), ComposeOpened(notice))
	assert.Equal(t, ComposeClosed(notice), ComposeClosed(notice))
	assert.Equal(t, ComposeRatingRequest(notice), ComposeRatingRequest(notice))
	assert.Equal(t, ComposeAssigned(notice), ComposeAssigned(notice))
}

func TestComposeOpenedIncludesOptionalFields(t *testing.T) {
	full := ComposeOpened(TicketNotice{
		Title:        "Router offline",
		CustomerName: "Asha",
		Priority:     domain.TicketPriorityHigh,
		AssigneeName: "Ravi",
		ETA:          "2 hours",
	})
	assert.Contains(t, full, "Asha")
	assert.Contains(t, full, "Router offline")
	assert.Contains(t, full, "HIGH")
	assert.Contains(t, full, "Ravi")
	assert.Contains(t, full, "2 hours")

	minimal := ComposeOpened(TicketNotice{Title: "Router offline"})
	assert.NotContains(t, minimal, "Priority")
	assert.NotContains(t, minimal, "Assigned to")
	assert.NotContains(t, minimal, "Expected resolution")
}

func TestComposeClosedEmbedsRatingLegend(t *testing.T) {
	body := ComposeClosed(TicketNotice{Title: "Router offline", CustomerName: "Asha"})
	assert.Contains(t, body, "1 to 5")
	for _, line := range []string{"1 - Poor", "5 - Excellent"} {
		assert.Contains(t, body, line)
	}
}

func TestComposeRatingRequestStandsAlone(t *testing.T) {
	body := ComposeRatingRequest(TicketNotice{Title: "Router offline"})
	assert.Contains(t, body, "Router offline")
	assert.Contains(t, body, "1 to 5")
	assert.False(t, strings.Contains(body, "resolved"))
}

func TestComposeAssignedAddressesAssignee(t *testing.T) {
	body := ComposeAssigned(TicketNotice{
		Title:        "Router offline",
		CustomerName: "Asha",
		AssigneeName: "Ravi",
		Priority:     domain.TicketPriorityUrgent,
		ETA:          "1 hour",
	})
	assert.True(t, strings.HasPrefix(body, "Hi Ravi"))
	assert.Contains(t, body, "Customer: Asha")
	assert.Contains(t, body, "URGENT")
}

func TestComposeThankYouNamesRating(t *testing.T) {
	assert.Contains(t, ComposeThankYouReply(4), "4 out of 5")
}

func TestComposeFallbackName(t *testing.T) {
	assert.Contains(t, ComposeOpened(TicketNotice{Title: "x"}), "Hi there")
}
