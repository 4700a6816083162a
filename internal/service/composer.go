package service

import (
	"fmt"
	"strings"

	"github.com/spec-kit/ticket-notify/internal/domain"
)

// TicketNotice is the structured input for lifecycle message rendering.
type TicketNotice struct {
	TicketID     string
	Title        string
	CustomerName string
	Priority     domain.TicketPriority
	AssigneeName string
	ETA          string
}

const ratingLegend = "1 - Poor\n2 - Fair\n3 - Good\n4 - Very good\n5 - Excellent"

// ComposeOpened renders the ticket creation confirmation.
func ComposeOpened(notice TicketNotice) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s, your support ticket %q has been registered.", displayName(notice.CustomerName), notice.Title)
	if notice.Priority != "" {
		fmt.Fprintf(&b, "\nPriority: %s", notice.Priority)
	}
	if notice.AssigneeName != "" {
		fmt.Fprintf(&b, "\nAssigned to: %s", notice.AssigneeName)
	}
	if notice.ETA != "" {
		fmt.Fprintf(&b, "\nExpected resolution: %s", notice.ETA)
	}
	b.WriteString("\nWe will keep you posted here.")
	return b.String()
}

// ComposePending renders the on-hold / waiting notice.
func ComposePending(notice TicketNotice) string {
	return fmt.Sprintf(
		"Hi %s, your ticket %q is on hold pending further input. Our team will follow up with you shortly.",
		displayName(notice.CustomerName), notice.Title)
}

// ComposeClosed renders the resolution notice with the embedded rating prompt.
func ComposeClosed(notice TicketNotice) string {
	return fmt.Sprintf(
		"Hi %s, your ticket %q has been resolved.\n\nHow did we do? Reply with a number from 1 to 5:\n%s",
		displayName(notice.CustomerName), notice.Title, ratingLegend)
}

// ComposeRatingRequest renders the standalone follow-up rating prompt.
func ComposeRatingRequest(notice TicketNotice) string {
	return fmt.Sprintf(
		"We'd love your feedback on ticket %q. Reply with a number from 1 to 5:\n%s",
		notice.Title, ratingLegend)
}

// ComposeAssigned renders the notification addressed to the assignee.
func ComposeAssigned(notice TicketNotice) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s, ticket %q has been assigned to you.", displayName(notice.AssigneeName), notice.Title)
	if notice.CustomerName != "" {
		fmt.Fprintf(&b, "\nCustomer: %s", notice.CustomerName)
	}
	if notice.Priority != "" {
		fmt.Fprintf(&b, "\nPriority: %s", notice.Priority)
	}
	if notice.ETA != "" {
		fmt.Fprintf(&b, "\nExpected resolution: %s", notice.ETA)
	}
	return b.String()
}

// ComposeInvalidRatingReply asks the customer for a valid score.
func ComposeInvalidRatingReply() string {
	return "Please reply with a number from 1 to 5 to rate your support experience."
}

// ComposeTicketNotFoundReply is sent when no eligible ticket matches the sender.
func ComposeTicketNotFoundReply() string {
	return "Sorry, we couldn't find a recent support ticket for your number. If you need help, please contact our support desk."
}

// ComposeAlreadyRatedReply acknowledges a repeated rating attempt.
func ComposeAlreadyRatedReply() string {
	return "Thanks! We already have your rating for this ticket."
}

// ComposeThankYouReply acknowledges a recorded rating, naming the score.
func ComposeThankYouReply(rating int) string {
	return fmt.Sprintf("Thank you for rating us %d out of 5. Your feedback helps us improve.", rating)
}

// ComposeApologyReply is sent when processing fails for internal reasons.
func ComposeApologyReply() string {
	return "Sorry, something went wrong while recording your rating. Please try again later."
}

func displayName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "there"
	}
	return name
}
