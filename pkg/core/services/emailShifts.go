package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jakechorley/event-planner/pkg/clients/integration"
	"github.com/jakechorley/event-planner/pkg/core/model"
	"github.com/jakechorley/event-planner/pkg/core/planning"
)

// Mailer sends a plain text email
type Mailer interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// EmailFailure is a volunteer whose shift summary could not be sent
type EmailFailure struct {
	VolunteerID string `json:"volunteerId"`
	Name        string `json:"name"`
	Message     string `json:"error"`
	Err         error  `json:"-"`
}

// EmailShiftsResult reports who was emailed
type EmailShiftsResult struct {
	Sent    []string       `json:"sent"`    // volunteer names
	Skipped []string       `json:"skipped"` // rostered volunteers without an email or without a shift
	Failed  []EmailFailure `json:"failed"`
}

// EmailShifts sends every rostered volunteer with an email a summary of their shifts.
// A failed send is recorded and the remaining volunteers are still emailed.
func EmailShifts(
	ctx context.Context,
	plannings *PlanningService,
	mailer Mailer,
	logger *zap.Logger,
	org model.Org,
	eventID string,
) (*EmailShiftsResult, error) {
	if mailer == nil {
		return nil, fmt.Errorf("email: %w", integration.ErrNotConfigured)
	}

	grid, err := plannings.Grid(ctx, org, eventID)
	if err != nil {
		return nil, err
	}
	current, err := plannings.Load(ctx, org, eventID)
	if err != nil {
		return nil, err
	}

	result := &EmailShiftsResult{Sent: []string{}, Skipped: []string{}, Failed: []EmailFailure{}}
	subject := fmt.Sprintf("Your shifts for %s", grid.Event.Name)

	for _, volunteer := range grid.Roster {
		lines := shiftLines(current, grid, volunteer.ID)
		if strings.TrimSpace(volunteer.Email) == "" || len(lines) == 0 {
			result.Skipped = append(result.Skipped, volunteer.Name)
			continue
		}

		body := shiftEmailBody(volunteer, grid.Event, lines)
		if err := mailer.SendEmail(ctx, volunteer.Email, subject, body); err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			logger.Warn("Failed to email shifts",
				zap.String("volunteer_id", volunteer.ID),
				zap.String("class", string(integration.Classify(err))),
				zap.Error(err))
			result.Failed = append(result.Failed, EmailFailure{
				VolunteerID: volunteer.ID,
				Name:        volunteer.Name,
				Message:     err.Error(),
				Err:         err,
			})
			continue
		}

		logger.Debug("Emailed shifts", zap.String("volunteer_id", volunteer.ID), zap.Int("shifts", len(lines)))
		result.Sent = append(result.Sent, volunteer.Name)
	}

	logger.Info("Shift emails sent",
		zap.String("event_id", eventID),
		zap.Int("sent", len(result.Sent)),
		zap.Int("skipped", len(result.Skipped)),
		zap.Int("failed", len(result.Failed)))

	return result, nil
}

// shiftLines lists "HH:MM - Post" for every grid shift the volunteer works
func shiftLines(p *model.Planning, grid *PlanningGrid, volunteerID string) []string {
	var lines []string
	for _, row := range grid.Rows {
		posts := planning.PostsForVolunteerAtShift(p, volunteerID, row.Shift)
		if len(posts) == 0 {
			continue
		}
		labels := make([]string, 0, len(posts))
		for _, post := range posts {
			labels = append(labels, post.Label())
		}
		lines = append(lines, fmt.Sprintf("%s - %s", row.Shift, strings.Join(labels, ", ")))
	}
	return lines
}

func shiftEmailBody(volunteer model.Volunteer, event model.Event, lines []string) string {
	greeting := volunteer.Name
	if fields := strings.Fields(volunteer.Name); len(fields) > 0 {
		greeting = fields[0]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", greeting)
	fmt.Fprintf(&b, "Thanks for helping out at %s on %s. Here are your shifts:\n\n",
		event.Name, event.StartsAt.Format("Monday 2 January"))
	for _, line := range lines {
		fmt.Fprintf(&b, "  %s\n", line)
	}
	b.WriteString("\nSee you there!\n")
	return b.String()
}
