package sheetsclient

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	shiftHeader = "Shift"
	notesHeader = "Notes"

	// The grid starts on row 3 under the title row and a blank row
	headerRowIndex = 2
	maxTitleLength = 100
)

// PublishedShiftRow is one shift of the published grid
type PublishedShiftRow struct {
	Shift string     // "HH:MM"
	Cells [][]string // volunteer display names, one entry per post column
}

// PublishedPlanning is the grid written to the planning spreadsheet
type PublishedPlanning struct {
	EventName string
	EventDate time.Time
	Posts     []string // column headers, in post order
	Rows      []PublishedShiftRow
}

// PublishPlanning writes the planning grid to the tab named after the event.
// The tab is created if missing. An existing tab is overwritten, keeping the
// Notes column values of shifts that are still present.
func (c *Client) PublishPlanning(ctx context.Context, spreadsheetID string, planning *PublishedPlanning) (string, error) {
	tabTitle := generateTabTitle(planning.EventName, planning.EventDate)

	exists, err := c.HasSheet(ctx, spreadsheetID, tabTitle)
	if err != nil {
		return "", err
	}

	var existing [][]interface{}
	if exists {
		existing, err = c.GetValues(ctx, spreadsheetID, a1Range(tabTitle, "A1:ZZ"))
		if err != nil {
			return "", fmt.Errorf("failed to read existing tab data: %w", err)
		}
		if err := c.ClearValues(ctx, spreadsheetID, a1Range(tabTitle, "A1:ZZ")); err != nil {
			return "", fmt.Errorf("failed to clear existing tab: %w", err)
		}
	} else if _, err := c.CreateSheet(ctx, spreadsheetID, tabTitle); err != nil {
		return "", fmt.Errorf("failed to create tab: %w", err)
	}

	rows := buildPlanningRows(planning, existingNotes(existing))
	if err := c.UpdateValues(ctx, spreadsheetID, a1Range(tabTitle, "A1"), rows); err != nil {
		return "", fmt.Errorf("failed to write planning: %w", err)
	}

	return tabTitle, nil
}

// generateTabTitle creates a tab title in the format "Sat Jun 08 2024 - Warehouse Night"
func generateTabTitle(eventName string, eventDate time.Time) string {
	title := eventDate.Format("Mon Jan 02 2006")
	if name := strings.TrimSpace(eventName); name != "" {
		title += " - " + name
	}

	if runes := []rune(title); len(runes) > maxTitleLength {
		title = string(runes[:maxTitleLength])
	}
	return title
}

// buildPlanningRows lays out the title row, a blank row, the header and one row per shift
func buildPlanningRows(planning *PublishedPlanning, notes map[string]interface{}) [][]interface{} {
	header := []interface{}{shiftHeader}
	for _, post := range planning.Posts {
		header = append(header, post)
	}
	header = append(header, notesHeader)

	rows := [][]interface{}{
		{fmt.Sprintf("%s - %s", planning.EventName, planning.EventDate.Format("Mon Jan 02 2006"))},
		{},
		header,
	}

	for _, shift := range planning.Rows {
		row := []interface{}{shift.Shift}
		for i := range planning.Posts {
			var names []string
			if i < len(shift.Cells) {
				names = shift.Cells[i]
			}
			row = append(row, strings.Join(names, ", "))
		}

		note, ok := notes[shift.Shift]
		if !ok {
			note = ""
		}
		rows = append(rows, append(row, note))
	}

	return rows
}

// existingNotes maps shift -> Notes cell from a previously published tab
func existingNotes(existing [][]interface{}) map[string]interface{} {
	notes := map[string]interface{}{}
	if len(existing) <= headerRowIndex {
		return notes
	}

	header := existing[headerRowIndex]
	shiftCol := findColumnIndex(header, shiftHeader)
	notesCol := findColumnIndex(header, notesHeader)
	if shiftCol == -1 || notesCol == -1 {
		return notes
	}

	for _, row := range existing[headerRowIndex+1:] {
		if shiftCol >= len(row) || notesCol >= len(row) {
			continue
		}
		shift, ok := row[shiftCol].(string)
		if !ok || shift == "" {
			continue
		}
		notes[shift] = row[notesCol]
	}

	return notes
}

// findColumnIndex finds the index of a column by its header name
func findColumnIndex(header []interface{}, columnName string) int {
	for i, cell := range header {
		if str, ok := cell.(string); ok && str == columnName {
			return i
		}
	}
	return -1
}
