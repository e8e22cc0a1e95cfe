package sheetsclient

import (
	"context"
	"fmt"
	"strings"
)

// Column names read from a volunteers sheet. Only Name is required.
const (
	nameColumn  = "Name"
	kindColumn  = "Kind"
	phoneColumn = "Phone"
	emailColumn = "Email"
	notesColumn = "Notes"
)

// VolunteerRow is one volunteer read from a sheet, before canonicalisation
type VolunteerRow struct {
	Name  string
	Kind  string
	Phone string
	Email string
	Notes string
}

// ListVolunteers reads volunteer rows from a tab of a spreadsheet
func (c *Client) ListVolunteers(ctx context.Context, spreadsheetID, tab string) ([]VolunteerRow, error) {
	values, err := c.GetValues(ctx, spreadsheetID, a1Range(tab, "A1:ZZ"))
	if err != nil {
		return nil, fmt.Errorf("failed to get volunteer data: %w", err)
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("spreadsheet is empty")
	}

	volunteers, err := parseVolunteers(values)
	if err != nil {
		return nil, fmt.Errorf("failed to parse volunteers: %w", err)
	}

	return volunteers, nil
}

// parseVolunteers converts raw spreadsheet data into volunteer rows.
// Header matching ignores case; rows without a name are skipped.
func parseVolunteers(raw [][]interface{}) ([]VolunteerRow, error) {
	if len(raw) < 1 {
		return nil, fmt.Errorf("no header row found")
	}

	fieldIndexes := make(map[string]int)
	for i, cell := range raw[0] {
		if cellStr, ok := cell.(string); ok {
			key := strings.ToLower(strings.TrimSpace(cellStr))
			if _, seen := fieldIndexes[key]; !seen {
				fieldIndexes[key] = i
			}
		}
	}
	if _, ok := fieldIndexes[strings.ToLower(nameColumn)]; !ok {
		return nil, fmt.Errorf("missing required field in header: %s", nameColumn)
	}

	getField := func(field string, row []interface{}) string {
		index, ok := fieldIndexes[strings.ToLower(field)]
		if !ok || index >= len(row) {
			return ""
		}
		if str, ok := row[index].(string); ok {
			return strings.TrimSpace(str)
		}
		return ""
	}

	volunteers := make([]VolunteerRow, 0, len(raw)-1)
	for _, row := range raw[1:] {
		name := getField(nameColumn, row)
		if name == "" {
			continue
		}

		volunteers = append(volunteers, VolunteerRow{
			Name:  name,
			Kind:  getField(kindColumn, row),
			Phone: getField(phoneColumn, row),
			Email: getField(emailColumn, row),
			Notes: getField(notesColumn, row),
		})
	}

	return volunteers, nil
}
