package model

import "strings"

// DisplayNames returns the shortest unambiguous name of each volunteer, keyed by id:
// - the first name when it is unique
// - "First L." when first name plus surname initial is unique
// - the full name otherwise
func DisplayNames(volunteers []Volunteer) map[string]string {
	firstNameCounts := make(map[string]int)
	initialCounts := make(map[string]int)
	for _, v := range volunteers {
		first, initial := splitName(v.Name)
		firstNameCounts[first]++
		if initial != "" {
			initialCounts[initial]++
		}
	}

	names := make(map[string]string, len(volunteers))
	for _, v := range volunteers {
		first, initial := splitName(v.Name)
		switch {
		case firstNameCounts[first] == 1:
			names[v.ID] = first
		case initial != "" && initialCounts[initial] == 1:
			names[v.ID] = initial
		default:
			names[v.ID] = strings.Join(strings.Fields(v.Name), " ")
		}
	}
	return names
}

// splitName returns the first name and the "First L." form, empty when there is no surname
func splitName(name string) (string, string) {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "", ""
	}
	if len(fields) == 1 {
		return fields[0], ""
	}
	last := []rune(fields[len(fields)-1])
	return fields[0], fields[0] + " " + string(last[0]) + "."
}
