package main

import (
	"strings"
	"time"
)

type quickAdd struct {
	Title   string
	List    string
	DueDate *time.Time
}

// parseQuickAdd splits "Call the bank #Personal due:friday" into a title,
// a list name and a due date. Tokens that do not parse stay in the title.
func parseQuickAdd(text string, now time.Time) quickAdd {
	var qa quickAdd
	var titleParts []string

	for _, word := range strings.Fields(text) {
		switch {
		// List (#Work, #Personal)
		case strings.HasPrefix(word, "#") && len(word) > 1:
			qa.List = strings.TrimPrefix(word, "#")

		// Due date (due:tomorrow, due:friday, due:2024-01-15)
		case strings.HasPrefix(strings.ToLower(word), "due:"):
			if parsed := parseNaturalDate(word[len("due:"):], now); parsed != nil {
				qa.DueDate = parsed
			} else {
				titleParts = append(titleParts, word)
			}

		default:
			titleParts = append(titleParts, word)
		}
	}

	qa.Title = strings.Join(titleParts, " ")
	return qa
}

// parseNaturalDate returns the start of the named day in now's location
func parseNaturalDate(s string, now time.Time) *time.Time {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch strings.ToLower(s) {
	case "today":
		return &today
	case "tomorrow", "tom":
		t := today.AddDate(0, 0, 1)
		return &t
	case "nextweek":
		t := today.AddDate(0, 0, 7)
		return &t
	}

	weekdays := map[string]time.Weekday{
		"monday": time.Monday, "mon": time.Monday,
		"tuesday": time.Tuesday, "tue": time.Tuesday,
		"wednesday": time.Wednesday, "wed": time.Wednesday,
		"thursday": time.Thursday, "thu": time.Thursday,
		"friday": time.Friday, "fri": time.Friday,
		"saturday": time.Saturday, "sat": time.Saturday,
		"sunday": time.Sunday, "sun": time.Sunday,
	}
	if day, ok := weekdays[strings.ToLower(s)]; ok {
		t := nextWeekday(today, day)
		return &t
	}

	formats := []string{
		"2006-01-02",
		"01/02/2006",
		"01-02-2006",
	}
	for _, format := range formats {
		if t, err := time.ParseInLocation(format, s, now.Location()); err == nil {
			return &t
		}
	}

	return nil
}

// nextWeekday is the first day strictly after today falling on day
func nextWeekday(today time.Time, day time.Weekday) time.Time {
	daysUntil := int(day - today.Weekday())
	if daysUntil <= 0 {
		daysUntil += 7
	}
	return today.AddDate(0, 0, daysUntil)
}

func formatDueDate(t, now time.Time) string {
	if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
		return "today"
	}

	tomorrow := now.AddDate(0, 0, 1)
	if t.Year() == tomorrow.Year() && t.YearDay() == tomorrow.YearDay() {
		return "tomorrow"
	}

	if t.Year() == now.Year() {
		return t.Format("Mon, Jan 2")
	}

	return t.Format("Jan 2, 2006")
}
