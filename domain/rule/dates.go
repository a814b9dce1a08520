package rule

import "time"

// dateLayouts are the layouts offsetDate recognizes, tried in order.
// The layout that parses a value is also used to format the shifted
// result, so the textual shape of the value is preserved.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
}

var dateUnits = map[string]bool{
	"years":   true,
	"months":  true,
	"weeks":   true,
	"days":    true,
	"hours":   true,
	"minutes": true,
	"seconds": true,
}

func knownDateUnit(unit string) bool { return dateUnits[unit] }

func parseAnyDate(s string) (time.Time, string, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, layout, true
		}
	}
	return time.Time{}, "", false
}

func shiftDate(t time.Time, amount int, unit string) time.Time {
	switch unit {
	case "years":
		return t.AddDate(amount, 0, 0)
	case "months":
		return t.AddDate(0, amount, 0)
	case "weeks":
		return t.AddDate(0, 0, 7*amount)
	case "days":
		return t.AddDate(0, 0, amount)
	case "hours":
		return t.Add(time.Duration(amount) * time.Hour)
	case "minutes":
		return t.Add(time.Duration(amount) * time.Minute)
	case "seconds":
		return t.Add(time.Duration(amount) * time.Second)
	}
	return t
}
