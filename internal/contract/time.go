package contract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/tootstats/core/algo"
	"github.com/huangsam/tootstats/schema"
)

// DayRange is an inclusive range of calendar days held as midnight UTC.
type DayRange struct {
	From time.Time
	To   time.Time
}

// Instants returns the half-open instant range [start of From, start of the day after To)
// in the account's timezone.
func (r DayRange) Instants(loc *time.Location) (time.Time, time.Time) {
	return algo.DayStart(r.From, loc), algo.DayStart(r.To.AddDate(0, 0, 1), loc)
}

// String renders the range as "from..to".
func (r DayRange) String() string {
	return r.From.Format(algo.DayLayout) + ".." + r.To.Format(algo.DayLayout)
}

// LoadTimezone resolves an IANA timezone identifier.
// Empty and "Local" are rejected so results never depend on the server's zone.
func LoadTimezone(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "Local" {
		return nil, fmt.Errorf("%w: %q", schema.ErrInvalidTimezone, name)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", schema.ErrInvalidTimezone, name)
	}
	return loc, nil
}

// ParseDay parses an ISO calendar day (YYYY-MM-DD).
func ParseDay(s string) (time.Time, error) {
	d, err := time.Parse(algo.DayLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid day %q, expected YYYY-MM-DD", schema.ErrInvalidArgument, s)
	}
	return d, nil
}

// lastNRe captures "last 30 days", "last2weeks", "last 3 months" and similar.
var lastNRe = regexp.MustCompile(`^last\s*(\d+)\s*(day|week|month|year)s?$`)

// ResolveTimeframe turns a symbolic timeframe into an inclusive day range ending
// no later than today in loc. Supported forms:
//
//	today, yesterday
//	thisweek, thismonth, thisyear
//	lastweek, lastmonth, lastyear (the previous full period)
//	lastNdays, last N weeks, last N months, last N years (ending today)
//	YYYY-MM-DD..YYYY-MM-DD
func ResolveTimeframe(name string, now time.Time, loc *time.Location) (DayRange, error) {
	s := strings.ToLower(strings.TrimSpace(name))
	today := algo.DayOf(now, loc)

	if from, to, ok := strings.Cut(s, ".."); ok {
		fromDay, err := ParseDay(from)
		if err != nil {
			return DayRange{}, err
		}
		toDay, err := ParseDay(to)
		if err != nil {
			return DayRange{}, err
		}
		if fromDay.After(toDay) {
			return DayRange{}, fmt.Errorf("%w: timeframe start %s is after end %s", schema.ErrInvalidArgument, from, to)
		}
		return DayRange{From: fromDay, To: toDay}, nil
	}

	switch s {
	case "today":
		return DayRange{From: today, To: today}, nil
	case "yesterday":
		y := today.AddDate(0, 0, -1)
		return DayRange{From: y, To: y}, nil
	case "thisweek":
		return DayRange{From: algo.PeriodStart(schema.WeekPeriod, today), To: today}, nil
	case "thismonth":
		return DayRange{From: algo.PeriodStart(schema.MonthPeriod, today), To: today}, nil
	case "thisyear":
		return DayRange{From: algo.PeriodStart(schema.YearPeriod, today), To: today}, nil
	case "lastweek":
		return previousPeriod(schema.WeekPeriod, today), nil
	case "lastmonth":
		return previousPeriod(schema.MonthPeriod, today), nil
	case "lastyear":
		return previousPeriod(schema.YearPeriod, today), nil
	}

	matches := lastNRe.FindStringSubmatch(s)
	if len(matches) == 0 {
		return DayRange{}, fmt.Errorf("%w: unknown timeframe %q", schema.ErrInvalidArgument, name)
	}

	// 1: Value (e.g., "30")
	// 2: Unit (e.g., "day")
	value, err := strconv.Atoi(matches[1])
	if err != nil || value <= 0 {
		return DayRange{}, fmt.Errorf("%w: timeframe %q must span at least one unit", schema.ErrInvalidArgument, name)
	}

	var from time.Time
	switch matches[2] {
	case "day":
		from = today.AddDate(0, 0, -(value - 1))
	case "week":
		from = today.AddDate(0, 0, -7*value+1)
	case "month":
		from = today.AddDate(0, -value, 1)
	default: // year
		from = today.AddDate(-value, 0, 1)
	}
	return DayRange{From: from, To: today}, nil
}

// previousPeriod returns the full period before the one containing today.
func previousPeriod(kind schema.PeriodKind, today time.Time) DayRange {
	start := algo.PeriodStart(kind, today)
	return DayRange{From: algo.PreviousPeriodStart(kind, start), To: start.AddDate(0, 0, -1)}
}
