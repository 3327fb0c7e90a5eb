// Package calendar answers whether a given moment falls on a TASE trading
// day and, if so, what the session hours are. It is a pure function over
// static holiday and shortened-day tables for 2025-2026, including the
// planned switch of the trading week from Sun-Thu to Mon-Fri.
package calendar

import "time"

// ReasonWeekend is the Reason reported for non-trading weekdays.
const ReasonWeekend = "סוף שבוע"

// TradingDayInfo describes the schedule for a single calendar day.
// Open and Close are set only when IsTrading is true; they carry the
// location of the moment passed to Lookup.
type TradingDayInfo struct {
	IsTrading bool
	IsShort   bool
	Reason    string
	Open      time.Time
	Close     time.Time
}

type ymd struct {
	year  int
	month time.Month
	day   int
}

// Exchange holidays (no trading).
var holidays = map[ymd]string{
	{2025, time.April, 13}:     "פסח",
	{2025, time.April, 30}:     "יום הזיכרון",
	{2025, time.May, 1}:        "יום העצמאות",
	{2025, time.June, 2}:       "שבועות",
	{2025, time.August, 3}:     "תשעה באב",
	{2025, time.September, 22}: "ערב ראש השנה",
	{2025, time.September, 23}: "ראש השנה",
	{2025, time.September, 24}: "ראש השנה",
	{2025, time.October, 1}:    "ערב יום כיפור",
	{2025, time.October, 2}:    "יום כיפור",
	{2025, time.October, 6}:    "ערב סוכות",
	{2025, time.October, 7}:    "סוכות",
	{2025, time.October, 13}:   "ערב שמחת תורה",
	{2025, time.October, 14}:   "שמחת תורה",

	{2026, time.April, 2}:      "פסח",
	{2026, time.April, 8}:      "שביעי של פסח",
	{2026, time.April, 21}:     "יום הזיכרון",
	{2026, time.April, 22}:     "יום העצמאות",
	{2026, time.May, 22}:       "שבועות",
	{2026, time.July, 23}:      "תשעה באב",
	{2026, time.September, 11}: "ערב ראש השנה",
	{2026, time.September, 21}: "יום כיפור",
	{2026, time.September, 25}: "ערב סוכות",
	{2026, time.October, 1}:    "ערב שמחת תורה",
	{2026, time.October, 2}:    "שמחת תורה",
}

// Shortened trading days (early close).
var shortDays = map[ymd]string{
	{2025, time.April, 14}:   "חול המועד פסח",
	{2025, time.April, 15}:   "חול המועד פסח",
	{2025, time.April, 16}:   "חול המועד פסח",
	{2025, time.April, 17}:   "חול המועד פסח",
	{2025, time.October, 8}:  "חול המועד סוכות",
	{2025, time.October, 9}:  "חול המועד סוכות",
	{2025, time.October, 12}: "חול המועד סוכות",

	{2026, time.April, 6}:      "חול המועד פסח",
	{2026, time.April, 7}:      "חול המועד פסח",
	{2026, time.September, 28}: "חול המועד סוכות",
	{2026, time.September, 29}: "חול המועד סוכות",
	{2026, time.September, 30}: "חול המועד סוכות",
}

// The trading week moves from Sun-Thu to Mon-Fri on 2026-01-05.
func beforeWeekCutover(year int, month time.Month, day int) bool {
	if year != 2026 {
		return year < 2026
	}
	return month == time.January && day < 5
}

// Lookup returns the trading schedule for the day containing moment.
// It always returns a value; there are no failure modes.
func Lookup(moment time.Time) TradingDayInfo {
	year, month, day := moment.Date()
	key := ymd{year, month, day}

	if name, ok := holidays[key]; ok {
		return TradingDayInfo{Reason: name}
	}

	wd := moment.Weekday()
	var trading bool
	if beforeWeekCutover(year, month, day) {
		trading = wd != time.Friday && wd != time.Saturday
	} else {
		trading = wd != time.Saturday && wd != time.Sunday
	}
	if !trading {
		return TradingDayInfo{Reason: ReasonWeekend}
	}

	open := at(moment, 9, 25)
	if name, ok := shortDays[key]; ok {
		// Close 20 minutes after the shortened session ends to absorb
		// the delay in upstream data.
		return TradingDayInfo{
			IsTrading: true,
			IsShort:   true,
			Reason:    name,
			Open:      open,
			Close:     at(moment, 14, 45),
		}
	}

	close := at(moment, 17, 45)
	if beforeWeekCutover(year, month, day) {
		if wd == time.Sunday {
			close = at(moment, 15, 50)
		}
	} else if wd == time.Friday {
		close = at(moment, 13, 50)
	}
	return TradingDayInfo{IsTrading: true, Open: open, Close: close}
}

func at(t time.Time, hour, min int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), hour, min, 0, 0, t.Location())
}
