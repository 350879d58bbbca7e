package util

import "time"

// DatePrefixLayout is the YYMMDD stamp put in front of saved filenames.
const DatePrefixLayout = "060102"

// DatePrefix formats t as YYMMDD in t's own location.
func DatePrefix(t time.Time) string {
    return t.Format(DatePrefixLayout)
}

// NextTradingDay returns the next weekday after t, truncated to midnight.
func NextTradingDay(t time.Time) time.Time {
    d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).AddDate(0, 0, 1)
    for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
        d = d.AddDate(0, 0, 1)
    }
    return d
}
