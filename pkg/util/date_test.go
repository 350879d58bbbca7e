package util

import (
    "testing"
    "time"
)

func TestDatePrefix(t *testing.T) {
    got := DatePrefix(time.Date(2025, 1, 22, 23, 59, 0, 0, time.UTC))
    if got != "250122" {
        t.Fatalf("unexpected prefix %q", got)
    }
}

func TestNextTradingDaySkipsWeekend(t *testing.T) {
    fri := time.Date(2025, 1, 24, 15, 0, 0, 0, time.UTC)
    got := NextTradingDay(fri)
    if got.Weekday() != time.Monday || got.Day() != 27 {
        t.Fatalf("unexpected next trading day %v", got)
    }
}

func TestTruncateRunes(t *testing.T) {
    if got := TruncateRunes("héllo", 2); got != "hé" {
        t.Fatalf("unexpected %q", got)
    }
    if got := TruncateRunes("abc", 10); got != "abc" {
        t.Fatalf("unexpected %q", got)
    }
}
