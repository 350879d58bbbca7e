package util

// TruncateRunes cuts s to at most n runes.
func TruncateRunes(s string, n int) string {
    if n <= 0 {
        return ""
    }
    count := 0
    for i := range s {
        if count == n {
            return s[:i]
        }
        count++
    }
    return s
}
