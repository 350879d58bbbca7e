package cache

import (
	"fmt"
	"strings"
	"time"
)

const keySep = ":"

// GenerateKey joins prefix and id.
func GenerateKey(prefix string, id string) string {
	return prefix + keySep + id
}

// GenerateKeyWithParams joins prefix and params. Times are rendered as UTC
// dates so that requests for the same day share a key.
func GenerateKeyWithParams(prefix string, params ...interface{}) string {
	var b strings.Builder
	b.WriteString(prefix)
	for _, param := range params {
		b.WriteString(keySep)
		switch v := param.(type) {
		case time.Time:
			b.WriteString(v.UTC().Format(time.DateOnly))
		case string:
			b.WriteString(v)
		default:
			b.WriteString(fmt.Sprint(v))
		}
	}
	return b.String()
}

// BuildPattern returns a glob matching every key under prefix.
func BuildPattern(prefix string) string {
	if !strings.HasSuffix(prefix, keySep) {
		prefix += keySep
	}
	return prefix + "*"
}
