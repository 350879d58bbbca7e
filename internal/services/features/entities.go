package features

import (
	"strings"

	"YTM4A/internal/domain/models"
)

// bucketFor maps a provider entity type onto a feature bucket. Unknown types
// return "".
func bucketFor(e models.Entity) string {
	t := strings.ToLower(e.Type)
	switch {
	case t == "person_name":
		return models.EntityPerson
	case t == "organization":
		return models.EntityOrg
	case strings.HasPrefix(t, "location"):
		return models.EntityGPE
	case t == "money_amount":
		return models.EntityMoney
	case t == "percentage",
		t == "statistics" && (strings.Contains(e.Text, "%") || strings.Contains(strings.ToLower(e.Text), "percent")):
		return models.EntityPercent
	}
	return ""
}

// BucketEntities groups every mention by bucket, preserving order. All
// buckets are present in the result.
func BucketEntities(entities []models.Entity) map[string][]string {
	out := map[string][]string{
		models.EntityOrg:     {},
		models.EntityPerson:  {},
		models.EntityGPE:     {},
		models.EntityMoney:   {},
		models.EntityPercent: {},
	}
	for _, e := range entities {
		text := strings.TrimSpace(e.Text)
		if text == "" {
			continue
		}
		if b := bucketFor(e); b != "" {
			out[b] = append(out[b], text)
		}
	}
	return out
}
