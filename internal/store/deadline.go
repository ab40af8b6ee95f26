package store

import (
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const deadlineField = "deadline"

// dateLayout is how deadlines are accepted on create and rendered on read.
const dateLayout = "2006-01-02"

// ParseDeadlineString parses an ISO calendar date or RFC 3339 instant.
func ParseDeadlineString(s string) (time.Time, bool) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// ParseDeadline normalizes any stored deadline representation to a
// canonical timestamp. The collection holds a mix of native BSON
// datetimes, ISO strings and legacy extended-JSON maps of the form
// {"$date": {"$numberLong": "<millis>"}}; anything else is reported
// as unparseable.
func ParseDeadline(v any) (time.Time, bool) {
	switch d := v.(type) {
	case time.Time:
		return d, true
	case primitive.DateTime:
		return d.Time(), true
	case string:
		return ParseDeadlineString(d)
	case int64:
		return time.UnixMilli(d), true
	case int32:
		return time.UnixMilli(int64(d)), true
	case float64:
		return time.UnixMilli(int64(d)), true
	case bson.M:
		return parseExtendedJSON(d)
	case map[string]any:
		return parseExtendedJSON(d)
	case Document:
		return parseExtendedJSON(d)
	}
	return time.Time{}, false
}

func parseExtendedJSON(m map[string]any) (time.Time, bool) {
	if inner, ok := m["$date"]; ok {
		return ParseDeadline(inner)
	}
	if raw, ok := m["$numberLong"].(string); ok {
		var millis int64
		for _, c := range raw {
			if c < '0' || c > '9' {
				return time.Time{}, false
			}
			millis = millis*10 + int64(c-'0')
		}
		return time.UnixMilli(millis), true
	}
	return time.Time{}, false
}

// RenderDeadline rewrites a task's deadline as a YYYY-MM-DD string when it
// was stored as a timestamp. String deadlines pass through unchanged, as
// do documents without one.
func RenderDeadline(doc Document) Document {
	v, ok := doc[deadlineField]
	if !ok {
		return doc
	}
	if _, isString := v.(string); isString {
		return doc
	}
	if t, ok := ParseDeadline(v); ok {
		doc[deadlineField] = t.UTC().Format(dateLayout)
	}
	return doc
}

// SortByDeadline orders tasks by nearest deadline first, dropping any task
// whose deadline cannot be normalized, and truncates to limit.
func SortByDeadline(docs []Document, limit int) []Document {
	type keyed struct {
		doc      Document
		deadline time.Time
	}

	ordered := make([]keyed, 0, len(docs))
	for _, doc := range docs {
		t, ok := ParseDeadline(doc[deadlineField])
		if !ok {
			continue
		}
		ordered = append(ordered, keyed{doc: doc, deadline: t})
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].deadline.Before(ordered[j].deadline)
	})

	if limit > 0 && len(ordered) > limit {
		ordered = ordered[:limit]
	}

	result := make([]Document, len(ordered))
	for i, k := range ordered {
		result[i] = k.doc
	}
	return result
}
