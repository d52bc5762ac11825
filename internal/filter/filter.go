// Package filter turns list query parameters into gorm scopes.
package filter

import (
	"net/url"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// Scope narrows a query
type Scope func(*gorm.DB) *gorm.DB

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds a case-folded LIKE pattern matching term anywhere
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}

// ilike is a portable case-insensitive containment test on col
func ilike(col string) string {
	return "LOWER(" + col + `) LIKE ? ESCAPE '\'`
}

// fresh starts an unscoped statement on the same connection
func fresh(db *gorm.DB) *gorm.DB {
	return db.Session(&gorm.Session{NewDB: true})
}

// matchNothing is used for "mine" when nobody is signed in
func matchNothing(db *gorm.DB) *gorm.DB {
	return db.Where("1 = 0")
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "on", "yes":
		return true
	default:
		return false
	}
}

// parseInt returns nil when v is absent or not an integer
func parseInt(q url.Values, key string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(q.Get(key)))
	if err != nil {
		return nil
	}
	return &n
}
