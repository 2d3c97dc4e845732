package store

import "strings"

// IsMongoDSN reports whether a connection string addresses the document
// store rather than a local sqlite file.
func IsMongoDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "mongodb://") || strings.HasPrefix(dsn, "mongodb+srv://")
}
