package docvault

import "strings"

var likeReplacer = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likeEscape escapes LIKE metacharacters; paths are digits and dots but the
// prefix comes from stored data
func likeEscape(s string) string {
	return likeReplacer.Replace(s)
}
