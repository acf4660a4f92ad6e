package service

import (
	"fmt"
	"strings"
	"time"
)

// RewritePlaylist appends the access token to every media segment reference
// in an HLS manifest so the player's subsequent segment fetches carry it.
// Directives, comments and blank lines pass through byte-identical. The
// rewrite runs fresh on every manifest fetch; a newly issued token always
// reaches every segment URL.
func RewritePlaylist(manifest, token string, now time.Time) string {
	lines := strings.Split(manifest, "\n")

	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue // directive or comment
		}

		seg := strings.TrimRight(line, " \t\r")
		if !strings.HasSuffix(seg, ".ts") {
			continue
		}

		// Keep any trailing whitespace exactly where it was.
		lines[i] = fmt.Sprintf("%s?token=%s&t=%d%s", seg, token, now.UnixMilli(), line[len(seg):])
	}

	return strings.Join(lines, "\n")
}
