/******************************************************************************
 *
 *  Description :
 *
 *    Text normalization and other small helpers.
 *
 *****************************************************************************/

package main

import (
	"crypto/rand"
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/rivo/uniseg"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/nestwire/nestwire/server/store/types"
)

// Maximum length of a message in grapheme clusters.
const maxMessageLength = 4000

// Maximum length of a notification preview in grapheme clusters.
const maxPreviewLength = 140

// normalizeMessage strips outer whitespace: blank lines at the start and end
// are dropped and leading indentation is removed from every line. Interior
// line breaks are preserved.
func normalizeMessage(content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return ""
	}

	lines := strings.Split(content, "\n")
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}

	trimmed := make([]string, 0, end-start)
	for _, line := range lines[start:end] {
		trimmed = append(trimmed, strings.TrimLeft(line, " \t"))
	}
	return strings.Join(trimmed, "\n")
}

// graphemeLen returns the length of the string in grapheme clusters, the way
// a user would count characters.
func graphemeLen(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// truncateGraphemes cuts the string to at most max grapheme clusters.
func truncateGraphemes(s string, max int) string {
	if uniseg.GraphemeClusterCount(s) <= max {
		return s
	}
	state := -1
	rest := s
	taken := 0
	var b strings.Builder
	for taken < max && len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		b.WriteString(cluster)
		taken++
	}
	return b.String()
}

// messagePreview produces the short snippet used in notifications: the first
// line of the stripped content, bounded in grapheme clusters.
func messagePreview(content string) string {
	content = strings.TrimSpace(content)
	if idx := strings.IndexByte(content, '\n'); idx >= 0 {
		content = content[:idx]
	}
	return truncateGraphemes(content, maxPreviewLength)
}

var foldCaser = cases.Fold()

// normalizeUsername brings a username or search term to canonical form:
// Unicode normalization, case folding, outer whitespace removed.
func normalizeUsername(uname string) string {
	return foldCaser.String(norm.NFKC.String(strings.TrimSpace(uname)))
}

// validUsername checks the normalized username for acceptable length.
func validUsername(uname string) bool {
	n := graphemeLen(uname)
	return n >= 2 && n <= 32 && !strings.ContainsAny(uname, " \t\n")
}

// genInviteToken returns a URL-safe random token for room invites.
func genInviteToken() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}

// parseVersion parses a semantic version string in the form "1.2.3" into a
// packed integer ((major & 0xff) << 16) | ((minor & 0xff) << 8) | (patch & 0xff).
// Unparceable versions are returned as 0.
func parseVersion(vers string) int {
	var major, minor, patch int

	idx := strings.Index(vers, ".")
	if idx < 0 {
		major, _ = strconv.Atoi(vers)
		return (major & 0xff) << 16
	}
	major, _ = strconv.Atoi(vers[:idx])
	vers = vers[idx+1:]

	if idx = strings.Index(vers, "."); idx >= 0 {
		minor, _ = strconv.Atoi(vers[:idx])
		patch, _ = strconv.Atoi(vers[idx+1:])
	} else {
		minor, _ = strconv.Atoi(vers)
	}

	return ((major & 0xff) << 16) | ((minor & 0xff) << 8) | (patch & 0xff)
}

// versionToString converts a packed version back to semver form.
func versionToString(vers int) string {
	str := strconv.Itoa(vers>>16) + "." + strconv.Itoa((vers>>8)&0xff)
	if patch := vers & 0xff; patch > 0 {
		str += "." + strconv.Itoa(patch)
	}
	return str
}

// topicChannel returns the fan-out topic name of a channel.
func topicChannel(ch types.Uid) string {
	return ch.ChannelId()
}

// topicUser returns the fan-out topic name of a user.
func topicUser(user types.Uid) string {
	return user.UserId()
}
