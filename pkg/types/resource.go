package types

import "strings"

// HashKind names the digest algorithm a sample identifier looks like.
type HashKind string

const (
	HashMD5     HashKind = "md5"
	HashSHA1    HashKind = "sha1"
	HashSHA256  HashKind = "sha256"
	HashUnknown HashKind = "unknown"
)

// KindOfHash guesses the digest algorithm from the length of a hex string.
// VirusTotal also accepts scan IDs as resources, which come back as unknown.
func KindOfHash(s string) HashKind {
	s = strings.TrimSpace(s)
	if !isHex(s) {
		return HashUnknown
	}
	switch len(s) {
	case 32:
		return HashMD5
	case 40:
		return HashSHA1
	case 64:
		return HashSHA256
	default:
		return HashUnknown
	}
}

// JoinResources builds the comma separated resource list used by file
// report and rescan queries.
func JoinResources(hashes []string) string {
	return strings.Join(hashes, ",")
}

// JoinURLs builds the newline separated list used by URL queries.
func JoinURLs(urls []string) string {
	return strings.Join(urls, "\n")
}

func isHex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
