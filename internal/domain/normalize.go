package domain

import (
	"net/url"
	"strings"
)

// Hosting domains whose web "commits" page URLs can be rewritten into a
// fetchable .git address.
var commitsPageHosts = []string{"gitee.com", "github.com", "gitlab.com"}

// Normalize turns a user-supplied repository URL into a canonical fetch URL.
// A URL already ending in .git passes through unchanged; a recognized host's
// commits page ("https://gitee.com/org/repo/commits/master") is rewritten to
// the bare .git address. Anything else passes through so the prober can
// attempt it directly. Normalize never fails and never touches the network.
func Normalize(rawURL string) string {
	if strings.HasSuffix(rawURL, ".git") {
		return rawURL
	}

	u, err := url.Parse(rawURL)
	if err != nil || !recognizedHost(u.Hostname()) {
		return rawURL
	}

	idx := strings.Index(u.Path, "/commits")
	if idx < 0 {
		return rawURL
	}
	// Must be a whole path segment, not a repo named "commitstream".
	rest := u.Path[idx+len("/commits"):]
	if rest != "" && !strings.HasPrefix(rest, "/") {
		return rawURL
	}
	repoPath := strings.TrimRight(u.Path[:idx], "/")
	if repoPath == "" {
		return rawURL
	}

	u.Path = repoPath + ".git"
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

func recognizedHost(host string) bool {
	for _, h := range commitsPageHosts {
		if host == h || host == "www."+h {
			return true
		}
	}
	return false
}
