// Package urls derives shareable web URLs (repository, commit, file,
// line range) from raw VCS remote strings, covering the URL dialects of
// the common hosting providers.
package urls

import (
	"fmt"
	"regexp"
	"strings"
)

// Hosts with non-default URL dialects.
const (
	hostAzure     = "dev.azure.com"
	hostSourceHut = "git.sr.ht"
	hostBitbucket = "bitbucket.org"
)

// rewriteRule rewrites a raw remote string into its canonical https form.
type rewriteRule struct {
	pattern *regexp.Regexp
	replace string
}

// canonicalRules are tried in order; the first match wins. Azure DevOps SSH
// remotes carry no ".git" suffix, so the plain ssh rule (which requires the
// suffix) cannot shadow them.
var canonicalRules = []rewriteRule{
	{regexp.MustCompile(`^git@(.+):(.+)\.git$`), "https://$1/$2"},
	{regexp.MustCompile(`^git@ssh\.dev\.azure\.com:v\d+/([^/]+)/([^/]+)/([^/]+)$`), "https://dev.azure.com/$1/$2/_git/$3"},
	{regexp.MustCompile(`^git@ssh\.dev\.azure\.com:(?:v\d+/)?([^/]+)/([^/]+)/_git/([^/]+)$`), "https://dev.azure.com/$1/$2/_git/$3"},
	{regexp.MustCompile(`^https://(?:[^@/]+@)?dev\.azure\.com/([^/]+)/([^/]+)/_git/([^/]+)$`), "https://dev.azure.com/$1/$2/_git/$3"},
	{regexp.MustCompile(`^ssh://git@([^/:]+)(?::\d+)?/(.+?)(?:\.git)?$`), "https://$1/$2"},
	{regexp.MustCompile(`^git@(.+):(.+)$`), "https://$1/$2"},
	{regexp.MustCompile(`^(https://.+)\.git$`), "$1"},
	{regexp.MustCompile(`^git@(.+)$`), "https://$1"},
}

// Canonicalize normalizes a raw remote string into its canonical
// https://host/path form. Unrecognized shapes are returned unchanged: an
// odd remote degrades to a best-effort URL, never an error.
func Canonicalize(raw string) string {
	raw = strings.TrimSpace(raw)

	for _, rule := range canonicalRules {
		if rule.pattern.MatchString(raw) {
			return rule.pattern.ReplaceAllString(raw, rule.replace)
		}
	}

	return raw
}

// CommitURL returns the web URL of one commit on the remote's host.
func CommitURL(raw, sha string) string {
	repo := Canonicalize(raw)

	if host(repo) == hostBitbucket {
		return repo + "/commits/" + sha
	}

	return repo + "/commit/" + sha
}

// FileURL returns the web URL of a file at ref, optionally narrowed to a
// line or line range. Lines are 1-based; zero means absent. The path
// segment and the line-suffix dialect vary by host: SourceHut browses under
// /tree, Azure DevOps addresses files by query parameter (its UI resolves
// the ref separately and does not reliably support sha-based paths).
func FileURL(raw, ref, relPath string, line1, line2 int) string {
	repo := Canonicalize(raw)

	switch {
	case host(repo) == hostAzure:
		fileURL := repo + "?path=%2F" + strings.ReplaceAll(relPath, "/", "%2F")

		return fileURL + azureLineSuffix(line1, line2)
	case strings.Contains(host(repo), hostSourceHut):
		return repo + "/tree/" + ref + "/" + relPath + fragmentLineSuffix(line1, line2, "-")
	default:
		return repo + "/blob/" + ref + "/" + relPath + fragmentLineSuffix(line1, line2, "-L")
	}
}

// fragmentLineSuffix builds the "#L..." anchor. rangeSep separates the two
// ends of a multi-line range ("-" on SourceHut, "-L" elsewhere).
func fragmentLineSuffix(line1, line2 int, rangeSep string) string {
	switch {
	case line1 == 0:
		return ""
	case line2 == 0 || line2 == line1:
		return fmt.Sprintf("#L%d", line1)
	default:
		return fmt.Sprintf("#L%d%s%d", line1, rangeSep, line2)
	}
}

// azureLineSuffix builds Azure's query-parameter line selection. lineEnd is
// exclusive, hence the +1.
func azureLineSuffix(line1, line2 int) string {
	if line1 == 0 {
		return ""
	}

	end := line1
	if line2 > line1 {
		end = line2
	}

	return fmt.Sprintf("&line=%d&lineEnd=%d&lineStartColumn=1&lineEndColumn=1", line1, end+1)
}

// host extracts the host part of a canonical https URL; "" for anything
// else.
func host(canonical string) string {
	rest, ok := strings.CutPrefix(canonical, "https://")
	if !ok {
		return ""
	}

	if idx := strings.IndexByte(rest, '/'); idx >= 0 {
		return rest[:idx]
	}

	return rest
}
