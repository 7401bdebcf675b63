package urls_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/blameline/blameline/internal/urls"
)

func TestCanonicalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "github ssh",
			raw:  "git@github.com:foo/bar.git",
			want: "https://github.com/foo/bar",
		},
		{
			name: "gitlab ssh nested groups",
			raw:  "git@gitlab.com:group/sub/project.git",
			want: "https://gitlab.com/group/sub/project",
		},
		{
			name: "azure ssh v3",
			raw:  "git@ssh.dev.azure.com:v3/myorg/myproject/myrepo",
			want: "https://dev.azure.com/myorg/myproject/_git/myrepo",
		},
		{
			name: "azure ssh underscore git",
			raw:  "git@ssh.dev.azure.com:myorg/myproject/_git/myrepo",
			want: "https://dev.azure.com/myorg/myproject/_git/myrepo",
		},
		{
			name: "azure https with user",
			raw:  "https://myorg@dev.azure.com/myorg/myproject/_git/myrepo",
			want: "https://dev.azure.com/myorg/myproject/_git/myrepo",
		},
		{
			name: "ssh scheme with port",
			raw:  "ssh://git@example.com:2222/foo/bar.git",
			want: "https://example.com/foo/bar",
		},
		{
			name: "ssh scheme without suffix",
			raw:  "ssh://git@git.sr.ht/~user/project",
			want: "https://git.sr.ht/~user/project",
		},
		{
			name: "https with git suffix",
			raw:  "https://github.com/foo/bar.git",
			want: "https://github.com/foo/bar",
		},
		{
			name: "ssh without git suffix",
			raw:  "git@bitbucket.org:team/repo",
			want: "https://bitbucket.org/team/repo",
		},
		{
			name: "https passthrough",
			raw:  "https://github.com/foo/bar",
			want: "https://github.com/foo/bar",
		},
		{
			name: "unrecognized returned unchanged",
			raw:  "file:///srv/git/bar",
			want: "file:///srv/git/bar",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, urls.Canonicalize(tc.raw))
		})
	}
}

func TestCommitURL(t *testing.T) {
	t.Parallel()

	const sha = "aaaa111122223333444455556666777788889999"

	assert.Equal(t,
		"https://github.com/foo/bar/commit/"+sha,
		urls.CommitURL("git@github.com:foo/bar.git", sha))

	// Bitbucket pluralizes the path segment.
	assert.Equal(t,
		"https://bitbucket.org/team/repo/commits/"+sha,
		urls.CommitURL("git@bitbucket.org:team/repo.git", sha))
}

func TestFileURL_Default(t *testing.T) {
	t.Parallel()

	const remote = "git@github.com:foo/bar.git"

	assert.Equal(t,
		"https://github.com/foo/bar/blob/main/src/a.txt",
		urls.FileURL(remote, "main", "src/a.txt", 0, 0))

	assert.Equal(t,
		"https://github.com/foo/bar/blob/main/src/a.txt#L10",
		urls.FileURL(remote, "main", "src/a.txt", 10, 0))

	assert.Equal(t,
		"https://github.com/foo/bar/blob/main/src/a.txt#L10",
		urls.FileURL(remote, "main", "src/a.txt", 10, 10))

	assert.Equal(t,
		"https://github.com/foo/bar/blob/main/src/a.txt#L10-L14",
		urls.FileURL(remote, "main", "src/a.txt", 10, 14))
}

func TestFileURL_SourceHut(t *testing.T) {
	t.Parallel()

	const remote = "git@git.sr.ht:~user/project"

	assert.Equal(t,
		"https://git.sr.ht/~user/project/tree/main/src/a.txt#L5",
		urls.FileURL(remote, "main", "src/a.txt", 5, 0))

	assert.Equal(t,
		"https://git.sr.ht/~user/project/tree/main/src/a.txt#L5-8",
		urls.FileURL(remote, "main", "src/a.txt", 5, 8))
}

func TestFileURL_Azure(t *testing.T) {
	t.Parallel()

	const remote = "git@ssh.dev.azure.com:v3/myorg/myproject/myrepo"
	const base = "https://dev.azure.com/myorg/myproject/_git/myrepo?path=%2Fsrc%2Fa.txt"

	// The ref is ignored: Azure's UI resolves it separately.
	assert.Equal(t, base, urls.FileURL(remote, "main", "src/a.txt", 0, 0))

	assert.Equal(t,
		base+"&line=10&lineEnd=11&lineStartColumn=1&lineEndColumn=1",
		urls.FileURL(remote, "main", "src/a.txt", 10, 0))

	assert.Equal(t,
		base+"&line=10&lineEnd=15&lineStartColumn=1&lineEndColumn=1",
		urls.FileURL(remote, "main", "src/a.txt", 10, 14))
}
