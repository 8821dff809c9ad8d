package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pravsels/deepwork/internal/block/common/log"
	"github.com/pravsels/deepwork/internal/block/domain"
)

func TestLoadDomains(t *testing.T) {
	path := filepath.Join(t.TempDir(), "distractions.txt")
	content := `# social media
reddit.com
twitter.com

  news.ycombinator.com
# end
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	domains, err := loadDomains(path, log.NewNoopLogger())
	require.NoError(t, err)
	assert.Equal(t, []string{"reddit.com", "twitter.com", "news.ycombinator.com"}, domains)
}

func TestLoadDomainsMissingFile(t *testing.T) {
	_, err := loadDomains(filepath.Join(t.TempDir(), "nope.txt"), log.NewNoopLogger())
	assert.True(t, domain.IsNotFound(err), "expected NotFoundError, got %v", err)
}

func TestLoadDomainsEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(path, []byte("\n# just a comment\n"), 0o644))

	domains, err := loadDomains(path, log.NewNoopLogger())
	require.NoError(t, err)
	assert.Empty(t, domains)
}
