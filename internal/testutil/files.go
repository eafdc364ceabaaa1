package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteFiles writes files, keyed by slash-separated relative path, into a
// fresh temporary directory and returns its path.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

// WeeklyCSV is WeeklyFrame as CSV text.
const WeeklyCSV = `week,age_group,count
1,00+,10
1,05-14,11
1,15+,12
2,00+,20
2,05-14,21
2,15+,22
3,00+,30
3,05-14,31
3,15+,32
4,00+,40
4,05-14,41
4,15+,42
`
