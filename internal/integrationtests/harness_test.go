package integrationtests

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/specialistvlad/hiermodel/internal/cli"
	"github.com/specialistvlad/hiermodel/internal/export"
	"github.com/specialistvlad/hiermodel/internal/testutil"
)

// harnessResult holds everything observable about one CLI run.
type harnessResult struct {
	Root      string
	Output    string
	LogOutput string
	Err       error
}

// runIntegrationTest writes files into a temp dir and runs the CLI with
// args, where "{root}" in an argument is replaced by that directory.
func runIntegrationTest(t *testing.T, files map[string]string, args ...string) *harnessResult {
	t.Helper()
	root := testutil.WriteFiles(t, files)

	full := []string{"--log-level", "debug", "--color", "off"}
	for _, a := range args {
		if a == "{root}" {
			a = root
		} else if len(a) > 7 && a[:7] == "{root}/" {
			a = filepath.Join(root, a[7:])
		}
		full = append(full, a)
	}

	var out bytes.Buffer
	logs := &testutil.SafeBuffer{}
	err := cli.Execute(context.Background(), full, &out, logs)
	t.Cleanup(func() {
		if os.Getenv("HIERMODEL_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})
	return &harnessResult{Root: root, Output: out.String(), LogOutput: logs.String(), Err: err}
}

// readDocument decodes a per-model MessagePack result file.
func readDocument(t *testing.T, path string) *export.Document {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc export.Document
	require.NoError(t, msgpack.Unmarshal(raw, &doc))
	return &doc
}
