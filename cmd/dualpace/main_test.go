package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	write := func(rel, body string) {
		p := filepath.Join(root, "posts", rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	write("en/current.mdx", "---\ntitle: Current\ndate: 2026-02-11\ncategory: training\n---\nBody\n")
	write("en/same.mdx", "---\ntitle: Same Category\ndate: 2026-02-09\ncategory: training\n---\nBody\n")
	write("en/other.mdx", "---\ntitle: Other\ndate: 2026-02-10\ncategory: dual-life\n---\nBody\n")
	write("es/otra.mdx", "---\ntitle: Otra\ndate: 2026-02-12\ncategory: training\n---\nCuerpo\n")
	return root
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCheckPasses(t *testing.T) {
	root := fixture(t)
	out, err := run(t, "check", "--config", filepath.Join(root, "none.yaml"), "--env-file", "", "--posts", filepath.Join(root, "posts"))
	require.NoError(t, err)
	assert.Contains(t, out, "4 posts checked, 0 invalid")
}

func TestCheckReportsEveryField(t *testing.T) {
	root := fixture(t)
	bad := filepath.Join(root, "posts", "en", "bad.mdx")
	require.NoError(t, os.WriteFile(bad, []byte("---\ntitle: \"\"\ndate: tomorrow\ncategory: training\nbpm: -4\n---\n"), 0o644))

	out, err := run(t, "check", "--config", filepath.Join(root, "none.yaml"), "--env-file", "", "--posts", filepath.Join(root, "posts"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errCheckFailed))
	assert.Contains(t, out, "en/bad: title:")
	assert.Contains(t, out, "en/bad: date:")
	assert.Contains(t, out, "en/bad: bpm:")
	assert.Contains(t, out, "5 posts checked, 1 invalid")
}

func TestRelatedCommand(t *testing.T) {
	root := fixture(t)
	out, err := run(t, "related", "current", "--config", filepath.Join(root, "none.yaml"), "--env-file", "", "--posts", filepath.Join(root, "posts"))
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace([]byte(out)), []byte("\n"))
	require.Len(t, lines, 2)
	assert.Contains(t, string(lines[0]), "same")
	assert.Contains(t, string(lines[1]), "other")
}

func TestEnvOverridesConfig(t *testing.T) {
	root := fixture(t)
	cfgPath := filepath.Join(root, "site.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("content:\n  posts_dir: /nowhere\n"), 0o644))
	t.Setenv("DUALPACE_CONTENT_POSTS_DIR", filepath.Join(root, "posts"))

	out, err := run(t, "check", "--config", cfgPath, "--env-file", "")
	require.NoError(t, err)
	assert.Contains(t, out, "4 posts checked")
}

func TestInvalidConfigIsRejected(t *testing.T) {
	root := fixture(t)
	_, err := run(t, "check", "--config", filepath.Join(root, "none.yaml"), "--env-file", "", "--invalid-policy", "ignore")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "content.invalid_policy")
}
