package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/tickspec/packages/core/config"
	"github.com/abdul-hamid-achik/tickspec/packages/core/loader"
	"github.com/abdul-hamid-achik/tickspec/packages/core/parser"
	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	return runCLIContext(t, context.Background(), args...)
}

func runCLIContext(t *testing.T, ctx context.Context, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(ctx, append([]string{"--no-color"}, args...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeSpec(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestRun_AllPass(t *testing.T) {
	dir := t.TempDir()
	writeSpec(t, filepath.Join(dir, "a.spec.txt"), "Alpha\n\n|- true It works.")
	writeSpec(t, filepath.Join(dir, "nested", "b.spec.txt"), "Beta\n\n|- true Nested too.")

	code, stdout, stderr := runCLI(t, "run", dir)

	assert.Equal(t, ExitSuccess, code)
	assert.Empty(t, stderr)
	assert.Contains(t, stdout, "Alpha\n  ✔  It works\nBeta\n  ✔  Nested too\n")
	assert.Contains(t, stdout, "Assertions: 2 passed, 2 total")
}

func TestRun_RootCommandTakesPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "direct.txt")
	writeSpec(t, path, "Direct\n\n|- false Expected\n  one but got two.")

	code, stdout, stderr := runCLI(t, path)

	assert.Equal(t, ExitTestFailure, code)
	assert.Empty(t, stderr)
	assert.Contains(t, stdout, "Direct\n  ✖  Expected one but got two\n")
}

func TestRun_SymlinkedSpecIsDecided(t *testing.T) {
	target := filepath.Join(t.TempDir(), "shared.txt")
	writeSpec(t, target, "Shared\n\n|- false Broken.")

	dir := t.TempDir()
	if err := os.Symlink(target, filepath.Join(dir, "shared.spec.txt")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	code, stdout, _ := runCLI(t, dir)

	assert.Equal(t, ExitTestFailure, code)
	assert.Contains(t, stdout, "Shared\n  ✖  Broken\n")
	assert.Contains(t, stdout, "Specs:      1")
}

func TestRun_EmptyDirectorySucceeds(t *testing.T) {
	code, stdout, _ := runCLI(t, "run", t.TempDir())
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "Specs:      0")
}

func TestRun_MalformedReportsNothing(t *testing.T) {
	dir := t.TempDir()
	writeSpec(t, filepath.Join(dir, "a.spec.txt"), "Good\n\n|- true fine.")
	writeSpec(t, filepath.Join(dir, "b.spec.txt"), "Bad\n\nno markers")

	code, stdout, stderr := runCLI(t, "run", dir)

	assert.Equal(t, ExitParseError, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Error:")
	assert.Contains(t, stderr, "b.spec.txt")
	assert.Contains(t, stderr, "no assertions found")
}

func TestRun_NotFound(t *testing.T) {
	code, stdout, stderr := runCLI(t, "run", filepath.Join(t.TempDir(), "missing"))
	assert.Equal(t, ExitNotFound, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "specification not found")
}

func TestRun_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no path", nil},
		{"two paths", []string{"a", "b"}},
		{"run with two paths", []string{"run", "a", "b"}},
		{"unknown flag", []string{"run", "--format", "json", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, _ := runCLI(t, tt.args...)
			assert.Equal(t, ExitUsageError, code)
		})
	}
}

func TestRun_VerboseShowsPathsAndTokens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typo.spec.txt")
	writeSpec(t, path, "Typo\n\n|- ture Spelled wrong.")

	code, stdout, _ := runCLI(t, "run", "-v", path)

	assert.Equal(t, ExitTestFailure, code)
	assert.Contains(t, stdout, path)
	assert.Contains(t, stdout, `unrecognised token "ture"`)
}

func TestRun_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "custom.yaml")
	writeSpec(t, cfgPath, "pattern: \"*.check\"\njoin: first\n")
	writeSpec(t, filepath.Join(dir, "specs", "a.check"), "Custom\n\n|- true a\n b\n c.")
	writeSpec(t, filepath.Join(dir, "specs", "b.spec.txt"), "Skipped\n\nnothing")

	code, stdout, stderr := runCLI(t, "--config", cfgPath, "run", filepath.Join(dir, "specs"))

	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, stdout, "  ✔  a b\n c\n")
	assert.NotContains(t, stdout, "Skipped")
}

func TestRun_DebugLogging(t *testing.T) {
	t.Setenv("TICKSPEC_LOG_LEVEL", "debug")
	path := filepath.Join(t.TempDir(), "a.spec.txt")
	writeSpec(t, path, "Logged\n\n|- true ok.")

	code, stdout, stderr := runCLI(t, path)

	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "Logged\n  ✔  ok\n")
	assert.Contains(t, stderr, "resolved config")
	assert.Contains(t, stderr, "defaults=false")
	assert.Contains(t, stderr, "component=runner")
}

func TestRun_InvalidConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "bad.yaml")
	writeSpec(t, cfgPath, "join: sideways\n")

	code, _, stderr := runCLI(t, "--config", cfgPath, "run", t.TempDir())

	assert.Equal(t, ExitConfigError, code)
	assert.Contains(t, stderr, "cannot load config")
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	writeSpec(t, filepath.Join(dir, "a.spec.txt"), "Good\n\n|- true fine.\n|- false also parsed.")
	writeSpec(t, filepath.Join(dir, "b.spec.txt"), "Bad\n\n|-nospace.")
	writeSpec(t, filepath.Join(dir, "c.spec.txt"), "Worse")

	code, stdout, stderr := runCLI(t, "validate", dir)

	assert.Equal(t, ExitParseError, code)
	assert.Contains(t, stdout, "Valid: "+filepath.Join(dir, "a.spec.txt")+" (2 assertions)")
	assert.Contains(t, stderr, "b.spec.txt:3")
	assert.Contains(t, stderr, "c.spec.txt:1: missing blank line after title")
	assert.Contains(t, stderr, "2 of 3 files failed validation")
}

func TestValidate_AllValidDoesNotDecide(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.spec.txt")
	writeSpec(t, path, "Failing but valid\n\n|- false nope.")

	code, _, _ := runCLI(t, "validate", path)
	assert.Equal(t, ExitSuccess, code)
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	writeSpec(t, filepath.Join(dir, "a.spec.txt"), "Alpha\n\n|- true one.\n|- false two.")

	code, stdout, _ := runCLI(t, "list", dir)

	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, fmt.Sprintf("\n%s: Alpha\n  - one\n  - two\n", filepath.Join(dir, "a.spec.txt")), stdout)
}

func TestVersion(t *testing.T) {
	code, stdout, _ := runCLI(t, "version")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "tickspec version dev")
}

func TestCompletion(t *testing.T) {
	code, stdout, _ := runCLI(t, "completion", "bash")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "tickspec")

	code, _, _ = runCLI(t, "completion", "tcsh")
	assert.NotEqual(t, ExitSuccess, code)
}

func TestInitProject(t *testing.T) {
	dir := t.TempDir()
	cmd := newInitCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)

	require.NoError(t, initProject(cmd, dir, false))
	assert.Contains(t, out.String(), "Created: "+filepath.Join(dir, ".tickspec.yaml"))

	cfg, err := config.FindAndLoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, loader.DefaultPattern, cfg.Pattern)

	group, err := parser.ParseFile(filepath.Join(dir, "example.spec.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Arithmetic basics", group.Title)
	require.Len(t, group.Assertions, 3)
	assert.Equal(t, "Dividing by zero gives infinity", group.Assertions[2].Description)

	err = initProject(cmd, dir, false)
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, exitCodeFor(err))

	assert.NoError(t, initProject(cmd, dir, true))
}

func TestWatch_RunsOnceAndStopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	writeSpec(t, filepath.Join(dir, "a.spec.txt"), "Watched\n\n|- true ok.")

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	code, stdout, _ := runCLIContext(t, ctx, "watch", dir)

	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "Watched\n  ✔  ok\n")
	assert.Contains(t, stdout, "Watching for changes")
}

func TestWatch_Relevant(t *testing.T) {
	a := &app{cfg: config.DefaultConfig()}

	assert.True(t, a.relevant(fsnotify.Event{Name: "d/x.spec.txt", Op: fsnotify.Write}, "d", true))
	assert.True(t, a.relevant(fsnotify.Event{Name: "d/x.spec.txt", Op: fsnotify.Remove}, "d", true))
	assert.False(t, a.relevant(fsnotify.Event{Name: "d/x.txt", Op: fsnotify.Write}, "d", true))
	assert.False(t, a.relevant(fsnotify.Event{Name: "d/x.spec.txt", Op: fsnotify.Chmod}, "d", true))

	assert.True(t, a.relevant(fsnotify.Event{Name: "d/plain.txt", Op: fsnotify.Write}, "d/plain.txt", false))
	assert.False(t, a.relevant(fsnotify.Event{Name: "d/other.spec.txt", Op: fsnotify.Write}, "d/plain.txt", false))
}

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil", nil, ExitSuccess},
		{"assertions failed", errAssertionsFailed, ExitTestFailure},
		{"malformed", &parser.ParseError{File: "a", Message: "x"}, ExitParseError},
		{"not found", fmt.Errorf("%w: x", loader.ErrSpecificationNotFound), ExitNotFound},
		{"bad config", fmt.Errorf("%w: x", config.ErrInvalidConfig), ExitConfigError},
		{"bad pattern", loader.ErrBadPattern, ExitConfigError},
		{"explicit code", usageError(errors.New("x")), ExitUsageError},
		{"anything else", errors.New("disk on fire"), ExitTestFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, exitCodeFor(tt.err))
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("TICKSPEC_TEST_BOOL", "1")
	assert.True(t, getEnvBool("TICKSPEC_TEST_BOOL", false))

	t.Setenv("TICKSPEC_TEST_BOOL", "yes")
	assert.True(t, getEnvBool("TICKSPEC_TEST_BOOL", false))

	t.Setenv("TICKSPEC_TEST_BOOL", "false")
	assert.False(t, getEnvBool("TICKSPEC_TEST_BOOL", true))

	assert.True(t, getEnvBool("TICKSPEC_TEST_UNSET", true))
}
