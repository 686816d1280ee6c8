package commands_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/bfcheck/cmd/bfcheck/commands"
)

const (
	fixturePerm  = 0o600
	baseConfig   = "logging:\n  level: warn\n"
	configName   = "bfcheck.yaml"
	validBFile   = "# A000045\n0 0\n1 1\n2 1\n3 2\n\n"
	shortBFile   = "0 0\n1 1\n2 1\n\n"
	divergeBFile = "0 0\n1 1\n2 7\n3 2\n\n"
)

// cliResult holds the captured streams and error of one CLI invocation.
type cliResult struct {
	err    error
	stdout string
	stderr string
}

func (r cliResult) exitCode() int {
	return commands.ExitCode(r.err)
}

// runCLI executes the root command with a fresh config file.
func runCLI(t *testing.T, args ...string) cliResult {
	t.Helper()

	return runCLIWithConfig(t, baseConfig, args...)
}

func runCLIWithConfig(t *testing.T, configBody string, args ...string) cliResult {
	t.Helper()

	stdout := new(bytes.Buffer)
	res := runCLITo(t, stdout, configBody, args...)
	res.stdout = stdout.String()

	return res
}

// runCLITo executes the root command with stdout sent to out.
func runCLITo(t *testing.T, out io.Writer, configBody string, args ...string) cliResult {
	t.Helper()

	configPath := writeFixture(t, configName, configBody)

	rootCmd := commands.NewRootCommand()
	stderr := new(bytes.Buffer)

	rootCmd.SetOut(out)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(append([]string{"--config", configPath}, args...))

	err := rootCmd.Execute()

	return cliResult{err: err, stderr: stderr.String()}
}

var errClosedPipe = errors.New("closed pipe")

// brokenWriter fails every write, like a stdout whose reader has gone away.
type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) {
	return 0, errClosedPipe
}

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), fixturePerm))

	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	return string(data)
}
