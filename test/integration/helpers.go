//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"strings"
	"testing"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	BaseURL    string
	APIKey     string
	SrcomPath  string
	Verbose    bool
	GameSearch string
}

// LoadTestConfig loads configuration from environment variables
func LoadTestConfig() *TestConfig {
	game := os.Getenv("SRCOM_TEST_GAME")
	if game == "" {
		game = "super mario 64"
	}

	return &TestConfig{
		BaseURL:    os.Getenv("SRCOM_BASE_URL"),
		APIKey:     os.Getenv("SRCOM_API_KEY"),
		SrcomPath:  getSrcomPath(),
		Verbose:    os.Getenv("SRCOM_VERBOSE") == "true",
		GameSearch: game,
	}
}

// getSrcomPath determines the path to the srcom binary
func getSrcomPath() string {
	if path := os.Getenv("SRCOM_BINARY_PATH"); path != "" {
		return path
	}

	candidates := []string{
		"../../srcom",
		"./srcom",
		"../srcom",
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "srcom"
}

// SkipUnlessEnabled skips tests that talk to the live API unless
// SRCOM_INTEGRATION=1.
func (config *TestConfig) SkipUnlessEnabled(t *testing.T) {
	t.Helper()

	if os.Getenv("SRCOM_INTEGRATION") != "1" {
		t.Skip("SRCOM_INTEGRATION not set, skipping integration test")
	}
}

// SkipIfMissingBinary skips CLI tests when the srcom binary is not built.
func (config *TestConfig) SkipIfMissingBinary(t *testing.T) {
	t.Helper()

	config.SkipUnlessEnabled(t)

	if _, err := exec.LookPath(config.SrcomPath); err != nil {
		t.Skipf("srcom binary not found at %s, skipping integration test", config.SrcomPath)
	}
}

// SkipIfMissingAPIKey skips tests that need an authenticated user.
func (config *TestConfig) SkipIfMissingAPIKey(t *testing.T) {
	t.Helper()

	if config.APIKey == "" {
		t.Skip("SRCOM_API_KEY not set, skipping authenticated test")
	}
}

// CommandRunner provides utilities for running srcom commands
type CommandRunner struct {
	config *TestConfig
	t      *testing.T
	home   string
}

// NewCommandRunner creates a command runner with an isolated HOME, so the
// user's ~/.srcom is never read or written.
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	t.Helper()

	return &CommandRunner{
		config: config,
		t:      t,
		home:   t.TempDir(),
	}
}

// Run executes a srcom command and returns output
func (runner *CommandRunner) Run(args ...string) (stdout, stderr string, err error) {
	return runner.RunWithInput("", args...)
}

// RunWithInput executes a srcom command with stdin input
func (runner *CommandRunner) RunWithInput(input string, args ...string) (stdout, stderr string, err error) {
	cmd := exec.Command(runner.config.SrcomPath, args...)
	cmd.Env = append(os.Environ(), "HOME="+runner.home)

	if runner.config.BaseURL != "" {
		cmd.Env = append(cmd.Env, "SRCOM_BASE_URL="+runner.config.BaseURL)
	}

	var stdoutBuf, stderrBuf bytes.Buffer

	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf
	cmd.Stdin = strings.NewReader(input)

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.SrcomPath, strings.Join(args, " "))
	}

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// RunJSON executes a srcom command with -o json and decodes its output.
func (runner *CommandRunner) RunJSON(target interface{}, args ...string) error {
	stdout, _, err := runner.Run(append(args, "-o", "json")...)
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(stdout), target)
}

// AssertJSONOutput verifies command output is valid JSON
func AssertJSONOutput(t *testing.T, output string) {
	t.Helper()

	if !json.Valid([]byte(strings.TrimSpace(output))) {
		t.Errorf("Output is not JSON: %s", output)
	}
}

// AssertYAMLOutput verifies command output looks like YAML
func AssertYAMLOutput(t *testing.T, output string) {
	t.Helper()

	output = strings.TrimSpace(output)
	if strings.Contains(output, "---") || strings.Contains(output, ":") {
		return
	}

	t.Errorf("Output does not appear to be YAML: %s", output)
}
