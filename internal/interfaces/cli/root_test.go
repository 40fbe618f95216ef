package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFile creates name under dir with content and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

// runCLI executes the root command with a throwaway config file and returns
// stdout and stderr.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cfgPath := writeFile(t, t.TempDir(), "pulse.yaml", "server:\n  port: 18080\nlog:\n  level: error\n")

	root := NewRootCommand()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--config", cfgPath, "--no-color"}, args...))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestNewRootCommand_Structure(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "pulse", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
	assert.Contains(t, cmd.Version, Version)
}

func TestNewRootCommand_Subcommands(t *testing.T) {
	cmd := NewRootCommand()
	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"board", "migrate", "records"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
}

func TestNewRootCommand_GlobalFlags(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"config", "log-level", "output", "verbose", "no-color", "timeout", "server"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "missing flag %q", name)
	}
	assert.Equal(t, "table", cmd.PersistentFlags().Lookup("output").DefValue)
	assert.Equal(t, "30s", cmd.PersistentFlags().Lookup("timeout").DefValue)
}

func TestPersistentPreRun_BuildsContext(t *testing.T) {
	cfgPath := writeFile(t, t.TempDir(), "pulse.yaml", "server:\n  port: 18081\n")
	cmd := &cobra.Command{Use: "probe"}
	cmd.SetContext(context.Background())

	err := persistentPreRun(cmd, &RootOptions{ConfigPath: cfgPath, LogLevel: "error", OutputFormat: "json"})
	require.NoError(t, err)

	cliCtx, err := GetCLIContext(cmd)
	require.NoError(t, err)
	assert.Equal(t, 18081, cliCtx.Config.Server.Port)
	assert.Equal(t, "json", cliCtx.OutputFormat)
	assert.NotNil(t, cliCtx.Logger)
	assert.NotNil(t, cliCtx.Client)
}

func TestPersistentPreRun_MissingConfigFile(t *testing.T) {
	cmd := &cobra.Command{Use: "probe"}
	cmd.SetContext(context.Background())
	err := persistentPreRun(cmd, &RootOptions{ConfigPath: filepath.Join(t.TempDir(), "absent.yaml")})
	assert.Error(t, err)
}

func TestGetCLIContext_Missing(t *testing.T) {
	cmd := &cobra.Command{Use: "probe"}
	cmd.SetContext(context.Background())
	_, err := GetCLIContext(cmd)
	assert.Error(t, err)
}

func TestFormatTable(t *testing.T) {
	out, err := FormatTable([]string{"ID", "Name"}, [][]string{{"p1", "Alpha"}, {"p2"}})
	require.NoError(t, err)
	assert.Contains(t, out, "p1")
	assert.Contains(t, out, "Alpha")
	assert.Contains(t, out, "p2")
	assert.Contains(t, strings.ToUpper(out), "NAME")

	out, err = FormatTable(nil, [][]string{{"x"}})
	require.NoError(t, err)
	assert.Empty(t, out)
}

type fakeTable struct{}

func (fakeTable) TableHeaders() []string { return []string{"K"} }
func (fakeTable) TableRows() [][]string  { return [][]string{{"v1"}} }
func (fakeTable) String() string         { return "text-form" }

func TestPrintResult_Formats(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"json", "{}"},
		{"table", "v1"},
		{"text", "text-form"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			cmd := &cobra.Command{Use: "probe"}
			var buf bytes.Buffer
			cmd.SetOut(&buf)
			cmd.SetContext(context.WithValue(context.Background(), cliContextKey{}, &CLIContext{OutputFormat: tt.format}))

			require.NoError(t, PrintResult(cmd, fakeTable{}))
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestPrintResult_NoContextFallsBackToJSON(t *testing.T) {
	cmd := &cobra.Command{Use: "probe"}
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetContext(context.Background())

	require.NoError(t, PrintResult(cmd, map[string]int{"a": 1}))
	assert.JSONEq(t, `{"a":1}`, buf.String())
}

func TestPrintErrorAndSuccess(t *testing.T) {
	cmd := &cobra.Command{Use: "probe"}
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	PrintError(cmd, nil)
	assert.Empty(t, errOut.String())

	PrintError(cmd, assert.AnError)
	assert.Contains(t, errOut.String(), assert.AnError.Error())

	PrintSuccess(cmd, "done")
	assert.Contains(t, out.String(), "done")
}

func TestExecute_UnknownSubcommand(t *testing.T) {
	_, _, err := runCLI(t, "no-such-command")
	assert.Error(t, err)
}

//Personal.AI order the ending
