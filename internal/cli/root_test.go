package cli

import (
	"io"
	"strings"
	"testing"

	"github.com/matzehuels/wireframe/pkg/observability"
)

func TestRootCommandSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	want := []string{"serve", "compose", "export", "manifest", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}

	for _, flag := range []string{"verbose", "config"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("persistent flag --%s missing", flag)
		}
	}
}

func TestCompletion(t *testing.T) {
	out, err := runCLI(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion error: %v", err)
	}
	if !strings.Contains(out, appName) {
		t.Error("bash completion should mention the command name")
	}

	if _, err := runCLI(t, "completion", "tcsh"); err == nil {
		t.Error("unsupported shell should be rejected")
	}
}

func TestVerboseInstallsHooks(t *testing.T) {
	t.Cleanup(observability.Reset)
	_, cfgPath := writeSite(t)

	if _, err := runCLI(t, "-v", "--config", cfgPath, "cache", "path"); err != nil {
		t.Fatal(err)
	}
	if _, ok := observability.Export().(logHooks); !ok {
		t.Errorf("export hooks = %T, want logHooks", observability.Export())
	}
}

func TestMissingConfigFile(t *testing.T) {
	if _, err := runCLI(t, "--config", "/does/not/exist.toml", "cache", "path"); err == nil {
		t.Error("an explicit missing config file should fail")
	}
}
