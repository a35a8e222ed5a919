package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/pacefig/pkg/errors"
	"github.com/matzehuels/pacefig/pkg/timing"
)

const fixture = "../../pkg/timing/testdata/e3sm_timing.piControl"

// runCLI executes the root command with args and returns what it printed.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, logs bytes.Buffer
	c := New(&logs, LogInfo)
	c.Out = &out

	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommandWritesFigure(t *testing.T) {
	out := filepath.Join(t.TempDir(), "pace.png")

	stdout, err := runCLI(t, "-o", out, fixture)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("figure not written: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("figure is not a PNG")
	}
	for _, c := range timing.Components {
		if !strings.Contains(stdout, string(c)) {
			t.Errorf("output missing component %s", c)
		}
	}
	if !strings.Contains(stdout, out) {
		t.Errorf("output does not name %s:\n%s", out, stdout)
	}
	if !strings.Contains(stdout, "canonical stacking") {
		t.Errorf("output does not report the stacking policy:\n%s", stdout)
	}
}

func TestRootCommandQuiet(t *testing.T) {
	out := filepath.Join(t.TempDir(), "pace.png")

	stdout, err := runCLI(t, "-q", "-o", out, fixture)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if strings.Contains(stdout, "Run Time (s)") {
		t.Errorf("quiet run printed the component table:\n%s", stdout)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("figure not written: %v", err)
	}
}

func TestFlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "from-config.svg")
	cfg := filepath.Join(dir, "pacefig.toml")
	content := "output = " + `"` + filepath.ToSlash(out) + `"` + "\nstacking = \"root-pe\"\nformat = \"svg\"\n"
	if err := os.WriteFile(cfg, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	stdout, err := runCLI(t, "--config", cfg, "--format", "png", fixture)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("config output path not used: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("--format did not override the config format")
	}
	if !strings.Contains(stdout, "root-pe stacking") {
		t.Errorf("config stacking not applied:\n%s", stdout)
	}
}

func TestInvalidFlagsWriteNothing(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"format", []string{"-f", "gif"}, errors.ErrCodeInvalidFormat},
		{"stacking", []string{"--stacking", "tallest"}, errors.ErrCodeInvalidPolicy},
		{"component", []string{"--components", "OCN,GLC"}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "pace.png")
			args := append([]string{"-o", out}, tt.args...)

			_, err := runCLI(t, append(args, fixture)...)
			if got := errors.GetCode(err); got != tt.code {
				t.Fatalf("code = %q, want %q (err: %v)", got, tt.code, err)
			}
			if _, err := os.Stat(out); !os.IsNotExist(err) {
				t.Error("figure written despite invalid flags")
			}
		})
	}
}

func TestRootCommandMissingFile(t *testing.T) {
	_, err := runCLI(t, "-o", filepath.Join(t.TempDir(), "pace.png"), "does-not-exist.log")
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Fatalf("err = %v, want FILE_NOT_FOUND", err)
	}
	if !strings.Contains(err.Error(), "does-not-exist.log") {
		t.Errorf("error %q does not name the file", err)
	}
}

func TestRootCommandRequiresFile(t *testing.T) {
	if _, err := runCLI(t); err == nil {
		t.Error("expected an error without a timing file")
	}
}

func TestSummaryCommand(t *testing.T) {
	stdout, err := runCLI(t, "summary", fixture)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, want := range []string{"CPL", "coupler", "ROF", "river-routing", "1024-1536", "900.120", "1536", "canonical"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("summary missing %q:\n%s", want, stdout)
		}
	}
}

func TestSummaryCommandSubset(t *testing.T) {
	stdout, err := runCLI(t, "summary", "--components", "ocn,wav", fixture)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if strings.Contains(stdout, "atmosphere") {
		t.Errorf("summary lists unrequested components:\n%s", stdout)
	}
	if !strings.Contains(stdout, "root-pe") {
		t.Errorf("subset should resolve to root-pe stacking:\n%s", stdout)
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			stdout, err := runCLI(t, "completion", shell)
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			if !strings.Contains(stdout, appName) {
				t.Errorf("%s completion does not mention %s", shell, appName)
			}
		})
	}
}

func TestVersionFlag(t *testing.T) {
	stdout, err := runCLI(t, "--version")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(stdout, appName+" version") {
		t.Errorf("version output = %q", stdout)
	}
}

func TestWarnMissingRunTimes(t *testing.T) {
	l := &timing.Log{
		Path:       "e3sm_timing.test",
		Components: []timing.Component{timing.ATM, timing.ICE, timing.WAV},
		RunTime:    map[timing.Component]float64{timing.ATM: 812.34, timing.ICE: 0},
		Reported:   map[timing.Component]bool{timing.ATM: true, timing.ICE: true},
	}
	var buf bytes.Buffer
	warnMissingRunTimes(&buf, l)

	out := buf.String()
	if !strings.Contains(out, "WAV has no run time in e3sm_timing.test") {
		t.Errorf("missing WAV warning in %q", out)
	}
	for _, quiet := range []string{"ATM", "ICE"} {
		if strings.Contains(out, quiet+" has no run time") {
			t.Errorf("unexpected %s warning in %q", quiet, out)
		}
	}
}
