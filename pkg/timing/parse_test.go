package timing

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pacefig/pkg/errors"
)

const fixture = "testdata/e3sm_timing.piControl"

func readFixture(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(fixture)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return string(data)
}

// setLine replaces the 1-indexed line n of content.
func setLine(t *testing.T, content string, n int, line string) string {
	t.Helper()
	lines := strings.Split(content, "\n")
	if n < 1 || n > len(lines) {
		t.Fatalf("line %d out of range (%d lines)", n, len(lines))
	}
	lines[n-1] = line
	return strings.Join(lines, "\n")
}

// dropLinesContaining removes every line containing substr.
func dropLinesContaining(content, substr string) string {
	var kept []string
	for _, l := range strings.Split(content, "\n") {
		if !strings.Contains(l, substr) {
			kept = append(kept, l)
		}
	}
	return strings.Join(kept, "\n")
}

func TestParseFixture(t *testing.T) {
	l, err := Parse(fixture, Options{})
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	wantTimes := map[Component]string{
		CPL: "45.21", ATM: "812.34", LND: "96.50", ICE: "150.75",
		OCN: "900.12", ROF: "20.40", WAV: "4.25",
	}
	for c, want := range wantTimes {
		if got := strconv.FormatFloat(l.RunTime[c], 'f', 2, 64); got != want {
			t.Errorf("RunTime[%s] = %s, want %s", c, got, want)
		}
		if !l.Reported[c] {
			t.Errorf("Reported[%s] = false, want true", c)
		}
	}

	wantRanges := map[Component]ProcessorRange{
		CPL: {0, 1024},
		ATM: {0, 1024},
		LND: {0, 640},
		ICE: {640, 1024},
		OCN: {1024, 1536},
		ROF: {0, 640},
		WAV: {1024, 1152},
	}
	for c, want := range wantRanges {
		if got := l.Ranges[c]; got != want {
			t.Errorf("Ranges[%s] = %v, want %v", c, got, want)
		}
	}

	if len(l.Components) != len(Components) {
		t.Errorf("Components = %v, want %v", l.Components, Components)
	}
	if l.Path != fixture {
		t.Errorf("Path = %q, want %q", l.Path, fixture)
	}
}

func TestParseTaskCountIsSpan(t *testing.T) {
	content := readFixture(t)
	l, err := ParseBytes("mem", []byte(content), Options{})
	if err != nil {
		t.Fatalf("ParseBytes() error: %v", err)
	}

	lines := strings.Split(content, "\n")
	for i := DefaultBlockStart - 1; i < DefaultBlockStart-1+DefaultBlockLines; i++ {
		fields := strings.Fields(lines[i])
		c, ok := ParseComponent(fields[0])
		if !ok {
			continue
		}
		tasks, _ := strconv.Atoi(fields[5])
		if got := l.Ranges[c].Tasks(); got != tasks {
			t.Errorf("%s: End-Start = %d, want task count %d", c, got, tasks)
		}
	}
}

func TestParseMissingRunTimeIsZero(t *testing.T) {
	content := dropLinesContaining(readFixture(t), "WAV Run Time")

	l, err := ParseBytes("mem", []byte(content), Options{})
	if err != nil {
		t.Fatalf("ParseBytes() error: %v", err)
	}
	if got := l.RunTime[WAV]; got != 0 {
		t.Errorf("RunTime[WAV] = %v, want 0", got)
	}
	if l.Reported[WAV] {
		t.Error("Reported[WAV] = true, want false")
	}
	if !l.Reported[OCN] {
		t.Error("Reported[OCN] = false, want true")
	}
	if got := l.Ranges[WAV]; got != (ProcessorRange{1024, 1152}) {
		t.Errorf("Ranges[WAV] = %v, want 1024-1152", got)
	}
}

func TestParseReportedZeroRunTime(t *testing.T) {
	content := strings.Replace(readFixture(t), "WAV Run Time:       4.250", "WAV Run Time:       0.000", 1)

	l, err := ParseBytes("mem", []byte(content), Options{})
	if err != nil {
		t.Fatalf("ParseBytes() error: %v", err)
	}
	if got := l.RunTime[WAV]; got != 0 {
		t.Errorf("RunTime[WAV] = %v, want 0", got)
	}
	if !l.Reported[WAV] {
		t.Error("Reported[WAV] = false, want true for an explicit 0.000")
	}
}

func TestParseMissingLayoutRow(t *testing.T) {
	// Line 23 is the rof row.
	content := setLine(t, readFixture(t), 23, "")

	_, err := ParseBytes("mem", []byte(content), Options{})
	if err == nil {
		t.Fatal("ParseBytes() should fail without a ROF layout row")
	}
	if !errors.Is(err, errors.ErrCodeMissingConfiguration) {
		t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeMissingConfiguration)
	}
	if got := errors.MissingComponent(err); got != "ROF" {
		t.Errorf("missing component = %q, want ROF", got)
	}
}

func TestParseShortRowIsReported(t *testing.T) {
	content := setLine(t, readFixture(t), 23, "  rof = mosart")

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	_, err := ParseBytes("mem", []byte(content), Options{Logger: logger})
	if errors.MissingComponent(err) != "ROF" {
		t.Fatalf("error = %v, want missing ROF", err)
	}
	if !strings.Contains(buf.String(), "layout row too short") {
		t.Errorf("expected a warning about the short row, got %q", buf.String())
	}
}

func TestParseMalformedNumbers(t *testing.T) {
	tests := []struct {
		name    string
		line    int
		text    string
		wantMsg string
	}{
		{"root PE", 19, "  atm = eam        1024        zero     1024   x 1       1      (1     )", "line 19"},
		{"task count", 20, "  lnd = elm        640         0        6x0    x 1       1      (1     )", "task count"},
		{"negative task count", 21, "  ice = mpassi     384         640      -384   x 1       1      (1     )", "negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := setLine(t, readFixture(t), tt.line, tt.text)
			_, err := ParseBytes("mem", []byte(content), Options{})
			if !errors.Is(err, errors.ErrCodeMalformedNumber) {
				t.Fatalf("error = %v, want %v", err, errors.ErrCodeMalformedNumber)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q should mention %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestParseMalformedRunTime(t *testing.T) {
	content := strings.Replace(readFixture(t), "ICE Run Time:     150.750", "ICE Run Time:     150.7.50", 1)

	_, err := ParseBytes("mem", []byte(content), Options{})
	if !errors.Is(err, errors.ErrCodeMalformedNumber) {
		t.Fatalf("error = %v, want %v", err, errors.ErrCodeMalformedNumber)
	}
	if !strings.Contains(err.Error(), "ICE") {
		t.Errorf("error %q should name ICE", err.Error())
	}
}

func TestParseIgnoresProseMentioningRunTime(t *testing.T) {
	// "CPL Run Time represents ..." precedes the real CPL line and must not match.
	l, err := Parse(fixture, Options{})
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if l.RunTime[CPL] != 45.21 {
		t.Errorf("RunTime[CPL] = %v, want 45.21", l.RunTime[CPL])
	}
}

func TestParseFileNotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "e3sm_timing.missing")

	_, err := Parse(path, Options{})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Fatalf("error = %v, want %v", err, errors.ErrCodeFileNotFound)
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("error %q should contain the attempted path", err.Error())
	}
}

func TestParseShortFile(t *testing.T) {
	lines := strings.Split(readFixture(t), "\n")
	// Keep through line 20: cpl, atm, lnd rows only.
	content := strings.Join(lines[:20], "\n")

	_, err := ParseBytes("mem", []byte(content), Options{})
	if got := errors.MissingComponent(err); got != "ICE" {
		t.Fatalf("missing component = %q (err %v), want ICE", got, err)
	}

	l, err := ParseBytes("mem", []byte(content), Options{Components: []Component{CPL, ATM, LND}})
	if err != nil {
		t.Fatalf("ParseBytes(subset) error: %v", err)
	}
	if l.Ranges[LND] != (ProcessorRange{0, 640}) {
		t.Errorf("Ranges[LND] = %v, want 0-640", l.Ranges[LND])
	}
}

func TestParseBlockOffset(t *testing.T) {
	content := "h1\nh2\nh3\nh4\n" + readFixture(t)

	_, err := ParseBytes("mem", []byte(content), Options{})
	if got := errors.MissingComponent(err); got != "WAV" {
		t.Fatalf("default window: missing component = %q (err %v), want WAV", got, err)
	}

	l, err := ParseBytes("mem", []byte(content), Options{BlockStart: 22})
	if err != nil {
		t.Fatalf("ParseBytes(BlockStart=22) error: %v", err)
	}
	if l.Ranges[WAV] != (ProcessorRange{1024, 1152}) {
		t.Errorf("Ranges[WAV] = %v, want 1024-1152", l.Ranges[WAV])
	}
}

func TestParseSubsetOrder(t *testing.T) {
	l, err := Parse(fixture, Options{Components: []Component{ICE, ATM}})
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(l.Components) != 2 || l.Components[0] != ICE || l.Components[1] != ATM {
		t.Errorf("Components = %v, want [ICE ATM]", l.Components)
	}
	if _, ok := l.RunTime[CPL]; ok {
		t.Error("RunTime should only contain requested components")
	}
	if !l.Has(ICE) || l.Has(CPL) {
		t.Error("Has() disagrees with Components")
	}
}

func TestParseInvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"unknown component", Options{Components: []Component{"GLC"}}},
		{"duplicate component", Options{Components: []Component{ATM, ATM}}},
		{"empty component list", Options{Components: []Component{}}},
		{"negative block start", Options{BlockStart: -1}},
		{"negative block lines", Options{BlockLines: -3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(fixture, tt.opts)
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("error = %v, want %v", err, errors.ErrCodeInvalidInput)
			}
		})
	}
}

func TestParseTwoComponentScenario(t *testing.T) {
	var b strings.Builder
	for i := 1; i < DefaultBlockStart; i++ {
		b.WriteString("header\n")
	}
	b.WriteString("  atm = eam   64   0    64   x 1   1   (1 )\n")
	b.WriteString("  ice = cice  32   64   32   x 1   1   (1 )\n")
	b.WriteString("\n    ATM Run Time : 120.5 seconds\n    ICE Run Time : 80.0 seconds\n")

	l, err := ParseBytes("mem", []byte(b.String()), Options{Components: []Component{ATM, ICE}})
	if err != nil {
		t.Fatalf("ParseBytes() error: %v", err)
	}
	if l.RunTime[ATM] != 120.5 || l.RunTime[ICE] != 80.0 {
		t.Errorf("RunTime = %v, want ATM 120.5, ICE 80.0", l.RunTime)
	}
	if l.Ranges[ATM] != (ProcessorRange{0, 64}) || l.Ranges[ICE] != (ProcessorRange{64, 96}) {
		t.Errorf("Ranges = %v, want ATM 0-64, ICE 64-96", l.Ranges)
	}
}
