package timing

import (
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pacefig/pkg/errors"
)

const (
	// DefaultBlockStart is the 1-indexed line where the PE layout table starts.
	DefaultBlockStart = 18

	// DefaultBlockLines is the number of lines in the PE layout table.
	DefaultBlockLines = 10
)

// Column positions (0-indexed) within a PE layout row.
const (
	colCode   = 0
	colRootPE = 4
	colTasks  = 5

	minRowFields    = 3
	minLayoutFields = colTasks + 1
)

// Options configures parsing. The zero value parses all known components
// from lines 18-27.
type Options struct {
	// Components restricts extraction to these codes, in this order.
	// Defaults to [Components].
	Components []Component

	// BlockStart is the 1-indexed first line of the PE layout table.
	BlockStart int

	// BlockLines is the number of lines in the PE layout table.
	BlockLines int

	// Logger receives format deviations. Defaults to a discarding logger.
	Logger *log.Logger
}

func (o *Options) setDefaults() error {
	if o.Components == nil {
		o.Components = Components
	}
	seen := make(map[Component]bool, len(o.Components))
	for _, c := range o.Components {
		if !c.Known() {
			return errors.New(errors.ErrCodeInvalidInput, "unknown component %q", string(c))
		}
		if seen[c] {
			return errors.New(errors.ErrCodeInvalidInput, "component %s listed twice", c)
		}
		seen[c] = true
	}
	if len(o.Components) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no components requested")
	}

	if o.BlockStart == 0 {
		o.BlockStart = DefaultBlockStart
	}
	if o.BlockLines == 0 {
		o.BlockLines = DefaultBlockLines
	}
	if o.BlockStart < 1 || o.BlockLines < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "invalid layout block: start %d, lines %d", o.BlockStart, o.BlockLines)
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// blockEnd returns the 1-indexed last line of the layout block.
func (o *Options) blockEnd() int { return o.BlockStart + o.BlockLines - 1 }

// Parse reads the timing log at path. A relative path is resolved against
// the working directory.
func Parse(path string, opts Options) (*Log, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "timing log not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "cannot read timing log %s", path)
	}
	return ParseBytes(path, data, opts)
}

// ParseBytes extracts run times and processor ranges from the contents of a
// timing log. path is only recorded in the result and in error messages.
func ParseBytes(path string, data []byte, opts Options) (*Log, error) {
	if err := opts.setDefaults(); err != nil {
		return nil, err
	}

	content := string(data)
	l := &Log{
		Path:       path,
		Components: append([]Component(nil), opts.Components...),
		RunTime:    make(map[Component]float64, len(opts.Components)),
		Reported:   make(map[Component]bool, len(opts.Components)),
		Ranges:     make(map[Component]ProcessorRange, len(opts.Components)),
	}

	for _, c := range opts.Components {
		secs, found, err := runTime(content, c)
		if err != nil {
			return nil, err
		}
		if !found {
			opts.Logger.Debug("no run time reported, assuming component did not run", "component", c)
		}
		l.RunTime[c] = secs
		l.Reported[c] = found
	}

	ranges, err := layoutBlock(content, &opts)
	if err != nil {
		return nil, err
	}
	for _, c := range opts.Components {
		r, ok := ranges[c]
		if !ok {
			return nil, errors.MissingConfiguration(string(c), opts.BlockStart, opts.blockEnd())
		}
		l.Ranges[c] = r
	}
	return l, nil
}

// runTimePatterns caches the run-time regexp per component.
var runTimePatterns = func() map[Component]*regexp.Regexp {
	m := make(map[Component]*regexp.Regexp, len(Components))
	for _, c := range Components {
		m[c] = regexp.MustCompile(regexp.QuoteMeta(string(c)) + ` Run Time\s*:\s*([\d.]+)\s*seconds`)
	}
	return m
}()

// runTime returns the first reported run time for c. A missing line is not
// an error; found is false and secs is 0.
func runTime(content string, c Component) (secs float64, found bool, err error) {
	m := runTimePatterns[c].FindStringSubmatch(content)
	if m == nil {
		return 0, false, nil
	}
	secs, err = strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, true, errors.Wrap(errors.ErrCodeMalformedNumber, err, "%s run time %q", c, m[1])
	}
	return secs, true, nil
}

// layoutBlock reads the PE layout table. Lines past the end of the file are
// ignored, so a short file simply yields fewer rows. Later rows for the same
// component replace earlier ones.
func layoutBlock(content string, opts *Options) (map[Component]ProcessorRange, error) {
	lines := strings.Split(content, "\n")
	first := opts.BlockStart - 1
	last := min(opts.blockEnd(), len(lines))

	wanted := make(map[Component]bool, len(opts.Components))
	for _, c := range opts.Components {
		wanted[c] = true
	}

	ranges := make(map[Component]ProcessorRange)
	for i := first; i < last; i++ {
		lineNo := i + 1
		fields := strings.Fields(lines[i])
		if len(fields) < minRowFields {
			continue
		}

		c := Component(strings.ToUpper(fields[colCode]))
		if !wanted[c] {
			opts.Logger.Debug("skipping layout row", "line", lineNo, "code", c)
			continue
		}
		if len(fields) < minLayoutFields {
			opts.Logger.Warn("layout row too short, expected root PE and task count",
				"line", lineNo, "component", c, "fields", len(fields))
			continue
		}

		root, err := strconv.Atoi(fields[colRootPE])
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedNumber, err,
				"line %d: %s root PE (field %d) %q", lineNo, c, colRootPE+1, fields[colRootPE])
		}
		tasks, err := strconv.Atoi(fields[colTasks])
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedNumber, err,
				"line %d: %s task count (field %d) %q", lineNo, c, colTasks+1, fields[colTasks])
		}
		if tasks < 0 {
			return nil, errors.New(errors.ErrCodeMalformedNumber,
				"line %d: %s task count (field %d) is negative: %d", lineNo, c, colTasks+1, tasks)
		}

		if prev, dup := ranges[c]; dup {
			opts.Logger.Warn("duplicate layout row, using the later one", "line", lineNo, "component", c, "previous", prev)
		}
		ranges[c] = ProcessorRange{Start: root, End: root + tasks}
	}
	return ranges, nil
}
