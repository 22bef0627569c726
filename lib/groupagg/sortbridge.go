package groupagg

import (
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// SortSpec parameterizes the external sort bridge: the group-by columns to
// sort on, the field delimiter to tell `sort` about, and the
// case-fold/stable flags carried over from TextOptions.
type SortSpec struct {
	KeyFields       []int
	Delim           FieldDelim
	CaseInsensitive bool
	Stable          bool
}

// NewSortSpec derives a SortSpec from a resolved group-by column list and
// the run's TextOptions.
func NewSortSpec(groupIdx []int, opts *TextOptions) *SortSpec {
	return &SortSpec{
		KeyFields:       groupIdx,
		Delim:           opts.InputDelim,
		CaseInsensitive: opts.CaseInsensitive,
		Stable:          true,
	}
}

// args renders the `sort` command-line flags, one -k per group column, a
// matching field separator, and --stable/--ignore-case as requested.
func (spec *SortSpec) args() []string {
	var a []string
	a = append(a, "--stable")
	if spec.CaseInsensitive {
		a = append(a, "--ignore-case")
	}
	if !spec.Delim.Whitespace {
		a = append(a, "-t", string(spec.Delim.Char))
	}
	for _, k := range spec.KeyFields {
		ks := strconv.Itoa(k)
		a = append(a, "-k", ks+","+ks)
	}
	return a
}

// SortReader pipes r through the system `sort` binary keyed by spec,
// returning a reader of the sorted stream. `popen`-style: connected pipes,
// not a shell. There is no in-process merge-sort fallback; a missing
// `sort` binary surfaces as an *IOError.
func SortReader(r io.Reader, spec *SortSpec) (io.ReadCloser, error) {
	cmd := exec.Command("sort", spec.args()...)
	cmd.Stdin = r
	// Pin the C collation locale so byte ordering matches the driver's own
	// case-sensitive comparisons regardless of the caller's environment.
	cmd.Env = append(os.Environ(), "LC_ALL=C")
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, ioErrorf(err, "connecting to sort stdout")
	}
	if err := cmd.Start(); err != nil {
		return nil, ioErrorf(err, "starting sort subprocess (is %q on PATH?)", "sort")
	}
	return &sortProcess{ReadCloser: stdout, cmd: cmd}, nil
}

// sortProcess waits for the sort subprocess to exit on Close, surfacing its
// exit status as an error.
type sortProcess struct {
	io.ReadCloser
	cmd *exec.Cmd
}

func (p *sortProcess) Close() error {
	cerr := p.ReadCloser.Close()
	werr := p.cmd.Wait()
	if werr != nil {
		return ioErrorf(werr, "sort subprocess")
	}
	return cerr
}

func (spec *SortSpec) String() string {
	return strings.Join(spec.args(), " ")
}
