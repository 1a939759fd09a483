package libcli

import (
	"strconv"
	"strings"
	"time"

	"github.com/russellane/libcli/util"
)

// countValue is a flag.Value which counts repetitions without consuming an
// argument, so `-v -v` and `-vv` both yield 2. An explicit `-v=3` sets the
// count directly.
type countValue struct {
	n *int
}

func (v countValue) String() string {
	if v.n == nil {
		return "0"
	}

	return strconv.Itoa(*v.n)
}

func (v countValue) Set(value string) error {
	if value == "" || value == "true" {
		*v.n++
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return err
	}
	*v.n = n

	return nil
}

func (v countValue) Get() interface{} {
	if v.n == nil {
		return 0
	}

	return *v.n
}

func (v countValue) IsBoolFlag() bool { return true }

// timeValue parses flexible date/time strings into a time.Time.
type timeValue struct {
	t *time.Time
}

func (v timeValue) String() string {
	if v.t == nil || v.t.IsZero() {
		return ""
	}

	return v.t.Format(time.RFC3339)
}

func (v timeValue) Set(value string) error {
	return util.ConvertString(value, v.t, util.DefaultDelimiter)
}

func (v timeValue) Get() interface{} {
	if v.t == nil {
		return time.Time{}
	}

	return *v.t
}

// TimeVar defines a time-valued option on the top-level option set. The
// argument may be in any layout dateparse recognizes.
func (c *CLI) TimeVar(p *time.Time, name string, value time.Time, usage string) {
	*p = value
	c.Flags.Var(timeValue{t: p}, name, usage)
}

// listValue accumulates delimited values into a string slice. Passing the
// option twice replaces the previous value, as with any other option.
type listValue struct {
	p *[]string
}

func (v listValue) String() string {
	if v.p == nil {
		return ""
	}

	return strings.Join(*v.p, ",")
}

func (v listValue) Set(value string) error {
	return util.ConvertString(value, v.p, util.DefaultDelimiter)
}

func (v listValue) Get() interface{} {
	if v.p == nil {
		return []string(nil)
	}

	return *v.p
}

// ListVar defines a list-valued option on the top-level option set. The
// argument is split on commas, pipes or spaces.
func (c *CLI) ListVar(p *[]string, name string, value []string, usage string) {
	*p = value
	c.Flags.Var(listValue{p: p}, name, usage)
}
