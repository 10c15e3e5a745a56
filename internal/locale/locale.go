// Package locale renders order timestamps and amounts for a configured language.
package locale

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// hourToken stands for a 24h hour without leading zero, which Go layouts lack
const hourToken = "{H}"

// date-time layouts matching the browser's toLocaleString output per base language
var layouts = map[string]string{
	"es": "2/1/2006, " + hourToken + ":04:05",
	"en": "1/2/2006, 3:04:05 PM",
	"fr": "02/01/2006 15:04:05",
	"de": "2.1.2006, 15:04:05",
	"it": "2/1/2006, 15:04:05",
	"pt": "02/01/2006, 15:04:05",
}

const defaultLayout = "2006-01-02 15:04:05"

// Formatter renders values for one language tag and time zone.
type Formatter struct {
	tag     language.Tag
	loc     *time.Location
	layout  string
	printer *message.Printer
}

// New parses tag (BCP 47, e.g. "es-ES"). A nil loc means local time.
func New(tag string, loc *time.Location) (*Formatter, error) {
	t, err := language.Parse(tag)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", tag, err)
	}
	if loc == nil {
		loc = time.Local
	}
	base, _ := t.Base()
	layout, ok := layouts[base.String()]
	if !ok {
		layout = defaultLayout
	}
	return &Formatter{tag: t, loc: loc, layout: layout, printer: message.NewPrinter(t)}, nil
}

// MustNew is New for known-good tags.
func MustNew(tag string, loc *time.Location) *Formatter {
	f, err := New(tag, loc)
	if err != nil {
		panic(err)
	}
	return f
}

// Tag the formatter was built for.
func (f *Formatter) Tag() language.Tag { return f.tag }

// FormatTime renders t in the formatter's zone, e.g. "14/11/2023, 9:13:20" for es-ES.
func (f *Formatter) FormatTime(t time.Time) string {
	t = t.In(f.loc)
	out := t.Format(f.layout)
	if strings.Contains(out, hourToken) {
		out = strings.Replace(out, hourToken, strconv.Itoa(t.Hour()), 1)
	}
	return out
}

// FormatAmount renders an amount with the locale's digit grouping and a euro sign.
func (f *Formatter) FormatAmount(amount int64) string {
	return f.printer.Sprintf("%d €", amount)
}
