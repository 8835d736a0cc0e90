// Package season handles NHL season identifiers encoded as two
// concatenated four-digit years, e.g. 20182019.
package season

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	yearFactor = 10000
	minYear    = 1000
	maxYear    = 9999
)

var (
	packed = regexp.MustCompile(`^\d{8}$`)
	dashed = regexp.MustCompile(`^(\d{4})-(\d{4})$`)
)

// ID is an encoded season such as 20182019.
type ID int64

// Of encodes the season starting in year start.
func Of(start int) ID {
	return ID(int64(start)*yearFactor + int64(start+1))
}

// Start returns the first calendar year of the season.
func (s ID) Start() int { return int(int64(s) / yearFactor) }

// End returns the second calendar year of the season.
func (s ID) End() int { return int(int64(s) % yearFactor) }

// Valid reports whether the halves are consecutive four-digit years.
func (s ID) Valid() bool {
	start, end := s.Start(), s.End()
	return start >= minYear && end <= maxYear && end == start+1
}

// Next returns the following season: both years advanced by one.
func (s ID) Next() (ID, error) {
	if !s.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrMalformed, int64(s))
	}
	start, end := s.Start()+1, s.End()+1
	if end > maxYear {
		return 0, fmt.Errorf("%w: %d has no successor", ErrMalformed, int64(s))
	}
	return ID(int64(start)*yearFactor + int64(end)), nil
}

func (s ID) String() string { return strconv.FormatInt(int64(s), 10) }

// Label renders the season the way contract sources print it: 2018-2019.
func (s ID) Label() string { return fmt.Sprintf("%d-%d", s.Start(), s.End()) }

// Parse accepts "20182019", "2018-2019" and integral float renderings
// such as "20182019.0" that come out of merged CSV tables.
func Parse(raw string) (ID, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return 0, fmt.Errorf("%w: empty season", ErrMalformed)
	}

	var n int64
	switch {
	case packed.MatchString(v):
		n, _ = strconv.ParseInt(v, 10, 64)
	case dashed.MatchString(v):
		m := dashed.FindStringSubmatch(v)
		n, _ = strconv.ParseInt(m[1]+m[2], 10, 64)
	default:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
			return 0, fmt.Errorf("%w: %q", ErrMalformed, raw)
		}
		n = int64(f)
	}

	id := ID(n)
	if !id.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrMalformed, raw)
	}
	return id, nil
}
