// Package coord converts the coordinate encodings found in source data into
// decimal-degree pairs on WGS84 (EPSG:4326).
//
// Three encodings occur in the wild: plain decimal degrees (sometimes with
// deliberately truncated precision), degrees-minutes-seconds strings with a
// hemisphere letter, and UTM easting/northing pairs in zones 9-11 North.
package coord

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Axis tags a value as latitude or longitude; it selects the valid
// hemisphere letters and the range check.
type Axis int

const (
	Lat Axis = iota
	Lon
)

func (a Axis) String() string {
	if a == Lat {
		return "latitude"
	}
	return "longitude"
}

// ParseError reports a raw coordinate value that could not be normalized.
// The adapter decides whether it is a per-row drop or a systemic failure.
type ParseError struct {
	Raw  string
	Axis Axis
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %s from %q: %s", e.Axis, e.Raw, e.Msg)
}

// dmsRe matches the numeric triplet after glyph stripping, e.g. "51 30 00".
// Seconds are optional; some sources publish degrees and decimal minutes.
var dmsRe = regexp.MustCompile(
	`^\s*(\d+(?:\.\d+)?)\s+(\d+(?:\.\d+)?)(?:\s+(\d+(?:\.\d+)?))?\s*$`)

// glyphReplacer turns DMS unit marks into spaces so the triplet can be
// matched positionally. Both typographic and ASCII marks occur in the data.
var glyphReplacer = strings.NewReplacer(
	"°", " ", "º", " ", "'", " ", "′", " ", "’", " ",
	`"`, " ", "″", " ", "”", " ", "''", " ",
)

// ParseDMS converts a degrees-minutes-seconds string like `51°30'00"N` into
// decimal degrees. The hemisphere letter determines the sign; S and W are
// negative. The letter may lead or trail the numeric part.
func ParseDMS(raw string, axis Axis) (float64, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return 0, &ParseError{Raw: raw, Axis: axis, Msg: "empty value"}
	}

	hemis := "NS"
	if axis == Lon {
		hemis = "EW"
	}

	neg := false
	found := false
	for _, h := range hemis {
		if i := strings.IndexRune(s, h); i >= 0 {
			neg = h == 'S' || h == 'W'
			s = s[:i] + s[i+1:]
			found = true
			break
		}
	}
	if !found {
		return 0, &ParseError{
			Raw: raw, Axis: axis,
			Msg: "no hemisphere letter (" + hemis + ")",
		}
	}

	s = glyphReplacer.Replace(s)
	m := dmsRe.FindStringSubmatch(s)
	if m == nil {
		return 0, &ParseError{Raw: raw, Axis: axis, Msg: "not a DMS triplet"}
	}

	deg, _ := strconv.ParseFloat(m[1], 64)
	min, _ := strconv.ParseFloat(m[2], 64)
	var sec float64
	if m[3] != "" {
		sec, _ = strconv.ParseFloat(m[3], 64)
	}
	if min >= 60 || sec >= 60 {
		return 0, &ParseError{Raw: raw, Axis: axis, Msg: "minutes or seconds out of range"}
	}

	res := deg + min/60 + sec/3600
	if neg {
		res = -res
	}
	return res, nil
}

// ParseDecimal parses a plain decimal-degree string.
func ParseDecimal(raw string, axis Axis) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, &ParseError{Raw: raw, Axis: axis, Msg: "empty value"}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &ParseError{Raw: raw, Axis: axis, Msg: "not a number"}
	}
	return v, nil
}

// Truncate drops the last n characters of a decimal string before parsing.
// This is the privacy obfuscation required by some providers. It is a string
// operation on purpose: truncating "51.1234567" by 2 must give 51.12345,
// never the rounded 51.12346, so reruns reproduce historical output exactly.
func Truncate(raw string, n int) string {
	s := strings.TrimSpace(raw)
	if n <= 0 || len(s) <= n {
		return s
	}
	cut := s[:len(s)-n]
	// Never truncate into or past the integer part.
	if dot := strings.IndexByte(cut, '.'); dot < 0 {
		return s
	}
	return strings.TrimSuffix(cut, ".")
}

// ForceWest applies the regional sign convention: every longitude in the
// operating region is west of Greenwich, so values that lost their sign in
// transit are forced negative. Applied at most once per record.
func ForceWest(lon float64) float64 {
	return -math.Abs(lon)
}

// ValidLat reports whether a latitude is within [-90, 90].
func ValidLat(lat float64) bool {
	return lat >= -90 && lat <= 90
}

// ValidLon reports whether a longitude is within [-180, 180].
func ValidLon(lon float64) bool {
	return lon >= -180 && lon <= 180
}
