package forms

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var daysPattern = regexp.MustCompile(`^(?:(\d+) (?:days?,? )?)?([\d:.,]+)$`)

// ParseDuration accepts Go durations ("1h30m") and the "[DD ][[HH:]MM:]SS[.ffffff]"
// form used by the edit form. A bare number is seconds. Negative values are
// rejected.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	if strings.ContainsAny(s, "hms") && !strings.ContainsAny(s, ":, ") {
		d, err := time.ParseDuration(s)
		if err != nil || d < 0 {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		return d, nil
	}

	m := daysPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}

	var total time.Duration
	if m[1] != "" {
		days, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil || !addScaled(&total, days, 24*time.Hour) {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
	}

	parts := strings.Split(m[2], ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}

	// Seconds may carry up to six fractional digits
	secPart := strings.Replace(parts[len(parts)-1], ",", ".", 1)
	whole, frac, hasFrac := strings.Cut(secPart, ".")
	if hasFrac && (frac == "" || len(frac) > 12 || !isDigits(frac)) {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	secs, err := atoiDigits(whole)
	if err != nil || !addScaled(&total, secs, time.Second) {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	if hasFrac {
		if len(frac) > 6 {
			frac = frac[:6]
		}
		micros, _ := strconv.ParseInt(frac+strings.Repeat("0", 6-len(frac)), 10, 64)
		if !addScaled(&total, micros, time.Microsecond) {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
	}

	units := []time.Duration{time.Minute, time.Hour}
	for i, j := len(parts)-2, 0; i >= 0; i, j = i-1, j+1 {
		n, err := atoiDigits(parts[i])
		if err != nil || !addScaled(&total, n, units[j]) {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
	}
	return total, nil
}

// FormatDuration renders "1h 30m", or "45m" below an hour
func FormatDuration(d time.Duration) string {
	totalSeconds := int64(d / time.Second)
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// DurationString renders the "[D ]HH:MM:SS" value an edit form starts with
func DurationString(d time.Duration) string {
	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute
	seconds := d / time.Second
	micros := (d - seconds*time.Second) / time.Microsecond

	out := fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	if days > 0 {
		out = fmt.Sprintf("%d %s", days, out)
	}
	if micros > 0 {
		out += fmt.Sprintf(".%06d", micros)
	}
	return out
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func atoiDigits(s string) (int64, error) {
	if !isDigits(s) {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return strconv.ParseInt(s, 10, 64)
}

// addScaled adds n*unit to total and reports false when the result does not
// fit in a time.Duration.
func addScaled(total *time.Duration, n int64, unit time.Duration) bool {
	if n < 0 || n > math.MaxInt64/int64(unit) {
		return false
	}
	d := time.Duration(n) * unit
	if *total > math.MaxInt64-d {
		return false
	}
	*total += d
	return true
}
