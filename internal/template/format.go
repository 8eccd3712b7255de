package template

import (
	"strconv"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"
)

// FormatTime renders t with a token format.
//
// Formats containing '%' are C strftime patterns ("%Y/%m"). All other
// formats are custom date patterns in the style used by rolling log file
// names ("yyyy-MM-dd", "HH'h'mm"), rendered with invariant-culture names:
//
//	yyyy yy y   year          MMMM MMM MM M  month
//	dddd ddd dd d  weekday/day HH H hh h      hour
//	mm m  minute   ss s  second   fff… FFF…  fraction
//	tt t  AM/PM    zzz zz z  UTC offset   K  zone ("Z" or offset)
//	'lit' "lit" \c  literal text   any other character is copied
func FormatTime(t time.Time, format string) string {
	if strings.ContainsRune(format, '%') {
		return strftime.Format(format, t)
	}

	var b strings.Builder
	b.Grow(len(format) + 8)

	for i := 0; i < len(format); {
		c := format[i]
		n := runLength(format, i)

		switch c {
		case 'y':
			year := t.Year()
			switch n {
			case 1:
				b.WriteString(strconv.Itoa(year % 100))
			case 2:
				writePadded(&b, year%100, 2)
			default:
				writePadded(&b, year, n)
			}
		case 'M':
			switch n {
			case 1:
				b.WriteString(strconv.Itoa(int(t.Month())))
			case 2:
				writePadded(&b, int(t.Month()), 2)
			case 3:
				b.WriteString(t.Month().String()[:3])
			default:
				b.WriteString(t.Month().String())
			}
		case 'd':
			switch n {
			case 1:
				b.WriteString(strconv.Itoa(t.Day()))
			case 2:
				writePadded(&b, t.Day(), 2)
			case 3:
				b.WriteString(t.Weekday().String()[:3])
			default:
				b.WriteString(t.Weekday().String())
			}
		case 'h':
			hour := t.Hour() % 12
			if hour == 0 {
				hour = 12
			}
			writeNumber(&b, hour, n)
		case 'H':
			writeNumber(&b, t.Hour(), n)
		case 'm':
			writeNumber(&b, t.Minute(), n)
		case 's':
			writeNumber(&b, t.Second(), n)
		case 'f', 'F':
			writeFraction(&b, t, n, c == 'F')
		case 't':
			designator := "AM"
			if t.Hour() >= 12 {
				designator = "PM"
			}
			if n == 1 {
				designator = designator[:1]
			}
			b.WriteString(designator)
		case 'z':
			writeOffset(&b, t, n)
		case 'K':
			n = 1
			if t.Location() == time.UTC {
				b.WriteByte('Z')
			} else {
				writeOffset(&b, t, 3)
			}
		case 'g':
			b.WriteString("A.D.")
		case '\'', '"':
			end := strings.IndexByte(format[i+1:], c)
			if end < 0 {
				b.WriteString(format[i+1:])
				return b.String()
			}
			b.WriteString(format[i+1 : i+1+end])
			n = end + 2
		case '\\':
			if i+1 < len(format) {
				b.WriteByte(format[i+1])
			}
			n = 2
		default:
			b.WriteByte(c)
			n = 1
		}

		i += n
	}

	return b.String()
}

func runLength(s string, i int) int {
	n := 1
	for i+n < len(s) && s[i+n] == s[i] {
		n++
	}
	return n
}

// writeNumber writes v unpadded for a single specifier and zero-padded to two
// digits for a repeated one.
func writeNumber(b *strings.Builder, v, n int) {
	if n == 1 {
		b.WriteString(strconv.Itoa(v))
		return
	}
	writePadded(b, v, 2)
}

func writePadded(b *strings.Builder, v, width int) {
	s := strconv.Itoa(v)
	for i := len(s); i < width; i++ {
		b.WriteByte('0')
	}
	b.WriteString(s)
}

// writeFraction writes up to seven fractional-second digits. The F form
// trims trailing zeros and writes nothing for a zero fraction.
func writeFraction(b *strings.Builder, t time.Time, n int, trim bool) {
	if n > 7 {
		n = 7
	}
	digits := strconv.Itoa(t.Nanosecond() / 100)
	digits = strings.Repeat("0", 7-len(digits)) + digits
	digits = digits[:n]
	if trim {
		digits = strings.TrimRight(digits, "0")
	}
	b.WriteString(digits)
}

func writeOffset(b *strings.Builder, t time.Time, n int) {
	_, offset := t.Zone()
	sign := byte('+')
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	hours := offset / 3600
	minutes := (offset % 3600) / 60

	b.WriteByte(sign)
	switch n {
	case 1:
		b.WriteString(strconv.Itoa(hours))
	case 2:
		writePadded(b, hours, 2)
	default:
		writePadded(b, hours, 2)
		b.WriteByte(':')
		writePadded(b, minutes, 2)
	}
}
