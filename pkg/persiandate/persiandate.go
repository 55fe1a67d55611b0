// Package persiandate converts Gregorian dates to the Iranian (Jalali)
// calendar and renders them with Persian numerals for operator-facing text.
package persiandate

import (
	"fmt"
	"strings"
	"time"
)

var gDaysInMonth = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
var jDaysInMonth = [12]int{31, 31, 31, 31, 31, 31, 30, 30, 30, 30, 30, 29}

// ToJalali converts a Gregorian date to Jalali year, month and day.
func ToJalali(gy, gm, gd int) (jy, jm, jd int) {
	gy2 := gy - 1600
	gm2 := gm - 1
	gd2 := gd - 1

	gDayNo := 365*gy2 + (gy2+3)/4 - (gy2+99)/100 + (gy2+399)/400
	for i := 0; i < gm2; i++ {
		gDayNo += gDaysInMonth[i]
	}
	if gm2 > 1 && ((gy%4 == 0 && gy%100 != 0) || gy%400 == 0) {
		gDayNo++
	}
	gDayNo += gd2

	jDayNo := gDayNo - 79

	jNp := jDayNo / 12053
	jDayNo %= 12053

	jy = 979 + 33*jNp + 4*(jDayNo/1461)
	jDayNo %= 1461

	if jDayNo >= 366 {
		jy += (jDayNo - 1) / 365
		jDayNo = (jDayNo - 1) % 365
	}

	var i int
	for i = 0; i < 11 && jDayNo >= jDaysInMonth[i]; i++ {
		jDayNo -= jDaysInMonth[i]
	}
	jm = i + 1
	jd = jDayNo + 1
	return
}

// Format renders t as a Jalali date with Persian numerals, e.g. "۱۴۰۵/۶/۹".
func Format(t time.Time) string {
	jy, jm, jd := ToJalali(t.Year(), int(t.Month()), t.Day())
	return Digits(fmt.Sprintf("%d/%d/%d", jy, jm, jd))
}

// Digits replaces ASCII digits with their Persian counterparts.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			r = r - '0' + '۰'
		}
		b.WriteRune(r)
	}
	return b.String()
}
