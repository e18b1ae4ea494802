package models

import (
	"fmt"
	"math"
	"time"
)

// DateFormat is the SQL boundary format for Data columns.
const DateFormat = "2006-01-02"

// HourOf parses "HH:MM" and returns the hour, or -1 when malformed.
func HourOf(hhmm string) int {
	var h, m int
	if _, err := fmt.Sscanf(hhmm, "%d:%d", &h, &m); err != nil {
		return -1
	}
	if h < 0 || h > 24 || m < 0 || m > 59 {
		return -1
	}
	return h
}

// HourLabel formats an hour as the "HH:MM" stored on bookings.
func HourLabel(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

// SlotHours returns the bookable start hours of a day, first to last
// inclusive of the last start before closing.
func SlotHours() []int {
	hours := make([]int, 0, LastSlotHour-FirstSlotHour)
	for h := FirstSlotHour; h < LastSlotHour; h++ {
		hours = append(hours, h)
	}
	return hours
}

// ValidSlotHour reports whether hour is a bookable start hour.
func ValidSlotHour(hour int) bool {
	return hour >= FirstSlotHour && hour < LastSlotHour
}

// WeekStart returns the Monday of the week containing d, at midnight
// in d's location.
func WeekStart(d time.Time) time.Time {
	d = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// WeekDays lists the seven dates of the week starting at monday.
func WeekDays(monday time.Time) []time.Time {
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = monday.AddDate(0, 0, i)
	}
	return days
}

// RoundCents rounds a money amount to two decimals.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// Prorate distributes total across weights, rounding each share to
// cents. The rounding remainder is folded into the last share so the
// shares always sum exactly to the (cent-rounded) total.
func Prorate(total float64, weights []float64) []float64 {
	if len(weights) == 0 {
		return nil
	}
	var sum float64
	for _, w := range weights {
		sum += w
	}
	total = RoundCents(total)
	shares := make([]float64, len(weights))
	if sum == 0 {
		shares[len(shares)-1] = total
		return shares
	}
	var allocated float64
	for i, w := range weights[:len(weights)-1] {
		shares[i] = RoundCents(total * w / sum)
		allocated += shares[i]
	}
	shares[len(shares)-1] = RoundCents(total - allocated)
	return shares
}

// Imponibile extracts the net amount from a VAT-inclusive gross.
func Imponibile(gross float64) float64 {
	return RoundCents(gross / (1 + VATRate))
}
