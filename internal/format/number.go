// Package format renders population figures for people rather than machines.
package format

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Japanese)

// Int groups digits: 14047594 -> "14,047,594"
func Int(v int64) string {
	return printer.Sprintf("%d", v)
}

// Float groups digits and rounds to whole people
func Float(v float64) string {
	return printer.Sprintf("%.0f", v)
}

// Signed is Int with an explicit sign for deltas
func Signed(v int64) string {
	if v > 0 {
		return "+" + Int(v)
	}
	return Int(v)
}

// Percent formats a percentage change with sign and two decimals
func Percent(v float64) string {
	if v > 0 {
		return printer.Sprintf("+%.2f%%", v)
	}
	return printer.Sprintf("%.2f%%", v)
}
