package utils

import (
	"strconv"
	"strings"
)

const sizeUnitStep = 1024

var sizeUnits = [...]string{"b", "kb", "mb", "gb", "tb", "pb"}

// FormatFileSize renders a byte count with a lower-case binary unit. Values
// below ten units keep one decimal: 512b, 1.5kb, 10mb.
func FormatFileSize(byteCount int64) string {
	if byteCount < sizeUnitStep {
		return strconv.FormatInt(max(byteCount, 0), 10) + sizeUnits[0]
	}
	value := float64(byteCount)
	unitIndex := 0
	for value >= sizeUnitStep && unitIndex < len(sizeUnits)-1 {
		value /= sizeUnitStep
		unitIndex++
	}
	precision := 0
	if value < 10 {
		precision = 1
	}
	return strings.TrimSuffix(strconv.FormatFloat(value, 'f', precision, 64), ".0") + sizeUnits[unitIndex]
}
