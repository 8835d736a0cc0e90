package model

import (
	"strconv"
	"strings"
)

// NormalizeID trims an identifier cell and drops the ".0" that pandas
// leaves on integer ids stored in float columns.
func NormalizeID(raw string) string {
	id := strings.TrimSpace(raw)
	if !strings.Contains(id, ".") {
		return id
	}
	f, err := strconv.ParseFloat(id, 64)
	if err != nil || f != float64(int64(f)) {
		return id
	}
	return strconv.FormatInt(int64(f), 10)
}
