// Where: internal/service/sizes.go
// What: Size string parsers.
// Why: service.yaml carries human sizes ("4G", "512M"); providers want integers.
package service

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseSizeGB converts a unit-suffixed size string to whole gigabytes.
// "M" values floor-divide by 1024 with a minimum of 1; unsuffixed
// strings are taken as GB already.
func ParseSizeGB(size string) (int, error) {
	value := strings.ToUpper(strings.TrimSpace(size))
	switch {
	case strings.HasSuffix(value, "G"):
		return parseSizeInt(size, value[:len(value)-1])
	case strings.HasSuffix(value, "M"):
		mb, err := parseSizeInt(size, value[:len(value)-1])
		if err != nil {
			return 0, err
		}
		if gb := mb / 1024; gb > 1 {
			return gb, nil
		}
		return 1, nil
	case strings.HasSuffix(value, "T"):
		tb, err := parseSizeInt(size, value[:len(value)-1])
		if err != nil {
			return 0, err
		}
		return tb * 1024, nil
	}
	return parseSizeInt(size, value)
}

// ParseSizeMB converts a unit-suffixed size string to whole megabytes.
// Unsuffixed strings are taken as MB already.
func ParseSizeMB(size string) (int, error) {
	value := strings.ToUpper(strings.TrimSpace(size))
	switch {
	case strings.HasSuffix(value, "M"):
		return parseSizeInt(size, value[:len(value)-1])
	case strings.HasSuffix(value, "G"):
		gb, err := parseSizeInt(size, value[:len(value)-1])
		if err != nil {
			return 0, err
		}
		return gb * 1024, nil
	}
	return parseSizeInt(size, value)
}

func parseSizeInt(original, digits string) (int, error) {
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid size %q", ErrParse, original)
	}
	return n, nil
}
