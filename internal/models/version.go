package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a package version in major.minor.release form.
type Version struct {
	Major   int `json:"major"`
	Minor   int `json:"minor"`
	Release int `json:"release"`
}

// ParseVersion parses a dotted triple such as "1.2.3".
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 3 {
		return Version{}, Errorf(ErrTypeConfig, "package.version", "version %q is not major.minor.release", s)
	}

	var nums [3]int
	for i, p := range parts {
		if p == "" || strings.TrimLeft(p, "0123456789") != "" {
			return Version{}, Errorf(ErrTypeConfig, "package.version", "version %q has non-numeric component %q", s, p)
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return Version{}, Errorf(ErrTypeConfig, "package.version", "version %q: %s", s, err)
		}
		nums[i] = n
	}

	return Version{Major: nums[0], Minor: nums[1], Release: nums[2]}, nil
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Release)
}
