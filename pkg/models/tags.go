package models

import "strings"

// TagCategory is the namespace prefix of a tag name.
type TagCategory string

const (
	CategoryTag       TagCategory = "tag"
	CategoryService   TagCategory = "service"
	CategoryMark      TagCategory = "mark"
	CategoryGenerated TagCategory = "generated"
)

// TagCategories lists the supported categories in display order.
var TagCategories = []TagCategory{
	CategoryTag,
	CategoryService,
	CategoryMark,
	CategoryGenerated,
}

// Valid reports whether c is one of the supported categories.
func (c TagCategory) Valid() bool {
	for _, known := range TagCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Qualify prefixes a bare name with the category. Names that already carry
// a category are returned unchanged.
func (c TagCategory) Qualify(name string) string {
	if strings.Contains(name, "/") {
		return name
	}
	return string(c) + "/" + name
}

// TagInfo describes a tag as reported by the backend.
type TagInfo struct {
	Name           string   `json:"Name"`
	Definition     string   `json:"Definition"`
	Color          string   `json:"Color"`
	MatchingCount  uint     `json:"MatchingCount"`
	UncertainCount uint     `json:"UncertainCount"`
	Referenced     bool     `json:"Referenced"`
	Converters     []string `json:"Converters"`
}

// Category returns the part of the name before the first slash.
// A name without a slash is returned unchanged.
func (t TagInfo) Category() TagCategory {
	return CategoryOf(t.Name)
}

// ShortName returns the name without its category prefix.
func (t TagInfo) ShortName() string {
	if _, rest, ok := strings.Cut(t.Name, "/"); ok {
		return rest
	}
	return t.Name
}

// CategoryOf extracts the category prefix from a tag name.
func CategoryOf(name string) TagCategory {
	prefix, _, _ := strings.Cut(name, "/")
	return TagCategory(prefix)
}

// ConverterStatistics reports the state of one backend converter.
type ConverterStatistics struct {
	Name              string         `json:"Name"`
	CachedStreamCount uint64         `json:"CachedStreamCount"`
	Processes         []ProcessStats `json:"Processes"`
}

// ProcessStats reports one converter worker process.
type ProcessStats struct {
	Running  bool   `json:"Running"`
	ExitCode int    `json:"ExitCode"`
	Pid      int    `json:"Pid"`
	Errors   uint64 `json:"Errors"`
}

// RunningProcesses counts the converter's live worker processes.
func (c ConverterStatistics) RunningProcesses() int {
	n := 0
	for _, p := range c.Processes {
		if p.Running {
			n++
		}
	}
	return n
}

// TotalErrors sums the error counters of all worker processes.
func (c ConverterStatistics) TotalErrors() uint64 {
	var n uint64
	for _, p := range c.Processes {
		n += p.Errors
	}
	return n
}
