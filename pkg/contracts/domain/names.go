package domain

import (
	"strconv"
	"strings"
)

// Sex is the decoded sex of a birth record
type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
	// SexUnknown is the unmapped value produced for codes other than 1 and 2
	SexUnknown Sex = ""
)

// Canonical column names used after loading and on export
const (
	ColumnSex   = "Sexe"
	ColumnName  = "Prenom"
	ColumnCount = "Nombre"
)

// DecodeSexCode maps the numeric source code to a Sex. The code is read as a
// number, so "01" and "2.0" decode like "1" and "2". Anything other than 1
// or 2 is SexUnknown.
func DecodeSexCode(code string) Sex {
	v, err := strconv.ParseFloat(strings.TrimSpace(code), 64)
	if err != nil {
		return SexUnknown
	}
	switch v {
	case 1:
		return SexMale
	case 2:
		return SexFemale
	default:
		return SexUnknown
	}
}

// ParseSex accepts an already decoded value ("M" or "F").
func ParseSex(value string) Sex {
	switch Sex(strings.TrimSpace(value)) {
	case SexMale:
		return SexMale
	case SexFemale:
		return SexFemale
	default:
		return SexUnknown
	}
}

// IsMapped reports whether the sex was decoded to M or F
func (s Sex) IsMapped() bool {
	return s == SexMale || s == SexFemale
}

// Record is one sex/name/count observation
type Record struct {
	Sex   Sex    `json:"sex" csv:"Sexe"`
	Name  string `json:"name" csv:"Prenom"`
	Count int64  `json:"count" csv:"Nombre"`
}

// Dataset holds all records loaded from one source file
type Dataset struct {
	Source  string   `json:"source"`
	Label   string   `json:"label"`
	Records []Record `json:"records"`
	// UnmappedSex counts records whose sex code was not 1 or 2
	UnmappedSex int `json:"unmapped_sex"`
}

// Len returns the number of records
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// Merge concatenates two datasets: a's records followed by b's.
// Records are copied, nothing is deduplicated.
func Merge(label string, a, b *Dataset) *Dataset {
	merged := &Dataset{
		Label:   label,
		Records: make([]Record, 0, a.Len()+b.Len()),
	}
	for _, d := range []*Dataset{a, b} {
		if d == nil {
			continue
		}
		merged.Records = append(merged.Records, d.Records...)
		merged.UnmappedSex += d.UnmappedSex
	}
	return merged
}

// NameTotal is a name with its summed count
type NameTotal struct {
	Name  string `json:"name" csv:"Prenom"`
	Total int64  `json:"total" csv:"Nombre"`
}
