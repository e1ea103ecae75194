package hcahps

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// ErrHospitalNotFound is returned when a name is not in the directory.
var ErrHospitalNotFound = errors.New("hospital not found")

// Directory maps facility names to their id and state. When the same name
// occurs more than once, the first entry wins.
type Directory struct {
	byName map[string]Hospital
	names  []string
}

// NewDirectory builds a directory from hospitals in source order.
func NewDirectory(hospitals []Hospital) *Directory {
	d := &Directory{byName: make(map[string]Hospital, len(hospitals))}
	for _, h := range hospitals {
		if h.Name == "" {
			continue
		}
		if _, ok := d.byName[h.Name]; ok {
			continue
		}
		d.byName[h.Name] = h
		d.names = append(d.names, h.Name)
	}
	sort.Strings(d.names)
	return d
}

// Len returns the number of distinct hospitals.
func (d *Directory) Len() int { return len(d.names) }

// Names returns the sorted, unique facility names.
func (d *Directory) Names() []string {
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

// Hospitals returns every entry sorted by name.
func (d *Directory) Hospitals() []Hospital {
	out := make([]Hospital, len(d.names))
	for i, n := range d.names {
		out[i] = d.byName[n]
	}
	return out
}

// Lookup resolves an exact facility name.
func (d *Directory) Lookup(name string) (Hospital, error) {
	if h, ok := d.byName[name]; ok {
		return h, nil
	}
	return Hospital{}, fmt.Errorf("%w: %q", ErrHospitalNotFound, name)
}

// Search returns the hospitals whose name contains query, ignoring case.
// An empty query returns every hospital.
func (d *Directory) Search(query string) []Hospital {
	if strings.TrimSpace(query) == "" {
		return d.Hospitals()
	}
	fold := cases.Fold()
	q := fold.String(strings.TrimSpace(query))

	var out []Hospital
	for _, n := range d.names {
		if strings.Contains(fold.String(n), q) {
			out = append(out, d.byName[n])
		}
	}
	return out
}
