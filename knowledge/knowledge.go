// Package knowledge provides the static treatment advisory table for rice
// leaf conditions. The table is compiled into the binary and never mutated
// at runtime; lookups are exact-match only.
package knowledge

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed treatments.yaml
var treatmentsYAML []byte

// TreatmentRecord is the structured advisory for a single condition.
// All four fields are populated for every entry in the compiled-in table.
type TreatmentRecord struct {
	Type       string `yaml:"type" json:"type"`
	Cause      string `yaml:"cause" json:"cause"`
	Remedy     string `yaml:"remedy" json:"remedy"`
	Prevention string `yaml:"prevention" json:"prevention"`
}

// Advisory is the explicit result of a lookup. Available distinguishes
// "we know this condition" from "the classifier knows a label we have no
// advice for" without resorting to a nullable record.
type Advisory struct {
	Available bool            `json:"available"`
	Record    TreatmentRecord `json:"record,omitempty"`
}

// Base is the immutable label-to-treatment mapping. Construct once at
// startup with NewBase; safe for concurrent reads.
type Base struct {
	records map[string]TreatmentRecord
}

// NewBase parses the embedded treatment table. The only failure mode is a
// malformed embedded document, which indicates a broken build rather than
// a runtime condition.
func NewBase() (*Base, error) {
	records := make(map[string]TreatmentRecord)
	if err := yaml.Unmarshal(treatmentsYAML, &records); err != nil {
		return nil, fmt.Errorf("knowledge: embedded treatment table is malformed: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("knowledge: embedded treatment table is empty")
	}
	return &Base{records: records}, nil
}

// MustNewBase is NewBase that panics on error. The embedded table is fixed
// at build time, so a failure here means the binary itself is broken.
func MustNewBase() *Base {
	base, err := NewBase()
	if err != nil {
		panic(err)
	}
	return base
}

// Lookup returns the advisory for a condition label. Labels the table does
// not cover yield Advisory{Available: false}; this is an expected outcome,
// not an error, since the classifier's class set and the table's membership
// are maintained independently.
func (b *Base) Lookup(label string) Advisory {
	record, ok := b.records[label]
	if !ok {
		return Advisory{}
	}
	return Advisory{Available: true, Record: record}
}

// Labels returns the covered condition labels in sorted order.
func (b *Base) Labels() []string {
	labels := make([]string, 0, len(b.records))
	for label := range b.records {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Len returns the number of conditions the table covers.
func (b *Base) Len() int {
	return len(b.records)
}
