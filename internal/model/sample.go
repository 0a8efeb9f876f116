package model

import "time"

// Sample is a tracked specimen stored in exactly one well of one box.  The
// location triple (BoxID, RackID, FreezerName) is a composite foreign key
// into `boxes`; Well addresses a position inside that box's grid, e.g. "A1".
// Deleting a box cascades to its samples.
//
// Fields:
//
//	ID          – primary key identifier.
//	SampleName  – specimen name or lab identifier.
//	SampleType  – one of Cell Line/DNA/RNA/Protein/Other.
//	Well        – grid position inside the box (letter row + 1-based column).
//	Owner       – lab member responsible for the sample.
//	DateAdded   – when the sample entered the inventory.
//	Notes       – free-form notes.
//	Species     – organism, for biological samples.
//	Resistance  – antibiotic resistance markers.
//	Regulation  – regulatory classification flags.
//	BoxID       – owning box id.
//	RackID      – owning rack id.
//	FreezerName – owning freezer name.
type Sample struct {
	ID          uint64    // samples.id
	SampleName  string    // samples.sample_name
	SampleType  string    // samples.sample_type
	Well        string    // samples.well
	Owner       string    // samples.owner
	DateAdded   time.Time // samples.date_added
	Notes       string    // samples.notes
	Species     string    // samples.species
	Resistance  string    // samples.resistance
	Regulation  string    // samples.regulation
	BoxID       string    // samples.box_id
	RackID      string    // samples.rack_id
	FreezerName string    // samples.freezer_name
}

// SampleTypes is the closed set of accepted sample types.
var SampleTypes = []string{"Cell Line", "DNA", "RNA", "Protein", "Other"}

// ValidSampleType reports whether t is one of SampleTypes.
func ValidSampleType(t string) bool {
	for _, s := range SampleTypes {
		if s == t {
			return true
		}
	}
	return false
}
