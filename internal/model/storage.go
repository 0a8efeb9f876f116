package model

// Freezer is the root of the physical containment hierarchy.  Freezers are
// identified by name alone; the name doubles as the primary key in the
// `freezers` table.
type Freezer struct {
	Name string // freezers.name
}

// Rack is a shelf inside a freezer holding a grid of boxes.  A rack id is
// only unique within its freezer, so the table key is (id, freezer_name).
// Deleting a freezer cascades to its racks.
//
// Fields:
//
//	ID          – rack identifier, unique per freezer.
//	FreezerName – owning freezer.
//	Rows        – number of box rows in the rack grid.
//	Columns     – number of box columns in the rack grid.
type Rack struct {
	ID          string // racks.id
	FreezerName string // racks.freezer_name
	Rows        int    // racks.rows
	Columns     int    // racks.columns
}

// Box is a sample box stored in a rack.  The table key is the composite
// (id, rack_id, freezer_name).  Rows and Columns declare the well grid; a
// well may hold at most one sample.  Deleting a rack cascades to its boxes.
//
// Fields:
//
//	ID           – box identifier, unique per (rack, freezer).
//	RackID       – owning rack.
//	FreezerName  – owning freezer.
//	BoxName      – optional human readable label.
//	AssignedUser – lab member the box is assigned to (free text).
//	Rows         – number of well rows.
//	Columns      – number of well columns.
type Box struct {
	ID           string // boxes.id
	RackID       string // boxes.rack_id
	FreezerName  string // boxes.freezer_name
	BoxName      string // boxes.box_name
	AssignedUser string // boxes.assigned_user
	Rows         int    // boxes.rows
	Columns      int    // boxes.columns
}
