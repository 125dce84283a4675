package types

import "time"

// Change is one entry of an asset's append-only structural diff log. Every
// entry belongs to exactly one asset; entries chain through ParentID, with
// the root entry carrying an empty ParentID. Replaying the chain from the
// root to an entry yields the asset's field map at that point.
//
// Inserts carries the spliced-in references: an ordered []any for list
// fields, a single scalar reference otherwise (Position and DeleteCount are
// ignored for non-list fields, the value is replaced).
//
// Ordering invariant: a parent's timestamp is never later than its child's.
// Appends that violate this are corrected by the bubble fix-up, which
// re-links the chain and drops the structure caches of every entry it moves
// past.
type Change struct {
	ChangeID       string         // UUID v4.
	AssetID        string         // Owning asset.
	ParentID       string         // Preceding entry; empty for the root entry.
	Time           time.Time      // Logical timestamp; may predate append order.
	Field          string         // Schema field this entry splices.
	Position       int            // Splice start index (list fields).
	DeleteCount    int            // Number of references removed at Position.
	Inserts        any            // Inserted references.
	StructureCache map[string]any // Replayed field map; nil until computed.
}
