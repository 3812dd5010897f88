package annotdb

import (
	"fmt"

	"gorm.io/gorm"
)

// CombineObjects merges the identity fromID into toID: every record keyed by
// fromID is rewritten to toID, and takes on toID's class, so the merged identity
// is class-uniform afterwards. fromID no longer exists in the store when this
// returns successfully.
//
// All preconditions are checked before any record is touched, and the rewrite
// runs inside one transaction, so a failure never leaves a partial merge.
func (a *AnnotationDB) CombineObjects(fromID, toID int64) error {
	if fromID <= 0 || toID <= 0 {
		return fmt.Errorf("%w: combine %v -> %v", ErrInvalidID, fromID, toID)
	}
	return a.db.Transaction(func(tx *gorm.DB) error {
		for _, id := range []int64{fromID, toID} {
			n := int64(0)
			if err := tx.Raw("SELECT COUNT(*) FROM frame_record WHERE object_id = ?", id).Row().Scan(&n); err != nil {
				return err
			}
			if n == 0 {
				return fmt.Errorf("%w: object %v", ErrUnknownObject, id)
			}
		}

		// A merge cannot be performed where the two identities would collide in
		// the same frame, otherwise the occupancy invariant breaks post-merge.
		overlap := int64(0)
		err := tx.Raw(`SELECT COUNT(*) FROM frame_record WHERE object_id = ? AND frame IN
			(SELECT frame FROM frame_record WHERE object_id = ?)`, fromID, toID).Row().Scan(&overlap)
		if err != nil {
			return err
		}
		if overlap != 0 {
			return fmt.Errorf("%w: objects %v and %v share %v frame(s)", ErrOverlappingOccupancy, fromID, toID, overlap)
		}

		// The class of the merged identity is the class of toID's record with the
		// lowest frame number. toID's records are class-uniform in practice, but
		// picking the lowest frame makes the choice deterministic either way.
		class := ""
		if err := tx.Raw("SELECT class FROM frame_record WHERE object_id = ? ORDER BY frame LIMIT 1", toID).Row().Scan(&class); err != nil {
			return err
		}

		return tx.Exec("UPDATE frame_record SET object_id = ?, class = ? WHERE object_id = ?", toID, class, fromID).Error
	})
}
