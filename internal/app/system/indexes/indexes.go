// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureEmployees(ctx, db); err != nil {
		problems = append(problems, "employees: "+err.Error())
	}
	if err := ensureFloors(ctx, db); err != nil {
		problems = append(problems, "floors: "+err.Error())
	}
	if err := ensureAreas(ctx, db); err != nil {
		problems = append(problems, "areas: "+err.Error())
	}
	if err := ensureRooms(ctx, db); err != nil {
		problems = append(problems, "rooms: "+err.Error())
	}
	if err := ensureRestrooms(ctx, db); err != nil {
		problems = append(problems, "restrooms: "+err.Error())
	}
	if err := ensureShifts(ctx, db); err != nil {
		problems = append(problems, "shifts: "+err.Error())
	}
	if err := ensureAssignments(ctx, db); err != nil {
		problems = append(problems, "assignments: "+err.Error())
	}
	if err := ensureLeaveRequests(ctx, db); err != nil {
		problems = append(problems, "leave_requests: "+err.Error())
	}
	if err := ensureMaintenanceRequests(ctx, db); err != nil {
		problems = append(problems, "maintenance_requests: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func sameBoolPtr(a, b *bool) bool {
	av := false
	bv := false
	if a != nil {
		av = *a
	}
	if b != nil {
		bv = *b
	}
	return av == bv
}

// Best-effort duplicate-detector (works cross-vendors)
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 { // E11000 duplicate key error index
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

// Mongo/DocDB sometimes returns IndexOptionsConflict when an index with the
// same keys already exists under a different name (or options differ).
func isOptionsConflictErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "IndexOptionsConflict")
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string

	for _, m := range models {
		var desiredName string
		var desiredUnique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				desiredName = *m.Options.Name
			}
			if m.Options.Unique != nil {
				desiredUnique = m.Options.Unique
			}
		}
		desiredSig := keySig(m.Keys.(bson.D))

		start := time.Now()
		zap.L().Info("ensuring index",
			zap.String("collection", coll.Name()),
			zap.String("name", desiredName),
			zap.String("keys", desiredSig),
			zap.Bool("unique", desiredUnique != nil && *desiredUnique))

		// 1) Load existing indexes
		existing := map[string]existingIndex{} // sig -> index
		cur, err := coll.Indexes().List(ctx)
		if err == nil {
			defer cur.Close(ctx)
			for cur.Next(ctx) {
				var idx existingIndex
				if err := cur.Decode(&idx); err != nil {
					zap.L().Warn("failed to decode existing index",
						zap.String("collection", coll.Name()),
						zap.Error(err))
					continue
				}
				existing[keySig(idx.Key)] = idx
			}
		}

		if ex, ok := existing[desiredSig]; ok {
			// Same key pattern exists already.
			if sameBoolPtr(desiredUnique, ex.Unique) {
				// If the name differs, drop & recreate with the desired name.
				if desiredName != "" && ex.Name != desiredName {
					zap.L().Info("renaming index to align with desired name",
						zap.String("collection", coll.Name()),
						zap.String("from", ex.Name),
						zap.String("to", desiredName),
						zap.String("keys", desiredSig))

					if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
						errs = append(errs, fmt.Sprintf("%s(%s): rename drop failed: %v", coll.Name(), desiredName, err))
						continue
					}
					if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
						errs = append(errs, fmt.Sprintf("%s(%s): rename create failed: %v", coll.Name(), desiredName, err))
						continue
					}
					zap.L().Info("index renamed",
						zap.String("collection", coll.Name()),
						zap.String("name", desiredName),
						zap.String("took", time.Since(start).String()))
					continue
				}

				// Names aligned (or we don't care), reuse.
				zap.L().Info("reusing existing index",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", desiredSig),
					zap.String("took", time.Since(start).String()))
				continue
			}

			// Options mismatch (e.g., upgrading to unique). Drop & recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), desiredName, err))
				continue
			}
			if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
				if isDuplicateKeyErr(err) && desiredUnique != nil && *desiredUnique {
					errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)", coll.Name(), desiredName))
				} else {
					errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
				}
				continue
			}
			zap.L().Info("index dropped and recreated",
				zap.String("collection", coll.Name()),
				zap.String("name", desiredName),
				zap.String("took", time.Since(start).String()))
			continue
		}

		// 2) No existing index with the same keys: create it.
		created, err := coll.Indexes().CreateOne(ctx, m)
		if err != nil {
			if isOptionsConflictErr(err) {
				// An index with these keys appeared under another name;
				// list again and reconcile.
				if reconciled := reconcileConflict(ctx, coll, m, desiredSig, desiredName, desiredUnique, &errs); reconciled {
					continue
				}
			}
			zap.L().Warn("index ensure failed",
				zap.String("collection", coll.Name()),
				zap.String("name", desiredName),
				zap.String("keys", desiredSig),
				zap.Error(err))
			errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
			continue
		}
		zap.L().Info("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("name", desiredName),
			zap.String("created_name", created),
			zap.String("keys", desiredSig),
			zap.String("took", time.Since(start).String()))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// reconcileConflict handles IndexOptionsConflict after CreateOne: find the
// clashing index, reuse it when compatible, otherwise drop and recreate.
// Returns true when the desired index ended up in place.
func reconcileConflict(ctx context.Context, coll *mongo.Collection, m mongo.IndexModel, desiredSig, desiredName string, desiredUnique *bool, errs *[]string) bool {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return false
	}
	var match *existingIndex
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		if keySig(idx.Key) == desiredSig {
			match = &idx
			break
		}
	}
	cur.Close(ctx)
	if match == nil {
		return false
	}

	if sameBoolPtr(desiredUnique, match.Unique) {
		zap.L().Info("reusing existing index (post-conflict)",
			zap.String("collection", coll.Name()),
			zap.String("name", match.Name),
			zap.String("keys", desiredSig))
		return true
	}
	if _, err := coll.Indexes().DropOne(ctx, match.Name); err != nil {
		zap.L().Warn("failed to drop conflicting index",
			zap.String("collection", coll.Name()),
			zap.String("name", match.Name),
			zap.Error(err))
	}
	if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
		if isDuplicateKeyErr(err) && desiredUnique != nil && *desiredUnique {
			*errs = append(*errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)", coll.Name(), desiredName))
		} else {
			*errs = append(*errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
		}
		return true
	}
	zap.L().Info("index dropped and recreated (post-conflict)",
		zap.String("collection", coll.Name()),
		zap.String("name", desiredName),
		zap.String("keys", desiredSig))
	return true
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                             */
/* -------------------------------------------------------------------------- */

func ensureEmployees(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("employees")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Email doubles as the login ID, so it must be unique.
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_employees_email"),
		},
		// List pages: role tab + name sort + stable tiebreak
		{
			Keys: bson.D{
				{Key: "role", Value: 1},
				{Key: "status", Value: 1},
				{Key: "full_name_ci", Value: 1},
				{Key: "_id", Value: 1},
			},
			Options: options.Index().SetName("idx_employees_role_status_fullnameci_id"),
		},
		{
			Keys:    bson.D{{Key: "full_name_ci", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_employees_fullnameci__id"),
		},
	})
}

func ensureFloors(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("floors")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// One document per floor number.
		{
			Keys:    bson.D{{Key: "number", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_floors_number"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "number", Value: 1}},
			Options: options.Index().SetName("idx_floors_status_number"),
		},
	})
}

func ensureAreas(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("areas")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// No duplicate area names inside the same floor (diacritics-folded).
		{
			Keys:    bson.D{{Key: "floor_id", Value: 1}, {Key: "name_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_areas_floor_nameci"),
		},
		{
			Keys:    bson.D{{Key: "floor_id", Value: 1}},
			Options: options.Index().SetName("idx_areas_floor"),
		},
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_areas_nameci__id"),
		},
	})
}

func ensureRooms(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("rooms")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "number", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_rooms_number"),
		},
		{
			Keys:    bson.D{{Key: "area_id", Value: 1}},
			Options: options.Index().SetName("idx_rooms_area"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "number", Value: 1}},
			Options: options.Index().SetName("idx_rooms_status_number"),
		},
	})
}

func ensureRestrooms(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("restrooms")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "number", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_restrooms_number"),
		},
		{
			Keys:    bson.D{{Key: "area_id", Value: 1}},
			Options: options.Index().SetName("idx_restrooms_area"),
		},
	})
}

func ensureShifts(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("shifts")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Shift names like "Morning" / "Ca sáng" must be unique.
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_shifts_nameci"),
		},
	})
}

func ensureAssignments(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("assignments")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// One employee can only hold one assignment per restroom+shift+date.
		{
			Keys: bson.D{
				{Key: "restroom_id", Value: 1},
				{Key: "shift_id", Value: 1},
				{Key: "date", Value: 1},
				{Key: "employee_id", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("uniq_assign_restroom_shift_date_employee"),
		},
		{
			Keys:    bson.D{{Key: "employee_id", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index().SetName("idx_assign_employee_date"),
		},
		{
			Keys:    bson.D{{Key: "date", Value: -1}},
			Options: options.Index().SetName("idx_assign_date"),
		},
	})
}

func ensureLeaveRequests(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("leave_requests")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "employee_id", Value: 1}, {Key: "start_date", Value: -1}},
			Options: options.Index().SetName("idx_leaves_employee_start"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "start_date", Value: -1}},
			Options: options.Index().SetName("idx_leaves_status_start"),
		},
	})
}

func ensureMaintenanceRequests(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("maintenance_requests")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Tracking code shown to requesters; must be unique.
		{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_requests_code"),
		},
		// Status tab + newest-first listing
		{
			Keys:    bson.D{{Key: "status_code", Value: 1}, {Key: "requested_at", Value: -1}},
			Options: options.Index().SetName("idx_requests_status_requested"),
		},
		{
			Keys:    bson.D{{Key: "room_id", Value: 1}},
			Options: options.Index().SetName("idx_requests_room"),
		},
	})
}
