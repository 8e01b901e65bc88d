package indexes_test

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/baodpham/sanihub/internal/app/system/indexes"
	"github.com/baodpham/sanihub/internal/testutil"
)

func TestEnsureAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// EnsureAll should succeed on a clean database
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}

	// Second call should also succeed (idempotent)
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesExpectedIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	checks := map[string][]string{
		"employees": {
			"uniq_employees_email",
			"idx_employees_role_status_fullnameci_id",
			"idx_employees_fullnameci__id",
		},
		"floors": {
			"uniq_floors_number",
			"idx_floors_status_number",
		},
		"areas": {
			"uniq_areas_floor_nameci",
			"idx_areas_floor",
		},
		"rooms": {
			"uniq_rooms_number",
			"idx_rooms_area",
		},
		"restrooms": {
			"uniq_restrooms_number",
		},
		"shifts": {
			"uniq_shifts_nameci",
		},
		"assignments": {
			"uniq_assign_restroom_shift_date_employee",
			"idx_assign_employee_date",
		},
		"leave_requests": {
			"idx_leaves_employee_start",
			"idx_leaves_status_start",
		},
		"maintenance_requests": {
			"uniq_requests_code",
			"idx_requests_status_requested",
			"idx_requests_room",
		},
	}

	for coll, expected := range checks {
		cur, err := db.Collection(coll).Indexes().List(ctx)
		if err != nil {
			t.Fatalf("List indexes for %s failed: %v", coll, err)
		}

		names := make(map[string]bool)
		for cur.Next(ctx) {
			var idx bson.M
			if err := cur.Decode(&idx); err != nil {
				continue
			}
			if name, ok := idx["name"].(string); ok {
				names[name] = true
			}
		}
		cur.Close(ctx)

		for _, want := range expected {
			if !names[want] {
				t.Errorf("collection %s missing index %s (have %v)", coll, want, names)
			}
		}
	}
}
