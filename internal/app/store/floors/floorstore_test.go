package floorstore_test

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	floorstore "github.com/baodpham/sanihub/internal/app/store/floors"
	"github.com/baodpham/sanihub/internal/app/system/indexes"
	"github.com/baodpham/sanihub/internal/app/system/modalflow"
	"github.com/baodpham/sanihub/internal/testutil"
)

func TestCreateAndGetByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	store := floorstore.New(db)

	created, err := store.Create(ctx, modalflow.Draft{
		"number":      "3",
		"name":        "Tầng 3",
		"description": "Khu văn phòng",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Number != 3 {
		t.Errorf("Number = %d, want 3", created.Number)
	}
	if created.NameCI == "" {
		t.Error("NameCI not populated")
	}
	if created.Status != "active" {
		t.Errorf("Status = %q, want active default", created.Status)
	}

	got, err := store.GetByID(ctx, created.ID.Hex())
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Tầng 3" {
		t.Errorf("Name = %q, want %q", got.Name, "Tầng 3")
	}
}

func TestCreate_DuplicateNumber(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	store := floorstore.New(db)

	if _, err := store.Create(ctx, modalflow.Draft{"number": "2", "name": "Tầng 2"}); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	_, err := store.Create(ctx, modalflow.Draft{"number": "2", "name": "Another"})
	if !errors.Is(err, floorstore.ErrDuplicateFloorNumber) {
		t.Errorf("err = %v, want ErrDuplicateFloorNumber", err)
	}
}

func TestCreate_BadNumber(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := floorstore.New(db)
	if _, err := store.Create(ctx, modalflow.Draft{"number": "ground", "name": "Lobby"}); err == nil {
		t.Error("Create accepted a non-numeric floor number")
	}
}

func TestUpdate_SyncsAreaFloorNumbers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	floor := fx.CreateFloor(ctx, 4, "Tầng 4")
	area := fx.CreateArea(ctx, "Khu A", floor)

	store := floorstore.New(db)
	updated, err := store.Update(ctx, floor.ID.Hex(), modalflow.Draft{
		"number": "5",
		"name":   "Tầng 5",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Number != 5 {
		t.Errorf("Number = %d, want 5", updated.Number)
	}

	var synced struct {
		FloorNumber int `bson:"floor_number"`
	}
	if err := db.Collection("areas").FindOne(ctx, bson.M{"_id": area.ID}).Decode(&synced); err != nil {
		t.Fatalf("reload area: %v", err)
	}
	if synced.FloorNumber != 5 {
		t.Errorf("area floor_number = %d, want 5 after floor renumber", synced.FloorNumber)
	}
}

func TestDelete_RefusesWhileAreasExist(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	floor := fx.CreateFloor(ctx, 6, "Tầng 6")
	fx.CreateArea(ctx, "Khu B", floor)

	store := floorstore.New(db)
	err := store.Delete(ctx, floor.ID.Hex())
	if !errors.Is(err, floorstore.ErrFloorHasAreas) {
		t.Fatalf("err = %v, want ErrFloorHasAreas", err)
	}

	// Still deletable once the areas are gone.
	if _, err := db.Collection("areas").DeleteMany(ctx, bson.M{"floor_id": floor.ID}); err != nil {
		t.Fatalf("clear areas: %v", err)
	}
	if err := store.Delete(ctx, floor.ID.Hex()); err != nil {
		t.Fatalf("Delete after clearing areas: %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := floorstore.New(db)
	if err := store.Delete(ctx, "000000000000000000000000"); !errors.Is(err, floorstore.ErrFloorNotFound) {
		t.Errorf("err = %v, want ErrFloorNotFound", err)
	}
}
