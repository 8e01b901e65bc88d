package requeststore_test

import (
	"errors"
	"testing"

	requeststore "github.com/baodpham/sanihub/internal/app/store/requests"
	"github.com/baodpham/sanihub/internal/app/system/modalflow"
	"github.com/baodpham/sanihub/internal/app/system/reqstatus"
	"github.com/baodpham/sanihub/internal/testutil"
)

func TestCreate_EntersLifecycleAtSent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	floor := fx.CreateFloor(ctx, 1, "Tầng 1")
	area := fx.CreateArea(ctx, "Khu A", floor)
	room := fx.CreateRoom(ctx, 101, area)

	store := requeststore.New(db)
	created, err := store.Create(ctx, modalflow.Draft{
		"title":        "Vòi nước bị rò",
		"room_id":      room.ID.Hex(),
		"description":  "Nước chảy liên tục",
		"requested_by": "Nguyen Van A",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.StatusCode != int(reqstatus.Sent) {
		t.Errorf("StatusCode = %d, want %d (Sent)", created.StatusCode, int(reqstatus.Sent))
	}
	if created.Code == "" {
		t.Error("tracking code not assigned")
	}
	if created.RoomNumber != 101 {
		t.Errorf("RoomNumber = %d, want 101", created.RoomNumber)
	}

	byCode, err := store.GetByCode(ctx, created.Code)
	if err != nil {
		t.Fatalf("GetByCode: %v", err)
	}
	if byCode.ID != created.ID {
		t.Error("GetByCode returned a different request")
	}
}

func TestCreate_UnknownRoom(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := requeststore.New(db)
	_, err := store.Create(ctx, modalflow.Draft{
		"title":   "Đèn hỏng",
		"room_id": "000000000000000000000000",
	})
	if !errors.Is(err, requeststore.ErrUnknownRoom) {
		t.Errorf("err = %v, want ErrUnknownRoom", err)
	}
}

func TestTransition_LegalPath(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	floor := fx.CreateFloor(ctx, 2, "Tầng 2")
	area := fx.CreateArea(ctx, "Khu B", floor)
	room := fx.CreateRoom(ctx, 201, area)
	req := fx.CreateMaintenanceRequest(ctx, "Bồn rửa tắc", room, int(reqstatus.Sent))

	store := requeststore.New(db)

	processing, err := store.Transition(ctx, req.ID.Hex(), reqstatus.Processing)
	if err != nil {
		t.Fatalf("Sent -> Processing: %v", err)
	}
	if processing.StatusCode != int(reqstatus.Processing) {
		t.Errorf("StatusCode = %d, want Processing", processing.StatusCode)
	}

	resolved, err := store.Transition(ctx, req.ID.Hex(), reqstatus.Resolved)
	if err != nil {
		t.Fatalf("Processing -> Resolved: %v", err)
	}
	if resolved.StatusCode != int(reqstatus.Resolved) {
		t.Errorf("StatusCode = %d, want Resolved", resolved.StatusCode)
	}
}

func TestTransition_RejectsIllegalJump(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	floor := fx.CreateFloor(ctx, 3, "Tầng 3")
	area := fx.CreateArea(ctx, "Khu C", floor)
	room := fx.CreateRoom(ctx, 301, area)
	req := fx.CreateMaintenanceRequest(ctx, "Cửa kẹt", room, int(reqstatus.Sent))

	store := requeststore.New(db)

	// A request still marked Sent cannot skip straight to Resolved.
	if _, err := store.Transition(ctx, req.ID.Hex(), reqstatus.Resolved); err == nil {
		t.Fatal("Sent -> Resolved accepted, want rejection")
	}

	// Terminal states accept no further moves.
	if _, err := store.Transition(ctx, req.ID.Hex(), reqstatus.Cancelled); err != nil {
		t.Fatalf("Sent -> Cancelled: %v", err)
	}
	if _, err := store.Transition(ctx, req.ID.Hex(), reqstatus.Processing); err == nil {
		t.Fatal("Cancelled -> Processing accepted, want rejection")
	}
}

func TestUpdate_DoesNotTouchStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	floor := fx.CreateFloor(ctx, 4, "Tầng 4")
	area := fx.CreateArea(ctx, "Khu D", floor)
	room := fx.CreateRoom(ctx, 401, area)
	req := fx.CreateMaintenanceRequest(ctx, "Gương vỡ", room, int(reqstatus.Processing))

	store := requeststore.New(db)
	updated, err := store.Update(ctx, req.ID.Hex(), modalflow.Draft{
		"title":        "Gương vỡ - khẩn",
		"room_id":      room.ID.Hex(),
		"requested_by": "Tran Thi B",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "Gương vỡ - khẩn" {
		t.Errorf("Title = %q, want updated title", updated.Title)
	}
	if updated.StatusCode != int(reqstatus.Processing) {
		t.Errorf("StatusCode = %d, want Processing untouched by Update", updated.StatusCode)
	}
}
