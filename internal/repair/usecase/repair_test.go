package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/shopdesk/internal/pkg/gate"
	"github.com/shandysiswandi/shopdesk/internal/repair/entity"
)

func TestUsecase_Gate(t *testing.T) {
	calls := map[string]func(uc *Usecase, id int64) error{
		"status": func(uc *Usecase, id int64) error {
			_, err := uc.UpdateStatus(context.Background(), UpdateStatusInput{ID: id, Status: "in_repair"})
			return err
		},
		"attach part": func(uc *Usecase, id int64) error {
			_, err := uc.AttachPart(context.Background(), AttachPartInput{RepairID: id, ProductID: 1, Quantity: 1})
			return err
		},
		"invoice": func(uc *Usecase, id int64) error {
			_, err := uc.CreateInvoice(context.Background(), id)
			return err
		},
		"create": func(uc *Usecase, _ int64) error {
			_, err := uc.CreateRepair(context.Background(), CreateRepairInput{CustomerName: "A", Device: "B"})
			return err
		},
	}

	for name, call := range calls {
		t.Run(name+" without token", func(t *testing.T) {
			d := newDeps()
			d.gate.anon = true
			r := d.repo.add(entity.Repair{Reference: "R1"})

			requireReason(t, call(d.usecase(t, ""), r.ID), http.StatusUnauthorized, "UNAUTHORIZED")
			if d.repo.mutations != 0 {
				t.Fatalf("mutations = %d", d.repo.mutations)
			}
		})

		t.Run(name+" with a plain user", func(t *testing.T) {
			d := newDeps()
			d.gate = &fakeGate{role: gate.RoleUser}
			r := d.repo.add(entity.Repair{Reference: "R1"})

			requireReason(t, call(d.usecase(t, ""), r.ID), http.StatusForbidden, "FORBIDDEN")
			if d.repo.mutations != 0 {
				t.Fatalf("mutations = %d", d.repo.mutations)
			}
		})
	}
}

func TestUsecase_CreateRepair(t *testing.T) {
	// Arrange
	d := newDeps()
	uc := d.usecase(t, "")

	// Act
	r, err := uc.CreateRepair(context.Background(), CreateRepairInput{CustomerName: " Marie ", Device: "iPhone 12"})

	// Assert
	if err != nil {
		t.Fatal(err)
	}
	if r.Status != entity.StatusQuoteTodo || r.CustomerName != "Marie" {
		t.Fatalf("unexpected repair %+v", r)
	}
	if r.Reference != "REP-261014-00ABCD" {
		t.Fatalf("reference = %q", r.Reference)
	}
}

func TestUsecase_UpdateStatus(t *testing.T) {
	t.Run("unknown status", func(t *testing.T) {
		d := newDeps()
		r := d.repo.add(entity.Repair{})

		_, err := d.usecase(t, "").UpdateStatus(context.Background(), UpdateStatusInput{ID: r.ID, Status: "lost"})

		requireReason(t, err, http.StatusBadRequest, "INVALID_STATUS")
	})

	t.Run("drying needs the drying endpoint", func(t *testing.T) {
		// Arrange
		d := newDeps()
		r := d.repo.add(entity.Repair{Status: entity.StatusInRepair})

		// Act
		_, err := d.usecase(t, "").UpdateStatus(context.Background(), UpdateStatusInput{ID: r.ID, Status: "drying"})

		// Assert
		requireReason(t, err, http.StatusConflict, "INVALID_STATE")
		if d.repo.repairs[r.ID].Status != entity.StatusInRepair || d.repo.mutations != 0 {
			t.Fatal("status must be unchanged")
		}
	})

	for _, target := range []string{"to_repair", "ready_to_return"} {
		t.Run(target+" with unreserved parts", func(t *testing.T) {
			// Arrange
			d := newDeps()
			r := d.repo.add(entity.Repair{Status: entity.StatusInRepair})
			d.repo.items[r.ID] = []entity.Item{{ID: 1, Reserved: true}, {ID: 2, Reserved: false}}

			// Act
			_, err := d.usecase(t, "").UpdateStatus(context.Background(), UpdateStatusInput{ID: r.ID, Status: target})

			// Assert
			gerr := requireReason(t, err, http.StatusConflict, "PARTS_NOT_RESERVED")
			if ids, _ := gerr.Context()["unreserved_item_ids"].([]int64); len(ids) != 1 || ids[0] != 2 {
				t.Fatalf("context = %v", gerr.Context())
			}
			if d.repo.repairs[r.ID].Status != entity.StatusInRepair {
				t.Fatal("status must be unchanged")
			}
		})

		t.Run(target+" with no parts", func(t *testing.T) {
			d := newDeps()
			r := d.repo.add(entity.Repair{Status: entity.StatusInRepair})

			_, err := d.usecase(t, "").UpdateStatus(context.Background(), UpdateStatusInput{ID: r.ID, Status: target})

			requireReason(t, err, http.StatusConflict, "PARTS_NOT_RESERVED")
		})
	}

	t.Run("ready with every part reserved", func(t *testing.T) {
		d := newDeps()
		r := d.repo.add(entity.Repair{Status: entity.StatusInRepair})
		d.repo.items[r.ID] = []entity.Item{{ID: 1, Reserved: true}}

		got, err := d.usecase(t, "").UpdateStatus(context.Background(),
			UpdateStatusInput{ID: r.ID, Status: "ready_to_return", Note: "écran changé"})

		if err != nil {
			t.Fatal(err)
		}
		if got.Status != entity.StatusReadyToReturn || d.repo.notes[r.ID] != "écran changé" {
			t.Fatalf("status = %s note = %q", got.Status, d.repo.notes[r.ID])
		}
	})

	archive := []struct {
		name    string
		repair  entity.Repair
		wantErr bool
	}{
		{name: "not invoiced nor delivered", repair: entity.Repair{Status: entity.StatusReadyToReturn}, wantErr: true},
		{name: "delivered", repair: entity.Repair{Status: entity.StatusDelivered}},
		{name: "invoiced", repair: entity.Repair{Status: entity.StatusReadyToReturn, InvoiceID: ptr(int64(9))}},
	}
	for _, tt := range archive {
		t.Run("archive "+tt.name, func(t *testing.T) {
			d := newDeps()
			r := d.repo.add(tt.repair)

			got, err := d.usecase(t, "").UpdateStatus(context.Background(), UpdateStatusInput{ID: r.ID, Status: "archived"})

			if tt.wantErr {
				requireReason(t, err, http.StatusConflict, "CANNOT_ARCHIVE")
				if d.repo.mutations != 0 {
					t.Fatal("no mutation expected")
				}
				return
			}
			if err != nil || got.Status != entity.StatusArchived {
				t.Fatalf("got %+v err %v", got, err)
			}
		})
	}

	t.Run("unknown repair", func(t *testing.T) {
		d := newDeps()

		_, err := d.usecase(t, "").UpdateStatus(context.Background(), UpdateStatusInput{ID: 42, Status: "in_repair"})

		requireReason(t, err, http.StatusNotFound, "NOT_FOUND")
	})
}

func TestUsecase_AttachPart(t *testing.T) {
	t.Run("insufficient stock lists candidates", func(t *testing.T) {
		// Arrange
		d := newDeps()
		r := d.repo.add(entity.Repair{})
		d.repo.reserveErr = fmt.Errorf("%w: insufficient stock for product 7", entity.ErrInsufficientStock)
		d.repo.stock[7] = []entity.StockLevel{{ProductID: 7, StockID: 2, StockName: "Réserve", Available: 1}}

		// Act
		_, err := d.usecase(t, "").AttachPart(context.Background(),
			AttachPartInput{RepairID: r.ID, ProductID: 7, StockID: ptr(int64(1)), Quantity: 2})

		// Assert
		gerr := requireReason(t, err, http.StatusUnprocessableEntity, "INSUFFICIENT_STOCK")
		candidates, ok := gerr.Context()["candidates"].([]entity.StockLevel)
		if !ok || len(candidates) != 1 || candidates[0].StockID != 2 {
			t.Fatalf("candidates = %v", gerr.Context()["candidates"])
		}
	})

	t.Run("no candidates is an empty list", func(t *testing.T) {
		d := newDeps()
		r := d.repo.add(entity.Repair{})
		d.repo.reserveErr = entity.ErrInsufficientStock

		_, err := d.usecase(t, "").AttachPart(context.Background(), AttachPartInput{RepairID: r.ID, ProductID: 7, Quantity: 2})

		gerr := requireReason(t, err, http.StatusUnprocessableEntity, "INSUFFICIENT_STOCK")
		if c, ok := gerr.Context()["candidates"].([]entity.StockLevel); !ok || c == nil {
			t.Fatalf("candidates = %#v", gerr.Context()["candidates"])
		}
	})

	t.Run("serial unavailable", func(t *testing.T) {
		d := newDeps()
		d.repo.reserveErr = entity.ErrSerialUnavailable

		_, err := d.usecase(t, "").AttachPart(context.Background(), AttachPartInput{RepairID: 1, ProductID: 7, Quantity: 1, Serial: "SN1"})

		requireReason(t, err, http.StatusConflict, "SERIAL_UNAVAILABLE")
	})

	t.Run("zero quantity", func(t *testing.T) {
		d := newDeps()

		_, err := d.usecase(t, "").AttachPart(context.Background(), AttachPartInput{RepairID: 1, ProductID: 7})

		requireReason(t, err, http.StatusBadRequest, "VALIDATION_ERROR")
	})

	t.Run("reserved", func(t *testing.T) {
		d := newDeps()
		r := d.repo.add(entity.Repair{})

		item, err := d.usecase(t, "").AttachPart(context.Background(), AttachPartInput{RepairID: r.ID, ProductID: 7, Quantity: 1})

		if err != nil || !item.Reserved || item.ProductID != 7 {
			t.Fatalf("item %+v err %v", item, err)
		}
	})
}

func TestUsecase_ReleaseParts(t *testing.T) {
	d := newDeps()
	r := d.repo.add(entity.Repair{})
	d.repo.items[r.ID] = []entity.Item{{ID: 1, Reserved: true}, {ID: 2, Reserved: true}}
	uc := d.usecase(t, "")

	n, err := uc.ReleaseParts(context.Background(), ReleasePartsInput{RepairID: r.ID, ItemID: ptr(int64(2))})
	if err != nil || n != 1 {
		t.Fatalf("n = %d err = %v", n, err)
	}

	n, err = uc.ReleaseParts(context.Background(), ReleasePartsInput{RepairID: r.ID})
	if err != nil || n != 1 {
		t.Fatalf("n = %d err = %v", n, err)
	}
}

func TestUsecase_Drying(t *testing.T) {
	t.Run("acknowledge when not drying", func(t *testing.T) {
		d := newDeps()
		r := d.repo.add(entity.Repair{Status: entity.StatusInRepair})

		_, err := d.usecase(t, "").AcknowledgeDrying(context.Background(), r.ID)

		requireReason(t, err, http.StatusConflict, "INVALID_STATE")
	})

	for _, st := range []entity.Status{entity.StatusArchived, entity.StatusDelivered, entity.StatusCancelled} {
		t.Run("start on "+string(st), func(t *testing.T) {
			// Arrange
			d := newDeps()
			r := d.repo.add(entity.Repair{Status: st})

			// Act
			_, err := d.usecase(t, "").StartDrying(context.Background(), StartDryingInput{ID: r.ID, Minutes: 30})

			// Assert
			requireReason(t, err, http.StatusConflict, "INVALID_STATE")
			if got := d.repo.repairs[r.ID]; got.Status != st || got.DryingEndAt != nil {
				t.Fatalf("repair changed: %+v", got)
			}
		})
	}

	t.Run("start sets the window", func(t *testing.T) {
		d := newDeps()
		r := d.repo.add(entity.Repair{Status: entity.StatusInRepair})

		got, err := d.usecase(t, "").StartDrying(context.Background(), StartDryingInput{ID: r.ID, Minutes: 30})

		if err != nil {
			t.Fatal(err)
		}
		if got.Status != entity.StatusDrying || got.DryingEndAt == nil || !got.DryingEndAt.Equal(now.Add(30*time.Minute)) {
			t.Fatalf("got %+v", got)
		}
	})

	t.Run("start then check", func(t *testing.T) {
		// Arrange
		d := newDeps()
		r := d.repo.add(entity.Repair{Reference: "REP-1", Device: "Pixel"})
		uc := d.usecase(t, "")
		if _, err := uc.StartDrying(context.Background(), StartDryingInput{ID: r.ID, Minutes: 30}); err != nil {
			t.Fatal(err)
		}
		end := now.Add(-time.Minute)
		d.repo.repairs[r.ID].DryingEndAt = &end

		// Act
		first, err := uc.RunDryingCheck(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		second, _ := uc.RunDryingCheck(context.Background())

		// Assert
		if first.Processed != 1 || second.Processed != 0 {
			t.Fatalf("first = %+v second = %+v", first, second)
		}
		if len(d.notifier.sent) != 1 || d.notifier.sent[0].UserID != "" || d.notifier.sent[0].Type != NotificationTypeDryingDone {
			t.Fatalf("sent = %+v", d.notifier.sent)
		}
	})

	t.Run("acknowledged drying is not notified", func(t *testing.T) {
		d := newDeps()
		r := d.repo.add(entity.Repair{})
		uc := d.usecase(t, "")
		if _, err := uc.StartDrying(context.Background(), StartDryingInput{ID: r.ID, Minutes: 1}); err != nil {
			t.Fatal(err)
		}
		if _, err := uc.AcknowledgeDrying(context.Background(), r.ID); err != nil {
			t.Fatal(err)
		}
		end := now.Add(-time.Minute)
		d.repo.repairs[r.ID].DryingEndAt = &end

		out, _ := uc.RunDryingCheck(context.Background())

		if out.Processed != 0 || len(d.notifier.sent) != 0 {
			t.Fatalf("out = %+v", out)
		}
	})
}

func TestUsecase_Uploads(t *testing.T) {
	yaml := "storage:\n  bucket: shop\n  public_base_url: https://cdn.example.com/shop\n"

	t.Run("signature", func(t *testing.T) {
		// Arrange
		d := newDeps()
		r := d.repo.add(entity.Repair{})

		// Act
		got, err := d.usecase(t, yaml).UploadSignature(context.Background(), UploadInput{
			RepairID: r.ID, File: strings.NewReader("png"), ContentType: "image/png",
		})

		// Assert
		if err != nil {
			t.Fatal(err)
		}
		key := fmt.Sprintf("repairs/%d/signature/%s", r.ID, staticID{}.Generate())
		if string(d.storage.objects[key]) != "png" {
			t.Fatalf("objects = %v", d.storage.objects)
		}
		if got.SignatureURL == nil || *got.SignatureURL != "https://cdn.example.com/shop/"+key {
			t.Fatalf("url = %v", got.SignatureURL)
		}
	})

	t.Run("photo on unknown repair uploads nothing", func(t *testing.T) {
		d := newDeps()

		_, err := d.usecase(t, yaml).UploadPhoto(context.Background(), UploadInput{
			RepairID: 9, File: strings.NewReader("jpg"), ContentType: "image/jpeg",
		})

		requireReason(t, err, http.StatusNotFound, "NOT_FOUND")
		if len(d.storage.objects) != 0 {
			t.Fatal("nothing must be uploaded")
		}
	})

	t.Run("not an image", func(t *testing.T) {
		d := newDeps()
		r := d.repo.add(entity.Repair{})

		_, err := d.usecase(t, yaml).UploadPhoto(context.Background(), UploadInput{
			RepairID: r.ID, File: strings.NewReader("x"), ContentType: "application/pdf",
		})

		requireReason(t, err, http.StatusBadRequest, "VALIDATION_ERROR")
	})
}

func TestUsecase_CreateInvoice(t *testing.T) {
	t.Run("stores invoice id", func(t *testing.T) {
		d := newDeps()
		r := d.repo.add(entity.Repair{Status: entity.StatusReadyToReturn})

		got, err := d.usecase(t, "").CreateInvoice(context.Background(), r.ID)

		if err != nil || got.InvoiceID == nil || *got.InvoiceID != 501 {
			t.Fatalf("got %+v err %v", got, err)
		}
	})

	t.Run("already invoiced ticket", func(t *testing.T) {
		d := newDeps()
		r := d.repo.add(entity.Repair{InvoiceID: ptr(int64(3))})

		_, err := d.usecase(t, "").CreateInvoice(context.Background(), r.ID)

		requireReason(t, err, http.StatusConflict, "ALREADY_INVOICED")
	})

	t.Run("procedure reports already invoiced", func(t *testing.T) {
		d := newDeps()
		r := d.repo.add(entity.Repair{})
		d.repo.finalizeErr = entity.ErrAlreadyInvoiced

		_, err := d.usecase(t, "").CreateInvoice(context.Background(), r.ID)

		requireReason(t, err, http.StatusConflict, "ALREADY_INVOICED")
	})
}

func TestUsecase_RunDailyDigest(t *testing.T) {
	yaml := "mail:\n  from: atelier@example.com\nmodules:\n  repair:\n    digest:\n      recipients: [a@example.com, b@example.com]\n"
	tickets := []entity.DigestRow{
		{ID: 1, Reference: "R1", Status: entity.StatusReadyToReturn, Device: "Pixel"},
		{ID: 2, Reference: "R2", Status: entity.StatusWaitingParts},
		{ID: 3, Reference: "R3", Status: entity.StatusWaitingParts},
		{ID: 4, Reference: "R4", Status: entity.StatusInRepair},
	}

	t.Run("sends once", func(t *testing.T) {
		// Arrange
		d := newDeps()
		d.repo.openTickets = tickets
		uc := d.usecase(t, yaml)

		// Act
		first, err := uc.RunDailyDigest(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		second, err := uc.RunDailyDigest(context.Background())
		if err != nil {
			t.Fatal(err)
		}

		// Assert
		if first.Skipped || first.Emailed != 2 || first.Counts["waiting_parts"] != 2 {
			t.Fatalf("first = %+v", first)
		}
		if !second.Skipped {
			t.Fatal("second run must be skipped")
		}
		if len(d.notifier.sent) != 1 || d.notifier.sent[0].UserID != "" {
			t.Fatalf("sent = %+v", d.notifier.sent)
		}
		if len(d.mail.sent) != 1 || !strings.Contains(d.mail.sent[0].HTMLBody, "R1") {
			t.Fatalf("mail = %+v", d.mail.sent)
		}
	})

	t.Run("existing digest notification skips", func(t *testing.T) {
		d := newDeps()
		d.repo.digestSent = true

		out, err := d.usecase(t, yaml).RunDailyDigest(context.Background())

		if err != nil || !out.Skipped || len(d.notifier.sent) != 0 {
			t.Fatalf("out = %+v err = %v", out, err)
		}
	})

	t.Run("notify failure allows a retry", func(t *testing.T) {
		d := newDeps()
		d.repo.openTickets = tickets
		d.notifier.err = errors.New("db down")
		uc := d.usecase(t, yaml)

		if _, err := uc.RunDailyDigest(context.Background()); err == nil {
			t.Fatal("expected an error")
		}

		d.notifier.err = nil
		out, err := uc.RunDailyDigest(context.Background())
		if err != nil || out.Skipped {
			t.Fatalf("out = %+v err = %v", out, err)
		}
	})
}
