package services

import (
	"context"
	"errors"
	"testing"
)

func TestObjectService_Register_Success_TrimsFields(t *testing.T) {
	db := newServiceDB(t)
	svc := NewObjectService(db)

	o, err := svc.Register(context.Background(), "u1", ObjectInput{
		Name:     "  Capteur salon ",
		Type:     " temperature",
		Location: "Salon ",
		SensorID: " s1 ",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if o.SensorID != "s1" || o.Name != "Capteur salon" || o.Type != "temperature" || o.Location != "Salon" {
		t.Fatalf("fields not trimmed: %+v", o)
	}
	if o.UserID != "u1" {
		t.Fatalf("owner = %q, want u1", o.UserID)
	}
}

func TestObjectService_Register_SensorTaken_AcrossUsers(t *testing.T) {
	db := newServiceDB(t)
	svc := NewObjectService(db)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "u1", ObjectInput{Name: "a", Type: "t", Location: "l", SensorID: "s1"}); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	// First registrant wins, whoever tries next.
	if _, err := svc.Register(ctx, "u2", ObjectInput{Name: "b", Type: "t", Location: "l", SensorID: "s1"}); !errors.Is(err, ErrSensorTaken) {
		t.Fatalf("want ErrSensorTaken, got %v", err)
	}
	if _, err := svc.Register(ctx, "u1", ObjectInput{Name: "c", Type: "t", Location: "l", SensorID: "s1"}); !errors.Is(err, ErrSensorTaken) {
		t.Fatalf("same owner re-register: want ErrSensorTaken, got %v", err)
	}
}

func TestObjectService_GetAndDelete_NonLeaking(t *testing.T) {
	db := newServiceDB(t)
	svc := NewObjectService(db)
	ctx := context.Background()

	o, err := svc.Register(ctx, "u1", ObjectInput{Name: "a", Type: "t", Location: "l", SensorID: "s1"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := svc.Get(ctx, "u1", o.ID); err != nil {
		t.Fatalf("owner Get: %v", err)
	}
	// Foreign owner and missing id yield the same error.
	if _, err := svc.Get(ctx, "u2", o.ID); !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("foreign Get: want ErrObjectNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, "u2", o.ID); !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("foreign Delete: want ErrObjectNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, "u1", o.ID); err != nil {
		t.Fatalf("owner Delete: %v", err)
	}
	if _, err := svc.Get(ctx, "u1", o.ID); !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("deleted Get: want ErrObjectNotFound, got %v", err)
	}
}

func TestObjectService_List_OnlyOwnObjects(t *testing.T) {
	db := newServiceDB(t)
	svc := NewObjectService(db)
	ctx := context.Background()

	_, _ = svc.Register(ctx, "u1", ObjectInput{Name: "a", Type: "t", Location: "l", SensorID: "s1"})
	_, _ = svc.Register(ctx, "u2", ObjectInput{Name: "b", Type: "t", Location: "l", SensorID: "s2"})

	out, err := svc.List(ctx, "u1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(out) != 1 || out[0].SensorID != "s1" {
		t.Fatalf("unexpected list: %+v", out)
	}
}
