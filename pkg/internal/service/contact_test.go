package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/greenparkpeyzaj/greenpark/pkg/internal/model"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/service"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/types"
)

func contactInput(company string, lat, lng float64) types.ContactUpdateInput {
	day := model.DayHours{Open: "08:00", Close: "17:00", IsOpen: true}

	return types.ContactUpdateInput{
		CompanyName: company,
		Address:     "Ankara",
		Phone:       "0312 000 00 00",
		Email:       "info@example.com",
		Latitude:    lat,
		Longitude:   lng,
		WorkingHours: model.WorkingHours{
			Monday: day, Tuesday: day, Wednesday: day, Thursday: day, Friday: day,
			Saturday: model.DayHours{Open: "10:00", Close: "14:00", IsOpen: true},
			Sunday:   model.DayHours{Open: "00:00", Close: "00:00"},
		},
	}
}

// TestContactDefaults 空库返回默认值且不写入.
func TestContactDefaults(t *testing.T) {
	env := newEnv(t)
	svc := service.NewContactService(env.deps)

	got, err := svc.Get(context.Background(), struct{}{})
	if err != nil {
		t.Fatal(err)
	}

	if got.ID != "" || got.CompanyName != "GreenPark Peyzaj" || got.Latitude != 39.9334 || got.Longitude != 32.8157 {
		t.Fatalf("defaults = %+v", got)
	}

	if !got.WorkingHours.Friday.IsOpen || got.WorkingHours.Saturday.Close != "16:00" || got.WorkingHours.Sunday.IsOpen {
		t.Fatalf("hours = %+v", got.WorkingHours)
	}

	var n int64
	if err := env.deps.DB.Model(&model.ContactInfo{}).Count(&n).Error; err != nil || n != 0 {
		t.Fatalf("rows = %d, %v", n, err)
	}

	url, err := svc.GetMapURL(context.Background(), struct{}{})
	if err != nil {
		t.Fatal(err)
	}

	if url != service.DefaultMapURL || !strings.Contains(url, "!1d3059.123!2d32.8157!3d39.9334!") {
		t.Fatalf("default map url = %s", url)
	}
}

// TestContactUpsert 两次更新写入同一行.
func TestContactUpsert(t *testing.T) {
	env := newEnv(t)
	svc := service.NewContactService(env.deps)
	ctx := adminCtx()

	first, err := svc.Update(ctx, contactInput("Bir", 40.1, 33.2))
	if err != nil {
		t.Fatal(err)
	}

	second, err := svc.Update(ctx, contactInput("İki", 41.015, 28.979))
	if err != nil {
		t.Fatal(err)
	}

	if first.ID == "" || first.ID != second.ID {
		t.Fatalf("ids = %s, %s", first.ID, second.ID)
	}

	var n int64
	if err := env.deps.DB.Model(&model.ContactInfo{}).Count(&n).Error; err != nil || n != 1 {
		t.Fatalf("rows = %d, %v", n, err)
	}

	got, err := svc.Get(context.Background(), struct{}{})
	if err != nil {
		t.Fatal(err)
	}

	if got.CompanyName != "İki" || got.WorkingHours.Saturday.Open != "10:00" {
		t.Fatalf("stored = %+v", got)
	}

	url, err := svc.GetMapURL(context.Background(), struct{}{})
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(url, "!1d3057.5!2d28.979!3d41.015!") {
		t.Fatalf("map url = %s", url)
	}
}
