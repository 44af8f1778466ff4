package services_test

import (
	"reflect"
	"testing"

	"tireshop/internal/repos"
	"tireshop/internal/services"
)

func TestCatalogHidesInactive(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	prodRepo := repos.NewProductRepo(db)
	svc := services.NewCatalogService(prodRepo)

	id, err := prodRepo.Insert("Hidden Tire", 1000, "🛞", "", `[]`)
	if err != nil {
		t.Fatal(err)
	}
	if err := prodRepo.SetActive(id, false); err != nil {
		t.Fatal(err)
	}

	public, err := svc.List(false)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range public {
		if !p.Active {
			t.Fatalf("inactive product %d leaked into public catalog", p.ID)
		}
	}

	all, err := svc.List(true)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, p := range all {
		if p.ID == id {
			found = true
			if p.Active {
				t.Fatal("admin variant lost the true active flag")
			}
		}
	}
	if !found {
		t.Fatal("admin variant should include inactive products")
	}
}

func TestCatalogDecodesSpecs(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	prodRepo := repos.NewProductRepo(db)
	svc := services.NewCatalogService(prodRepo)

	id, err := prodRepo.Insert("Spec Tire", 2000, "🛞", "", `["Summer","205/55R16"]`)
	if err != nil {
		t.Fatal(err)
	}

	prods, err := svc.List(false)
	if err != nil {
		t.Fatal(err)
	}
	// newest first: the inserted product leads
	if prods[0].ID != id {
		t.Fatalf("want newest first, got id %d", prods[0].ID)
	}
	if !reflect.DeepEqual(prods[0].Specs, []string{"Summer", "205/55R16"}) {
		t.Fatalf("specs not decoded in order: %v", prods[0].Specs)
	}

	// malformed specs decode to an empty sequence, never nil
	for _, p := range prods {
		if p.Specs == nil {
			t.Fatalf("product %d has nil specs", p.ID)
		}
	}
}
