package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryLifecycle(t *testing.T) {
	f := newFixture()
	svc := NewCategoryService(f.category)
	ctx := context.Background()

	cat, err := svc.Create(ctx, &CategoryRequest{Name: "Networking", Description: "Routers and switches"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, &CategoryRequest{Name: "Networking"})
	assert.ErrorIs(t, err, ErrConflict)

	desc := "Routers, switches, access points"
	updated, err := svc.Update(ctx, cat.ID, &UpdateCategoryRequest{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "Networking", updated.Name)
	assert.Equal(t, desc, updated.Description)

	got, err := svc.Get(ctx, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, desc, got.Description)

	require.NoError(t, svc.Delete(ctx, cat.ID))
	_, err = svc.Get(ctx, cat.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCategoryRenameConflict(t *testing.T) {
	f := newFixture()
	svc := NewCategoryService(f.category)
	ctx := context.Background()

	f.seedCategory("Storage")
	other := f.seedCategory("Memory")

	name := "Storage"
	_, err := svc.Update(ctx, other.ID, &UpdateCategoryRequest{Name: &name})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCategoryDeleteRestrictedByProducts(t *testing.T) {
	f := newFixture()
	svc := NewCategoryService(f.category)
	cat := f.seedCategory("Printers")
	f.seedProduct(cat.ID, "LaserJet", 2)

	err := svc.Delete(context.Background(), cat.ID)
	require.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, f.db.categories, cat.ID)
}

func TestCategoryNotFound(t *testing.T) {
	svc := NewCategoryService(newFixture().category)

	_, err := svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), uuid.New()), ErrNotFound)
}

func TestCategoryListOrderedAndPaged(t *testing.T) {
	f := newFixture()
	for _, n := range []string{"Cables", "Audio", "Batteries"} {
		f.seedCategory(n)
	}
	svc := NewCategoryService(f.category)

	all, err := svc.List(context.Background(), 0, 100)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Audio", all[0].Name)

	page, err := svc.List(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Batteries", page[0].Name)
}
