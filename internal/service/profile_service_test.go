package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/dto"
	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/model"
)

func TestProfile_DefaultsAndSave(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewProfileService(f.state)

	assert.Equal(t, model.DefaultStoreProfile(), svc.GetProfile(ctx))

	_, err := svc.SaveProfile(ctx, dto.ProfileRequest{Name: "   "})
	assert.ErrorIs(t, err, ErrValidation)

	saved, err := svc.SaveProfile(ctx, dto.ProfileRequest{Name: " HF Frozen Food Depok ", AdminName: "Rina", QRISImage: "data:image/png;base64,AAAA"})
	require.NoError(t, err)
	assert.Equal(t, "HF Frozen Food Depok", saved.Name)
	assert.Empty(t, saved.Address, "profile is replaced wholesale")

	reloaded := NewProfileService(f.reload(t)).GetProfile(ctx)
	assert.Equal(t, *saved, reloaded)
}

func TestTheme(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewProfileService(f.state)

	assert.Equal(t, model.ThemeDark, svc.GetTheme(ctx))
	assert.ErrorIs(t, svc.SetTheme(ctx, "sepia"), ErrValidation)

	writes := len(f.store.writes)
	require.NoError(t, svc.SetTheme(ctx, model.ThemeDark))
	assert.Len(t, f.store.writes, writes, "unchanged theme is not written")

	require.NoError(t, svc.SetTheme(ctx, model.ThemeLight))
	assert.Equal(t, []string{"theme"}, f.store.writes[len(f.store.writes)-1])
	assert.Equal(t, model.ThemeLight, NewProfileService(f.reload(t)).GetTheme(ctx))
}
