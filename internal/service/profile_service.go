package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/dto"
	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/model"
	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/repository"
)

type ProfileService interface {
	GetProfile(ctx context.Context) model.StoreProfile
	SaveProfile(ctx context.Context, req dto.ProfileRequest) (*model.StoreProfile, error)
	GetTheme(ctx context.Context) model.Theme
	SetTheme(ctx context.Context, theme model.Theme) error
}

type profileService struct{ state *State }

func NewProfileService(state *State) ProfileService {
	return &profileService{state: state}
}

func (s *profileService) GetProfile(_ context.Context) (p model.StoreProfile) {
	s.state.read(func(snap *repository.Snapshot) { p = snap.Profile })
	return p
}

// SaveProfile replaces the profile wholesale.
func (s *profileService) SaveProfile(ctx context.Context, req dto.ProfileRequest) (*model.StoreProfile, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: store name is required", ErrValidation)
	}
	p := model.StoreProfile{
		Name:      strings.TrimSpace(req.Name),
		Address:   strings.TrimSpace(req.Address),
		AdminName: strings.TrimSpace(req.AdminName),
		Logo:      req.Logo,
		QRISImage: req.QRISImage,
	}
	err := s.state.runUnit(ctx, func(next *repository.Snapshot) ([]repository.Key, error) {
		next.Profile = p
		return []repository.Key{repository.KeyStoreProfile}, nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *profileService) GetTheme(_ context.Context) (t model.Theme) {
	s.state.read(func(snap *repository.Snapshot) { t = snap.Theme })
	return t
}

func (s *profileService) SetTheme(ctx context.Context, theme model.Theme) error {
	if !theme.Valid() {
		return fmt.Errorf("%w: unknown theme %q", ErrValidation, theme)
	}
	return s.state.runUnit(ctx, func(next *repository.Snapshot) ([]repository.Key, error) {
		if next.Theme == theme {
			return nil, nil
		}
		next.Theme = theme
		return []repository.Key{repository.KeyTheme}, nil
	})
}
