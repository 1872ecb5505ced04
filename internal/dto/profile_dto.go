package dto

import "github.com/muanproworks-spec/hf-frozen-food-pos/internal/model"

type ProfileRequest struct {
	Name      string `json:"name"      validate:"required,max=120"`
	Address   string `json:"address"   validate:"max=255"`
	AdminName string `json:"adminName" validate:"max=120"`
	Logo      string `json:"logo"`
	QRISImage string `json:"qrisImage"`
}

type ThemeRequest struct {
	Theme model.Theme `json:"theme" validate:"required,oneof=dark light"`
}

type ThemeResponse struct {
	Theme model.Theme `json:"theme"`
}
