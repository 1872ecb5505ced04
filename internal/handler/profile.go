package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/dto"
	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/service"
)

type ProfileHandler struct{ svc service.ProfileService }

func NewProfileHandler(svc service.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

func (h *ProfileHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.GetProfile(c.Request.Context()))
}

func (h *ProfileHandler) Save(c *gin.Context) {
	var req dto.ProfileRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p, err := h.svc.SaveProfile(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) GetTheme(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ThemeResponse{Theme: h.svc.GetTheme(c.Request.Context())})
}

func (h *ProfileHandler) SetTheme(c *gin.Context) {
	var req dto.ThemeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.SetTheme(c.Request.Context(), req.Theme); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ThemeResponse{Theme: req.Theme})
}
