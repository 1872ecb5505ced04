package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/dto"
	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/service"
)

type CartsHandler struct {
	carts    service.CartService
	checkout service.CheckoutService
}

func NewCartsHandler(carts service.CartService, checkout service.CheckoutService) *CartsHandler {
	return &CartsHandler{carts: carts, checkout: checkout}
}

func (h *CartsHandler) Open(c *gin.Context) {
	c.JSON(http.StatusCreated, h.carts.Open(c.Request.Context()))
}

func (h *CartsHandler) Get(c *gin.Context) {
	resp, err := h.carts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CartsHandler) Discard(c *gin.Context) {
	if err := h.carts.Discard(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CartsHandler) AddItem(c *gin.Context) {
	var req dto.AddCartItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.carts.Add(c.Request.Context(), c.Param("id"), req.ProductID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CartsHandler) UpdateItem(c *gin.Context) {
	var req dto.UpdateQuantityRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.carts.UpdateQuantity(c.Request.Context(), c.Param("id"), c.Param("productId"), req.Delta)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CartsHandler) RemoveItem(c *gin.Context) {
	resp, err := h.carts.Remove(c.Request.Context(), c.Param("id"), c.Param("productId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CartsHandler) Clear(c *gin.Context) {
	resp, err := h.carts.Clear(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Checkout ──────────────────────────────────────────────────────────────────

func (h *CartsHandler) BeginCheckout(c *gin.Context) {
	var req dto.BeginCheckoutRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.checkout.Begin(c.Request.Context(), c.Param("id"), req.PaymentMethod)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CartsHandler) CancelCheckout(c *gin.Context) {
	resp, err := h.checkout.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ConfirmCheckout blocks for the simulated payment processing time.
// A QRIS confirmation may come without a body.
func (h *CartsHandler) ConfirmCheckout(c *gin.Context) {
	var req dto.ConfirmPaymentRequest
	if c.Request.ContentLength != 0 && !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.checkout.Confirm(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
