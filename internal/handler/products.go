package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/apierror"
	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/dto"
	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/service"
)

type ProductsHandler struct{ svc service.CatalogService }

func NewProductsHandler(svc service.CatalogService) *ProductsHandler {
	return &ProductsHandler{svc: svc}
}

func (h *ProductsHandler) List(c *gin.Context) {
	var filter dto.ProductFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, h.svc.List(c.Request.Context(), filter))
}

func (h *ProductsHandler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Categories(c.Request.Context()))
}

func (h *ProductsHandler) Get(c *gin.Context) {
	p, ok := h.svc.Get(c.Request.Context(), c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, apierror.New("product not found"))
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProductsHandler) Create(c *gin.Context) {
	var req dto.ProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p, err := h.svc.AddProduct(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// Update answers 204 for an unknown id; nothing changes.
func (h *ProductsHandler) Update(c *gin.Context) {
	var req dto.ProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p, found, err := h.svc.UpdateProduct(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	if !found {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProductsHandler) Delete(c *gin.Context) {
	if _, err := h.svc.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProductsHandler) AdjustStock(c *gin.Context) {
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p, found, err := h.svc.AdjustStock(c.Request.Context(), c.Param("id"), req.Delta)
	if err != nil {
		respondError(c, err)
		return
	}
	if !found {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, p)
}

// StockIn answers 404 with the scanned barcode echoed back when no product
// carries it.
func (h *ProductsHandler) StockIn(c *gin.Context) {
	var req dto.StockInRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p, err := h.svc.StockIn(c.Request.Context(), req.Barcode, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
