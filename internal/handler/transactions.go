package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/apierror"
	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/dto"
	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/infra"
	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/service"
)

type TransactionsHandler struct {
	ledger  service.LedgerService
	profile service.ProfileService
	loc     *time.Location
}

func NewTransactionsHandler(ledger service.LedgerService, profile service.ProfileService, loc *time.Location) *TransactionsHandler {
	return &TransactionsHandler{ledger: ledger, profile: profile, loc: loc}
}

func (h *TransactionsHandler) List(c *gin.Context) {
	var filter dto.TransactionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, h.ledger.List(c.Request.Context(), filter))
}

func (h *TransactionsHandler) ListVoided(c *gin.Context) {
	c.JSON(http.StatusOK, h.ledger.ListVoided(c.Request.Context()))
}

func (h *TransactionsHandler) Get(c *gin.Context) {
	tx, ok := h.ledger.Get(c.Request.Context(), c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, apierror.New("transaction not found"))
		return
	}
	c.JSON(http.StatusOK, tx)
}

func (h *TransactionsHandler) Create(c *gin.Context) {
	var req dto.TransactionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	tx, err := h.ledger.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tx)
}

// Update answers 204 for an unknown id; nothing changes.
func (h *TransactionsHandler) Update(c *gin.Context) {
	var req dto.TransactionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	tx, found, err := h.ledger.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	if !found {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, tx)
}

// Delete voids the transaction. The optional JSON body carries the reason.
func (h *TransactionsHandler) Delete(c *gin.Context) {
	var req dto.VoidTransactionRequest
	if c.Request.ContentLength > 0 && !bindAndValidate(c, &req) {
		return
	}
	if _, err := h.ledger.Delete(c.Request.Context(), c.Param("id"), req.Reason); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Receipt renders the 80 mm receipt PDF on demand.
func (h *TransactionsHandler) Receipt(c *gin.Context) {
	ctx := c.Request.Context()
	tx, ok := h.ledger.Get(ctx, c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, apierror.New("transaction not found"))
		return
	}
	data, err := infra.RenderReceiptPDF(tx, h.profile.GetProfile(ctx), h.loc)
	if err != nil {
		_ = c.Error(err)
		return
	}
	setDisposition(c, "inline", fmt.Sprintf("receipt_%s.pdf", tx.ID))
	c.Data(http.StatusOK, "application/pdf", data)
}
