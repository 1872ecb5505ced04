package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/dto"
	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/infra"
	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportsHandler struct {
	reports service.ReportService
	ledger  service.LedgerService
	catalog service.CatalogService
	profile service.ProfileService
	now     func() time.Time
}

func NewReportsHandler(reports service.ReportService, ledger service.LedgerService, catalog service.CatalogService, profile service.ProfileService) *ReportsHandler {
	return &ReportsHandler{reports: reports, ledger: ledger, catalog: catalog, profile: profile, now: time.Now}
}

func (h *ReportsHandler) Summary(c *gin.Context) {
	c.JSON(http.StatusOK, h.reports.Summary(c.Request.Context()))
}

func (h *ReportsHandler) FinancialPDF(c *gin.Context) {
	ctx := c.Request.Context()
	now := h.now()
	data, err := infra.RenderFinancialPDF(
		h.reports.Summary(ctx),
		h.ledger.Snapshot(ctx),
		h.profile.GetProfile(ctx),
		now,
		h.reports.Location(),
	)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.attachment(c, "Laporan-Keuangan", now, "pdf", "application/pdf", data)
}

func (h *ReportsHandler) StockPDF(c *gin.Context) {
	ctx := c.Request.Context()
	now := h.now().In(h.reports.Location())
	data, err := infra.RenderStockValuationPDF(h.catalog.List(ctx, dto.ProductFilter{}), h.profile.GetProfile(ctx), now)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.attachment(c, "Valuasi-Stok", now, "pdf", "application/pdf", data)
}

func (h *ReportsHandler) StockXLSX(c *gin.Context) {
	ctx := c.Request.Context()
	now := h.now().In(h.reports.Location())
	data, err := infra.RenderStockValuationXLSX(h.catalog.List(ctx, dto.ProductFilter{}), h.profile.GetProfile(ctx), now)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.attachment(c, "Valuasi-Stok", now, "xlsx", xlsxContentType, data)
}

func (h *ReportsHandler) attachment(c *gin.Context, name string, now time.Time, ext, contentType string, data []byte) {
	filename := fmt.Sprintf("%s-%s.%s", name, now.In(h.reports.Location()).Format("2006-01-02"), ext)
	setDisposition(c, "attachment", filename)
	c.Data(http.StatusOK, contentType, data)
}
