package handler

import (
	"net/http"

	"github.com/RozhkovN/inventory-api/internal/dto"
	"github.com/RozhkovN/inventory-api/internal/service"

	"github.com/gin-gonic/gin"
)

type StockHistoryHandler struct{ svc service.StockService }

func NewStockHistoryHandler(svc service.StockService) *StockHistoryHandler {
	return &StockHistoryHandler{svc: svc}
}

func (h *StockHistoryHandler) List(c *gin.Context) {
	var filter dto.StockHistoryFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.History(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
