package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Hossein-79/Fortuna/internal/logic"
	"github.com/Hossein-79/Fortuna/internal/model"
	"github.com/gin-gonic/gin"
)

// CauseHandler 项目接口
type CauseHandler struct {
	causeLogic *logic.CauseLogic
}

func NewCauseHandler(causeLogic *logic.CauseLogic) *CauseHandler {
	return &CauseHandler{causeLogic: causeLogic}
}

// CreateCauseRequest 创建项目请求
type CreateCauseRequest struct {
	Id                int64     `json:"id" binding:"required"`
	Title             string    `json:"title" binding:"required"`
	Description       string    `json:"description"`
	Image             string    `json:"image"`
	Goal              int64     `json:"goal" binding:"required"`
	TicketPrice       int64     `json:"ticket_price"`
	CharityPercentage int       `json:"charity_percentage"`
	Deadline          time.Time `json:"deadline" binding:"required"`
	CreatedBy         string    `json:"created_by" binding:"required"`
}

// CreateCause 创建项目
func (h *CauseHandler) CreateCause(c *gin.Context) {
	var req CreateCauseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	cause := &model.CauseModel{
		Id:                req.Id,
		Title:             req.Title,
		Description:       req.Description,
		Image:             req.Image,
		Goal:              req.Goal,
		TicketPrice:       req.TicketPrice,
		CharityPercentage: req.CharityPercentage,
		Deadline:          req.Deadline,
		CreatedBy:         req.CreatedBy,
	}

	if err := h.causeLogic.CreateCause(cause); err != nil {
		AbortWithError(c, err)
		return
	}

	detail, err := h.causeLogic.GetCauseDetail(cause.Id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "项目创建成功", ToCauseResponse(detail))
}

// GetCauses 获取项目列表，支持 ?creator= 过滤
func (h *CauseHandler) GetCauses(c *gin.Context) {
	creator := c.Query("creator")

	details, err := h.causeLogic.ListCauseDetails(creator)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", ToCauseResponseList(details))
}

// GetCause 获取项目详情
func (h *CauseHandler) GetCause(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	detail, err := h.causeLogic.GetCauseDetail(id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", ToCauseResponse(detail))
}

// BuyTicketRequest 购票请求
type BuyTicketRequest struct {
	Buyer  string `json:"buyer" binding:"required"`
	Amount int64  `json:"amount" binding:"required"`
	TxHash string `json:"tx_hash"`
}

// BuyTicket 购票
// 链上转账由前端钱包先行完成，tx_hash为其交易哈希
func (h *CauseHandler) BuyTicket(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	var req BuyTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	detail, err := h.causeLogic.PurchaseTickets(id, req.Buyer, req.Amount, req.TxHash)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "购票成功", ToCauseResponse(detail))
}

// CloseCauseRequest 关闭项目请求
type CloseCauseRequest struct {
	Requester string `json:"requester" binding:"required"`
}

// CloseCause 关闭项目
func (h *CauseHandler) CloseCause(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	var req CloseCauseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.causeLogic.CloseCause(id, req.Requester); err != nil {
		AbortWithError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "项目已关闭", nil)
}

// GetCauseTickets 获取项目的购票记录
func (h *CauseHandler) GetCauseTickets(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	tickets, err := h.causeLogic.ListCauseTickets(id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", ToTicketResponseList(tickets))
}
