package handler

import (
	"net/http"

	"github.com/Hossein-79/Fortuna/internal/logic"
	"github.com/Hossein-79/Fortuna/internal/model"
	"github.com/gin-gonic/gin"
)

// UserHandler 用户接口
type UserHandler struct {
	userLogic  *logic.UserLogic
	causeLogic *logic.CauseLogic
}

func NewUserHandler(userLogic *logic.UserLogic, causeLogic *logic.CauseLogic) *UserHandler {
	return &UserHandler{
		userLogic:  userLogic,
		causeLogic: causeLogic,
	}
}

// GetUser 获取用户资料
func (h *UserHandler) GetUser(c *gin.Context) {
	address := c.Param("address")

	user, err := h.userLogic.GetUser(address)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", ToUserResponse(user))
}

// UpsertUserRequest 更新用户资料请求
type UpsertUserRequest struct {
	WalletAddress  string `json:"wallet_address" binding:"required"`
	Name           string `json:"name"`
	Bio            string `json:"bio"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profile_picture"`
}

// UpsertUser 更新用户资料，不存在时创建
func (h *UserHandler) UpsertUser(c *gin.Context) {
	var req UpsertUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	user := &model.UserModel{
		WalletAddress:  req.WalletAddress,
		Name:           req.Name,
		Bio:            req.Bio,
		Email:          req.Email,
		ProfilePicture: req.ProfilePicture,
	}

	if err := h.userLogic.UpsertUser(user); err != nil {
		AbortWithError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "用户资料已更新", ToUserResponse(user))
}

// GetUserCauses 获取用户创建的项目
func (h *UserHandler) GetUserCauses(c *gin.Context) {
	address := c.Param("address")

	details, err := h.causeLogic.ListCauseDetails(address)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", ToCauseResponseList(details))
}

// GetUserTickets 获取用户购票记录
func (h *UserHandler) GetUserTickets(c *gin.Context) {
	address := c.Param("address")

	items, err := h.userLogic.ListUserTickets(address)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", ToUserTicketResponseList(items))
}
