package handler

import (
	"net/http"

	"github.com/Hossein-79/Fortuna/internal/storage"
	"github.com/gin-gonic/gin"
)

// UploadHandler 图片上传接口
type UploadHandler struct {
	storage storage.ObjectStorage
}

func NewUploadHandler(store storage.ObjectStorage) *UploadHandler {
	return &UploadHandler{storage: store}
}

// UploadImage 上传项目或用户头像图片，返回存储引用
func (h *UploadHandler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "缺少image文件字段")
		return
	}

	name := storage.GenerateName(file.Filename)
	ref, err := h.storage.Upload(file, name)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusCreated, "上传成功", gin.H{"image": ref})
}
