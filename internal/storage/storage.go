package storage

import (
	"fmt"
	"math/rand"
	"mime/multipart"
	"path/filepath"
	"time"

	"github.com/Hossein-79/Fortuna/internal/config"
)

// ObjectStorage 对象存储协作方，只用于项目与用户头像图片，账本逻辑不依赖它
type ObjectStorage interface {
	// Upload 保存文件并返回稳定引用
	Upload(file *multipart.FileHeader, name string) (string, error)
}

// New 根据配置创建对象存储
func New(cfg config.StorageConfig) (ObjectStorage, error) {
	switch cfg.Backend {
	case "local":
		return NewLocalStorage(cfg.LocalPath)
	case "s3":
		return NewS3Storage(cfg.S3Region, cfg.S3Bucket)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Backend)
	}
}

const nameAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateName 生成存储文件名：时间戳+随机后缀+原扩展名
func GenerateName(originalName string) string {
	suffix := make([]byte, 6)
	for i := range suffix {
		suffix[i] = nameAlphabet[rand.Intn(len(nameAlphabet))]
	}
	return fmt.Sprintf("%d%s%s", time.Now().UnixMilli(), suffix, filepath.Ext(originalName))
}
