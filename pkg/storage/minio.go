// Package storage 提供了与对象存储服务（如 MinIO）交互的功能。
package storage

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"style-learn-go/internal/config"
	"style-learn-go/pkg/log"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioClient 是一个全局的 MinIO 客户端实例，未启用时为 nil。
var MinioClient *minio.Client

// InitMinIO 初始化 MinIO 客户端。对象存储仅用于拉取待导入的聊天记录文件。
func InitMinIO(cfg config.MinIOConfig) {
	if !cfg.Enabled {
		log.Info("未启用 MinIO，聊天记录仅支持本地文件导入")
		return
	}

	var err error
	MinioClient, err = minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		log.Fatal("初始化 MinIO 客户端失败", err)
	}

	log.Info("MinIO 客户端初始化成功")
}

// ParseObjectPath 解析 minio://bucket/object 形式的路径。
// 非该形式时返回 ok=false，调用方按本地文件处理。
func ParseObjectPath(path string) (bucket, object string, ok bool) {
	const prefix = "minio://"
	if !strings.HasPrefix(path, prefix) {
		return "", "", false
	}
	rest := strings.TrimPrefix(path, prefix)
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// FetchObject 从对象存储下载一个对象的完整内容。
func FetchObject(ctx context.Context, bucket, object string) ([]byte, error) {
	if MinioClient == nil {
		return nil, errors.New("MinIO 客户端未初始化")
	}

	obj, err := MinioClient.GetObject(ctx, bucket, object, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(obj); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
