package minio

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"

	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var (
	client  *Client
	once    sync.Once
	initErr error
)

// Client 封装了 MinIO 客户端和默认存储桶。
type Client struct {
	mc     *minio.Client
	bucket string
}

// GetClient 使用单例模式初始化并返回一个 MinIO 客户端实例，
// 并确保默认存储桶存在。
func GetClient(ctx context.Context, cfg *config.MinIOConfig) (*Client, error) {
	once.Do(func() {
		c, err := minio.New(cfg.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
			Secure: cfg.Secure,
		})
		if err != nil {
			initErr = fmt.Errorf("无法创建 MinIO 客户端: %w", err)
			return
		}

		exists, err := c.BucketExists(ctx, cfg.Bucket)
		if err != nil {
			initErr = fmt.Errorf("MinIO 初始化健康检查失败: %w", err)
			return
		}
		if !exists {
			if err := c.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
				initErr = fmt.Errorf("创建存储桶 '%s' 失败: %w", cfg.Bucket, err)
				return
			}
		}

		log.Println("✅ 成功连接到 MinIO!")
		client = &Client{mc: c, bucket: cfg.Bucket}
	})

	return client, initErr
}

// UploadFile 将本地文件上传到默认存储桶，返回对象路径。
// 摄取文档时用于保留原始文件。
func (c *Client) UploadFile(ctx context.Context, localPath, contentType string) (string, error) {
	objectName := filepath.Base(localPath)
	_, err := c.mc.FPutObject(ctx, c.bucket, objectName, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("上传文件到 MinIO 失败: %w", err)
	}
	return fmt.Sprintf("%s/%s", c.bucket, objectName), nil
}

// HealthCheck 检查 MinIO 连接的健康状况。
func (c *Client) HealthCheck(ctx context.Context) error {
	if c.mc == nil {
		return fmt.Errorf("MinIO 客户端未初始化")
	}
	if _, err := c.mc.ListBuckets(ctx); err != nil {
		return fmt.Errorf("MinIO 健康检查失败: %w", err)
	}
	return nil
}
