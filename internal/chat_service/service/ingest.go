package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/models"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/rag/loaders"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/rag/schema"
)

// 文档记录中保留的原文摘录长度。
const excerptMaxLen = 1000

// IngestDocument 将一个数据源摄取进知识库：加载、切分、嵌入、入库。
// 同一来源路径重复摄取时，旧文档及其分块和向量会先被整体替换。
// 返回本次摄取产生的分块数量。
func (s *Service) IngestDocument(ctx context.Context, title, path, sourceType string) (int, error) {
	loader, resolvedType, err := loaders.ForSource(path, sourceType)
	if err != nil {
		return 0, err
	}

	docs, err := loader.Load(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("加载数据源失败: %w", err)
	}

	// 重复摄取：先删除旧文档的向量、分块和记录。
	if existing, err := s.store.GetDocumentByPath(path); err == nil {
		s.log.Info(fmt.Sprintf("来源 %s 已存在 (document %d), 先替换旧内容", path, existing.ID))
		oldID := strconv.FormatUint(uint64(existing.ID), 10)
		if err := s.vectorStore.DeleteByDocument(ctx, oldID); err != nil {
			return 0, fmt.Errorf("删除旧向量失败: %w", err)
		}
		if err := s.docStore.DeleteByDocument(ctx, oldID); err != nil {
			return 0, fmt.Errorf("删除旧分块失败: %w", err)
		}
		if err := s.store.DeleteDocument(existing.ID); err != nil {
			return 0, fmt.Errorf("删除旧文档记录失败: %w", err)
		}
	}

	document := &models.Document{
		Title:    title,
		Content:  excerpt(docs),
		FilePath: path,
		DocType:  resolvedType,
	}
	if err := s.store.CreateDocument(document); err != nil {
		return 0, fmt.Errorf("创建文档记录失败: %w", err)
	}

	documentID := strconv.FormatUint(uint64(document.ID), 10)
	count, err := s.indexer.Index(ctx, docs, documentID)
	if err != nil {
		return 0, err
	}

	document.ChunkCount = count

	// 可选：上传原始文件到对象存储（网页来源没有本地文件，跳过）。
	if s.objects != nil && resolvedType != "web" {
		objectPath, err := s.objects.UploadFile(ctx, path, contentTypeFor(resolvedType))
		if err != nil {
			s.log.WithError(err).Warn("上传原始文件到对象存储失败")
		} else {
			document.ObjectPath = objectPath
		}
	}

	if err := s.store.UpdateDocument(document); err != nil {
		s.log.WithError(err).Warn("更新文档分块数失败")
	}

	s.log.Info(fmt.Sprintf("文档 %s 摄取完成, 共 %d 个分块", title, count))
	return count, nil
}

// excerpt 取加载文本的前 excerptMaxLen 个字符作为摘录。
func excerpt(docs []*schema.Document) string {
	var text string
	for _, doc := range docs {
		text += doc.Text
		if len([]rune(text)) >= excerptMaxLen {
			break
		}
	}
	runes := []rune(text)
	if len(runes) > excerptMaxLen {
		runes = runes[:excerptMaxLen]
	}
	return string(runes)
}

func contentTypeFor(sourceType string) string {
	switch sourceType {
	case "pdf":
		return "application/pdf"
	case "markdown":
		return "text/markdown"
	default:
		return "text/plain"
	}
}
