package docstore

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/models"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/rag/interfaces"
	"github.com/Rajarshi-Misra/Bitcoin-AI-Agent/internal/rag/schema"
	"gorm.io/gorm"
)

// GormStore 将分块文本持久化到关系库的 document_chunks 表，
// 向量索引只保存 ID 和向量，检索后由这里补全文本。
type GormStore struct {
	db *gorm.DB
}

// NewGormStore 创建一个新的 GormStore。
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Add 批量写入分块记录。
func (s *GormStore) Add(ctx context.Context, chunks []*schema.Document) error {
	if len(chunks) == 0 {
		return nil
	}

	rows := make([]*models.DocumentChunk, 0, len(chunks))
	for _, chunk := range chunks {
		docID, err := parseDocumentID(chunk.DocumentID)
		if err != nil {
			return err
		}
		rows = append(rows, &models.DocumentChunk{
			ChunkID:    chunk.ID,
			DocumentID: docID,
			ChunkIndex: chunk.ChunkIndex,
			Text:       chunk.Text,
		})
	}
	return s.db.WithContext(ctx).Create(&rows).Error
}

// Get 根据分块 ID 批量读取分块。
func (s *GormStore) Get(ctx context.Context, ids []string) (map[string]*schema.Document, error) {
	var rows []*models.DocumentChunk
	if err := s.db.WithContext(ctx).Where("chunk_id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}

	result := make(map[string]*schema.Document, len(rows))
	for _, row := range rows {
		result[row.ChunkID] = &schema.Document{
			ID:         row.ChunkID,
			DocumentID: strconv.FormatUint(uint64(row.DocumentID), 10),
			ChunkIndex: row.ChunkIndex,
			Text:       row.Text,
			Metadata:   map[string]interface{}{},
		}
	}
	return result, nil
}

// DeleteByDocument 删除某篇文档的全部分块。
func (s *GormStore) DeleteByDocument(ctx context.Context, documentID string) error {
	docID, err := parseDocumentID(documentID)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Unscoped().
		Where("document_id = ?", docID).
		Delete(&models.DocumentChunk{}).Error
}

func parseDocumentID(id string) (uint, error) {
	parsed, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("无效的文档 ID %q: %w", id, err)
	}
	return uint(parsed), nil
}

var _ interfaces.DocStore = (*GormStore)(nil)
