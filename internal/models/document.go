package models

import (
	"gorm.io/gorm"
)

// Document 代表知识库中一篇已摄取的文档。摄取后不可变。
type Document struct {
	gorm.Model

	Title      string `gorm:"size:255;not null"`
	Content    string `gorm:"type:text"` // 原文摘录（前 1000 个字符），完整内容存在于分块中
	FilePath   string `gorm:"size:500;uniqueIndex"`
	DocType    string `gorm:"size:50"` // txt, markdown, pdf, web
	ObjectPath string `gorm:"size:500"` // 原始文件在对象存储中的路径（可选）
	ChunkCount int    `gorm:"default:0"`

	// 一篇文档拥有多个分块，删除文档时级联删除分块。
	Chunks []*DocumentChunk `gorm:"constraint:OnDelete:CASCADE"`
}

// DocumentChunk 代表文档的一个文本分块。分块创建后不再修改，
// 只在所属文档被删除时一并删除。ChunkIndex 是文档内从 0 开始的连续序号。
type DocumentChunk struct {
	gorm.Model

	ChunkID    string `gorm:"size:64;uniqueIndex;not null"` // 向量索引中使用的分块 ID
	DocumentID uint   `gorm:"index;not null"`
	ChunkIndex int    `gorm:"not null"`
	Text       string `gorm:"type:text;not null"`
}

func (Document) TableName() string {
	return "documents"
}

func (DocumentChunk) TableName() string {
	return "document_chunks"
}
