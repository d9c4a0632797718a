package models

import (
	"time"
)

// Artwork approval sub-statuses. A version starts "pendente" and ends in one
// of the two terminal decisions; a rejected version does not block later ones.
const (
	ArtePendente  = "pendente"
	ArteAprovado  = "aprovado"
	ArteReprovado = "reprovado"
)

// ArtworkAssignment binds the single responsible designer to an order.
// Created implicitly on the first submission; reassignable by a manager.
type ArtworkAssignment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	OrderID    uint      `gorm:"column:pedido_id;uniqueIndex;not null" json:"pedido_id"`
	DesignerID uint      `gorm:"column:arte_finalista_id;not null;index" json:"arte_finalista_id"`
	Designer   User      `gorm:"foreignKey:DesignerID" json:"arte_finalista"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName specifies the table name for the ArtworkAssignment model
func (ArtworkAssignment) TableName() string {
	return "pedido_arte_responsavel"
}

// ArtworkVersion is one uploaded design-proof iteration for an order.
// Versions are kept forever as the audit trail of design iterations.
// The unique index on (pedido_id, versao) is what turns a numbering race
// between concurrent uploads into a retryable constraint violation.
type ArtworkVersion struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	OrderID         uint      `gorm:"column:pedido_id;not null;uniqueIndex:idx_pedido_versao" json:"pedido_id"`
	Versao          int       `gorm:"not null;uniqueIndex:idx_pedido_versao" json:"versao"`
	StorageKey      string    `gorm:"not null" json:"-"`
	NomeArquivo     string    `gorm:"not null" json:"nome_arquivo"`
	Comentario      string    `gorm:"type:text" json:"comentario"`
	StatusAprovacao string    `gorm:"not null;default:'pendente'" json:"status_aprovacao"` // pendente, aprovado, reprovado
	EnviadoPorID    uint      `gorm:"not null;index" json:"enviado_por_id"`
	EnviadoPor      User      `gorm:"foreignKey:EnviadoPorID" json:"enviado_por"`
	FileURL         string    `gorm:"-" json:"file_url,omitempty"` // computed, presigned URL when backed by S3
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName specifies the table name for the ArtworkVersion model
func (ArtworkVersion) TableName() string {
	return "pedido_artes"
}
