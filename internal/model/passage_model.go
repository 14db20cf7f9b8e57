package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type Passage struct {
	Id        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Source    string          `gorm:"type:varchar(255);index"`
	Content   string          `gorm:"type:text"`
	Embedding pgvector.Vector `gorm:"type:vector(768)"` // nomic-embed-text / jina-v2-base-en are 768-dim
	CreatedAt time.Time       `gorm:"autoCreateTime"`
}

func (Passage) TableName() string {
	return "passages"
}
