package models

import "time"

type Document struct {
	ID               string    `gorm:"primaryKey;size:36" json:"id"`
	Name             string    `gorm:"size:255;not null" json:"name"`
	Title            string    `gorm:"size:512" json:"title"`
	Path             string    `gorm:"size:1024;index" json:"path"`
	ParentID         *string   `gorm:"size:36;index" json:"parent_id"`
	IsAPIRef         bool      `gorm:"index" json:"is_api_ref"`
	IsDeleted        bool      `gorm:"index" json:"is_deleted"`
	CurrentVersionID *string   `gorm:"size:36" json:"current_version_id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// DocumentContent is one immutable version of a document body.
type DocumentContent struct {
	Version         string    `gorm:"primaryKey;size:36" json:"version"`
	DocumentID      string    `gorm:"size:36;not null;index" json:"document_id"`
	MarkdownContent string    `gorm:"type:text" json:"markdown_content"`
	Language        string    `gorm:"size:8;index" json:"language"`
	Summary         string    `gorm:"type:text" json:"summary"`
	Keywords        []string  `gorm:"serializer:json;type:text" json:"keywords_array"`
	URLs            []string  `gorm:"serializer:json;type:text" json:"urls_array"`
	Embedding       []float32 `gorm:"serializer:json;type:text" json:"-"`
	CreatedAt       time.Time `json:"created_at"`
}

type DocumentCreate struct {
	Name     string  `json:"name"`
	Title    string  `json:"title"`
	Path     string  `json:"path"`
	ParentID *string `json:"parent_id,omitempty"`
	IsAPIRef bool    `json:"is_api_ref"`
}

// DocumentUpdate carries a partial metadata update; nil fields are left untouched.
type DocumentUpdate struct {
	Name      *string `json:"name,omitempty"`
	Title     *string `json:"title,omitempty"`
	Path      *string `json:"path,omitempty"`
	ParentID  *string `json:"parent_id,omitempty"`
	IsAPIRef  *bool   `json:"is_api_ref,omitempty"`
	IsDeleted *bool   `json:"is_deleted,omitempty"`
}

type DocumentContentCreate struct {
	MarkdownContent string `json:"markdown_content"`
	Language        string `json:"language,omitempty"`
}

type DocumentContentRead struct {
	DocumentContent
	Latest bool   `json:"latest"`
	Name   string `json:"name,omitempty"`
	Title  string `json:"title,omitempty"`
	Path   string `json:"path,omitempty"`
}

// DocumentNode is a document flattened with its current content, placed in a tree.
type DocumentNode struct {
	Document
	MarkdownContent string          `json:"markdown_content"`
	Language        string          `json:"language,omitempty"`
	Keywords        []string        `json:"keywords_array"`
	Children        []*DocumentNode `json:"children"`
}

type LanguageTree struct {
	Documentation []*DocumentNode `json:"documentation"`
	APIReferences []*DocumentNode `json:"api_references"`
}

// DocumentTree is keyed by language code.
type DocumentTree map[string]LanguageTree

type DocumentFilter struct {
	IsDeleted *bool
	IsAPIRef  *bool
	ParentID  *string
}

// DocumentSummary is the lightweight view handed to discovery tools.
type DocumentSummary struct {
	DocumentID string `json:"document_id"`
	Version    string `json:"version"`
	Title      string `json:"title"`
	Path       string `json:"path"`
	Language   string `json:"language"`
	Summary    string `json:"summary,omitempty"`
	IsAPIRef   bool   `json:"is_api_ref"`
}

type PathEntry struct {
	DocumentID string  `json:"document_id"`
	Name       string  `json:"name"`
	Path       string  `json:"path"`
	ParentID   *string `json:"parent_id,omitempty"`
}

// CurrentDocument pairs a live document with its current version.
type CurrentDocument struct {
	Document *Document
	Content  *DocumentContent
}
