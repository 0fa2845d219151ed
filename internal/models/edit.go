package models

type IntentKind string

const (
	IntentEdit   IntentKind = "edit"
	IntentCreate IntentKind = "create"
	IntentDelete IntentKind = "delete"
	IntentMove   IntentKind = "move"
	IntentOther  IntentKind = "other"
)

type Intent struct {
	Kind   IntentKind `json:"kind"`
	Reason string     `json:"reason"`
	Task   string     `json:"task,omitempty"`
}

type DetectedIntents struct {
	Intents []Intent `json:"intents"`
}

// EditSuggestion is a natural-language change proposal scoped to one document version.
type EditSuggestion struct {
	DocumentID string `json:"document_id"`
	Version    string `json:"version"`
	Path       string `json:"path"`
	Title      string `json:"title,omitempty"`
	IsAPIRef   bool   `json:"is_api_ref"`
	Changes    string `json:"changes"`
}

type EditSuggestions struct {
	Suggestions []EditSuggestion `json:"suggestions"`
}

// ContentChange is a literal find/replace pair. OldString must match exactly once.
type ContentChange struct {
	OldString string `json:"old_string"`
	NewString string `json:"new_string"`
}

type DocumentEdit struct {
	DocumentID string          `json:"document_id"`
	Version    string          `json:"version"`
	Changes    []ContentChange `json:"changes"`
}

type OriginalContent struct {
	MarkdownContent string `json:"markdown_content"`
	Language        string `json:"language,omitempty"`
	Name            string `json:"name"`
	Title           string `json:"title"`
	Path            string `json:"path"`
}

type DocumentEditWithOriginal struct {
	DocumentEdit
	OriginalContent *OriginalContent `json:"original_content"`
}

type GeneratedDocument struct {
	Name              string  `json:"name"`
	Title             string  `json:"title"`
	Path              string  `json:"path"`
	ParentID          *string `json:"parent_id,omitempty"`
	IsAPIRef          bool    `json:"is_api_ref"`
	MarkdownContentEN string  `json:"markdown_content_en"`
	MarkdownContentJA string  `json:"markdown_content_ja"`
}

type GeneratedDocuments struct {
	Documents []GeneratedDocument `json:"documents"`
}

type DocumentToDelete struct {
	DocumentID string `json:"document_id"`
	Version    string `json:"version"`
	Title      string `json:"title,omitempty"`
	Path       string `json:"path,omitempty"`
}

type DocumentsToDelete struct {
	Documents []DocumentToDelete `json:"documents"`
}

type EditDocumentationRequest struct {
	Query      string `json:"query"`
	DocumentID string `json:"document_id,omitempty"`
}

type EditDocumentationResponse struct {
	Edit   []DocumentEdit      `json:"edit"`
	Create []GeneratedDocument `json:"create"`
	Delete []DocumentToDelete  `json:"delete"`
}

func NewEditDocumentationResponse() *EditDocumentationResponse {
	return &EditDocumentationResponse{
		Edit:   []DocumentEdit{},
		Create: []GeneratedDocument{},
		Delete: []DocumentToDelete{},
	}
}

// ChangeRequest is the batch of pending mutations submitted for reconciliation.
type ChangeRequest struct {
	Edit   []DocumentEditWithOriginal `json:"edit"`
	Create []GeneratedDocument        `json:"create"`
	Delete []DocumentToDelete         `json:"delete"`
}

func (r ChangeRequest) Len() int {
	return len(r.Edit) + len(r.Create) + len(r.Delete)
}

func (r ChangeRequest) IsEmpty() bool {
	return r.Len() == 0
}

type ProcessingError struct {
	ErrorMessage string `json:"error_message"`
	ErrorType    string `json:"error_type"`
}

type UpdateResult struct {
	Message        string            `json:"message"`
	TotalProcessed int               `json:"total_processed"`
	Successful     int               `json:"successful"`
	Failed         int               `json:"failed"`
	FailedItems    *ChangeRequest    `json:"failed_items"`
	Errors         []ProcessingError `json:"errors"`
}

type InlineEditRequest struct {
	SelectedText string `json:"selected_text"`
	Query        string `json:"query"`
}

type InlineEditResponse struct {
	EditedText string `json:"edited_text"`
	Message    string `json:"message,omitempty"`
}

type GuardrailVerdict struct {
	IsEditRequest bool   `json:"is_edit_request"`
	Message       string `json:"message"`
}
