package client

import "embed"

// embeddedPrompts holds the built-in agent instructions so the server binary
// does not need the source tree at runtime.
//
//go:embed prompts/*.txt
var embeddedPrompts embed.FS

// Prompt keys of the built-in agents.
const (
	PromptIntentClassifier = "intent_classifier"
	PromptEditSuggester    = "edit_suggester"
	PromptPatchGenerator   = "content_patch_generator"
	PromptContentCreator   = "content_creator"
	PromptContentDeleter   = "content_deleter"
	PromptInlineEditor     = "inline_editor"
	PromptInlineGuardrail  = "inline_guardrail"
	PromptKeywords         = "keyword_extractor"
	PromptSummary          = "summarizer"
)
