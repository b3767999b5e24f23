package chat

import "github.com/deskmate-labs/deskmate/internal/conversation"

// Resolution sources, in cascade order. Cheapest and most specific first.
const (
	SourceSemanticCache = conversation.TierSemanticCache
	SourceMemoryCache   = conversation.TierMemoryCache
	SourceThankYou      = "thank_you"
	SourceExactFAQ      = "exact_faq"
	SourceSemanticFAQ   = "semantic_faq"
	SourceFollowUpFAQ   = "followup_faq"
	SourceGenerated     = "generated"
	SourceOutOfScope    = "out_of_scope"
	SourceExit          = "exit"
)

// MessageRequest is one user utterance within a session.
type MessageRequest struct {
	SessionID string `json:"session_id" validate:"required,min=1"`
	Message   string `json:"message" validate:"required,min=1"`
}

// MessageResponse carries the reply, which tier produced it, and whether the
// user asked to end the session.
type MessageResponse struct {
	Reply  string `json:"reply"`
	Source string `json:"source"`
	Done   bool   `json:"done"`
}

// SearchRequest queries the session memory store for similar past turns.
type SearchRequest struct {
	Query string `json:"query" validate:"required,min=1"`
	K     int    `json:"k,omitempty"`
}
