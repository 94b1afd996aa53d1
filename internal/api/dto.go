package api

// AnswerRequest is the payload for POST /v1/answer. Snippets arrive in the
// caller's relevance order and are forwarded verbatim.
type AnswerRequest struct {
	Query    string    `json:"query"`
	Snippets []Snippet `json:"snippets"`
}

type Snippet struct {
	Content  string `json:"content"`
	Metadata any    `json:"metadata,omitempty"`
}

type AnswerResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	Answer  string `json:"answer"`
}

type ErrorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}
