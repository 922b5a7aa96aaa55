package queue

const TypeEmbeddingIndex = "embedding:index"

type EmbeddingIndexPayload struct {
	DocumentID string `json:"document_id"`
	CaseID     string `json:"case_id"`
}
