package conversation

import (
	"fmt"
	"log"
	"os"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/selimbz/eventra/internal/coordinator"
)

// Hit is one message-level search result.
type Hit struct {
	ConversationID string
	Role           string
	Score          float64
}

// SearchIndex provides full-text search over a tenant's conversation
// messages. Ephemeral messages are never indexed.
type SearchIndex struct {
	index bleve.Index
	path  string
}

// NewSearchIndex creates or opens the message index. A corrupted index is
// deleted and recreated rather than failing startup.
func NewSearchIndex(dbPath string) (*SearchIndex, error) {
	indexPath := dbPath + ".bleve"

	index, err := bleve.Open(indexPath)
	if err == bleve.ErrorIndexPathDoesNotExist {
		index, err = bleve.New(indexPath, buildMessageMapping())
		if err != nil {
			return nil, fmt.Errorf("failed to create message index: %w", err)
		}
	} else if err != nil {
		log.Printf("message index appears corrupted (error: %v), recreating", err)
		if index != nil {
			index.Close()
		}
		if err := os.RemoveAll(indexPath); err != nil {
			log.Printf("failed to remove corrupted index directory: %v", err)
		}
		index, err = bleve.New(indexPath, buildMessageMapping())
		if err != nil {
			return nil, fmt.Errorf("failed to recreate message index: %w", err)
		}
	}

	return &SearchIndex{index: index, path: indexPath}, nil
}

// Close closes the underlying index.
func (si *SearchIndex) Close() error {
	return si.index.Close()
}

func buildMessageMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	msgMapping := bleve.NewDocumentMapping()

	tenantField := bleve.NewTextFieldMapping()
	tenantField.Analyzer = keyword.Name
	tenantField.Store = true
	tenantField.Index = true
	msgMapping.AddFieldMappingsAt("tenant_id", tenantField)

	convField := bleve.NewTextFieldMapping()
	convField.Analyzer = keyword.Name
	convField.Store = true
	convField.Index = true
	msgMapping.AddFieldMappingsAt("conversation_id", convField)

	roleField := bleve.NewTextFieldMapping()
	roleField.Analyzer = keyword.Name
	roleField.Store = true
	roleField.Index = true
	msgMapping.AddFieldMappingsAt("role", roleField)

	contentField := bleve.NewTextFieldMapping()
	contentField.Analyzer = standard.Name
	contentField.Store = false
	contentField.Index = true
	msgMapping.AddFieldMappingsAt("content", contentField)

	indexMapping.DefaultMapping = msgMapping
	return indexMapping
}

// IndexRecord (re)indexes every non-ephemeral message of a conversation.
// Messages are append-only so doc ids are stable across saves.
func (si *SearchIndex) IndexRecord(rec *Record) error {
	if rec == nil || rec.State == nil {
		return nil
	}

	batch := si.index.NewBatch()
	for i, msg := range rec.State.Messages {
		if msg.Ephemeral || msg.Role == coordinator.RoleSystem {
			continue
		}
		docID := fmt.Sprintf("%s|%s|%d", rec.TenantID, rec.ID, i)
		doc := map[string]interface{}{
			"tenant_id":       rec.TenantID,
			"conversation_id": rec.ID,
			"role":            string(msg.Role),
			"content":         msg.Content,
		}
		if err := batch.Index(docID, doc); err != nil {
			return fmt.Errorf("failed to batch message %s: %w", docID, err)
		}
	}
	if batch.Size() == 0 {
		return nil
	}
	if err := si.index.Batch(batch); err != nil {
		return fmt.Errorf("failed to index conversation %s: %w", rec.ID, err)
	}
	return nil
}

// DeleteRecord removes a conversation's messages from the index.
func (si *SearchIndex) DeleteRecord(tenantID, conversationID string, messageCount int) error {
	batch := si.index.NewBatch()
	for i := 0; i < messageCount; i++ {
		batch.Delete(fmt.Sprintf("%s|%s|%d", tenantID, conversationID, i))
	}
	return si.index.Batch(batch)
}

// Search returns the top k message hits for a tenant's query.
func (si *SearchIndex) Search(tenantID, query string, k int) ([]Hit, error) {
	matchQuery := bleve.NewMatchQuery(query)
	matchQuery.SetField("content")

	tenantQuery := bleve.NewTermQuery(tenantID)
	tenantQuery.SetField("tenant_id")

	combined := bleve.NewConjunctionQuery(matchQuery, tenantQuery)

	req := bleve.NewSearchRequest(combined)
	req.Size = k
	req.Fields = []string{"conversation_id", "role"}

	result, err := si.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("message search failed: %w", err)
	}

	hits := make([]Hit, 0, len(result.Hits))
	for _, h := range result.Hits {
		hit := Hit{Score: h.Score}
		if v, ok := h.Fields["conversation_id"].(string); ok {
			hit.ConversationID = v
		}
		if v, ok := h.Fields["role"].(string); ok {
			hit.Role = v
		}
		hits = append(hits, hit)
	}
	return hits, nil
}
