package client

import (
	"context"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/keshav29102/faultlab/pkg/elasticsearch/model"
	"go.uber.org/zap"
)

// AdminClient covers the administrative surface of the Elasticsearch REST
// API that fault injection needs: index and template creation, bulk
// document indexing, and cluster-health inspection.
type AdminClient interface {
	// Ping issues a root-level info request. A nil return means the
	// endpoint answered with a 2xx.
	Ping(ctx context.Context) error
	// ClusterHealth fetches _cluster/health, optionally scoped to indices.
	// https://www.elastic.co/guide/en/elasticsearch/reference/current/cluster-health.html
	ClusterHealth(ctx context.Context, indices ...string) (*model.ClusterHealth, error)
	// CreateIndex creates an index with the given settings/mappings body.
	// https://www.elastic.co/guide/en/elasticsearch/reference/current/indices-create-index.html
	CreateIndex(ctx context.Context, name string, body map[string]interface{}) error
	// BulkIndex indexes (inserts) multiple documents in the same index,
	// refreshing immediately so they are visible to a following count.
	// https://www.elastic.co/guide/en/elasticsearch/reference/current/docs-bulk.html
	BulkIndex(ctx context.Context, index string, documents []map[string]interface{}) error
	// PutIndexTemplate creates a composable index template.
	// https://www.elastic.co/guide/en/elasticsearch/reference/current/indices-put-template.html
	PutIndexTemplate(ctx context.Context, name string, template map[string]interface{}) error
	// PutLegacyTemplate creates a template under the deprecated _template API.
	// https://www.elastic.co/guide/en/elasticsearch/reference/current/indices-templates-v1.html
	PutLegacyTemplate(ctx context.Context, name string, template map[string]interface{}) error
	// PutComponentTemplate creates a reusable component template fragment.
	// https://www.elastic.co/guide/en/elasticsearch/reference/current/indices-component-template.html
	PutComponentTemplate(ctx context.Context, name string, template map[string]interface{}) error
	// Count returns the number of documents in the index.
	// https://www.elastic.co/guide/en/elasticsearch/reference/current/search-count.html
	Count(ctx context.Context, index string) (int64, error)
}

type AdminClientImpl struct {
	es     *elasticsearch.Client
	logger *zap.Logger
}

func NewAdminClientImpl(es *elasticsearch.Client, logger *zap.Logger) *AdminClientImpl {
	return &AdminClientImpl{es: es, logger: logger}
}
