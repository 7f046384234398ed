package faultinject

import (
	"context"
	"fmt"
	"time"

	"github.com/keshav29102/faultlab/pkg/elasticsearch/client"
	"github.com/keshav29102/faultlab/pkg/elasticsearch/model"
	"go.uber.org/zap"
)

const (
	ProblematicReplicasIndexName = "problematic-replicas"
	BadCompositeTemplateName     = "my-bad-template"
	BadTemplateTestIndexName     = "bad-template-test"
	BadLegacyTemplateName        = "bad-legacy-template"
	BadComponentTemplateName     = "bad-component-template"
	BadIndexTemplateName         = "bad-index-template"
	RedIndexName                 = "red-index"
)

const sampleDocumentCount = 10

// ResourceKind distinguishes the four creation APIs a recipe can target,
// and drives the advisory cleanup command for each created resource.
type ResourceKind string

const (
	KindIndex             ResourceKind = "index"
	KindIndexTemplate     ResourceKind = "index template"
	KindLegacyTemplate    ResourceKind = "legacy template"
	KindComponentTemplate ResourceKind = "component template"
)

type Resource struct {
	Kind ResourceKind
	Name string
}

// Recipe is one self-contained fault: a creation call (or a short fixed
// series of them) that leaves a single named broken artifact behind.
// Apply re-issues its calls unconditionally on every run; Elasticsearch
// decides whether a duplicate creation is accepted or rejected.
type Recipe struct {
	Name      string
	Resources []Resource
	Problem   string
	Apply     func(ctx context.Context) error
}

// More replica copies than the cluster has data nodes to hold them.
var problematicReplicasIndex = map[string]interface{}{
	"settings": map[string]interface{}{
		"number_of_shards":   3,
		"number_of_replicas": 2,
	},
}

var badCompositeTemplate = map[string]interface{}{
	"index_patterns": []string{"bad-template-*"},
	"priority":       500,
	"template": map[string]interface{}{
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"user_message": map[string]interface{}{
					"type": "text",
					"fields": map[string]interface{}{
						"raw": map[string]interface{}{
							"type": "keyword",
						},
						"truncated": map[string]interface{}{
							"type":         "keyword",
							"ignore_above": 256,
						},
					},
				},
				"description": map[string]interface{}{
					"type": "text",
					"fields": map[string]interface{}{
						// sub-field duplicates the parent's own type
						"text": map[string]interface{}{
							"type": "text",
						},
					},
				},
			},
		},
	},
}

// Keyword sub-fields on a field that is already a keyword add storage
// cost and no analysis value. Shared by the legacy, component, and
// index-template recipes, which differ only in the creation API used.
var redundantKeywordMappings = map[string]interface{}{
	"properties": map[string]interface{}{
		"status": map[string]interface{}{
			"type": "keyword",
			"fields": map[string]interface{}{
				"keyword1": map[string]interface{}{
					"type": "keyword",
				},
				"keyword2": map[string]interface{}{
					"type": "keyword",
				},
			},
		},
	},
}

var badLegacyTemplate = map[string]interface{}{
	"index_patterns": []string{"legacy-bad-*"},
	"mappings":       redundantKeywordMappings,
}

var badComponentTemplate = map[string]interface{}{
	"template": map[string]interface{}{
		"mappings": redundantKeywordMappings,
	},
}

var badIndexTemplate = map[string]interface{}{
	"index_patterns": []string{"bad-index-*"},
	"priority":       400,
	"template": map[string]interface{}{
		"mappings": redundantKeywordMappings,
	},
}

// Requires allocation to a node attribute no node in the cluster carries,
// so the single primary can never be placed and the index stays red.
var redIndex = map[string]interface{}{
	"settings": map[string]interface{}{
		"number_of_shards":   1,
		"number_of_replicas": 0,
		"index.routing.allocation.require.disk_type": "nonexistent_disk",
	},
}

func sampleDocuments(count int) []map[string]interface{} {
	now := time.Now().UTC()
	documents := make([]map[string]interface{}, 0, count)
	for i := 1; i <= count; i++ {
		documents = append(documents, map[string]interface{}{
			"@timestamp": now.Format(time.RFC3339),
			"message":    fmt.Sprintf("Sample log entry %d", i),
			"counter":    i,
		})
	}
	return documents
}

// Recipes returns the fault recipes in their fixed execution order. Later
// recipes never depend on earlier ones having succeeded.
func Recipes(ac client.AdminClient, logger *zap.Logger) []Recipe {
	return []Recipe{
		{
			Name: "replica overcommit",
			Resources: []Resource{
				{Kind: KindIndex, Name: ProblematicReplicasIndexName},
			},
			Problem: fmt.Sprintf(
				"index %q has 3 shards with 2 replicas each, more copies than a single data node can hold (yellow health, unassigned replicas)",
				ProblematicReplicasIndexName,
			),
			Apply: func(ctx context.Context) error {
				if err := ac.CreateIndex(ctx, ProblematicReplicasIndexName, problematicReplicasIndex); err != nil {
					return err
				}
				// Yellow health does not block writes.
				if err := ac.BulkIndex(ctx, ProblematicReplicasIndexName, sampleDocuments(sampleDocumentCount)); err != nil {
					return err
				}
				health, err := ac.ClusterHealth(ctx, ProblematicReplicasIndexName)
				if err != nil {
					return err
				}
				logger.Info(
					"replica overcommit index health",
					zap.String("index_name", ProblematicReplicasIndexName),
					zap.String("status", health.Status),
					zap.Int64("unassigned_shards", health.UnassignedShards),
				)
				if health.Status == model.HealthGreen {
					logger.Warn(
						"expected non-green health for overcommitted replicas",
						zap.String("index_name", ProblematicReplicasIndexName),
					)
				}
				return nil
			},
		},
		{
			Name: "composite template with redundant multi-fields",
			Resources: []Resource{
				{Kind: KindIndexTemplate, Name: BadCompositeTemplateName},
				{Kind: KindIndex, Name: BadTemplateTestIndexName},
			},
			Problem: fmt.Sprintf(
				"index template %q maps text fields with duplicate keyword and self-typed sub-fields; index %q materializes the wasteful mapping",
				BadCompositeTemplateName, BadTemplateTestIndexName,
			),
			Apply: func(ctx context.Context) error {
				if err := ac.PutIndexTemplate(ctx, BadCompositeTemplateName, badCompositeTemplate); err != nil {
					return err
				}
				// An index matching the pattern inherits the mapping verbatim.
				return ac.CreateIndex(ctx, BadTemplateTestIndexName, map[string]interface{}{})
			},
		},
		{
			Name: "legacy template with redundant keyword sub-fields",
			Resources: []Resource{
				{Kind: KindLegacyTemplate, Name: BadLegacyTemplateName},
			},
			Problem: fmt.Sprintf(
				"legacy template %q adds two keyword sub-fields to a field that is already a keyword",
				BadLegacyTemplateName,
			),
			Apply: func(ctx context.Context) error {
				return ac.PutLegacyTemplate(ctx, BadLegacyTemplateName, badLegacyTemplate)
			},
		},
		{
			Name: "component template with redundant keyword sub-fields",
			Resources: []Resource{
				{Kind: KindComponentTemplate, Name: BadComponentTemplateName},
			},
			Problem: fmt.Sprintf(
				"component template %q carries the same redundant keyword mapping as a reusable fragment",
				BadComponentTemplateName,
			),
			Apply: func(ctx context.Context) error {
				return ac.PutComponentTemplate(ctx, BadComponentTemplateName, badComponentTemplate)
			},
		},
		{
			Name: "index template with redundant keyword sub-fields",
			Resources: []Resource{
				{Kind: KindIndexTemplate, Name: BadIndexTemplateName},
			},
			Problem: fmt.Sprintf(
				"index template %q binds the redundant keyword mapping to its own index pattern",
				BadIndexTemplateName,
			),
			Apply: func(ctx context.Context) error {
				return ac.PutIndexTemplate(ctx, BadIndexTemplateName, badIndexTemplate)
			},
		},
		{
			Name: "impossible allocation",
			Resources: []Resource{
				{Kind: KindIndex, Name: RedIndexName},
			},
			Problem: fmt.Sprintf(
				"index %q requires allocation to a node attribute that exists nowhere in the cluster (red health, unallocatable primary)",
				RedIndexName,
			),
			Apply: func(ctx context.Context) error {
				return ac.CreateIndex(ctx, RedIndexName, redIndex)
			},
		},
	}
}
