package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/keshav29102/faultlab/pkg/elasticsearch/model"
	"go.uber.org/zap"
)

func (a *AdminClientImpl) CreateIndex(
	ctx context.Context,
	name string,
	body map[string]interface{},
) error {
	bodyJSON, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("error marshaling index body: %w", err)
	}

	res, err := a.es.Indices.Create(
		name,
		a.es.Indices.Create.WithBody(strings.NewReader(string(bodyJSON))),
		a.es.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("error creating index %s: %w", name, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error response for index %s: %s", name, res.String())
	}

	a.logger.Info("Successfully created index", zap.String("index_name", name))
	return nil
}

func (a *AdminClientImpl) BulkIndex(
	ctx context.Context,
	index string,
	documents []map[string]interface{},
) error {
	var buf bytes.Buffer
	for _, doc := range documents {
		// empty meta for bulk index
		meta := map[string]interface{}{"index": map[string]interface{}{}}
		metaJSON, err := json.Marshal(meta)
		if err != nil {
			return fmt.Errorf("error marshaling meta to bulk index: %w", err)
		}
		buf.Write(metaJSON)
		buf.WriteByte('\n')

		docJSON, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("error marshaling document to bulk index: %w", err)
		}
		buf.Write(docJSON)
		buf.WriteByte('\n')
	}

	res, err := a.es.Bulk(
		bytes.NewReader(buf.Bytes()),
		a.es.Bulk.WithIndex(index),
		a.es.Bulk.WithContext(ctx),
		a.es.Bulk.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("error bulk indexing into %s: %w", index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("bulk index error for %s: %s", index, res.String())
	}

	var bulkResponse model.BulkResponse
	if err := json.NewDecoder(res.Body).Decode(&bulkResponse); err != nil {
		return fmt.Errorf("failed to decode bulk response: %w", err)
	}
	if bulkResponse.Errors {
		for _, item := range bulkResponse.Items {
			if item.Index.Error != nil {
				return fmt.Errorf(
					"bulk index item failed for %s: %s: %s",
					index, item.Index.Error.Type, item.Index.Error.Reason,
				)
			}
		}
		return fmt.Errorf("bulk index reported item failures for %s", index)
	}

	a.logger.Info(
		"Successfully bulk indexed documents",
		zap.String("index_name", index),
		zap.Int("document_count", len(documents)),
	)
	return nil
}

func (a *AdminClientImpl) PutIndexTemplate(
	ctx context.Context,
	name string,
	template map[string]interface{},
) error {
	templateJSON, err := json.Marshal(template)
	if err != nil {
		return fmt.Errorf("error marshaling index template body: %w", err)
	}

	res, err := a.es.Indices.PutIndexTemplate(
		name,
		bytes.NewReader(templateJSON),
		a.es.Indices.PutIndexTemplate.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("error creating index template %s: %w", name, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error response for index template %s: %s", name, res.String())
	}

	a.logger.Info("Successfully created index template", zap.String("template_name", name))
	return nil
}

func (a *AdminClientImpl) PutLegacyTemplate(
	ctx context.Context,
	name string,
	template map[string]interface{},
) error {
	templateJSON, err := json.Marshal(template)
	if err != nil {
		return fmt.Errorf("error marshaling legacy template body: %w", err)
	}

	res, err := a.es.Indices.PutTemplate(
		name,
		bytes.NewReader(templateJSON),
		a.es.Indices.PutTemplate.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("error creating legacy template %s: %w", name, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error response for legacy template %s: %s", name, res.String())
	}

	a.logger.Info("Successfully created legacy template", zap.String("template_name", name))
	return nil
}

func (a *AdminClientImpl) PutComponentTemplate(
	ctx context.Context,
	name string,
	template map[string]interface{},
) error {
	templateJSON, err := json.Marshal(template)
	if err != nil {
		return fmt.Errorf("error marshaling component template body: %w", err)
	}

	res, err := a.es.Cluster.PutComponentTemplate(
		name,
		bytes.NewReader(templateJSON),
		a.es.Cluster.PutComponentTemplate.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("error creating component template %s: %w", name, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error response for component template %s: %s", name, res.String())
	}

	a.logger.Info("Successfully created component template", zap.String("template_name", name))
	return nil
}
