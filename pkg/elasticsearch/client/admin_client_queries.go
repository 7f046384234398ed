package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/keshav29102/faultlab/pkg/elasticsearch/model"
)

func (a *AdminClientImpl) Ping(ctx context.Context) error {
	res, err := a.es.Info(a.es.Info.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to reach Elasticsearch: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch info error: %s", res.String())
	}
	return nil
}

func (a *AdminClientImpl) ClusterHealth(
	ctx context.Context,
	indices ...string,
) (*model.ClusterHealth, error) {
	res, err := a.es.Cluster.Health(
		a.es.Cluster.Health.WithContext(ctx),
		a.es.Cluster.Health.WithIndex(indices...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cluster health: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("cluster health error: %s", res.String())
	}

	var health model.ClusterHealth
	if err := json.NewDecoder(res.Body).Decode(&health); err != nil {
		return nil, fmt.Errorf("failed to decode cluster health response: %w", err)
	}
	return &health, nil
}

func (a *AdminClientImpl) Count(ctx context.Context, index string) (int64, error) {
	res, err := a.es.Count(
		a.es.Count.WithContext(ctx),
		a.es.Count.WithIndex(index),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to execute count: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, fmt.Errorf("failed to execute count: %s", res.String())
	}

	var countResponse model.CountResponse
	if err := json.NewDecoder(res.Body).Decode(&countResponse); err != nil {
		return 0, fmt.Errorf("failed to decode count response: %w", err)
	}

	return int64(countResponse.Count), nil
}
