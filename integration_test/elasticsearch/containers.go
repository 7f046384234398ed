package elasticsearch

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

const Port = "9200"

// startElasticSearchContainer brings up a single-node cluster with security
// disabled. One data node is what makes the replica-overcommit and
// impossible-allocation recipes observable.
func startElasticSearchContainer(
	ctx context.Context,
	logger *zap.Logger,
) (
	elasticSearchURI string,
	stopContainer func(),
	err error,
) {
	childCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        "docker.elastic.co/elasticsearch/elasticsearch:8.10.2",
		Name:         "elasticsearch-faultlab",
		ExposedPorts: []string{fmt.Sprintf("%s:%s", Port, Port)},
		Env: map[string]string{
			"discovery.type":         "single-node",
			"xpack.security.enabled": "false",
			"ES_JAVA_OPTS":           "-Xms512m -Xmx512m",
		},
		WaitingFor: wait.ForListeningPort(Port),
	}

	elasticSearchContainer, err := testcontainers.GenericContainer(childCtx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return "", nil, fmt.Errorf("failed to start container: %w", err)
	}

	stopContainer = func() {
		elasticSearchContainer.Terminate(context.Background())
	}

	host, err := elasticSearchContainer.Host(childCtx)
	if err != nil {
		stopContainer()
		return "", nil, fmt.Errorf("failed to get container host: %w", err)
	}

	uri := fmt.Sprintf("http://%s:%s", host, Port)
	logger.Info("Elasticsearch container started", zap.String("uri", uri))
	return uri, stopContainer, nil
}
