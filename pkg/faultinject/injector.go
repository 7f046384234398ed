package faultinject

import (
	"context"
	"fmt"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/keshav29102/faultlab/pkg/elasticsearch/client"
	"go.uber.org/zap"
)

const preflightRetries = 10
const preflightDelay = 3 * time.Second

// ResultTopic is the bus topic each recipe outcome is published on.
// Publication is synchronous, so recipes stay strictly sequential.
const ResultTopic = "faultinject:recipe"

type Result struct {
	Recipe Recipe
	Err    error
}

// Injector applies the fault recipes in their fixed order against one
// cluster. Recipe failures are logged and published but never escalated:
// the run exists to leave the cluster in some broken state, and the demo
// narrative downstream depends on it always reaching the summary.
type Injector struct {
	client   client.AdminClient
	bus      EventBus.Bus
	endpoint string
	username string
	logger   *zap.Logger
	retries  int
	delay    time.Duration
}

func NewInjector(
	ac client.AdminClient,
	bus EventBus.Bus,
	endpoint string,
	username string,
	logger *zap.Logger,
) *Injector {
	return &Injector{
		client:   ac,
		bus:      bus,
		endpoint: endpoint,
		username: username,
		logger:   logger,
		retries:  preflightRetries,
		delay:    preflightDelay,
	}
}

// Run validates connectivity, then applies every recipe in order. The only
// error it returns is preflight exhaustion; by then no recipe has run.
func (inj *Injector) Run(ctx context.Context) error {
	if err := inj.waitForElasticsearch(ctx, inj.retries, inj.delay); err != nil {
		return fmt.Errorf("failed to connect to Elasticsearch: %w", err)
	}

	if health, err := inj.client.ClusterHealth(ctx); err != nil {
		inj.logger.Warn("Could not fetch baseline cluster health", zap.Error(err))
	} else {
		inj.logger.Info(
			"Baseline cluster health",
			zap.String("cluster_name", health.ClusterName),
			zap.String("status", health.Status),
			zap.Int64("number_of_data_nodes", health.NumberOfDataNodes),
		)
	}

	for _, recipe := range Recipes(inj.client, inj.logger) {
		err := recipe.Apply(ctx)
		if err != nil {
			inj.logger.Warn(
				"Recipe did not apply cleanly, continuing with the next one",
				zap.String("recipe", recipe.Name),
				zap.Error(err),
			)
		} else {
			inj.logger.Info(
				"Injected fault",
				zap.String("recipe", recipe.Name),
				zap.String("resource", recipe.Resources[0].Name),
			)
		}
		inj.bus.Publish(ResultTopic, Result{Recipe: recipe, Err: err})
	}

	return nil
}

func (inj *Injector) waitForElasticsearch(
	ctx context.Context,
	maxRetries int,
	delay time.Duration,
) error {
	for i := 0; i < maxRetries; i++ {
		if err := inj.client.Ping(ctx); err == nil {
			inj.logger.Info("Elasticsearch is available")
			return nil
		}
		inj.logger.Warn(fmt.Sprintf("Elasticsearch not available (attempt %d/%d), retrying...", i+1, maxRetries))

		time.Sleep(delay)
	}

	return fmt.Errorf(
		"Elasticsearch at %s is not available after %d attempts; verify manually with: curl -k -u %s:$ES_LOCAL_PASSWORD %s",
		inj.endpoint, maxRetries, inj.username, inj.endpoint,
	)
}
