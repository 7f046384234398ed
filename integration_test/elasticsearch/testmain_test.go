package elasticsearch

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"
)

var es *elasticsearch.Client
var esURI string
var logger, _ = zap.NewDevelopment()

func TestMain(m *testing.M) {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	ctx := context.Background()
	uri, cleanup, err := startElasticSearchContainer(ctx, logger)
	defer cleanup()
	if err != nil {
		logger.Fatal("Failed to start container", zap.Error(err))
	}
	esURI = uri
	es, err = elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{esURI}})
	if err != nil {
		logger.Fatal("Failed to create elasticsearch client", zap.Error(err))
	}

	code := m.Run()
	os.Exit(code)
}
