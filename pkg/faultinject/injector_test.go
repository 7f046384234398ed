package faultinject

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/keshav29102/faultlab/pkg/elasticsearch/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAdminClient struct {
	pingErrs  []error
	pingCalls int
	calls     []string
	failOn    map[string]error
	health    model.ClusterHealth
}

func (f *fakeAdminClient) Ping(ctx context.Context) error {
	i := f.pingCalls
	f.pingCalls++
	if i < len(f.pingErrs) {
		return f.pingErrs[i]
	}
	return nil
}

func (f *fakeAdminClient) record(call string) error {
	f.calls = append(f.calls, call)
	if err, ok := f.failOn[call]; ok {
		return err
	}
	return nil
}

func (f *fakeAdminClient) ClusterHealth(
	ctx context.Context,
	indices ...string,
) (*model.ClusterHealth, error) {
	call := "cluster-health"
	if len(indices) > 0 {
		call += " " + indices[0]
	}
	if err := f.record(call); err != nil {
		return nil, err
	}
	health := f.health
	return &health, nil
}

func (f *fakeAdminClient) CreateIndex(
	ctx context.Context,
	name string,
	body map[string]interface{},
) error {
	return f.record("create-index " + name)
}

func (f *fakeAdminClient) BulkIndex(
	ctx context.Context,
	index string,
	documents []map[string]interface{},
) error {
	return f.record(fmt.Sprintf("bulk-index %s %d", index, len(documents)))
}

func (f *fakeAdminClient) PutIndexTemplate(
	ctx context.Context,
	name string,
	template map[string]interface{},
) error {
	return f.record("put-index-template " + name)
}

func (f *fakeAdminClient) PutLegacyTemplate(
	ctx context.Context,
	name string,
	template map[string]interface{},
) error {
	return f.record("put-legacy-template " + name)
}

func (f *fakeAdminClient) PutComponentTemplate(
	ctx context.Context,
	name string,
	template map[string]interface{},
) error {
	return f.record("put-component-template " + name)
}

func (f *fakeAdminClient) Count(ctx context.Context, index string) (int64, error) {
	if err := f.record("count " + index); err != nil {
		return 0, err
	}
	return 10, nil
}

func newTestInjector(fake *fakeAdminClient, bus EventBus.Bus) *Injector {
	inj := NewInjector(fake, bus, "http://localhost:9200", "elastic", zap.NewNop())
	inj.retries = 5
	inj.delay = time.Millisecond
	return inj
}

func TestPreflightRecoversWithinRetryBudget(t *testing.T) {
	fake := &fakeAdminClient{
		pingErrs: []error{
			errors.New("connection refused"),
			errors.New("connection refused"),
			nil,
		},
		health: model.ClusterHealth{Status: model.HealthYellow, UnassignedShards: 6},
	}
	inj := newTestInjector(fake, EventBus.New())

	err := inj.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, fake.pingCalls)
}

func TestPreflightExhaustionAbortsBeforeAnyRecipe(t *testing.T) {
	fake := &fakeAdminClient{
		pingErrs: []error{
			errors.New("connection refused"),
			errors.New("connection refused"),
			errors.New("connection refused"),
		},
	}
	inj := newTestInjector(fake, EventBus.New())
	inj.retries = 3

	err := inj.Run(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "not available after 3 attempts")
	assert.ErrorContains(t, err, "http://localhost:9200")
	assert.Equal(t, 3, fake.pingCalls)
	assert.Empty(t, fake.calls)
}

func TestRunAppliesRecipesInFixedOrder(t *testing.T) {
	fake := &fakeAdminClient{
		health: model.ClusterHealth{Status: model.HealthYellow, UnassignedShards: 6},
	}
	inj := newTestInjector(fake, EventBus.New())

	err := inj.Run(context.Background())
	require.NoError(t, err)

	expectedCalls := []string{
		"cluster-health",
		"create-index problematic-replicas",
		"bulk-index problematic-replicas 10",
		"cluster-health problematic-replicas",
		"put-index-template my-bad-template",
		"create-index bad-template-test",
		"put-legacy-template bad-legacy-template",
		"put-component-template bad-component-template",
		"put-index-template bad-index-template",
		"create-index red-index",
	}
	assert.Equal(t, expectedCalls, fake.calls)
}

func TestRecipeFailureDoesNotHaltTheSequence(t *testing.T) {
	fake := &fakeAdminClient{
		health: model.ClusterHealth{Status: model.HealthYellow, UnassignedShards: 6},
		failOn: map[string]error{
			"put-index-template my-bad-template": errors.New("boom"),
		},
	}
	bus := EventBus.New()
	var results []Result
	require.NoError(t, bus.Subscribe(ResultTopic, func(result Result) {
		results = append(results, result)
	}))
	inj := newTestInjector(fake, bus)

	err := inj.Run(context.Background())
	require.NoError(t, err)

	// recipe 2 aborted before creating its matching index
	assert.NotContains(t, fake.calls, "create-index bad-template-test")
	// later recipes still ran
	assert.Contains(t, fake.calls, "put-legacy-template bad-legacy-template")
	assert.Contains(t, fake.calls, "put-component-template bad-component-template")
	assert.Contains(t, fake.calls, "put-index-template bad-index-template")
	assert.Contains(t, fake.calls, "create-index red-index")

	require.Len(t, results, 6)
	assert.NoError(t, results[0].Err)
	assert.EqualError(t, results[1].Err, "boom")
	for _, result := range results[2:] {
		assert.NoError(t, result.Err)
	}
}

func TestRunPublishesEveryRecipeResultInOrder(t *testing.T) {
	fake := &fakeAdminClient{
		health: model.ClusterHealth{Status: model.HealthYellow, UnassignedShards: 6},
	}
	bus := EventBus.New()
	var results []Result
	require.NoError(t, bus.Subscribe(ResultTopic, func(result Result) {
		results = append(results, result)
	}))
	inj := newTestInjector(fake, bus)

	err := inj.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, results, 6)
	expectedResources := []string{
		ProblematicReplicasIndexName,
		BadCompositeTemplateName,
		BadLegacyTemplateName,
		BadComponentTemplateName,
		BadIndexTemplateName,
		RedIndexName,
	}
	for i, result := range results {
		assert.Equal(t, expectedResources[i], result.Recipe.Resources[0].Name)
	}
}
