package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"

	"github.com/asaskevich/EventBus"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/keshav29102/faultlab/pkg/config"
	"github.com/keshav29102/faultlab/pkg/elasticsearch/client"
	"github.com/keshav29102/faultlab/pkg/faultinject"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:   "faultlab",
		Short: "Inject known, named health problems into an Elasticsearch cluster",
		Long: `faultlab applies a fixed sequence of fault recipes against an
Elasticsearch cluster: an index with more replica copies than a single data
node can hold, templates with wasteful duplicate multi-field mappings, and
an index whose allocation constraint no node can ever satisfy. The result
is a cluster with reproducible, named health problems for a monitoring
demo to diagnose. Cleanup commands are printed, never executed.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.String("es-url", "", "base URL of the target Elasticsearch cluster (env "+config.EnvURL+")")
	flags.String("es-username", config.DefaultUsername, "basic auth username")
	flags.String("es-password", "", "basic auth password (env "+config.EnvPassword+")")
	flags.Bool("insecure", false, "skip TLS certificate verification")
	if err := v.BindPFlags(flags); err != nil {
		panic(err)
	}
	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	esConfig := elasticsearch.Config{
		Addresses: []string{cfg.ESURL},
		Username:  cfg.Username,
		Password:  cfg.Password,
	}
	if cfg.Insecure {
		esConfig.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
	es, err := elasticsearch.NewClient(esConfig)
	if err != nil {
		return fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	ac := client.NewAdminClientImpl(es, logger)
	bus := EventBus.New()

	reporter := faultinject.NewReporter(cfg.ESURL, cfg.Username)
	if err := reporter.Subscribe(bus); err != nil {
		return fmt.Errorf("failed to subscribe reporter: %w", err)
	}

	injector := faultinject.NewInjector(ac, bus, cfg.ESURL, cfg.Username, logger)
	if err := injector.Run(ctx); err != nil {
		return err
	}

	reporter.Print(os.Stdout)
	return nil
}
