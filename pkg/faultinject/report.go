package faultinject

import (
	"fmt"
	"io"

	"github.com/asaskevich/EventBus"
)

// Reporter accumulates recipe results off the bus and prints the final
// human-readable summary plus advisory cleanup commands. The summary is
// asserted, not measured: it names every induced condition regardless of
// individual recipe outcomes, and nothing is ever deleted by the driver.
type Reporter struct {
	endpoint string
	username string
	results  []Result
}

func NewReporter(endpoint string, username string) *Reporter {
	return &Reporter{endpoint: endpoint, username: username}
}

func (r *Reporter) Subscribe(bus EventBus.Bus) error {
	return bus.Subscribe(ResultTopic, r.collect)
}

func (r *Reporter) collect(result Result) {
	r.results = append(r.results, result)
}

func (r *Reporter) Print(w io.Writer) {
	fmt.Fprintln(w, "Fault injection complete. Induced conditions:")
	for i, result := range r.results {
		fmt.Fprintf(w, "  %d. %s\n", i+1, result.Recipe.Problem)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "To reverse these changes:")
	for _, result := range r.results {
		for _, resource := range result.Recipe.Resources {
			fmt.Fprintf(
				w, "  curl -k -u %s:$ES_LOCAL_PASSWORD -X DELETE '%s%s'\n",
				r.username, r.endpoint, deletePath(resource),
			)
		}
	}
}

func deletePath(resource Resource) string {
	switch resource.Kind {
	case KindIndexTemplate:
		return "/_index_template/" + resource.Name
	case KindLegacyTemplate:
		return "/_template/" + resource.Name
	case KindComponentTemplate:
		return "/_component_template/" + resource.Name
	default:
		return "/" + resource.Name
	}
}
