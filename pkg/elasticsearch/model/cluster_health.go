package model

// ClusterHealth represents a response from the _cluster/health endpoint.
// Not exhaustive; only the fields the fault injector inspects or logs.
type ClusterHealth struct {
	ClusterName         string `json:"cluster_name"`
	Status              string `json:"status"`
	NumberOfNodes       int64  `json:"number_of_nodes"`
	NumberOfDataNodes   int64  `json:"number_of_data_nodes"`
	ActivePrimaryShards int64  `json:"active_primary_shards"`
	ActiveShards        int64  `json:"active_shards"`
	RelocatingShards    int64  `json:"relocating_shards"`
	InitializingShards  int64  `json:"initializing_shards"`
	UnassignedShards    int64  `json:"unassigned_shards"`
}

const (
	HealthGreen  = "green"
	HealthYellow = "yellow"
	HealthRed    = "red"
)
