package model

type CountResponse struct {
	Count  int       `json:"count"`
	Shards ShardInfo `json:"_shards"`
}

type ShardInfo struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Skipped    int `json:"skipped"`
	Failed     int `json:"failed"`
}
