package model

type BulkResponse struct {
	Took   int        `json:"took"`
	Errors bool       `json:"errors"`
	Items  []BulkItem `json:"items"`
}

type BulkItem struct {
	Index BulkItemIndex `json:"index"`
}

type BulkItemIndex struct {
	Index  string         `json:"_index"`
	ID     string         `json:"_id"`
	Result string         `json:"result"`
	Status int            `json:"status"`
	Error  *BulkItemError `json:"error,omitempty"`
}

type BulkItemError struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}
