package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatisticsResponse summarises every visible request kind over a date range
type StatisticsResponse struct {
	From  time.Time        `json:"from"`
	To    time.Time        `json:"to"`
	Kinds []KindStatistics `json:"kinds"`
}

// KindStatistics holds the totals of one request kind
type KindStatistics struct {
	Kind            string          `json:"kind"`
	Requests        int64           `json:"requests"`
	RequestedAmount decimal.Decimal `json:"requested_amount"`
	ApprovedAmount  decimal.Decimal `json:"approved_amount"`
	Statuses        []StatusTotal   `json:"statuses"`
	TopParks        []ParkRanking   `json:"top_parks"`
}

// StatusTotal is the count and summed amount of one status
type StatusTotal struct {
	Status string          `json:"status"`
	Count  int64           `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// ParkRanking ranks a park by the amount it requested
type ParkRanking struct {
	ParkName string          `json:"park_name"`
	Requests int64           `json:"requests"`
	Amount   decimal.Decimal `json:"amount"`
}
