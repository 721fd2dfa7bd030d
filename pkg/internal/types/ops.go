package types

import "time"

// HealthResponse 健康检查结果.
type HealthResponse struct {
	Status    string `json:"status"`
	Component string `json:"component"`
	Error     string `json:"error,omitempty"`
}

// ReconcileReport 孤儿对象对账结果.
type ReconcileReport struct {
	StartedAt   time.Time `json:"startedAt"`
	FinishedAt  time.Time `json:"finishedAt"`
	Scanned     int       `json:"scanned"`
	Referenced  int       `json:"referenced"`
	Reserved    int       `json:"reserved"`
	TooYoung    int       `json:"tooYoung"`
	Orphans     []string  `json:"orphans"`
	Deleted     int       `json:"deleted"`
	DeleteFails int       `json:"deleteFails"`
}
