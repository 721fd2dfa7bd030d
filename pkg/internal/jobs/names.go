package jobs

// 任务名称常量.
const (
	JobReconcileObjects = "objects.reconcile"
)
