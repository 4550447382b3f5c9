package handler

type ContextKey string

var (
	RoleCtxKey             ContextKey = "role"
	SubCtxKey              ContextKey = "sub"
	MyInfoCtx              ContextKey = "myInfo"
	WorkerInfoCtx          ContextKey = "workerInfo"
	ServiceTypeCtx         ContextKey = "serviceType"
	ScheduleBatchCtx       ContextKey = "scheduleBatch"
	LineItemCtx            ContextKey = "lineItem"
	SubstitutionRequestCtx ContextKey = "substitutionRequest"
)
