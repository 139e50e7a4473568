package handler

type ContextKey string

var (
	MyInfoCtx    ContextKey = "myInfo"
	RequestIDCtx ContextKey = "requestID"
)
