package httpx

type ctxKey string

const (
	CtxKeyUsername ctxKey = "username"
	CtxKeyRole     ctxKey = "role"
	CtxKeyClaims   ctxKey = "claims"
)
