package common

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/sngm3741/mymoo-services/api/internal/public/domain"
)

// Caller is the authenticated account behind a request.
type Caller struct {
	AccountID int64
	Nickname  string
}

// Account converts the caller into the domain account.
func (c Caller) Account() domain.Account {
	return domain.Account{ID: c.AccountID, Nickname: c.Nickname}
}

// CallerResolver turns a request into a Caller or fails with domain.ErrUnauthorized.
type CallerResolver interface {
	Resolve(r *http.Request) (Caller, error)
}

// CallerResolverFunc adapts a function to CallerResolver.
type CallerResolverFunc func(r *http.Request) (Caller, error)

func (f CallerResolverFunc) Resolve(r *http.Request) (Caller, error) {
	return f(r)
}

// CallerHandlerFunc is a handler that receives the resolved caller explicitly.
type CallerHandlerFunc func(w http.ResponseWriter, r *http.Request, caller Caller)

// RequireCaller resolves the caller before running next and answers 401 when
// resolution fails.
func RequireCaller(logger zerolog.Logger, resolver CallerResolver, next CallerHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := resolver.Resolve(r)
		if err != nil {
			WriteError(logger, w, r, err)
			return
		}
		next(w, r, caller)
	}
}
