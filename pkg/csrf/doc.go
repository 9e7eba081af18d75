// Package csrf implements double-submit CSRF protection on top of HSEAL CSRF
// tokens.
//
// Issue signs a token bound to an action ("transfer", "delete-account", ...)
// and sets it in a csrf_<action> cookie. The page sends the same token back in
// the X-CSRF-Token header or the csrf_token form field. Verify requires both
// copies to match and the token to verify for that action, so a token for one
// form cannot be replayed against another.
//
//	p := csrf.New(manager, csrf.WithTTL(token.DurationString("15m")))
//	issued, err := p.Issue(w, "transfer")
//	...
//	r.With(p.Middleware("transfer")).Post("/transfer", handler)
package csrf
