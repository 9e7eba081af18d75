// Package bearer authenticates HTTP requests carrying HSEAL tokens in the
// Authorization header.
//
//	r := chi.NewRouter()
//	r.Use(bearer.Middleware(manager, bearer.WithAudience("auth:api")))
//	r.Get("/me", func(w http.ResponseWriter, r *http.Request) {
//	    p, _ := bearer.PayloadFromContext(r.Context())
//	    fmt.Fprintln(w, p.Subject)
//	})
//
// Rejected requests get 401 with
// `WWW-Authenticate: Bearer realm="HSEAL", error="invalid_token"` and a JSON
// body {"error":"unauthorized","error_description":"..."}.
package bearer
