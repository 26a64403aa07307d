// Package metrics declares the Prometheus collectors of the back office and the
// HTTP middleware that feeds the request counters.
//
//	reg := prometheus.NewRegistry()
//	m := metrics.New(reg)
//	r.Use(m.Middleware)
//	r.Handle("/metrics", metrics.Handler(reg))
package metrics
