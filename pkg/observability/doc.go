/*
Package observability turns engine lifecycle hooks into Prometheus metrics
and structured logs.

Hook sets compose with JoinHooks, so metrics, logging, and custom callbacks
can observe one wizard side by side:

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	hooks := observability.JoinHooks(
		metrics.Hooks(),
		observability.LoggingHooks(logger),
	)
	wiz, err := espalier.New(espalier.WithHooks(hooks))
*/
package observability
