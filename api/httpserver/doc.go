// Package httpserver provides the HTTP server shared by the verification
// service binaries.
//
// BaseServer mounts the routes of any number of RouteRegistrars behind a
// common middleware stack (request IDs, real IP, panic recovery, structured
// request logging) and adds:
//
//   - /livez: liveness probe
//   - /readyz: readiness probe, 503 while draining or while a registrar
//     implementing ReadinessChecker refuses traffic
//   - /drain and /undrain: readiness control for load balancers
//   - /debug/pprof when EnablePprof is set
//
// Metrics are served on a separate listener when MetricsAddr is set.
//
//	srv, err := httpserver.New(cfg, verificationService)
//	if err != nil {
//	    return err
//	}
//	srv.RunInBackground()
//	defer srv.Shutdown()
package httpserver
