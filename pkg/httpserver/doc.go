// Package httpserver runs an http.Handler with configurable timeouts,
// structured life-cycle logging and graceful shutdown.
//
// Run binds the listener, closes the channel returned by Ready, and serves
// until the context is canceled or the process receives SIGINT or SIGTERM.
// Shutdown is then given the configured deadline to drain in-flight requests,
// which matters for handlers still reading large multipart bodies.
//
// # Usage
//
//	var cfg httpserver.Config
//	config.MustLoad(&cfg)
//
//	r := chi.NewRouter()
//	r.Get("/healthz", httpserver.HealthCheckHandler(log))
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, r); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// # Errors
//
// Run wraps listen and serve errors with ErrStart, and Shutdown wraps
// http.Server.Shutdown errors with ErrShutdown. Use errors.Is to tell them apart.
package httpserver
