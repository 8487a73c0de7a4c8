// Package server provides the HTTP server for the YachtExcel API.
//
// The Server struct carries the router, the stores and the services that
// request handlers need. Handlers themselves live in the endpoints
// subpackage:
//
//	srv := server.NewServer(db, cfg, logger, env.Addr())
//	srv.JWTMiddleware = middleware.NewJWTAuthenticator(secret, resolver, logger)
//	endpoints.RegisterAll(srv)
//	log.Fatal(srv.Start())
//
// Handler wraps the router with panic recovery, CORS for the configured
// origins and an Apache-style access log on stdout. The configuration may
// be swapped at runtime with SetConfig; CORS origins are read once when the
// handler is built.
package server
