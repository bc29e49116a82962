// Package api serves plotkit over HTTP as a JSON API.
//
// # Routes
//
//	GET    /healthz                                  build info
//	GET    /v1/blueprints                            catalog
//	GET    /v1/blueprints/{id}/{version}             one blueprint ("latest" allowed)
//	GET    /v1/blueprints/{id}/{version}/preview     preview layout (?width=&length= or ?radius=)
//	GET    /v1/plots                                 stored plots
//	POST   /v1/plots                                 create a plot
//	GET    /v1/plots/{id}                            one plot
//	DELETE /v1/plots/{id}                            delete a plot and its records
//	GET    /v1/plots/{id}/layout                     committed layout (?format=json|dot|svg)
//	GET    /v1/plots/{id}/completion                 sampling-unit progress summary
//	POST   /v1/plots/{id}/trees                      record a tree
//	POST   /v1/plots/{id}/vegetation                 record vegetation
//	PUT    /v1/plots/{id}/progress/{unit}            set sampling-unit progress
//	POST   /v1/analysis                              run an analysis
//	GET    /metrics                                  Prometheus metrics, when enabled
//
// # Errors
//
// Failures are returned as {"code": "...", "message": "..."} using the codes
// of the errors package. INVALID_* codes map to 400, *NOT_FOUND to 404,
// CONFLICT to 409 and everything else to 500.
//
// # Middleware
//
// Requests get a request id, panic recovery, an access log line on the
// server's logger and HTTP hook events labelled with the chi route pattern.
package api
