// Package http provides JSON response helpers and the container inspector.
//
//	inspector := gohttp.NewInspector(container.Named("app"), log)
//	router.Prefix("/inspect", inspector.Routes)
//
//	// GET /inspect/params/db.dsn
//	// {"data": {"key": "db.dsn", "value": "postgres://localhost/app"}}
package http
