package http

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/km-arc/dico/framework/container"
	"github.com/km-arc/dico/framework/routing"
)

// Inspector exposes a read-only HTTP view of one container.
//
//	GET /keys            → sorted parameter keys
//	GET /params/{key}    → raw parameter (value request)
//	GET /services/{key}  → resolved service (service request)
//
// Service requests are answered once the factory chain calls back or the
// request context ends, whichever comes first. ?timeout=500ms bounds the
// wait further.
type Inspector struct {
	c   *container.Registry
	log *zap.Logger
}

// NewInspector creates an Inspector for c.
func NewInspector(c *container.Registry, log *zap.Logger) *Inspector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Inspector{c: c, log: log}
}

// Routes registers the inspector's handlers on r.
//
//	router.Prefix("/inspect", inspector.Routes)
func (in *Inspector) Routes(r *routing.Router) {
	r.Get("/keys", in.Keys)
	r.Get("/params/{key}", in.Param)
	r.Get("/services/{key}", in.Service)
}

// Keys lists every parameter key.
func (in *Inspector) Keys(w http.ResponseWriter, _ *http.Request) {
	NewResponse(w).Success(in.c.Keys())
}

// Param returns the parameter stored for {key}, as seen from the root scope.
func (in *Inspector) Param(w http.ResponseWriter, r *http.Request) {
	res := NewResponse(w)
	key := routing.Param(r, "key")

	v := in.c.Param(key)
	if v == nil {
		res.NotFound(fmt.Sprintf("parameter %q not found", key))
		return
	}
	res.Success(map[string]any{"key": key, "value": describe(v)})
}

// Service resolves {key} as a service from the root scope.
func (in *Inspector) Service(w http.ResponseWriter, r *http.Request) {
	req := NewRequest(r)
	res := NewResponse(w)
	key := req.RouteParam("key")

	timeout, err := req.Duration("timeout", 0)
	if err != nil {
		res.Error(http.StatusBadRequest, err.Error())
		return
	}
	ctx := r.Context()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type outcome struct {
		value any
		err   error
	}
	ch := make(chan outcome, 1)
	in.c.Service(key, func(v any, err error) {
		ch <- outcome{value: v, err: err}
	})

	select {
	case out := <-ch:
		switch {
		case out.err != nil:
			in.log.Warn("service resolution failed", zap.String("key", key), zap.Error(out.err))
			res.ServerError(out.err.Error())
		case out.value == nil:
			res.NotFound(fmt.Sprintf("service %q not found", key))
		default:
			res.Success(map[string]any{
				"key":   key,
				"type":  fmt.Sprintf("%T", out.value),
				"value": describe(out.value),
			})
		}
	case <-ctx.Done():
		res.GatewayTimeout(fmt.Sprintf("service %q did not resolve in time", key))
	}
}

// describe makes a value safe to encode: factories and other functions are
// replaced by a marker, anything else is returned unchanged.
func describe(v any) any {
	if container.IsFactory(v) {
		return map[string]string{"kind": "factory"}
	}
	if _, err := json.Marshal(v); err != nil {
		return map[string]string{"kind": "opaque", "type": fmt.Sprintf("%T", v)}
	}
	return v
}
