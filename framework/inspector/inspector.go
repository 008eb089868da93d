// Package inspector exposes a container's bindings over HTTP for debugging.
//
//	GET    {prefix}/bindings           list explicit bindings (?shared=true|false filters)
//	GET    {prefix}/bindings/{id...}   describe one id
//	DELETE {prefix}/bindings/{id...}   remove a binding
//	GET    {prefix}/resolve/{id...}    resolve an id and report its Go type
//
// Ids are taken from the wildcard tail, so type keys containing slashes work.
package inspector

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/km-arc/go-container/framework/container"
	gohttp "github.com/km-arc/go-container/framework/http"
	"github.com/km-arc/go-container/framework/routing"
)

// Binding is the description of one id.
type Binding struct {
	ID           string `json:"id"`
	Bound        bool   `json:"bound"`
	Shared       bool   `json:"shared"`
	Autowireable bool   `json:"autowireable"`
}

// Resolution is the result of resolving an id.
type Resolution struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// Inspector serves read/write views of one container.
type Inspector struct {
	c      *container.Container
	logger *zap.Logger
}

// New creates an Inspector for c. A nil logger is replaced by a no-op one.
func New(c *container.Container, l *zap.Logger) *Inspector {
	if l == nil {
		l = zap.NewNop()
	}
	return &Inspector{c: c, logger: l}
}

// Mount registers the inspector routes under prefix.
func (in *Inspector) Mount(r *routing.Router, prefix string) {
	if prefix == "" {
		prefix = "/"
	}
	r.Prefix(prefix, func(sub *routing.Router) {
		sub.Get("/", in.summary)
		sub.Get("/bindings", in.list)
		sub.Get("/bindings/*", in.show)
		sub.Delete("/bindings/*", in.remove)
		sub.Get("/resolve/*", in.resolve)
	})
}

func (in *Inspector) summary(w http.ResponseWriter, r *http.Request) {
	gohttp.NewResponse(w).Success(map[string]any{
		"container": in.c.ID(),
		"bindings":  len(in.c.Bindings()),
	})
}

func (in *Inspector) list(w http.ResponseWriter, r *http.Request) {
	bindings := in.c.Bindings()

	if shared, ok := gohttp.NewRequest(r).QueryBool("shared"); ok {
		filtered := bindings[:0]
		for _, b := range bindings {
			if b.Shared == shared {
				filtered = append(filtered, b)
			}
		}
		bindings = filtered
	}

	gohttp.NewResponse(w).Success(bindings)
}

func (in *Inspector) show(w http.ResponseWriter, r *http.Request) {
	id := gohttp.NewRequest(r).RouteParam("*")
	res := gohttp.NewResponse(w)

	b, ok := in.describe(id)
	if !ok {
		res.NotFound(fmt.Sprintf("no binding or autowireable type for %q", id))
		return
	}
	res.Success(b)
}

func (in *Inspector) describe(id string) (Binding, bool) {
	info, bound := in.c.Binding(id)
	b := Binding{
		ID:           id,
		Bound:        bound,
		Shared:       info.Shared,
		Autowireable: in.c.Introspector().IsInstantiable(id),
	}
	return b, b.Bound || b.Autowireable
}

func (in *Inspector) remove(w http.ResponseWriter, r *http.Request) {
	id := gohttp.NewRequest(r).RouteParam("*")
	in.c.Remove(id)
	in.logger.Info("binding removed via inspector", zap.String("id", id))
	gohttp.NewResponse(w).NoContent()
}

func (in *Inspector) resolve(w http.ResponseWriter, r *http.Request) {
	id := gohttp.NewRequest(r).RouteParam("*")
	res := gohttp.NewResponse(w)

	instance, err := in.c.Get(id)
	switch {
	case errors.Is(err, container.ErrCycle):
		res.Conflict(err.Error())
	case errors.Is(err, container.ErrNotFound):
		res.NotFound(err.Error())
	case err != nil:
		in.logger.Error("inspector resolve failed", zap.String("id", id), zap.Error(err))
		res.ServerError()
	default:
		res.Success(Resolution{ID: id, Type: fmt.Sprintf("%T", instance)})
	}
}
