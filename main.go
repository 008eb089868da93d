package main

import (
	"fmt"
	"net/http"
	"os"
	"sync/atomic"

	"github.com/fatih/color"

	"github.com/km-arc/go-container/framework/app"
	"github.com/km-arc/go-container/framework/config"
	"github.com/km-arc/go-container/framework/container"
	gohttp "github.com/km-arc/go-container/framework/http"
)

// Greeter is bound explicitly: interfaces cannot be autowired.
type Greeter interface {
	Greet(name string) string
}

type politeGreeter struct{ appName string }

func (g politeGreeter) Greet(name string) string {
	return "Welcome to " + g.appName + ", " + name + "!"
}

// Visits counts requests; it is shared so every WelcomeService sees the same one.
type Visits struct{ n atomic.Int64 }

func (v *Visits) Add() int64 { return v.n.Add(1) }

// WelcomeService is autowired from its constructor on every request.
type WelcomeService struct {
	greeter Greeter
	visits  *Visits
}

func NewWelcomeService(g Greeter, v *Visits) *WelcomeService {
	return &WelcomeService{greeter: g, visits: v}
}

func (s *WelcomeService) Welcome(name string) map[string]any {
	return map[string]any{
		"message": s.greeter.Greet(name),
		"visit":   s.visits.Add(),
	}
}

// registerDemo binds the demo graph. The greeter reads the app name from the
// "config" binding.
func registerDemo(c *container.Container) error {
	for _, v := range []any{(*Greeter)(nil), &Visits{}, NewWelcomeService} {
		if _, err := c.RegisterType(v); err != nil {
			return fmt.Errorf("register %T: %w", v, err)
		}
	}

	c.Set(container.TypeKey((*Greeter)(nil)), func(c *container.Container) any {
		return politeGreeter{appName: container.MustResolve[*config.Config](c, "config").App.Name}
	})
	c.Share(container.TypeKey(&Visits{}), func(c *container.Container) any {
		return &Visits{}
	})
	return nil
}

func main() {
	application := app.New() // loads .env automatically

	if err := registerDemo(application.Container); err != nil {
		color.Red("%v", err)
		os.Exit(1)
	}

	application.Boot()

	application.Router().Get("/", func(w http.ResponseWriter, req *http.Request) {
		res := gohttp.NewResponse(w)
		svc, err := container.Make[*WelcomeService](application.Container)
		if err != nil {
			res.ServerError(err.Error())
			return
		}
		res.Success(svc.Welcome(gohttp.NewRequest(req).Query("name", "guest")))
	})

	if err := application.Run(); err != nil {
		color.Red("%v", err)
		os.Exit(1)
	}
}
