package container_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/km-arc/go-container/framework/container"
)

// ── fixtures ──────────────────────────────────────────────────────────────────

type UserRepository interface {
	Find(id int) string
}

type memoryRepository struct{}

func (memoryRepository) Find(int) string { return "alice" }

type Mailer struct{ From string }

type UserService struct {
	Repo   UserRepository
	Mailer *Mailer
}

func NewUserService(repo UserRepository, mailer *Mailer) *UserService {
	return &UserService{Repo: repo, Mailer: mailer}
}

type Controller struct{ Users *UserService }

func NewController(users *UserService) *Controller { return &Controller{Users: users} }

type DSNClient struct{ DSN string }

func NewDSNClient(dsn string) *DSNClient { return &DSNClient{DSN: dsn} }

type Unreachable struct{}

func NewUnreachable() (*Unreachable, error) { return nil, errors.New("dial tcp: refused") }

type Settings struct{ Debug bool }

// ── Type keys ─────────────────────────────────────────────────────────────────

func TestKeyOf(t *testing.T) {
	const pkg = "github.com/km-arc/go-container/framework/container_test."

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"pointer to struct", container.TypeKey(&Mailer{}), pkg + "Mailer"},
		{"struct value", container.TypeKey(Mailer{}), pkg + "Mailer"},
		{"interface pointer", container.TypeKey((*UserRepository)(nil)), pkg + "UserRepository"},
		{"builtin", container.KeyOf(reflect.TypeOf("")), "string"},
		{"unnamed", container.KeyOf(reflect.TypeOf([]int{})), "[]int"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

// ── ReflectIntrospector ───────────────────────────────────────────────────────

func TestReflectIntrospector_Register(t *testing.T) {
	ri := container.NewReflectIntrospector()

	repoID := ri.MustRegister((*UserRepository)(nil))
	mailerID := ri.MustRegister(&Mailer{})
	svcID := ri.MustRegister(NewUserService)
	clientID := ri.MustRegister(NewDSNClient)

	if ri.IsInstantiable(repoID) {
		t.Error("interfaces must not be instantiable")
	}
	if !ri.Known(repoID) {
		t.Error("registered interface should be known")
	}
	if !ri.IsInstantiable(mailerID) || !ri.IsInstantiable(svcID) {
		t.Error("struct and constructor registrations should be instantiable")
	}
	if ri.IsInstantiable("nope") {
		t.Error("unregistered ids are not instantiable")
	}

	params, err := ri.ConstructorParameterTypes(svcID)
	if err != nil {
		t.Fatalf("ConstructorParameterTypes: %v", err)
	}
	if len(params) != 2 || params[0] != repoID || params[1] != mailerID {
		t.Errorf("params: got %v, want [%s %s]", params, repoID, mailerID)
	}

	params, _ = ri.ConstructorParameterTypes(clientID)
	if len(params) != 1 || params[0] != "" {
		t.Errorf("scalar param: got %v, want [\"\"]", params)
	}

	params, _ = ri.ConstructorParameterTypes(mailerID)
	if len(params) != 0 {
		t.Errorf("no constructor: got %v, want no params", params)
	}
}

func TestReflectIntrospector_RegisterRejects(t *testing.T) {
	ri := container.NewReflectIntrospector()

	tests := []struct {
		name string
		v    any
	}{
		{"nil", nil},
		{"scalar", 42},
		{"no return", func() {}},
		{"only error", func() error { return nil }},
		{"bad second return", func() (*Mailer, int) { return nil, 0 }},
		{"variadic", func(...int) *Mailer { return nil }},
		{"nil func", (func() *Mailer)(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ri.Register(tt.v); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestReflectIntrospector_Instantiate(t *testing.T) {
	ri := container.NewReflectIntrospector()
	ptrID := ri.MustRegister(&Mailer{})
	valID := ri.MustRegister(Settings{})
	failID := ri.MustRegister(NewUnreachable)

	got, err := ri.Instantiate(ptrID, nil)
	if _, ok := got.(*Mailer); err != nil || !ok {
		t.Errorf("pointer registration: got (%T, %v), want *Mailer", got, err)
	}

	got, err = ri.Instantiate(valID, nil)
	if _, ok := got.(Settings); err != nil || !ok {
		t.Errorf("value registration: got (%T, %v), want Settings", got, err)
	}

	if _, err := ri.Instantiate(failID, nil); err == nil {
		t.Error("constructor error should be returned")
	}

	svcID := ri.MustRegister(NewUserService)
	if _, err := ri.Instantiate(svcID, []any{"not a repo", &Mailer{}}); err == nil {
		t.Error("unassignable argument should be rejected")
	}
	if _, err := ri.Instantiate(svcID, []any{&Mailer{}}); err == nil {
		t.Error("wrong argument count should be rejected")
	}
}

// ── Autowiring through reflection ─────────────────────────────────────────────

func newAppContainer(t *testing.T) *container.Container {
	t.Helper()
	c := container.New()
	for _, v := range []any{(*UserRepository)(nil), &Mailer{}, NewUserService, NewController} {
		if _, err := c.RegisterType(v); err != nil {
			t.Fatalf("RegisterType(%T): %v", v, err)
		}
	}
	return c
}

func TestReflectAutowire_EndToEnd(t *testing.T) {
	c := newAppContainer(t)
	repo := memoryRepository{}
	c.Share(container.TypeKey((*UserRepository)(nil)), func(*container.Container) any { return repo })

	ctrl, err := container.Make[*Controller](c)
	if err != nil {
		t.Fatalf("Make: %v", err)
	}
	if ctrl.Users == nil || ctrl.Users.Mailer == nil {
		t.Fatal("dependencies were not injected")
	}
	if ctrl.Users.Repo.Find(1) != "alice" {
		t.Error("repository should be the explicitly bound one")
	}
}

func TestReflectAutowire_InterfaceWithoutBinding(t *testing.T) {
	c := newAppContainer(t)

	_, err := container.Make[*Controller](c)

	var nf *container.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("got %v, want *NotFoundError", err)
	}
	if want := container.TypeKey(&Controller{}); nf.ID != want {
		t.Errorf("ID: got %q, want %q", nf.ID, want)
	}
}

func TestReflectAutowire_ScalarParameter(t *testing.T) {
	c := container.New()
	id, _ := c.RegisterType(NewDSNClient)

	if _, err := c.Get(id); !errors.Is(err, container.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}

	// An explicit binding is the way to supply scalars.
	c.Set(id, func(*container.Container) any { return NewDSNClient("postgres://localhost") })
	client, err := container.Make[*DSNClient](c)
	if err != nil || client.DSN != "postgres://localhost" {
		t.Errorf("got (%v, %v), want the bound client", client, err)
	}
}

func TestContainer_RegisterTypeNeedsReflectIntrospector(t *testing.T) {
	c := container.New(container.WithIntrospector(newFakeIntrospector(nil)))
	if _, err := c.RegisterType(&Mailer{}); err == nil {
		t.Error("expected an error for a non-reflect introspector")
	}
}
