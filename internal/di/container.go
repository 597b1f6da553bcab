package di

import (
	"errors"
	"reflect"

	"github.com/goliatone/go-notifiable/internal/assignments"
	"github.com/goliatone/go-notifiable/internal/directory"
	"github.com/goliatone/go-notifiable/internal/notifications"
	"github.com/goliatone/go-notifiable/pkg/activity"
	"github.com/goliatone/go-notifiable/pkg/config"
	"github.com/goliatone/go-notifiable/pkg/interfaces/bus"
	"github.com/goliatone/go-notifiable/pkg/interfaces/logger"
	"github.com/goliatone/go-notifiable/pkg/registry"
	"github.com/goliatone/go-notifiable/pkg/storage"
)

// Options configure the DI container.
type Options struct {
	Config      config.Config
	Storage     storage.Providers
	Descriptors []registry.Descriptor
	// Registry overrides descriptor-based construction when the host already
	// built one (custom separator options, shared instance).
	Registry *registry.Registry
	Source   registry.Source
	Logger   logger.Logger
	Bus      bus.Bus
	Activity activity.Hooks
}

// Container wires the registry, repositories, and services.
type Container struct {
	Config        config.Config
	Storage       storage.Providers
	Registry      *registry.Registry
	Directory     *directory.Service
	Notifications *notifications.Service
	Assignments   *assignments.Service
}

func isZeroConfig(cfg config.Config) bool {
	return reflect.ValueOf(cfg).IsZero()
}

// New constructs the container using the supplied options.
func New(opts Options) (*Container, error) {
	cfg := opts.Config
	if isZeroConfig(cfg) {
		cfg = config.Defaults()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	reg := opts.Registry
	if reg == nil {
		if len(opts.Descriptors) == 0 {
			return nil, errors.New("di: descriptors or a registry are required")
		}
		var err error
		reg, err = registry.New(opts.Descriptors, registry.WithSeparator(cfg.Directory.KeySeparator))
		if err != nil {
			return nil, err
		}
	}

	providers := opts.Storage
	if providers.Entries == nil {
		providers = storage.NewMemoryProviders()
	}

	lgr := opts.Logger
	if lgr == nil {
		lgr = &logger.Nop{}
	}

	b := opts.Bus
	if b == nil || !cfg.Events.IsEnabled() {
		b = &bus.Nop{}
	}

	hooks := opts.Activity
	if !cfg.Activity.IsEnabled() {
		hooks = nil
	}

	directorySvc, err := directory.NewService(directory.Dependencies{
		Registry: reg,
		Entries:  providers.Entries,
		Source:   opts.Source,
		Logger:   lgr,
	})
	if err != nil {
		return nil, err
	}

	notificationSvc, err := notifications.NewService(notifications.Dependencies{
		Notifications: providers.Notifications,
		Assignments:   providers.Assignments,
		Transaction:   providers.Transaction,
		Bus:           b,
		Logger:        lgr,
		Activity:      hooks,
	})
	if err != nil {
		return nil, err
	}

	assignmentSvc, err := assignments.NewService(assignments.Dependencies{
		Directory:     directorySvc,
		Assignments:   providers.Assignments,
		Notifications: providers.Notifications,
		Transaction:   providers.Transaction,
		Bus:           b,
		Logger:        lgr,
		Activity:      hooks,
	})
	if err != nil {
		return nil, err
	}

	return &Container{
		Config:        cfg,
		Storage:       providers,
		Registry:      reg,
		Directory:     directorySvc,
		Notifications: notificationSvc,
		Assignments:   assignmentSvc,
	}, nil
}
