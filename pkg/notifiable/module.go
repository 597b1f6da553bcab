package notifiable

import (
	"github.com/goliatone/go-notifiable/internal/di"
	"github.com/goliatone/go-notifiable/pkg/activity"
	"github.com/goliatone/go-notifiable/pkg/config"
	"github.com/goliatone/go-notifiable/pkg/interfaces/bus"
	"github.com/goliatone/go-notifiable/pkg/interfaces/logger"
	"github.com/goliatone/go-notifiable/pkg/registry"
	"github.com/goliatone/go-notifiable/pkg/storage"
)

// ModuleOptions configure the notifiable module facade.
type ModuleOptions struct {
	Config      config.Config
	Storage     storage.Providers
	Descriptors []registry.Descriptor
	Registry    *registry.Registry
	Source      registry.Source
	Logger      logger.Logger
	Bus         bus.Bus
	Activity    activity.Hooks
}

// Module bundles the container and exposes high-level accessors.
type Module struct {
	container *di.Container
	manager   *Manager
}

// NewModule assembles the registry, repositories, services, and manager.
func NewModule(opts ModuleOptions) (*Module, error) {
	container, err := di.New(di.Options{
		Config:      opts.Config,
		Storage:     opts.Storage,
		Descriptors: opts.Descriptors,
		Registry:    opts.Registry,
		Source:      opts.Source,
		Logger:      opts.Logger,
		Bus:         opts.Bus,
		Activity:    opts.Activity,
	})
	if err != nil {
		return nil, err
	}
	manager := newManager(container.Directory, container.Notifications, container.Assignments, opts.Logger)
	return &Module{container: container, manager: manager}, nil
}

// Manager returns the notification manager facade.
func (m *Module) Manager() *Manager {
	if m == nil || m.container == nil {
		return nil
	}
	return m.manager
}

// Registry returns the notifiable kind registry.
func (m *Module) Registry() *registry.Registry {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Registry
}

// Config returns the effective module configuration.
func (m *Module) Config() config.Config {
	if m == nil || m.container == nil {
		return config.Config{}
	}
	return m.container.Config
}

// Storage exposes the wired repositories for advanced use cases.
func (m *Module) Storage() storage.Providers {
	if m == nil || m.container == nil {
		return storage.Providers{}
	}
	return m.container.Storage
}
