package registry

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ModuleContext carries the shared resources handed to each module at init.
type ModuleContext struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Router *gin.Engine
}

// Module is a self-registering feature area (catalog, order, payment, admin).
type Module interface {
	// Name returns the module name.
	Name() string

	// Init wires dependencies and registers routes.
	Init(ctx *ModuleContext) error

	// Priority orders initialization (lower runs first). The order module
	// must come up before payment, which depends on its repositories.
	Priority() int
}

var moduleRegistry = make(map[string]Module)

// Register adds a module to the registry; called from module init().
func Register(module Module) {
	moduleRegistry[module.Name()] = module
}

// GetModules returns all registered modules.
func GetModules() map[string]Module {
	return moduleRegistry
}

// InitModules initializes every registered module by ascending priority.
func InitModules(ctx *ModuleContext) error {
	modules := make([]Module, 0, len(moduleRegistry))
	for _, m := range moduleRegistry {
		modules = append(modules, m)
	}

	// Selection sort is fine at this scale.
	for i := 0; i < len(modules); i++ {
		for j := i + 1; j < len(modules); j++ {
			if modules[i].Priority() > modules[j].Priority() {
				modules[i], modules[j] = modules[j], modules[i]
			}
		}
	}

	for _, module := range modules {
		if err := module.Init(ctx); err != nil {
			return err
		}
	}

	return nil
}
