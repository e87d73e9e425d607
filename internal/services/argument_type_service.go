package services

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hashicorp/go-multierror"
	lru "github.com/hashicorp/golang-lru/v2"

	"argshell/internal/arguments"
	argcontext "argshell/internal/context"
	"argshell/internal/host"
	"argshell/internal/logger"
	"argshell/internal/metrics"
	"argshell/internal/store"
	"argshell/pkg/argtypes"
)

const resolutionCacheSize = 512

type resolutionKey struct {
	app, suffix string
}

type resolution struct {
	typ    arguments.ArgumentType
	origin arguments.Origin
}

// ArgumentTypeService maps parameter names to argument types within an
// application, builds custom types from configuration and bridges types to
// the host command grammar. Custom types must be registered through the
// service so that cached resolutions stay current.
type ArgumentTypeService struct {
	initialized bool
	ctx         *argcontext.ArgContext
	catalog     *arguments.Catalog
	cache       *lru.Cache[resolutionKey, resolution]
}

// NewArgumentTypeService creates a new ArgumentTypeService instance.
func NewArgumentTypeService() *ArgumentTypeService {
	return &ArgumentTypeService{}
}

// Name returns the service name "argument_types" for registration.
func (s *ArgumentTypeService) Name() string {
	return "argument_types"
}

// Initialize binds the service to the global context and the built-in catalog.
func (s *ArgumentTypeService) Initialize() error {
	cache, err := lru.New[resolutionKey, resolution](resolutionCacheSize)
	if err != nil {
		return fmt.Errorf("resolution cache: %w", err)
	}
	s.ctx = argcontext.GetGlobalContext()
	s.catalog = arguments.Builtins()
	s.cache = cache
	s.initialized = true
	logger.ServiceOperation(s.Name(), "initialize", "builtins", len(s.catalog.All()))
	return nil
}

func (s *ArgumentTypeService) check() error {
	if !s.initialized {
		return fmt.Errorf("argument type service not initialized")
	}
	return nil
}

// Catalog returns the built-in catalog.
func (s *ArgumentTypeService) Catalog() *arguments.Catalog {
	return s.catalog
}

func (s *ArgumentTypeService) resolve(app, param string) (arguments.ArgumentType, arguments.Origin) {
	application := s.ctx.App(app)
	key := resolutionKey{app: application.Name(), suffix: arguments.SuffixOf(param)}
	r, ok := s.cache.Get(key)
	if !ok {
		r.typ, r.origin = s.catalog.ResolveOrigin(param, application)
		s.cache.Add(key, r)
	}
	metrics.RecordResolution(r.origin.String())
	logger.Resolution(key.app, param, r.typ.Suffix(), r.origin.String())
	return r.typ, r.origin
}

// Resolve returns the argument type of param in app. Unknown suffixes fall
// back to the default string type.
func (s *ArgumentTypeService) Resolve(app, param string) (arguments.ArgumentType, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	t, _ := s.resolve(app, param)
	return t, nil
}

// ResolveOrigin is Resolve, also reporting which table answered.
func (s *ArgumentTypeService) ResolveOrigin(app, param string) (arguments.ArgumentType, arguments.Origin, error) {
	if err := s.check(); err != nil {
		return nil, 0, err
	}
	t, origin := s.resolve(app, param)
	return t, origin, nil
}

// ResolveStrict is Resolve without the fallback to the default type.
func (s *ArgumentTypeService) ResolveStrict(app, param string) (arguments.ArgumentType, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	t, origin := s.resolve(app, param)
	if origin == arguments.FromDefault {
		return nil, &argtypes.ConfigurationError{Suffix: arguments.SuffixOf(param), Err: argtypes.ErrUnknownType}
	}
	return t, nil
}

// Build creates a sealed custom type without registering it.
func (s *ArgumentTypeService) Build(suffix string, cfg *argtypes.ConfigMap) (arguments.ArgumentType, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	suffix = strings.ToLower(suffix)
	if suffix == "" || strings.Contains(suffix, "_") {
		return nil, &argtypes.ConfigurationError{Suffix: suffix, Err: argtypes.ErrInvalidSuffix}
	}
	t, err := s.catalog.Build(suffix, cfg)
	metrics.RecordBuild(err == nil)
	return t, err
}

// RegisterCustomTypes builds every definition and registers the ones that
// succeed in app, returning them with normalized suffixes. Failed
// definitions are reported together.
func (s *ArgumentTypeService) RegisterCustomTypes(app string, defs []store.Definition) ([]store.Definition, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	application := s.ctx.App(app)

	var result *multierror.Error
	registered := make([]store.Definition, 0, len(defs))
	for _, def := range defs {
		t, err := s.Build(def.Suffix, def.Config)
		logger.TypeBuild(application.Name(), def.Suffix, err)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		application.RegisterType(t)
		registered = append(registered, store.Definition{Suffix: t.Suffix(), Config: def.Config})
	}
	s.cache.Purge()
	return registered, result.ErrorOrNil()
}

// UnregisterCustomType removes a custom type from app.
func (s *ArgumentTypeService) UnregisterCustomType(app, suffix string) (bool, error) {
	if err := s.check(); err != nil {
		return false, err
	}
	removed := s.ctx.App(app).UnregisterType(strings.ToLower(suffix))
	s.cache.Purge()
	return removed, nil
}

// DropApp removes app with its custom types and commands.
func (s *ArgumentTypeService) DropApp(app string) error {
	if err := s.check(); err != nil {
		return err
	}
	s.ctx.DropApp(app)
	s.cache.Purge()
	return nil
}

// CustomTypes returns the custom types of app ordered by suffix.
func (s *ArgumentTypeService) CustomTypes(app string) ([]arguments.ArgumentType, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	return s.ctx.App(app).Types(), nil
}

// ArgumentNode returns the grammar node for param: the type's parser and,
// when the type draws suggestions from a concrete list, a completion callback.
func (s *ArgumentTypeService) ArgumentNode(app, param string) (host.Node, error) {
	t, err := s.Resolve(app, param)
	if err != nil {
		return host.Node{}, err
	}
	node := host.Node{Name: param, Parser: t.Parser()}
	if t.NeedsMatching() {
		node.Suggest = t.Suggest
	}
	return node, nil
}

// Extract resolves param and extracts its typed value from inv.
func (s *ArgumentTypeService) Extract(app string, inv argtypes.Invocation, param string) (argtypes.Value, error) {
	t, err := s.Resolve(app, param)
	if err != nil {
		return nil, err
	}
	v, err := t.Extract(inv, param)
	if err != nil {
		metrics.RecordParseFailure(t.Suffix())
		logger.Debug("Extraction failed", "app", app, "param", param, "suffix", t.Suffix(), "error", err)
		return nil, err
	}
	return v, nil
}

// Suggest returns the completion candidates of param for the remaining input.
func (s *ArgumentTypeService) Suggest(app, param, remaining string) ([]string, error) {
	t, err := s.Resolve(app, param)
	if err != nil {
		return nil, err
	}
	metrics.RecordSuggestion(t.Suffix())
	return slices.Collect(t.Suggest(remaining)), nil
}

// GetGlobalArgumentTypeService returns the argument type service from the global registry.
func GetGlobalArgumentTypeService() (*ArgumentTypeService, error) {
	return getService[*ArgumentTypeService]("argument_types")
}

func init() {
	if err := GlobalRegistry.RegisterService(NewArgumentTypeService()); err != nil {
		panic(err)
	}
}
