package metrics

import (
	"fmt"
	"sync"

	"github.com/go-viper/mapstructure/v2"
)

// Factory constructs a sink from its raw settings.
type Factory func(conf map[string]any) (MetricsSink, error)

// Registry stores sink factories keyed by type name.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory for the given type name.
func (r *Registry) Register(name string, f Factory) error {
	if f == nil {
		return fmt.Errorf("factory nil for %s", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[name]; ok {
		return fmt.Errorf("factory already registered for %s", name)
	}
	r.factories[name] = f
	return nil
}

// Create instantiates a sink based on its configuration.
func (r *Registry) Create(cfg SinkConfig) (MetricsSink, error) {
	r.mu.RLock()
	f, ok := r.factories[cfg.Type]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown metrics sink type %s", cfg.Type)
	}
	return f(cfg.Conf)
}

// Decode fills out the provided struct from raw settings using json tags.
func Decode(data map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           out,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	return dec.Decode(data)
}

var sinkRegistry = NewRegistry()

// RegisterMetricsSink adds a sink factory to the default registry.
func RegisterMetricsSink(name string, f Factory) error {
	return sinkRegistry.Register(name, f)
}

// NewMetricsSink creates a MetricsSink from the default registry. Several
// configs produce a MultiSink, none a NopSink.
func NewMetricsSink(cfgs []SinkConfig) (MetricsSink, error) {
	if len(cfgs) == 0 {
		return NopSink{}, nil
	}
	if len(cfgs) == 1 {
		return sinkRegistry.Create(cfgs[0])
	}
	sinks := make([]MetricsSink, len(cfgs))
	for i, c := range cfgs {
		s, err := sinkRegistry.Create(c)
		if err != nil {
			return nil, err
		}
		sinks[i] = s
	}
	return NewMultiSink(sinks...), nil
}
