package strategy

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"

	"FundPulse/internal/domain/models"
	"FundPulse/internal/domain/service"
)

type factory func(r *Registry, params map[string]any) (service.Evaluator, error)

// Registry maps strategy identifiers to parameter schemas and evaluator
// constructors. Parameters are decoded over struct defaults, per-strategy
// overrides and the caller's map, then validated; out-of-range values are
// rejected, never clamped.
type Registry struct {
	validate  *validator.Validate
	factories map[string]factory
	order     []string

	mu        sync.RWMutex
	overrides map[string]map[string]any
}

// NewRegistry builds a registry with the three built-in strategies.
func NewRegistry() *Registry {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	r := &Registry{
		validate:  v,
		factories: make(map[string]factory),
		overrides: make(map[string]map[string]any),
	}

	r.register(StrategyMACross, func(r *Registry, p map[string]any) (service.Evaluator, error) {
		var cfg MACrossParams
		if err := r.decode(StrategyMACross, &cfg, p); err != nil {
			return nil, err
		}
		return NewMACross(cfg), nil
	})
	r.register(StrategyDynamicDCA, func(r *Registry, p map[string]any) (service.Evaluator, error) {
		var cfg DynamicDCAParams
		if err := r.decode(StrategyDynamicDCA, &cfg, p); err != nil {
			return nil, err
		}
		return NewDynamicDCA(cfg), nil
	})
	r.register(StrategyTrendFollowing, func(r *Registry, p map[string]any) (service.Evaluator, error) {
		var cfg TrendFollowingParams
		if err := r.decode(StrategyTrendFollowing, &cfg, p); err != nil {
			return nil, err
		}
		return NewTrendFollowing(cfg), nil
	})

	return r
}

func (r *Registry) register(id string, f factory) {
	r.factories[id] = f
	r.order = append(r.order, id)
}

// IDs lists registered strategy identifiers in registration order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Resolve builds the evaluator for id with the given parameters.
func (r *Registry) Resolve(id string, params map[string]any) (service.Evaluator, error) {
	f, ok := r.factories[id]
	if !ok {
		return nil, &UnknownStrategyError{StrategyID: id}
	}
	return f(r, params)
}

// Describe documents a registered strategy using its effective defaults.
func (r *Registry) Describe(id string) (*models.StrategyDescription, error) {
	ev, err := r.Resolve(id, nil)
	if err != nil {
		return nil, err
	}
	d := ev.Describe()
	return &d, nil
}

// Defaults returns the effective default parameters for a strategy as a
// JSON-shaped map.
func (r *Registry) Defaults(id string) (map[string]any, error) {
	ev, err := r.Resolve(id, nil)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(ev.Describe().Parameters))
	for name, doc := range ev.Describe().Parameters {
		out[name] = doc.Default
	}
	return out, nil
}

// SetDefaults installs per-strategy parameter overrides after validating
// them against the strategy's schema.
func (r *Registry) SetDefaults(id string, params map[string]any) error {
	f, ok := r.factories[id]
	if !ok {
		return &UnknownStrategyError{StrategyID: id}
	}
	// Probe with the candidate overrides before adopting them.
	r.mu.Lock()
	prev, had := r.overrides[id]
	r.overrides[id] = params
	r.mu.Unlock()

	if _, err := f(r, nil); err != nil {
		r.mu.Lock()
		if had {
			r.overrides[id] = prev
		} else {
			delete(r.overrides, id)
		}
		r.mu.Unlock()
		return err
	}
	return nil
}

// decode populates dst from struct-tag defaults, stored overrides and the
// caller's parameter map, then validates it.
func (r *Registry) decode(id string, dst any, params map[string]any) error {
	if err := defaults.Set(dst); err != nil {
		return &InvalidParameterError{StrategyID: id, Reason: err.Error()}
	}

	r.mu.RLock()
	override := r.overrides[id]
	r.mu.RUnlock()

	for _, m := range []map[string]any{override, params} {
		if len(m) == 0 {
			continue
		}
		if err := overlay(dst, m); err != nil {
			return invalidFromDecode(id, err)
		}
	}

	if err := r.validate.Struct(dst); err != nil {
		return invalidFromValidator(id, err)
	}
	return nil
}

// overlay merges a parameter map onto dst; keys absent from the schema or
// of the wrong type are rejected.
func overlay(dst any, m map[string]any) error {
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func invalidFromDecode(id string, err error) *InvalidParameterError {
	var te *json.UnmarshalTypeError
	if errors.As(err, &te) {
		return &InvalidParameterError{
			StrategyID: id,
			Field:      te.Field,
			Reason:     fmt.Sprintf("expected %s, got %s", te.Type, te.Value),
		}
	}
	msg := err.Error()
	if name, ok := strings.CutPrefix(msg, `json: unknown field `); ok {
		return &InvalidParameterError{
			StrategyID: id,
			Field:      strings.Trim(name, `"`),
			Reason:     "not a parameter of this strategy",
		}
	}
	return &InvalidParameterError{StrategyID: id, Reason: msg}
}

func invalidFromValidator(id string, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &InvalidParameterError{StrategyID: id, Reason: err.Error()}
	}
	fe := verrs[0]
	return &InvalidParameterError{
		StrategyID: id,
		Field:      fe.Field(),
		Reason:     validationReason(fe),
	}
}

func validationReason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lt":
		return "must be less than " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "gtfield":
		return "must be greater than " + snakeCase(fe.Param())
	case "ltfield":
		return "must be less than " + snakeCase(fe.Param())
	default:
		return "failed validation: " + fe.Tag()
	}
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			prevLower := i > 0 && s[i-1] >= 'a' && s[i-1] <= 'z'
			nextLower := i+1 < len(s) && s[i+1] >= 'a' && s[i+1] <= 'z'
			if i > 0 && (prevLower || nextLower) {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
