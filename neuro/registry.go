package neuro

import "fmt"

// EncoderFactory creates the rate encoder of a population.
type EncoderFactory func(pop Population) (RateEncoder, error)

// EncoderRegistry keeps one rate encoder per population, creating it the
// first time it is asked for.
type EncoderRegistry struct {
	factory  EncoderFactory
	encoders map[string]RateEncoder
	order    []string
}

// NewEncoderRegistry creates a registry that builds missing encoders with
// factory.
func NewEncoderRegistry(factory EncoderFactory) *EncoderRegistry {
	return &EncoderRegistry{
		factory:  factory,
		encoders: make(map[string]RateEncoder),
	}
}

// Register attaches an existing encoder to a population.
func (r *EncoderRegistry) Register(pop Population, encoder RateEncoder) {
	if _, exists := r.encoders[pop.Label()]; !exists {
		r.order = append(r.order, pop.Label())
	}

	r.encoders[pop.Label()] = encoder
}

// Lookup returns the encoder of a population, if any.
func (r *EncoderRegistry) Lookup(pop Population) (RateEncoder, bool) {
	encoder, ok := r.encoders[pop.Label()]
	return encoder, ok
}

// Resolve returns the encoder of a population, creating it if needed.
func (r *EncoderRegistry) Resolve(pop Population) (RateEncoder, error) {
	if encoder, ok := r.encoders[pop.Label()]; ok {
		return encoder, nil
	}

	if r.factory == nil {
		return nil, fmt.Errorf("neuro: no rate encoder for %q and no factory",
			pop.Label())
	}

	encoder, err := r.factory(pop)
	if err != nil {
		return nil, fmt.Errorf("neuro: creating rate encoder for %q: %w",
			pop.Label(), err)
	}

	r.Register(pop, encoder)

	return encoder, nil
}

// Labels returns the labels of the populations with an encoder, in the
// order they were registered.
func (r *EncoderRegistry) Labels() []string {
	labels := make([]string, len(r.order))
	copy(labels, r.order)
	return labels
}
