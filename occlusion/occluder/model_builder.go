package occluder

// ModelBuilderOption is a functional option for configuring a Model via
// NewModel.
type ModelBuilderOption func(*Model)

// WithTransform is an option builder that sets the model's initial world
// transform (column-major 4x4).
//
// Parameters:
//   - transform: the column-major 4x4 world transform
//
// Returns:
//   - ModelBuilderOption: a function that applies the transform option to a model
func WithTransform(transform [16]float32) ModelBuilderOption {
	return func(m *Model) {
		m.Transform = transform
	}
}
