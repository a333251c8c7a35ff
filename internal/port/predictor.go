package port

import "context"

// Predictor abstracts the external installation-time model API.
// Implementations accept the fully encoded numeric feature map and return
// the predicted installation time in hours.
type Predictor interface {
	Predict(ctx context.Context, features map[string]float64) (float64, error)
}
