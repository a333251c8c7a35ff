package domain

import "time"

// FeatureKind distinguishes free-form numeric inputs from closed option lists.
type FeatureKind string

const (
	FeatureNumeric     FeatureKind = "numeric"
	FeatureCategorical FeatureKind = "categorical"
)

// Feature describes one input of the installation-time model: its wire
// name, kind, the ordered option list for categorical features (the
// submitted value is the 1-based index into this list), and the default
// used when the caller omits it.
type Feature struct {
	Name    string      `json:"name"`
	Kind    FeatureKind `json:"kind"`
	Options []string    `json:"options,omitempty"`
	Default float64     `json:"default"`
}

// Prediction is a stored record of one issued prediction.
type Prediction struct {
	ID             string             `json:"id"              db:"id"`
	UserID         string             `json:"user_id"         db:"user_id"`
	Inputs         map[string]string  `json:"inputs"          db:"inputs"`
	Features       map[string]float64 `json:"features"        db:"features"`
	PredictedHours float64            `json:"predicted_hours" db:"predicted_hours"`
	CreatedAt      time.Time          `json:"created_at"      db:"created_at"`
}

// TrainingSample is a completed installation submitted for model retraining:
// the inputs that described the job plus the measured install time.
type TrainingSample struct {
	ID                string            `json:"id"                  db:"id"`
	UserID            string            `json:"user_id"             db:"user_id"`
	Inputs            map[string]string `json:"inputs"              db:"inputs"`
	ActualInstallTime float64           `json:"actual_install_time" db:"actual_install_time"`
	CreatedAt         time.Time         `json:"created_at"          db:"created_at"`
}
