package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/Tron16/SolarScheduler/internal/domain"
	"github.com/Tron16/SolarScheduler/internal/port"
)

// featureCatalog lists every input the installation-time model accepts
// from users, keyed by the model's wire names. Categorical values are
// submitted as the 1-based index into the option list. Defaults are the
// fill values the model was trained with; the upstream API applies the
// same defaults for any feature omitted entirely.
var featureCatalog = []domain.Feature{
	{Name: "Drive Time", Kind: domain.FeatureNumeric, Default: 26.32},
	{Name: "Tilt", Kind: domain.FeatureNumeric, Default: 25.59},
	{Name: "Azimuth", Kind: domain.FeatureNumeric, Default: 176.19},
	{Name: "Panel QTY", Kind: domain.FeatureNumeric, Default: 21.37},
	{Name: "System Rating (kW DC)", Kind: domain.FeatureNumeric, Default: 8.56},
	{Name: "Inverter Manufacturer", Kind: domain.FeatureCategorical, Default: 1,
		Options: []string{"SolarEdge", "Enphase", "SMA", "GoodWe"}},
	{Name: "Array Type", Kind: domain.FeatureCategorical, Default: 1,
		Options: []string{"Roof Mount", "Ground Mount"}},
	{Name: "Squirrel Screen", Kind: domain.FeatureCategorical, Default: 1,
		Options: []string{"Yes", "No"}},
	{Name: "Consumption Monitoring", Kind: domain.FeatureCategorical, Default: 0,
		Options: []string{"Yes", "No"}},
	{Name: "Truss / Rafter", Kind: domain.FeatureCategorical, Default: 1,
		Options: []string{"Truss", "Rafter"}},
	{Name: "Reinforcements", Kind: domain.FeatureCategorical, Default: 0,
		Options: []string{"Yes", "No"}},
	{Name: "# of reinforcement", Kind: domain.FeatureNumeric, Default: 1.49},
	{Name: "Rough Electrical Inspection", Kind: domain.FeatureCategorical, Default: 0,
		Options: []string{"Yes", "No"}},
	{Name: "Interconnection Type", Kind: domain.FeatureCategorical, Default: 1,
		Options: []string{"A1", "A3", "C2", "B2", "A2", "C*", "C3", "C1", "B*", "A*", "B1", "A4"}},
	{Name: "Module Length", Kind: domain.FeatureNumeric, Default: 72.42},
	{Name: "Module Width", Kind: domain.FeatureNumeric, Default: 41.12},
	{Name: "Module Weight", Kind: domain.FeatureNumeric, Default: 46.55},
	{Name: "# of Arrays", Kind: domain.FeatureNumeric, Default: 1.79},
	{Name: "# of Circuits", Kind: domain.FeatureNumeric, Default: 1},
	{Name: "Roof Type", Kind: domain.FeatureCategorical, Default: 1,
		Options: []string{"Asphalt Shingles", "Standing Seam Metal Roof", "Ag Metal", "EPDM (Flat Roof)", "Ground Mount", "Metal Shingles"}},
	{Name: "Attachment Type", Kind: domain.FeatureCategorical, Default: 1,
		Options: []string{"Flashfoot 2", "Unknown", "S-5!", "Ejot", "Flashloc RM", "Ground Mount", "Metal Shingle Attachments", "RT Mini", "Flashview", "Hugs"}},
	{Name: "Portrait / Landscape", Kind: domain.FeatureCategorical, Default: 1,
		Options: []string{"Portrait", "Both", "Landscape"}},
	{Name: "# of Stories", Kind: domain.FeatureNumeric, Default: 1.38},
	{Name: "Install Season", Kind: domain.FeatureCategorical, Default: 2,
		Options: []string{"Spring", "Summer", "Fall", "Winter"}},
	{Name: "Total Direct Time for Hourly Employees (Including Drive Time)", Kind: domain.FeatureNumeric, Default: 46.04},
	{Name: "Total # of Days on Site", Kind: domain.FeatureNumeric, Default: 1.96},
	{Name: "Total # Hourly Empoyees on Site", Kind: domain.FeatureNumeric, Default: 3.60},
	{Name: "Estimated # of Salaried Employees on Site", Kind: domain.FeatureNumeric, Default: 0.88},
	{Name: "Estimated Salary Hours", Kind: domain.FeatureNumeric, Default: 12.38},
	{Name: "Estimated Total # of People on Site", Kind: domain.FeatureNumeric, Default: 4.48},
}

// PredictionService validates and encodes prediction inputs, calls the
// external model, and records history and training submissions.
type PredictionService struct {
	predictor port.Predictor
	store     port.PredictionStore
	byName    map[string]domain.Feature
}

// NewPredictionService creates a prediction service.
func NewPredictionService(predictor port.Predictor, store port.PredictionStore) *PredictionService {
	byName := make(map[string]domain.Feature, len(featureCatalog))
	for _, f := range featureCatalog {
		byName[f.Name] = f
	}
	return &PredictionService{predictor: predictor, store: store, byName: byName}
}

// Features returns the feature catalog in stable order.
func (s *PredictionService) Features() []domain.Feature {
	out := make([]domain.Feature, len(featureCatalog))
	copy(out, featureCatalog)
	return out
}

// Encode converts raw string inputs into the numeric feature map the
// model accepts: categorical values become the 1-based index into the
// feature's option list, numeric values parse as floats. Unknown names
// and unparseable values are rejected before anything leaves the process.
func (s *PredictionService) Encode(inputs map[string]string) (map[string]float64, error) {
	features := make(map[string]float64, len(inputs))
	for name, raw := range inputs {
		feature, ok := s.byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", port.ErrUnknownFeature, name)
		}

		switch feature.Kind {
		case domain.FeatureCategorical:
			idx := -1
			for i, opt := range feature.Options {
				if opt == raw {
					idx = i + 1
					break
				}
			}
			if idx < 0 {
				return nil, fmt.Errorf("%w: %q is not an option for %q", port.ErrInvalidFeature, raw, name)
			}
			features[name] = float64(idx)
		default:
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %q is not numeric for %q", port.ErrInvalidFeature, raw, name)
			}
			features[name] = v
		}
	}
	return features, nil
}

// Predict encodes the inputs, calls the model, and stores the result in
// the caller's history. At least one input is required. Local state is
// only written after the upstream call succeeds.
func (s *PredictionService) Predict(ctx context.Context, userID string, inputs map[string]string) (*domain.Prediction, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: at least one feature is required", port.ErrInvalidFeature)
	}

	features, err := s.Encode(inputs)
	if err != nil {
		return nil, err
	}

	hours, err := s.predictor.Predict(ctx, features)
	if err != nil {
		return nil, err
	}

	pred, err := s.store.SavePrediction(ctx, &domain.Prediction{
		UserID:         userID,
		Inputs:         inputs,
		Features:       features,
		PredictedHours: hours,
	})
	if err != nil {
		// The prediction itself succeeded; history is best-effort.
		slog.Error("failed to record prediction", "user_id", userID, "error", err)
		return &domain.Prediction{
			UserID:         userID,
			Inputs:         inputs,
			Features:       features,
			PredictedHours: hours,
		}, nil
	}
	return pred, nil
}

// History returns the caller's stored predictions, newest first.
func (s *PredictionService) History(ctx context.Context, userID string) ([]domain.Prediction, error) {
	return s.store.ListPredictionsByUser(ctx, userID)
}

// SubmitTraining validates and records a completed installation for
// retraining. Inputs keep their raw form so the retraining pipeline can
// re-encode against a future catalog.
func (s *PredictionService) SubmitTraining(ctx context.Context, userID string, inputs map[string]string, actualInstallTime float64) (*domain.TrainingSample, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: at least one feature is required", port.ErrInvalidFeature)
	}
	if actualInstallTime <= 0 {
		return nil, fmt.Errorf("%w: actual install time must be positive", port.ErrInvalidFeature)
	}
	if _, err := s.Encode(inputs); err != nil {
		return nil, err
	}

	return s.store.SaveTrainingSample(ctx, &domain.TrainingSample{
		UserID:            userID,
		Inputs:            inputs,
		ActualInstallTime: actualInstallTime,
	})
}
