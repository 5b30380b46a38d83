package services

import (
	"strings"

	"site-intel-service/internal/domain"
)

// Agriculture Freedom Zone scoring weights and thresholds.
const (
	AFZWeightMarginalLand   = 30
	AFZWeightBrownfield     = 35
	AFZWeightArid           = 25
	AFZWeightGridAccess     = 30
	AFZWeightProximityBonus = 10
	AFZMaxScore             = 100

	AFZAridRainfallInches = 20.0
	AFZGridAccessMiles    = 5.0
	AFZProximityMiles     = 1.0
	AFZDefaultMinScore    = 30

	AFZDefaultRainfallInches = 30.0
	AFZDefaultGridMiles      = 10.0
)

const (
	CriterionMarginalLand = "Marginal Land"
	CriterionBrownfield   = "Brownfield Site"
	CriterionArid         = "Arid Region"
	CriterionGridAccess   = "Grid Access"
)

// AFZParcel describes the land characteristics scored by the classifier.
// Soil quality is one of marginal, moderate or prime. Unset rainfall and
// grid distances fall back to the AFZDefault values.
type AFZParcel struct {
	ID                       string             `json:"id"`
	Name                     string             `json:"name" validate:"required"`
	Acres                    float64            `json:"acres" validate:"gte=0"`
	Coordinate               *domain.Coordinate `json:"coordinate,omitempty"`
	SoilQuality              string             `json:"soilQuality" validate:"omitempty,oneof=marginal moderate prime"`
	Brownfield               bool               `json:"brownfield"`
	AnnualRainfallInches     *float64           `json:"annualRainfallInches,omitempty" validate:"omitempty,gte=0"`
	NearestSubstationMiles   *float64           `json:"nearestSubstationMiles,omitempty" validate:"omitempty,gte=0"`
	NearestTransmissionMiles *float64           `json:"nearestTransmissionMiles,omitempty" validate:"omitempty,gte=0"`
}

// AFZClassification is the scored outcome for one parcel.
type AFZClassification struct {
	Parcel     AFZParcel `json:"parcel"`
	Score      int       `json:"score"`
	Criteria   []string  `json:"criteria"`
	Arid       bool      `json:"arid"`
	GridAccess bool      `json:"gridAccess"`
	Eligible   bool      `json:"eligible"`
	MinScore   int       `json:"minScore"`
}

// AFZClassifier scores parcels for AFZ designation.
type AFZClassifier struct {
	MinScore int
}

func NewAFZClassifier() *AFZClassifier {
	return &AFZClassifier{MinScore: AFZDefaultMinScore}
}

func (c *AFZClassifier) Classify(p AFZParcel) (AFZClassification, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.SoilQuality = strings.ToLower(strings.TrimSpace(p.SoilQuality))
	if p.SoilQuality == "" {
		p.SoilQuality = "moderate"
	}
	rainfall := valueOr(p.AnnualRainfallInches, AFZDefaultRainfallInches)
	substation := valueOr(p.NearestSubstationMiles, AFZDefaultGridMiles)
	transmission := valueOr(p.NearestTransmissionMiles, AFZDefaultGridMiles)
	if err := requireFinite("parcel", p.Acres, rainfall, substation, transmission); err != nil {
		return AFZClassification{}, err
	}
	if err := validateStruct(p); err != nil {
		return AFZClassification{}, err
	}
	if p.Coordinate != nil {
		if err := p.Coordinate.Validate(); err != nil {
			return AFZClassification{}, err
		}
	}

	p.AnnualRainfallInches = &rainfall
	p.NearestSubstationMiles = &substation
	p.NearestTransmissionMiles = &transmission

	out := AFZClassification{Parcel: p, Criteria: []string{}, MinScore: c.minScore()}
	score := 0

	if p.SoilQuality == "marginal" {
		out.Criteria = append(out.Criteria, CriterionMarginalLand)
		score += AFZWeightMarginalLand
	}
	if p.Brownfield {
		out.Criteria = append(out.Criteria, CriterionBrownfield)
		score += AFZWeightBrownfield
	}
	if rainfall < AFZAridRainfallInches {
		out.Arid = true
		out.Criteria = append(out.Criteria, CriterionArid)
		score += AFZWeightArid
	}
	if substation <= AFZGridAccessMiles || transmission <= AFZGridAccessMiles {
		out.GridAccess = true
		out.Criteria = append(out.Criteria, CriterionGridAccess)
		score += AFZWeightGridAccess
	}
	if substation <= AFZProximityMiles || transmission <= AFZProximityMiles {
		score += AFZWeightProximityBonus
	}

	out.Score = min(score, AFZMaxScore)
	out.Eligible = out.Score >= out.MinScore
	return out, nil
}

func (c *AFZClassifier) minScore() int {
	if c.MinScore <= 0 {
		return AFZDefaultMinScore
	}
	return c.MinScore
}

func valueOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}
