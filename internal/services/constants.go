package services

// Solar farm model constants.
const (
	MWPerAcre        = 0.5
	CapacityFactor   = 0.20
	HoursPerYear     = 8760.0
	MWhPerHomeYear   = 11.0
	SystemLosses     = 0.14
	SolarCapexPerMW  = 1_000_000.0
	OAndMPerMWYear   = 20_000.0
	PPARatePerKWh    = 0.03
	DefaultMinimumMW = 5.0
)

// Data center model constants.
const (
	DefaultWattsPerServer = 500.0
	DefaultPUE            = 1.5
	CoolingLoadMultiplier = 0.4
	ElectricityRatePerKWh = 0.08
	DCCapexPerKW          = 10_000.0
	SqFtPerKW             = 250.0
	ServersPerRack        = 42
	SiteToBuilding        = 3.0
	KWPerParkingSpace     = 100.0
)

// PUE tiers by facility generation.
const (
	PUEExcellent = 1.2
	PUEGood      = 1.5
	PUEAverage   = 1.8
	PUEPoor      = 2.0
)

// Water cooling.
const (
	GPMPer100KW      = 0.5
	GallonsPerAcreFt = 325_851.0
)

const sqFtPerAcre = 43_560.0
