package config

type Config struct {
	InputPath    string
	OutputDir    string
	Epsilon      float64
	Workers      int
	Preview      bool
	Verify       bool
	ShowStats    bool
	BuildVersion string
}
