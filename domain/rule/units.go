package rule

// unitScale places a unit in a dimension with a fixed scale to that
// dimension's base unit. convertUnit multiplies by from.scale/to.scale;
// pairs across dimensions are unsupported and no-op at run time.
type unitScale struct {
	dim   string
	scale float64
}

var unitScales = map[string]unitScale{
	// length, base meters
	"mm": {"length", 0.001},
	"cm": {"length", 0.01},
	"m":  {"length", 1},
	"km": {"length", 1000},
	"in": {"length", 0.0254},
	"ft": {"length", 0.3048},

	// mass, base grams
	"mg": {"mass", 0.001},
	"g":  {"mass", 1},
	"kg": {"mass", 1000},
	"lb": {"mass", 453.59237},
	"oz": {"mass", 28.349523125},

	// time, base days; years use the Julian year of 365.25 days,
	// matching how participant ages in days are reported in years
	"seconds": {"time", 1.0 / 86400},
	"minutes": {"time", 1.0 / 1440},
	"hours":   {"time", 1.0 / 24},
	"days":    {"time", 1},
	"weeks":   {"time", 7},
	"years":   {"time", 365.25},
}

func conversionFactor(from, to string) (float64, bool) {
	f, ok := unitScales[from]
	if !ok {
		return 0, false
	}
	t, ok := unitScales[to]
	if !ok || f.dim != t.dim {
		return 0, false
	}
	return f.scale / t.scale, true
}
