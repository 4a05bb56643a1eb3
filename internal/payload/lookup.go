package payload

// meterTeros12 names the three values of a METER TEROS 12 soil sensor.
var meterTeros12 = []string{"calibratedCountsVWC", "soilTemp_C", "conductivity"}

// TNCLookup maps a sensor channel to the names of its SDI-12 values for the
// TNC deployments. Channels not listed fall back to field_<n> names.
var TNCLookup = map[string][]string{
	"50": {"pressure", "waterTmp"},
	"51": {
		"solarFluxDensity_W_per_m2", "precip_mm", "lightng_ct",
		"lightngDist_km", "windSpeed_m_per_s", "windDir_deg",
		"maxWindSp_m_per_s", "airTmp_c", "vaporPr_kPa",
		"barometricPr_kPa", "relHumidity_0_1", "humSensorTemp_C",
		"tiltNS_deg", "tiltWE_deg", "compass_unused",
		"windSpeedN_m_per_s", "windSpeedE_m_per_s", "windSpeedMax_per_s",
	},
	"52": {"leafWetness_percent"},
	"53": meterTeros12,
	"54": meterTeros12,
	"55": meterTeros12,
}
