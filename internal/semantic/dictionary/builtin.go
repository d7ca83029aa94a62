package dictionary

var builtinGeneric = map[string]string{
	"ZN":     "Zone",
	"ZONE":   "Zone",
	"RM":     "Room",
	"SPC":    "Space",
	"SP":     "Setpoint",
	"STPT":   "Setpoint",
	"SETPT":  "Setpoint",
	"SPT":    "Setpoint",
	"TEMP":   "Temperature",
	"TMP":    "Temperature",
	"SA":     "Supply Air",
	"RA":     "Return Air",
	"OA":     "Outside Air",
	"MA":     "Mixed Air",
	"DA":     "Discharge Air",
	"EA":     "Exhaust Air",
	"SAT":    "Supply Air Temperature",
	"RAT":    "Return Air Temperature",
	"OAT":    "Outside Air Temperature",
	"MAT":    "Mixed Air Temperature",
	"DAT":    "Discharge Air Temperature",
	"CHW":    "Chilled Water",
	"HW":     "Hot Water",
	"CW":     "Condenser Water",
	"DMPR":   "Damper",
	"DPR":    "Damper",
	"DMP":    "Damper",
	"POS":    "Position",
	"CMD":    "Command",
	"STS":    "Status",
	"STAT":   "Status",
	"ST":     "Status",
	"SS":     "Start Stop",
	"FLW":    "Flow",
	"FLOW":   "Flow",
	"CFM":    "Airflow",
	"PRESS":  "Pressure",
	"PRS":    "Pressure",
	"HUM":    "Humidity",
	"RH":     "Relative Humidity",
	"CO2":    "CO2",
	"OCC":    "Occupancy",
	"UNOCC":  "Unoccupied",
	"EFF":    "Effective",
	"HTG":    "Heating",
	"CLG":    "Cooling",
	"VLV":    "Valve",
	"FAN":    "Fan",
	"SF":     "Supply Fan",
	"RF":     "Return Fan",
	"EF":     "Exhaust Fan",
	"PMP":    "Pump",
	"PUMP":   "Pump",
	"SPD":    "Speed",
	"VFD":    "Variable Frequency Drive",
	"ALM":    "Alarm",
	"ALARM":  "Alarm",
	"ENA":    "Enable",
	"EN":     "Enable",
	"KW":     "Power",
	"PWR":    "Power",
	"KWH":    "Energy",
	"STATIC": "Static",
	"STC":    "Static",
	"DIFF":   "Differential",
	"DP":     "Differential Pressure",
	"MIN":    "Minimum",
	"MAX":    "Maximum",
	"AVG":    "Average",
	"OUT":    "Output",
	"FB":     "Feedback",
	"RT":     "Runtime",
	"HI":     "High",
	"LO":     "Low",
	"VAV":    "VAV",
	"AHU":    "AHU",
	"FCU":    "FCU",
	"RTU":    "RTU",
	"BLR":    "Boiler",
	"CHLR":   "Chiller",
	"CH":     "Chiller",
}

var builtinEquipment = map[string]map[string]string{
	"VAV": {
		"T":    "Temperature",
		"F":    "Airflow",
		"FLW":  "Airflow",
		"Q":    "Airflow",
		"RHT":  "Reheat",
		"DMPR": "Damper",
		"BOX":  "Box",
	},
	"AHU": {
		"T":   "Temperature",
		"SSP": "Supply Static Pressure",
		"DSP": "Duct Static Pressure",
		"ECO": "Economizer",
		"PH":  "Preheat",
		"CC":  "Cooling Coil",
		"HC":  "Heating Coil",
	},
	"RTU": {
		"T":   "Temperature",
		"ECO": "Economizer",
		"CMP": "Compressor",
		"STG": "Stage",
	},
	"FCU": {
		"T":   "Temperature",
		"SPD": "Fan Speed",
		"CC":  "Cooling Coil",
		"HC":  "Heating Coil",
	},
	"CHILLER": {
		"T":    "Temperature",
		"LWT":  "Leaving Water Temperature",
		"EWT":  "Entering Water Temperature",
		"CMP":  "Compressor",
		"EVAP": "Evaporator",
		"COND": "Condenser",
	},
	"BOILER": {
		"T":   "Temperature",
		"LWT": "Leaving Water Temperature",
		"EWT": "Entering Water Temperature",
		"FLM": "Flame",
		"BRN": "Burner",
	},
}

var builtinVendor = map[string]map[string]string{
	"JCI": {
		"ZNT":    "Zone Temperature",
		"ZN":     "Zone",
		"SAFLOW": "Supply Airflow",
		"HTG":    "Heating",
		"OCC":    "Occupancy",
	},
	"SIEMENS": {
		"RT":  "Room Temperature",
		"RTS": "Room Temperature Setpoint",
		"AF":  "Airflow",
	},
	"TRANE": {
		"SPC":  "Space",
		"DSCH": "Discharge",
		"ACT":  "Active",
	},
}

type builtinUnitRule struct {
	expansion string
	strength  float64
	stems     []string
}

var builtinUnitRules = map[string]builtinUnitRule{
	UnitClassTemperature: {expansion: "Temperature", stems: []string{"T", "TE", "TMP"}},
	UnitClassAirflow:     {expansion: "Airflow", stems: []string{"F", "FL", "Q", "AF"}},
	UnitClassPressure:    {expansion: "Pressure", stems: []string{"P", "PR", "PS"}},
	UnitClassHumidity:    {expansion: "Humidity", stems: []string{"H", "HU"}},
	UnitClassPower:       {expansion: "Power", stems: []string{"P", "PW"}},
	UnitClassEnergy:      {expansion: "Energy", stems: []string{"E", "EG"}},
	UnitClassCurrent:     {expansion: "Current", stems: []string{"A", "I", "C"}},
	UnitClassVoltage:     {expansion: "Voltage", stems: []string{"V", "VLT"}},
	UnitClassFrequency:   {expansion: "Frequency", stems: []string{"F", "FR", "HZ"}},
	UnitClassCO2:         {expansion: "CO2", stems: []string{"C", "CO"}},
	UnitClassPercent:     {expansion: "Percent", strength: 0.6, stems: []string{"O", "PC", "PCT"}},
}
