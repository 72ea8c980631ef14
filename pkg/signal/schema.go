package signal

// DefaultSchema is the tree served when no schema file is configured. It is
// a small cut of the usual vehicle signal layout, enough to run the server
// and its examples.
func DefaultSchema() *Metadata {
	return &Metadata{
		Children: map[string]*Metadata{
			"Signal": {
				Children: map[string]*Metadata{
					"Vehicle": {
						Children: map[string]*Metadata{
							"Speed": {
								Type: "Float", Unit: "km/h",
								Description: "Vehicle speed over ground",
							},
							"VIN": {
								Type: "String", ReadOnly: true,
								Description: "Vehicle identification number",
							},
						},
					},
					"Drivetrain": {
						Children: map[string]*Metadata{
							"InternalCombustionEngine": {
								Children: map[string]*Metadata{
									"RPM": {
										Type: "UInt16", Unit: "rpm",
										Description: "Engine speed",
									},
								},
							},
							"FuelSystem": {
								Children: map[string]*Metadata{
									"Level": {
										Type: "UInt8", Unit: "percent",
										Description: "Fuel level",
									},
								},
							},
						},
					},
					"Cabin": {
						Children: map[string]*Metadata{
							"Door": {
								Children: map[string]*Metadata{
									"Count": {Type: "UInt8", ReadOnly: true},
								},
							},
						},
					},
				},
			},
			"Private": {
				Private: true,
				Children: map[string]*Metadata{
					"Vehicle": {
						Children: map[string]*Metadata{
							"BatterySerial": {Type: "String", ReadOnly: true},
						},
					},
				},
			},
		},
	}
}
