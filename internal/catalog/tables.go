package catalog

import "github.com/rshade/smartcarbon/internal/stage"

// Field keys shared by the CLI flags, HTTP bodies and the TUI.
const (
	KeyMass         = "mass"
	KeyDistance     = "distance"
	KeyQuantity     = "quantity"
	KeyHours        = "hours"
	KeyFuelRate     = "fuel_rate"
	KeyCarbonFactor = "carbon_factor"
)

// RawMaterials feed the production and transportation-to-factory stages.
// Factors are kgCO2 per kg.
func RawMaterials() []Option {
	return []Option{
		{Name: "Aluminium", CarbonFactor: 11.0},
		{Name: "Asphalt", CarbonFactor: 0.1},
		{Name: "Bricks", CarbonFactor: 0.5},
		{Name: "Cement", CarbonFactor: 0.9},
		{Name: "Concrete", CarbonFactor: 0.3},
		{Name: "Glass", CarbonFactor: 0.8},
		{Name: "Plastics", CarbonFactor: 6.0},
		{Name: "Steel", CarbonFactor: 1.8},
		{Name: "Stone", CarbonFactor: 0.4},
		{Name: "Wood", CarbonFactor: 0.2},
	}
}

// SiteMaterials feed the transportation-to-site stage.
func SiteMaterials() []Option {
	return []Option{
		{Name: "AAC blocks", CarbonFactor: 0.6},
		{Name: "Aluminium studs", CarbonFactor: 11},
		{Name: "Cement board", CarbonFactor: 0.7},
		{Name: "Door frame", CarbonFactor: 0.6},
		{Name: "Duct tape", CarbonFactor: 0.3},
		{Name: "Fiberboard", CarbonFactor: 0.6},
		{Name: "Metal siding", CarbonFactor: 2.5},
		{Name: "Resins", CarbonFactor: 7.5},
		{Name: "Stainless steel", CarbonFactor: 4},
		{Name: "Stone wool", CarbonFactor: 3},
	}
}

// ManufacturingEquipment lists fuel consumption in litres per hour.
func ManufacturingEquipment() []Option {
	return []Option{
		{Name: "Bending machine", FuelRate: 7},
		{Name: "Drill press", FuelRate: 2},
		{Name: "Electric furnace", FuelRate: 50},
		{Name: "Extruder", FuelRate: 25},
		{Name: "Forklift", FuelRate: 4},
		{Name: "Generator", FuelRate: 10},
		{Name: "Hydraulic press", FuelRate: 10},
		{Name: "Laser cutter", FuelRate: 8},
		{Name: "Sandblaster", FuelRate: 10},
		{Name: "Welding machine", FuelRate: 15},
	}
}

// ConstructionMachinery lists fuel consumption and carbon factor per machine.
func ConstructionMachinery() []Option {
	return []Option{
		{Name: "Air compressor", FuelRate: 18, CarbonFactor: 1.6},
		{Name: "Bulldozer", FuelRate: 20, CarbonFactor: 1.5},
		{Name: "Concrete mixer", FuelRate: 18, CarbonFactor: 1.6},
		{Name: "Concrete pump", FuelRate: 32, CarbonFactor: 2.3},
		{Name: "Crane", FuelRate: 30, CarbonFactor: 2},
		{Name: "Crusher", FuelRate: 50, CarbonFactor: 2.8},
		{Name: "Floor grinder", FuelRate: 40, CarbonFactor: 2.5},
		{Name: "Power buggy", FuelRate: 15, CarbonFactor: 1.4},
		{Name: "Road roller", FuelRate: 25, CarbonFactor: 1.9},
		{Name: "Rock crusher", FuelRate: 40, CarbonFactor: 2.5},
	}
}

func massField() Field {
	return Field{Key: KeyMass, Label: "Mass Used", Column: "Mass_used", Unit: "kg",
		Placeholder: "Enter mass used (kg)"}
}

func distanceField() Field {
	return Field{Key: KeyDistance, Label: "Distance Traveled", Column: "Distance_traveled", Unit: "km",
		Placeholder: "Enter distance traveled (km)"}
}

func quantityField() Field {
	return Field{Key: KeyQuantity, Label: "Quantity", Column: "Quantity", Placeholder: "Enter quantity"}
}

func hoursField() Field {
	return Field{Key: KeyHours, Label: "Hours of Operation", Column: "Hours_of_operation", Unit: "h",
		Placeholder: "Enter hours of operation"}
}

func fuelField(src Source, fixed float64, unit string) Field {
	return Field{Key: KeyFuelRate, Label: "Fuel Consumption Rate", Column: "Fuel_consumption_rate",
		Unit: unit, Source: src, Fixed: fixed}
}

func factorField(src Source, fixed float64, unit string) Field {
	return Field{Key: KeyCarbonFactor, Label: "Carbon Emission Factor", Column: "Carbon_emission_factor",
		Unit: unit, Source: src, Fixed: fixed}
}

func forms() map[stage.Stage]Form {
	return map[stage.Stage]Form{
		stage.Production: {
			Stage:        stage.Production,
			OptionLabel:  "Raw Material Type",
			OptionColumn: "Raw_material",
			Options:      RawMaterials(),
			Fields: []Field{
				massField(),
				factorField(SourceOptionCarbonFactor, 0, "kgCO2/kg"),
			},
		},
		stage.TransportationToFactory: {
			Stage:        stage.TransportationToFactory,
			OptionLabel:  "Material Type",
			OptionColumn: "Raw_material",
			Options:      RawMaterials(),
			Fields: []Field{
				massField(),
				distanceField(),
				fuelField(SourceFixed, TransportFuelRate, "l/km"),
				factorField(SourceOptionCarbonFactor, 0, "kgCO2/l"),
			},
		},
		stage.Manufacturing: {
			Stage:        stage.Manufacturing,
			OptionLabel:  "Manufacturing Equipment",
			OptionColumn: "Manufacturing_equipment",
			Options:      ManufacturingEquipment(),
			Fields: []Field{
				quantityField(),
				fuelField(SourceOptionFuelRate, 0, "l/h"),
				hoursField(),
				factorField(SourceFixed, ManufacturingCarbonFactor, "kgCO2/l"),
			},
		},
		stage.TransportationToSite: {
			Stage:        stage.TransportationToSite,
			OptionLabel:  "Material Type",
			OptionColumn: "Materials",
			Options:      SiteMaterials(),
			Fields: []Field{
				massField(),
				distanceField(),
				fuelField(SourceFixed, TransportFuelRate, "l/km"),
				factorField(SourceOptionCarbonFactor, 0, "kgCO2/l"),
			},
		},
		stage.Construction: {
			Stage:        stage.Construction,
			OptionLabel:  "Machinery",
			OptionColumn: "Machinery",
			Options:      ConstructionMachinery(),
			Fields: []Field{
				quantityField(),
				fuelField(SourceOptionFuelRate, 0, "l/h"),
				hoursField(),
				factorField(SourceOptionCarbonFactor, 0, "kgCO2/l"),
			},
		},
	}
}
