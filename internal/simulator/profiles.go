package simulator

// Profile describes the climate characteristics of one simulated room
type Profile struct {
	Name              string  `yaml:"name"`
	File              string  `yaml:"file"`
	TempBase          float64 `yaml:"temp_base"`
	TempVariation     float64 `yaml:"temp_variation"`
	HumidityBase      float64 `yaml:"humidity_base"`
	HumidityVariation float64 `yaml:"humidity_variation"`
	LightDayMax       float64 `yaml:"light_day_max"`
	LightNightMin     float64 `yaml:"light_night_min"`
}

// Profiles are the built-in rooms
var Profiles = []Profile{
	{
		Name:              "Living Room",
		File:              "living_room.csv",
		TempBase:          21.5,
		TempVariation:     3.0,
		HumidityBase:      45.0,
		HumidityVariation: 15.0,
		LightDayMax:       850,
		LightNightMin:     50,
	},
	{
		// cooking swings temperature and humidity more than other rooms
		Name:              "Kitchen",
		File:              "kitchen.csv",
		TempBase:          22.0,
		TempVariation:     4.0,
		HumidityBase:      55.0,
		HumidityVariation: 20.0,
		LightDayMax:       900,
		LightNightMin:     30,
	},
	{
		Name:              "Bathroom",
		File:              "bathroom.csv",
		TempBase:          23.0,
		TempVariation:     2.5,
		HumidityBase:      65.0,
		HumidityVariation: 25.0,
		LightDayMax:       700,
		LightNightMin:     20,
	},
	{
		Name:              "Bedroom",
		File:              "bedroom.csv",
		TempBase:          20.0,
		TempVariation:     2.0,
		HumidityBase:      50.0,
		HumidityVariation: 12.0,
		LightDayMax:       600,
		LightNightMin:     10,
	},
}

// ProfileByName finds a built-in profile
func ProfileByName(name string) (Profile, bool) {
	for _, p := range Profiles {
		if p.Name == name {
			return p, true
		}
	}
	return Profile{}, false
}
