package registry

// builtin is the shipped catalog. ScalingFactor values are degrees of yaw
// per mouse count at sensitivity 1.
var builtin = []GameProfile{
	{Name: "Apex Legends", ScalingFactor: 0.022, ExternalID: "21566", EnabledForApp: true},
	{Name: "Call of Duty: Modern Warfare III", ScalingFactor: 0.0066, ExternalID: "21626", EnabledForApp: true},
	{Name: "Counter-Strike 2", ScalingFactor: 0.02199999511, ExternalID: "22730", EnabledForApp: true},
	{Name: "Deadlock", ScalingFactor: 0.044, ExternalID: "24482", EnabledForApp: true},
	{Name: "Escape from Tarkov", ScalingFactor: 0.125, ExternalID: "21634", EnabledForApp: true},
	{Name: "Fortnite", ScalingFactor: 0.5555, ExternalID: "21216", EnabledForApp: true},
	{Name: "Halo Infinite", ScalingFactor: 0.0225, ExternalID: "0", EnabledForApp: true},
	{Name: "Marvel Rivals", ScalingFactor: 0.0175, ExternalID: "24890", EnabledForApp: true},
	{Name: "Overwatch 2", ScalingFactor: 0.0066, ExternalID: "10844", EnabledForApp: true},
	{Name: "Paladins", ScalingFactor: 0.009157, ExternalID: "21600", EnabledForApp: false},
	{Name: "Quake Champions", ScalingFactor: 0.022, ExternalID: "21320", EnabledForApp: true},
	{Name: "Rainbow Six Siege", ScalingFactor: 0.00572957795, ExternalID: "10826", EnabledForApp: true},
	{Name: "Rust", ScalingFactor: 0.1125, ExternalID: "10812", EnabledForApp: true},
	{Name: "Team Fortress 2", ScalingFactor: 0.022, ExternalID: "0", EnabledForApp: true},
	{Name: "The Finals", ScalingFactor: 0.001, ExternalID: "23478", EnabledForApp: true},
	{Name: "Valorant", ScalingFactor: 0.07, ExternalID: "21640", EnabledForApp: true},

	{
		Name: "Battlefield 2042", ScalingFactor: 0.0454, ExternalID: "21756", EnabledForApp: true,
		Model: Battlefield{LinearCoefficient: 0.0325, Offset: 0.0025, Multiplier: 1.8},
	},
	{
		Name: "Grand Theft Auto V", ScalingFactor: 0.0235, ExternalID: "5426", EnabledForApp: true,
		Model: GTA5{Constant: 40000, Offset: 0.3},
	},
	{
		Name: "Minecraft", ScalingFactor: 0.15, ExternalID: "8032", EnabledForApp: true,
		Model: Minecraft{LinearCoefficient: 1.2, Offset: 0.6, Multiplier: 1, Constant: 0.2, ScaleFactor: 0.15},
	},
	{
		Name: "PUBG: Battlegrounds", ScalingFactor: 0.002, ExternalID: "10906", EnabledForApp: true,
		Model: PUBG{BaseValue: 114.80, ScaleFactor: 21.769},
	},
	{
		Name: "S.T.A.L.K.E.R. 2: Heart of Chornobyl", ScalingFactor: 0.05, ExternalID: "0", EnabledForApp: true,
		Model: STALKER{LinearCoefficient: 1, Offset: 0.1, Constant: 20},
	},
	{
		Name: "The First Descendant", ScalingFactor: 0.02, ExternalID: "23760", EnabledForApp: true,
		Model: FirstDescendant{Offset: -1, Constant: 100},
	},
}

// Builtin returns a copy of the shipped catalog.
func Builtin() []GameProfile {
	out := make([]GameProfile, len(builtin))
	copy(out, builtin)
	return out
}

// Default builds a registry over the shipped catalog.
func Default() *Registry {
	r, err := New(builtin...)
	if err != nil {
		panic("registry: invalid builtin catalog: " + err.Error())
	}
	return r
}
