package ads

// Sample unit IDs published by the ad network for integration testing.
// They always fill and never generate revenue, which makes them safe
// defaults for the simulator and for staging builds.
var sampleUnits = map[Format]UnitID{
	FormatBanner: {
		Android: "ca-app-pub-3940256099942544/6300978111",
		IOS:     "ca-app-pub-3940256099942544/2934735716",
	},
	FormatInterstitial: {
		Android: "ca-app-pub-3940256099942544/1033173712",
		IOS:     "ca-app-pub-3940256099942544/4411468910",
	},
	FormatRewarded: {
		Android: "ca-app-pub-3940256099942544/5224354917",
		IOS:     "ca-app-pub-3940256099942544/1712485313",
	},
	FormatAppOpen: {
		Android: "ca-app-pub-3940256099942544/9257395921",
		IOS:     "ca-app-pub-3940256099942544/5575463023",
	},
	FormatNative: {
		Android: "ca-app-pub-3940256099942544/2247696110",
		IOS:     "ca-app-pub-3940256099942544/3986624511",
	},
}

// TestUnit returns the network's published sample unit for the format.
// The zero UnitID is returned for unknown formats.
func TestUnit(f Format) UnitID {
	return sampleUnits[f]
}

// TestUnits returns a full format→unit map suitable for Config.Units.
func TestUnits() map[Format]UnitID {
	out := make(map[Format]UnitID, len(sampleUnits))
	for f, u := range sampleUnits {
		out[f] = u
	}
	return out
}
