// Package ads holds the shared vocabulary of the engine: ad formats,
// target platforms, and per-platform unit identifiers. It depends on
// nothing else in the module so every layer can speak it.
package ads

// Format identifies one of the five supported ad formats. Each format is
// served by its own slot controller with format-specific show/discard rules.
type Format string

const (
	FormatBanner       Format = "banner"
	FormatInterstitial Format = "interstitial"
	FormatRewarded     Format = "rewarded"
	FormatAppOpen      Format = "app_open"
	FormatNative       Format = "native"
)

// Formats lists every supported format in a stable order.
func Formats() []Format {
	return []Format{
		FormatBanner,
		FormatInterstitial,
		FormatRewarded,
		FormatAppOpen,
		FormatNative,
	}
}

// Valid reports whether the format is one of the supported enum values.
func (f Format) Valid() bool {
	switch f {
	case FormatBanner, FormatInterstitial, FormatRewarded, FormatAppOpen, FormatNative:
		return true
	}
	return false
}

func (f Format) String() string { return string(f) }

// Platform selects which unit-ID variant a host application uses. Ad
// networks issue distinct unit identifiers per platform, so configuration
// carries both and the engine picks one at construction time.
type Platform string

const (
	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"
)

// Valid reports whether the platform is one of the supported enum values.
func (p Platform) Valid() bool {
	return p == PlatformAndroid || p == PlatformIOS
}

func (p Platform) String() string { return string(p) }

// UnitID carries the two platform variants of one ad unit identifier.
type UnitID struct {
	Android string
	IOS     string
}

// For returns the identifier for the given platform, empty when the variant
// is not configured.
func (u UnitID) For(p Platform) string {
	switch p {
	case PlatformAndroid:
		return u.Android
	case PlatformIOS:
		return u.IOS
	}
	return ""
}

// IsZero reports whether neither platform variant is configured.
func (u UnitID) IsZero() bool {
	return u.Android == "" && u.IOS == ""
}
