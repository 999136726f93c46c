package ads

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatValid(t *testing.T) {
	for _, f := range Formats() {
		assert.True(t, f.Valid(), "format %s should be valid", f)
	}
	assert.False(t, Format("popunder").Valid())
	assert.False(t, Format("").Valid())
}

func TestUnitIDFor(t *testing.T) {
	u := UnitID{Android: "unit-a", IOS: "unit-i"}
	assert.Equal(t, "unit-a", u.For(PlatformAndroid))
	assert.Equal(t, "unit-i", u.For(PlatformIOS))
	assert.Equal(t, "", u.For(Platform("windows")))
	assert.False(t, u.IsZero())
	assert.True(t, UnitID{}.IsZero())
}

func TestTestUnitsCoverEveryFormat(t *testing.T) {
	units := TestUnits()
	require.Len(t, units, len(Formats()))
	for _, f := range Formats() {
		u := units[f]
		assert.NotEmpty(t, u.Android, "android sample unit for %s", f)
		assert.NotEmpty(t, u.IOS, "ios sample unit for %s", f)
	}

	// The returned map is a copy; mutating it must not leak back.
	units[FormatBanner] = UnitID{}
	assert.False(t, TestUnit(FormatBanner).IsZero())
}
