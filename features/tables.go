package features

import (
	"fmt"

	"github.com/wormgearcad/wormgear"
)

// KeywaySize is one DIN 6885 parallel key size.
type KeywaySize struct {
	Width      float64 // key width b
	Height     float64 // key height h
	ShaftDepth float64 // t1, cut into the shaft
	HubDepth   float64 // t2, cut into the hub
}

// din6885 maps half-open bore diameter ranges [min,max) to key sizes.
var din6885 = []struct {
	min, max float64
	size     KeywaySize
}{
	{6, 8, KeywaySize{2, 2, 1.2, 1.0}},
	{8, 10, KeywaySize{3, 3, 1.8, 1.4}},
	{10, 12, KeywaySize{4, 4, 2.5, 1.8}},
	{12, 17, KeywaySize{5, 5, 3.0, 2.3}},
	{17, 22, KeywaySize{6, 6, 3.5, 2.8}},
	{22, 30, KeywaySize{8, 7, 4.0, 3.3}},
	{30, 38, KeywaySize{10, 8, 5.0, 3.3}},
	{38, 44, KeywaySize{12, 8, 5.0, 3.3}},
	{44, 50, KeywaySize{14, 9, 5.5, 3.8}},
	{50, 58, KeywaySize{16, 10, 6.0, 4.3}},
	{58, 65, KeywaySize{18, 11, 7.0, 4.4}},
	{65, 75, KeywaySize{20, 12, 7.5, 4.9}},
	{75, 85, KeywaySize{22, 14, 9.0, 5.4}},
	{85, 95, KeywaySize{25, 14, 9.0, 5.4}},
}

// DIN6885 looks up the standard key size for a bore diameter. Bores outside
// the 6-95mm standard range fail with a *wormgear.ConfigurationError; the
// caller may still supply explicit keyway dimensions.
func DIN6885(bore float64) (KeywaySize, error) {
	for _, row := range din6885 {
		if row.min <= bore && bore < row.max {
			return row.size, nil
		}
	}
	return KeywaySize{}, &wormgear.ConfigurationError{
		Msg: fmt.Sprintf("bore %gmm outside DIN 6885 range [6,95); specify keyway width and depth", bore),
	}
}

// ScrewSize names a metric set screw and its thread diameter.
type ScrewSize struct {
	Name     string
	Diameter float64
}

// setScrews maps half-open bore diameter ranges [min,max) to screw sizes.
var setScrews = []struct {
	min, max float64
	size     ScrewSize
}{
	{2, 6, ScrewSize{"M2.5", 2.5}},
	{6, 10, ScrewSize{"M3", 3.0}},
	{10, 20, ScrewSize{"M4", 4.0}},
	{20, 35, ScrewSize{"M5", 5.0}},
	{35, 60, ScrewSize{"M6", 6.0}},
	{60, 100, ScrewSize{"M8", 8.0}},
}

// SetScrewSize sizes a set screw from the bore diameter. Bores under 2mm
// cannot take any set screw; bores past the table use the largest size.
func SetScrewSize(bore float64) (ScrewSize, error) {
	if bore < 2 {
		return ScrewSize{}, &wormgear.ConfigurationError{
			Msg: fmt.Sprintf("bore %gmm too small for set screws (min 2mm)", bore),
		}
	}
	for _, row := range setScrews {
		if row.min <= bore && bore < row.max {
			return row.size, nil
		}
	}
	return setScrews[len(setScrews)-1].size, nil
}
