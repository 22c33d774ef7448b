package visit

import "fmt"

// GuideStar carries the raw pointing fields of one FGSMAIN guide
// statement, ready for an external attitude computation. No coordinate
// transforms happen here.
type GuideStar struct {
	// GSA is the gsa code of the guide statement.
	GSA string

	// Detector is the guider detector name, e.g. "GUIDER1".
	Detector string

	// XSci and YSci are the guide star pixel coordinates (GSXSCI,
	// GSYSCI).
	XSci float64
	YSci float64

	// RA, Dec, and RollSci are the guide star sky position and roll
	// (GSRA, GSDEC, GSROLLSCI) in degrees.
	RA      float64
	Dec     float64
	RollSci float64
}

// GuideStars extracts the pointing fields of every FGSMAIN guide
// statement, in file order. A guide statement may omit GSRA/GSDEC when a
// previous one already declared them; the declared values carry forward.
// A guide statement missing any other pointing field is an error.
func (v *Visit) GuideStars() ([]GuideStar, error) {
	var (
		stars   []GuideStar
		lastRA  float64
		lastDec float64
		haveSky bool
	)
	for _, a := range v.Activities {
		if a.Variant != VariantGuide {
			continue
		}
		if script, _ := a.Script(); script != "FGSMAIN" {
			continue
		}

		gs := GuideStar{GSA: a.GSA()}
		var err error
		if gs.Detector, err = a.Fields.Text("DETECTOR"); err != nil {
			return nil, fmt.Errorf("guide %s: %w", a.GSA(), err)
		}
		if gs.XSci, err = a.Fields.Float("GSXSCI"); err != nil {
			return nil, fmt.Errorf("guide %s: %w", a.GSA(), err)
		}
		if gs.YSci, err = a.Fields.Float("GSYSCI"); err != nil {
			return nil, fmt.Errorf("guide %s: %w", a.GSA(), err)
		}
		if gs.RollSci, err = a.Fields.Float("GSROLLSCI"); err != nil {
			return nil, fmt.Errorf("guide %s: %w", a.GSA(), err)
		}

		ra, raErr := a.Fields.Float("GSRA")
		dec, decErr := a.Fields.Float("GSDEC")
		switch {
		case raErr == nil && decErr == nil:
			lastRA, lastDec = ra, dec
			haveSky = true
		case !haveSky:
			return nil, fmt.Errorf("guide %s declares no GSRA/GSDEC and none seen earlier", a.GSA())
		}
		gs.RA, gs.Dec = lastRA, lastDec

		stars = append(stars, gs)
	}
	return stars, nil
}
