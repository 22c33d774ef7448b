package visit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/visitparse/visit"
	"github.com/c360studio/visitparse/visit/parser"
)

const calibrationVisit = `# NIRISS External Calibration
VISIT V00744008001 ,VISITYPE=PRIME_TARGETED_FIXED;
AUX ,WFSVISIT=SENSING_ONLY;
DITHER ,ID=1 ,NAME=ROTATION_01;
GROUP 1;
SEQ 1;
SLEW 01 ,SCSLEWMAIN ,GSRA=80.349 ,GSDEC=-69.5456 ,GSPA=30;
ACT 02 ,FGSMAIN ,DETECTOR=GUIDER1 ,GSXSCI=512.2 ,GSYSCI=312.8 ,GSRA=80.349 ,GSDEC=-69.5456 ,GSROLLSCI=30.2;
ACT 03 ,NISMAIN ,OPMODE=IMAGE ,NINTS=1 ,NGROUPS=4 ,PUPIL=CLEARP ,FILTER=F200W ,SUBARRAY=FULL;
ACT 04 ,MIRMAIN ,OPMODE=SLOW;
GROUP 2;
SEQ 1;
ACT 01 ,NRCMAIN ,CONFIG=NRCA3 ,NGROUPS=4 ,NINTS=1 ,FILTSHORTA=F212N ,FILTLONGA=F480M;
`

func parseSample(t *testing.T) *visit.Visit {
	t.Helper()
	v, err := parser.Parse([]byte(calibrationVisit))
	require.NoError(t, err)
	return v
}

func TestVisit_SummaryTable(t *testing.T) {
	v := parseSample(t)

	summary := v.SummaryTable()
	assert.Equal(t, []string{"GROUP_ID", "SEQ_ID", "ACT_ID", "GSA", "TYPE", "SCRIPT"}, summary.Columns())
	require.Equal(t, 5, summary.Len())
	assert.Equal(t, []string{"1", "1", "1", "01101", "SLEW", "SCSLEWMAIN"}, summary.Row(0))
	assert.Equal(t, []string{"1", "1", "3", "01103", "ACT", "NISMAIN"}, summary.Row(2))
	assert.Equal(t, []string{"2", "1", "1", "02101", "ACT", "NRCMAIN"}, summary.Row(4))

	// The flat statement list is parallel to the summary rows.
	require.Len(t, v.Activities, summary.Len())
	for i, act := range v.Activities {
		assert.Equal(t, act.GSA(), summary.Row(i)[3])
	}
}

func TestVisit_ActivityLookup(t *testing.T) {
	v := parseSample(t)

	act, ok := v.Activity("01103")
	require.True(t, ok)
	assert.Equal(t, "NISMAIN", act.ScriptName())

	_, ok = v.Activity("09999")
	assert.False(t, ok)
}

func TestVisit_String(t *testing.T) {
	v := parseSample(t)
	s := v.String()
	assert.Contains(t, s, "V00744008001")
	assert.Contains(t, s, "NIRISS External Calibration")
}

func TestOverview_Niriss(t *testing.T) {
	v := parseSample(t)

	table, err := v.Overview("NIRISS")
	require.NoError(t, err)

	// MIRMAIN and the slew/guide rows are filtered out; NIS and NRC
	// prefixed scripts stay.
	gsas, err := table.Column("GSA")
	require.NoError(t, err)
	assert.Equal(t, []string{"01103", "02101"}, gsas)

	assert.Equal(t, []string{
		"GROUP_ID", "SEQ_ID", "ACT_ID", "GSA", "TYPE", "SCRIPT",
		"OPMODE", "TARGTYPE", "DITHERID", "PATTERN", "NINTS",
		"NGROUPS", "PUPIL", "FILTER", "SUBARRAY",
	}, table.Columns())

	row := table.Row(0)
	assert.Equal(t, "IMAGE", row[6])    // OPMODE
	assert.Equal(t, "NONE", row[7])     // TARGTYPE absent
	assert.Equal(t, "1", row[10])       // NINTS
	assert.Equal(t, "F200W", row[13])   // FILTER
	assert.Equal(t, "FULL", row[14])    // SUBARRAY

	// Each recognized row appears exactly once.
	seen := map[string]int{}
	for _, gsa := range gsas {
		seen[gsa]++
	}
	for gsa, n := range seen {
		assert.Equal(t, 1, n, "gsa %s", gsa)
	}
}

func TestOverview_UnsupportedInstrumentReturnsSummary(t *testing.T) {
	v := parseSample(t)

	table, err := v.Overview("unknown")
	require.NoError(t, err)
	assert.True(t, table.Equal(v.SummaryTable()))
}

func TestOverview_DuplicateGSARejected(t *testing.T) {
	content := "# T\nVISIT 1;GROUP 1;SEQ 1;ACT 01 ,NISMAIN;ACT 01 ,NISMAIN;"
	v, err := parser.Parse([]byte(content))
	require.NoError(t, err)

	_, err = v.Overview("niriss")
	assert.Error(t, err)
}

func TestInstrumentRegistry_CustomInstrument(t *testing.T) {
	reg := visit.NewInstrumentRegistry()
	reg.Register(visit.Instrument{
		Name:           "miri",
		ScriptPrefixes: []string{"MIR"},
		Columns:        []string{"OPMODE"},
	})

	v := parseSample(t)
	table, err := v.OverviewWith(reg, "MIRI")
	require.NoError(t, err)

	gsas, err := table.Column("GSA")
	require.NoError(t, err)
	assert.Equal(t, []string{"01104"}, gsas)
	assert.Equal(t, "SLOW", table.Row(0)[6])

	assert.Contains(t, reg.Names(), "miri")
}

func TestCrossCheckWFSC(t *testing.T) {
	v := parseSample(t)

	// NRCMAIN is not a WFSC script; the check passes without AUX
	// requirements.
	check, err := v.CrossCheckWFSC()
	require.NoError(t, err)
	assert.False(t, check.WFSC)
	assert.Len(t, check.Slews, 2)      // slew + guide
	assert.Len(t, check.Activities, 3) // science activities
}

func TestCrossCheckWFSC_MissingAux(t *testing.T) {
	content := "# T\nVISIT 1;GROUP 1;SEQ 1;ACT 01 ,NRCWFSCMAIN ,CONFIG=NRCA3;"
	v, err := parser.Parse([]byte(content))
	require.NoError(t, err)

	check, err := v.CrossCheckWFSC()
	assert.ErrorIs(t, err, visit.ErrMissingAux)
	require.NotNil(t, check)
	assert.True(t, check.WFSC)

	// With an AUX statement the check passes.
	content = "# T\nVISIT 1;AUX ,WFSVISIT=SENSING_ONLY;GROUP 1;SEQ 1;ACT 01 ,NRCWFSCMAIN ,CONFIG=NRCA3;"
	v, err = parser.Parse([]byte(content))
	require.NoError(t, err)
	_, err = v.CrossCheckWFSC()
	assert.NoError(t, err)
}

func TestGuideStars_Fallback(t *testing.T) {
	content := "# T\n" +
		"VISIT 1;GROUP 1;SEQ 1;" +
		"ACT 01 ,FGSMAIN ,DETECTOR=GUIDER1 ,GSXSCI=512.2 ,GSYSCI=312.8 ,GSRA=80.349 ,GSDEC=-69.5456 ,GSROLLSCI=30.2;" +
		"GROUP 2;SEQ 1;" +
		"ACT 01 ,FGSMAIN ,DETECTOR=GUIDER2 ,GSXSCI=100.5 ,GSYSCI=200.5 ,GSROLLSCI=31.0;"

	v, err := parser.Parse([]byte(content))
	require.NoError(t, err)

	stars, err := v.GuideStars()
	require.NoError(t, err)
	require.Len(t, stars, 2)

	assert.Equal(t, "GUIDER1", stars[0].Detector)
	assert.InDelta(t, 80.349, stars[0].RA, 1e-9)

	// The second guide statement omits GSRA/GSDEC; the earlier values
	// carry forward.
	assert.Equal(t, "GUIDER2", stars[1].Detector)
	assert.InDelta(t, 80.349, stars[1].RA, 1e-9)
	assert.InDelta(t, -69.5456, stars[1].Dec, 1e-9)
	assert.InDelta(t, 31.0, stars[1].RollSci, 1e-9)
}

func TestGuideStars_NoSkyCoordinates(t *testing.T) {
	content := "# T\nVISIT 1;GROUP 1;SEQ 1;" +
		"ACT 01 ,FGSMAIN ,DETECTOR=GUIDER1 ,GSXSCI=1 ,GSYSCI=2 ,GSROLLSCI=3;"

	v, err := parser.Parse([]byte(content))
	require.NoError(t, err)

	_, err = v.GuideStars()
	assert.Error(t, err)
}

func TestDescribe(t *testing.T) {
	v := parseSample(t)

	slew, ok := v.Activity("01101")
	require.True(t, ok)
	desc, err := slew.Describe()
	require.NoError(t, err)
	assert.Equal(t, "for N/A on GS at (80.349, -69.5456) with PA=30", desc)

	guide, ok := v.Activity("01102")
	require.True(t, ok)
	desc, err = guide.Describe()
	require.NoError(t, err)
	assert.Equal(t, "FGS1", desc)

	nrc, ok := v.Activity("02101")
	require.True(t, ok)
	desc, err = nrc.Describe()
	require.NoError(t, err)
	assert.Equal(t, "NRCMAIN  NRCA3 Readout=4 groups, 1 ints SW=F212N, LW=F480M", desc)

	// Scripts without a registered describer fall back to the name.
	nis, ok := v.Activity("01103")
	require.True(t, ok)
	desc, err = nis.Describe()
	require.NoError(t, err)
	assert.Equal(t, "NISMAIN", desc)
}

func TestDescribe_Verification(t *testing.T) {
	content := "# T\nVISIT 1;GROUP 1;SEQ 1;ACT 01 ,FGSVERMAIN;"
	v, err := parser.Parse([]byte(content))
	require.NoError(t, err)

	desc, err := v.Activities[0].Describe()
	require.NoError(t, err)
	assert.Equal(t, "Verification", desc)
}

func TestDescribe_IncompleteFields(t *testing.T) {
	content := "# T\nVISIT 1;GROUP 1;SEQ 1;" +
		"ACT 01 ,NRCSUBMAIN;" +
		"ACT 02 ,SCSAMMAIN ,DELTAX=1.5 ,DELTAY=-0.5 ,DELTAPA=0.25;"
	v, err := parser.Parse([]byte(content))
	require.NoError(t, err)

	_, err = v.Activities[0].Describe()
	assert.ErrorIs(t, err, visit.ErrIncompleteDescription)

	desc, err := v.Activities[1].Describe()
	require.NoError(t, err)
	assert.Equal(t, "SCSAMMAIN  dx=1.5, dy=-0.5, dpa=0.25", desc)
}

func TestDescribe_WFCPModuleSelection(t *testing.T) {
	content := "# T\nVISIT 1;GROUP 1;SEQ 1;" +
		"ACT 01 ,NRCWFCPMAIN ,CONFIG=NRCB1 ,FILTSHORTB=F212N ,PUPILSHORTB=WLP8 ,NGROUPS=4 ,NINTS=1;"
	v, err := parser.Parse([]byte(content))
	require.NoError(t, err)

	desc, err := v.Activities[0].Describe()
	require.NoError(t, err)
	assert.Equal(t, "NRCWFCPMAIN  F212N+WLP8 Readout=4 groups, 1 ints", desc)
}
