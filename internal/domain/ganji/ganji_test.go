package ganji

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElementCycle_NoFixedPoint(t *testing.T) {
	for _, e := range Elements() {
		assert.NotEqual(t, e, e.Generates(), "%s generates itself", e)
		assert.NotEqual(t, e, e.Controls(), "%s controls itself", e)
		assert.Equal(t, e, e.Generates().GeneratedBy())
		assert.Equal(t, e, e.Controls().ControlledBy())
		// No 2-cycle between an element and its controller.
		assert.NotEqual(t, e, e.ControlledBy().ControlledBy())
	}
}

func TestElementCycle_KnownRelations(t *testing.T) {
	assert.Equal(t, Fire, Wood.Generates())
	assert.Equal(t, Earth, Wood.Controls())
	assert.Equal(t, Metal, Wood.ControlledBy())
	assert.Equal(t, Water, Wood.GeneratedBy())
	assert.Equal(t, Wood, Water.Generates())
	assert.Equal(t, Fire, Water.Controls())
}

func TestParseElement(t *testing.T) {
	e, err := ParseElement(" metal ")
	require.NoError(t, err)
	assert.Equal(t, Metal, e)

	_, err = ParseElement("Aether")
	assert.Error(t, err)
}

func TestStemProperties(t *testing.T) {
	cases := []struct {
		stem     Stem
		element  Element
		polarity Polarity
	}{
		{Jia, Wood, PolarityYang}, {Yi, Wood, PolarityYin},
		{Bing, Fire, PolarityYang}, {Ding, Fire, PolarityYin},
		{StemWu, Earth, PolarityYang}, {Ji, Earth, PolarityYin},
		{Geng, Metal, PolarityYang}, {Xin, Metal, PolarityYin},
		{Ren, Water, PolarityYang}, {Gui, Water, PolarityYin},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.element, tc.stem.Element(), tc.stem.String())
		assert.Equal(t, tc.polarity, tc.stem.Polarity(), tc.stem.String())
	}
}

func TestBranchPrincipalStems(t *testing.T) {
	want := map[Branch]Stem{
		Zi: Gui, Chou: Ji, Yin: Jia, Mao: Yi, Chen: StemWu, Si: Bing,
		BranchWu: Ding, Wei: Ji, Shen: Geng, You: Xin, Xu: StemWu, Hai: Ren,
	}
	for b, s := range want {
		assert.Equal(t, s, b.PrincipalStem(), b.String())
		assert.Equal(t, b.Element(), b.PrincipalStem().Element(), "principal stem of %s shares its element", b)
	}
}

func TestHiddenStems_ReturnsCopy(t *testing.T) {
	hs := Yin.HiddenStems()
	hs[0] = Gui
	assert.Equal(t, StemWu, Yin.HiddenStems()[0])
}

func TestParseStemAndBranch_SharedName(t *testing.T) {
	s, err := ParseStem("Wu")
	require.NoError(t, err)
	assert.Equal(t, StemWu, s)

	b, err := ParseBranch("wu")
	require.NoError(t, err)
	assert.Equal(t, BranchWu, b)

	_, err = ParseBranch("Jia")
	assert.Error(t, err)
}

func TestPillarFromIndex_AllSixty(t *testing.T) {
	seen := make(map[Pillar]bool)
	for i := 0; i < 60; i++ {
		p := PillarFromIndex(i)
		assert.Equal(t, Stem(i%10), p.Stem)
		assert.Equal(t, Branch(i%12), p.Branch)
		assert.Equal(t, i, p.Index())
		assert.False(t, seen[p], "pillar %s repeated", p)
		seen[p] = true
	}
	assert.Equal(t, PillarFromIndex(0), PillarFromIndex(60))
	assert.Equal(t, PillarFromIndex(59), PillarFromIndex(-1))
}

func TestNewPillar_RejectsParityMismatch(t *testing.T) {
	_, err := NewPillar(Jia, Chou)
	assert.Error(t, err)

	p, err := NewPillar(Jia, Zi)
	require.NoError(t, err)
	assert.Equal(t, "JiaZi", p.String())
}

func TestAdjacent(t *testing.T) {
	assert.True(t, Adjacent(YearPosition, MonthPosition))
	assert.True(t, Adjacent(HourPosition, DayPosition))
	assert.False(t, Adjacent(YearPosition, DayPosition))
	assert.False(t, Adjacent(MonthPosition, MonthPosition))
}

func TestTenGodOf(t *testing.T) {
	cases := []struct {
		target Stem
		want   TenGod
	}{
		{Jia, BiJian}, {Yi, JieCai},
		{Bing, ShiShen}, {Ding, ShangGuan},
		{StemWu, PianCai}, {Ji, ZhengCai},
		{Geng, QiSha}, {Xin, ZhengGuan},
		{Ren, PianYin}, {Gui, ZhengYin},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, TenGodOf(Jia, tc.target), tc.target.String())
	}
	// Yin day master flips the polarity variants.
	assert.Equal(t, JieCai, TenGodOf(Yi, Jia))
	assert.Equal(t, ZhengGuan, TenGodOf(Yi, Geng))
	assert.Equal(t, "companion-same-polarity", BiJian.String())
}

func TestCategory_ElementFor(t *testing.T) {
	assert.Equal(t, Wood, Companion.ElementFor(Wood))
	assert.Equal(t, Fire, Output.ElementFor(Wood))
	assert.Equal(t, Earth, Wealth.ElementFor(Wood))
	assert.Equal(t, Metal, Authority.ElementFor(Wood))
	assert.Equal(t, Water, Resource.ElementFor(Wood))
	for _, dm := range Elements() {
		for _, e := range Elements() {
			assert.Equal(t, e, CategoryOf(dm, e).ElementFor(dm))
		}
	}
}

func TestDistributionOf(t *testing.T) {
	ps := NewPillarSet(
		MustPillar(Jia, Yin),
		MustPillar(Bing, Yin),
		MustPillar(Jia, Zi),
		MustPillar(Geng, BranchWu),
	)
	d := DistributionOf(ps)
	assert.Equal(t, 8, d.Total())
	assert.Equal(t, 4, d.Wood)
	assert.Equal(t, 2, d.Fire)
	assert.Equal(t, 1, d.Metal)
	assert.Equal(t, 1, d.Water)

	dom, unique := d.Dominant()
	assert.Equal(t, Wood, dom)
	assert.True(t, unique)
}

func TestPillarSet_MarshalJSON(t *testing.T) {
	ps := NewPillarSet(MustPillar(Jia, Zi), MustPillar(Bing, Yin), MustPillar(StemWu, BranchWu), MustPillar(Ren, Zi))
	raw, err := json.Marshal(ps)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"year":  {"stem":"Jia","branch":"Zi"},
		"month": {"stem":"Bing","branch":"Yin"},
		"day":   {"stem":"Wu","branch":"Wu"},
		"hour":  {"stem":"Ren","branch":"Zi"}
	}`, string(raw))
	assert.Equal(t, StemWu, ps.DayMaster())
}

//Personal.AI order the ending
