// Package gyeokguk classifies a chart's structural pattern in four ordered
// phases: stem transformation, following strength, single-element dominance
// and the standard month-branch pattern.
package gyeokguk

import (
	"strings"

	"github.com/turtacn/saju-engine/internal/domain/ganji"
	"github.com/turtacn/saju-engine/pkg/errors"
)

// Category is the mutually exclusive pattern family.
type Category string

const (
	CategoryStandard          Category = "standard"
	CategoryFollowingStrength Category = "following-strength"
	CategoryTransformation    Category = "transformation"
	CategoryDominance         Category = "single-element-dominance"
)

// Pattern is the structural type within a category.
type Pattern string

// Standard patterns, one per ten-god of the month branch's principal stem.
const (
	Jianlu    Pattern = "jianlu"
	Yangren   Pattern = "yangren"
	Shishen   Pattern = "shishen"
	Shangguan Pattern = "shangguan"
	Piancai   Pattern = "piancai"
	Zhengcai  Pattern = "zhengcai"
	Qisha     Pattern = "qisha"
	Zhengguan Pattern = "zhengguan"
	Pianyin   Pattern = "pianyin"
	Zhengyin  Pattern = "zhengyin"
)

// Following-strength patterns.
const (
	ZongQiang Pattern = "zong-qiang"
	CongSha   Pattern = "cong-sha"
	CongEr    Pattern = "cong-er"
	CongCai   Pattern = "cong-cai"
	CongShi   Pattern = "cong-shi"
)

// Transformation patterns, named by the transformed element.
const (
	HwaMok  Pattern = "hwa-mok"
	HwaHwa  Pattern = "hwa-hwa"
	HwaTo   Pattern = "hwa-to"
	HwaGeum Pattern = "hwa-geum"
	HwaSu   Pattern = "hwa-su"
)

// Single-element dominance patterns, named by the day master's element.
const (
	QuZhi    Pattern = "qu-zhi"
	YanShang Pattern = "yan-shang"
	JiaSe    Pattern = "jia-se"
	CongGe   Pattern = "cong-ge"
	RunXia   Pattern = "run-xia"
)

var standardByTenGod = [ganji.TenGodCount]Pattern{
	ganji.BiJian:    Jianlu,
	ganji.JieCai:    Yangren,
	ganji.ShiShen:   Shishen,
	ganji.ShangGuan: Shangguan,
	ganji.PianCai:   Piancai,
	ganji.ZhengCai:  Zhengcai,
	ganji.QiSha:     Qisha,
	ganji.ZhengGuan: Zhengguan,
	ganji.PianYin:   Pianyin,
	ganji.ZhengYin:  Zhengyin,
}

var transformationByElement = [ganji.ElementCount]Pattern{
	ganji.Wood:  HwaMok,
	ganji.Fire:  HwaHwa,
	ganji.Earth: HwaTo,
	ganji.Metal: HwaGeum,
	ganji.Water: HwaSu,
}

var dominanceByElement = [ganji.ElementCount]Pattern{
	ganji.Wood:  QuZhi,
	ganji.Fire:  YanShang,
	ganji.Earth: JiaSe,
	ganji.Metal: CongGe,
	ganji.Water: RunXia,
}

// StandardPattern maps a ten-god to its standard pattern.
func StandardPattern(tg ganji.TenGod) Pattern { return standardByTenGod[tg] }

// TransformationPattern maps a transformed element to its pattern.
func TransformationPattern(e ganji.Element) Pattern { return transformationByElement[e] }

// DominancePattern maps a day-master element to its dominance pattern.
func DominancePattern(e ganji.Element) Pattern { return dominanceByElement[e] }

// TenGodFor returns the ten-god a standard pattern is built on.
func (p Pattern) TenGodFor() (ganji.TenGod, bool) {
	for tg, sp := range standardByTenGod {
		if sp == p {
			return ganji.TenGod(tg), true
		}
	}
	return 0, false
}

// Formation is the quality verdict of a standard pattern.
type Formation string

const (
	// FormationRevealed means the month's principal ten-god also appears on
	// a visible stem.
	FormationRevealed Formation = "revealed"
	FormationHidden   Formation = "hidden"
)

// Result is the determined pattern.
type Result struct {
	Pattern    Pattern        `json:"pattern"`
	Category   Category       `json:"category"`
	TenGod     *ganji.TenGod  `json:"ten_god,omitempty"`
	Element    *ganji.Element `json:"element,omitempty"`
	Confidence float64        `json:"confidence"`
	Reasoning  string         `json:"reasoning"`
	Formation  *Formation     `json:"formation,omitempty"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Thresholds and schools
// ─────────────────────────────────────────────────────────────────────────────

// School is a named threshold preset.
type School string

const (
	SchoolStandard  School = "standard"
	SchoolClassical School = "classical"
	SchoolModern    School = "modern"
)

// Thresholds bound the following-strength phase on the 0-100 support scale.
type Thresholds struct {
	Strong float64 `json:"strong" mapstructure:"strong"`
	Weak   float64 `json:"weak" mapstructure:"weak"`
}

// ParseSchool resolves a preset name; empty selects SchoolStandard.
func ParseSchool(s string) (School, error) {
	switch School(strings.ToLower(strings.TrimSpace(s))) {
	case "", SchoolStandard:
		return SchoolStandard, nil
	case SchoolClassical:
		return SchoolClassical, nil
	case SchoolModern:
		return SchoolModern, nil
	}
	return "", errors.Newf(errors.ErrCodeInvalidOptions, "unknown school %q", s)
}

// Thresholds returns the preset's following-strength thresholds.
func (s School) Thresholds() Thresholds {
	switch s {
	case SchoolClassical:
		return Thresholds{Strong: 85, Weak: 15}
	case SchoolModern:
		return Thresholds{Strong: 75, Weak: 25}
	}
	return Thresholds{Strong: 80, Weak: 20}
}

// Banhap reports whether the preset counts partial combinations.
func (s School) Banhap() bool { return s != SchoolClassical }

// Validate checks 0 <= Weak < Strong <= 100.
func (t Thresholds) Validate() error {
	if t.Weak < 0 || t.Strong > 100 || t.Weak >= t.Strong {
		return errors.Newf(errors.ErrCodeInvalidOptions, "following thresholds must satisfy 0 <= weak < strong <= 100, got weak=%.1f strong=%.1f", t.Weak, t.Strong)
	}
	return nil
}

//Personal.AI order the ending
