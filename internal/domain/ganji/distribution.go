package ganji

// ElementDistribution counts the elements of the eight visible characters of
// a chart (four stems, four branches).
type ElementDistribution struct {
	Wood  int `json:"wood"`
	Fire  int `json:"fire"`
	Earth int `json:"earth"`
	Metal int `json:"metal"`
	Water int `json:"water"`
}

// DistributionOf counts the visible elements of a pillar set.
func DistributionOf(ps PillarSet) ElementDistribution {
	var d ElementDistribution
	for _, p := range ps {
		d.add(p.Stem.Element())
		d.add(p.Branch.Element())
	}
	return d
}

func (d *ElementDistribution) add(e Element) {
	switch e {
	case Wood:
		d.Wood++
	case Fire:
		d.Fire++
	case Earth:
		d.Earth++
	case Metal:
		d.Metal++
	case Water:
		d.Water++
	}
}

// Count returns the count for one element.
func (d ElementDistribution) Count(e Element) int {
	switch e {
	case Wood:
		return d.Wood
	case Fire:
		return d.Fire
	case Earth:
		return d.Earth
	case Metal:
		return d.Metal
	case Water:
		return d.Water
	}
	return 0
}

// Total returns the number of counted characters.
func (d ElementDistribution) Total() int {
	return d.Wood + d.Fire + d.Earth + d.Metal + d.Water
}

// Dominant returns the element with the highest count and whether it is
// unique (no tie for first place).
func (d ElementDistribution) Dominant() (Element, bool) {
	best, bestCount, unique := Wood, -1, false
	for _, e := range Elements() {
		c := d.Count(e)
		switch {
		case c > bestCount:
			best, bestCount, unique = e, c, true
		case c == bestCount:
			unique = false
		}
	}
	return best, unique
}

//Personal.AI order the ending
