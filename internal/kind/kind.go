package kind

// Kind tags one spawnable object type. Every kind maps to exactly one geometry
// generator and one visibility policy.
type Kind string

const (
	Oak      Kind = "oak"
	Birch    Kind = "birch"
	Pine     Kind = "pine"
	SnowPine Kind = "snow_pine"
	Palm     Kind = "palm"
	DeadTree Kind = "dead_tree"
	Cactus   Kind = "cactus"

	Boulder        Kind = "boulder"
	OreNode        Kind = "ore_node"
	BerryBush      Kind = "berry_bush"
	CrystalCluster Kind = "crystal_cluster"

	Driftwood     Kind = "driftwood"
	GiantMushroom Kind = "giant_mushroom"
	IceSpike      Kind = "ice_spike"
	Stump         Kind = "stump"
	FallenLog     Kind = "fallen_log"
	Bones         Kind = "bones"

	Grass     Kind = "grass"
	Flower    Kind = "flower"
	Pebble    Kind = "pebble"
	Fern      Kind = "fern"
	Mushroom  Kind = "mushroom"
	DeadBush  Kind = "dead_bush"
	Reed      Kind = "reed"
	SnowTuft  Kind = "snow_tuft"
)

// Class groups kinds by the spawn slot they fill.
type Class int

const (
	ClassTree Class = iota
	ClassResource
	ClassDecoration
	ClassGroundCover
)

func (c Class) String() string {
	switch c {
	case ClassTree:
		return "tree"
	case ClassResource:
		return "resource"
	case ClassDecoration:
		return "decoration"
	case ClassGroundCover:
		return "ground_cover"
	default:
		return "unknown"
	}
}

// Visibility is the far-draw distance plus the fade margin in front of it.
type Visibility struct {
	FarDistance float64
	FadeMargin  float64
}

// Alpha returns 1 up to FarDistance-FadeMargin, fades linearly to 0 at
// FarDistance and stays 0 beyond.
func (v Visibility) Alpha(distance float64) float64 {
	if distance >= v.FarDistance {
		return 0
	}
	start := v.FarDistance - v.FadeMargin
	if distance <= start || v.FadeMargin <= 0 {
		return 1
	}
	return (v.FarDistance - distance) / v.FadeMargin
}

// Info is the static catalog entry for a kind.
type Info struct {
	Kind         Kind
	Class        Class
	Harvestable  bool
	Batched      bool
	Visibility   Visibility
	PreviewColor string
}

var (
	treeView  = Visibility{FarDistance: 220, FadeMargin: 30}
	largeView = Visibility{FarDistance: 140, FadeMargin: 20}
	smallView = Visibility{FarDistance: 90, FadeMargin: 15}
	coverView = Visibility{FarDistance: 60, FadeMargin: 12}
)

var catalog = []Info{
	{Kind: Oak, Class: ClassTree, Harvestable: true, Visibility: treeView, PreviewColor: "#2f7d32"},
	{Kind: Birch, Class: ClassTree, Harvestable: true, Visibility: treeView, PreviewColor: "#8bc34a"},
	{Kind: Pine, Class: ClassTree, Harvestable: true, Visibility: treeView, PreviewColor: "#1b5e20"},
	{Kind: SnowPine, Class: ClassTree, Harvestable: true, Visibility: treeView, PreviewColor: "#cfe8dc"},
	{Kind: Palm, Class: ClassTree, Harvestable: true, Visibility: treeView, PreviewColor: "#9ccc65"},
	{Kind: DeadTree, Class: ClassTree, Harvestable: true, Visibility: treeView, PreviewColor: "#6d4c41"},
	{Kind: Cactus, Class: ClassTree, Harvestable: true, Visibility: largeView, PreviewColor: "#558b2f"},

	{Kind: Boulder, Class: ClassResource, Harvestable: true, Visibility: largeView, PreviewColor: "#8d8d8d"},
	{Kind: OreNode, Class: ClassResource, Harvestable: true, Visibility: largeView, PreviewColor: "#b87333"},
	{Kind: BerryBush, Class: ClassResource, Harvestable: true, Visibility: smallView, PreviewColor: "#c2185b"},
	{Kind: CrystalCluster, Class: ClassResource, Harvestable: true, Visibility: largeView, PreviewColor: "#7e57c2"},

	{Kind: Driftwood, Class: ClassDecoration, Visibility: smallView, PreviewColor: "#a1887f"},
	{Kind: GiantMushroom, Class: ClassDecoration, Visibility: largeView, PreviewColor: "#e53935"},
	{Kind: IceSpike, Class: ClassDecoration, Visibility: largeView, PreviewColor: "#b3e5fc"},
	{Kind: Stump, Class: ClassDecoration, Visibility: smallView, PreviewColor: "#795548"},
	{Kind: FallenLog, Class: ClassDecoration, Visibility: smallView, PreviewColor: "#5d4037"},
	{Kind: Bones, Class: ClassDecoration, Visibility: smallView, PreviewColor: "#efebe9"},

	{Kind: Grass, Class: ClassGroundCover, Batched: true, Visibility: coverView, PreviewColor: "#66bb6a"},
	{Kind: Flower, Class: ClassGroundCover, Visibility: coverView, PreviewColor: "#fdd835"},
	{Kind: Pebble, Class: ClassGroundCover, Visibility: coverView, PreviewColor: "#9e9e9e"},
	{Kind: Fern, Class: ClassGroundCover, Visibility: coverView, PreviewColor: "#388e3c"},
	{Kind: Mushroom, Class: ClassGroundCover, Visibility: coverView, PreviewColor: "#d7ccc8"},
	{Kind: DeadBush, Class: ClassGroundCover, Visibility: coverView, PreviewColor: "#a1887f"},
	{Kind: Reed, Class: ClassGroundCover, Visibility: coverView, PreviewColor: "#aed581"},
	{Kind: SnowTuft, Class: ClassGroundCover, Visibility: coverView, PreviewColor: "#f5f5f5"},
}

var byKind = func() map[Kind]Info {
	m := make(map[Kind]Info, len(catalog))
	for _, info := range catalog {
		m[info.Kind] = info
	}
	return m
}()

// Lookup returns the catalog entry for k.
func Lookup(k Kind) (Info, bool) {
	info, ok := byKind[k]
	return info, ok
}

// All returns every catalog entry in declaration order.
func All() []Info {
	out := make([]Info, len(catalog))
	copy(out, catalog)
	return out
}

// OfClass returns the kinds of one class in declaration order.
func OfClass(c Class) []Kind {
	var out []Kind
	for _, info := range catalog {
		if info.Class == c {
			out = append(out, info.Kind)
		}
	}
	return out
}

func (k Kind) Harvestable() bool {
	return byKind[k].Harvestable
}

func (k Kind) Batched() bool {
	return byKind[k].Batched
}
